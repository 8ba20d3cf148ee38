package mensualidad

import (
	"errors"

	"almadash/internal/domain/participante"
)

// Business rule constants
const (
	EstadoPagada    = "PAGADA"
	EstadoPendiente = "PENDIENTE"

	MetodoTransferencia = "TRANSFERENCIA"
	MetodoEfectivo      = "EFECTIVO"

	MinAnio = 2020
	MaxAnio = 2030

	MaxObservacionesLength = 500
)

// Domain errors
var (
	ErrFechaPagoRequerida = errors.New("la fecha de pago es requerida cuando el estado es PAGADA")
)

// Mensualidad is one month's payment record for a participante,
// optionally attributed to an acudiente of that participante.
type Mensualidad struct {
	ID            int64   `json:"id"`
	ParticipantID int64   `json:"participant_id"`
	IDAcudiente   *int64  `json:"id_acudiente,omitempty"`
	Mes           int     `json:"mes"`
	Anio          int     `json:"año"`
	Monto         float64 `json:"monto"`
	Estado        string  `json:"estado"`
	MetodoPago    string  `json:"metodo_pago"`
	FechaPago     string  `json:"fecha_pago,omitempty"`
	Observaciones string  `json:"observaciones,omitempty"`
}

// ApplyDefaults fills the defaulted fields on creation.
// POST: Estado and MetodoPago are non-empty
func (m *Mensualidad) ApplyDefaults() {
	if m.Estado == "" {
		m.Estado = EstadoPendiente
	}
	if m.MetodoPago == "" {
		m.MetodoPago = MetodoTransferencia
	}
}

// IsPagada returns true if the payment has been made.
func (m *Mensualidad) IsPagada() bool {
	return m.Estado == EstadoPagada
}

// Validate checks if the Mensualidad has valid data. Format checks only;
// the PAGADA/fecha_pago rule and the uniqueness of (participante, mes, año)
// are enforced by the orchestrators over effective state.
// PRE: Mensualidad struct is initialized, defaults applied
// POST: Returns error if validation fails, nil otherwise
func (m *Mensualidad) Validate() error {
	if m.ParticipantID <= 0 {
		return errors.New("participant_id es requerido")
	}
	if m.IDAcudiente != nil && *m.IDAcudiente <= 0 {
		return errors.New("id_acudiente invalido")
	}
	if m.Mes < 1 || m.Mes > 12 {
		return errors.New("el mes debe estar entre 1 y 12")
	}
	if m.Anio < MinAnio || m.Anio > MaxAnio {
		return errors.New("el año debe estar entre 2020 y 2030")
	}
	if m.Monto <= 0 {
		return errors.New("el monto debe ser mayor que cero")
	}
	if m.Estado != EstadoPagada && m.Estado != EstadoPendiente {
		return errors.New("el estado debe ser 'PAGADA' o 'PENDIENTE'")
	}
	if m.MetodoPago != MetodoTransferencia && m.MetodoPago != MetodoEfectivo {
		return errors.New("el metodo de pago debe ser 'TRANSFERENCIA' o 'EFECTIVO'")
	}
	if m.FechaPago != "" && !participante.ValidDate(m.FechaPago) {
		return errors.New("fecha de pago invalida, debe tener formato YYYY-MM-DD")
	}
	if len(m.Observaciones) > MaxObservacionesLength {
		return errors.New("las observaciones no pueden exceder 500 caracteres")
	}
	return nil
}
