package sede

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNombreLength    = 100
	MaxDireccionLength = 200
	MaxTelefonoLength  = 20
)

// Business rule constants
const (
	EstadoActiva   = "Activa"
	EstadoInactiva = "Inactiva"

	TipoPrincipal  = "Principal"
	TipoSecundaria = "Secundaria"
	TipoTemporal   = "Temporal"
)

// Sede is a site where participantes are enrolled.
type Sede struct {
	ID              int64   `json:"id"`
	Nombre          string  `json:"nombre"`
	Direccion       string  `json:"direccion"`
	Telefono        string  `json:"telefono,omitempty"`
	CapacidadMaxima *int    `json:"capacidad_maxima,omitempty"`
	Estado          string  `json:"estado"`
	Tipo            string  `json:"tipo"`
}

// NombreNormalizado returns the nombre as compared for uniqueness:
// surrounding whitespace stripped, lowercased.
func NombreNormalizado(nombre string) string {
	return strings.ToLower(strings.TrimSpace(nombre))
}

// ApplyDefaults fills the defaulted fields on creation.
// POST: Estado and Tipo are non-empty
func (s *Sede) ApplyDefaults() {
	if s.Estado == "" {
		s.Estado = EstadoActiva
	}
	if s.Tipo == "" {
		s.Tipo = TipoPrincipal
	}
}

// Validate checks if the Sede has valid data.
// PRE: Sede struct is initialized, defaults applied
// POST: Returns error if validation fails, nil otherwise
func (s *Sede) Validate() error {
	if strings.TrimSpace(s.Nombre) == "" {
		return errors.New("el nombre de la sede es requerido")
	}
	if len(s.Nombre) > MaxNombreLength {
		return errors.New("el nombre de la sede no puede exceder 100 caracteres")
	}
	if strings.TrimSpace(s.Direccion) == "" {
		return errors.New("la direccion de la sede es requerida")
	}
	if len(s.Direccion) > MaxDireccionLength {
		return errors.New("la direccion de la sede no puede exceder 200 caracteres")
	}
	if len(s.Telefono) > MaxTelefonoLength {
		return errors.New("el telefono no puede exceder 20 caracteres")
	}
	if s.CapacidadMaxima != nil && *s.CapacidadMaxima <= 0 {
		return errors.New("la capacidad maxima debe ser mayor que cero")
	}
	if s.Estado != EstadoActiva && s.Estado != EstadoInactiva {
		return errors.New("el estado debe ser 'Activa' o 'Inactiva'")
	}
	if s.Tipo != TipoPrincipal && s.Tipo != TipoSecundaria && s.Tipo != TipoTemporal {
		return errors.New("el tipo debe ser 'Principal', 'Secundaria' o 'Temporal'")
	}
	return nil
}
