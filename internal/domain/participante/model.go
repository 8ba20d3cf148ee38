package participante

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNombresLength   = 100
	MaxDocumentoLength = 50
	MaxTelefonoLength  = 20
)

// Business rule constants
const (
	DocumentoCC        = "CC"
	DocumentoTI        = "TI"
	DocumentoCE        = "CE"
	DocumentoPasaporte = "PASAPORTE"

	GeneroMasculino = "MASCULINO"
	GeneroFemenino  = "FEMENINO"

	EstadoActivo   = "ACTIVO"
	EstadoInactivo = "INACTIVO"
)

// DateLayout is the wire format for all dates.
const DateLayout = "2006-01-02"

// ValidDate reports whether v is a real calendar date in YYYY-MM-DD form.
func ValidDate(v string) bool {
	_, err := time.Parse(DateLayout, v)
	return err == nil
}

// ValidDocumentType reports whether t is one of the accepted document types.
func ValidDocumentType(t string) bool {
	switch t {
	case DocumentoCC, DocumentoTI, DocumentoCE, DocumentoPasaporte:
		return true
	}
	return false
}

// Participante is a person enrolled at a sede.
type Participante struct {
	ID              int64  `json:"id"`
	Nombres         string `json:"nombres"`
	Apellidos       string `json:"apellidos"`
	TipoDocumento   string `json:"tipo_documento"`
	NumeroDocumento string `json:"numero_documento"`
	FechaNacimiento string `json:"fecha_nacimiento"`
	Genero          string `json:"genero"`
	FechaIngreso    string `json:"fecha_ingreso"`
	Estado          string `json:"estado"`
	IDSede          int64  `json:"id_sede"`
	Telefono        string `json:"telefono,omitempty"`
}

// NombreCompleto returns the display name used by read models.
func (p *Participante) NombreCompleto() string {
	return p.Nombres + " " + p.Apellidos
}

// ApplyDefaults fills the defaulted fields on creation.
// POST: Estado is non-empty
func (p *Participante) ApplyDefaults() {
	if p.Estado == "" {
		p.Estado = EstadoActivo
	}
}

// Validate checks if the Participante has valid data. Format checks only;
// referential checks (sede exists, documento unique) run against the stores.
// PRE: Participante struct is initialized, defaults applied
// POST: Returns error if validation fails, nil otherwise
func (p *Participante) Validate() error {
	if strings.TrimSpace(p.Nombres) == "" {
		return errors.New("los nombres son requeridos")
	}
	if len(p.Nombres) > MaxNombresLength {
		return errors.New("los nombres no pueden exceder 100 caracteres")
	}
	if strings.TrimSpace(p.Apellidos) == "" {
		return errors.New("los apellidos son requeridos")
	}
	if len(p.Apellidos) > MaxNombresLength {
		return errors.New("los apellidos no pueden exceder 100 caracteres")
	}
	if !ValidDocumentType(p.TipoDocumento) {
		return errors.New("el tipo de documento debe ser 'CC', 'TI', 'CE' o 'PASAPORTE'")
	}
	if strings.TrimSpace(p.NumeroDocumento) == "" {
		return errors.New("el numero de documento es requerido")
	}
	if len(p.NumeroDocumento) > MaxDocumentoLength {
		return errors.New("el numero de documento no puede exceder 50 caracteres")
	}
	if !ValidDate(p.FechaNacimiento) {
		return errors.New("fecha de nacimiento invalida, debe tener formato YYYY-MM-DD")
	}
	if p.Genero != GeneroMasculino && p.Genero != GeneroFemenino {
		return errors.New("el genero debe ser 'MASCULINO' o 'FEMENINO'")
	}
	if !ValidDate(p.FechaIngreso) {
		return errors.New("fecha de ingreso invalida, debe tener formato YYYY-MM-DD")
	}
	if p.Estado != EstadoActivo && p.Estado != EstadoInactivo {
		return errors.New("el estado debe ser 'ACTIVO' o 'INACTIVO'")
	}
	if p.IDSede <= 0 {
		return errors.New("id_sede es requerido")
	}
	if len(p.Telefono) > MaxTelefonoLength {
		return errors.New("el telefono no puede exceder 20 caracteres")
	}
	return nil
}
