package acudiente

import (
	"errors"
	"strings"

	"almadash/internal/domain/participante"
)

// Max length constants for user-editable fields.
const (
	MaxNombresLength    = 100
	MaxDocumentoLength  = 50
	MaxParentescoLength = 50
	MaxTelefonoLength   = 20
	MaxEmailLength      = 100
	MaxDireccionLength  = 200
)

// Acudiente is the guardian responsible for a participante.
type Acudiente struct {
	ID              int64  `json:"id_acudiente"`
	Nombres         string `json:"nombres"`
	Apellidos       string `json:"apellidos"`
	TipoDocumento   string `json:"tipo_documento"`
	NumeroDocumento string `json:"numero_documento"`
	Parentesco      string `json:"parentesco"`
	Telefono        string `json:"telefono"`
	Email           string `json:"email"`
	Direccion       string `json:"direccion"`
	IDParticipante  int64  `json:"id_participante"`
}

// NombreCompleto returns the display name used by read models.
func (a *Acudiente) NombreCompleto() string {
	return a.Nombres + " " + a.Apellidos
}

// ValidEmail reports whether v passes the basic shape check:
// an '@' followed somewhere by a '.'.
func ValidEmail(v string) bool {
	at := strings.Index(v, "@")
	if at < 0 {
		return false
	}
	return strings.Contains(v[at+1:], ".")
}

// Normalize lowercases the email. Stored and compared in that form.
func (a *Acudiente) Normalize() {
	a.Email = strings.ToLower(a.Email)
}

// Validate checks if the Acudiente has valid data.
// PRE: Acudiente struct is initialized and normalized
// POST: Returns error if validation fails, nil otherwise
func (a *Acudiente) Validate() error {
	if strings.TrimSpace(a.Nombres) == "" {
		return errors.New("los nombres son requeridos")
	}
	if len(a.Nombres) > MaxNombresLength {
		return errors.New("los nombres no pueden exceder 100 caracteres")
	}
	if strings.TrimSpace(a.Apellidos) == "" {
		return errors.New("los apellidos son requeridos")
	}
	if len(a.Apellidos) > MaxNombresLength {
		return errors.New("los apellidos no pueden exceder 100 caracteres")
	}
	if !participante.ValidDocumentType(a.TipoDocumento) {
		return errors.New("el tipo de documento debe ser 'CC', 'TI', 'CE' o 'PASAPORTE'")
	}
	if strings.TrimSpace(a.NumeroDocumento) == "" {
		return errors.New("el numero de documento es requerido")
	}
	if len(a.NumeroDocumento) > MaxDocumentoLength {
		return errors.New("el numero de documento no puede exceder 50 caracteres")
	}
	if strings.TrimSpace(a.Parentesco) == "" {
		return errors.New("el parentesco es requerido")
	}
	if len(a.Parentesco) > MaxParentescoLength {
		return errors.New("el parentesco no puede exceder 50 caracteres")
	}
	if strings.TrimSpace(a.Telefono) == "" {
		return errors.New("el telefono es requerido")
	}
	if len(a.Telefono) > MaxTelefonoLength {
		return errors.New("el telefono no puede exceder 20 caracteres")
	}
	if a.Email == "" || len(a.Email) > MaxEmailLength || !ValidEmail(a.Email) {
		return errors.New("email invalido")
	}
	if strings.TrimSpace(a.Direccion) == "" {
		return errors.New("la direccion es requerida")
	}
	if len(a.Direccion) > MaxDireccionLength {
		return errors.New("la direccion no puede exceder 200 caracteres")
	}
	if a.IDParticipante <= 0 {
		return errors.New("id_participante es requerido")
	}
	return nil
}
