package usuario

import (
	"errors"
	"strings"

	"almadash/internal/domain/acudiente"
)

// Business rule constants
const (
	RolAdministrador = "ADMINISTRADOR"
	RolConsulta      = "CONSULTA"

	MaxEmailLength    = 100
	MinPasswordLength = 8
	MaxPasswordLength = 100
)

// Usuario is a dashboard account record. The API manages usuarios as plain
// data; there is no login flow.
type Usuario struct {
	ID    int64  `json:"id_usuario"`
	Email string `json:"email"`
	Rol   string `json:"rol"`

	// PasswordHash is the bcrypt hash of the password. Never serialized.
	PasswordHash string `json:"-"`
}

// ApplyDefaults fills the defaulted fields on creation.
func (u *Usuario) ApplyDefaults() {
	if u.Rol == "" {
		u.Rol = RolConsulta
	}
}

// Normalize lowercases the email. Stored and compared in that form.
func (u *Usuario) Normalize() {
	u.Email = strings.ToLower(u.Email)
}

// Validate checks if the Usuario has valid data.
// PRE: Usuario struct is initialized, normalized, defaults applied
// POST: Returns error if validation fails, nil otherwise
func (u *Usuario) Validate() error {
	if u.Email == "" || len(u.Email) > MaxEmailLength || !acudiente.ValidEmail(u.Email) {
		return errors.New("email invalido")
	}
	if u.Rol != RolAdministrador && u.Rol != RolConsulta {
		return errors.New("el rol debe ser 'ADMINISTRADOR' o 'CONSULTA'")
	}
	return nil
}

// ValidatePassword checks the plaintext password bounds before hashing.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return errors.New("la contraseña debe tener al menos 8 caracteres")
	}
	if len(password) > MaxPasswordLength {
		return errors.New("la contraseña no puede exceder 100 caracteres")
	}
	return nil
}
