package usuario

import (
	"context"
	"errors"

	domain "almadash/internal/domain/usuario"
)

// Store errors.
var (
	ErrNotFound  = errors.New("usuario no encontrado")
	ErrDuplicate = errors.New("ya existe un usuario con ese email")
)

// Store persists Usuario state.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Usuario, error)
	// List returns all usuarios in insertion order.
	List(ctx context.Context) ([]domain.Usuario, error)
	// Insert stores a new usuario and returns it with the assigned id.
	Insert(ctx context.Context, u domain.Usuario) (domain.Usuario, error)
	// Update rewrites the full row; ErrNotFound if the id is absent.
	Update(ctx context.Context, u domain.Usuario) error
	// Delete removes the row; ErrNotFound if the id is absent.
	Delete(ctx context.Context, id int64) error

	// ExistsByEmail matches against the normalized (lowercase) email,
	// skipping excludeID (0 skips nothing).
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
}
