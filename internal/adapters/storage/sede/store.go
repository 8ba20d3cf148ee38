package sede

import (
	"context"
	"errors"

	domain "almadash/internal/domain/sede"
)

// Store errors.
var (
	ErrNotFound  = errors.New("sede no encontrada")
	ErrDuplicate = errors.New("ya existe una sede con ese nombre")
)

// Store persists Sede state.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Sede, error)
	// List returns all sedes in insertion order.
	List(ctx context.Context) ([]domain.Sede, error)
	// Insert stores a new sede and returns it with the assigned id.
	Insert(ctx context.Context, s domain.Sede) (domain.Sede, error)
	// Update rewrites the full row; ErrNotFound if the id is absent.
	Update(ctx context.Context, s domain.Sede) error
	// Delete removes the row; ErrNotFound if the id is absent.
	Delete(ctx context.Context, id int64) error

	ExistsByID(ctx context.Context, id int64) (bool, error)
	// ExistsByNombre matches against the normalized (trim+lower) nombre,
	// skipping excludeID (0 skips nothing).
	ExistsByNombre(ctx context.Context, nombreNormalizado string, excludeID int64) (bool, error)
}
