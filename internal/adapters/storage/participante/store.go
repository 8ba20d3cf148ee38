package participante

import (
	"context"
	"errors"

	domain "almadash/internal/domain/participante"
)

// Store errors.
var (
	ErrNotFound  = errors.New("participante no encontrado")
	ErrDuplicate = errors.New("ya existe un participante con ese numero de documento")
)

// Store persists Participante state.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Participante, error)
	// List returns all participantes in insertion order.
	List(ctx context.Context) ([]domain.Participante, error)
	// Insert stores a new participante and returns it with the assigned id.
	Insert(ctx context.Context, p domain.Participante) (domain.Participante, error)
	// Update rewrites the full row; ErrNotFound if the id is absent.
	Update(ctx context.Context, p domain.Participante) error
	// Delete removes the row; ErrNotFound if the id is absent.
	Delete(ctx context.Context, id int64) error

	ExistsByID(ctx context.Context, id int64) (bool, error)
	// ExistsByDocumento skips excludeID (0 skips nothing).
	ExistsByDocumento(ctx context.Context, numeroDocumento string, excludeID int64) (bool, error)
	// CountBySede counts participantes enrolled at the sede.
	CountBySede(ctx context.Context, sedeID int64) (int, error)
	Count(ctx context.Context) (int, error)
}
