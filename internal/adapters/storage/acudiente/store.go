package acudiente

import (
	"context"
	"errors"

	domain "almadash/internal/domain/acudiente"
)

// Store errors.
var (
	ErrNotFound  = errors.New("acudiente no encontrado")
	ErrDuplicate = errors.New("ya existe un acudiente con ese numero de documento")
)

// Store persists Acudiente state.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Acudiente, error)
	// List returns all acudientes in insertion order.
	List(ctx context.Context) ([]domain.Acudiente, error)
	// ListByParticipante returns the acudientes registered for one participante.
	ListByParticipante(ctx context.Context, participanteID int64) ([]domain.Acudiente, error)
	// Insert stores a new acudiente and returns it with the assigned id.
	Insert(ctx context.Context, a domain.Acudiente) (domain.Acudiente, error)
	// Update rewrites the full row; ErrNotFound if the id is absent.
	Update(ctx context.Context, a domain.Acudiente) error
	// Delete removes the row; ErrNotFound if the id is absent.
	Delete(ctx context.Context, id int64) error

	ExistsByID(ctx context.Context, id int64) (bool, error)
	// ExistsByDocumento skips excludeID (0 skips nothing).
	ExistsByDocumento(ctx context.Context, numeroDocumento string, excludeID int64) (bool, error)
	// ParticipanteIDOf returns the owning participante id, or ok=false when the
	// acudiente does not exist.
	ParticipanteIDOf(ctx context.Context, id int64) (participanteID int64, ok bool, err error)
	// CountByParticipante counts acudientes registered for the participante.
	CountByParticipante(ctx context.Context, participanteID int64) (int, error)
	Count(ctx context.Context) (int, error)
}
