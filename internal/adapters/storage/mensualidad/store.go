package mensualidad

import (
	"context"
	"errors"

	domain "almadash/internal/domain/mensualidad"
)

// Store errors.
var (
	ErrNotFound  = errors.New("mensualidad no encontrada")
	ErrDuplicate = errors.New("ya existe una mensualidad para ese participante en ese periodo")
)

// Store persists Mensualidad state.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Mensualidad, error)
	// List returns all mensualidades in insertion order.
	List(ctx context.Context) ([]domain.Mensualidad, error)
	// ListByParticipante returns the mensualidades recorded for one participante.
	ListByParticipante(ctx context.Context, participanteID int64) ([]domain.Mensualidad, error)
	// Insert stores a new mensualidad and returns it with the assigned id.
	Insert(ctx context.Context, m domain.Mensualidad) (domain.Mensualidad, error)
	// Update rewrites the full row; ErrNotFound if the id is absent.
	Update(ctx context.Context, m domain.Mensualidad) error
	// Delete removes the row; ErrNotFound if the id is absent.
	Delete(ctx context.Context, id int64) error

	// ExistsPeriodo reports whether another mensualidad covers the same
	// (participante, mes, año) period, skipping excludeID (0 skips nothing).
	ExistsPeriodo(ctx context.Context, participanteID int64, mes, anio int, excludeID int64) (bool, error)
	// CountByParticipante counts mensualidades recorded for the participante.
	CountByParticipante(ctx context.Context, participanteID int64) (int, error)
	// CountByAcudiente counts mensualidades attributed to the acudiente.
	CountByAcudiente(ctx context.Context, acudienteID int64) (int, error)
	Count(ctx context.Context) (int, error)
	// CountByEstado counts mensualidades with the given estado.
	CountByEstado(ctx context.Context, estado string) (int, error)
	// SumMontoByEstado totals the monto over mensualidades with the estado.
	SumMontoByEstado(ctx context.Context, estado string) (float64, error)
}
