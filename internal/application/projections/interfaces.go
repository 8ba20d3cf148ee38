// Package projections builds the enriched read models the dashboard
// consumes: entities joined with the rows their foreign keys point at.
package projections

import (
	"context"

	"almadash/internal/domain/acudiente"
	"almadash/internal/domain/mensualidad"
	"almadash/internal/domain/participante"
	"almadash/internal/domain/sede"
)

// SedeStore interface for sede queries.
type SedeStore interface {
	GetByID(ctx context.Context, id int64) (sede.Sede, error)
	List(ctx context.Context) ([]sede.Sede, error)
}

// ParticipanteStore interface for participante queries.
type ParticipanteStore interface {
	GetByID(ctx context.Context, id int64) (participante.Participante, error)
	List(ctx context.Context) ([]participante.Participante, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int, error)
}

// AcudienteStore interface for acudiente queries.
type AcudienteStore interface {
	GetByID(ctx context.Context, id int64) (acudiente.Acudiente, error)
	List(ctx context.Context) ([]acudiente.Acudiente, error)
	ListByParticipante(ctx context.Context, participanteID int64) ([]acudiente.Acudiente, error)
	Count(ctx context.Context) (int, error)
}

// MensualidadStore interface for mensualidad queries.
type MensualidadStore interface {
	GetByID(ctx context.Context, id int64) (mensualidad.Mensualidad, error)
	List(ctx context.Context) ([]mensualidad.Mensualidad, error)
	ListByParticipante(ctx context.Context, participanteID int64) ([]mensualidad.Mensualidad, error)
	Count(ctx context.Context) (int, error)
	CountByEstado(ctx context.Context, estado string) (int, error)
	SumMontoByEstado(ctx context.Context, estado string) (float64, error)
}
