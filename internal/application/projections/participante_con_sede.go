package projections

import (
	"context"
	"errors"
	"fmt"

	participantestore "almadash/internal/adapters/storage/participante"
	sedestore "almadash/internal/adapters/storage/sede"
	"almadash/internal/apperr"
	"almadash/internal/domain/participante"
	"almadash/internal/domain/sede"
)

// ParticipanteConSede is a participante with its sede attached. A dangling
// id_sede serializes as a null sede rather than an error.
type ParticipanteConSede struct {
	participante.Participante
	Sede *sede.Sede `json:"sede"`
}

// ParticipanteConSedeDeps holds dependencies for the participante read models.
type ParticipanteConSedeDeps struct {
	Participantes ParticipanteStore
	Sedes         SedeStore
}

// QueryParticipanteConSede loads one participante with its sede.
// POST: Returns the enriched row or KindNotFound
func QueryParticipanteConSede(ctx context.Context, id int64, deps ParticipanteConSedeDeps) (ParticipanteConSede, error) {
	p, err := deps.Participantes.GetByID(ctx, id)
	if errors.Is(err, participantestore.ErrNotFound) {
		return ParticipanteConSede{}, apperr.NotFound("Participante no encontrado")
	}
	if err != nil {
		return ParticipanteConSede{}, fmt.Errorf("load participante %d: %w", id, err)
	}

	out := ParticipanteConSede{Participante: p}
	s, err := deps.Sedes.GetByID(ctx, p.IDSede)
	switch {
	case err == nil:
		out.Sede = &s
	case !errors.Is(err, sedestore.ErrNotFound):
		// only a dangling reference degrades to a null sede
		return ParticipanteConSede{}, fmt.Errorf("load sede %d: %w", p.IDSede, err)
	}
	return out, nil
}

// QueryParticipantesConSede loads all participantes with their sedes. Sedes
// are read once and joined in memory.
func QueryParticipantesConSede(ctx context.Context, deps ParticipanteConSedeDeps) ([]ParticipanteConSede, error) {
	participantes, err := deps.Participantes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list participantes: %w", err)
	}
	sedes, err := deps.Sedes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sedes: %w", err)
	}

	sedeByID := make(map[int64]sede.Sede, len(sedes))
	for _, s := range sedes {
		sedeByID[s.ID] = s
	}

	out := make([]ParticipanteConSede, 0, len(participantes))
	for _, p := range participantes {
		row := ParticipanteConSede{Participante: p}
		if s, ok := sedeByID[p.IDSede]; ok {
			row.Sede = &s
		}
		out = append(out, row)
	}
	return out, nil
}
