package projections

import (
	"context"
	"errors"
	"fmt"

	acudientestore "almadash/internal/adapters/storage/acudiente"
	participantestore "almadash/internal/adapters/storage/participante"
	"almadash/internal/apperr"
	"almadash/internal/domain/acudiente"
	"almadash/internal/domain/participante"
)

// AcudienteConParticipante is an acudiente with its participante attached.
// A dangling id_participante serializes as a null participante.
type AcudienteConParticipante struct {
	acudiente.Acudiente
	Participante *participante.Participante `json:"participante"`
}

// AcudienteConParticipanteDeps holds dependencies for the acudiente read
// models.
type AcudienteConParticipanteDeps struct {
	Acudientes    AcudienteStore
	Participantes ParticipanteStore
}

// QueryAcudienteConParticipante loads one acudiente with its participante.
// POST: Returns the enriched row or KindNotFound
func QueryAcudienteConParticipante(ctx context.Context, id int64, deps AcudienteConParticipanteDeps) (AcudienteConParticipante, error) {
	a, err := deps.Acudientes.GetByID(ctx, id)
	if errors.Is(err, acudientestore.ErrNotFound) {
		return AcudienteConParticipante{}, apperr.NotFound("Acudiente no encontrado")
	}
	if err != nil {
		return AcudienteConParticipante{}, fmt.Errorf("load acudiente %d: %w", id, err)
	}

	out := AcudienteConParticipante{Acudiente: a}
	p, err := deps.Participantes.GetByID(ctx, a.IDParticipante)
	switch {
	case err == nil:
		out.Participante = &p
	case !errors.Is(err, participantestore.ErrNotFound):
		// only a dangling reference degrades to a null participante
		return AcudienteConParticipante{}, fmt.Errorf("load participante %d: %w", a.IDParticipante, err)
	}
	return out, nil
}

// QueryAcudientesConParticipante loads all acudientes with their
// participantes, joined in memory.
func QueryAcudientesConParticipante(ctx context.Context, deps AcudienteConParticipanteDeps) ([]AcudienteConParticipante, error) {
	acudientes, err := deps.Acudientes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list acudientes: %w", err)
	}
	return attachParticipantes(ctx, acudientes, deps)
}

// QueryAcudientesDeParticipante loads the acudientes registered for one
// participante.
// POST: KindNotFound when the participante does not exist
func QueryAcudientesDeParticipante(ctx context.Context, participanteID int64, deps AcudienteConParticipanteDeps) ([]AcudienteConParticipante, error) {
	ok, err := deps.Participantes.ExistsByID(ctx, participanteID)
	if err != nil {
		return nil, fmt.Errorf("check participante %d: %w", participanteID, err)
	}
	if !ok {
		return nil, apperr.NotFound("Participante con ID %d no encontrado", participanteID)
	}

	acudientes, err := deps.Acudientes.ListByParticipante(ctx, participanteID)
	if err != nil {
		return nil, fmt.Errorf("list acudientes of participante %d: %w", participanteID, err)
	}
	return attachParticipantes(ctx, acudientes, deps)
}

func attachParticipantes(ctx context.Context, acudientes []acudiente.Acudiente, deps AcudienteConParticipanteDeps) ([]AcudienteConParticipante, error) {
	participantes, err := deps.Participantes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list participantes: %w", err)
	}
	participanteByID := make(map[int64]participante.Participante, len(participantes))
	for _, p := range participantes {
		participanteByID[p.ID] = p
	}

	out := make([]AcudienteConParticipante, 0, len(acudientes))
	for _, a := range acudientes {
		row := AcudienteConParticipante{Acudiente: a}
		if p, ok := participanteByID[a.IDParticipante]; ok {
			row.Participante = &p
		}
		out = append(out, row)
	}
	return out, nil
}
