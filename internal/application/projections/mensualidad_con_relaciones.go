package projections

import (
	"context"
	"errors"
	"fmt"

	mensualidadstore "almadash/internal/adapters/storage/mensualidad"
	"almadash/internal/apperr"
	"almadash/internal/domain/acudiente"
	"almadash/internal/domain/mensualidad"
	"almadash/internal/domain/participante"
	"almadash/internal/domain/sede"
)

// MensualidadConRelaciones is a mensualidad joined with the participante,
// its sede, and the attributed acudiente. Valor and Status alias Monto and
// Estado for the dashboard frontend; they exist only on this read model.
type MensualidadConRelaciones struct {
	mensualidad.Mensualidad
	ParticipantName      string  `json:"participant_name"`
	ParticipantDocumento string  `json:"participant_documento"`
	SedeID               *int64  `json:"sede_id"`
	SedeName             string  `json:"sede_name"`
	AcudienteName        *string `json:"acudiente_name"`
	AcudienteDocumento   *string `json:"acudiente_documento"`
	Valor                float64 `json:"valor"`
	Status               string  `json:"status"`
}

// MensualidadConRelacionesDeps holds dependencies for the mensualidad read
// models.
type MensualidadConRelacionesDeps struct {
	Mensualidades MensualidadStore
	Participantes ParticipanteStore
	Acudientes    AcudienteStore
	Sedes         SedeStore
}

// lookup tables for the in-memory join.
type relaciones struct {
	participantes map[int64]participante.Participante
	sedes         map[int64]sede.Sede
	acudientes    map[int64]acudiente.Acudiente
}

func loadRelaciones(ctx context.Context, deps MensualidadConRelacionesDeps) (relaciones, error) {
	participantes, err := deps.Participantes.List(ctx)
	if err != nil {
		return relaciones{}, fmt.Errorf("list participantes: %w", err)
	}
	sedes, err := deps.Sedes.List(ctx)
	if err != nil {
		return relaciones{}, fmt.Errorf("list sedes: %w", err)
	}
	acudientes, err := deps.Acudientes.List(ctx)
	if err != nil {
		return relaciones{}, fmt.Errorf("list acudientes: %w", err)
	}

	r := relaciones{
		participantes: make(map[int64]participante.Participante, len(participantes)),
		sedes:         make(map[int64]sede.Sede, len(sedes)),
		acudientes:    make(map[int64]acudiente.Acudiente, len(acudientes)),
	}
	for _, p := range participantes {
		r.participantes[p.ID] = p
	}
	for _, s := range sedes {
		r.sedes[s.ID] = s
	}
	for _, a := range acudientes {
		r.acudientes[a.ID] = a
	}
	return r, nil
}

// enrich joins one mensualidad against the lookup tables. Dangling
// references degrade to "N/A" so the dashboard always renders.
func (r relaciones) enrich(m mensualidad.Mensualidad) MensualidadConRelaciones {
	out := MensualidadConRelaciones{
		Mensualidad: m,
		Valor:       m.Monto,
		Status:      m.Estado,
	}

	if p, ok := r.participantes[m.ParticipantID]; ok {
		out.ParticipantName = p.NombreCompleto()
		out.ParticipantDocumento = p.NumeroDocumento
		if s, ok := r.sedes[p.IDSede]; ok {
			sedeID := s.ID
			out.SedeID = &sedeID
			out.SedeName = s.Nombre
		}
	} else {
		out.ParticipantName = "N/A"
		out.ParticipantDocumento = "N/A"
		out.SedeName = "N/A"
	}

	if m.IDAcudiente != nil {
		if a, ok := r.acudientes[*m.IDAcudiente]; ok {
			nombre := a.NombreCompleto()
			documento := a.NumeroDocumento
			out.AcudienteName = &nombre
			out.AcudienteDocumento = &documento
		}
	}
	return out
}

// QueryMensualidadConRelaciones loads one mensualidad with its relations.
// POST: Returns the enriched row or KindNotFound
func QueryMensualidadConRelaciones(ctx context.Context, id int64, deps MensualidadConRelacionesDeps) (MensualidadConRelaciones, error) {
	m, err := deps.Mensualidades.GetByID(ctx, id)
	if errors.Is(err, mensualidadstore.ErrNotFound) {
		return MensualidadConRelaciones{}, apperr.NotFound("Mensualidad no encontrada")
	}
	if err != nil {
		return MensualidadConRelaciones{}, fmt.Errorf("load mensualidad %d: %w", id, err)
	}

	r, err := loadRelaciones(ctx, deps)
	if err != nil {
		return MensualidadConRelaciones{}, err
	}
	return r.enrich(m), nil
}

// QueryMensualidadesConRelaciones loads all mensualidades with their
// relations, joined in memory.
func QueryMensualidadesConRelaciones(ctx context.Context, deps MensualidadConRelacionesDeps) ([]MensualidadConRelaciones, error) {
	mensualidades, err := deps.Mensualidades.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list mensualidades: %w", err)
	}
	return enrichAll(ctx, mensualidades, deps)
}

// QueryMensualidadesDeParticipante loads the mensualidades recorded for one
// participante.
// POST: KindNotFound when the participante does not exist
func QueryMensualidadesDeParticipante(ctx context.Context, participanteID int64, deps MensualidadConRelacionesDeps) ([]MensualidadConRelaciones, error) {
	ok, err := deps.Participantes.ExistsByID(ctx, participanteID)
	if err != nil {
		return nil, fmt.Errorf("check participante %d: %w", participanteID, err)
	}
	if !ok {
		return nil, apperr.NotFound("Participante con ID %d no encontrado", participanteID)
	}

	mensualidades, err := deps.Mensualidades.ListByParticipante(ctx, participanteID)
	if err != nil {
		return nil, fmt.Errorf("list mensualidades of participante %d: %w", participanteID, err)
	}
	return enrichAll(ctx, mensualidades, deps)
}

func enrichAll(ctx context.Context, mensualidades []mensualidad.Mensualidad, deps MensualidadConRelacionesDeps) ([]MensualidadConRelaciones, error) {
	r, err := loadRelaciones(ctx, deps)
	if err != nil {
		return nil, err
	}
	out := make([]MensualidadConRelaciones, 0, len(mensualidades))
	for _, m := range mensualidades {
		out = append(out, r.enrich(m))
	}
	return out, nil
}
