package web

import (
	"net/http"

	"almadash/internal/apperr"
	"almadash/internal/application/orchestrators"
	"almadash/internal/application/projections"
)

func participanteConSedeDeps() projections.ParticipanteConSedeDeps {
	return projections.ParticipanteConSedeDeps{
		Participantes: stores.ParticipanteStore,
		Sedes:         stores.SedeStore,
	}
}

// handleListParticipantes handles GET /api/participantes. Rows come back with
// the sede attached.
func handleListParticipantes(w http.ResponseWriter, r *http.Request) {
	rows, err := projections.QueryParticipantesConSede(r.Context(), participanteConSedeDeps())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, rows)
}

// handleGetParticipante handles GET /api/participantes/{id}.
func handleGetParticipante(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	row, err := projections.QueryParticipanteConSede(r.Context(), id, participanteConSedeDeps())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, row)
}

type participanteBody struct {
	Nombres         *string `json:"nombres"`
	Apellidos       *string `json:"apellidos"`
	TipoDocumento   *string `json:"tipo_documento"`
	NumeroDocumento *string `json:"numero_documento"`
	FechaNacimiento *string `json:"fecha_nacimiento"`
	Genero          *string `json:"genero"`
	FechaIngreso    *string `json:"fecha_ingreso"`
	Estado          *string `json:"estado"`
	IDSede          *int64  `json:"id_sede"`
	Telefono        *string `json:"telefono"`
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// handleCreateParticipante handles POST /api/participantes.
// POST: 201 with the created row and its sede attached
func handleCreateParticipante(w http.ResponseWriter, r *http.Request) {
	var in participanteBody
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, apperr.New(apperr.KindValidation, "cuerpo JSON invalido"))
		return
	}

	input := orchestrators.CreateParticipanteInput{
		Nombres:         strOrEmpty(in.Nombres),
		Apellidos:       strOrEmpty(in.Apellidos),
		TipoDocumento:   strOrEmpty(in.TipoDocumento),
		NumeroDocumento: strOrEmpty(in.NumeroDocumento),
		FechaNacimiento: strOrEmpty(in.FechaNacimiento),
		Genero:          strOrEmpty(in.Genero),
		FechaIngreso:    strOrEmpty(in.FechaIngreso),
		Estado:          strOrEmpty(in.Estado),
		Telefono:        strOrEmpty(in.Telefono),
	}
	if in.IDSede != nil {
		input.IDSede = *in.IDSede
	}

	created, err := orchestrators.ExecuteCreateParticipante(r.Context(), input, orchestrators.CreateParticipanteDeps{
		ParticipanteStore: stores.ParticipanteStore,
		Sedes:             stores.SedeStore,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	row, err := projections.QueryParticipanteConSede(r.Context(), created.ID, participanteConSedeDeps())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, row)
}

// handleUpdateParticipante handles PUT /api/participantes/{id}. Absent fields
// stay unchanged.
func handleUpdateParticipante(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var in participanteBody
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, apperr.New(apperr.KindValidation, "cuerpo JSON invalido"))
		return
	}

	updated, err := orchestrators.ExecuteUpdateParticipante(r.Context(), orchestrators.UpdateParticipanteInput{
		ID:              id,
		Nombres:         in.Nombres,
		Apellidos:       in.Apellidos,
		TipoDocumento:   in.TipoDocumento,
		NumeroDocumento: in.NumeroDocumento,
		FechaNacimiento: in.FechaNacimiento,
		Genero:          in.Genero,
		FechaIngreso:    in.FechaIngreso,
		Estado:          in.Estado,
		IDSede:          in.IDSede,
		Telefono:        in.Telefono,
	}, orchestrators.UpdateParticipanteDeps{
		ParticipanteStore: stores.ParticipanteStore,
		Sedes:             stores.SedeStore,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	row, err := projections.QueryParticipanteConSede(r.Context(), updated.ID, participanteConSedeDeps())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, row)
}

// handleDeleteParticipante handles DELETE /api/participantes/{id}.
// POST: 200, 404, or 409 naming the dependent counts
func handleDeleteParticipante(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	err = orchestrators.ExecuteDeleteParticipante(r.Context(), id, orchestrators.DeleteParticipanteDeps{
		ParticipanteStore: stores.ParticipanteStore,
		Acudientes:        stores.AcudienteStore,
		Mensualidades:     stores.MensualidadStore,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{"message": "Participante eliminado exitosamente", "id": id})
}
