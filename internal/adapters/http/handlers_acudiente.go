package web

import (
	"net/http"

	"almadash/internal/apperr"
	"almadash/internal/application/orchestrators"
	"almadash/internal/application/projections"
)

func acudienteConParticipanteDeps() projections.AcudienteConParticipanteDeps {
	return projections.AcudienteConParticipanteDeps{
		Acudientes:    stores.AcudienteStore,
		Participantes: stores.ParticipanteStore,
	}
}

// handleListAcudientes handles GET /api/acudientes. Rows come back with the
// participante attached.
func handleListAcudientes(w http.ResponseWriter, r *http.Request) {
	rows, err := projections.QueryAcudientesConParticipante(r.Context(), acudienteConParticipanteDeps())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, rows)
}

// handleGetAcudiente handles GET /api/acudientes/{id}.
func handleGetAcudiente(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	row, err := projections.QueryAcudienteConParticipante(r.Context(), id, acudienteConParticipanteDeps())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, row)
}

// handleListAcudientesDeParticipante handles GET /api/acudientes/participante/{id}.
// POST: 404 when the participante does not exist
func handleListAcudientesDeParticipante(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	rows, err := projections.QueryAcudientesDeParticipante(r.Context(), id, acudienteConParticipanteDeps())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, rows)
}

type acudienteBody struct {
	Nombres         *string `json:"nombres"`
	Apellidos       *string `json:"apellidos"`
	TipoDocumento   *string `json:"tipo_documento"`
	NumeroDocumento *string `json:"numero_documento"`
	Parentesco      *string `json:"parentesco"`
	Telefono        *string `json:"telefono"`
	Email           *string `json:"email"`
	Direccion       *string `json:"direccion"`
	IDParticipante  *int64  `json:"id_participante"`
}

// handleCreateAcudiente handles POST /api/acudientes.
// POST: 201 with the created row and its participante attached
func handleCreateAcudiente(w http.ResponseWriter, r *http.Request) {
	var in acudienteBody
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, apperr.New(apperr.KindValidation, "cuerpo JSON invalido"))
		return
	}

	input := orchestrators.CreateAcudienteInput{
		Nombres:         strOrEmpty(in.Nombres),
		Apellidos:       strOrEmpty(in.Apellidos),
		TipoDocumento:   strOrEmpty(in.TipoDocumento),
		NumeroDocumento: strOrEmpty(in.NumeroDocumento),
		Parentesco:      strOrEmpty(in.Parentesco),
		Telefono:        strOrEmpty(in.Telefono),
		Email:           strOrEmpty(in.Email),
		Direccion:       strOrEmpty(in.Direccion),
	}
	if in.IDParticipante != nil {
		input.IDParticipante = *in.IDParticipante
	}

	created, err := orchestrators.ExecuteCreateAcudiente(r.Context(), input, orchestrators.CreateAcudienteDeps{
		AcudienteStore: stores.AcudienteStore,
		Participantes:  stores.ParticipanteStore,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	row, err := projections.QueryAcudienteConParticipante(r.Context(), created.ID, acudienteConParticipanteDeps())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, row)
}

// handleUpdateAcudiente handles PUT /api/acudientes/{id}. Absent fields stay
// unchanged.
func handleUpdateAcudiente(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var in acudienteBody
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, apperr.New(apperr.KindValidation, "cuerpo JSON invalido"))
		return
	}

	updated, err := orchestrators.ExecuteUpdateAcudiente(r.Context(), orchestrators.UpdateAcudienteInput{
		ID:              id,
		Nombres:         in.Nombres,
		Apellidos:       in.Apellidos,
		TipoDocumento:   in.TipoDocumento,
		NumeroDocumento: in.NumeroDocumento,
		Parentesco:      in.Parentesco,
		Telefono:        in.Telefono,
		Email:           in.Email,
		Direccion:       in.Direccion,
		IDParticipante:  in.IDParticipante,
	}, orchestrators.UpdateAcudienteDeps{
		AcudienteStore: stores.AcudienteStore,
		Participantes:  stores.ParticipanteStore,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	row, err := projections.QueryAcudienteConParticipante(r.Context(), updated.ID, acudienteConParticipanteDeps())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, row)
}

// handleDeleteAcudiente handles DELETE /api/acudientes/{id}.
// POST: 200, 404, or 409 when mensualidades reference the acudiente
func handleDeleteAcudiente(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	err = orchestrators.ExecuteDeleteAcudiente(r.Context(), id, orchestrators.DeleteAcudienteDeps{
		AcudienteStore: stores.AcudienteStore,
		Mensualidades:  stores.MensualidadStore,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{"message": "Acudiente eliminado exitosamente", "id": id})
}
