package web

import (
	"errors"
	"net/http"

	sedeStore "almadash/internal/adapters/storage/sede"
	"almadash/internal/apperr"
	"almadash/internal/application/orchestrators"
)

// handleListSedes handles GET /api/sedes.
func handleListSedes(w http.ResponseWriter, r *http.Request) {
	sedes, err := stores.SedeStore.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, sedes)
}

// handleGetSede handles GET /api/sedes/{id}.
func handleGetSede(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	s, err := stores.SedeStore.GetByID(r.Context(), id)
	if errors.Is(err, sedeStore.ErrNotFound) {
		respondError(w, apperr.NotFound("Sede no encontrada"))
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, s)
}

// handleCreateSede handles POST /api/sedes.
// POST: 201 with the created sede, or a classified error envelope
func handleCreateSede(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Nombre          string `json:"nombre"`
		Direccion       string `json:"direccion"`
		Telefono        string `json:"telefono"`
		CapacidadMaxima *int   `json:"capacidad_maxima"`
		Estado          string `json:"estado"`
		Tipo            string `json:"tipo"`
	}
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, apperr.New(apperr.KindValidation, "cuerpo JSON invalido"))
		return
	}

	created, err := orchestrators.ExecuteCreateSede(r.Context(), orchestrators.CreateSedeInput{
		Nombre:          in.Nombre,
		Direccion:       in.Direccion,
		Telefono:        in.Telefono,
		CapacidadMaxima: in.CapacidadMaxima,
		Estado:          in.Estado,
		Tipo:            in.Tipo,
	}, orchestrators.CreateSedeDeps{SedeStore: stores.SedeStore})
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

// handleUpdateSede handles PUT /api/sedes/{id}. Absent fields stay unchanged.
func handleUpdateSede(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var in struct {
		Nombre          *string `json:"nombre"`
		Direccion       *string `json:"direccion"`
		Telefono        *string `json:"telefono"`
		CapacidadMaxima *int    `json:"capacidad_maxima"`
		Estado          *string `json:"estado"`
		Tipo            *string `json:"tipo"`
	}
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, apperr.New(apperr.KindValidation, "cuerpo JSON invalido"))
		return
	}

	updated, err := orchestrators.ExecuteUpdateSede(r.Context(), orchestrators.UpdateSedeInput{
		ID:              id,
		Nombre:          in.Nombre,
		Direccion:       in.Direccion,
		Telefono:        in.Telefono,
		CapacidadMaxima: in.CapacidadMaxima,
		Estado:          in.Estado,
		Tipo:            in.Tipo,
	}, orchestrators.UpdateSedeDeps{SedeStore: stores.SedeStore})
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, updated)
}

// handleDeleteSede handles DELETE /api/sedes/{id}.
// POST: 200 with a confirmation message, 404, or 409 when participantes remain
func handleDeleteSede(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	err = orchestrators.ExecuteDeleteSede(r.Context(), id, orchestrators.DeleteSedeDeps{
		SedeStore:     stores.SedeStore,
		Participantes: stores.ParticipanteStore,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{"message": "Sede eliminada exitosamente", "id": id})
}
