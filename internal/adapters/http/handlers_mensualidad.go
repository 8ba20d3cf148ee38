package web

import (
	"encoding/json"
	"io"
	"net/http"

	"almadash/internal/apperr"
	"almadash/internal/application/orchestrators"
	"almadash/internal/application/projections"
)

func mensualidadConRelacionesDeps() projections.MensualidadConRelacionesDeps {
	return projections.MensualidadConRelacionesDeps{
		Mensualidades: stores.MensualidadStore,
		Participantes: stores.ParticipanteStore,
		Acudientes:    stores.AcudienteStore,
		Sedes:         stores.SedeStore,
	}
}

// handleListMensualidades handles GET /api/mensualidades. Rows come back with
// the participante, sede and acudiente joined in.
func handleListMensualidades(w http.ResponseWriter, r *http.Request) {
	rows, err := projections.QueryMensualidadesConRelaciones(r.Context(), mensualidadConRelacionesDeps())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, rows)
}

// handleGetMensualidad handles GET /api/mensualidades/{id}.
func handleGetMensualidad(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	row, err := projections.QueryMensualidadConRelaciones(r.Context(), id, mensualidadConRelacionesDeps())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, row)
}

// handleListMensualidadesDeParticipante handles GET /api/mensualidades/participante/{id}.
// POST: 404 when the participante does not exist
func handleListMensualidadesDeParticipante(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	rows, err := projections.QueryMensualidadesDeParticipante(r.Context(), id, mensualidadConRelacionesDeps())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, rows)
}

type mensualidadBody struct {
	ParticipantID *int64   `json:"participant_id"`
	IDAcudiente   *int64   `json:"id_acudiente"`
	Mes           *int     `json:"mes"`
	Anio          *int     `json:"año"`
	Monto         *float64 `json:"monto"`
	Estado        *string  `json:"estado"`
	MetodoPago    *string  `json:"metodo_pago"`
	FechaPago     *string  `json:"fecha_pago"`
	Observaciones *string  `json:"observaciones"`
}

func createMensualidadDeps() orchestrators.CreateMensualidadDeps {
	return orchestrators.CreateMensualidadDeps{
		MensualidadStore: stores.MensualidadStore,
		Participantes:    stores.ParticipanteStore,
		Acudientes:       stores.AcudienteStore,
		Receipts:         receiptQueuer(),
	}
}

// receiptQueuer adapts the nil-able global queue to the orchestrator
// interface. A typed nil inside a non-nil interface would defeat the
// orchestrator's nil check.
func receiptQueuer() orchestrators.ReceiptQueuer {
	if receiptQueue == nil {
		return nil
	}
	return receiptQueue
}

// handleCreateMensualidad handles POST /api/mensualidades.
// POST: 201 with the enriched row; a receipt email is queued when it lands
// as PAGADA
func handleCreateMensualidad(w http.ResponseWriter, r *http.Request) {
	var in mensualidadBody
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, apperr.New(apperr.KindValidation, "cuerpo JSON invalido"))
		return
	}

	input := orchestrators.CreateMensualidadInput{
		IDAcudiente:   in.IDAcudiente,
		Estado:        strOrEmpty(in.Estado),
		MetodoPago:    strOrEmpty(in.MetodoPago),
		FechaPago:     strOrEmpty(in.FechaPago),
		Observaciones: strOrEmpty(in.Observaciones),
	}
	if in.ParticipantID != nil {
		input.ParticipantID = *in.ParticipantID
	}
	if in.Mes != nil {
		input.Mes = *in.Mes
	}
	if in.Anio != nil {
		input.Anio = *in.Anio
	}
	if in.Monto != nil {
		input.Monto = *in.Monto
	}

	created, err := orchestrators.ExecuteCreateMensualidad(r.Context(), input, createMensualidadDeps())
	if err != nil {
		respondError(w, err)
		return
	}

	row, err := projections.QueryMensualidadConRelaciones(r.Context(), created.ID, mensualidadConRelacionesDeps())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, row)
}

// handleUpdateMensualidad handles PUT /api/mensualidades/{id}. Absent fields
// stay unchanged; an explicit "id_acudiente": null clears the attribution, so
// the raw body is decoded a second time to tell the two apart.
func handleUpdateMensualidad(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, apperr.New(apperr.KindValidation, "cuerpo JSON invalido"))
		return
	}

	var in mensualidadBody
	if err := json.Unmarshal(body, &in); err != nil {
		respondError(w, apperr.New(apperr.KindValidation, "cuerpo JSON invalido"))
		return
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		respondError(w, apperr.New(apperr.KindValidation, "cuerpo JSON invalido"))
		return
	}
	_, acudienteProvided := fields["id_acudiente"]

	updated, err := orchestrators.ExecuteUpdateMensualidad(r.Context(), orchestrators.UpdateMensualidadInput{
		ID:             id,
		ParticipantID:  in.ParticipantID,
		IDAcudiente:    in.IDAcudiente,
		IDAcudienteSet: acudienteProvided,
		Mes:            in.Mes,
		Anio:           in.Anio,
		Monto:          in.Monto,
		Estado:         in.Estado,
		MetodoPago:     in.MetodoPago,
		FechaPago:      in.FechaPago,
		Observaciones:  in.Observaciones,
	}, orchestrators.UpdateMensualidadDeps{
		MensualidadStore: stores.MensualidadStore,
		Participantes:    stores.ParticipanteStore,
		Acudientes:       stores.AcudienteStore,
		Receipts:         receiptQueuer(),
	})
	if err != nil {
		respondError(w, err)
		return
	}

	row, err := projections.QueryMensualidadConRelaciones(r.Context(), updated.ID, mensualidadConRelacionesDeps())
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, row)
}

// handleDeleteMensualidad handles DELETE /api/mensualidades/{id}.
func handleDeleteMensualidad(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	err = orchestrators.ExecuteDeleteMensualidad(r.Context(), id, orchestrators.DeleteMensualidadDeps{
		MensualidadStore: stores.MensualidadStore,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{"message": "Mensualidad eliminada exitosamente", "id": id})
}
