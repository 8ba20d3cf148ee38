package web

import (
	"net/http"
	"strconv"

	"almadash/internal/apperr"
)

// handleListOutboxFallidas handles GET /api/outbox/fallidas. Exposes entries
// that exhausted their retries so an operator can inspect and requeue them.
func handleListOutboxFallidas(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := stores.OutboxStore.ListFailed(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, entries)
}

// handleRetryOutboxEntry handles POST /api/outbox/{id}/retry. Forces one
// delivery attempt regardless of the backoff window.
func handleRetryOutboxEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if outboxProcessor == nil {
		respondError(w, apperr.New(apperr.KindValidation, "el procesador de outbox no esta habilitado"))
		return
	}

	// ProcessSingle classifies its own rejections; anything unclassified is
	// an internal failure and must not leak to the client.
	if err := outboxProcessor.ProcessSingle(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{"message": "Reintento ejecutado", "id": id})
}
