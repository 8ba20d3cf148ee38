package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"almadash/internal/apperr"
)

// apiError is the error half of the response envelope.
type apiError struct {
	Message string `json:"message"`
}

// envelope is the uniform response body: exactly one of Data and Error is set.
type envelope struct {
	Data  any       `json:"data"`
	Error *apiError `json:"error"`
}

// respondData writes a success envelope.
func respondData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Data: data})
}

// respondError classifies err and writes an error envelope. Unclassified
// errors are logged and reported as a generic 500 so store internals never
// reach the client.
func respondError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	if kind == 0 {
		slog.Error("internal_error", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}
	writeError(w, statusForKind(kind), err.Error())
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Error: &apiError{Message: message}})
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindDuplicate, apperr.KindHasDependencies:
		return http.StatusConflict
	default:
		// invalid reference, relationship mismatch, missing required
		// field, format validation
		return http.StatusBadRequest
	}
}

// decodeJSON decodes the request body into v. Unknown fields are ignored so
// clients can send superset payloads.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// pathID parses the {id} path segment as a positive integer.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.New(apperr.KindValidation, "el id debe ser un entero positivo")
	}
	return id, nil
}
