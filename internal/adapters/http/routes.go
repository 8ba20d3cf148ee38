package web

import "net/http"

// registerRoutes attaches all API routes to the mux.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/dashboard/stats", handleDashboardStats)

	mux.HandleFunc("GET /api/sedes", handleListSedes)
	mux.HandleFunc("POST /api/sedes", handleCreateSede)
	mux.HandleFunc("GET /api/sedes/{id}", handleGetSede)
	mux.HandleFunc("PUT /api/sedes/{id}", handleUpdateSede)
	mux.HandleFunc("DELETE /api/sedes/{id}", handleDeleteSede)

	mux.HandleFunc("GET /api/participantes", handleListParticipantes)
	mux.HandleFunc("POST /api/participantes", handleCreateParticipante)
	mux.HandleFunc("GET /api/participantes/{id}", handleGetParticipante)
	mux.HandleFunc("PUT /api/participantes/{id}", handleUpdateParticipante)
	mux.HandleFunc("DELETE /api/participantes/{id}", handleDeleteParticipante)

	mux.HandleFunc("GET /api/acudientes", handleListAcudientes)
	mux.HandleFunc("POST /api/acudientes", handleCreateAcudiente)
	mux.HandleFunc("GET /api/acudientes/{id}", handleGetAcudiente)
	mux.HandleFunc("PUT /api/acudientes/{id}", handleUpdateAcudiente)
	mux.HandleFunc("DELETE /api/acudientes/{id}", handleDeleteAcudiente)
	mux.HandleFunc("GET /api/acudientes/participante/{id}", handleListAcudientesDeParticipante)

	mux.HandleFunc("GET /api/mensualidades", handleListMensualidades)
	mux.HandleFunc("POST /api/mensualidades", handleCreateMensualidad)
	mux.HandleFunc("GET /api/mensualidades/{id}", handleGetMensualidad)
	mux.HandleFunc("PUT /api/mensualidades/{id}", handleUpdateMensualidad)
	mux.HandleFunc("DELETE /api/mensualidades/{id}", handleDeleteMensualidad)
	mux.HandleFunc("GET /api/mensualidades/participante/{id}", handleListMensualidadesDeParticipante)

	mux.HandleFunc("GET /api/usuarios", handleListUsuarios)
	mux.HandleFunc("POST /api/usuarios", handleCreateUsuario)
	mux.HandleFunc("GET /api/usuarios/{id}", handleGetUsuario)
	mux.HandleFunc("PUT /api/usuarios/{id}", handleUpdateUsuario)
	mux.HandleFunc("DELETE /api/usuarios/{id}", handleDeleteUsuario)

	mux.HandleFunc("GET /api/outbox/fallidas", handleListOutboxFallidas)
	mux.HandleFunc("POST /api/outbox/{id}/retry", handleRetryOutboxEntry)
}
