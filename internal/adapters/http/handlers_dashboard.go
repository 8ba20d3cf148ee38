package web

import (
	"net/http"

	"almadash/internal/application/projections"
)

// handleHealth handles GET /api/health.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "Dashboard API - Corporación Todo por un Alma",
		"version": "1.0.0",
	})
}

// handleDashboardStats handles GET /api/dashboard/stats.
func handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := projections.QueryDashboardStats(r.Context(), projections.DashboardStatsDeps{
		Participantes: stores.ParticipanteStore,
		Acudientes:    stores.AcudienteStore,
		Mensualidades: stores.MensualidadStore,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, stats)
}
