package projections

import (
	"context"
	"fmt"

	"almadash/internal/domain/mensualidad"
)

// DashboardStats carries the headline counts for the dashboard landing page.
type DashboardStats struct {
	Participantes           int     `json:"participantes"`
	Acudientes              int     `json:"acudientes"`
	Mensualidades           int     `json:"mensualidades"`
	MensualidadesPagadas    int     `json:"mensualidades_pagadas"`
	MensualidadesPendientes int     `json:"mensualidades_pendientes"`
	TotalRecaudado          float64 `json:"total_recaudado"`
}

// DashboardStatsDeps holds dependencies for QueryDashboardStats.
type DashboardStatsDeps struct {
	Participantes ParticipanteStore
	Acudientes    AcudienteStore
	Mensualidades MensualidadStore
}

// QueryDashboardStats aggregates the dashboard counters.
// POST: TotalRecaudado sums the monto of PAGADA rows only
func QueryDashboardStats(ctx context.Context, deps DashboardStatsDeps) (DashboardStats, error) {
	var stats DashboardStats
	var err error

	if stats.Participantes, err = deps.Participantes.Count(ctx); err != nil {
		return DashboardStats{}, fmt.Errorf("count participantes: %w", err)
	}
	if stats.Acudientes, err = deps.Acudientes.Count(ctx); err != nil {
		return DashboardStats{}, fmt.Errorf("count acudientes: %w", err)
	}
	if stats.Mensualidades, err = deps.Mensualidades.Count(ctx); err != nil {
		return DashboardStats{}, fmt.Errorf("count mensualidades: %w", err)
	}
	if stats.MensualidadesPagadas, err = deps.Mensualidades.CountByEstado(ctx, mensualidad.EstadoPagada); err != nil {
		return DashboardStats{}, fmt.Errorf("count pagadas: %w", err)
	}
	if stats.MensualidadesPendientes, err = deps.Mensualidades.CountByEstado(ctx, mensualidad.EstadoPendiente); err != nil {
		return DashboardStats{}, fmt.Errorf("count pendientes: %w", err)
	}
	if stats.TotalRecaudado, err = deps.Mensualidades.SumMontoByEstado(ctx, mensualidad.EstadoPagada); err != nil {
		return DashboardStats{}, fmt.Errorf("sum recaudado: %w", err)
	}

	return stats, nil
}
