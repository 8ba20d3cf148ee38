package sede_test

import (
	"strings"
	"testing"

	"almadash/internal/domain/sede"
)

func intPtr(n int) *int { return &n }

// TestSede_Validate tests validation of Sede.
func TestSede_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sede    sede.Sede
		wantErr bool
	}{
		{
			name:    "valid sede",
			sede:    sede.Sede{Nombre: "Sede Centro", Direccion: "Calle 10 # 5-33", Estado: sede.EstadoActiva, Tipo: sede.TipoPrincipal},
			wantErr: false,
		},
		{
			name:    "valid with capacidad",
			sede:    sede.Sede{Nombre: "Sede Norte", Direccion: "Carrera 50", CapacidadMaxima: intPtr(80), Estado: sede.EstadoInactiva, Tipo: sede.TipoTemporal},
			wantErr: false,
		},
		{
			name:    "empty nombre",
			sede:    sede.Sede{Nombre: "  ", Direccion: "Calle 10", Estado: sede.EstadoActiva, Tipo: sede.TipoPrincipal},
			wantErr: true,
		},
		{
			name:    "nombre too long",
			sede:    sede.Sede{Nombre: strings.Repeat("a", 101), Direccion: "Calle 10", Estado: sede.EstadoActiva, Tipo: sede.TipoPrincipal},
			wantErr: true,
		},
		{
			name:    "empty direccion",
			sede:    sede.Sede{Nombre: "Sede Centro", Estado: sede.EstadoActiva, Tipo: sede.TipoPrincipal},
			wantErr: true,
		},
		{
			name:    "zero capacidad",
			sede:    sede.Sede{Nombre: "Sede Centro", Direccion: "Calle 10", CapacidadMaxima: intPtr(0), Estado: sede.EstadoActiva, Tipo: sede.TipoPrincipal},
			wantErr: true,
		},
		{
			name:    "invalid estado",
			sede:    sede.Sede{Nombre: "Sede Centro", Direccion: "Calle 10", Estado: "abierta", Tipo: sede.TipoPrincipal},
			wantErr: true,
		},
		{
			name:    "invalid tipo",
			sede:    sede.Sede{Nombre: "Sede Centro", Direccion: "Calle 10", Estado: sede.EstadoActiva, Tipo: "sucursal"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sede.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSede_ApplyDefaults(t *testing.T) {
	s := sede.Sede{Nombre: "Sede Centro", Direccion: "Calle 10"}
	s.ApplyDefaults()
	if s.Estado != sede.EstadoActiva {
		t.Errorf("Estado = %q, want %q", s.Estado, sede.EstadoActiva)
	}
	if s.Tipo != sede.TipoPrincipal {
		t.Errorf("Tipo = %q, want %q", s.Tipo, sede.TipoPrincipal)
	}

	s = sede.Sede{Nombre: "Otra", Direccion: "Calle 11", Estado: sede.EstadoInactiva, Tipo: sede.TipoSecundaria}
	s.ApplyDefaults()
	if s.Estado != sede.EstadoInactiva || s.Tipo != sede.TipoSecundaria {
		t.Error("defaults must not overwrite provided values")
	}
}

func TestNombreNormalizado(t *testing.T) {
	if got := sede.NombreNormalizado("  Sede CENTRO "); got != "sede centro" {
		t.Errorf("NombreNormalizado() = %q", got)
	}
}
