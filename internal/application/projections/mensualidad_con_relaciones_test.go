package projections

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	acudientestore "almadash/internal/adapters/storage/acudiente"
	mensualidadstore "almadash/internal/adapters/storage/mensualidad"
	participantestore "almadash/internal/adapters/storage/participante"
	sedestore "almadash/internal/adapters/storage/sede"
	"almadash/internal/apperr"
	"almadash/internal/domain/acudiente"
	"almadash/internal/domain/mensualidad"
	"almadash/internal/domain/participante"
	"almadash/internal/domain/sede"
)

// mockSedes implements SedeStore over a map. getErr forces GetByID to fail
// as if the store itself broke.
type mockSedes struct {
	sedes  map[int64]sede.Sede
	getErr error
}

func (m *mockSedes) GetByID(_ context.Context, id int64) (sede.Sede, error) {
	if m.getErr != nil {
		return sede.Sede{}, m.getErr
	}
	s, ok := m.sedes[id]
	if !ok {
		return sede.Sede{}, sedestore.ErrNotFound
	}
	return s, nil
}

func (m *mockSedes) List(_ context.Context) ([]sede.Sede, error) {
	var out []sede.Sede
	for _, s := range m.sedes {
		out = append(out, s)
	}
	return out, nil
}

// mockParticipantes implements ParticipanteStore over a map.
type mockParticipantes struct {
	participantes map[int64]participante.Participante
	getErr        error
}

func (m *mockParticipantes) GetByID(_ context.Context, id int64) (participante.Participante, error) {
	if m.getErr != nil {
		return participante.Participante{}, m.getErr
	}
	p, ok := m.participantes[id]
	if !ok {
		return participante.Participante{}, participantestore.ErrNotFound
	}
	return p, nil
}

func (m *mockParticipantes) List(_ context.Context) ([]participante.Participante, error) {
	var out []participante.Participante
	for _, p := range m.participantes {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockParticipantes) ExistsByID(_ context.Context, id int64) (bool, error) {
	_, ok := m.participantes[id]
	return ok, nil
}

func (m *mockParticipantes) Count(_ context.Context) (int, error) {
	return len(m.participantes), nil
}

// mockAcudientes implements AcudienteStore over a map.
type mockAcudientes struct {
	acudientes map[int64]acudiente.Acudiente
}

func (m *mockAcudientes) GetByID(_ context.Context, id int64) (acudiente.Acudiente, error) {
	a, ok := m.acudientes[id]
	if !ok {
		return acudiente.Acudiente{}, acudientestore.ErrNotFound
	}
	return a, nil
}

func (m *mockAcudientes) List(_ context.Context) ([]acudiente.Acudiente, error) {
	var out []acudiente.Acudiente
	for _, a := range m.acudientes {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockAcudientes) ListByParticipante(_ context.Context, participanteID int64) ([]acudiente.Acudiente, error) {
	var out []acudiente.Acudiente
	for _, a := range m.acudientes {
		if a.IDParticipante == participanteID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAcudientes) Count(_ context.Context) (int, error) {
	return len(m.acudientes), nil
}

// mockMensualidades implements MensualidadStore over a map.
type mockMensualidades struct {
	mensualidades map[int64]mensualidad.Mensualidad
}

func (m *mockMensualidades) GetByID(_ context.Context, id int64) (mensualidad.Mensualidad, error) {
	row, ok := m.mensualidades[id]
	if !ok {
		return mensualidad.Mensualidad{}, mensualidadstore.ErrNotFound
	}
	return row, nil
}

func (m *mockMensualidades) List(_ context.Context) ([]mensualidad.Mensualidad, error) {
	var out []mensualidad.Mensualidad
	for _, row := range m.mensualidades {
		out = append(out, row)
	}
	return out, nil
}

func (m *mockMensualidades) ListByParticipante(_ context.Context, participanteID int64) ([]mensualidad.Mensualidad, error) {
	var out []mensualidad.Mensualidad
	for _, row := range m.mensualidades {
		if row.ParticipantID == participanteID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *mockMensualidades) Count(_ context.Context) (int, error) {
	return len(m.mensualidades), nil
}

func (m *mockMensualidades) CountByEstado(_ context.Context, estado string) (int, error) {
	n := 0
	for _, row := range m.mensualidades {
		if row.Estado == estado {
			n++
		}
	}
	return n, nil
}

func (m *mockMensualidades) SumMontoByEstado(_ context.Context, estado string) (float64, error) {
	total := 0.0
	for _, row := range m.mensualidades {
		if row.Estado == estado {
			total += row.Monto
		}
	}
	return total, nil
}

func testMensualidadDeps() MensualidadConRelacionesDeps {
	acudienteID := int64(5)
	return MensualidadConRelacionesDeps{
		Mensualidades: &mockMensualidades{mensualidades: map[int64]mensualidad.Mensualidad{
			1: {ID: 1, ParticipantID: 1, IDAcudiente: &acudienteID, Mes: 3, Anio: 2025, Monto: 50000, Estado: mensualidad.EstadoPagada, MetodoPago: mensualidad.MetodoTransferencia, FechaPago: "2025-03-05"},
			2: {ID: 2, ParticipantID: 99, Mes: 4, Anio: 2025, Monto: 40000, Estado: mensualidad.EstadoPendiente, MetodoPago: mensualidad.MetodoEfectivo},
		}},
		Participantes: &mockParticipantes{participantes: map[int64]participante.Participante{
			1: {ID: 1, Nombres: "Maria", Apellidos: "Lopez", NumeroDocumento: "1001", IDSede: 2},
		}},
		Acudientes: &mockAcudientes{acudientes: map[int64]acudiente.Acudiente{
			5: {ID: 5, Nombres: "Carlos", Apellidos: "Lopez", NumeroDocumento: "2001", IDParticipante: 1},
		}},
		Sedes: &mockSedes{sedes: map[int64]sede.Sede{
			2: {ID: 2, Nombre: "Sede Norte"},
		}},
	}
}

func TestQueryMensualidadConRelaciones(t *testing.T) {
	row, err := QueryMensualidadConRelaciones(context.Background(), 1, testMensualidadDeps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.ParticipantName != "Maria Lopez" {
		t.Errorf("unexpected participant_name: %s", row.ParticipantName)
	}
	if row.ParticipantDocumento != "1001" {
		t.Errorf("unexpected participant_documento: %s", row.ParticipantDocumento)
	}
	if row.SedeID == nil || *row.SedeID != 2 || row.SedeName != "Sede Norte" {
		t.Errorf("unexpected sede join: %v %s", row.SedeID, row.SedeName)
	}
	if row.AcudienteName == nil || *row.AcudienteName != "Carlos Lopez" {
		t.Errorf("unexpected acudiente_name: %v", row.AcudienteName)
	}
	// aliases mirror monto and estado
	if row.Valor != 50000 || row.Status != mensualidad.EstadoPagada {
		t.Errorf("unexpected aliases: valor=%v status=%s", row.Valor, row.Status)
	}
}

func TestQueryMensualidadConRelaciones_DanglingParticipante(t *testing.T) {
	row, err := QueryMensualidadConRelaciones(context.Background(), 2, testMensualidadDeps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.ParticipantName != "N/A" || row.ParticipantDocumento != "N/A" {
		t.Errorf("expected N/A fallbacks, got %s/%s", row.ParticipantName, row.ParticipantDocumento)
	}
	if row.SedeID != nil || row.SedeName != "N/A" {
		t.Errorf("expected empty sede join, got %v %s", row.SedeID, row.SedeName)
	}
	if row.AcudienteName != nil {
		t.Errorf("expected nil acudiente_name, got %v", *row.AcudienteName)
	}
}

func TestMensualidadConRelacionesJSON(t *testing.T) {
	row, err := QueryMensualidadConRelaciones(context.Background(), 1, testMensualidadDeps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	for _, key := range []string{`"participant_id":1`, `"año":2025`, `"valor":50000`, `"status":"PAGADA"`, `"sede_name":"Sede Norte"`} {
		if !strings.Contains(string(raw), key) {
			t.Errorf("expected %s in %s", key, raw)
		}
	}
}

func TestQueryMensualidadConRelaciones_NotFound(t *testing.T) {
	_, err := QueryMensualidadConRelaciones(context.Background(), 42, testMensualidadDeps())
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestQueryMensualidadesDeParticipante_ParticipanteInexistente(t *testing.T) {
	_, err := QueryMensualidadesDeParticipante(context.Background(), 42, testMensualidadDeps())
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !strings.Contains(err.Error(), "Participante con ID 42 no encontrado") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestQueryDashboardStats(t *testing.T) {
	deps := testMensualidadDeps()
	stats, err := QueryDashboardStats(context.Background(), DashboardStatsDeps{
		Participantes: deps.Participantes,
		Acudientes:    deps.Acudientes,
		Mensualidades: deps.Mensualidades,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Participantes != 1 || stats.Acudientes != 1 || stats.Mensualidades != 2 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.MensualidadesPagadas != 1 || stats.MensualidadesPendientes != 1 {
		t.Errorf("unexpected estado counts: %+v", stats)
	}
	if stats.TotalRecaudado != 50000 {
		t.Errorf("expected recaudado=50000, got %v", stats.TotalRecaudado)
	}
}
