package orchestrators

import (
	"context"
	"strings"
	"testing"

	participantestore "almadash/internal/adapters/storage/participante"
	"almadash/internal/apperr"
	"almadash/internal/domain/participante"
)

// mockParticipanteStore implements ParticipanteStore over a map.
type mockParticipanteStore struct {
	participantes map[int64]participante.Participante
	nextID        int64
}

func newMockParticipanteStore() *mockParticipanteStore {
	return &mockParticipanteStore{participantes: make(map[int64]participante.Participante), nextID: 1}
}

func (m *mockParticipanteStore) GetByID(_ context.Context, id int64) (participante.Participante, error) {
	p, ok := m.participantes[id]
	if !ok {
		return participante.Participante{}, participantestore.ErrNotFound
	}
	return p, nil
}

func (m *mockParticipanteStore) Insert(_ context.Context, p participante.Participante) (participante.Participante, error) {
	p.ID = m.nextID
	m.nextID++
	m.participantes[p.ID] = p
	return p, nil
}

func (m *mockParticipanteStore) Update(_ context.Context, p participante.Participante) error {
	if _, ok := m.participantes[p.ID]; !ok {
		return participantestore.ErrNotFound
	}
	m.participantes[p.ID] = p
	return nil
}

func (m *mockParticipanteStore) Delete(_ context.Context, id int64) error {
	if _, ok := m.participantes[id]; !ok {
		return participantestore.ErrNotFound
	}
	delete(m.participantes, id)
	return nil
}

func (m *mockParticipanteStore) ExistsByDocumento(_ context.Context, numeroDocumento string, excludeID int64) (bool, error) {
	for id, p := range m.participantes {
		if id != excludeID && p.NumeroDocumento == numeroDocumento {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockParticipanteStore) ExistsByID(_ context.Context, id int64) (bool, error) {
	_, ok := m.participantes[id]
	return ok, nil
}

func (m *mockParticipanteStore) CountByParticipante(_ context.Context, _ int64) (int, error) {
	return 0, nil
}

// mockSedeChecker implements SedeChecker over a set of ids.
type mockSedeChecker struct {
	ids map[int64]bool
}

func (m *mockSedeChecker) ExistsByID(_ context.Context, id int64) (bool, error) {
	return m.ids[id], nil
}

// mockCounters implements both counter store interfaces.
type mockCounters struct {
	byParticipante map[int64]int
	byAcudiente    map[int64]int
}

func (m *mockCounters) CountByParticipante(_ context.Context, id int64) (int, error) {
	return m.byParticipante[id], nil
}

func (m *mockCounters) CountByAcudiente(_ context.Context, id int64) (int, error) {
	return m.byAcudiente[id], nil
}

func validParticipanteInput() CreateParticipanteInput {
	return CreateParticipanteInput{
		Nombres:         "Maria",
		Apellidos:       "Lopez",
		TipoDocumento:   participante.DocumentoTI,
		NumeroDocumento: "1001",
		FechaNacimiento: "2012-06-15",
		Genero:          participante.GeneroFemenino,
		FechaIngreso:    "2024-01-20",
		IDSede:          1,
	}
}

func TestExecuteCreateParticipante_Valid(t *testing.T) {
	store := newMockParticipanteStore()
	created, err := ExecuteCreateParticipante(context.Background(), validParticipanteInput(), CreateParticipanteDeps{
		ParticipanteStore: store,
		Sedes:             &mockSedeChecker{ids: map[int64]bool{1: true}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Estado != participante.EstadoActivo {
		t.Errorf("expected estado=ACTIVO, got %s", created.Estado)
	}
	if _, ok := store.participantes[created.ID]; !ok {
		t.Error("expected participante persisted")
	}
}

func TestExecuteCreateParticipante_SedeInexistente(t *testing.T) {
	store := newMockParticipanteStore()
	input := validParticipanteInput()
	input.IDSede = 99
	_, err := ExecuteCreateParticipante(context.Background(), input, CreateParticipanteDeps{
		ParticipanteStore: store,
		Sedes:             &mockSedeChecker{ids: map[int64]bool{1: true}},
	})
	if !apperr.IsKind(err, apperr.KindInvalidReference) {
		t.Fatalf("expected invalid reference, got %v", err)
	}
	if !strings.Contains(err.Error(), "La sede con ID 99 no existe") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestExecuteCreateParticipante_SedeCheckedBeforeDocumento(t *testing.T) {
	store := newMockParticipanteStore()
	store.participantes[1] = participante.Participante{ID: 1, NumeroDocumento: "1001"}
	store.nextID = 2

	// payload wrong on both counts: the sede reference reports first
	input := validParticipanteInput()
	input.IDSede = 99
	_, err := ExecuteCreateParticipante(context.Background(), input, CreateParticipanteDeps{
		ParticipanteStore: store,
		Sedes:             &mockSedeChecker{ids: map[int64]bool{}},
	})
	if !apperr.IsKind(err, apperr.KindInvalidReference) {
		t.Fatalf("expected invalid reference before duplicate, got %v", err)
	}
}

func TestExecuteCreateParticipante_DocumentoDuplicado(t *testing.T) {
	store := newMockParticipanteStore()
	store.participantes[1] = participante.Participante{ID: 1, NumeroDocumento: "1001"}
	store.nextID = 2

	_, err := ExecuteCreateParticipante(context.Background(), validParticipanteInput(), CreateParticipanteDeps{
		ParticipanteStore: store,
		Sedes:             &mockSedeChecker{ids: map[int64]bool{1: true}},
	})
	if !apperr.IsKind(err, apperr.KindDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if !strings.Contains(err.Error(), "Ya existe un participante con el documento 1001") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestExecuteUpdateParticipante_SoloCamposPresentes(t *testing.T) {
	store := newMockParticipanteStore()
	store.participantes[1] = participante.Participante{
		ID: 1, Nombres: "Maria", Apellidos: "Lopez",
		TipoDocumento: participante.DocumentoTI, NumeroDocumento: "1001",
		FechaNacimiento: "2012-06-15", Genero: participante.GeneroFemenino,
		FechaIngreso: "2024-01-20", Estado: participante.EstadoActivo, IDSede: 1,
	}
	store.nextID = 2

	// sede not checked when id_sede is absent from the update
	telefono := "3001234567"
	updated, err := ExecuteUpdateParticipante(context.Background(), UpdateParticipanteInput{
		ID:       1,
		Telefono: &telefono,
	}, UpdateParticipanteDeps{
		ParticipanteStore: store,
		Sedes:             &mockSedeChecker{ids: map[int64]bool{}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Telefono != "3001234567" {
		t.Errorf("expected telefono updated, got %s", updated.Telefono)
	}
	if updated.Nombres != "Maria" {
		t.Errorf("expected nombres untouched, got %s", updated.Nombres)
	}
}

func TestExecuteUpdateParticipante_KeepsOwnDocumento(t *testing.T) {
	store := newMockParticipanteStore()
	store.participantes[1] = participante.Participante{
		ID: 1, Nombres: "Maria", Apellidos: "Lopez",
		TipoDocumento: participante.DocumentoTI, NumeroDocumento: "1001",
		FechaNacimiento: "2012-06-15", Genero: participante.GeneroFemenino,
		FechaIngreso: "2024-01-20", Estado: participante.EstadoActivo, IDSede: 1,
	}
	store.nextID = 2

	documento := "1001"
	if _, err := ExecuteUpdateParticipante(context.Background(), UpdateParticipanteInput{
		ID:              1,
		NumeroDocumento: &documento,
	}, UpdateParticipanteDeps{
		ParticipanteStore: store,
		Sedes:             &mockSedeChecker{ids: map[int64]bool{1: true}},
	}); err != nil {
		t.Fatalf("resubmitting the current documento must not conflict: %v", err)
	}
}

func TestExecuteDeleteParticipante_ConDependencias(t *testing.T) {
	store := newMockParticipanteStore()
	store.participantes[1] = participante.Participante{ID: 1}
	store.nextID = 2

	err := ExecuteDeleteParticipante(context.Background(), 1, DeleteParticipanteDeps{
		ParticipanteStore: store,
		Acudientes:        &mockCounters{byParticipante: map[int64]int{1: 1}},
		Mensualidades:     &mockCounters{byParticipante: map[int64]int{1: 3}},
	})
	if !apperr.IsKind(err, apperr.KindHasDependencies) {
		t.Fatalf("expected has dependencies, got %v", err)
	}
	if !strings.Contains(err.Error(), "1 acudiente(s) y 3 mensualidad(es)") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestExecuteDeleteParticipante_NotFound(t *testing.T) {
	err := ExecuteDeleteParticipante(context.Background(), 42, DeleteParticipanteDeps{
		ParticipanteStore: newMockParticipanteStore(),
		Acudientes:        &mockCounters{},
		Mensualidades:     &mockCounters{},
	})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
