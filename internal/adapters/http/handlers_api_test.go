package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"almadash/internal/adapters/email"
	"almadash/internal/adapters/storage"
	acudienteStore "almadash/internal/adapters/storage/acudiente"
	mensualidadStore "almadash/internal/adapters/storage/mensualidad"
	outboxStore "almadash/internal/adapters/storage/outbox"
	participanteStore "almadash/internal/adapters/storage/participante"
	sedeStore "almadash/internal/adapters/storage/sede"
	usuarioStore "almadash/internal/adapters/storage/usuario"
	"almadash/internal/application/orchestrators"
	outboxDomain "almadash/internal/domain/outbox"

	_ "modernc.org/sqlite"
)

type testEnv struct {
	handler http.Handler
	outbox  outboxStore.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := storage.InitDB(db); err != nil {
		t.Fatalf("init db: %v", err)
	}

	s := &Stores{
		SedeStore:         sedeStore.NewSQLiteStore(db),
		ParticipanteStore: participanteStore.NewSQLiteStore(db),
		AcudienteStore:    acudienteStore.NewSQLiteStore(db),
		MensualidadStore:  mensualidadStore.NewSQLiteStore(db),
		UsuarioStore:      usuarioStore.NewSQLiteStore(db),
		OutboxStore:       outboxStore.NewSQLiteStore(db),
	}

	queue := orchestrators.NewReceiptQueue(s.ParticipanteStore, s.AcudienteStore, s.OutboxStore)
	processor := orchestrators.NewOutboxProcessor(s.OutboxStore, map[string]orchestrators.ActionExecutor{
		outboxDomain.ActionReciboEmail: &orchestrators.ReceiptEmailExecutor{Sender: email.NewNoopSender()},
	})

	RateLimitPerSecond = 10000
	return &testEnv{
		handler: NewMux(s, queue, processor, []string{"http://localhost:3000"}),
		outbox:  s.OutboxStore,
	}
}

type apiEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path, body string) (int, apiEnvelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var env apiEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: invalid envelope %q: %v", method, path, rec.Body.String(), err)
	}
	return rec.Code, env
}

func (e *testEnv) createSede(t *testing.T, nombre string) int64 {
	t.Helper()
	code, env := e.do(t, "POST", "/api/sedes",
		fmt.Sprintf(`{"nombre": %q, "direccion": "Calle 10 # 5-33"}`, nombre))
	if code != http.StatusCreated {
		t.Fatalf("create sede: expected 201, got %d (%v)", code, env.Error)
	}
	var s struct {
		ID int64 `json:"id"`
	}
	json.Unmarshal(env.Data, &s)
	return s.ID
}

func (e *testEnv) createParticipante(t *testing.T, documento string, sedeID int64) int64 {
	t.Helper()
	body := fmt.Sprintf(`{
		"nombres": "Maria", "apellidos": "Lopez",
		"tipo_documento": "TI", "numero_documento": %q,
		"fecha_nacimiento": "2012-04-18", "genero": "FEMENINO",
		"fecha_ingreso": "2024-02-01", "id_sede": %d
	}`, documento, sedeID)
	code, env := e.do(t, "POST", "/api/participantes", body)
	if code != http.StatusCreated {
		t.Fatalf("create participante: expected 201, got %d (%v)", code, env.Error)
	}
	var p struct {
		ID int64 `json:"id"`
	}
	json.Unmarshal(env.Data, &p)
	return p.ID
}

func (e *testEnv) createAcudiente(t *testing.T, documento string, participanteID int64) int64 {
	t.Helper()
	body := fmt.Sprintf(`{
		"nombres": "Carlos", "apellidos": "Lopez",
		"tipo_documento": "CC", "numero_documento": %q,
		"parentesco": "Padre", "telefono": "3001234567",
		"email": "Carlos.Lopez@Example.org", "direccion": "Carrera 7 # 12-40",
		"id_participante": %d
	}`, documento, participanteID)
	code, env := e.do(t, "POST", "/api/acudientes", body)
	if code != http.StatusCreated {
		t.Fatalf("create acudiente: expected 201, got %d (%v)", code, env.Error)
	}
	var a struct {
		ID int64 `json:"id_acudiente"`
	}
	json.Unmarshal(env.Data, &a)
	return a.ID
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestEnv(t)
	code, env := e.do(t, "GET", "/api/health", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if !strings.Contains(string(env.Data), `"status":"healthy"`) {
		t.Errorf("unexpected health payload: %s", env.Data)
	}
}

func TestSedeCRUD(t *testing.T) {
	e := newTestEnv(t)
	id := e.createSede(t, "Sede Centro")

	// nombre uniqueness ignores case and whitespace
	code, env := e.do(t, "POST", "/api/sedes", `{"nombre": "  sede centro ", "direccion": "Otra calle"}`)
	if code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate nombre, got %d", code)
	}
	if !strings.Contains(env.Error.Message, "Ya existe una sede con el nombre") {
		t.Errorf("unexpected message: %s", env.Error.Message)
	}

	// partial update leaves other fields alone
	code, env = e.do(t, "PUT", fmt.Sprintf("/api/sedes/%d", id), `{"telefono": "6041234567"}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", code, env.Error)
	}
	if !strings.Contains(string(env.Data), `"nombre":"Sede Centro"`) {
		t.Errorf("nombre should be unchanged: %s", env.Data)
	}
	if !strings.Contains(string(env.Data), `"telefono":"6041234567"`) {
		t.Errorf("telefono not applied: %s", env.Data)
	}

	code, env = e.do(t, "GET", "/api/sedes/999", "")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if env.Error.Message != "Sede no encontrada" {
		t.Errorf("unexpected message: %s", env.Error.Message)
	}

	code, _ = e.do(t, "DELETE", fmt.Sprintf("/api/sedes/%d", id), "")
	if code != http.StatusOK {
		t.Fatalf("expected 200 deleting empty sede, got %d", code)
	}
}

func TestSedeDeleteBlockedByParticipantes(t *testing.T) {
	e := newTestEnv(t)
	sedeID := e.createSede(t, "Sede Norte")
	e.createParticipante(t, "1001", sedeID)

	code, env := e.do(t, "DELETE", fmt.Sprintf("/api/sedes/%d", sedeID), "")
	if code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", code)
	}
	if !strings.Contains(env.Error.Message, "tiene 1 participante(s) asociado(s)") {
		t.Errorf("unexpected message: %s", env.Error.Message)
	}
}

// Uniqueness must fold accented letters too, which SQLite's lower() does not
// do on its own.
func TestSedeNombreDuplicadoConAcentos(t *testing.T) {
	e := newTestEnv(t)

	code, env := e.do(t, "POST", "/api/sedes", `{"nombre": "SEDÉ NORTE", "direccion": "Calle 10"}`)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", code, env.Error)
	}

	code, env = e.do(t, "POST", "/api/sedes", `{"nombre": "sedé norte", "direccion": "Otra calle"}`)
	if code != http.StatusConflict {
		t.Fatalf("expected 409 for accented case variant, got %d", code)
	}
	if !strings.Contains(env.Error.Message, "Ya existe una sede con el nombre") {
		t.Errorf("unexpected message: %s", env.Error.Message)
	}
}

func TestParticipanteFlow(t *testing.T) {
	e := newTestEnv(t)
	sedeID := e.createSede(t, "Sede Centro")

	// invalid sede reference is rejected before the documento check
	code, env := e.do(t, "POST", "/api/participantes", `{
		"nombres": "Ana", "apellidos": "Ruiz",
		"tipo_documento": "CC", "numero_documento": "2002",
		"fecha_nacimiento": "2010-01-15", "genero": "FEMENINO",
		"fecha_ingreso": "2024-02-01", "id_sede": 99
	}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad sede, got %d", code)
	}
	if env.Error.Message != "La sede con ID 99 no existe" {
		t.Errorf("unexpected message: %s", env.Error.Message)
	}

	id := e.createParticipante(t, "1001", sedeID)

	// reads come back with the sede attached
	code, env = e.do(t, "GET", fmt.Sprintf("/api/participantes/%d", id), "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if !strings.Contains(string(env.Data), `"sede":{"id":`) {
		t.Errorf("expected embedded sede: %s", env.Data)
	}

	// documento uniqueness
	body := fmt.Sprintf(`{
		"nombres": "Otra", "apellidos": "Persona",
		"tipo_documento": "TI", "numero_documento": "1001",
		"fecha_nacimiento": "2011-06-02", "genero": "MASCULINO",
		"fecha_ingreso": "2024-03-01", "id_sede": %d
	}`, sedeID)
	code, env = e.do(t, "POST", "/api/participantes", body)
	if code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate documento, got %d", code)
	}
	if env.Error.Message != "Ya existe un participante con el documento 1001" {
		t.Errorf("unexpected message: %s", env.Error.Message)
	}

	// delete blocked while dependencies exist
	e.createAcudiente(t, "3003", id)
	code, env = e.do(t, "DELETE", fmt.Sprintf("/api/participantes/%d", id), "")
	if code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", code)
	}
	if !strings.Contains(env.Error.Message, "tiene 1 acudiente(s) y 0 mensualidad(es) asociadas") {
		t.Errorf("unexpected message: %s", env.Error.Message)
	}
}

func TestAcudienteListByParticipante(t *testing.T) {
	e := newTestEnv(t)
	sedeID := e.createSede(t, "Sede Centro")
	pid := e.createParticipante(t, "1001", sedeID)
	e.createAcudiente(t, "3003", pid)

	code, env := e.do(t, "GET", fmt.Sprintf("/api/acudientes/participante/%d", pid), "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	// email stored lowercased, participante embedded
	if !strings.Contains(string(env.Data), `"email":"carlos.lopez@example.org"`) {
		t.Errorf("expected lowercased email: %s", env.Data)
	}
	if !strings.Contains(string(env.Data), `"participante":{"id":`) {
		t.Errorf("expected embedded participante: %s", env.Data)
	}

	code, env = e.do(t, "GET", "/api/acudientes/participante/42", "")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if env.Error.Message != "Participante con ID 42 no encontrado" {
		t.Errorf("unexpected message: %s", env.Error.Message)
	}
}

func TestMensualidadFlow(t *testing.T) {
	e := newTestEnv(t)
	sedeID := e.createSede(t, "Sede Centro")
	pid := e.createParticipante(t, "1001", sedeID)
	otherPid := e.createParticipante(t, "1002", sedeID)
	aid := e.createAcudiente(t, "3003", pid)

	// acudiente of another participante is rejected
	body := fmt.Sprintf(`{"participant_id": %d, "id_acudiente": %d, "mes": 3, "año": 2025, "monto": 50000}`, otherPid, aid)
	code, env := e.do(t, "POST", "/api/mensualidades", body)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for mismatched acudiente, got %d", code)
	}
	if !strings.Contains(env.Error.Message, "no pertenece al participante") {
		t.Errorf("unexpected message: %s", env.Error.Message)
	}

	// PAGADA without fecha_pago is rejected
	body = fmt.Sprintf(`{"participant_id": %d, "mes": 3, "año": 2025, "monto": 50000, "estado": "PAGADA"}`, pid)
	code, env = e.do(t, "POST", "/api/mensualidades", body)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for PAGADA sin fecha, got %d", code)
	}
	if env.Error.Message != "La fecha de pago es requerida cuando el estado es PAGADA" {
		t.Errorf("unexpected message: %s", env.Error.Message)
	}

	// defaults land as PENDIENTE/TRANSFERENCIA, response is enriched
	body = fmt.Sprintf(`{"participant_id": %d, "id_acudiente": %d, "mes": 3, "año": 2025, "monto": 50000}`, pid, aid)
	code, env = e.do(t, "POST", "/api/mensualidades", body)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", code, env.Error)
	}
	var created struct {
		ID     int64   `json:"id"`
		Estado string  `json:"estado"`
		Valor  float64 `json:"valor"`
		Status string  `json:"status"`
	}
	json.Unmarshal(env.Data, &created)
	if created.Estado != "PENDIENTE" || created.Status != "PENDIENTE" || created.Valor != 50000 {
		t.Errorf("unexpected created row: %s", env.Data)
	}
	if !strings.Contains(string(env.Data), `"participant_name":"Maria Lopez"`) {
		t.Errorf("expected enrichment: %s", env.Data)
	}

	// duplicate period
	code, env = e.do(t, "POST", "/api/mensualidades", body)
	if code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate period, got %d", code)
	}
	if !strings.Contains(env.Error.Message, "Ya existe una mensualidad para el participante") {
		t.Errorf("unexpected message: %s", env.Error.Message)
	}

	// paying the month queues a receipt
	code, env = e.do(t, "PUT", fmt.Sprintf("/api/mensualidades/%d", created.ID),
		`{"estado": "PAGADA", "fecha_pago": "2025-03-05"}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", code, env.Error)
	}
	pending, err := e.outbox.ListPending(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ActionType != outboxDomain.ActionReciboEmail {
		t.Fatalf("expected one queued receipt, got %+v", pending)
	}
	if !strings.Contains(pending[0].Payload, "carlos.lopez@example.org") {
		t.Errorf("payload should target the acudiente: %s", pending[0].Payload)
	}

	// explicit null clears the attribution
	code, env = e.do(t, "PUT", fmt.Sprintf("/api/mensualidades/%d", created.ID), `{"id_acudiente": null}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", code, env.Error)
	}
	if !strings.Contains(string(env.Data), `"acudiente_name":null`) {
		t.Errorf("attribution should be cleared: %s", env.Data)
	}

	code, env = e.do(t, "GET", "/api/mensualidades/participante/42", "")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestUsuarioCRUD(t *testing.T) {
	e := newTestEnv(t)

	code, env := e.do(t, "POST", "/api/usuarios", `{"email": "Admin@Example.org", "rol": "ADMINISTRADOR", "password": "secreta123"}`)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", code, env.Error)
	}
	if strings.Contains(string(env.Data), "password") {
		t.Errorf("hash must not serialize: %s", env.Data)
	}
	if !strings.Contains(string(env.Data), `"email":"admin@example.org"`) {
		t.Errorf("email should be lowercased: %s", env.Data)
	}

	code, env = e.do(t, "POST", "/api/usuarios", `{"email": "admin@example.org", "password": "otraclave9"}`)
	if code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", code)
	}
	if env.Error.Message != "Ya existe un usuario con el email admin@example.org" {
		t.Errorf("unexpected message: %s", env.Error.Message)
	}

	code, _ = e.do(t, "POST", "/api/usuarios", `{"email": "otro@example.org", "password": "corta"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %d", code)
	}
}

func TestOutboxFallidasEndpoint(t *testing.T) {
	e := newTestEnv(t)
	code, env := e.do(t, "GET", "/api/outbox/fallidas", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if env.Error != nil {
		t.Errorf("unexpected error: %v", env.Error)
	}
}

func TestOutboxRetryEntradaInexistente(t *testing.T) {
	e := newTestEnv(t)
	code, env := e.do(t, "POST", "/api/outbox/999/retry", "")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404 for a missing entry, got %d", code)
	}
	if env.Error.Message != "Entrada de outbox con ID 999 no encontrada" {
		t.Errorf("unexpected message: %s", env.Error.Message)
	}
}
