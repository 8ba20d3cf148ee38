package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"almadash/internal/adapters/email"
	"almadash/internal/apperr"
	"almadash/internal/domain/outbox"
)

// mockExecutor implements ActionExecutor with a scripted outcome.
type mockExecutor struct {
	externalID string
	err        error
	calls      int
}

func (m *mockExecutor) Execute(_ context.Context, _ string) (string, error) {
	m.calls++
	return m.externalID, m.err
}

// mockSender implements email.Sender and records the last request.
type mockSender struct {
	last email.SendRequest
	err  error
}

func (m *mockSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	m.last = req
	if m.err != nil {
		return email.SendResult{}, m.err
	}
	return email.SendResult{MessageID: "msg-001", SentAt: time.Now()}, nil
}

func pendingEntry(id int64) outbox.Entry {
	return outbox.Entry{
		ID:          id,
		ActionType:  outbox.ActionReciboEmail,
		Payload:     `{"to":"a@example.com","participante_nombre":"Maria Lopez","mes":3,"año":2025,"monto":50000,"metodo_pago":"TRANSFERENCIA","fecha_pago":"2025-03-05"}`,
		Status:      outbox.StatusPending,
		MaxAttempts: 5,
		CreatedAt:   time.Now().Add(-time.Minute),
	}
}

func TestProcessPending_Success(t *testing.T) {
	store := newMockOutboxStore()
	e := pendingEntry(1)
	store.entries[1] = e
	store.nextID = 2

	exec := &mockExecutor{externalID: "msg-001"}
	p := NewOutboxProcessor(store, map[string]ActionExecutor{outbox.ActionReciboEmail: exec})

	if err := p.ProcessPending(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := store.entries[1]
	if got.Status != outbox.StatusDone {
		t.Errorf("expected done, got %s", got.Status)
	}
	if got.ExternalID != "msg-001" {
		t.Errorf("unexpected external id: %s", got.ExternalID)
	}
	if exec.calls != 1 {
		t.Errorf("expected one execution, got %d", exec.calls)
	}
}

func TestProcessPending_FailureMarksRetry(t *testing.T) {
	store := newMockOutboxStore()
	store.entries[1] = pendingEntry(1)
	store.nextID = 2

	exec := &mockExecutor{err: errors.New("provider down")}
	p := NewOutboxProcessor(store, map[string]ActionExecutor{outbox.ActionReciboEmail: exec})

	if err := p.ProcessPending(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := store.entries[1]
	if got.Status != outbox.StatusRetrying {
		t.Errorf("expected retrying, got %s", got.Status)
	}
	if got.Attempts != 1 {
		t.Errorf("expected one attempt recorded, got %d", got.Attempts)
	}
	if got.ErrorMessage != "provider down" {
		t.Errorf("unexpected error message: %s", got.ErrorMessage)
	}
}

func TestProcessPending_ExhaustedGoesFailed(t *testing.T) {
	store := newMockOutboxStore()
	e := pendingEntry(1)
	e.Attempts = 4
	e.Status = outbox.StatusRetrying
	e.LastAttemptedAt = time.Now().Add(-2 * time.Hour)
	store.entries[1] = e
	store.nextID = 2

	exec := &mockExecutor{err: errors.New("still down")}
	p := NewOutboxProcessor(store, map[string]ActionExecutor{outbox.ActionReciboEmail: exec})

	if err := p.ProcessPending(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := store.entries[1]
	if got.Status != outbox.StatusFailed {
		t.Errorf("expected failed after max attempts, got %s", got.Status)
	}
}

func TestProcessPending_RespectsBackoff(t *testing.T) {
	store := newMockOutboxStore()
	e := pendingEntry(1)
	e.Attempts = 1
	e.Status = outbox.StatusRetrying
	e.LastAttemptedAt = time.Now() // just attempted
	store.entries[1] = e
	store.nextID = 2

	exec := &mockExecutor{externalID: "msg-001"}
	p := NewOutboxProcessor(store, map[string]ActionExecutor{outbox.ActionReciboEmail: exec})

	if err := p.ProcessPending(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exec.calls != 0 {
		t.Errorf("expected no execution inside the backoff window, got %d", exec.calls)
	}
}

func TestProcessSingle_NotFound(t *testing.T) {
	p := NewOutboxProcessor(newMockOutboxStore(), map[string]ActionExecutor{})

	err := p.ProcessSingle(context.Background(), 42)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for a missing entry, got %v", err)
	}
	if !strings.Contains(err.Error(), "42") {
		t.Errorf("expected the entry id in the message, got %q", err.Error())
	}
}

func TestProcessSingle_IgnoresBackoff(t *testing.T) {
	store := newMockOutboxStore()
	e := pendingEntry(1)
	e.Attempts = 1
	e.Status = outbox.StatusRetrying
	e.LastAttemptedAt = time.Now() // inside the backoff window
	store.entries[1] = e
	store.nextID = 2

	exec := &mockExecutor{externalID: "msg-002"}
	p := NewOutboxProcessor(store, map[string]ActionExecutor{outbox.ActionReciboEmail: exec})

	if err := p.ProcessSingle(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exec.calls != 1 {
		t.Errorf("expected one forced execution, got %d", exec.calls)
	}
	if got := store.entries[1]; got.Status != outbox.StatusDone {
		t.Errorf("expected done, got %s", got.Status)
	}
}

func TestProcessSingle_AlreadyDelivered(t *testing.T) {
	store := newMockOutboxStore()
	e := pendingEntry(1)
	e.Status = outbox.StatusDone
	store.entries[1] = e
	store.nextID = 2

	exec := &mockExecutor{externalID: "msg-003"}
	p := NewOutboxProcessor(store, map[string]ActionExecutor{outbox.ActionReciboEmail: exec})

	err := p.ProcessSingle(context.Background(), 1)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected a classified rejection, got %v", err)
	}
	if exec.calls != 0 {
		t.Errorf("delivered entry must not be re-executed, got %d calls", exec.calls)
	}
}

func TestReceiptEmailExecutor(t *testing.T) {
	sender := &mockSender{}
	exec := &ReceiptEmailExecutor{Sender: sender}

	id, err := exec.Execute(context.Background(), pendingEntry(1).Payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "msg-001" {
		t.Errorf("unexpected message id: %s", id)
	}
	if sender.last.To != "a@example.com" {
		t.Errorf("unexpected recipient: %s", sender.last.To)
	}
	if sender.last.Subject != "Recibo de pago - Marzo 2025" {
		t.Errorf("unexpected subject: %s", sender.last.Subject)
	}
	if !strings.Contains(sender.last.HTML, "Maria Lopez") {
		t.Error("expected participante name in the rendered body")
	}
}

func TestReceiptEmailExecutor_BadPayload(t *testing.T) {
	exec := &ReceiptEmailExecutor{Sender: &mockSender{}}
	if _, err := exec.Execute(context.Background(), "{not json"); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
