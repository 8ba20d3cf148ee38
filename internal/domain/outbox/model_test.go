package outbox_test

import (
	"errors"
	"testing"
	"time"

	"almadash/internal/domain/outbox"
)

func validEntry() outbox.Entry {
	return outbox.Entry{
		ActionType:  outbox.ActionReciboEmail,
		Payload:     `{"to":"carlos@example.org"}`,
		Status:      outbox.StatusPending,
		MaxAttempts: 5,
		CreatedAt:   time.Now(),
	}
}

// TestEntry_Validate tests validation of Entry.
func TestEntry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*outbox.Entry)
		wantErr bool
	}{
		{name: "valid entry", mutate: func(e *outbox.Entry) {}, wantErr: false},
		{name: "empty action type", mutate: func(e *outbox.Entry) { e.ActionType = "" }, wantErr: true},
		{name: "empty payload", mutate: func(e *outbox.Entry) { e.Payload = "" }, wantErr: true},
		{name: "zero created_at", mutate: func(e *outbox.Entry) { e.CreatedAt = time.Time{} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry()
			tt.mutate(&e)
			err := e.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEntry_Lifecycle(t *testing.T) {
	e := validEntry()

	e.MarkAttempt()
	if e.Attempts != 1 || e.Status != outbox.StatusRetrying || e.LastAttemptedAt.IsZero() {
		t.Errorf("unexpected state after attempt: %+v", e)
	}

	e.MarkFailed(errors.New("provider timeout"))
	if e.Status != outbox.StatusRetrying {
		t.Errorf("one failure must not be terminal, got %s", e.Status)
	}
	if e.ErrorMessage != "provider timeout" {
		t.Errorf("ErrorMessage = %q", e.ErrorMessage)
	}
	if !e.CanRetry() {
		t.Error("entry under max attempts should be retryable")
	}

	e.MarkSuccess("re_123")
	if e.Status != outbox.StatusDone || e.ExternalID != "re_123" || e.ErrorMessage != "" {
		t.Errorf("unexpected state after success: %+v", e)
	}
}

func TestEntry_ExhaustsAttempts(t *testing.T) {
	e := validEntry()
	e.MaxAttempts = 2

	e.MarkAttempt()
	e.MarkFailed(errors.New("boom"))
	e.MarkAttempt()
	e.MarkFailed(errors.New("boom"))

	if e.Status != outbox.StatusFailed {
		t.Errorf("expected terminal failure, got %s", e.Status)
	}
	if e.CanRetry() {
		t.Error("exhausted entry must not be retryable")
	}
}

func TestEntry_NextRetryDelay(t *testing.T) {
	e := validEntry()
	base := 30 * time.Second
	max := time.Hour

	if got := e.NextRetryDelay(base, max); got != 30*time.Second {
		t.Errorf("attempt 0 delay = %v", got)
	}
	e.Attempts = 3
	if got := e.NextRetryDelay(base, max); got != 4*time.Minute {
		t.Errorf("attempt 3 delay = %v", got)
	}
	e.Attempts = 10
	if got := e.NextRetryDelay(base, max); got != max {
		t.Errorf("delay must cap at max, got %v", got)
	}
}
