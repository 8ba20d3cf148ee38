package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"almadash/internal/adapters/email"
	outboxstore "almadash/internal/adapters/storage/outbox"
	"almadash/internal/apperr"
	domain "almadash/internal/domain/outbox"
)

// OutboxProcessor delivers queued external actions with retries.
type OutboxProcessor struct {
	store     outboxstore.Store
	executors map[string]ActionExecutor
	baseDelay time.Duration
	maxDelay  time.Duration
	batchSize int
}

// ActionExecutor executes a specific type of external action.
type ActionExecutor interface {
	// Execute runs the external action with the given payload.
	// Returns the provider's id for the delivered action and any error.
	Execute(ctx context.Context, payload string) (string, error)
}

// NewOutboxProcessor creates a new outbox processor.
func NewOutboxProcessor(store outboxstore.Store, executors map[string]ActionExecutor) *OutboxProcessor {
	return &OutboxProcessor{
		store:     store,
		executors: executors,
		baseDelay: 30 * time.Second,
		maxDelay:  1 * time.Hour,
		batchSize: 10,
	}
}

// ProcessPending processes pending outbox entries with retries.
// POST: Each due entry is attempted once and its state persisted
func (p *OutboxProcessor) ProcessPending(ctx context.Context) error {
	entries, err := p.store.ListPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("list pending outbox entries: %w", err)
	}

	for _, entry := range entries {
		if err := p.processEntry(ctx, entry); err != nil {
			slog.Error("outbox_process_failed", "entry_id", entry.ID, "action_type", entry.ActionType, "error", err.Error())
		}
	}

	return nil
}

func (p *OutboxProcessor) processEntry(ctx context.Context, entry domain.Entry) error {
	// Respect the backoff window between attempts
	if !entry.LastAttemptedAt.IsZero() {
		delay := entry.NextRetryDelay(p.baseDelay, p.maxDelay)
		if time.Since(entry.LastAttemptedAt) < delay {
			return nil
		}
	}

	executor, ok := p.executors[entry.ActionType]
	if !ok {
		entry.MarkFailed(fmt.Errorf("no executor registered for action type: %s", entry.ActionType))
		return p.store.Save(ctx, entry)
	}

	entry.MarkAttempt()
	externalID, err := executor.Execute(ctx, entry.Payload)
	if err != nil {
		entry.MarkFailed(err)
		slog.Warn("outbox_action_failed", "entry_id", entry.ID, "attempt", entry.Attempts, "error", err.Error())
	} else {
		entry.MarkSuccess(externalID)
		slog.Info("outbox_action_succeeded", "entry_id", entry.ID, "action_type", entry.ActionType, "external_id", externalID)
	}

	return p.store.Save(ctx, entry)
}

// ProcessSingle manually processes one outbox entry (for admin retry).
// POST: Entry is attempted regardless of the backoff window;
// KindNotFound when the entry does not exist
func (p *OutboxProcessor) ProcessSingle(ctx context.Context, entryID int64) error {
	entry, err := p.store.GetByID(ctx, entryID)
	if errors.Is(err, outboxstore.ErrNotFound) {
		return apperr.NotFound("Entrada de outbox con ID %d no encontrada", entryID)
	}
	if err != nil {
		return fmt.Errorf("get outbox entry %d: %w", entryID, err)
	}

	if entry.Status == domain.StatusDone {
		return apperr.New(apperr.KindValidation, "La entrada %d ya fue entregada", entryID)
	}

	executor, ok := p.executors[entry.ActionType]
	if !ok {
		return fmt.Errorf("no executor registered for action type: %s", entry.ActionType)
	}

	entry.MarkAttempt()
	externalID, err := executor.Execute(ctx, entry.Payload)
	if err != nil {
		entry.MarkFailed(err)
	} else {
		entry.MarkSuccess(externalID)
	}

	return p.store.Save(ctx, entry)
}

// ReceiptEmailExecutor delivers receipt emails queued by ReceiptQueue.
type ReceiptEmailExecutor struct {
	Sender email.Sender
}

// Execute renders and sends one receipt email.
// PRE: payload is valid JSON matching ReceiptPayload
// POST: Email handed to the provider; returns the provider message id
func (e *ReceiptEmailExecutor) Execute(ctx context.Context, payload string) (string, error) {
	var p ReceiptPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return "", fmt.Errorf("unmarshal receipt payload: %w", err)
	}

	data := email.ReceiptData{
		ParticipanteNombre: p.ParticipanteNombre,
		Mes:                p.Mes,
		Anio:               p.Anio,
		Monto:              p.Monto,
		MetodoPago:         p.MetodoPago,
		FechaPago:          p.FechaPago,
		Observaciones:      p.Observaciones,
	}
	html, err := email.RenderReceiptHTML(data)
	if err != nil {
		return "", err
	}

	result, err := e.Sender.Send(ctx, email.SendRequest{
		To:      p.To,
		Subject: data.Subject(),
		HTML:    html,
	})
	if err != nil {
		return "", err
	}
	return result.MessageID, nil
}

// StartBackgroundWorker runs ProcessPending on a fixed interval until stopCh
// is closed.
func StartBackgroundWorker(processor *OutboxProcessor, interval time.Duration, stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				if err := processor.ProcessPending(ctx); err != nil {
					slog.Error("outbox_background_process_failed", "error", err.Error())
				}
				cancel()
			case <-stopCh:
				slog.Info("outbox_background_worker_stopped")
				return
			}
		}
	}()
}
