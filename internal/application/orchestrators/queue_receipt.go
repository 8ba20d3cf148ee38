package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	outboxstore "almadash/internal/adapters/storage/outbox"
	"almadash/internal/domain/acudiente"
	"almadash/internal/domain/mensualidad"
	"almadash/internal/domain/outbox"
	"almadash/internal/domain/participante"
)

// ReceiptPayload is the JSON stored in the outbox for a receipt email.
// It carries everything the executor needs so delivery never re-reads the
// payment tables.
type ReceiptPayload struct {
	To                 string  `json:"to"`
	ParticipanteNombre string  `json:"participante_nombre"`
	Mes                int     `json:"mes"`
	Anio               int     `json:"año"`
	Monto              float64 `json:"monto"`
	MetodoPago         string  `json:"metodo_pago"`
	FechaPago          string  `json:"fecha_pago"`
	Observaciones      string  `json:"observaciones"`
}

// ParticipanteReader loads a participante for display fields.
type ParticipanteReader interface {
	GetByID(ctx context.Context, id int64) (participante.Participante, error)
}

// AcudienteReader loads an acudiente for the recipient address.
type AcudienteReader interface {
	GetByID(ctx context.Context, id int64) (acudiente.Acudiente, error)
}

// ReceiptQueue enqueues receipt emails for paid mensualidades. It implements
// ReceiptQueuer.
type ReceiptQueue struct {
	participantes ParticipanteReader
	acudientes    AcudienteReader
	outbox        outboxstore.Store
	now           func() time.Time
}

// NewReceiptQueue creates a ReceiptQueue.
func NewReceiptQueue(participantes ParticipanteReader, acudientes AcudienteReader, store outboxstore.Store) *ReceiptQueue {
	return &ReceiptQueue{
		participantes: participantes,
		acudientes:    acudientes,
		outbox:        store,
		now:           time.Now,
	}
}

// QueueReceipt records an outbox entry for the payment. Payments with no
// acudiente attribution have nobody to mail, so they are skipped.
// PRE: m is persisted and PAGADA
// POST: One pending outbox entry, or a silent skip
func (q *ReceiptQueue) QueueReceipt(ctx context.Context, m mensualidad.Mensualidad) error {
	if m.IDAcudiente == nil {
		slog.Debug("receipt_skipped", "mensualidad_id", m.ID, "reason", "sin_acudiente")
		return nil
	}

	a, err := q.acudientes.GetByID(ctx, *m.IDAcudiente)
	if err != nil {
		return fmt.Errorf("load acudiente %d: %w", *m.IDAcudiente, err)
	}
	if a.Email == "" {
		slog.Debug("receipt_skipped", "mensualidad_id", m.ID, "reason", "sin_email")
		return nil
	}

	p, err := q.participantes.GetByID(ctx, m.ParticipantID)
	if err != nil {
		return fmt.Errorf("load participante %d: %w", m.ParticipantID, err)
	}

	payload, err := json.Marshal(ReceiptPayload{
		To:                 a.Email,
		ParticipanteNombre: p.NombreCompleto(),
		Mes:                m.Mes,
		Anio:               m.Anio,
		Monto:              m.Monto,
		MetodoPago:         m.MetodoPago,
		FechaPago:          m.FechaPago,
		Observaciones:      m.Observaciones,
	})
	if err != nil {
		return fmt.Errorf("marshal receipt payload: %w", err)
	}

	entry := outbox.Entry{
		ActionType:  outbox.ActionReciboEmail,
		Payload:     string(payload),
		Status:      outbox.StatusPending,
		MaxAttempts: 5,
		CreatedAt:   q.now(),
	}
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validate outbox entry: %w", err)
	}

	created, err := q.outbox.Insert(ctx, entry)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}

	slog.Info("receipt_queued", "entry_id", created.ID, "mensualidad_id", m.ID, "to", a.Email)
	return nil
}
