package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	mensualidadstore "almadash/internal/adapters/storage/mensualidad"
	"almadash/internal/apperr"
	"almadash/internal/application/validation"
	"almadash/internal/domain/mensualidad"
)

// MensualidadStore defines the mensualidad persistence operations the
// orchestrators need.
type MensualidadStore interface {
	GetByID(ctx context.Context, id int64) (mensualidad.Mensualidad, error)
	Insert(ctx context.Context, m mensualidad.Mensualidad) (mensualidad.Mensualidad, error)
	Update(ctx context.Context, m mensualidad.Mensualidad) error
	Delete(ctx context.Context, id int64) error
	ExistsPeriodo(ctx context.Context, participanteID int64, mes, anio int, excludeID int64) (bool, error)
}

// AcudienteResolver resolves the participante an acudiente belongs to.
type AcudienteResolver interface {
	ParticipanteIDOf(ctx context.Context, id int64) (participanteID int64, ok bool, err error)
}

// ReceiptQueuer enqueues a payment receipt for delivery. Queueing failures
// never fail the payment itself.
type ReceiptQueuer interface {
	QueueReceipt(ctx context.Context, m mensualidad.Mensualidad) error
}

// CreateMensualidadInput carries input for mensualidad creation. Estado
// defaults to PENDIENTE and MetodoPago to TRANSFERENCIA when empty.
type CreateMensualidadInput struct {
	ParticipantID int64
	IDAcudiente   *int64
	Mes           int
	Anio          int
	Monto         float64
	Estado        string
	MetodoPago    string
	FechaPago     string
	Observaciones string
}

// CreateMensualidadDeps holds dependencies for ExecuteCreateMensualidad.
type CreateMensualidadDeps struct {
	MensualidadStore MensualidadStore
	Participantes    ParticipanteChecker
	Acudientes       AcudienteResolver
	Receipts         ReceiptQueuer // optional
}

// ExecuteCreateMensualidad coordinates payment registration. Checks run in a
// fixed order: the participante reference, then the acudiente attribution,
// then period uniqueness, then the PAGADA date rule.
// POST: Mensualidad persisted; a receipt is queued when it lands as PAGADA
// INVARIANT: One mensualidad per (participante, mes, año)
func ExecuteCreateMensualidad(ctx context.Context, input CreateMensualidadInput, deps CreateMensualidadDeps) (mensualidad.Mensualidad, error) {
	m := mensualidad.Mensualidad{
		ParticipantID: input.ParticipantID,
		IDAcudiente:   input.IDAcudiente,
		Mes:           input.Mes,
		Anio:          input.Anio,
		Monto:         input.Monto,
		Estado:        input.Estado,
		MetodoPago:    input.MetodoPago,
		FechaPago:     input.FechaPago,
		Observaciones: input.Observaciones,
	}
	m.ApplyDefaults()
	if err := m.Validate(); err != nil {
		return mensualidad.Mensualidad{}, apperr.Validation(err)
	}

	if err := validation.ParticipanteExists(ctx, deps.Participantes, m.ParticipantID); err != nil {
		return mensualidad.Mensualidad{}, err
	}
	if m.IDAcudiente != nil {
		if err := validation.AcudienteBelongsToParticipante(ctx, deps.Acudientes, *m.IDAcudiente, m.ParticipantID); err != nil {
			return mensualidad.Mensualidad{}, err
		}
	}
	if err := validation.MensualidadUnica(ctx, deps.MensualidadStore, m.ParticipantID, m.Mes, m.Anio, 0); err != nil {
		return mensualidad.Mensualidad{}, err
	}
	if m.IsPagada() && m.FechaPago == "" {
		return mensualidad.Mensualidad{}, apperr.New(apperr.KindMissingRequiredField, "La fecha de pago es requerida cuando el estado es PAGADA")
	}

	created, err := deps.MensualidadStore.Insert(ctx, m)
	if errors.Is(err, mensualidadstore.ErrDuplicate) {
		return mensualidad.Mensualidad{}, apperr.New(apperr.KindDuplicate, "Ya existe una mensualidad para el participante %d en %d/%d", m.ParticipantID, m.Mes, m.Anio)
	}
	if err != nil {
		return mensualidad.Mensualidad{}, fmt.Errorf("insert mensualidad: %w", err)
	}

	slog.Info("mensualidad_event", "event", "created", "id", created.ID,
		"participant_id", created.ParticipantID, "mes", created.Mes, "anio", created.Anio, "estado", created.Estado)

	if created.IsPagada() {
		queueReceipt(ctx, deps.Receipts, created)
	}
	return created, nil
}

// UpdateMensualidadInput carries a partial update; nil fields stay unchanged.
// IDAcudienteSet distinguishes "not provided" from an explicit null that
// clears the attribution.
type UpdateMensualidadInput struct {
	ID             int64
	ParticipantID  *int64
	IDAcudiente    *int64
	IDAcudienteSet bool
	Mes            *int
	Anio           *int
	Monto          *float64
	Estado         *string
	MetodoPago     *string
	FechaPago      *string
	Observaciones  *string
}

// UpdateMensualidadDeps holds dependencies for ExecuteUpdateMensualidad.
type UpdateMensualidadDeps struct {
	MensualidadStore MensualidadStore
	Participantes    ParticipanteChecker
	Acudientes       AcudienteResolver
	Receipts         ReceiptQueuer // optional
}

// ExecuteUpdateMensualidad applies a partial update to a mensualidad.
// Referential checks run only for the fields actually provided; the period
// and the PAGADA date rule are re-checked over the merged values.
// POST: Provided fields merged over the current row and persisted; a receipt
// is queued when the update moves the row into PAGADA
func ExecuteUpdateMensualidad(ctx context.Context, input UpdateMensualidadInput, deps UpdateMensualidadDeps) (mensualidad.Mensualidad, error) {
	current, err := deps.MensualidadStore.GetByID(ctx, input.ID)
	if errors.Is(err, mensualidadstore.ErrNotFound) {
		return mensualidad.Mensualidad{}, apperr.NotFound("Mensualidad no encontrada")
	}
	if err != nil {
		return mensualidad.Mensualidad{}, fmt.Errorf("load mensualidad %d: %w", input.ID, err)
	}
	wasPagada := current.IsPagada()

	if input.ParticipantID != nil {
		current.ParticipantID = *input.ParticipantID
	}
	if input.IDAcudienteSet {
		current.IDAcudiente = input.IDAcudiente
	}
	if input.Mes != nil {
		current.Mes = *input.Mes
	}
	if input.Anio != nil {
		current.Anio = *input.Anio
	}
	if input.Monto != nil {
		current.Monto = *input.Monto
	}
	if input.Estado != nil {
		current.Estado = *input.Estado
	}
	if input.MetodoPago != nil {
		current.MetodoPago = *input.MetodoPago
	}
	if input.FechaPago != nil {
		current.FechaPago = *input.FechaPago
	}
	if input.Observaciones != nil {
		current.Observaciones = *input.Observaciones
	}

	if err := current.Validate(); err != nil {
		return mensualidad.Mensualidad{}, apperr.Validation(err)
	}

	if input.ParticipantID != nil {
		if err := validation.ParticipanteExists(ctx, deps.Participantes, current.ParticipantID); err != nil {
			return mensualidad.Mensualidad{}, err
		}
	}
	if input.IDAcudienteSet && current.IDAcudiente != nil {
		if err := validation.AcudienteBelongsToParticipante(ctx, deps.Acudientes, *current.IDAcudiente, current.ParticipantID); err != nil {
			return mensualidad.Mensualidad{}, err
		}
	}
	if input.ParticipantID != nil || input.Mes != nil || input.Anio != nil {
		if err := validation.MensualidadUnica(ctx, deps.MensualidadStore, current.ParticipantID, current.Mes, current.Anio, current.ID); err != nil {
			return mensualidad.Mensualidad{}, err
		}
	}
	if current.IsPagada() && current.FechaPago == "" {
		return mensualidad.Mensualidad{}, apperr.New(apperr.KindMissingRequiredField, "La fecha de pago es requerida cuando el estado es PAGADA")
	}

	err = deps.MensualidadStore.Update(ctx, current)
	if errors.Is(err, mensualidadstore.ErrDuplicate) {
		return mensualidad.Mensualidad{}, apperr.New(apperr.KindDuplicate, "Ya existe una mensualidad para el participante %d en %d/%d", current.ParticipantID, current.Mes, current.Anio)
	}
	if errors.Is(err, mensualidadstore.ErrNotFound) {
		return mensualidad.Mensualidad{}, apperr.NotFound("Mensualidad no encontrada")
	}
	if err != nil {
		return mensualidad.Mensualidad{}, fmt.Errorf("update mensualidad %d: %w", input.ID, err)
	}

	slog.Info("mensualidad_event", "event", "updated", "id", current.ID, "estado", current.Estado)

	if !wasPagada && current.IsPagada() {
		queueReceipt(ctx, deps.Receipts, current)
	}
	return current, nil
}

// DeleteMensualidadDeps holds dependencies for ExecuteDeleteMensualidad.
type DeleteMensualidadDeps struct {
	MensualidadStore MensualidadStore
}

// ExecuteDeleteMensualidad deletes a mensualidad. Nothing references payment
// rows, so there is no dependency check.
// POST: Row removed, or KindNotFound
func ExecuteDeleteMensualidad(ctx context.Context, id int64, deps DeleteMensualidadDeps) error {
	if err := deps.MensualidadStore.Delete(ctx, id); err != nil {
		if errors.Is(err, mensualidadstore.ErrNotFound) {
			return apperr.NotFound("Mensualidad no encontrada")
		}
		return fmt.Errorf("delete mensualidad %d: %w", id, err)
	}

	slog.Info("mensualidad_event", "event", "deleted", "id", id)
	return nil
}

func queueReceipt(ctx context.Context, receipts ReceiptQueuer, m mensualidad.Mensualidad) {
	if receipts == nil {
		return
	}
	if err := receipts.QueueReceipt(ctx, m); err != nil {
		slog.Error("receipt_queue_failed", "mensualidad_id", m.ID, "error", err.Error())
	}
}
