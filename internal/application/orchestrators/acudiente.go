package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	acudientestore "almadash/internal/adapters/storage/acudiente"
	"almadash/internal/apperr"
	"almadash/internal/application/validation"
	"almadash/internal/domain/acudiente"
)

// AcudienteStore defines the acudiente persistence operations the
// orchestrators need.
type AcudienteStore interface {
	GetByID(ctx context.Context, id int64) (acudiente.Acudiente, error)
	Insert(ctx context.Context, a acudiente.Acudiente) (acudiente.Acudiente, error)
	Update(ctx context.Context, a acudiente.Acudiente) error
	Delete(ctx context.Context, id int64) error
	ExistsByDocumento(ctx context.Context, numeroDocumento string, excludeID int64) (bool, error)
}

// ParticipanteChecker verifies a participante id references a live row.
type ParticipanteChecker interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// CreateAcudienteInput carries input for acudiente creation.
type CreateAcudienteInput struct {
	Nombres         string
	Apellidos       string
	TipoDocumento   string
	NumeroDocumento string
	Parentesco      string
	Telefono        string
	Email           string
	Direccion       string
	IDParticipante  int64
}

// CreateAcudienteDeps holds dependencies for ExecuteCreateAcudiente.
type CreateAcudienteDeps struct {
	AcudienteStore AcudienteStore
	Participantes  ParticipanteChecker
}

// ExecuteCreateAcudiente coordinates acudiente creation. The participante
// reference is checked before the documento.
// POST: Acudiente persisted with a generated id, email lowercased
// INVARIANT: NumeroDocumento is unique across acudientes
func ExecuteCreateAcudiente(ctx context.Context, input CreateAcudienteInput, deps CreateAcudienteDeps) (acudiente.Acudiente, error) {
	a := acudiente.Acudiente{
		Nombres:         input.Nombres,
		Apellidos:       input.Apellidos,
		TipoDocumento:   input.TipoDocumento,
		NumeroDocumento: input.NumeroDocumento,
		Parentesco:      input.Parentesco,
		Telefono:        input.Telefono,
		Email:           input.Email,
		Direccion:       input.Direccion,
		IDParticipante:  input.IDParticipante,
	}
	a.Normalize()
	if err := a.Validate(); err != nil {
		return acudiente.Acudiente{}, apperr.Validation(err)
	}

	if err := validation.ParticipanteExists(ctx, deps.Participantes, a.IDParticipante); err != nil {
		return acudiente.Acudiente{}, err
	}
	if err := validation.DocumentoUnicoAcudiente(ctx, deps.AcudienteStore, a.NumeroDocumento, 0); err != nil {
		return acudiente.Acudiente{}, err
	}

	created, err := deps.AcudienteStore.Insert(ctx, a)
	if errors.Is(err, acudientestore.ErrDuplicate) {
		return acudiente.Acudiente{}, apperr.New(apperr.KindDuplicate, "Ya existe un acudiente con el documento %s", a.NumeroDocumento)
	}
	if err != nil {
		return acudiente.Acudiente{}, fmt.Errorf("insert acudiente: %w", err)
	}

	slog.Info("acudiente_event", "event", "created", "id", created.ID, "id_participante", created.IDParticipante)
	return created, nil
}

// UpdateAcudienteInput carries a partial update; nil fields stay unchanged.
type UpdateAcudienteInput struct {
	ID              int64
	Nombres         *string
	Apellidos       *string
	TipoDocumento   *string
	NumeroDocumento *string
	Parentesco      *string
	Telefono        *string
	Email           *string
	Direccion       *string
	IDParticipante  *int64
}

// UpdateAcudienteDeps holds dependencies for ExecuteUpdateAcudiente.
type UpdateAcudienteDeps struct {
	AcudienteStore AcudienteStore
	Participantes  ParticipanteChecker
}

// ExecuteUpdateAcudiente applies a partial update to an acudiente.
// Referential checks run only for the fields actually provided.
// POST: Provided fields merged over the current row and persisted
func ExecuteUpdateAcudiente(ctx context.Context, input UpdateAcudienteInput, deps UpdateAcudienteDeps) (acudiente.Acudiente, error) {
	current, err := deps.AcudienteStore.GetByID(ctx, input.ID)
	if errors.Is(err, acudientestore.ErrNotFound) {
		return acudiente.Acudiente{}, apperr.NotFound("Acudiente no encontrado")
	}
	if err != nil {
		return acudiente.Acudiente{}, fmt.Errorf("load acudiente %d: %w", input.ID, err)
	}

	if input.Nombres != nil {
		current.Nombres = *input.Nombres
	}
	if input.Apellidos != nil {
		current.Apellidos = *input.Apellidos
	}
	if input.TipoDocumento != nil {
		current.TipoDocumento = *input.TipoDocumento
	}
	if input.NumeroDocumento != nil {
		current.NumeroDocumento = *input.NumeroDocumento
	}
	if input.Parentesco != nil {
		current.Parentesco = *input.Parentesco
	}
	if input.Telefono != nil {
		current.Telefono = *input.Telefono
	}
	if input.Email != nil {
		current.Email = *input.Email
	}
	if input.Direccion != nil {
		current.Direccion = *input.Direccion
	}
	if input.IDParticipante != nil {
		current.IDParticipante = *input.IDParticipante
	}

	current.Normalize()
	if err := current.Validate(); err != nil {
		return acudiente.Acudiente{}, apperr.Validation(err)
	}

	if input.IDParticipante != nil {
		if err := validation.ParticipanteExists(ctx, deps.Participantes, current.IDParticipante); err != nil {
			return acudiente.Acudiente{}, err
		}
	}
	if input.NumeroDocumento != nil {
		if err := validation.DocumentoUnicoAcudiente(ctx, deps.AcudienteStore, current.NumeroDocumento, current.ID); err != nil {
			return acudiente.Acudiente{}, err
		}
	}

	err = deps.AcudienteStore.Update(ctx, current)
	if errors.Is(err, acudientestore.ErrDuplicate) {
		return acudiente.Acudiente{}, apperr.New(apperr.KindDuplicate, "Ya existe un acudiente con el documento %s", current.NumeroDocumento)
	}
	if errors.Is(err, acudientestore.ErrNotFound) {
		return acudiente.Acudiente{}, apperr.NotFound("Acudiente no encontrado")
	}
	if err != nil {
		return acudiente.Acudiente{}, fmt.Errorf("update acudiente %d: %w", input.ID, err)
	}

	slog.Info("acudiente_event", "event", "updated", "id", current.ID)
	return current, nil
}

// DeleteAcudienteDeps holds dependencies for ExecuteDeleteAcudiente.
type DeleteAcudienteDeps struct {
	AcudienteStore AcudienteStore
	Mensualidades  MensualidadCounterStore
}

// ExecuteDeleteAcudiente deletes an acudiente with no attributed
// mensualidades.
// POST: Row removed, or a classified rejection naming the dependent count
func ExecuteDeleteAcudiente(ctx context.Context, id int64, deps DeleteAcudienteDeps) error {
	if _, err := deps.AcudienteStore.GetByID(ctx, id); err != nil {
		if errors.Is(err, acudientestore.ErrNotFound) {
			return apperr.NotFound("Acudiente no encontrado")
		}
		return fmt.Errorf("load acudiente %d: %w", id, err)
	}

	if err := validation.CheckAcudienteDependencies(ctx, deps.Mensualidades, id); err != nil {
		return err
	}

	if err := deps.AcudienteStore.Delete(ctx, id); err != nil {
		if errors.Is(err, acudientestore.ErrNotFound) {
			return apperr.NotFound("Acudiente no encontrado")
		}
		return fmt.Errorf("delete acudiente %d: %w", id, err)
	}

	slog.Info("acudiente_event", "event", "deleted", "id", id)
	return nil
}
