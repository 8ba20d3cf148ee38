package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	participantestore "almadash/internal/adapters/storage/participante"
	"almadash/internal/apperr"
	"almadash/internal/application/validation"
	"almadash/internal/domain/participante"
)

// ParticipanteStore defines the participante persistence operations the
// orchestrators need.
type ParticipanteStore interface {
	GetByID(ctx context.Context, id int64) (participante.Participante, error)
	Insert(ctx context.Context, p participante.Participante) (participante.Participante, error)
	Update(ctx context.Context, p participante.Participante) error
	Delete(ctx context.Context, id int64) error
	ExistsByDocumento(ctx context.Context, numeroDocumento string, excludeID int64) (bool, error)
}

// SedeChecker verifies a sede id references a live row.
type SedeChecker interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// AcudienteCounterStore counts acudientes registered for a participante.
type AcudienteCounterStore interface {
	CountByParticipante(ctx context.Context, participanteID int64) (int, error)
}

// MensualidadCounterStore counts mensualidades on either side of the relation.
type MensualidadCounterStore interface {
	CountByParticipante(ctx context.Context, participanteID int64) (int, error)
	CountByAcudiente(ctx context.Context, acudienteID int64) (int, error)
}

// CreateParticipanteInput carries input for participante creation. Estado
// defaults to ACTIVO when empty.
type CreateParticipanteInput struct {
	Nombres         string
	Apellidos       string
	TipoDocumento   string
	NumeroDocumento string
	FechaNacimiento string
	Genero          string
	FechaIngreso    string
	Estado          string
	IDSede          int64
	Telefono        string
}

// CreateParticipanteDeps holds dependencies for ExecuteCreateParticipante.
type CreateParticipanteDeps struct {
	ParticipanteStore ParticipanteStore
	Sedes             SedeChecker
}

// ExecuteCreateParticipante coordinates participante creation. The sede
// reference is checked before the documento so a payload wrong on both counts
// reports the reference first.
// POST: Participante persisted with a generated id
// INVARIANT: NumeroDocumento is unique across participantes
func ExecuteCreateParticipante(ctx context.Context, input CreateParticipanteInput, deps CreateParticipanteDeps) (participante.Participante, error) {
	p := participante.Participante{
		Nombres:         input.Nombres,
		Apellidos:       input.Apellidos,
		TipoDocumento:   input.TipoDocumento,
		NumeroDocumento: input.NumeroDocumento,
		FechaNacimiento: input.FechaNacimiento,
		Genero:          input.Genero,
		FechaIngreso:    input.FechaIngreso,
		Estado:          input.Estado,
		IDSede:          input.IDSede,
		Telefono:        input.Telefono,
	}
	p.ApplyDefaults()
	if err := p.Validate(); err != nil {
		return participante.Participante{}, apperr.Validation(err)
	}

	if err := validation.SedeExists(ctx, deps.Sedes, p.IDSede); err != nil {
		return participante.Participante{}, err
	}
	if err := validation.DocumentoUnicoParticipante(ctx, deps.ParticipanteStore, p.NumeroDocumento, 0); err != nil {
		return participante.Participante{}, err
	}

	created, err := deps.ParticipanteStore.Insert(ctx, p)
	if errors.Is(err, participantestore.ErrDuplicate) {
		return participante.Participante{}, apperr.New(apperr.KindDuplicate, "Ya existe un participante con el documento %s", p.NumeroDocumento)
	}
	if err != nil {
		return participante.Participante{}, fmt.Errorf("insert participante: %w", err)
	}

	slog.Info("participante_event", "event", "created", "id", created.ID, "id_sede", created.IDSede)
	return created, nil
}

// UpdateParticipanteInput carries a partial update; nil fields stay unchanged.
type UpdateParticipanteInput struct {
	ID              int64
	Nombres         *string
	Apellidos       *string
	TipoDocumento   *string
	NumeroDocumento *string
	FechaNacimiento *string
	Genero          *string
	FechaIngreso    *string
	Estado          *string
	IDSede          *int64
	Telefono        *string
}

// UpdateParticipanteDeps holds dependencies for ExecuteUpdateParticipante.
type UpdateParticipanteDeps struct {
	ParticipanteStore ParticipanteStore
	Sedes             SedeChecker
}

// ExecuteUpdateParticipante applies a partial update to a participante.
// Referential checks run only for the fields actually provided; keeping the
// current documento never counts as a duplicate.
// POST: Provided fields merged over the current row and persisted
func ExecuteUpdateParticipante(ctx context.Context, input UpdateParticipanteInput, deps UpdateParticipanteDeps) (participante.Participante, error) {
	current, err := deps.ParticipanteStore.GetByID(ctx, input.ID)
	if errors.Is(err, participantestore.ErrNotFound) {
		return participante.Participante{}, apperr.NotFound("Participante no encontrado")
	}
	if err != nil {
		return participante.Participante{}, fmt.Errorf("load participante %d: %w", input.ID, err)
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
	if input.FechaNacimiento != nil {
		current.FechaNacimiento = *input.FechaNacimiento
	}
	if input.Genero != nil {
		current.Genero = *input.Genero
	}
	if input.FechaIngreso != nil {
		current.FechaIngreso = *input.FechaIngreso
	}
	if input.Estado != nil {
		current.Estado = *input.Estado
	}
	if input.IDSede != nil {
		current.IDSede = *input.IDSede
	}
	if input.Telefono != nil {
		current.Telefono = *input.Telefono
	}

	if err := current.Validate(); err != nil {
		return participante.Participante{}, apperr.Validation(err)
	}

	if input.IDSede != nil {
		if err := validation.SedeExists(ctx, deps.Sedes, current.IDSede); err != nil {
			return participante.Participante{}, err
		}
	}
	if input.NumeroDocumento != nil {
		if err := validation.DocumentoUnicoParticipante(ctx, deps.ParticipanteStore, current.NumeroDocumento, current.ID); err != nil {
			return participante.Participante{}, err
		}
	}

	err = deps.ParticipanteStore.Update(ctx, current)
	if errors.Is(err, participantestore.ErrDuplicate) {
		return participante.Participante{}, apperr.New(apperr.KindDuplicate, "Ya existe un participante con el documento %s", current.NumeroDocumento)
	}
	if errors.Is(err, participantestore.ErrNotFound) {
		return participante.Participante{}, apperr.NotFound("Participante no encontrado")
	}
	if err != nil {
		return participante.Participante{}, fmt.Errorf("update participante %d: %w", input.ID, err)
	}

	slog.Info("participante_event", "event", "updated", "id", current.ID)
	return current, nil
}

// DeleteParticipanteDeps holds dependencies for ExecuteDeleteParticipante.
type DeleteParticipanteDeps struct {
	ParticipanteStore ParticipanteStore
	Acudientes        AcudienteCounterStore
	Mensualidades     MensualidadCounterStore
}

// ExecuteDeleteParticipante deletes a participante with no acudientes and no
// mensualidades.
// POST: Row removed, or a classified rejection naming the dependent counts
func ExecuteDeleteParticipante(ctx context.Context, id int64, deps DeleteParticipanteDeps) error {
	if _, err := deps.ParticipanteStore.GetByID(ctx, id); err != nil {
		if errors.Is(err, participantestore.ErrNotFound) {
			return apperr.NotFound("Participante no encontrado")
		}
		return fmt.Errorf("load participante %d: %w", id, err)
	}

	if err := validation.CheckParticipanteDependencies(ctx, deps.Acudientes, deps.Mensualidades, id); err != nil {
		return err
	}

	if err := deps.ParticipanteStore.Delete(ctx, id); err != nil {
		if errors.Is(err, participantestore.ErrNotFound) {
			return apperr.NotFound("Participante no encontrado")
		}
		return fmt.Errorf("delete participante %d: %w", id, err)
	}

	slog.Info("participante_event", "event", "deleted", "id", id)
	return nil
}
