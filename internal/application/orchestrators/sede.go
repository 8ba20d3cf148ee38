package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sedestore "almadash/internal/adapters/storage/sede"
	"almadash/internal/apperr"
	"almadash/internal/application/validation"
	"almadash/internal/domain/sede"
)

// SedeStore defines the sede persistence operations the orchestrators need.
type SedeStore interface {
	GetByID(ctx context.Context, id int64) (sede.Sede, error)
	Insert(ctx context.Context, s sede.Sede) (sede.Sede, error)
	Update(ctx context.Context, s sede.Sede) error
	Delete(ctx context.Context, id int64) error
	ExistsByNombre(ctx context.Context, nombreNormalizado string, excludeID int64) (bool, error)
}

// ParticipanteCounterStore counts participantes enrolled at a sede.
type ParticipanteCounterStore interface {
	CountBySede(ctx context.Context, sedeID int64) (int, error)
}

// CreateSedeInput carries input for sede creation. Estado and Tipo default
// when empty.
type CreateSedeInput struct {
	Nombre          string
	Direccion       string
	Telefono        string
	CapacidadMaxima *int
	Estado          string
	Tipo            string
}

// CreateSedeDeps holds dependencies for ExecuteCreateSede.
type CreateSedeDeps struct {
	SedeStore SedeStore
}

// ExecuteCreateSede coordinates sede creation.
// PRE: input carries the raw client payload
// POST: Sede persisted with a generated id
// INVARIANT: Nombre is unique ignoring case and surrounding whitespace
func ExecuteCreateSede(ctx context.Context, input CreateSedeInput, deps CreateSedeDeps) (sede.Sede, error) {
	s := sede.Sede{
		Nombre:          input.Nombre,
		Direccion:       input.Direccion,
		Telefono:        input.Telefono,
		CapacidadMaxima: input.CapacidadMaxima,
		Estado:          input.Estado,
		Tipo:            input.Tipo,
	}
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return sede.Sede{}, apperr.Validation(err)
	}

	if err := validation.NombreSedeUnico(ctx, deps.SedeStore, sede.NombreNormalizado(s.Nombre), s.Nombre, 0); err != nil {
		return sede.Sede{}, err
	}

	created, err := deps.SedeStore.Insert(ctx, s)
	if errors.Is(err, sedestore.ErrDuplicate) {
		// lost the race between the pre-check and the insert
		return sede.Sede{}, apperr.New(apperr.KindDuplicate, "Ya existe una sede con el nombre '%s'", s.Nombre)
	}
	if err != nil {
		return sede.Sede{}, fmt.Errorf("insert sede: %w", err)
	}

	slog.Info("sede_event", "event", "created", "id", created.ID, "nombre", created.Nombre)
	return created, nil
}

// UpdateSedeInput carries a partial update; nil fields stay unchanged.
type UpdateSedeInput struct {
	ID              int64
	Nombre          *string
	Direccion       *string
	Telefono        *string
	CapacidadMaxima *int
	Estado          *string
	Tipo            *string
}

// UpdateSedeDeps holds dependencies for ExecuteUpdateSede.
type UpdateSedeDeps struct {
	SedeStore SedeStore
}

// ExecuteUpdateSede applies a partial update to a sede.
// PRE: input.ID addresses the sede to update
// POST: Provided fields merged over the current row and persisted
// INVARIANT: Keeping the current nombre never counts as a duplicate
func ExecuteUpdateSede(ctx context.Context, input UpdateSedeInput, deps UpdateSedeDeps) (sede.Sede, error) {
	current, err := deps.SedeStore.GetByID(ctx, input.ID)
	if errors.Is(err, sedestore.ErrNotFound) {
		return sede.Sede{}, apperr.NotFound("Sede no encontrada")
	}
	if err != nil {
		return sede.Sede{}, fmt.Errorf("load sede %d: %w", input.ID, err)
	}

	if input.Nombre != nil {
		current.Nombre = *input.Nombre
	}
	if input.Direccion != nil {
		current.Direccion = *input.Direccion
	}
	if input.Telefono != nil {
		current.Telefono = *input.Telefono
	}
	if input.CapacidadMaxima != nil {
		current.CapacidadMaxima = input.CapacidadMaxima
	}
	if input.Estado != nil {
		current.Estado = *input.Estado
	}
	if input.Tipo != nil {
		current.Tipo = *input.Tipo
	}

	if err := current.Validate(); err != nil {
		return sede.Sede{}, apperr.Validation(err)
	}

	if input.Nombre != nil {
		if err := validation.NombreSedeUnico(ctx, deps.SedeStore, sede.NombreNormalizado(current.Nombre), current.Nombre, current.ID); err != nil {
			return sede.Sede{}, err
		}
	}

	err = deps.SedeStore.Update(ctx, current)
	if errors.Is(err, sedestore.ErrDuplicate) {
		return sede.Sede{}, apperr.New(apperr.KindDuplicate, "Ya existe una sede con el nombre '%s'", current.Nombre)
	}
	if errors.Is(err, sedestore.ErrNotFound) {
		return sede.Sede{}, apperr.NotFound("Sede no encontrada")
	}
	if err != nil {
		return sede.Sede{}, fmt.Errorf("update sede %d: %w", input.ID, err)
	}

	slog.Info("sede_event", "event", "updated", "id", current.ID)
	return current, nil
}

// DeleteSedeDeps holds dependencies for ExecuteDeleteSede.
type DeleteSedeDeps struct {
	SedeStore     SedeStore
	Participantes ParticipanteCounterStore
}

// ExecuteDeleteSede deletes a sede with no enrolled participantes.
// POST: Row removed, or a classified rejection
// INVARIANT: A sede with participantes is never deleted
func ExecuteDeleteSede(ctx context.Context, id int64, deps DeleteSedeDeps) error {
	if _, err := deps.SedeStore.GetByID(ctx, id); err != nil {
		if errors.Is(err, sedestore.ErrNotFound) {
			return apperr.NotFound("Sede no encontrada")
		}
		return fmt.Errorf("load sede %d: %w", id, err)
	}

	if err := validation.CheckSedeDependencies(ctx, deps.Participantes, id); err != nil {
		return err
	}

	if err := deps.SedeStore.Delete(ctx, id); err != nil {
		if errors.Is(err, sedestore.ErrNotFound) {
			return apperr.NotFound("Sede no encontrada")
		}
		return fmt.Errorf("delete sede %d: %w", id, err)
	}

	slog.Info("sede_event", "event", "deleted", "id", id)
	return nil
}
