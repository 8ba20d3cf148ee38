// Package validation centralizes the referential checks shared by the
// mutation orchestrators: foreign keys point at live rows, natural keys stay
// unique, and rows with dependents refuse deletion. Each check takes the
// narrowest store interface it needs so tests can stub them with maps.
package validation

import (
	"context"
	"fmt"

	"almadash/internal/apperr"
)

// ExistenceChecker reports whether a row with the id exists.
type ExistenceChecker interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// DocumentoChecker reports whether a documento is taken by another row.
type DocumentoChecker interface {
	ExistsByDocumento(ctx context.Context, numeroDocumento string, excludeID int64) (bool, error)
}

// NombreSedeChecker reports whether a normalized sede nombre is taken.
type NombreSedeChecker interface {
	ExistsByNombre(ctx context.Context, nombreNormalizado string, excludeID int64) (bool, error)
}

// PeriodoChecker reports whether a (participante, mes, año) period is taken.
type PeriodoChecker interface {
	ExistsPeriodo(ctx context.Context, participanteID int64, mes, anio int, excludeID int64) (bool, error)
}

// OwnerResolver resolves the participante an acudiente belongs to.
type OwnerResolver interface {
	ParticipanteIDOf(ctx context.Context, id int64) (participanteID int64, ok bool, err error)
}

// EmailChecker reports whether an email is taken by another usuario.
type EmailChecker interface {
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
}

// SedeExists verifies the sede id references a live row.
// POST: nil if the sede exists, KindInvalidReference otherwise
func SedeExists(ctx context.Context, sedes ExistenceChecker, id int64) error {
	ok, err := sedes.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check sede %d: %w", id, err)
	}
	if !ok {
		return apperr.New(apperr.KindInvalidReference, "La sede con ID %d no existe", id)
	}
	return nil
}

// ParticipanteExists verifies the participante id references a live row.
// POST: nil if the participante exists, KindInvalidReference otherwise
func ParticipanteExists(ctx context.Context, participantes ExistenceChecker, id int64) error {
	ok, err := participantes.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check participante %d: %w", id, err)
	}
	if !ok {
		return apperr.New(apperr.KindInvalidReference, "El participante con ID %d no existe", id)
	}
	return nil
}

// AcudienteExists verifies the acudiente id references a live row.
// POST: nil if the acudiente exists, KindInvalidReference otherwise
func AcudienteExists(ctx context.Context, acudientes ExistenceChecker, id int64) error {
	ok, err := acudientes.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check acudiente %d: %w", id, err)
	}
	if !ok {
		return apperr.New(apperr.KindInvalidReference, "El acudiente con ID %d no existe", id)
	}
	return nil
}

// DocumentoUnicoParticipante verifies no other participante uses the
// documento. excludeID = 0 excludes nothing; updates pass their own id so an
// unchanged documento stays valid.
// POST: nil if free, KindDuplicate otherwise
func DocumentoUnicoParticipante(ctx context.Context, participantes DocumentoChecker, numeroDocumento string, excludeID int64) error {
	taken, err := participantes.ExistsByDocumento(ctx, numeroDocumento, excludeID)
	if err != nil {
		return fmt.Errorf("check participante documento: %w", err)
	}
	if taken {
		return apperr.New(apperr.KindDuplicate, "Ya existe un participante con el documento %s", numeroDocumento)
	}
	return nil
}

// DocumentoUnicoAcudiente verifies no other acudiente uses the documento.
// POST: nil if free, KindDuplicate otherwise
func DocumentoUnicoAcudiente(ctx context.Context, acudientes DocumentoChecker, numeroDocumento string, excludeID int64) error {
	taken, err := acudientes.ExistsByDocumento(ctx, numeroDocumento, excludeID)
	if err != nil {
		return fmt.Errorf("check acudiente documento: %w", err)
	}
	if taken {
		return apperr.New(apperr.KindDuplicate, "Ya existe un acudiente con el documento %s", numeroDocumento)
	}
	return nil
}

// NombreSedeUnico verifies no other sede uses the nombre. The comparison is
// over the normalized (trim+lower) form but the message echoes the raw input.
// POST: nil if free, KindDuplicate otherwise
func NombreSedeUnico(ctx context.Context, sedes NombreSedeChecker, nombreNormalizado, nombre string, excludeID int64) error {
	taken, err := sedes.ExistsByNombre(ctx, nombreNormalizado, excludeID)
	if err != nil {
		return fmt.Errorf("check sede nombre: %w", err)
	}
	if taken {
		return apperr.New(apperr.KindDuplicate, "Ya existe una sede con el nombre '%s'", nombre)
	}
	return nil
}

// MensualidadUnica verifies no other mensualidad covers the same
// (participante, mes, año) period.
// POST: nil if free, KindDuplicate otherwise
func MensualidadUnica(ctx context.Context, mensualidades PeriodoChecker, participanteID int64, mes, anio int, excludeID int64) error {
	taken, err := mensualidades.ExistsPeriodo(ctx, participanteID, mes, anio, excludeID)
	if err != nil {
		return fmt.Errorf("check mensualidad periodo: %w", err)
	}
	if taken {
		return apperr.New(apperr.KindDuplicate, "Ya existe una mensualidad para el participante %d en %d/%d", participanteID, mes, anio)
	}
	return nil
}

// AcudienteBelongsToParticipante verifies the acudiente exists and is
// registered under the participante. Existence is reported first so a missing
// acudiente never reads as a relationship mismatch.
// POST: nil when the acudiente belongs, KindInvalidReference or
// KindRelationshipMismatch otherwise
func AcudienteBelongsToParticipante(ctx context.Context, acudientes OwnerResolver, acudienteID, participanteID int64) error {
	owner, ok, err := acudientes.ParticipanteIDOf(ctx, acudienteID)
	if err != nil {
		return fmt.Errorf("resolve acudiente %d: %w", acudienteID, err)
	}
	if !ok {
		return apperr.New(apperr.KindInvalidReference, "El acudiente con ID %d no existe", acudienteID)
	}
	if owner != participanteID {
		return apperr.New(apperr.KindRelationshipMismatch, "El acudiente con ID %d no pertenece al participante con ID %d", acudienteID, participanteID)
	}
	return nil
}

// EmailUnicoUsuario verifies no other usuario uses the normalized email.
// POST: nil if free, KindDuplicate otherwise
func EmailUnicoUsuario(ctx context.Context, usuarios EmailChecker, email string, excludeID int64) error {
	taken, err := usuarios.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return fmt.Errorf("check usuario email: %w", err)
	}
	if taken {
		return apperr.New(apperr.KindDuplicate, "Ya existe un usuario con el email %s", email)
	}
	return nil
}

// ParticipanteCounter counts participantes enrolled at a sede.
type ParticipanteCounter interface {
	CountBySede(ctx context.Context, sedeID int64) (int, error)
}

// AcudienteCounter counts acudientes registered for a participante.
type AcudienteCounter interface {
	CountByParticipante(ctx context.Context, participanteID int64) (int, error)
}

// MensualidadCounter counts mensualidades by either side of the relation.
type MensualidadCounter interface {
	CountByParticipante(ctx context.Context, participanteID int64) (int, error)
	CountByAcudiente(ctx context.Context, acudienteID int64) (int, error)
}

// CheckSedeDependencies blocks deleting a sede with enrolled participantes.
// POST: nil when the sede has no participantes, KindHasDependencies otherwise
func CheckSedeDependencies(ctx context.Context, participantes ParticipanteCounter, sedeID int64) error {
	n, err := participantes.CountBySede(ctx, sedeID)
	if err != nil {
		return fmt.Errorf("count participantes of sede %d: %w", sedeID, err)
	}
	if n > 0 {
		return apperr.New(apperr.KindHasDependencies, "No se puede eliminar la sede porque tiene %d participante(s) asociado(s)", n)
	}
	return nil
}

// CheckParticipanteDependencies blocks deleting a participante with
// registered acudientes or mensualidades. Both counts go in the message.
// POST: nil when both counts are zero, KindHasDependencies otherwise
func CheckParticipanteDependencies(ctx context.Context, acudientes AcudienteCounter, mensualidades MensualidadCounter, participanteID int64) error {
	nAcudientes, err := acudientes.CountByParticipante(ctx, participanteID)
	if err != nil {
		return fmt.Errorf("count acudientes of participante %d: %w", participanteID, err)
	}
	nMensualidades, err := mensualidades.CountByParticipante(ctx, participanteID)
	if err != nil {
		return fmt.Errorf("count mensualidades of participante %d: %w", participanteID, err)
	}
	if nAcudientes > 0 || nMensualidades > 0 {
		return apperr.New(apperr.KindHasDependencies,
			"No se puede eliminar el participante porque tiene %d acudiente(s) y %d mensualidad(es) asociadas",
			nAcudientes, nMensualidades)
	}
	return nil
}

// CheckAcudienteDependencies blocks deleting an acudiente with attributed
// mensualidades.
// POST: nil when no mensualidad references the acudiente, KindHasDependencies otherwise
func CheckAcudienteDependencies(ctx context.Context, mensualidades MensualidadCounter, acudienteID int64) error {
	n, err := mensualidades.CountByAcudiente(ctx, acudienteID)
	if err != nil {
		return fmt.Errorf("count mensualidades of acudiente %d: %w", acudienteID, err)
	}
	if n > 0 {
		return apperr.New(apperr.KindHasDependencies, "No se puede eliminar el acudiente porque tiene %d mensualidad(es) asociadas", n)
	}
	return nil
}
