package mensualidad

import (
	"context"
	"database/sql"
	"errors"

	"almadash/internal/adapters/storage"
	domain "almadash/internal/domain/mensualidad"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new mensualidad store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const mensualidadColumns = "id, participant_id, id_acudiente, mes, anio, monto, estado, metodo_pago, fecha_pago, observaciones"

func scanMensualidad(row interface{ Scan(...any) error }) (domain.Mensualidad, error) {
	var entity domain.Mensualidad
	var idAcudiente sql.NullInt64
	var fechaPago, observaciones sql.NullString
	err := row.Scan(
		&entity.ID,
		&entity.ParticipantID,
		&idAcudiente,
		&entity.Mes,
		&entity.Anio,
		&entity.Monto,
		&entity.Estado,
		&entity.MetodoPago,
		&fechaPago,
		&observaciones,
	)
	if err != nil {
		return domain.Mensualidad{}, err
	}
	if idAcudiente.Valid {
		id := idAcudiente.Int64
		entity.IDAcudiente = &id
	}
	if fechaPago.Valid {
		entity.FechaPago = fechaPago.String
	}
	if observaciones.Valid {
		entity.Observaciones = observaciones.String
	}
	return entity, nil
}

// GetByID retrieves a Mensualidad by its id.
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Mensualidad, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+mensualidadColumns+" FROM mensualidad WHERE id = ?", id)
	entity, err := scanMensualidad(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Mensualidad{}, ErrNotFound
	}
	return entity, err
}

// List returns all mensualidades ordered by id (insertion order).
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Mensualidad, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+mensualidadColumns+" FROM mensualidad ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMensualidades(rows)
}

// ListByParticipante returns the mensualidades recorded for one participante.
func (s *SQLiteStore) ListByParticipante(ctx context.Context, participanteID int64) ([]domain.Mensualidad, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+mensualidadColumns+" FROM mensualidad WHERE participant_id = ? ORDER BY id",
		participanteID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMensualidades(rows)
}

func collectMensualidades(rows *sql.Rows) ([]domain.Mensualidad, error) {
	var out []domain.Mensualidad
	for rows.Next() {
		entity, err := scanMensualidad(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

// Insert stores a new Mensualidad and returns it with the generated id.
// PRE: entity has been validated
// POST: row persisted; ErrDuplicate if the (participante, mes, año) collides
func (s *SQLiteStore) Insert(ctx context.Context, entity domain.Mensualidad) (domain.Mensualidad, error) {
	var idAcudiente any
	if entity.IDAcudiente != nil {
		idAcudiente = *entity.IDAcudiente
	}
	var fechaPago any
	if entity.FechaPago != "" {
		fechaPago = entity.FechaPago
	}
	var observaciones any
	if entity.Observaciones != "" {
		observaciones = entity.Observaciones
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO mensualidad (participant_id, id_acudiente, mes, anio, monto, estado, metodo_pago, fecha_pago, observaciones) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		entity.ParticipantID, idAcudiente, entity.Mes, entity.Anio, entity.Monto,
		entity.Estado, entity.MetodoPago, fechaPago, observaciones,
	)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return domain.Mensualidad{}, ErrDuplicate
		}
		return domain.Mensualidad{}, err
	}
	entity.ID, err = res.LastInsertId()
	return entity, err
}

// Update rewrites the full row for entity.ID.
// PRE: entity has been validated and carries the merged field values
// POST: ErrNotFound if the id is absent, ErrDuplicate on period collision
func (s *SQLiteStore) Update(ctx context.Context, entity domain.Mensualidad) error {
	var idAcudiente any
	if entity.IDAcudiente != nil {
		idAcudiente = *entity.IDAcudiente
	}
	var fechaPago any
	if entity.FechaPago != "" {
		fechaPago = entity.FechaPago
	}
	var observaciones any
	if entity.Observaciones != "" {
		observaciones = entity.Observaciones
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE mensualidad SET participant_id = ?, id_acudiente = ?, mes = ?, anio = ?, monto = ?, estado = ?, metodo_pago = ?, fecha_pago = ?, observaciones = ? WHERE id = ?",
		entity.ParticipantID, idAcudiente, entity.Mes, entity.Anio, entity.Monto,
		entity.Estado, entity.MetodoPago, fechaPago, observaciones, entity.ID,
	)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row for id.
// POST: ErrNotFound if the id is absent
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM mensualidad WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ExistsPeriodo reports whether another mensualidad already covers the
// (participante, mes, año) period. excludeID = 0 excludes nothing.
func (s *SQLiteStore) ExistsPeriodo(ctx context.Context, participanteID int64, mes, anio int, excludeID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM mensualidad WHERE participant_id = ? AND mes = ? AND anio = ? AND id != ? LIMIT 1",
		participanteID, mes, anio, excludeID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// CountByParticipante counts mensualidades recorded for the participante.
func (s *SQLiteStore) CountByParticipante(ctx context.Context, participanteID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM mensualidad WHERE participant_id = ?", participanteID).Scan(&n)
	return n, err
}

// CountByAcudiente counts mensualidades attributed to the acudiente.
func (s *SQLiteStore) CountByAcudiente(ctx context.Context, acudienteID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM mensualidad WHERE id_acudiente = ?", acudienteID).Scan(&n)
	return n, err
}

// Count returns the total number of mensualidades.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM mensualidad").Scan(&n)
	return n, err
}

// CountByEstado counts mensualidades with the given estado.
func (s *SQLiteStore) CountByEstado(ctx context.Context, estado string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM mensualidad WHERE estado = ?", estado).Scan(&n)
	return n, err
}

// SumMontoByEstado totals the monto over mensualidades with the estado.
func (s *SQLiteStore) SumMontoByEstado(ctx context.Context, estado string) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(SUM(monto), 0) FROM mensualidad WHERE estado = ?", estado).Scan(&total)
	return total, err
}
