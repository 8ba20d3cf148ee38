package participante

import (
	"context"
	"database/sql"
	"errors"

	"almadash/internal/adapters/storage"
	domain "almadash/internal/domain/participante"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new participante store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const participanteColumns = "id, nombres, apellidos, tipo_documento, numero_documento, fecha_nacimiento, genero, fecha_ingreso, estado, id_sede, telefono"

func scanParticipante(row interface{ Scan(...any) error }) (domain.Participante, error) {
	var entity domain.Participante
	var telefono sql.NullString
	err := row.Scan(
		&entity.ID,
		&entity.Nombres,
		&entity.Apellidos,
		&entity.TipoDocumento,
		&entity.NumeroDocumento,
		&entity.FechaNacimiento,
		&entity.Genero,
		&entity.FechaIngreso,
		&entity.Estado,
		&entity.IDSede,
		&telefono,
	)
	if err != nil {
		return domain.Participante{}, err
	}
	if telefono.Valid {
		entity.Telefono = telefono.String
	}
	return entity, nil
}

// GetByID retrieves a Participante by its id.
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Participante, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+participanteColumns+" FROM participante WHERE id = ?", id)
	entity, err := scanParticipante(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Participante{}, ErrNotFound
	}
	return entity, err
}

// List returns all participantes ordered by id (insertion order).
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Participante, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+participanteColumns+" FROM participante ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Participante
	for rows.Next() {
		entity, err := scanParticipante(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

// Insert stores a new Participante and returns it with the generated id.
// PRE: entity has been validated
// POST: row persisted; ErrDuplicate if the documento collides
func (s *SQLiteStore) Insert(ctx context.Context, entity domain.Participante) (domain.Participante, error) {
	var telefono any
	if entity.Telefono != "" {
		telefono = entity.Telefono
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO participante (nombres, apellidos, tipo_documento, numero_documento, fecha_nacimiento, genero, fecha_ingreso, estado, id_sede, telefono) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		entity.Nombres, entity.Apellidos, entity.TipoDocumento, entity.NumeroDocumento,
		entity.FechaNacimiento, entity.Genero, entity.FechaIngreso, entity.Estado,
		entity.IDSede, telefono,
	)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return domain.Participante{}, ErrDuplicate
		}
		return domain.Participante{}, err
	}
	entity.ID, err = res.LastInsertId()
	return entity, err
}

// Update rewrites the full row for entity.ID.
// PRE: entity has been validated and carries the merged field values
// POST: ErrNotFound if the id is absent, ErrDuplicate on documento collision
func (s *SQLiteStore) Update(ctx context.Context, entity domain.Participante) error {
	var telefono any
	if entity.Telefono != "" {
		telefono = entity.Telefono
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE participante SET nombres = ?, apellidos = ?, tipo_documento = ?, numero_documento = ?, fecha_nacimiento = ?, genero = ?, fecha_ingreso = ?, estado = ?, id_sede = ?, telefono = ? WHERE id = ?",
		entity.Nombres, entity.Apellidos, entity.TipoDocumento, entity.NumeroDocumento,
		entity.FechaNacimiento, entity.Genero, entity.FechaIngreso, entity.Estado,
		entity.IDSede, telefono, entity.ID,
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
	res, err := s.db.ExecContext(ctx, "DELETE FROM participante WHERE id = ?", id)
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

// ExistsByID reports whether a participante with the given id exists.
func (s *SQLiteStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM participante WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// ExistsByDocumento reports whether another participante already uses the
// documento. Comparison is exact-string. excludeID = 0 excludes nothing.
func (s *SQLiteStore) ExistsByDocumento(ctx context.Context, numeroDocumento string, excludeID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM participante WHERE numero_documento = ? AND id != ? LIMIT 1",
		numeroDocumento, excludeID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// CountBySede counts participantes referencing the sede.
func (s *SQLiteStore) CountBySede(ctx context.Context, sedeID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM participante WHERE id_sede = ?", sedeID).Scan(&n)
	return n, err
}

// Count returns the total number of participantes.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM participante").Scan(&n)
	return n, err
}
