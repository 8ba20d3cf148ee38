package sede

import (
	"context"
	"database/sql"
	"errors"

	"almadash/internal/adapters/storage"
	domain "almadash/internal/domain/sede"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new sede store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const sedeColumns = "id, nombre, direccion, telefono, capacidad_maxima, estado, tipo"

func scanSede(row interface{ Scan(...any) error }) (domain.Sede, error) {
	var entity domain.Sede
	var telefono sql.NullString
	var capacidad sql.NullInt64
	err := row.Scan(
		&entity.ID,
		&entity.Nombre,
		&entity.Direccion,
		&telefono,
		&capacidad,
		&entity.Estado,
		&entity.Tipo,
	)
	if err != nil {
		return domain.Sede{}, err
	}
	if telefono.Valid {
		entity.Telefono = telefono.String
	}
	if capacidad.Valid {
		c := int(capacidad.Int64)
		entity.CapacidadMaxima = &c
	}
	return entity, nil
}

// GetByID retrieves a Sede by its id.
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Sede, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sedeColumns+" FROM sede WHERE id = ?", id)
	entity, err := scanSede(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Sede{}, ErrNotFound
	}
	return entity, err
}

// List returns all sedes ordered by id, which for AUTOINCREMENT keys is
// insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Sede, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+sedeColumns+" FROM sede ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Sede
	for rows.Next() {
		entity, err := scanSede(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

// Insert stores a new Sede and returns it with the generated id.
// PRE: entity has been validated
// POST: row persisted; ErrDuplicate if the normalized nombre collides
func (s *SQLiteStore) Insert(ctx context.Context, entity domain.Sede) (domain.Sede, error) {
	var telefono any
	if entity.Telefono != "" {
		telefono = entity.Telefono
	}
	var capacidad any
	if entity.CapacidadMaxima != nil {
		capacidad = *entity.CapacidadMaxima
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO sede (nombre, nombre_normalizado, direccion, telefono, capacidad_maxima, estado, tipo) VALUES (?, ?, ?, ?, ?, ?, ?)",
		entity.Nombre, domain.NombreNormalizado(entity.Nombre), entity.Direccion, telefono, capacidad, entity.Estado, entity.Tipo,
	)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return domain.Sede{}, ErrDuplicate
		}
		return domain.Sede{}, err
	}
	entity.ID, err = res.LastInsertId()
	return entity, err
}

// Update rewrites the full row for entity.ID.
// PRE: entity has been validated and carries the merged field values
// POST: ErrNotFound if the id is absent, ErrDuplicate on nombre collision
func (s *SQLiteStore) Update(ctx context.Context, entity domain.Sede) error {
	var telefono any
	if entity.Telefono != "" {
		telefono = entity.Telefono
	}
	var capacidad any
	if entity.CapacidadMaxima != nil {
		capacidad = *entity.CapacidadMaxima
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE sede SET nombre = ?, nombre_normalizado = ?, direccion = ?, telefono = ?, capacidad_maxima = ?, estado = ?, tipo = ? WHERE id = ?",
		entity.Nombre, domain.NombreNormalizado(entity.Nombre), entity.Direccion, telefono, capacidad, entity.Estado, entity.Tipo, entity.ID,
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
	res, err := s.db.ExecContext(ctx, "DELETE FROM sede WHERE id = ?", id)
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

// ExistsByID reports whether a sede with the given id exists.
func (s *SQLiteStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM sede WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// ExistsByNombre reports whether another sede already uses the normalized
// nombre. The comparison runs against the stored nombre_normalizado column,
// never against SQLite's ASCII-only lower(). excludeID = 0 excludes nothing.
func (s *SQLiteStore) ExistsByNombre(ctx context.Context, nombreNormalizado string, excludeID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM sede WHERE nombre_normalizado = ? AND id != ? LIMIT 1",
		nombreNormalizado, excludeID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
