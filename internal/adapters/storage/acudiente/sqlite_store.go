package acudiente

import (
	"context"
	"database/sql"
	"errors"

	"almadash/internal/adapters/storage"
	domain "almadash/internal/domain/acudiente"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new acudiente store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const acudienteColumns = "id_acudiente, nombres, apellidos, tipo_documento, numero_documento, parentesco, telefono, email, direccion, id_participante"

func scanAcudiente(row interface{ Scan(...any) error }) (domain.Acudiente, error) {
	var entity domain.Acudiente
	var email, direccion sql.NullString
	err := row.Scan(
		&entity.ID,
		&entity.Nombres,
		&entity.Apellidos,
		&entity.TipoDocumento,
		&entity.NumeroDocumento,
		&entity.Parentesco,
		&entity.Telefono,
		&email,
		&direccion,
		&entity.IDParticipante,
	)
	if err != nil {
		return domain.Acudiente{}, err
	}
	if email.Valid {
		entity.Email = email.String
	}
	if direccion.Valid {
		entity.Direccion = direccion.String
	}
	return entity, nil
}

// GetByID retrieves an Acudiente by its id.
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Acudiente, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+acudienteColumns+" FROM acudiente WHERE id_acudiente = ?", id)
	entity, err := scanAcudiente(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Acudiente{}, ErrNotFound
	}
	return entity, err
}

// List returns all acudientes ordered by id (insertion order).
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Acudiente, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+acudienteColumns+" FROM acudiente ORDER BY id_acudiente")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAcudientes(rows)
}

// ListByParticipante returns the acudientes registered for one participante.
func (s *SQLiteStore) ListByParticipante(ctx context.Context, participanteID int64) ([]domain.Acudiente, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+acudienteColumns+" FROM acudiente WHERE id_participante = ? ORDER BY id_acudiente",
		participanteID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAcudientes(rows)
}

func collectAcudientes(rows *sql.Rows) ([]domain.Acudiente, error) {
	var out []domain.Acudiente
	for rows.Next() {
		entity, err := scanAcudiente(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

// Insert stores a new Acudiente and returns it with the generated id.
// PRE: entity has been validated
// POST: row persisted; ErrDuplicate if the documento collides
func (s *SQLiteStore) Insert(ctx context.Context, entity domain.Acudiente) (domain.Acudiente, error) {
	var email any
	if entity.Email != "" {
		email = entity.Email
	}
	var direccion any
	if entity.Direccion != "" {
		direccion = entity.Direccion
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO acudiente (nombres, apellidos, tipo_documento, numero_documento, parentesco, telefono, email, direccion, id_participante) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		entity.Nombres, entity.Apellidos, entity.TipoDocumento, entity.NumeroDocumento,
		entity.Parentesco, entity.Telefono, email, direccion, entity.IDParticipante,
	)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return domain.Acudiente{}, ErrDuplicate
		}
		return domain.Acudiente{}, err
	}
	entity.ID, err = res.LastInsertId()
	return entity, err
}

// Update rewrites the full row for entity.ID.
// PRE: entity has been validated and carries the merged field values
// POST: ErrNotFound if the id is absent, ErrDuplicate on documento collision
func (s *SQLiteStore) Update(ctx context.Context, entity domain.Acudiente) error {
	var email any
	if entity.Email != "" {
		email = entity.Email
	}
	var direccion any
	if entity.Direccion != "" {
		direccion = entity.Direccion
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE acudiente SET nombres = ?, apellidos = ?, tipo_documento = ?, numero_documento = ?, parentesco = ?, telefono = ?, email = ?, direccion = ?, id_participante = ? WHERE id_acudiente = ?",
		entity.Nombres, entity.Apellidos, entity.TipoDocumento, entity.NumeroDocumento,
		entity.Parentesco, entity.Telefono, email, direccion, entity.IDParticipante, entity.ID,
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
	res, err := s.db.ExecContext(ctx, "DELETE FROM acudiente WHERE id_acudiente = ?", id)
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

// ExistsByID reports whether an acudiente with the given id exists.
func (s *SQLiteStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM acudiente WHERE id_acudiente = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// ExistsByDocumento reports whether another acudiente already uses the
// documento. excludeID = 0 excludes nothing.
func (s *SQLiteStore) ExistsByDocumento(ctx context.Context, numeroDocumento string, excludeID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM acudiente WHERE numero_documento = ? AND id_acudiente != ? LIMIT 1",
		numeroDocumento, excludeID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// ParticipanteIDOf returns the owning participante id for the acudiente,
// or ok=false when the acudiente does not exist.
func (s *SQLiteStore) ParticipanteIDOf(ctx context.Context, id int64) (int64, bool, error) {
	var participanteID int64
	err := s.db.QueryRowContext(ctx, "SELECT id_participante FROM acudiente WHERE id_acudiente = ?", id).Scan(&participanteID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return participanteID, true, nil
}

// CountByParticipante counts acudientes registered for the participante.
func (s *SQLiteStore) CountByParticipante(ctx context.Context, participanteID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM acudiente WHERE id_participante = ?", participanteID).Scan(&n)
	return n, err
}

// Count returns the total number of acudientes.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM acudiente").Scan(&n)
	return n, err
}
