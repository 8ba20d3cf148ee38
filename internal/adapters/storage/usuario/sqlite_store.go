package usuario

import (
	"context"
	"database/sql"
	"errors"

	"almadash/internal/adapters/storage"
	domain "almadash/internal/domain/usuario"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new usuario store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const usuarioColumns = "id_usuario, email, rol, password_hash"

func scanUsuario(row interface{ Scan(...any) error }) (domain.Usuario, error) {
	var entity domain.Usuario
	err := row.Scan(&entity.ID, &entity.Email, &entity.Rol, &entity.PasswordHash)
	if err != nil {
		return domain.Usuario{}, err
	}
	return entity, nil
}

// GetByID retrieves a Usuario by its id.
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Usuario, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+usuarioColumns+" FROM usuario WHERE id_usuario = ?", id)
	entity, err := scanUsuario(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Usuario{}, ErrNotFound
	}
	return entity, err
}

// List returns all usuarios ordered by id (insertion order).
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Usuario, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+usuarioColumns+" FROM usuario ORDER BY id_usuario")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Usuario
	for rows.Next() {
		entity, err := scanUsuario(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

// Insert stores a new Usuario and returns it with the generated id.
// PRE: entity has been validated and the password already hashed
// POST: row persisted; ErrDuplicate if the email collides
func (s *SQLiteStore) Insert(ctx context.Context, entity domain.Usuario) (domain.Usuario, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO usuario (email, rol, password_hash) VALUES (?, ?, ?)",
		entity.Email, entity.Rol, entity.PasswordHash,
	)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return domain.Usuario{}, ErrDuplicate
		}
		return domain.Usuario{}, err
	}
	entity.ID, err = res.LastInsertId()
	return entity, err
}

// Update rewrites the full row for entity.ID.
// POST: ErrNotFound if the id is absent, ErrDuplicate on email collision
func (s *SQLiteStore) Update(ctx context.Context, entity domain.Usuario) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE usuario SET email = ?, rol = ?, password_hash = ? WHERE id_usuario = ?",
		entity.Email, entity.Rol, entity.PasswordHash, entity.ID,
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
	res, err := s.db.ExecContext(ctx, "DELETE FROM usuario WHERE id_usuario = ?", id)
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

// ExistsByEmail reports whether another usuario already uses the normalized
// email. excludeID = 0 excludes nothing.
func (s *SQLiteStore) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM usuario WHERE email = ? AND id_usuario != ? LIMIT 1",
		email, excludeID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
