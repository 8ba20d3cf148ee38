package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables and unique indexes are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// AUTOINCREMENT keeps ids monotonic per table and never reuses one
	// after a delete. The UNIQUE indexes are the storage-level backstop for
	// the uniqueness rules the application layer also checks: two requests
	// that both pass the pre-check cannot both insert.
	//
	// sede.nombre_normalizado holds the Unicode-lowercased, trimmed nombre
	// written by the store. SQLite's lower() folds ASCII only, so indexing
	// lower(nombre) would miss accented case variants.
	schema := `
	CREATE TABLE IF NOT EXISTS sede (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nombre TEXT NOT NULL,
		nombre_normalizado TEXT NOT NULL,
		direccion TEXT NOT NULL,
		telefono TEXT,
		capacidad_maxima INTEGER,
		estado TEXT NOT NULL,
		tipo TEXT NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_sede_nombre
		ON sede (nombre_normalizado);

	CREATE TABLE IF NOT EXISTS participante (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nombres TEXT NOT NULL,
		apellidos TEXT NOT NULL,
		tipo_documento TEXT NOT NULL,
		numero_documento TEXT NOT NULL,
		fecha_nacimiento TEXT NOT NULL,
		genero TEXT NOT NULL,
		fecha_ingreso TEXT NOT NULL,
		estado TEXT NOT NULL,
		id_sede INTEGER NOT NULL,
		telefono TEXT,
		FOREIGN KEY (id_sede) REFERENCES sede(id)
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_participante_documento
		ON participante (numero_documento);

	CREATE TABLE IF NOT EXISTS acudiente (
		id_acudiente INTEGER PRIMARY KEY AUTOINCREMENT,
		nombres TEXT NOT NULL,
		apellidos TEXT NOT NULL,
		tipo_documento TEXT NOT NULL,
		numero_documento TEXT NOT NULL,
		parentesco TEXT NOT NULL,
		telefono TEXT NOT NULL,
		email TEXT,
		direccion TEXT,
		id_participante INTEGER NOT NULL,
		FOREIGN KEY (id_participante) REFERENCES participante(id)
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_acudiente_documento
		ON acudiente (numero_documento);

	CREATE TABLE IF NOT EXISTS mensualidad (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		participant_id INTEGER NOT NULL,
		id_acudiente INTEGER,
		mes INTEGER NOT NULL,
		anio INTEGER NOT NULL,
		monto REAL NOT NULL,
		estado TEXT NOT NULL,
		metodo_pago TEXT NOT NULL,
		fecha_pago TEXT,
		observaciones TEXT,
		FOREIGN KEY (participant_id) REFERENCES participante(id),
		FOREIGN KEY (id_acudiente) REFERENCES acudiente(id_acudiente)
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_mensualidad_periodo
		ON mensualidad (participant_id, mes, anio);

	CREATE TABLE IF NOT EXISTS usuario (
		id_usuario INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL,
		rol TEXT NOT NULL,
		password_hash TEXT NOT NULL DEFAULT ''
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_usuario_email
		ON usuario (email);

	CREATE TABLE IF NOT EXISTS outbox (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		status TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		max_attempts INTEGER NOT NULL DEFAULT 5,
		last_attempted_at TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		external_id TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT ''
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
