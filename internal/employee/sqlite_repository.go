package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// SQLiteRepository implements Backend on a SQLite database file.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the SQLite store at path and upgrades
// its schema to SchemaVersion.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrateSQLite(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

// SQLiteOpener returns an Opener for the SQLite store at path.
func SQLiteOpener(path string) Opener {
	return func(ctx context.Context) (Backend, error) {
		return OpenSQLite(ctx, path)
	}
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("executing %q: %w", pragma, err)
		}
	}

	return nil
}

// migrateSQLite brings the schema up to SchemaVersion. Every step is
// idempotent, so reopening an up-to-date file changes nothing.
func migrateSQLite(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading user_version: %w", err)
	}

	if version < 1 {
		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS employees (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				employee_id TEXT NOT NULL,
				name        TEXT NOT NULL,
				team        TEXT NOT NULL
			)`)
		if err != nil {
			return fmt.Errorf("migrating to v1: %w", err)
		}
	}

	// Files written at v1 have the table but not the index.
	if version < 2 {
		_, err := db.ExecContext(ctx, `
			CREATE UNIQUE INDEX IF NOT EXISTS idx_employees_employee_id
			ON employees(employee_id)`)
		if err != nil {
			return fmt.Errorf("migrating to v2: %w", err)
		}
	}

	if version < SchemaVersion {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
			return fmt.Errorf("setting user_version: %w", err)
		}
	}

	return nil
}

// Close closes the database.
func (r *SQLiteRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Insert adds e and stores the assigned internal key back into it.
func (r *SQLiteRepository) Insert(ctx context.Context, e *Employee) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO employees (employee_id, name, team) VALUES (?, ?, ?)`,
		e.ExternalID, e.Name, e.Team)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicateKey
		}
		return storageErr("inserting employee", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return storageErr("reading inserted key", err)
	}
	e.InternalKey = id

	return nil
}

// FetchAll returns every record ordered by internal key.
func (r *SQLiteRepository) FetchAll(ctx context.Context) ([]Employee, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, employee_id, name, team
		FROM employees
		ORDER BY id ASC`)
	if err != nil {
		return nil, storageErr("listing employees", err)
	}
	defer rows.Close()

	employees := []Employee{}
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.InternalKey, &e.ExternalID, &e.Name, &e.Team); err != nil {
			return nil, storageErr("scanning employee row", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating employee rows", err)
	}

	return employees, nil
}

// UpdateByExternalID looks the record up through the unique index and writes
// the merged record back under the same internal key.
func (r *SQLiteRepository) UpdateByExternalID(ctx context.Context, externalID string, fields UpdateFields) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("beginning update", err)
	}
	defer tx.Rollback() //nolint:errcheck

	e, err := lookupSQLite(ctx, tx, externalID)
	if err != nil {
		return err
	}

	fields.apply(e)

	_, err = tx.ExecContext(ctx,
		`UPDATE employees SET name = ?, team = ? WHERE id = ?`,
		e.Name, e.Team, e.InternalKey)
	if err != nil {
		return storageErr("updating employee", err)
	}

	if err := tx.Commit(); err != nil {
		return storageErr("committing update", err)
	}
	return nil
}

// DeleteByExternalID looks the record up through the unique index and deletes
// it by internal key.
func (r *SQLiteRepository) DeleteByExternalID(ctx context.Context, externalID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("beginning delete", err)
	}
	defer tx.Rollback() //nolint:errcheck

	e, err := lookupSQLite(ctx, tx, externalID)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, e.InternalKey); err != nil {
		return storageErr("deleting employee", err)
	}

	if err := tx.Commit(); err != nil {
		return storageErr("committing delete", err)
	}
	return nil
}

// ClearAll removes every record.
func (r *SQLiteRepository) ClearAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM employees`); err != nil {
		return storageErr("clearing employees", err)
	}
	return nil
}

func lookupSQLite(ctx context.Context, tx *sql.Tx, externalID string) (*Employee, error) {
	var e Employee
	err := tx.QueryRowContext(ctx, `
		SELECT id, employee_id, name, team
		FROM employees
		WHERE employee_id = ?`, externalID).Scan(&e.InternalKey, &e.ExternalID, &e.Name, &e.Team)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storageErr("querying employee", err)
	}
	return &e, nil
}
