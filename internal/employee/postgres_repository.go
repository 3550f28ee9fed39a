package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Backend using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to databaseURL and upgrades the schema to SchemaVersion.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresRepository, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := migratePostgres(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresRepository{pool: pool}, nil
}

// PostgresOpener returns an Opener for the database at databaseURL.
func PostgresOpener(databaseURL string) Opener {
	return func(ctx context.Context) (Backend, error) {
		return OpenPostgres(ctx, databaseURL)
	}
}

func migratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning migration: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`)
	if err != nil {
		return fmt.Errorf("creating schema_version: %w", err)
	}

	var version int
	err = tx.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	if version < 1 {
		_, err := tx.Exec(ctx, `
			CREATE TABLE IF NOT EXISTS employees (
				id          BIGSERIAL PRIMARY KEY,
				employee_id TEXT NOT NULL,
				name        TEXT NOT NULL,
				team        TEXT NOT NULL
			)`)
		if err != nil {
			return fmt.Errorf("migrating to v1: %w", err)
		}
	}

	if version < 2 {
		_, err := tx.Exec(ctx, `
			CREATE UNIQUE INDEX IF NOT EXISTS idx_employees_employee_id
			ON employees(employee_id)`)
		if err != nil {
			return fmt.Errorf("migrating to v2: %w", err)
		}
	}

	if version < SchemaVersion {
		if _, err := tx.Exec(ctx, `DELETE FROM schema_version`); err != nil {
			return fmt.Errorf("resetting schema version: %w", err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_version (version) VALUES ($1)`, SchemaVersion); err != nil {
			return fmt.Errorf("recording schema version: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// Insert adds e and stores the assigned internal key back into it.
func (r *PostgresRepository) Insert(ctx context.Context, e *Employee) error {
	query := `
		INSERT INTO employees (employee_id, name, team)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query, e.ExternalID, e.Name, e.Team).Scan(&e.InternalKey)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateKey
		}
		return storageErr("inserting employee", err)
	}

	return nil
}

// FetchAll returns every record ordered by internal key.
func (r *PostgresRepository) FetchAll(ctx context.Context) ([]Employee, error) {
	query := `
		SELECT id, employee_id, name, team
		FROM employees
		ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, storageErr("listing employees", err)
	}
	defer rows.Close()

	var employees []Employee
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

	if employees == nil {
		employees = []Employee{}
	}

	return employees, nil
}

// UpdateByExternalID merges fields into the matching record inside one transaction.
func (r *PostgresRepository) UpdateByExternalID(ctx context.Context, externalID string, fields UpdateFields) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storageErr("beginning update", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	e, err := lookupPostgres(ctx, tx, externalID)
	if err != nil {
		return err
	}

	fields.apply(e)

	_, err = tx.Exec(ctx, `UPDATE employees SET name = $1, team = $2 WHERE id = $3`, e.Name, e.Team, e.InternalKey)
	if err != nil {
		return storageErr("updating employee", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr("committing update", err)
	}
	return nil
}

// DeleteByExternalID removes the matching record by internal key.
func (r *PostgresRepository) DeleteByExternalID(ctx context.Context, externalID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storageErr("beginning delete", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	e, err := lookupPostgres(ctx, tx, externalID)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM employees WHERE id = $1`, e.InternalKey); err != nil {
		return storageErr("deleting employee", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr("committing delete", err)
	}
	return nil
}

// ClearAll removes every record.
func (r *PostgresRepository) ClearAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM employees`); err != nil {
		return storageErr("clearing employees", err)
	}
	return nil
}

func lookupPostgres(ctx context.Context, tx pgx.Tx, externalID string) (*Employee, error) {
	query := `
		SELECT id, employee_id, name, team
		FROM employees
		WHERE employee_id = $1`

	var e Employee
	err := tx.QueryRow(ctx, query, externalID).Scan(&e.InternalKey, &e.ExternalID, &e.Name, &e.Team)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storageErr("querying employee", err)
	}
	return &e, nil
}
