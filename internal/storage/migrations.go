package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial ledger schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS expenses (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					date TEXT,
					description TEXT,
					category TEXT,
					amount REAL
				)`,
				`CREATE TABLE IF NOT EXISTS incomes (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					date TEXT,
					description TEXT,
					category TEXT,
					amount REAL
				)`,
				`CREATE TABLE IF NOT EXISTS balance (
					id INTEGER PRIMARY KEY,
					curr_balance REAL
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Index transaction dates",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date)`,
				`CREATE INDEX IF NOT EXISTS idx_incomes_date ON incomes(date)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// Initialize brings the schema up to date and makes sure the balance row
// exists. All pending migrations and the balance row are applied in one SQL
// transaction, so a failure leaves the database as it was. Calling it on an
// initialized database leaves existing data alone.
func (s *SQLiteStorage) Initialize(ctx context.Context) error {
	return s.migrateTo(ctx, migrations, ExpectedSchemaVersion)
}

func (s *SQLiteStorage) migrateTo(ctx context.Context, steps []Migration, expected int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %w", ErrSchemaFailure, err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after Commit

	// Get current version
	var currentVersion int
	if err := tx.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("%w: failed to get schema version: %w", ErrSchemaFailure, err)
	}

	// Apply migrations
	var applied []Migration
	for _, migration := range steps {
		if migration.Version <= currentVersion {
			continue
		}

		if err := migration.Up(tx); err != nil {
			return fmt.Errorf("%w: migration %d failed: %w", ErrSchemaFailure, migration.Version, err)
		}

		// Update version
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
			return fmt.Errorf("%w: failed to update schema version: %w", ErrSchemaFailure, err)
		}
		currentVersion = migration.Version
		applied = append(applied, migration)
	}

	if currentVersion != expected {
		return fmt.Errorf("%w: database schema version mismatch: expected %d, got %d", ErrSchemaFailure, expected, currentVersion)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO balance (id, curr_balance) VALUES (?, 0)`, balanceRowID)
	if err != nil {
		return fmt.Errorf("%w: failed to seed balance row: %w", ErrSchemaFailure, err)
	}
	seeded, _ := result.RowsAffected()

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit schema: %w", ErrSchemaFailure, err)
	}

	for _, migration := range applied {
		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}
	if seeded > 0 {
		slog.Info("Created balance row", "database", s.dbPath)
	}

	return nil
}

// SchemaVersion reports the schema version recorded in the database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
