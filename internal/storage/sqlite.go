package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const memoryPath = ":memory:"

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	// Validate input
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dsn := memoryPath
	if dbPath != memoryPath {
		// Ensure directory exists
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("%w: failed to create database directory: %w", ErrIOFailure, err)
		}
		// Immediate locking so the balance read-modify-write holds the write lock
		dsn = dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate"
	}

	// Open database
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", ErrIOFailure, err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite doesn't benefit from multiple connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Test connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %w", ErrIOFailure, err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Path returns the location the storage was opened from.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &sqliteTransaction{
		tx:      tx,
		storage: s,
	}, nil
}

// sqliteTransaction wraps sql.Tx to implement service.Transaction.
type sqliteTransaction struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTransaction) Rollback() error {
	return t.tx.Rollback()
}

// Transaction methods delegate to the main storage with the transaction.
func (t *sqliteTransaction) FetchAll(ctx context.Context, kind model.Kind) ([]service.Row, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.fetchAllTx(ctx, t.tx, kind)
}

func (t *sqliteTransaction) GetRow(ctx context.Context, kind model.Kind, id int64) (*service.Row, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getRowTx(ctx, t.tx, kind, id)
}

func (t *sqliteTransaction) Insert(ctx context.Context, kind model.Kind, row service.Row) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return t.storage.insertTx(ctx, t.tx, kind, row)
}

func (t *sqliteTransaction) UpdateFields(ctx context.Context, kind model.Kind, id int64, update service.FieldUpdate) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	return t.storage.updateFieldsTx(ctx, t.tx, kind, id, update)
}

func (t *sqliteTransaction) Delete(ctx context.Context, kind model.Kind, id int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	return t.storage.deleteTx(ctx, t.tx, kind, id)
}

func (t *sqliteTransaction) SumAmounts(ctx context.Context, kind model.Kind) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return t.storage.sumAmountsTx(ctx, t.tx, kind)
}

func (t *sqliteTransaction) GetBalance(ctx context.Context) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return t.storage.getBalanceTx(ctx, t.tx)
}

func (t *sqliteTransaction) SetBalance(ctx context.Context, value float64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	return t.storage.setBalanceTx(ctx, t.tx, value)
}
