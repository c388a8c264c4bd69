// Package testutil provides test utilities for packages that need a real,
// initialized ledger database.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/storage"
	"github.com/shopspring/decimal"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	Path    string
	t       *testing.T
}

// SetupTestDB creates a new initialized SQLite database in a temporary
// directory. It is closed automatically when the test ends.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	engine := ledger.New(db.Storage)
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "finances.db")
	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Initialize(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to initialize test database: %v", err)
	}

	// Register cleanup
	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		Path:    path,
		t:       t,
	}
}

// Balance returns the stored balance or fails the test.
func (db *TestDB) Balance() decimal.Decimal {
	db.t.Helper()
	v, err := db.Storage.GetBalance(context.Background())
	if err != nil {
		db.t.Fatalf("failed to read balance: %v", err)
	}
	return decimal.NewFromFloat(v)
}

// DerivedBalance recomputes sum(incomes) - sum(expenses) from the rows.
func (db *TestDB) DerivedBalance() decimal.Decimal {
	db.t.Helper()
	ctx := context.Background()
	incomes, err := db.Storage.SumAmounts(ctx, model.KindIncome)
	if err != nil {
		db.t.Fatalf("failed to sum incomes: %v", err)
	}
	expenses, err := db.Storage.SumAmounts(ctx, model.KindExpense)
	if err != nil {
		db.t.Fatalf("failed to sum expenses: %v", err)
	}
	return decimal.NewFromFloat(incomes).Sub(decimal.NewFromFloat(expenses))
}

// RowCount returns the number of rows of a kind or fails the test.
func (db *TestDB) RowCount(kind model.Kind) int {
	db.t.Helper()
	rows, err := db.Storage.FetchAll(context.Background(), kind)
	if err != nil {
		db.t.Fatalf("failed to fetch %s rows: %v", kind, err)
	}
	return len(rows)
}
