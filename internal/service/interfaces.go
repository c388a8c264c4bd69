// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

// Row is a raw expense or income row as persisted.
type Row struct {
	Date        string
	Description string
	Category    string
	ID          int64
	Amount      float64
}

// FieldUpdate carries the columns to change on a row. Nil fields are left
// untouched.
type FieldUpdate struct {
	Date        *string
	Description *string
	Category    *string
	Amount      *float64
}

// IsEmpty reports whether no field is set.
func (u FieldUpdate) IsEmpty() bool {
	return u.Date == nil && u.Description == nil && u.Category == nil && u.Amount == nil
}

// RecordStore is the raw persistence contract for ledger rows and the
// balance. It carries no business rules.
type RecordStore interface {
	// Transaction row operations
	FetchAll(ctx context.Context, kind model.Kind) ([]Row, error)
	GetRow(ctx context.Context, kind model.Kind, id int64) (*Row, error)
	Insert(ctx context.Context, kind model.Kind, row Row) (int64, error)
	UpdateFields(ctx context.Context, kind model.Kind, id int64, update FieldUpdate) (bool, error)
	Delete(ctx context.Context, kind model.Kind, id int64) (bool, error)
	SumAmounts(ctx context.Context, kind model.Kind) (float64, error)

	// Balance operations
	GetBalance(ctx context.Context) (float64, error)
	SetBalance(ctx context.Context, value float64) (bool, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	RecordStore

	// Database management
	Initialize(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all record operations for use within transaction
	RecordStore
}

// ReconcileReport compares the stored balance with the one derived from the
// transaction tables.
type ReconcileReport struct {
	Stored        decimal.Decimal
	Computed      decimal.Decimal
	Drift         decimal.Decimal // Stored - Computed
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Consistent    bool
}
