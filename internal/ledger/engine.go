// Package ledger keeps the running balance consistent with the expense and
// income tables. It is the only path through which transactions are
// created, edited or removed.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/service"
	"github.com/shopspring/decimal"
)

// Engine applies ledger mutations. It holds no state between calls.
type Engine struct {
	store service.Storage
}

// New creates an engine backed by store.
func New(store service.Storage) *Engine {
	return &Engine{store: store}
}

// EditRequest lists the fields to change on a transaction. Nil fields are
// left untouched.
type EditRequest struct {
	Date        *time.Time
	Description *string
	Category    *model.Category
	Amount      *decimal.Decimal
}

// IsEmpty reports whether no field is set.
func (r EditRequest) IsEmpty() bool {
	return r.Date == nil && r.Description == nil && r.Category == nil && r.Amount == nil
}

// Add records t and applies its amount to the balance in one database
// transaction. On success t.ID holds the generated id.
func (e *Engine) Add(ctx context.Context, t *model.Transaction) (bool, error) {
	if t == nil {
		return false, ErrNilTransaction
	}
	if !t.Kind.IsValid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownKind, t.Kind)
	}
	if !t.Amount.IsPositive() {
		return false, fmt.Errorf("%w: got %s", ErrInvalidAmount, t.Amount)
	}
	if !model.FitsStorage(t.Amount) {
		return false, fmt.Errorf("%w: got %s", ErrAmountOutOfRange, t.Amount)
	}

	category := t.Category
	if category.IsZero() {
		category = model.DefaultCategory(t.Kind)
	}
	if category.Kind() != t.Kind {
		return false, fmt.Errorf("%w: %s is not an %s category", ErrCategoryMismatch, category.Label(), t.Kind)
	}

	date := t.Date
	if date.IsZero() {
		date = model.Today()
	}

	row := service.Row{
		Date:        date.Format(model.DateLayout),
		Description: t.Description,
		Category:    category.Name(),
		Amount:      t.Amount.InexactFloat64(),
	}

	var id int64
	ok, err := e.withTx(ctx, "add "+string(t.Kind), func(tx service.Transaction) (bool, error) {
		var err error
		id, err = tx.Insert(ctx, t.Kind, row)
		if err != nil {
			return false, err
		}
		if err := applyDelta(ctx, tx, signed(t.Kind, t.Amount)); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil || !ok {
		return ok, err
	}

	t.ID = id
	t.Date = date
	t.Category = category

	slog.Debug("recorded transaction", "kind", t.Kind, "id", id, "amount", t.Amount.String())
	return true, nil
}

// Edit changes the fields in req on the transaction identified by kind and
// id. It returns false when no such transaction exists. When the amount
// changes, the balance moves by the difference in the same database
// transaction.
func (e *Engine) Edit(ctx context.Context, kind model.Kind, id int64, req EditRequest) (bool, error) {
	if !kind.IsValid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if req.IsEmpty() {
		return false, ErrNoFieldsSpecified
	}
	if req.Amount != nil && !req.Amount.IsPositive() {
		return false, fmt.Errorf("%w: got %s", ErrInvalidAmount, req.Amount)
	}
	if req.Amount != nil && !model.FitsStorage(*req.Amount) {
		return false, fmt.Errorf("%w: got %s", ErrAmountOutOfRange, req.Amount)
	}
	if req.Category != nil && req.Category.Kind() != kind {
		return false, fmt.Errorf("%w: %s is not an %s category", ErrCategoryMismatch, req.Category.Label(), kind)
	}
	if id <= 0 {
		return false, nil
	}

	update := toFieldUpdate(req)

	ok, err := e.withTx(ctx, "edit "+string(kind), func(tx service.Transaction) (bool, error) {
		// Existence is confirmed before the balance is touched
		row, err := tx.GetRow(ctx, kind, id)
		if err != nil {
			return false, err
		}
		if row == nil {
			return false, nil
		}

		if req.Amount != nil {
			old, err := storedAmount(*row)
			if err != nil {
				return false, err
			}
			if err := applyDelta(ctx, tx, signed(kind, req.Amount.Sub(old))); err != nil {
				return false, err
			}
		}

		return tx.UpdateFields(ctx, kind, id, update)
	})
	if err != nil {
		return false, err
	}

	if ok {
		slog.Debug("edited transaction", "kind", kind, "id", id)
	}
	return ok, nil
}

// Delete removes the transaction identified by kind and id and reverses its
// effect on the balance. It returns false when no such transaction exists.
func (e *Engine) Delete(ctx context.Context, kind model.Kind, id int64) (bool, error) {
	if !kind.IsValid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if id <= 0 {
		return false, nil
	}

	ok, err := e.withTx(ctx, "delete "+string(kind), func(tx service.Transaction) (bool, error) {
		row, err := tx.GetRow(ctx, kind, id)
		if err != nil {
			return false, err
		}
		if row == nil {
			return false, nil
		}

		amount, err := storedAmount(*row)
		if err != nil {
			return false, err
		}
		if err := applyDelta(ctx, tx, signed(kind, amount).Neg()); err != nil {
			return false, err
		}

		return tx.Delete(ctx, kind, id)
	})
	if err != nil {
		return false, err
	}

	if ok {
		slog.Debug("deleted transaction", "kind", kind, "id", id)
	}
	return ok, nil
}

// List returns every transaction of a kind in id order.
func (e *Engine) List(ctx context.Context, kind model.Kind) ([]model.Transaction, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	rows, err := e.store.FetchAll(ctx, kind)
	if err != nil {
		return nil, persistenceError("list "+string(kind), err)
	}

	result := make([]model.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := fromRow(kind, row)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}

	return result, nil
}

// GetBalance returns the stored running balance.
func (e *Engine) GetBalance(ctx context.Context) (decimal.Decimal, error) {
	v, err := e.store.GetBalance(ctx)
	if err != nil {
		return decimal.Zero, persistenceError("get balance", err)
	}
	balance, err := storedBalance(v)
	if err != nil {
		return decimal.Zero, persistenceError("get balance", err)
	}
	return balance, nil
}

// SetBalance overwrites the running balance. It is an administrative
// override and is not linked to any transaction.
func (e *Engine) SetBalance(ctx context.Context, value decimal.Decimal) (bool, error) {
	if !model.FitsStorage(value) {
		return false, fmt.Errorf("%w: got %s", ErrAmountOutOfRange, value)
	}
	ok, err := e.store.SetBalance(ctx, value.InexactFloat64())
	if err != nil {
		return false, persistenceError("set balance", err)
	}
	if ok {
		slog.Info("balance overridden", "value", value.String())
	}
	return ok, nil
}

// withTx runs fn inside a database transaction. The transaction commits only
// when fn returns true without error; otherwise every write is rolled back.
func (e *Engine) withTx(ctx context.Context, op string, fn func(tx service.Transaction) (bool, error)) (bool, error) {
	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return false, persistenceError(op, err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after Commit

	ok, err := fn(tx)
	if err != nil {
		return false, persistenceError(op, err)
	}
	if !ok {
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, persistenceError(op, err)
	}
	return true, nil
}

// signed returns amount with the sign its kind has on the balance.
func signed(kind model.Kind, amount decimal.Decimal) decimal.Decimal {
	if kind == model.KindExpense {
		return amount.Neg()
	}
	return amount
}

func applyDelta(ctx context.Context, tx service.Transaction, delta decimal.Decimal) error {
	current, err := tx.GetBalance(ctx)
	if err != nil {
		return err
	}

	balance, err := storedBalance(current)
	if err != nil {
		return err
	}
	next := balance.Add(delta)
	if !model.FitsStorage(next) {
		return fmt.Errorf("%w: balance would become %s", ErrAmountOutOfRange, next)
	}
	ok, err := tx.SetBalance(ctx, next.InexactFloat64())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: balance row missing", common.ErrDatabaseCorrupted)
	}
	return nil
}

func toFieldUpdate(req EditRequest) service.FieldUpdate {
	var update service.FieldUpdate
	if req.Date != nil {
		d := req.Date.Format(model.DateLayout)
		update.Date = &d
	}
	if req.Description != nil {
		desc := *req.Description
		update.Description = &desc
	}
	if req.Category != nil {
		name := req.Category.Name()
		update.Category = &name
	}
	if req.Amount != nil {
		amount := req.Amount.InexactFloat64()
		update.Amount = &amount
	}
	return update
}

func fromRow(kind model.Kind, row service.Row) (model.Transaction, error) {
	category, ok := model.CategoryFromStorage(kind, row.Category)
	if !ok {
		return model.Transaction{}, fmt.Errorf("%w: %s %d has category %q", ErrCorruptCategory, kind, row.ID, row.Category)
	}

	date, err := time.ParseInLocation(model.DateLayout, row.Date, time.Local)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: %s %d has date %q", ErrCorruptDate, kind, row.ID, row.Date)
	}

	amount, err := storedAmount(row)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%s %d: %w", kind, row.ID, err)
	}

	return model.Transaction{
		ID:          row.ID,
		Kind:        kind,
		Date:        date,
		Description: row.Description,
		Category:    category,
		Amount:      amount,
	}, nil
}

// storedAmount converts a row's REAL amount. NaN and infinities cannot be
// represented as a decimal.
func storedAmount(row service.Row) (decimal.Decimal, error) {
	if math.IsInf(row.Amount, 0) || math.IsNaN(row.Amount) {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrCorruptAmount, row.Amount)
	}
	return decimal.NewFromFloat(row.Amount), nil
}

func storedBalance(v float64) (decimal.Decimal, error) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return decimal.Zero, fmt.Errorf("%w: balance is %v", common.ErrDatabaseCorrupted, v)
	}
	return decimal.NewFromFloat(v), nil
}
