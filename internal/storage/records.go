package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/service"
)

const balanceRowID = 1

// tableFor maps a kind to its table. Table names never come from user input.
func tableFor(kind model.Kind) (string, error) {
	switch kind {
	case model.KindExpense:
		return "expenses", nil
	case model.KindIncome:
		return "incomes", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
}

// FetchAll returns every row of the kind's table ordered by id.
func (s *SQLiteStorage) FetchAll(ctx context.Context, kind model.Kind) ([]service.Row, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.fetchAllTx(ctx, s.db, kind)
}

func (s *SQLiteStorage) fetchAllTx(ctx context.Context, q querier, kind model.Kind) ([]service.Row, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, date, description, category, amount
		FROM %s
		ORDER BY id ASC`, table)

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var result []service.Row
	for rows.Next() {
		var (
			r    service.Row
			desc sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Date, &desc, &r.Category, &r.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		r.Description = desc.String
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", table, err)
	}

	slog.Debug("retrieved ledger rows", "table", table, "count", len(result))
	return result, nil
}

// GetRow returns a single row, or nil if no row has that id.
func (s *SQLiteStorage) GetRow(ctx context.Context, kind model.Kind, id int64) (*service.Row, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getRowTx(ctx, s.db, kind, id)
}

func (s *SQLiteStorage) getRowTx(ctx context.Context, q querier, kind model.Kind, id int64) (*service.Row, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, date, description, category, amount
		FROM %s
		WHERE id = ?`, table)

	var (
		r    service.Row
		desc sql.NullString
	)
	err = q.QueryRowContext(ctx, query, id).Scan(&r.ID, &r.Date, &desc, &r.Category, &r.Amount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Row not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s row %d: %w", table, id, err)
	}
	r.Description = desc.String

	return &r, nil
}

// Insert adds a row and returns its generated id. The row's ID is ignored.
func (s *SQLiteStorage) Insert(ctx context.Context, kind model.Kind, row service.Row) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return s.insertTx(ctx, s.db, kind, row)
}

func (s *SQLiteStorage) insertTx(ctx context.Context, q querier, kind model.Kind, row service.Row) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	if err := validateRow(row); err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (date, description, category, amount)
		VALUES (?, ?, ?, ?)`, table)

	result, err := q.ExecContext(ctx, query, row.Date, row.Description, row.Category, row.Amount)
	if err != nil {
		return 0, fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get %s row ID: %w", table, err)
	}

	return id, nil
}

// UpdateFields applies the non-nil fields of update to a row. It returns
// false when no row has that id.
func (s *SQLiteStorage) UpdateFields(ctx context.Context, kind model.Kind, id int64, update service.FieldUpdate) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	return s.updateFieldsTx(ctx, s.db, kind, id, update)
}

func (s *SQLiteStorage) updateFieldsTx(ctx context.Context, q querier, kind model.Kind, id int64, update service.FieldUpdate) (bool, error) {
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}
	if err := validateID(id); err != nil {
		return false, err
	}
	if update.IsEmpty() {
		return false, fmt.Errorf("%w: no fields to update", ErrNilParameter)
	}

	var (
		sets []string
		args []any
	)
	if update.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, *update.Date)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *update.Category)
	}
	if update.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *update.Amount)
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = ?`, table, strings.Join(sets, ", "))
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update %s row %d: %w", table, id, err)
	}

	return rowsChanged(result)
}

// Delete removes a row. It returns false when no row has that id.
func (s *SQLiteStorage) Delete(ctx context.Context, kind model.Kind, id int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	return s.deleteTx(ctx, s.db, kind, id)
}

func (s *SQLiteStorage) deleteTx(ctx context.Context, q querier, kind model.Kind, id int64) (bool, error) {
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}
	if err := validateID(id); err != nil {
		return false, err
	}

	result, err := q.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete %s row %d: %w", table, id, err)
	}

	return rowsChanged(result)
}

// SumAmounts returns the total amount of the kind's table, zero when empty.
func (s *SQLiteStorage) SumAmounts(ctx context.Context, kind model.Kind) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return s.sumAmountsTx(ctx, s.db, kind)
}

func (s *SQLiteStorage) sumAmountsTx(ctx context.Context, q querier, kind model.Kind) (float64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	var total float64
	query := fmt.Sprintf(`SELECT COALESCE(SUM(amount), 0) FROM %s`, table)
	if err := q.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum %s: %w", table, err)
	}

	return total, nil
}

// GetBalance returns the stored running balance.
func (s *SQLiteStorage) GetBalance(ctx context.Context) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return s.getBalanceTx(ctx, s.db)
}

func (s *SQLiteStorage) getBalanceTx(ctx context.Context, q querier) (float64, error) {
	var balance float64
	err := q.QueryRowContext(ctx, `SELECT curr_balance FROM balance WHERE id = ?`, balanceRowID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: balance row missing", common.ErrDatabaseCorrupted)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query balance: %w", err)
	}

	return balance, nil
}

// SetBalance overwrites the stored balance. It returns false when the
// balance row is missing.
func (s *SQLiteStorage) SetBalance(ctx context.Context, value float64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	return s.setBalanceTx(ctx, s.db, value)
}

func (s *SQLiteStorage) setBalanceTx(ctx context.Context, q querier, value float64) (bool, error) {
	result, err := q.ExecContext(ctx, `UPDATE balance SET curr_balance = ? WHERE id = ?`, value, balanceRowID)
	if err != nil {
		return false, fmt.Errorf("failed to update balance: %w", err)
	}

	return rowsChanged(result)
}

func rowsChanged(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}
