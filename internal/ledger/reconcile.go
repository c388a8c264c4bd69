package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/service"
	"github.com/shopspring/decimal"
)

// Reconcile recomputes the balance from the transaction tables and compares
// it with the stored scalar. It never writes.
func (e *Engine) Reconcile(ctx context.Context) (*service.ReconcileReport, error) {
	var report *service.ReconcileReport
	_, err := e.withTx(ctx, "reconcile", func(tx service.Transaction) (bool, error) {
		var err error
		report, err = buildReport(ctx, tx)
		// Read-only; roll back rather than commit
		return false, err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Repair overwrites the stored balance with the value derived from the
// transaction tables. It returns the report taken before the repair.
func (e *Engine) Repair(ctx context.Context) (*service.ReconcileReport, error) {
	var report *service.ReconcileReport
	_, err := e.withTx(ctx, "repair balance", func(tx service.Transaction) (bool, error) {
		var err error
		report, err = buildReport(ctx, tx)
		if err != nil {
			return false, err
		}
		if report.Consistent {
			return false, nil
		}
		return tx.SetBalance(ctx, report.Computed.InexactFloat64())
	})
	if err != nil {
		return nil, err
	}

	if !report.Consistent {
		slog.Warn("repaired balance drift",
			"stored", report.Stored.String(),
			"computed", report.Computed.String(),
			"drift", report.Drift.String())
	}
	return report, nil
}

func buildReport(ctx context.Context, tx service.Transaction) (*service.ReconcileReport, error) {
	incomes, err := tx.SumAmounts(ctx, model.KindIncome)
	if err != nil {
		return nil, err
	}
	expenses, err := tx.SumAmounts(ctx, model.KindExpense)
	if err != nil {
		return nil, err
	}
	stored, err := tx.GetBalance(ctx)
	if err != nil {
		return nil, err
	}

	report := &service.ReconcileReport{}
	if report.Stored, err = storedBalance(stored); err != nil {
		return nil, err
	}
	if report.TotalIncome, err = storedTotal(model.KindIncome, incomes); err != nil {
		return nil, err
	}
	if report.TotalExpenses, err = storedTotal(model.KindExpense, expenses); err != nil {
		return nil, err
	}
	report.Computed = report.TotalIncome.Sub(report.TotalExpenses)
	report.Drift = report.Stored.Sub(report.Computed)
	// Compare at cent precision; REAL sums carry float noise
	report.Consistent = report.Drift.Abs().LessThan(decimal.New(5, -3))

	return report, nil
}

func storedTotal(kind model.Kind, v float64) (decimal.Decimal, error) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return decimal.Zero, fmt.Errorf("%w: %s total is %v", ErrCorruptAmount, kind, v)
	}
	return decimal.NewFromFloat(v), nil
}
