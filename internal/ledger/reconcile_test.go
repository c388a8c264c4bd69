package ledger

import (
	"context"
	"testing"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_ReconcileConsistent(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()

	mustAdd(t, e, model.NewIncome(dec("1500")))
	mustAdd(t, e, model.NewExpense(dec("70")))
	mustAdd(t, e, model.NewExpense(dec("29.99")))

	report, err := e.Reconcile(ctx)
	require.NoError(t, err)

	assert.True(t, report.Consistent)
	assert.True(t, report.TotalIncome.Equal(dec("1500")))
	assert.True(t, report.TotalExpenses.Equal(dec("99.99")), "expenses %s", report.TotalExpenses)
	assert.True(t, report.Computed.Equal(dec("1400.01")), "computed %s", report.Computed)
	assert.True(t, report.Stored.Equal(report.Computed))
}

func TestEngine_ReconcileDetectsAndRepairsDrift(t *testing.T) {
	e, db := setupEngine(t)
	ctx := context.Background()

	mustAdd(t, e, model.NewIncome(dec("200")))
	ok, err := e.SetBalance(ctx, dec("250"))
	require.NoError(t, err)
	require.True(t, ok)

	report, err := e.Reconcile(ctx)
	require.NoError(t, err)
	assert.False(t, report.Consistent)
	assert.True(t, report.Drift.Equal(dec("50")), "drift %s", report.Drift)

	// Reconcile never writes
	assert.True(t, db.Balance().Equal(dec("250")))

	report, err = e.Repair(ctx)
	require.NoError(t, err)
	assert.False(t, report.Consistent)
	assertBalance(t, db, "200")

	report, err = e.Reconcile(ctx)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
}

func TestEngine_RepairConsistentIsNoop(t *testing.T) {
	e, db := setupEngine(t)
	mustAdd(t, e, model.NewExpense(dec("12")))

	report, err := e.Repair(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assertBalance(t, db, "-12")
}
