package storage

import (
	"context"
	"testing"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestSQLiteStorage_InsertAndFetchAll(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	first, err := store.Insert(ctx, model.KindExpense, testRow("2024-04-01", "OTHER", 50))
	require.NoError(t, err)
	second, err := store.Insert(ctx, model.KindExpense, service.Row{
		Date:        "2024-04-02",
		Description: "test description",
		Category:    "FOOD",
		Amount:      2,
	})
	require.NoError(t, err)
	assert.Greater(t, second, first)

	rows, err := store.FetchAll(ctx, model.KindExpense)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, first, rows[0].ID)
	assert.Equal(t, service.Row{
		ID:          second,
		Date:        "2024-04-02",
		Description: "test description",
		Category:    "FOOD",
		Amount:      2,
	}, rows[1])

	// The other table is untouched
	incomes, err := store.FetchAll(ctx, model.KindIncome)
	require.NoError(t, err)
	assert.Empty(t, incomes)
}

func TestSQLiteStorage_InsertValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.Insert(ctx, model.KindExpense, service.Row{Category: "FOOD", Amount: 1})
	assert.ErrorIs(t, err, ErrInvalidRow)

	_, err = store.Insert(ctx, model.Kind("transfer"), testRow("2024-01-01", "FOOD", 1))
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestSQLiteStorage_GetRow(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	id, err := store.Insert(ctx, model.KindIncome, testRow("2024-05-01", "SALARY", 1500))
	require.NoError(t, err)

	row, err := store.GetRow(ctx, model.KindIncome, id)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "SALARY", row.Category)

	missing, err := store.GetRow(ctx, model.KindIncome, id+100)
	require.NoError(t, err)
	assert.Nil(t, missing)

	// Ids are per table
	other, err := store.GetRow(ctx, model.KindExpense, id)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestSQLiteStorage_UpdateFields(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	id, err := store.Insert(ctx, model.KindExpense, testRow("2024-04-01", "OTHER", 50))
	require.NoError(t, err)

	tests := []struct {
		name   string
		update service.FieldUpdate
		want   service.Row
	}{
		{
			name:   "amount only",
			update: service.FieldUpdate{Amount: floatPtr(20)},
			want:   service.Row{ID: id, Date: "2024-04-01", Description: "test OTHER", Category: "OTHER", Amount: 20},
		},
		{
			name:   "date and description",
			update: service.FieldUpdate{Date: strPtr("2020-01-02"), Description: strPtr("description")},
			want:   service.Row{ID: id, Date: "2020-01-02", Description: "description", Category: "OTHER", Amount: 20},
		},
		{
			name: "all fields",
			update: service.FieldUpdate{
				Date:        strPtr("2021-03-04"),
				Description: strPtr(""),
				Category:    strPtr("UTILITIES"),
				Amount:      floatPtr(1000),
			},
			want: service.Row{ID: id, Date: "2021-03-04", Description: "", Category: "UTILITIES", Amount: 1000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := store.UpdateFields(ctx, model.KindExpense, id, tt.update)
			require.NoError(t, err)
			assert.True(t, ok)

			row, err := store.GetRow(ctx, model.KindExpense, id)
			require.NoError(t, err)
			require.NotNil(t, row)
			assert.Equal(t, tt.want, *row)
		})
	}
}

func TestSQLiteStorage_UpdateFieldsMissingRow(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	ok, err := store.UpdateFields(ctx, model.KindExpense, 42, service.FieldUpdate{Amount: floatPtr(1)})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.UpdateFields(ctx, model.KindExpense, 42, service.FieldUpdate{})
	assert.ErrorIs(t, err, ErrNilParameter)
}

func TestSQLiteStorage_Delete(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	id, err := store.Insert(ctx, model.KindExpense, testRow("2024-04-01", "GAMING", 70))
	require.NoError(t, err)

	ok, err := store.Delete(ctx, model.KindExpense, id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Delete(ctx, model.KindExpense, id)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Delete(ctx, model.KindExpense, 0)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestSQLiteStorage_SumAmounts(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	total, err := store.SumAmounts(ctx, model.KindIncome)
	require.NoError(t, err)
	assert.Zero(t, total)

	for _, amount := range []float64{1500, 250.5} {
		_, err := store.Insert(ctx, model.KindIncome, testRow("2024-01-01", "SALARY", amount))
		require.NoError(t, err)
	}

	total, err = store.SumAmounts(ctx, model.KindIncome)
	require.NoError(t, err)
	assert.Equal(t, 1750.5, total)
}

func TestSQLiteStorage_Balance(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	balance, err := store.GetBalance(ctx)
	require.NoError(t, err)
	assert.Zero(t, balance)

	ok, err := store.SetBalance(ctx, 1000)
	require.NoError(t, err)
	assert.True(t, ok)

	balance, err = store.GetBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, balance)
}

func TestSQLiteStorage_BalanceRowMissing(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, `DELETE FROM balance`)
	require.NoError(t, err)

	_, err = store.GetBalance(ctx)
	assert.ErrorIs(t, err, common.ErrDatabaseCorrupted)

	ok, err := store.SetBalance(ctx, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	// Initialize restores the row
	require.NoError(t, store.Initialize(ctx))
	balance, err := store.GetBalance(ctx)
	require.NoError(t, err)
	assert.Zero(t, balance)
}
