package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatTransactionLine(t *testing.T) {
	txn := model.NewExpense(decimal.NewFromInt(70),
		model.WithDate(time.Date(1998, 6, 4, 0, 0, 0, 0, time.Local)),
		model.WithDescription("description test"),
		model.WithCategory(model.ExpenseGaming),
	)

	assert.Equal(t,
		`(id:0) Expense(date: 1998-06-04, description: "description test", category: Gaming, amount: 70.00€)`,
		FormatTransactionLine(txn))
}

func TestWriteTransactions(t *testing.T) {
	var buf bytes.Buffer
	WriteTransactions(&buf, model.KindIncome, nil)
	assert.Contains(t, buf.String(), "No incomes recorded.")

	buf.Reset()
	first := model.NewIncome(decimal.NewFromInt(1500), model.WithCategory(model.IncomeSalary))
	first.ID = 1
	second := model.NewIncome(decimal.RequireFromString("20.5"))
	second.ID = 2
	WriteTransactions(&buf, model.KindIncome, []model.Transaction{first, second})

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	assert.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "(id:1) Income(")
	assert.Contains(t, string(lines[1]), "amount: 20.50€")
}

func TestFormatBalance(t *testing.T) {
	assert.Contains(t, FormatBalance(decimal.NewFromInt(1500)), "1500.00€")
	assert.Contains(t, FormatBalance(decimal.RequireFromString("-12.5")), "-12.50€")
	assert.Contains(t, FormatBalance(decimal.Zero), "Current balance: ")
}

func TestFormatCategories(t *testing.T) {
	assert.Equal(t,
		"Possible categories for Expenses: ['Food', 'Transport', 'Gaming', 'Utilities', 'Other']",
		FormatCategories(model.KindExpense))
	assert.Equal(t,
		"Possible categories for Incomes: ['Salary', 'Investment', 'Other']",
		FormatCategories(model.KindIncome))
}

func TestWriteReconcileReport(t *testing.T) {
	tests := []struct {
		name   string
		report service.ReconcileReport
		want   string
	}{
		{
			name: "consistent",
			report: service.ReconcileReport{
				Stored:     decimal.NewFromInt(10),
				Computed:   decimal.NewFromInt(10),
				Consistent: true,
			},
			want: "Stored balance matches the transaction history.",
		},
		{
			name: "drifted",
			report: service.ReconcileReport{
				Stored:   decimal.NewFromInt(60),
				Computed: decimal.NewFromInt(10),
				Drift:    decimal.NewFromInt(50),
			},
			want: "Stored balance drifted by 50.00€.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			WriteReconcileReport(&buf, &tt.report)
			assert.Contains(t, buf.String(), "Derived balance: "+model.FormatAmount(tt.report.Computed))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}
