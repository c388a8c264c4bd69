package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/service"
	"github.com/shopspring/decimal"
)

// FormatTransactionLine renders one list entry, e.g.
// (id:1) Expense(date: 2024-04-01, description: "", category: Food, amount: 2.00€).
func FormatTransactionLine(t model.Transaction) string {
	return fmt.Sprintf("(id:%d) %s", t.ID, t.String())
}

// WriteTransactions prints a list of transactions, one per line.
func WriteTransactions(w io.Writer, kind model.Kind, txns []model.Transaction) {
	if len(txns) == 0 {
		fmt.Fprintln(w, FormatInfo(fmt.Sprintf("No %s recorded.", strings.ToLower(kind.Plural()))))
		return
	}
	for _, t := range txns {
		fmt.Fprintln(w, FormatTransactionLine(t))
	}
}

// FormatBalance renders the balance line shown by `balance show`.
func FormatBalance(balance decimal.Decimal) string {
	style := PositiveStyle
	if balance.IsNegative() {
		style = NegativeStyle
	}
	return "Current balance: " + style.Render(model.FormatAmount(balance))
}

// FormatCategories renders the valid categories of a kind.
func FormatCategories(kind model.Kind) string {
	return fmt.Sprintf("Possible categories for %s: [%s]",
		kind.Plural(), quoteJoin(model.CategoryLabels(kind)))
}

// WriteReconcileReport prints the outcome of a balance reconciliation.
func WriteReconcileReport(w io.Writer, r *service.ReconcileReport) {
	fmt.Fprintln(w, FormatTitle("Balance reconciliation"))
	fmt.Fprintf(w, "Total incomes:   %s\n", model.FormatAmount(r.TotalIncome))
	fmt.Fprintf(w, "Total expenses:  %s\n", model.FormatAmount(r.TotalExpenses))
	fmt.Fprintf(w, "Derived balance: %s\n", model.FormatAmount(r.Computed))
	fmt.Fprintf(w, "Stored balance:  %s\n", model.FormatAmount(r.Stored))
	if r.Consistent {
		fmt.Fprintln(w, FormatSuccess("Stored balance matches the transaction history."))
		return
	}
	fmt.Fprintln(w, FormatWarning(fmt.Sprintf("Stored balance drifted by %s.", model.FormatAmount(r.Drift))))
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + s + "'"
	}
	return strings.Join(quoted, ", ")
}
