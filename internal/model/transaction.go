package model

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single expense or income entry.
type Transaction struct {
	Date        time.Time
	Category    Category
	Description string
	Kind        Kind
	Amount      decimal.Decimal
	ID          int64 // assigned by the store; zero until persisted
}

// Option customizes a transaction built by NewExpense or NewIncome.
type Option func(*Transaction)

// WithDate sets the transaction date.
func WithDate(d time.Time) Option {
	return func(t *Transaction) { t.Date = d }
}

// WithDescription sets the free-text description.
func WithDescription(desc string) Option {
	return func(t *Transaction) { t.Description = desc }
}

// WithCategory sets the category. The category must belong to the
// transaction's kind; the ledger rejects mismatches.
func WithCategory(c Category) Option {
	return func(t *Transaction) { t.Category = c }
}

// NewExpense builds an expense dated today in the Other category unless
// options say otherwise.
func NewExpense(amount decimal.Decimal, opts ...Option) Transaction {
	return newTransaction(KindExpense, amount, opts)
}

// NewIncome builds an income dated today in the Other category unless
// options say otherwise.
func NewIncome(amount decimal.Decimal, opts ...Option) Transaction {
	return newTransaction(KindIncome, amount, opts)
}

func newTransaction(kind Kind, amount decimal.Decimal, opts []Option) Transaction {
	t := Transaction{
		Kind:     kind,
		Amount:   amount,
		Date:     Today(),
		Category: DefaultCategory(kind),
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Today returns the current local date at midnight.
func Today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// FitsStorage reports whether d survives conversion to the float64 the
// database stores: the result must be finite, and non-zero unless d is zero.
func FitsStorage(d decimal.Decimal) bool {
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return false
	}
	return d.IsZero() == (f == 0)
}

// FormatAmount renders an amount with two decimals and the euro sign.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2) + "€"
}

// String renders the transaction the way the list command prints it.
func (t Transaction) String() string {
	return fmt.Sprintf("%s(date: %s, description: %q, category: %s, amount: %s)",
		t.Kind.Label(),
		t.Date.Format(DateLayout),
		t.Description,
		t.Category.Label(),
		FormatAmount(t.Amount))
}
