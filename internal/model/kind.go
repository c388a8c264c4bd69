// Package model defines the core domain models used throughout the application.
package model

// Kind indicates which ledger table a transaction belongs to.
type Kind string

// Kind constants.
const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

var kinds = []Kind{KindExpense, KindIncome}

// Kinds lists every transaction kind in display order. The slice is a copy.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	return k == KindExpense || k == KindIncome
}

// Label returns the capitalized display name of the kind.
func (k Kind) Label() string {
	switch k {
	case KindExpense:
		return "Expense"
	case KindIncome:
		return "Income"
	default:
		return string(k)
	}
}

// Plural returns the plural display name, e.g. "Expenses".
func (k Kind) Plural() string {
	return k.Label() + "s"
}
