package model

import (
	"strings"
)

// Category is a closed, kind-tagged transaction category. The zero value is
// not a valid category; use the package variables or ParseCategory.
type Category struct {
	kind  Kind
	name  string
	label string
}

// Expense categories.
var (
	ExpenseFood      = Category{kind: KindExpense, name: "FOOD", label: "Food"}
	ExpenseTransport = Category{kind: KindExpense, name: "TRANSPORT", label: "Transport"}
	ExpenseGaming    = Category{kind: KindExpense, name: "GAMING", label: "Gaming"}
	ExpenseUtilities = Category{kind: KindExpense, name: "UTILITIES", label: "Utilities"}
	ExpenseOther     = Category{kind: KindExpense, name: "OTHER", label: "Other"}
)

// Income categories.
var (
	IncomeSalary     = Category{kind: KindIncome, name: "SALARY", label: "Salary"}
	IncomeInvestment = Category{kind: KindIncome, name: "INVESTMENT", label: "Investment"}
	IncomeOther      = Category{kind: KindIncome, name: "OTHER", label: "Other"}
)

var catalog = map[Kind][]Category{
	KindExpense: {ExpenseFood, ExpenseTransport, ExpenseGaming, ExpenseUtilities, ExpenseOther},
	KindIncome:  {IncomeSalary, IncomeInvestment, IncomeOther},
}

// Kind returns the transaction kind the category belongs to.
func (c Category) Kind() Kind { return c.kind }

// Name returns the storage identifier, e.g. "FOOD".
func (c Category) Name() string { return c.name }

// Label returns the display label, e.g. "Food".
func (c Category) Label() string { return c.label }

// IsZero reports whether c is the zero Category.
func (c Category) IsZero() bool { return c.name == "" }

func (c Category) String() string { return c.label }

// Categories returns the valid categories for a kind in declaration order.
func Categories(kind Kind) []Category {
	cats := catalog[kind]
	out := make([]Category, len(cats))
	copy(out, cats)
	return out
}

// CategoryLabels returns the display labels of a kind's categories.
func CategoryLabels(kind Kind) []string {
	cats := catalog[kind]
	labels := make([]string, 0, len(cats))
	for _, c := range cats {
		labels = append(labels, c.label)
	}
	return labels
}

// DefaultCategory returns the fallback category for a kind.
func DefaultCategory(kind Kind) Category {
	if kind == KindIncome {
		return IncomeOther
	}
	return ExpenseOther
}

// CategoryFromStorage maps a stored category identifier back to its variant.
// Matching is case-insensitive against the canonical name.
func CategoryFromStorage(kind Kind, name string) (Category, bool) {
	for _, c := range catalog[kind] {
		if strings.EqualFold(c.name, name) {
			return c, true
		}
	}
	return Category{}, false
}

// ParseCategory resolves user input to a category of the given kind. Input is
// matched case-insensitively against both the label and the storage name.
func ParseCategory(kind Kind, input string) (Category, error) {
	input = strings.TrimSpace(input)
	for _, c := range catalog[kind] {
		if strings.EqualFold(c.label, input) || strings.EqualFold(c.name, input) {
			return c, nil
		}
	}
	return Category{}, &ValidationError{
		Field: "category",
		Value: input,
		Valid: CategoryLabels(kind),
		Err:   ErrUnknownCategory,
	}
}
