package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the on-disk and command-line date format.
const DateLayout = "2006-01-02"

// Validation errors.
var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
)

// ValidationError reports caller input that was rejected before reaching the
// ledger.
type ValidationError struct {
	Err   error
	Field string
	Value string
	Msg   string
	Valid []string
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if len(e.Valid) > 0 {
		return fmt.Sprintf("%v %q: valid values are %s", e.Err, e.Value, strings.Join(e.Valid, ", "))
	}
	return fmt.Sprintf("%v %q", e.Err, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, &ValidationError{
			Field: "date",
			Value: s,
			Msg:   fmt.Sprintf("Invalid date format: %q. Expected YYYY-MM-DD.", s),
			Err:   ErrInvalidDate,
		}
	}
	return d, nil
}

// ParseAmount parses a strictly positive decimal amount. Both "12.34" and
// "12,34" are accepted.
func ParseAmount(s string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Value: s, Err: ErrInvalidAmount}
	}
	if !d.IsPositive() {
		return decimal.Zero, &ValidationError{
			Field: "amount",
			Value: s,
			Msg:   fmt.Sprintf("amount must be greater than zero, got %s", s),
			Err:   ErrInvalidAmount,
		}
	}
	if !FitsStorage(d) {
		return decimal.Zero, &ValidationError{
			Field: "amount",
			Value: s,
			Msg:   fmt.Sprintf("amount %s is out of range", s),
			Err:   ErrInvalidAmount,
		}
	}
	return d, nil
}
