package ledger

import (
	"errors"
	"fmt"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
)

// Precondition errors. They are returned before the store is touched.
var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrNoFieldsSpecified = errors.New("no fields specified")
	ErrCategoryMismatch  = errors.New("category does not belong to transaction kind")
	ErrUnknownKind       = errors.New("unknown transaction kind")
	ErrNilTransaction    = errors.New("transaction cannot be nil")

	// ErrAmountOutOfRange is an ErrInvalidAmount for values the database
	// cannot store.
	ErrAmountOutOfRange = fmt.Errorf("%w: out of storable range", ErrInvalidAmount)
)

// Store and data-integrity errors.
var (
	ErrPersistence     = errors.New("persistence failure")
	ErrCorruptCategory = errors.New("corrupt category")
	ErrCorruptDate     = errors.New("corrupt date")
	ErrCorruptAmount   = errors.New("corrupt amount")
)

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// Message maps an engine error to the short text shown to a user.
func Message(err error) string {
	var verr *model.ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, ErrAmountOutOfRange):
		return "Amount is out of range"
	case errors.Is(err, ErrInvalidAmount):
		return "Amount must be greater than zero"
	case errors.Is(err, ErrNoFieldsSpecified):
		return "No fields specified to edit"
	case errors.Is(err, ErrCategoryMismatch):
		return "Category does not match the transaction kind"
	case errors.Is(err, ErrUnknownKind):
		return "Unknown transaction kind"
	case errors.Is(err, ErrNilTransaction):
		return "No transaction given"
	case errors.Is(err, ErrCorruptCategory), errors.Is(err, ErrCorruptDate),
		errors.Is(err, ErrCorruptAmount), errors.Is(err, common.ErrDatabaseCorrupted):
		return "Stored data is corrupted"
	case errors.Is(err, ErrPersistence):
		return "Database error"
	default:
		return "Unexpected error"
	}
}
