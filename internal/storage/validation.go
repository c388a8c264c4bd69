// Package storage provides the data persistence layer for the ledger.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/fintrack/internal/service"
)

// Store-level failures.
var (
	ErrIOFailure     = errors.New("storage location inaccessible")
	ErrSchemaFailure = errors.New("schema application failed")
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidKind  = errors.New("invalid transaction kind")
	ErrInvalidID    = errors.New("invalid row id")
	ErrInvalidRow   = errors.New("invalid row")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return nil
}

// validateRow checks the columns every persisted row must carry.
func validateRow(row service.Row) error {
	if row.Date == "" {
		return fmt.Errorf("%w: missing date", ErrInvalidRow)
	}
	if row.Category == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidRow)
	}
	return nil
}
