package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Table-level errors
	ErrEmptyTable = errors.New("table is empty or not initialized")

	// Report section errors; the report generator downgrades these to
	// per-section error markers instead of aborting the whole report
	ErrNoNumericColumns     = errors.New("table has no numeric columns")
	ErrNoCategoricalColumns = errors.New("table has no categorical columns")

	// Recommendation engine input errors - these are programming errors
	// and fail fast, no partial suggestion list is produced
	ErrInvalidReport = errors.New("invalid report")

	// Collaborator errors (cleaning, rendering, file I/O)
	ErrColumnNotFound  = errors.New("column not found")
	ErrWrongColumnType = errors.New("wrong column type")
	ErrInvalidInput    = errors.New("invalid input")

	// Session lifecycle errors
	ErrSessionNotFound = errors.New("session not found")
)

// Error constructors with context
func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w: '%s'", ErrColumnNotFound, column)
}

func NewWrongColumnTypeError(column, want string) error {
	return fmt.Errorf("%w: column '%s' must be %s for this operation", ErrWrongColumnType, column, want)
}

func NewInvalidReportError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidReport, reason)
}

func NewInvalidInputError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}

func NewSessionNotFoundError(id SessionID) error {
	return fmt.Errorf("%w: '%s'", ErrSessionNotFound, id)
}

// Error checking helpers
func IsEmptyTableError(err error) bool {
	return errors.Is(err, ErrEmptyTable)
}

func IsColumnNotFoundError(err error) bool {
	return errors.Is(err, ErrColumnNotFound)
}

func IsWrongColumnTypeError(err error) bool {
	return errors.Is(err, ErrWrongColumnType)
}

func IsInvalidReportError(err error) bool {
	return errors.Is(err, ErrInvalidReport)
}

func IsSessionNotFoundError(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}
