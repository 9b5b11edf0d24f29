package ports

import (
	"errors"
	"fmt"
)

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// General Errors
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrNotFound           = errors.New("resource not found")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Ingestion Errors
	ErrNoFile         = errors.New("No file uploaded.")
	ErrMissingHeader  = errors.New("missing required CSV header")
	ErrNoValidTrades  = errors.New("No valid trades found in the uploaded file.")
	ErrUnreadableFile = errors.New("uploaded file could not be read")

	// Database Specific Errors
	ErrPersistence  = errors.New("trade persistence failed")
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")
)

// PersistenceError attributes a failed write to the position of the command in its batch.
type PersistenceError struct {
	Index  int    // Zero-based position of the failing command
	Symbol string // Symbol of the failing command, for log context
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%v: command %d (%s): %v", ErrPersistence, e.Index, e.Symbol, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is lets callers match any PersistenceError with errors.Is(err, ErrPersistence).
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
