package persistent

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common operations.
var (
	// ErrTxDone is returned when committing or rolling back a transaction
	// scope that has already reached a terminal state.
	ErrTxDone = errors.New("persistent: transaction has already been committed or rolled back")

	// ErrNoIdentifier is returned when an insert succeeded but no usable
	// generated identifier could be extracted from the result.
	ErrNoIdentifier = errors.New("persistent: no generated identifier returned")
)

// StatementError represents a failure to prepare, bind or execute a
// statement at the driver level: malformed SQL, a constraint violation,
// or a type incompatibility. It is never retried automatically.
type StatementError struct {
	Query string // Statement text that failed
	wrap  error
}

// Error returns the error string.
func (e *StatementError) Error() string {
	return fmt.Sprintf("persistent: statement failed: %v", e.wrap)
}

// Unwrap returns the underlying driver error.
func (e *StatementError) Unwrap() error {
	return e.wrap
}

// NewStatementError returns a new StatementError for the given statement.
func NewStatementError(query string, wrap error) *StatementError {
	return &StatementError{Query: query, wrap: wrap}
}

// IsStatementError returns true if the error is a StatementError.
func IsStatementError(err error) bool {
	if err == nil {
		return false
	}
	var e *StatementError
	return errors.As(err, &e)
}

// NoIdentifierError represents an insert whose response contained no
// usable generated identifier row. This is an invariant violation on the
// caller's side, not a recoverable condition.
type NoIdentifierError struct {
	Table string // Table the insert targeted
}

// Error returns the error string.
func (e *NoIdentifierError) Error() string {
	return fmt.Sprintf("persistent: insert into %q returned no generated identifier", e.Table)
}

// Is reports whether the target error matches NoIdentifierError.
// This allows errors.Is(err, ErrNoIdentifier) to return true.
func (e *NoIdentifierError) Is(err error) bool {
	return err == ErrNoIdentifier
}

// NewNoIdentifierError returns a new NoIdentifierError for the given table.
func NewNoIdentifierError(table string) *NoIdentifierError {
	return &NoIdentifierError{Table: table}
}

// IsNoIdentifier returns true if the error is a NoIdentifierError.
func IsNoIdentifier(err error) bool {
	if err == nil {
		return false
	}
	var e *NoIdentifierError
	return errors.As(err, &e) || errors.Is(err, ErrNoIdentifier)
}

// ConnectionError represents a failure to open or communicate over the
// underlying connection. It is fatal to the current scope.
type ConnectionError struct {
	wrap error
}

// Error returns the error string.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("persistent: connection: %v", e.wrap)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.wrap
}

// NewConnectionError returns a new ConnectionError wrapping the given error.
func NewConnectionError(wrap error) *ConnectionError {
	return &ConnectionError{wrap: wrap}
}

// IsConnectionError returns true if the error is a ConnectionError.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConnectionError
	return errors.As(err, &e)
}

// ValidationError represents a schema or argument violation detected
// before any statement reaches the backend, such as an insert whose
// column and value counts disagree.
type ValidationError struct {
	Name string // Entity, table or field name
	Err  error  // Underlying validation error
}

// Error returns the error string.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("persistent: validation failed for %q: %s", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError returns a new ValidationError for the given name.
func NewValidationError(name string, err error) *ValidationError {
	return &ValidationError{Name: name, Err: err}
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var e *ValidationError
	return errors.As(err, &e)
}
