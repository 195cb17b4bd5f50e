package apperr

import "fmt"

// ValidationError indicates a request that is malformed or missing required
// fields. Never retried automatically.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError indicates a referenced entity that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NotFound builds a NotFoundError for the given resource and id.
func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// InvalidStateError indicates an operation attempted against an entity in a
// lifecycle state that does not allow it.
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string { return e.Msg }

// InvalidState builds an InvalidStateError from a format string.
func InvalidState(format string, args ...interface{}) *InvalidStateError {
	return &InvalidStateError{Msg: fmt.Sprintf(format, args...)}
}

// AuthenticationError indicates a request whose session does not resolve to
// a known user.
type AuthenticationError struct {
	Msg string
}

func (e *AuthenticationError) Error() string { return e.Msg }

// Unauthenticated builds an AuthenticationError.
func Unauthenticated(msg string) *AuthenticationError {
	return &AuthenticationError{Msg: msg}
}

// TransactionError wraps a failure inside a multi-statement database
// transaction. The whole unit of work has been rolled back.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction failed during %s: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }

// Transaction wraps err as a TransactionError for the given operation.
func Transaction(op string, err error) *TransactionError {
	return &TransactionError{Op: op, Err: err}
}
