package shared

import "errors"

// ErrorKind classifies a domain error so the transport layer can choose a
// status code without re-deriving the failure.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindForbidden       ErrorKind = "forbidden"
	KindNotFound        ErrorKind = "not_found"
	KindConflict        ErrorKind = "conflict"
	KindStorage         ErrorKind = "storage"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a DomainError of the same kind and code.
// This lets wrapped copies match the package sentinels with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Wrap returns a copy of e carrying cause as its underlying error
func (e *DomainError) Wrap(cause error) *DomainError {
	return &DomainError{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: e.Message,
		cause:   cause,
	}
}

// ValidationError reports the first admission rule a customer record violated.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// Is matches any ValidationError with the same code, or ErrValidation
func (e *ValidationError) Is(target error) bool {
	if target == ErrValidation {
		return true
	}
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewValidationError creates a validation error for field
func NewValidationError(field, code, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Code:    code,
		Message: message,
	}
}

// NewStorageFailure wraps an error surfaced by the persistence collaborator.
// The message stays opaque; the cause is kept for logging.
func NewStorageFailure(cause error) *DomainError {
	return ErrStorageFailure.Wrap(cause)
}

// ErrValidation matches every *ValidationError via errors.Is
var ErrValidation = errors.New("validation failed")

// Common domain errors
var (
	ErrUnauthenticated = NewDomainError(KindUnauthenticated, "UNAUTHORIZED", "Authentication required")
	ErrForbidden       = NewDomainError(KindForbidden, "FORBIDDEN", "Access to this resource is forbidden")
	ErrNotFound        = NewDomainError(KindNotFound, "NOT_FOUND", "Resource not found")
	ErrAlreadyExists   = NewDomainError(KindConflict, "ALREADY_EXISTS", "Resource already exists")
	ErrStorageFailure  = NewDomainError(KindStorage, "STORAGE_FAILURE", "Storage operation failed")
)

// KindOf returns the kind of err, or "" when err carries no domain kind
func KindOf(err error) ErrorKind {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return KindValidation
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ""
}
