package dto

import (
	"net/http"

	"github.com/erp/custadmin/internal/domain/shared"
)

// Error code constants
// Format: ERR_<CATEGORY>
const (
	// ErrCodeInternal is used for storage failures and anything unclassified
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeValidation is used when a customer record fails an admission rule
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used when the payload cannot be bound at all
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeUnauthorized is used when the bearer credential is missing or invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when a valid credential has been revoked
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeNotFound is used when the customer does not exist
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConflict is used when the customer identifier is already taken
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeConflict:        http.StatusConflict,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status for an error code.
// Unknown codes are server errors.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

var kindCodes = map[shared.ErrorKind]string{
	shared.KindValidation:      ErrCodeValidation,
	shared.KindUnauthenticated: ErrCodeUnauthorized,
	shared.KindForbidden:       ErrCodeForbidden,
	shared.KindNotFound:        ErrCodeNotFound,
	shared.KindConflict:        ErrCodeConflict,
	shared.KindStorage:         ErrCodeInternal,
}

// CodeForKind returns the API error code for a domain error kind
func CodeForKind(kind shared.ErrorKind) string {
	if code, ok := kindCodes[kind]; ok {
		return code
	}
	return ErrCodeInternal
}
