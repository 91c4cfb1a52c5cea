package apperrors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is returned when a field is malformed or out of range.
	ErrValidation = errors.New("validation failed")
	// ErrConflict is returned when a uniqueness constraint is violated.
	ErrConflict = errors.New("conflict")
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPermission is returned when the caller's role or ownership is insufficient.
	ErrPermission = errors.New("permission denied")
	// ErrAuthentication is returned when credentials or a confirmation code do not match.
	ErrAuthentication = errors.New("authentication failed")
)

// FieldError attaches a field name and message to one of the sentinel kinds
// so handlers can surface structured, field-level errors.
type FieldError struct {
	Kind    error
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// Validation creates a field-level validation error.
func Validation(field, message string) error {
	return &FieldError{Kind: ErrValidation, Field: field, Message: message}
}

// Conflict creates a field-level uniqueness conflict error.
func Conflict(field, message string) error {
	return &FieldError{Kind: ErrConflict, Field: field, Message: message}
}

// NotFound creates a missing-entity error.
func NotFound(message string) error {
	return &FieldError{Kind: ErrNotFound, Message: message}
}

// Permission creates an insufficient-permission error.
func Permission(message string) error {
	return &FieldError{Kind: ErrPermission, Message: message}
}

// Authentication creates a bad-credentials error.
func Authentication(field, message string) error {
	return &FieldError{Kind: ErrAuthentication, Field: field, Message: message}
}

// ErrorResponse represents a standardized error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Field      string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Field: e.Field,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unrecognized errors
// collapse to a generic 500 so internals never leak to clients.
func MapErrorToHTTP(err error) *HTTPError {
	var fieldErr *FieldError
	field := ""
	message := err.Error()
	if errors.As(err, &fieldErr) {
		field = fieldErr.Field
		message = fieldErr.Message
	}

	switch {
	case errors.Is(err, ErrValidation):
		return &HTTPError{StatusCode: http.StatusBadRequest, Message: message, Field: field}
	case errors.Is(err, ErrConflict):
		return &HTTPError{StatusCode: http.StatusBadRequest, Message: message, Field: field}
	case errors.Is(err, ErrNotFound):
		return &HTTPError{StatusCode: http.StatusNotFound, Message: message, Field: field}
	case errors.Is(err, ErrPermission):
		return &HTTPError{StatusCode: http.StatusForbidden, Message: message, Field: field}
	case errors.Is(err, ErrAuthentication):
		return &HTTPError{StatusCode: http.StatusBadRequest, Message: message, Field: field}
	default:
		return &HTTPError{StatusCode: http.StatusInternalServerError, Message: "internal server error"}
	}
}
