package hostfuncs

import (
	"encoding/json"
	stdErrors "errors"
	"net/http"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/klawr-dev/klawr-sdk/go/domain/errors"
)

// ErrorResponse is the envelope returned when a call cannot be dispatched at
// all: an unknown function, a malformed request or a handler panic. Errors
// raised while serving a well-formed request travel in the response's own
// error field instead.
type ErrorResponse struct {
	// Error is a machine-readable error type identifier (e.g., "VALIDATION_ERROR", "INTERNAL_ERROR").
	Error string `json:"error"`

	Message string `json:"message"`

	// Code follows HTTP status semantics (400, 404, 500).
	Code int `json:"code"`
}

// ToJSON serializes the ErrorResponse to JSON bytes.
// Returns nil if serialization fails (which should never happen for this simple type).
func (e ErrorResponse) ToJSON() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return nil
	}
	return data
}

// NewValidationError creates an error response for bad input (e.g., malformed JSON).
func NewValidationError(message string) ErrorResponse {
	return ErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Code:    http.StatusBadRequest,
	}
}

// NewNotFoundError creates an error response for unknown handler names.
func NewNotFoundError(name string) ErrorResponse {
	return ErrorResponse{
		Error:   "NOT_FOUND",
		Message: "unknown host function: " + name,
		Code:    http.StatusNotFound,
	}
}

// NewInternalError creates an error response for unexpected failures.
func NewInternalError(message string) ErrorResponse {
	return ErrorResponse{
		Error:   "INTERNAL_ERROR",
		Message: message,
		Code:    http.StatusInternalServerError,
	}
}

// NewPanicError creates an error response for recovered panics.
func NewPanicError(panicValue any) ErrorResponse {
	var msg string
	if err, ok := panicValue.(error); ok {
		msg = err.Error()
	} else if s, ok := panicValue.(string); ok {
		msg = s
	} else {
		msg = "panic recovered"
	}
	return ErrorResponse{
		Error:   "INTERNAL_ERROR",
		Message: "panic: " + msg,
		Code:    http.StatusInternalServerError,
	}
}

// errorDetail converts a bridge error into the wire error. The outermost
// message is kept so wrapping context survives.
func errorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}
	detail := *errors.ToErrorDetail(err)
	var de errors.DetailedError
	if stdErrors.As(err, &de) {
		detail.Message = err.Error()
	}
	return &detail
}
