package entities

import "fmt"

// ErrorDetail is the structured form of a bridge error, used in logs and as
// the wire error format of the host handlers.
//
// Types: "not_found", "binding", "duplicate", "invocation", "marshal",
// "assembly", "config", "panic", "internal".
type ErrorDetail struct {
	Wrapped *ErrorDetail `json:"wrapped,omitempty"`

	// Message is a human-readable description.
	Message string `json:"message"`

	Type string `json:"type"`

	// Code names the offending subject, e.g. a class or member name.
	Code string `json:"code,omitempty"`

	// Stack holds the goroutine stack for recovered panics.
	Stack string `json:"stack,omitempty"`

	IsNotFound bool `json:"is_not_found,omitempty"`
}

// Error implements the error interface.
func (e *ErrorDetail) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if e.Type != "" && e.Type != "internal" {
		msg = fmt.Sprintf("%s: %s", e.Type, msg)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Code)
	}
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Wrapped.Error())
	}
	return msg
}

// NewErrorDetail creates an ErrorDetail with the given type and message.
func NewErrorDetail(errorType, message string) *ErrorDetail {
	return &ErrorDetail{Type: errorType, Message: message}
}
