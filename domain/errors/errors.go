// Package errors provides the bridge's domain error types.
// All error types support unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrNotFound  = stdErrors.New("not found")
	ErrBinding   = stdErrors.New("binding failed")
	ErrDuplicate = stdErrors.New("duplicate registration")
	ErrMarshal   = stdErrors.New("marshal failed")
)

// DetailedError is implemented by errors that can describe themselves as a
// structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to the structured ErrorDetail.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// Kind names what a NotFoundError was looking for.
type Kind string

const (
	KindClass    Kind = "class"
	KindProperty Kind = "property"
	KindMethod   Kind = "method"
	KindInstance Kind = "instance"
	KindAssembly Kind = "assembly"
	KindEnum     Kind = "enum"
	KindNative   Kind = "native class"
)

// NotFoundError reports a missing class, member, instance or assembly.
type NotFoundError struct {
	Kind  Kind
	Name  string
	Owner string // class that was searched for a member, if any
}

func (e *NotFoundError) Error() string {
	if e.Owner != "" {
		return fmt.Sprintf("%s %q not found on %s", e.Kind, e.Name, e.Owner)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ToErrorDetail implements DetailedError.
func (e *NotFoundError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "not_found", Code: e.Name, IsNotFound: true}
}

// NewNotFound is a shorthand for a NotFoundError without an owner.
func NewNotFound(kind Kind, name string) *NotFoundError {
	return &NotFoundError{Kind: kind, Name: name}
}

// NewMemberNotFound reports a missing member of a class.
func NewMemberNotFound(kind Kind, owner, name string) *NotFoundError {
	return &NotFoundError{Kind: kind, Name: name, Owner: owner}
}

// BindingError reports that a class could not be bound: it has no matching
// constructor, or a member has a shape the bridge cannot marshal.
type BindingError struct {
	Err    error
	Class  string
	Member string
	Reason string
}

func (e *BindingError) Error() string {
	msg := fmt.Sprintf("cannot bind %s", e.Class)
	if e.Member != "" {
		msg = fmt.Sprintf("%s.%s", msg, e.Member)
	}
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *BindingError) Unwrap() error {
	return e.Err
}

// Is matches ErrBinding.
func (e *BindingError) Is(target error) bool {
	return target == ErrBinding
}

// ToErrorDetail implements DetailedError.
func (e *BindingError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "binding", Code: e.Class}
}

// DuplicateInstanceError reports that an instance id was registered twice,
// which means the id generation invariant has been broken.
type DuplicateInstanceError struct {
	Entity string // "script object" or "script component"
	ID     entities.InstanceID
}

func (e *DuplicateInstanceError) Error() string {
	return fmt.Sprintf("%s instance %d is already registered", e.Entity, e.ID)
}

// Is matches ErrDuplicate.
func (e *DuplicateInstanceError) Is(target error) bool {
	return target == ErrDuplicate
}

// ToErrorDetail implements DetailedError.
func (e *DuplicateInstanceError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "duplicate", Code: e.ID.String()}
}

// MarshalError reports a value that could not be converted between its host
// and script representations.
type MarshalError struct {
	Err    error
	Member string
	From   string
	To     string
}

func (e *MarshalError) Error() string {
	msg := fmt.Sprintf("cannot marshal %s from %s to %s", e.Member, e.From, e.To)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *MarshalError) Unwrap() error {
	return e.Err
}

// Is matches ErrMarshal.
func (e *MarshalError) Is(target error) bool {
	return target == ErrMarshal
}

// ToErrorDetail implements DetailedError.
func (e *MarshalError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "marshal", Code: e.Member}
}

// InvocationError wraps a failure raised by script code during a call,
// including recovered panics.
type InvocationError struct {
	Err    error
	Class  string
	Method string
	Stack  string
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("call %s.%s failed: %v", e.Class, e.Method, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *InvocationError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "invocation", Code: e.Method, Stack: e.Stack}
}

// AssemblyLoadError reports an assembly that could not be loaded.
type AssemblyLoadError struct {
	Err      error
	Assembly string
}

func (e *AssemblyLoadError) Error() string {
	return fmt.Sprintf("load assembly %s: %v", e.Assembly, e.Err)
}

func (e *AssemblyLoadError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *AssemblyLoadError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "assembly", Code: e.Assembly}
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "config", Code: e.Field}
}
