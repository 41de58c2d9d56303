// Package wireformat defines the JSON wire format of the bridge host
// functions. These types are the contract with native hosts that talk to the
// bridge through a byte-oriented call interface and must stay backward
// compatible.
package wireformat

import (
	"context"
	"time"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
)

// ErrorDetail is the structured error carried in every response.
type ErrorDetail = entities.ErrorDetail

// ContextWireFormat carries deadline information for calls that may block.
type ContextWireFormat struct {
	Deadline  *time.Time `json:"deadline,omitempty"`
	RequestID string     `json:"request_id,omitempty"`
	TimeoutMs int64      `json:"timeout_ms,omitempty"`
}

// Apply derives a context from parent that honors the deadline or timeout.
// The returned cancel func must always be called.
func (c ContextWireFormat) Apply(parent context.Context) (context.Context, context.CancelFunc) {
	switch {
	case c.Deadline != nil:
		return context.WithDeadline(parent, *c.Deadline)
	case c.TimeoutMs > 0:
		return context.WithTimeout(parent, time.Duration(c.TimeoutMs)*time.Millisecond)
	default:
		return context.WithCancel(parent)
	}
}

// LoadAssemblyRequestWire asks the bridge to load a registered assembly.
type LoadAssemblyRequestWire struct {
	Name string `json:"name" validate:"required,assembly_name"`
}

// LoadAssemblyResponseWire reports whether the assembly was loaded.
type LoadAssemblyResponseWire struct {
	Error  *ErrorDetail `json:"error,omitempty"`
	Loaded bool         `json:"loaded"`
}

// CreateRequestWire asks for a script object or component of ClassName bound
// to the native object at Native.
type CreateRequestWire struct {
	ClassName string                `json:"class_name" validate:"required,class_name"`
	Native    entities.NativeHandle `json:"native"`
}

// CreateResponseWire returns the new instance id and the names of the entry
// points the instance implements.
type CreateResponseWire struct {
	Error       *ErrorDetail        `json:"error,omitempty"`
	EntryPoints []string            `json:"entry_points,omitempty"`
	InstanceID  entities.InstanceID `json:"instance_id,omitempty"`
}

// DestroyRequestWire asks for an instance to be destroyed.
type DestroyRequestWire struct {
	InstanceID entities.InstanceID `json:"instance_id" validate:"required"`
}

// DestroyResponseWire is the result of a destroy call.
type DestroyResponseWire struct {
	Error *ErrorDetail `json:"error,omitempty"`
}

// InvokeEntryPointRequestWire calls a named entry point of an instance.
type InvokeEntryPointRequestWire struct {
	Name         string              `json:"name" validate:"required"`
	InstanceID   entities.InstanceID `json:"instance_id" validate:"required"`
	DeltaSeconds float32             `json:"delta_seconds,omitempty"`
}

// InvokeEntryPointResponseWire reports whether the entry point ran.
type InvokeEntryPointResponseWire struct {
	Error   *ErrorDetail `json:"error,omitempty"`
	Invoked bool         `json:"invoked"`
}

// GetPropertyRequestWire reads a property of category Type.
type GetPropertyRequestWire struct {
	Name       string              `json:"name" validate:"required"`
	InstanceID entities.InstanceID `json:"instance_id" validate:"required"`
	Type       entities.TypeTag    `json:"type" validate:"min=0,max=4"`
}

// SetPropertyRequestWire writes Value to a property.
type SetPropertyRequestWire struct {
	Name       string              `json:"name" validate:"required"`
	Value      entities.Arg        `json:"value"`
	InstanceID entities.InstanceID `json:"instance_id" validate:"required"`
}

// PropertyResponseWire carries the value read, or the error.
type PropertyResponseWire struct {
	Error *ErrorDetail  `json:"error,omitempty"`
	Value *entities.Arg `json:"value,omitempty"`
}

// CallRequestWire invokes Method with Args and expects a result of category
// ReturnType (TypeVoid discards it).
type CallRequestWire struct {
	Method     string              `json:"method" validate:"required"`
	Args       []entities.Arg      `json:"args,omitempty"`
	InstanceID entities.InstanceID `json:"instance_id" validate:"required"`
	ReturnType entities.TypeTag    `json:"return_type" validate:"min=0,max=5"`
}

// CallResponseWire carries the call result, or the error.
type CallResponseWire struct {
	Error  *ErrorDetail  `json:"error,omitempty"`
	Result *entities.Arg `json:"result,omitempty"`
}

// ComponentTypesRequestWire has no fields; it lists the creatable component
// classes.
type ComponentTypesRequestWire struct{}

// ComponentTypesResponseWire lists creatable component class names.
type ComponentTypesResponseWire struct {
	Types []string `json:"types"`
}

// ComponentInfoRequestWire asks for the editor-facing description of a
// component class.
type ComponentInfoRequestWire struct {
	ClassName string `json:"class_name" validate:"required,class_name"`
}

// PropertyInfoWire describes one script-visible property.
type PropertyInfoWire struct {
	Name            string           `json:"name"`
	ClassName       string           `json:"class_name,omitempty"`
	MetaData        []entities.Meta  `json:"meta_data"`
	Type            entities.TypeTag `json:"type"`
	AdvancedDisplay bool             `json:"advanced_display,omitempty"`
	SaveGame        bool             `json:"save_game,omitempty"`
}

// FunctionInfoWire describes one script-visible function.
type FunctionInfoWire struct {
	Name                string             `json:"name"`
	ReturnClassName     string             `json:"return_class_name,omitempty"`
	ParameterNames      []string           `json:"parameter_names"`
	ParameterTypes      []entities.TypeTag `json:"parameter_types"`
	ParameterClassNames []string           `json:"parameter_class_names"`
	ReturnType          entities.TypeTag   `json:"return_type"`
}

// ComponentInfoResponseWire is the description of a component class.
type ComponentInfoResponseWire struct {
	Error      *ErrorDetail       `json:"error,omitempty"`
	ClassName  string             `json:"class_name"`
	Properties []PropertyInfoWire `json:"properties,omitempty"`
	Functions  []FunctionInfoWire `json:"functions,omitempty"`
}

// NativeFunctionsRequestWire records or fetches the native function pointers
// of NativeClass. Pointers is ignored on fetch.
type NativeFunctionsRequestWire struct {
	NativeClass string  `json:"native_class" validate:"required"`
	Pointers    []int64 `json:"pointers,omitempty"`
}

// NativeFunctionsResponseWire returns the recorded pointers.
type NativeFunctionsResponseWire struct {
	Error    *ErrorDetail            `json:"error,omitempty"`
	Pointers []entities.NativeHandle `json:"pointers,omitempty"`
}

// AssemblyInfoRequestWire asks for the metadata document.
type AssemblyInfoRequestWire struct {
	Context ContextWireFormat `json:"context"`
}

// AssemblyInfoResponseWire carries the metadata document as JSON text.
type AssemblyInfoResponseWire struct {
	Document string `json:"document"`
}
