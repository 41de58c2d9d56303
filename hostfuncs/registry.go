package hostfuncs

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
)

// Host function names of the bridge. Every one of them is served by
// BridgeBundle.
const (
	FuncLoadAssembly       = "load_assembly"
	FuncCreateObject       = "create_object"
	FuncDestroyObject      = "destroy_object"
	FuncCreateComponent    = "create_component"
	FuncDestroyComponent   = "destroy_component"
	FuncInvokeEntryPoint   = "invoke_entry_point"
	FuncGetProperty        = "get_property"
	FuncSetProperty        = "set_property"
	FuncCallFunction       = "call_function"
	FuncComponentTypes     = "component_types"
	FuncComponentInfo      = "component_info"
	FuncSetNativeFunctions = "set_native_functions"
	FuncGetNativeFunctions = "get_native_functions"
	FuncAssemblyInfo       = "assembly_info"
)

// BridgeFunctions returns the bridge's host function names in the order the
// native side binds them.
func BridgeFunctions() []string {
	return []string{
		FuncLoadAssembly,
		FuncCreateObject,
		FuncDestroyObject,
		FuncCreateComponent,
		FuncDestroyComponent,
		FuncInvokeEntryPoint,
		FuncGetProperty,
		FuncSetProperty,
		FuncCallFunction,
		FuncComponentTypes,
		FuncComponentInfo,
		FuncSetNativeFunctions,
		FuncGetNativeFunctions,
		FuncAssemblyInfo,
	}
}

// Host function names become wasm import names, so they are restricted to
// lower snake case.
var funcName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// HandlerRegistry is an immutable table of host functions keyed by name.
// Lookups need no locking once NewRegistry returns.
type HandlerRegistry struct {
	handlers map[string]ByteHandler
	names    []string
}

type registryBuilder struct {
	handlers   map[string]ByteHandler
	middleware []Middleware
	required   []string
	errors     []error
}

// NewRegistry builds a HandlerRegistry from opts. It fails on a malformed or
// duplicate function name and when a function named by WithRequired or
// WithBridge is missing.
//
//	registry, err := NewRegistry(
//	    WithMiddleware(PanicRecoveryMiddleware(logger), LoggingMiddleware(logger)),
//	    WithBridge(session),
//	)
func NewRegistry(opts ...RegistryOption) (*HandlerRegistry, error) {
	b := &registryBuilder{handlers: make(map[string]ByteHandler)}
	for _, opt := range opts {
		opt(b)
	}
	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}

	var missing []string
	for _, name := range b.required {
		if _, ok := b.handlers[name]; !ok && !slices.Contains(missing, name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing host functions: %s", strings.Join(missing, ", "))
	}

	// The first middleware ends up outermost.
	wrapped := make(map[string]ByteHandler, len(b.handlers))
	for name, handler := range b.handlers {
		for i := len(b.middleware) - 1; i >= 0; i-- {
			handler = b.middleware[i](handler)
		}
		wrapped[name] = handler
	}

	return &HandlerRegistry{
		handlers: wrapped,
		names:    slices.Sorted(maps.Keys(b.handlers)),
	}, nil
}

// Invoke dispatches a call to the function registered under name. Unknown
// names get a NOT_FOUND ErrorResponse and payloads that are not a JSON
// object get a VALIDATION_ERROR, both without reaching a handler. An empty
// payload is passed through.
func (r *HandlerRegistry) Invoke(ctx context.Context, name string, payload []byte) ([]byte, error) {
	handler, ok := r.handlers[name]
	if !ok {
		return NewNotFoundError(name).ToJSON(), nil
	}
	if err := checkPayload(payload); err != nil {
		return NewValidationError(fmt.Sprintf("%s: %v", name, err)).ToJSON(), nil
	}
	return handler(HostContextFrom(ctx, name), payload)
}

func checkPayload(payload []byte) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] != '{' {
		return fmt.Errorf("request must be a JSON object")
	}
	return nil
}

// Handler returns the middleware-wrapped handler registered under name.
// Calls made through it bypass the payload check and the HostContext set up
// by Invoke.
func (r *HandlerRegistry) Handler(name string) (ByteHandler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Has reports whether a function is registered under name.
func (r *HandlerRegistry) Has(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// Names returns the registered function names, sorted.
func (r *HandlerRegistry) Names() []string {
	return slices.Clone(r.names)
}

// Len returns the number of registered functions.
func (r *HandlerRegistry) Len() int {
	return len(r.names)
}

func (b *registryBuilder) addHandler(name string, handler ByteHandler) error {
	if !funcName.MatchString(name) {
		return fmt.Errorf("invalid host function name %q: want lower snake case", name)
	}
	if _, exists := b.handlers[name]; exists {
		return fmt.Errorf("duplicate handler name: %q", name)
	}
	b.handlers[name] = handler
	return nil
}

// WithByteHandler registers a raw ByteHandler under name.
// Use WithHandler for typed functions.
func WithByteHandler(name string, handler ByteHandler) RegistryOption {
	return func(b *registryBuilder) {
		if err := b.addHandler(name, handler); err != nil {
			b.errors = append(b.errors, err)
		}
	}
}

// WithMiddleware adds middleware to every handler. The first one added runs
// first.
func WithMiddleware(mw ...Middleware) RegistryOption {
	return func(b *registryBuilder) {
		b.middleware = append(b.middleware, mw...)
	}
}

// WithRequired makes NewRegistry fail unless every one of names has been
// registered by some option.
func WithRequired(names ...string) RegistryOption {
	return func(b *registryBuilder) {
		b.required = append(b.required, names...)
	}
}
