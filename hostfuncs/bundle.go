package hostfuncs

import (
	"maps"

	"github.com/klawr-dev/klawr-sdk/go/host"
)

// HostFuncBundle is a pre-configured set of related host functions.
// Bundles allow registering multiple handlers at once for common use cases.
type HostFuncBundle interface {
	// Handlers returns a map of handler names to ByteHandler functions.
	Handlers() map[string]ByteHandler
}

// staticBundle implements HostFuncBundle with a fixed set of handlers.
type staticBundle struct {
	handlers map[string]ByteHandler
}

func (b *staticBundle) Handlers() map[string]ByteHandler {
	return b.handlers
}

// LifecycleBundle returns the instance lifecycle functions:
// load_assembly, create_object, destroy_object, create_component,
// destroy_component, invoke_entry_point.
func LifecycleBundle(s *host.Session) HostFuncBundle {
	b := bridge{s}
	return &staticBundle{
		handlers: map[string]ByteHandler{
			FuncLoadAssembly:     NewJSONHandler(b.loadAssembly),
			FuncCreateObject:     NewJSONHandler(b.createObject),
			FuncDestroyObject:    NewJSONHandler(b.destroyObject),
			FuncCreateComponent:  NewJSONHandler(b.createComponent),
			FuncDestroyComponent: NewJSONHandler(b.destroyComponent),
			FuncInvokeEntryPoint: NewJSONHandler(b.invokeEntryPoint),
		},
	}
}

// DataBundle returns the property and method access functions:
// get_property, set_property, call_function.
func DataBundle(s *host.Session) HostFuncBundle {
	b := bridge{s}
	return &staticBundle{
		handlers: map[string]ByteHandler{
			FuncGetProperty:  NewJSONHandler(b.getProperty),
			FuncSetProperty:  NewJSONHandler(b.setProperty),
			FuncCallFunction: NewJSONHandler(b.callFunction),
		},
	}
}

// IntrospectionBundle returns the metadata functions used by the editor and
// the code generator: component_types, component_info, assembly_info.
func IntrospectionBundle(s *host.Session) HostFuncBundle {
	b := bridge{s}
	return &staticBundle{
		handlers: map[string]ByteHandler{
			FuncComponentTypes: NewJSONHandler(b.componentTypes),
			FuncComponentInfo:  NewJSONHandler(b.componentInfo),
			FuncAssemblyInfo:   NewJSONHandler(b.assemblyInfo),
		},
	}
}

// NativeBundle returns the native function pointer table functions:
// set_native_functions, get_native_functions.
func NativeBundle(s *host.Session) HostFuncBundle {
	b := bridge{s}
	return &staticBundle{
		handlers: map[string]ByteHandler{
			FuncSetNativeFunctions: NewJSONHandler(b.setNativeFunctions),
			FuncGetNativeFunctions: NewJSONHandler(b.getNativeFunctions),
		},
	}
}

// compositeBundle combines multiple bundles into one.
type compositeBundle struct {
	bundles []HostFuncBundle
}

func (b *compositeBundle) Handlers() map[string]ByteHandler {
	result := make(map[string]ByteHandler)
	for _, bundle := range b.bundles {
		maps.Copy(result, bundle.Handlers())
	}
	return result
}

// BridgeBundle returns every host function of the bridge bound to s.
func BridgeBundle(s *host.Session) HostFuncBundle {
	return &compositeBundle{
		bundles: []HostFuncBundle{
			LifecycleBundle(s),
			DataBundle(s),
			IntrospectionBundle(s),
			NativeBundle(s),
		},
	}
}

// WithBridge registers BridgeBundle(s) and requires the full bridge
// function set.
func WithBridge(s *host.Session) RegistryOption {
	return func(b *registryBuilder) {
		WithBundle(BridgeBundle(s))(b)
		WithRequired(BridgeFunctions()...)(b)
	}
}

// WithBundle registers all handlers from a bundle.
func WithBundle(bundle HostFuncBundle) RegistryOption {
	return func(b *registryBuilder) {
		for name, handler := range bundle.Handlers() {
			if err := b.addHandler(name, handler); err != nil {
				b.errors = append(b.errors, err)
			}
		}
	}
}

// WithHandler registers a typed host function with automatic JSON handling.
// The handler will be wrapped with NewJSONHandler for JSON serialization.
//
// Example usage:
//
//	WithHandler("custom_func", func(ctx context.Context, req MyRequest) MyResponse {
//	    return MyResponse{Result: req.Input}
//	})
func WithHandler[Req any, Resp any](name string, fn HostFunc[Req, Resp]) RegistryOption {
	return func(b *registryBuilder) {
		handler := NewJSONHandler(fn)
		if err := b.addHandler(name, handler); err != nil {
			b.errors = append(b.errors, err)
		}
	}
}
