package hostfuncs

import (
	"context"
	"slices"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/klawr-dev/klawr-sdk/go/domain/errors"
	"github.com/klawr-dev/klawr-sdk/go/host"
	"github.com/klawr-dev/klawr-sdk/go/wireformat"
)

// bridge adapts a Session to typed host functions.
type bridge struct {
	s *host.Session
}

func (b bridge) loadAssembly(_ context.Context, req wireformat.LoadAssemblyRequestWire) wireformat.LoadAssemblyResponseWire {
	if !b.s.LoadAssembly(req.Name) {
		return wireformat.LoadAssemblyResponseWire{
			Error: errorDetail(&errors.AssemblyLoadError{Assembly: req.Name, Err: errors.ErrNotFound}),
		}
	}
	return wireformat.LoadAssemblyResponseWire{Loaded: true}
}

func (b bridge) createObject(_ context.Context, req wireformat.CreateRequestWire) wireformat.CreateResponseWire {
	eps, err := b.s.CreateObject(req.ClassName, req.Native)
	if err != nil {
		return wireformat.CreateResponseWire{Error: errorDetail(err)}
	}
	return wireformat.CreateResponseWire{InstanceID: eps.InstanceID, EntryPoints: objectEntryPoints(eps)}
}

func (b bridge) destroyObject(_ context.Context, req wireformat.DestroyRequestWire) wireformat.DestroyResponseWire {
	return wireformat.DestroyResponseWire{Error: errorDetail(b.s.DestroyObject(req.InstanceID))}
}

func (b bridge) createComponent(_ context.Context, req wireformat.CreateRequestWire) wireformat.CreateResponseWire {
	proxy, err := b.s.CreateComponent(req.ClassName, req.Native)
	if err != nil {
		return wireformat.CreateResponseWire{Error: errorDetail(err)}
	}
	return wireformat.CreateResponseWire{InstanceID: proxy.InstanceID, EntryPoints: componentEntryPoints(proxy)}
}

func (b bridge) destroyComponent(_ context.Context, req wireformat.DestroyRequestWire) wireformat.DestroyResponseWire {
	return wireformat.DestroyResponseWire{Error: errorDetail(b.s.DestroyComponent(req.InstanceID))}
}

func (b bridge) invokeEntryPoint(_ context.Context, req wireformat.InvokeEntryPointRequestWire) wireformat.InvokeEntryPointResponseWire {
	invoked, err := b.s.InvokeEntryPoint(req.InstanceID, req.Name, req.DeltaSeconds)
	return wireformat.InvokeEntryPointResponseWire{Invoked: invoked, Error: errorDetail(err)}
}

func (b bridge) getProperty(_ context.Context, req wireformat.GetPropertyRequestWire) wireformat.PropertyResponseWire {
	v, err := b.s.Get(req.InstanceID, req.Name, req.Type)
	if err != nil {
		return wireformat.PropertyResponseWire{Error: errorDetail(err)}
	}
	return wireformat.PropertyResponseWire{Value: &v}
}

func (b bridge) setProperty(_ context.Context, req wireformat.SetPropertyRequestWire) wireformat.PropertyResponseWire {
	if err := b.s.Set(req.InstanceID, req.Name, req.Value); err != nil {
		return wireformat.PropertyResponseWire{Error: errorDetail(err)}
	}
	return wireformat.PropertyResponseWire{Value: &req.Value}
}

func (b bridge) callFunction(_ context.Context, req wireformat.CallRequestWire) wireformat.CallResponseWire {
	res, err := b.s.Call(req.InstanceID, req.Method, req.Args, req.ReturnType)
	if err != nil {
		return wireformat.CallResponseWire{Error: errorDetail(err)}
	}
	return wireformat.CallResponseWire{Result: &res}
}

func (b bridge) componentTypes(_ context.Context, _ wireformat.ComponentTypesRequestWire) wireformat.ComponentTypesResponseWire {
	return wireformat.ComponentTypesResponseWire{Types: b.s.ComponentTypes()}
}

func (b bridge) componentInfo(_ context.Context, req wireformat.ComponentInfoRequestWire) wireformat.ComponentInfoResponseWire {
	resp := wireformat.ComponentInfoResponseWire{ClassName: req.ClassName}
	if !slices.Contains(b.s.ComponentTypes(), req.ClassName) {
		resp.Error = errorDetail(errors.NewNotFound(errors.KindClass, req.ClassName))
		return resp
	}

	for _, name := range b.s.ComponentPropertyNames(req.ClassName) {
		resp.Properties = append(resp.Properties, wireformat.PropertyInfoWire{
			Name:            name,
			Type:            b.s.ComponentPropertyType(req.ClassName, name),
			ClassName:       b.s.ComponentPropertyClassName(req.ClassName, name),
			MetaData:        b.s.ComponentPropertyMetadata(req.ClassName, name),
			AdvancedDisplay: b.s.ComponentPropertyIsAdvancedDisplay(req.ClassName, name),
			SaveGame:        b.s.ComponentPropertyIsSaveGame(req.ClassName, name),
		})
	}

	for _, name := range b.s.ComponentFunctionNames(req.ClassName) {
		params := b.s.ComponentFunctionParameterNames(req.ClassName, name)
		if params == nil {
			params = []string{}
		}
		fn := wireformat.FunctionInfoWire{
			Name:                name,
			ReturnType:          b.s.ComponentFunctionReturnType(req.ClassName, name),
			ReturnClassName:     b.s.ComponentFunctionParameterClassName(req.ClassName, name, -1),
			ParameterNames:      params,
			ParameterTypes:      make([]entities.TypeTag, len(params)),
			ParameterClassNames: make([]string, len(params)),
		}
		for i := range params {
			fn.ParameterTypes[i] = b.s.ComponentFunctionParameterType(req.ClassName, name, i)
			fn.ParameterClassNames[i] = b.s.ComponentFunctionParameterClassName(req.ClassName, name, i)
		}
		resp.Functions = append(resp.Functions, fn)
	}
	return resp
}

func (b bridge) setNativeFunctions(_ context.Context, req wireformat.NativeFunctionsRequestWire) wireformat.NativeFunctionsResponseWire {
	b.s.SetNativeFunctionPointers(req.NativeClass, req.Pointers)
	ptrs, _ := b.s.NativeFunctionPointers(req.NativeClass)
	return wireformat.NativeFunctionsResponseWire{Pointers: ptrs}
}

func (b bridge) getNativeFunctions(_ context.Context, req wireformat.NativeFunctionsRequestWire) wireformat.NativeFunctionsResponseWire {
	ptrs, ok := b.s.NativeFunctionPointers(req.NativeClass)
	if !ok {
		return wireformat.NativeFunctionsResponseWire{Error: errorDetail(errors.NewNotFound(errors.KindNative, req.NativeClass))}
	}
	return wireformat.NativeFunctionsResponseWire{Pointers: ptrs}
}

func (b bridge) assemblyInfo(ctx context.Context, req wireformat.AssemblyInfoRequestWire) wireformat.AssemblyInfoResponseWire {
	ctx, cancel := req.Context.Apply(ctx)
	defer cancel()
	return wireformat.AssemblyInfoResponseWire{Document: b.s.AssemblyInfo(ctx)}
}

func objectEntryPoints(eps entities.ObjectEntryPoints) []string {
	var names []string
	if eps.BeginPlay != nil {
		names = append(names, "BeginPlay")
	}
	if eps.Tick != nil {
		names = append(names, "Tick")
	}
	if eps.Destroy != nil {
		names = append(names, "Destroy")
	}
	return names
}

func componentEntryPoints(p entities.ComponentProxy) []string {
	slots := []struct {
		name  string
		bound bool
	}{
		{"OnComponentCreated", p.OnComponentCreated != nil},
		{"OnComponentDestroyed", p.OnComponentDestroyed != nil},
		{"OnRegister", p.OnRegister != nil},
		{"OnUnregister", p.OnUnregister != nil},
		{"InitializeComponent", p.InitializeComponent != nil},
		{"TickComponent", p.TickComponent != nil},
	}
	var names []string
	for _, slot := range slots {
		if slot.bound {
			names = append(names, slot.name)
		}
	}
	return names
}
