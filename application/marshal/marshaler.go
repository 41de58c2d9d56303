// Package marshal is the data path between the native host and script
// instances: creation and destruction, property access and method calls,
// all addressed by instance id.
package marshal

import (
	"fmt"
	"log/slog"
	"reflect"
	"runtime/debug"

	"github.com/klawr-dev/klawr-sdk/go/application/binder"
	"github.com/klawr-dev/klawr-sdk/go/application/registry"
	"github.com/klawr-dev/klawr-sdk/go/application/resolver"
	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/klawr-dev/klawr-sdk/go/domain/errors"
	"github.com/klawr-dev/klawr-sdk/go/script"
)

// Marshaler creates script instances and moves values in and out of them.
type Marshaler struct {
	logger   *slog.Logger
	registry *registry.Registry
	resolver *resolver.Resolver
	binder   *binder.Binder
}

// Option configures a Marshaler.
type Option func(*Marshaler)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Marshaler) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New wires a marshaler to its registry, resolver and binder.
func New(reg *registry.Registry, res *resolver.Resolver, b *binder.Binder, opts ...Option) *Marshaler {
	m := &Marshaler{
		logger:   slog.Default(),
		registry: reg,
		resolver: res,
		binder:   b,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateObject instantiates the script object class called className for
// the native object native and registers it.
func (m *Marshaler) CreateObject(className string, native entities.NativeHandle) (entities.ObjectEntryPoints, error) {
	class, ok := m.resolver.FindByName(className, resolver.OfKind(script.KindObject))
	if !ok {
		return entities.ObjectEntryPoints{}, errors.NewNotFound(errors.KindClass, className)
	}

	id := m.registry.GenerateID()
	inst, err := construct(class, id, native, class.New)
	if err != nil {
		return entities.ObjectEntryPoints{}, err
	}

	entry, err := m.registry.RegisterObject(inst.(script.ScriptObject))
	if err != nil {
		m.logger.Error("script object registration failed", "class", className, "id", id, "error", err)
		m.close(id, inst)
		return entities.ObjectEntryPoints{}, err
	}

	m.logger.Debug("script object created", "class", className, "id", id)
	return entry.EntryPoints, nil
}

// CreateComponent instantiates the script component class called className
// for the native component native, binds its proxy and registers it.
func (m *Marshaler) CreateComponent(className string, native entities.NativeHandle) (entities.ComponentProxy, error) {
	class, ok := m.resolver.FindByName(className, resolver.OfKind(script.KindComponent))
	if !ok {
		return entities.ComponentProxy{}, errors.NewNotFound(errors.KindClass, className)
	}

	cb, err := m.binder.Bind(class)
	if err != nil {
		return entities.ComponentProxy{}, err
	}

	id := m.registry.GenerateID()
	inst, err := construct(class, id, native, cb.New)
	if err != nil {
		return entities.ComponentProxy{}, err
	}

	proxy, err := cb.Proxy(id, inst)
	if err != nil {
		m.close(id, inst)
		return entities.ComponentProxy{}, err
	}

	if err := m.registry.RegisterComponent(id, inst, proxy); err != nil {
		m.logger.Error("script component registration failed", "class", className, "id", id, "error", err)
		m.close(id, inst)
		return entities.ComponentProxy{}, err
	}

	m.logger.Debug("script component created", "class", className, "id", id, "entry_points", cb.Bound())
	return proxy, nil
}

// construct runs a constructor, turning a panic into an InvocationError and
// rejecting instances that do not report the id they were given.
func construct(
	class *script.Class,
	id entities.InstanceID,
	native entities.NativeHandle,
	ctor func(entities.InstanceID, entities.BorrowedHandle) (script.Instance, error),
) (inst script.Instance, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &errors.InvocationError{
				Class:  class.Name(),
				Method: "constructor",
				Err:    fmt.Errorf("panic: %v", r),
				Stack:  string(debug.Stack()),
			}
		}
	}()

	inst, err = ctor(id, entities.Borrow(native))
	if err != nil {
		return nil, err
	}
	if got := inst.InstanceID(); got != id {
		return nil, &errors.BindingError{
			Class:  class.Name(),
			Reason: fmt.Sprintf("constructor returned an instance with id %d, want %d", got, id),
		}
	}
	return inst, nil
}

// DestroyObject unregisters the script object id and closes it.
func (m *Marshaler) DestroyObject(id entities.InstanceID) error {
	inst, err := m.registry.UnregisterObject(id)
	if err != nil {
		return err
	}
	m.close(id, inst)
	return nil
}

// DestroyComponent unregisters the script component id and closes it.
func (m *Marshaler) DestroyComponent(id entities.InstanceID) error {
	inst, err := m.registry.UnregisterComponent(id)
	if err != nil {
		return err
	}
	m.close(id, inst)
	return nil
}

func (m *Marshaler) close(id entities.InstanceID, inst script.Instance) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("script instance panicked on close", "id", id, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	if err := inst.Close(); err != nil {
		m.logger.Warn("script instance close failed", "id", id, "error", err)
	}
}

// classOf returns the instance registered under id and its class.
func (m *Marshaler) classOf(id entities.InstanceID) (script.Instance, *script.Class, error) {
	inst, ok := m.registry.Instance(id)
	if !ok {
		return nil, nil, errors.NewNotFound(errors.KindInstance, id.String())
	}
	class, ok := m.resolver.FindByType(reflect.TypeOf(inst))
	if !ok {
		return nil, nil, errors.NewNotFound(errors.KindClass, reflect.TypeOf(inst).String())
	}
	return inst, class, nil
}
