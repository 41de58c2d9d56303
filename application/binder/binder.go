// Package binder connects script component classes to the proxy call surface
// the native host invokes.
package binder

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/klawr-dev/klawr-sdk/go/domain/errors"
	"github.com/klawr-dev/klawr-sdk/go/script"
	"golang.org/x/sync/singleflight"
)

// BoundMethod pairs a proxy entry point with the class method serving it.
type BoundMethod struct {
	Method     reflect.Method
	EntryPoint EntryPoint
}

// ClassBinding is the constructor and entry-point bindings of one component
// class.
type ClassBinding struct {
	Class   *script.Class
	Methods []BoundMethod
}

// BindClass binds every entry point that class declares itself. A method
// reached only through an embedded type is inherited and left unbound, as is
// a method whose signature differs from the slot.
func BindClass(class *script.Class) (*ClassBinding, error) {
	if class.Kind() != script.KindComponent {
		return nil, &errors.BindingError{Class: class.Name(), Reason: fmt.Sprintf("%s classes have no component proxy", class.Kind())}
	}

	b := &ClassBinding{Class: class}
	for _, ep := range EntryPoints() {
		m, ok := class.Type().MethodByName(ep.Name)
		if !ok || class.Promotes(ep.Name) {
			continue
		}
		if methodFuncType(m.Type) != ep.Type {
			continue
		}
		b.Methods = append(b.Methods, BoundMethod{EntryPoint: ep, Method: m})
	}
	return b, nil
}

// methodFuncType drops the receiver from a method expression type.
func methodFuncType(mt reflect.Type) reflect.Type {
	in := make([]reflect.Type, 0, mt.NumIn()-1)
	for i := 1; i < mt.NumIn(); i++ {
		in = append(in, mt.In(i))
	}
	out := make([]reflect.Type, 0, mt.NumOut())
	for i := range mt.NumOut() {
		out = append(out, mt.Out(i))
	}
	return reflect.FuncOf(in, out, mt.IsVariadic())
}

// New constructs an instance of the bound class.
func (b *ClassBinding) New(id entities.InstanceID, owner entities.BorrowedHandle) (script.Instance, error) {
	return b.Class.New(id, owner)
}

// Bound returns the names of the bound entry points.
func (b *ClassBinding) Bound() []string {
	names := make([]string, 0, len(b.Methods))
	for _, m := range b.Methods {
		names = append(names, m.EntryPoint.Name)
	}
	return names
}

// Proxy fills a call surface for inst. Slots without a bound method stay nil.
func (b *ClassBinding) Proxy(id entities.InstanceID, inst script.Instance) (entities.ComponentProxy, error) {
	proxy := entities.ComponentProxy{InstanceID: id}

	v := reflect.ValueOf(inst)
	if v.Type() != b.Class.Type() {
		return proxy, &errors.BindingError{
			Class:  b.Class.Name(),
			Reason: fmt.Sprintf("instance has type %s, want %s", v.Type(), b.Class.Type()),
		}
	}
	for _, m := range b.Methods {
		m.EntryPoint.set(&proxy, v.Method(m.Method.Index))
	}
	return proxy, nil
}

// Binder caches class bindings by class name for the life of the process.
type Binder struct {
	logger   *slog.Logger
	bindings map[string]*ClassBinding
	group    singleflight.Group
	mu       sync.RWMutex
}

// Option configures a Binder.
type Option func(*Binder)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates an empty binder.
func New(opts ...Option) *Binder {
	b := &Binder{
		logger:   slog.Default(),
		bindings: make(map[string]*ClassBinding),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bind returns the cached binding for class, binding it on first use.
func (b *Binder) Bind(class *script.Class) (*ClassBinding, error) {
	name := class.Name()

	b.mu.RLock()
	cb, ok := b.bindings[name]
	b.mu.RUnlock()
	if ok {
		return cb, nil
	}

	v, err, _ := b.group.Do(name, func() (any, error) {
		b.mu.RLock()
		cb, ok := b.bindings[name]
		b.mu.RUnlock()
		if ok {
			return cb, nil
		}

		cb, err := BindClass(class)
		if err != nil {
			return nil, err
		}
		b.logger.Debug("component class bound", "class", name, "entry_points", cb.Bound())

		b.mu.Lock()
		b.bindings[name] = cb
		b.mu.Unlock()
		return cb, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ClassBinding), nil
}

// Len returns the number of cached bindings.
func (b *Binder) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.bindings)
}
