package script

import (
	stdErrors "errors"
	"fmt"
	"reflect"
	"runtime"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/klawr-dev/klawr-sdk/go/domain/errors"
)

// ErrNestedComponent is returned for a component class that embeds another
// script component instead of Component itself.
var ErrNestedComponent = stdErrors.New("component class embeds another script component")

// Kind distinguishes the three sorts of class an assembly can declare.
type Kind int

const (
	KindObject Kind = iota + 1
	KindComponent
	KindWrapper
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindComponent:
		return "component"
	case KindWrapper:
		return "wrapper"
	default:
		return "unknown"
	}
}

// Class is the immutable descriptor of a script class, built once by one of
// the New*Class constructors.
type Class struct {
	typ         reflect.Type // pointer to the struct type
	newFn       func(entities.InstanceID, entities.BorrowedHandle) Instance
	wrapFn      func(entities.BorrowedHandle) NativeObject
	propIndex   map[string]*Property
	methodIndex map[string]*Method
	name        string
	assembly    string
	properties  []*Property
	methods     []*Method
	embedded    []reflect.Type
	kind        Kind
}

// NewObjectClass declares a script object class. *T must implement
// ScriptObject. A nil ctor declares an abstract class that cannot be created.
func NewObjectClass[T any](name string, ctor func(entities.InstanceID, entities.BorrowedHandle) *T) (*Class, error) {
	c, err := newClass(name, KindObject, reflect.TypeFor[*T]())
	if err != nil {
		return nil, err
	}
	if !c.typ.Implements(scriptObjectType) {
		return nil, &errors.BindingError{Class: name, Reason: fmt.Sprintf("%s does not implement script.ScriptObject", c.typ)}
	}
	if ctor != nil {
		c.newFn = func(id entities.InstanceID, owner entities.BorrowedHandle) Instance {
			if v := ctor(id, owner); v != nil {
				return any(v).(Instance)
			}
			return nil
		}
	}
	return c, nil
}

// NewComponentClass declares a script component class. T must embed
// Component directly. A nil ctor declares an abstract class.
func NewComponentClass[T any](name string, ctor func(entities.InstanceID, entities.BorrowedHandle) *T) (*Class, error) {
	c, err := newClass(name, KindComponent, reflect.TypeFor[*T]())
	if err != nil {
		return nil, err
	}

	for _, et := range c.embedded {
		base := et
		if base.Kind() == reflect.Pointer {
			base = base.Elem()
		}
		if base != componentType && base.Kind() == reflect.Struct && embedsComponent(base) {
			return nil, &errors.BindingError{Class: name, Reason: fmt.Sprintf("embeds %s", base), Err: ErrNestedComponent}
		}
	}
	if !embeds(c.typ.Elem(), componentType) {
		return nil, &errors.BindingError{Class: name, Reason: "component classes must embed script.Component"}
	}

	if ctor != nil {
		c.newFn = func(id entities.InstanceID, owner entities.BorrowedHandle) Instance {
			if v := ctor(id, owner); v != nil {
				return any(v).(Instance)
			}
			return nil
		}
	}
	return c, nil
}

// NewWrapperClass declares a wrapper around a native object type. *T must
// implement NativeObject; wrap builds a wrapper from a borrowed handle.
func NewWrapperClass[T any](name string, wrap func(entities.BorrowedHandle) *T) (*Class, error) {
	c, err := newClass(name, KindWrapper, reflect.TypeFor[*T]())
	if err != nil {
		return nil, err
	}
	if !c.typ.Implements(nativeObjectType) {
		return nil, &errors.BindingError{Class: name, Reason: fmt.Sprintf("%s does not implement script.NativeObject", c.typ)}
	}
	if wrap != nil {
		c.wrapFn = func(h entities.BorrowedHandle) NativeObject {
			if v := wrap(h); v != nil {
				return any(v).(NativeObject)
			}
			return nil
		}
	}
	return c, nil
}

// MustObjectClass is like NewObjectClass but panics on error.
func MustObjectClass[T any](name string, ctor func(entities.InstanceID, entities.BorrowedHandle) *T) *Class {
	return must(NewObjectClass(name, ctor))
}

// MustComponentClass is like NewComponentClass but panics on error.
func MustComponentClass[T any](name string, ctor func(entities.InstanceID, entities.BorrowedHandle) *T) *Class {
	return must(NewComponentClass(name, ctor))
}

// MustWrapperClass is like NewWrapperClass but panics on error.
func MustWrapperClass[T any](name string, wrap func(entities.BorrowedHandle) *T) *Class {
	return must(NewWrapperClass(name, wrap))
}

func must(c *Class, err error) *Class {
	if err != nil {
		panic(err)
	}
	return c
}

func newClass(name string, kind Kind, ptr reflect.Type) (*Class, error) {
	if err := ValidateName(name); err != nil {
		return nil, &errors.BindingError{Class: name, Err: err}
	}
	st := ptr.Elem()
	if st.Kind() != reflect.Struct {
		return nil, &errors.BindingError{Class: name, Reason: fmt.Sprintf("%s is not a struct type", st)}
	}

	c := &Class{
		typ:         ptr,
		name:        name,
		kind:        kind,
		propIndex:   make(map[string]*Property),
		methodIndex: make(map[string]*Method),
	}

	for i := range st.NumField() {
		f := st.Field(i)
		switch {
		case f.Anonymous:
			c.embedded = append(c.embedded, f.Type)
		case f.Type == functionType:
			m, err := c.methodFromMarker(f)
			if err != nil {
				return nil, err
			}
			if _, dup := c.methodIndex[m.Name]; dup {
				return nil, &errors.BindingError{Class: name, Member: m.Name, Reason: "declared twice"}
			}
			c.methods = append(c.methods, m)
			c.methodIndex[m.Name] = m
		case f.IsExported():
			p, err := c.propertyFromField(f)
			if err != nil {
				return nil, err
			}
			c.properties = append(c.properties, p)
			c.propIndex[p.Name] = p
		}
	}
	return c, nil
}

func (c *Class) propertyFromField(f reflect.StructField) (*Property, error) {
	_, visible := f.Tag.Lookup(tagScript)
	metas, err := parseMeta(f.Tag.Get(tagMeta))
	if err != nil {
		return nil, &errors.BindingError{Class: c.name, Member: f.Name, Err: err}
	}
	flags, err := parseFlags(f.Tag.Get(tagFlags))
	if err != nil {
		return nil, &errors.BindingError{Class: c.name, Member: f.Name, Err: err}
	}
	return &Property{
		Name:            f.Name,
		Type:            f.Type,
		Tag:             TypeTagOf(f.Type, false),
		Category:        f.Tag.Get(tagCategory),
		meta:            metas,
		index:           f.Index,
		Visible:         visible,
		SaveGame:        flags.saveGame,
		AdvancedDisplay: flags.advanced,
	}, nil
}

func (c *Class) methodFromMarker(f reflect.StructField) (*Method, error) {
	name := f.Tag.Get(tagMethod)
	if name == "" {
		return nil, &errors.BindingError{Class: c.name, Member: f.Name, Reason: "function marker needs a method tag"}
	}
	m, err := newMethod(c.typ, name, true)
	if err != nil {
		return nil, &errors.BindingError{Class: c.name, Member: name, Err: err}
	}
	if params := splitList(f.Tag.Get(tagParams)); params != nil {
		if len(params) != len(m.ParamNames) {
			return nil, &errors.BindingError{
				Class:  c.name,
				Member: name,
				Reason: fmt.Sprintf("params tag names %d parameters, method takes %d", len(params), len(m.ParamNames)),
			}
		}
		m.ParamNames = params
	}
	metas, err := parseMeta(f.Tag.Get(tagMeta))
	if err != nil {
		return nil, &errors.BindingError{Class: c.name, Member: name, Err: err}
	}
	m.Category = f.Tag.Get(tagCategory)
	m.meta = metas
	m.Visible = true
	return m, nil
}

func embedsComponent(st reflect.Type) bool {
	if embeds(st, componentType) {
		return true
	}
	for i := range st.NumField() {
		f := st.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct && embedsComponent(ft) {
			return true
		}
	}
	return false
}

// Name returns the fully qualified class name.
func (c *Class) Name() string { return c.name }

// Kind returns the sort of class.
func (c *Class) Kind() Kind { return c.kind }

// Type returns the pointer type instances of the class have.
func (c *Class) Type() reflect.Type { return c.typ }

// Assembly returns the name of the assembly the class was added to.
func (c *Class) Assembly() string { return c.assembly }

// Abstract reports whether the class has no constructor.
func (c *Class) Abstract() bool { return c.newFn == nil && c.wrapFn == nil }

// Implements reports whether instances of the class implement iface.
func (c *Class) Implements(iface reflect.Type) bool {
	return iface != nil && iface.Kind() == reflect.Interface && c.typ.Implements(iface)
}

// New constructs an instance with the given id and owner.
func (c *Class) New(id entities.InstanceID, owner entities.BorrowedHandle) (Instance, error) {
	if c.newFn == nil {
		return nil, &errors.BindingError{Class: c.name, Reason: "no (InstanceID, BorrowedHandle) constructor"}
	}
	inst := c.newFn(id, owner)
	if inst == nil {
		return nil, &errors.BindingError{Class: c.name, Reason: "constructor returned nil"}
	}
	return inst, nil
}

// Wrap builds a wrapper around h.
func (c *Class) Wrap(h entities.BorrowedHandle) (NativeObject, error) {
	if c.wrapFn == nil {
		return nil, &errors.BindingError{Class: c.name, Reason: "no handle constructor"}
	}
	obj := c.wrapFn(h)
	if obj == nil {
		return nil, &errors.BindingError{Class: c.name, Reason: "handle constructor returned nil"}
	}
	return obj, nil
}

// Properties returns every exported field, in declaration order.
func (c *Class) Properties() []*Property {
	return append([]*Property(nil), c.properties...)
}

// ScriptProperties returns the script-visible properties, in declaration order.
func (c *Class) ScriptProperties() []*Property {
	var out []*Property
	for _, p := range c.properties {
		if p.Visible {
			out = append(out, p)
		}
	}
	return out
}

// Property looks up an exported field by name.
func (c *Class) Property(name string) (*Property, bool) {
	p, ok := c.propIndex[name]
	return p, ok
}

// Methods returns the methods declared with Function markers, in declaration
// order.
func (c *Class) Methods() []*Method {
	return append([]*Method(nil), c.methods...)
}

// Method looks up a callable method by name. Methods without a Function
// marker are described on demand and are not script-visible.
func (c *Class) Method(name string) (*Method, bool) {
	if m, ok := c.methodIndex[name]; ok {
		return m, true
	}
	m, err := newMethod(c.typ, name, false)
	if err != nil {
		return nil, false
	}
	return m, true
}

// Promotes reports whether the method called name reaches the class through
// an embedded type rather than being declared on the class itself. A class
// method that shadows an embedded one is not promoted.
func (c *Class) Promotes(name string) bool {
	if c.declares(name) {
		return false
	}
	for _, et := range c.embedded {
		if et.Kind() != reflect.Pointer && et.Kind() != reflect.Interface {
			et = reflect.PointerTo(et)
		}
		if _, ok := et.MethodByName(name); ok {
			return true
		}
	}
	return false
}

// declares reports whether name is declared on the class type with either
// receiver. Promoted methods and the pointer forms of value methods are
// compiler generated wrappers.
func (c *Class) declares(name string) bool {
	for _, t := range []reflect.Type{c.typ, c.typ.Elem()} {
		if m, ok := t.MethodByName(name); ok && !isWrapper(m.Func) {
			return true
		}
	}
	return false
}

func isWrapper(fn reflect.Value) bool {
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return true
	}
	file, _ := f.FileLine(f.Entry())
	return file == "<autogenerated>"
}
