package script

import (
	"fmt"
	"reflect"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
)

// Property describes one exported field of a class.
type Property struct {
	Type            reflect.Type
	Name            string
	Category        string
	meta            []entities.Meta
	index           []int
	Tag             entities.TypeTag
	Visible         bool
	SaveGame        bool
	AdvancedDisplay bool
}

// MetaData returns the property's metadata pairs, category first.
func (p *Property) MetaData() []entities.Meta {
	return buildMetaData(p.Category, p.meta)
}

// ClassName returns the script-facing class name of the property's type.
func (p *Property) ClassName() string {
	return ClassNameOf(p.Type)
}

// Field returns the addressable field on instance, which must be a pointer to
// the class's struct type.
func (p *Property) Field(instance any) (reflect.Value, error) {
	v := reflect.ValueOf(instance)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return reflect.Value{}, fmt.Errorf("property %s: instance must be a non-nil pointer, got %T", p.Name, instance)
	}
	return v.Elem().FieldByIndex(p.index), nil
}

// Method describes a method callable by the host.
type Method struct {
	Return       reflect.Type // nil for void
	fn           reflect.Method
	Name         string
	Category     string
	meta         []entities.Meta
	ParamNames   []string
	ParamTypes   []reflect.Type
	ParamTags    []entities.TypeTag
	ReturnTag    entities.TypeTag
	Visible      bool
	ReturnsError bool
}

// MetaData returns the method's metadata pairs, category first.
func (m *Method) MetaData() []entities.Meta {
	return buildMetaData(m.Category, m.meta)
}

// ReturnClassName returns the class name of the return type, or "" for void.
func (m *Method) ReturnClassName() string {
	return ClassNameOf(m.Return)
}

// Func returns the method value bound to instance.
func (m *Method) Func(instance any) reflect.Value {
	return reflect.ValueOf(instance).Method(m.fn.Index)
}

// newMethod describes the method named name on ptr, a pointer-to-struct type.
// When strict is set, the signature must be fully marshalable.
func newMethod(ptr reflect.Type, name string, strict bool) (*Method, error) {
	fn, ok := ptr.MethodByName(name)
	if !ok {
		return nil, fmt.Errorf("method %s is not declared on %s", name, ptr)
	}

	ft := fn.Type
	m := &Method{Name: name, fn: fn, ReturnTag: entities.TypeVoid}

	// In(0) is the receiver.
	for i := 1; i < ft.NumIn(); i++ {
		pt := ft.In(i)
		tag := TypeTagOf(pt, false)
		if strict && !tag.IsValue() {
			return nil, fmt.Errorf("parameter %d of %s has unsupported type %s", i-1, name, pt)
		}
		m.ParamTypes = append(m.ParamTypes, pt)
		m.ParamTags = append(m.ParamTags, tag)
		m.ParamNames = append(m.ParamNames, fmt.Sprintf("arg%d", i-1))
	}
	if ft.IsVariadic() && strict {
		return nil, fmt.Errorf("%s is variadic", name)
	}

	outs := make([]reflect.Type, 0, ft.NumOut())
	for i := range ft.NumOut() {
		outs = append(outs, ft.Out(i))
	}
	if n := len(outs); n > 0 && outs[n-1] == errorType {
		m.ReturnsError = true
		outs = outs[:n-1]
	}
	switch len(outs) {
	case 0:
	case 1:
		m.Return = outs[0]
		m.ReturnTag = TypeTagOf(outs[0], true)
		if strict && !m.ReturnTag.IsValue() {
			return nil, fmt.Errorf("%s returns unsupported type %s", name, outs[0])
		}
	default:
		if strict {
			return nil, fmt.Errorf("%s returns %d values", name, len(outs))
		}
		m.Return = outs[0]
		m.ReturnTag = entities.TypeUnknown
	}
	return m, nil
}
