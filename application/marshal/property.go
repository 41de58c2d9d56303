package marshal

import (
	"fmt"
	"reflect"
	"runtime/debug"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/klawr-dev/klawr-sdk/go/domain/errors"
	"github.com/klawr-dev/klawr-sdk/go/script"
)

// scalar is the set of Go types the host exchanges by value.
type scalar interface {
	~float32 | ~int32 | ~bool | ~string
}

func (m *Marshaler) field(id entities.InstanceID, name string, want entities.TypeTag) (reflect.Value, error) {
	inst, class, err := m.classOf(id)
	if err != nil {
		return reflect.Value{}, err
	}
	prop, ok := class.Property(name)
	if !ok {
		return reflect.Value{}, errors.NewMemberNotFound(errors.KindProperty, class.Name(), name)
	}
	if prop.Tag != want {
		return reflect.Value{}, &errors.MarshalError{Member: name, From: prop.Type.String(), To: want.String()}
	}
	return prop.Field(inst)
}

func getScalar[T scalar](m *Marshaler, id entities.InstanceID, name string, tag entities.TypeTag) (T, error) {
	var zero T
	f, err := m.field(id, name, tag)
	if err != nil {
		return zero, err
	}
	return convertScalar[T](f, name)
}

// convertScalar converts v to T, failing when the value does not fit. Go int
// and float64 members travel as int32 and float32.
func convertScalar[T scalar](v reflect.Value, member string) (T, error) {
	var zero T
	t := reflect.TypeFor[T]()
	target := reflect.New(t).Elem()
	switch {
	case v.CanInt() && target.CanInt() && target.OverflowInt(v.Int()):
		return zero, &errors.MarshalError{Member: member, From: v.Type().String(), To: t.String(), Err: fmt.Errorf("value %d out of range", v.Int())}
	case v.CanFloat() && target.CanFloat() && target.OverflowFloat(v.Float()):
		return zero, &errors.MarshalError{Member: member, From: v.Type().String(), To: t.String(), Err: fmt.Errorf("value %g out of range", v.Float())}
	}
	return v.Convert(t).Interface().(T), nil
}

func setScalar[T scalar](m *Marshaler, id entities.InstanceID, name string, tag entities.TypeTag, v T) error {
	f, err := m.field(id, name, tag)
	if err != nil {
		return err
	}
	f.Set(reflect.ValueOf(v).Convert(f.Type()))
	return nil
}

// GetFloat reads a float property.
func (m *Marshaler) GetFloat(id entities.InstanceID, name string) (float32, error) {
	return getScalar[float32](m, id, name, entities.TypeFloat)
}

// GetInt reads an int property.
func (m *Marshaler) GetInt(id entities.InstanceID, name string) (int32, error) {
	return getScalar[int32](m, id, name, entities.TypeInt)
}

// GetBool reads a bool property.
func (m *Marshaler) GetBool(id entities.InstanceID, name string) (bool, error) {
	return getScalar[bool](m, id, name, entities.TypeBool)
}

// GetString reads a string property.
func (m *Marshaler) GetString(id entities.InstanceID, name string) (string, error) {
	return getScalar[string](m, id, name, entities.TypeString)
}

// SetFloat writes a float property.
func (m *Marshaler) SetFloat(id entities.InstanceID, name string, v float32) error {
	return setScalar(m, id, name, entities.TypeFloat, v)
}

// SetInt writes an int property.
func (m *Marshaler) SetInt(id entities.InstanceID, name string, v int32) error {
	return setScalar(m, id, name, entities.TypeInt, v)
}

// SetBool writes a bool property.
func (m *Marshaler) SetBool(id entities.InstanceID, name string, v bool) error {
	return setScalar(m, id, name, entities.TypeBool, v)
}

// SetString writes a string property.
func (m *Marshaler) SetString(id entities.InstanceID, name string, v string) error {
	return setScalar(m, id, name, entities.TypeString, v)
}

// GetObject reads an object property as a native handle. An unset property
// yields the zero handle.
func (m *Marshaler) GetObject(id entities.InstanceID, name string) (entities.NativeHandle, error) {
	f, err := m.field(id, name, entities.TypeObject)
	if err != nil {
		return 0, err
	}
	return handleOf(f, name)
}

// SetObject points an object property at native. The zero handle clears it;
// any other handle is wrapped with the property type's wrapper class.
func (m *Marshaler) SetObject(id entities.InstanceID, name string, native entities.NativeHandle) error {
	f, err := m.field(id, name, entities.TypeObject)
	if err != nil {
		return err
	}
	v, err := m.wrap(f.Type(), native)
	if err != nil {
		return err
	}
	f.Set(v)
	return nil
}

// handleOf extracts the native handle behind an object value. Nil values,
// including an interface holding a nil pointer, yield the zero handle. A
// wrapper that panics while reporting its handle yields an InvocationError.
func handleOf(v reflect.Value, member string) (h entities.NativeHandle, err error) {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return 0, nil
		}
		v = v.Elem()
	}
	if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		return 0, nil
	}
	obj, ok := v.Interface().(script.NativeObject)
	if !ok {
		return 0, nil
	}

	defer func() {
		if r := recover(); r != nil {
			h = 0
			err = &errors.InvocationError{
				Class:  v.Type().String(),
				Method: "NativeObject",
				Err:    fmt.Errorf("panic reading handle of %s: %v", member, r),
				Stack:  string(debug.Stack()),
			}
		}
	}()
	return obj.NativeObject().Ptr(), nil
}

// wrap builds a value of type t around native: nil for the zero handle, a
// wrapper from the registered wrapper class otherwise. Types without a
// wrapper class fall back to a bare *script.UObject when t accepts one.
func (m *Marshaler) wrap(t reflect.Type, native entities.NativeHandle) (reflect.Value, error) {
	if native.IsZero() {
		return reflect.Zero(t), nil
	}

	if class, ok := m.resolver.FindByType(t); ok && class.Kind() == script.KindWrapper {
		obj, err := class.Wrap(entities.Borrow(native))
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(obj), nil
	}

	base := script.NewUObject(entities.Borrow(native))
	if v := reflect.ValueOf(&base); v.Type().AssignableTo(t) {
		return v, nil
	}
	return reflect.Value{}, errors.NewNotFound(errors.KindNative, script.ClassNameOf(t))
}
