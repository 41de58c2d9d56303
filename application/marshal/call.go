package marshal

import (
	"fmt"
	"reflect"
	"runtime/debug"
	"strconv"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/klawr-dev/klawr-sdk/go/domain/errors"
)

// CallFloat calls a float-returning method. Failures are logged and yield 0.
func (m *Marshaler) CallFloat(id entities.InstanceID, method string, args []entities.Arg) float32 {
	return callScalar[float32](m, id, method, args, entities.TypeFloat)
}

// CallInt calls an int-returning method. Failures are logged and yield 0.
func (m *Marshaler) CallInt(id entities.InstanceID, method string, args []entities.Arg) int32 {
	return callScalar[int32](m, id, method, args, entities.TypeInt)
}

// CallBool calls a bool-returning method. Failures are logged and yield false.
func (m *Marshaler) CallBool(id entities.InstanceID, method string, args []entities.Arg) bool {
	return callScalar[bool](m, id, method, args, entities.TypeBool)
}

// CallString calls a string-returning method. Failures are logged and yield "".
func (m *Marshaler) CallString(id entities.InstanceID, method string, args []entities.Arg) string {
	return callScalar[string](m, id, method, args, entities.TypeString)
}

// CallObject calls an object-returning method and returns the native handle
// of the result. Failures and nil results yield the zero handle.
func (m *Marshaler) CallObject(id entities.InstanceID, method string, args []entities.Arg) entities.NativeHandle {
	v, err := m.Call(id, method, args, entities.TypeObject)
	if err == nil {
		var h entities.NativeHandle
		if h, err = handleOf(v, method); err == nil {
			return h
		}
	}
	m.logCallFailure(id, method, err)
	return 0
}

// CallVoid calls a method and discards its result. Failures are logged.
func (m *Marshaler) CallVoid(id entities.InstanceID, method string, args []entities.Arg) {
	if _, err := m.Call(id, method, args, entities.TypeVoid); err != nil {
		m.logCallFailure(id, method, err)
	}
}

func callScalar[T scalar](m *Marshaler, id entities.InstanceID, method string, args []entities.Arg, tag entities.TypeTag) T {
	var zero T
	v, err := m.Call(id, method, args, tag)
	if err == nil {
		var r T
		if r, err = convertScalar[T](v, method); err == nil {
			return r
		}
	}
	m.logCallFailure(id, method, err)
	return zero
}

func (m *Marshaler) logCallFailure(id entities.InstanceID, method string, err error) {
	attrs := []any{"id", id, "method", method, "error", err}
	if detail := errors.ToErrorDetail(err); detail.Stack != "" {
		attrs = append(attrs, "stack", detail.Stack)
	}
	m.logger.Error("script call failed", attrs...)
}

// Call invokes method on instance id with args and returns its result value.
// want is the result category the caller expects; TypeVoid accepts any
// result and returns an invalid Value. Panics raised by the method or by
// argument conversion come back as an *errors.InvocationError with the stack
// attached.
func (m *Marshaler) Call(id entities.InstanceID, method string, args []entities.Arg, want entities.TypeTag) (result reflect.Value, err error) {
	inst, class, err := m.classOf(id)
	if err != nil {
		return reflect.Value{}, err
	}

	defer func() {
		if r := recover(); r != nil {
			result = reflect.Value{}
			err = &errors.InvocationError{
				Class:  class.Name(),
				Method: method,
				Err:    fmt.Errorf("panic: %v", r),
				Stack:  string(debug.Stack()),
			}
		}
	}()

	meth, ok := class.Method(method)
	if !ok {
		return reflect.Value{}, errors.NewMemberNotFound(errors.KindMethod, class.Name(), method)
	}
	if want != entities.TypeVoid && meth.ReturnTag != want {
		return reflect.Value{}, &errors.MarshalError{Member: method, From: meth.ReturnTag.String(), To: want.String()}
	}
	if len(args) != len(meth.ParamTypes) {
		return reflect.Value{}, &errors.MarshalError{
			Member: method,
			From:   strconv.Itoa(len(args)) + " arguments",
			To:     strconv.Itoa(len(meth.ParamTypes)) + " parameters",
		}
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		v, err := m.argValue(a, meth.ParamTypes[i], meth.ParamTags[i])
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%s argument %d: %w", method, i, err)
		}
		in[i] = v
	}

	out := meth.Func(inst).Call(in)

	if meth.ReturnsError {
		if e, _ := out[len(out)-1].Interface().(error); e != nil {
			return reflect.Value{}, &errors.InvocationError{Class: class.Name(), Method: method, Err: e}
		}
		out = out[:len(out)-1]
	}
	if want == entities.TypeVoid || len(out) == 0 {
		return reflect.Value{}, nil
	}
	return out[0], nil
}

// argValue converts one host argument to the parameter type t.
func (m *Marshaler) argValue(a entities.Arg, t reflect.Type, tag entities.TypeTag) (reflect.Value, error) {
	if a.Type != tag {
		return reflect.Value{}, &errors.MarshalError{Member: t.String(), From: a.Type.String(), To: tag.String()}
	}
	switch tag {
	case entities.TypeFloat:
		return reflect.ValueOf(a.Float).Convert(t), nil
	case entities.TypeInt:
		return reflect.ValueOf(a.Int).Convert(t), nil
	case entities.TypeBool:
		return reflect.ValueOf(a.Bool).Convert(t), nil
	case entities.TypeString:
		return reflect.ValueOf(a.String).Convert(t), nil
	case entities.TypeObject:
		return m.wrap(t, a.Object)
	default:
		return reflect.Value{}, &errors.MarshalError{Member: t.String(), From: a.Type.String(), To: "a parameter"}
	}
}
