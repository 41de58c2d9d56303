package marshal

import (
	"reflect"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/klawr-dev/klawr-sdk/go/domain/errors"
)

// CallArg is Call with the result packed into an Arg. A void call returns an
// Arg of type TypeVoid.
func (m *Marshaler) CallArg(id entities.InstanceID, method string, args []entities.Arg, want entities.TypeTag) (entities.Arg, error) {
	v, err := m.Call(id, method, args, want)
	if err != nil {
		return entities.Arg{}, err
	}
	if want == entities.TypeVoid {
		return entities.Arg{Type: entities.TypeVoid}, nil
	}
	return argOf(v, want, method)
}

// Get reads a property of any marshalable category.
func (m *Marshaler) Get(id entities.InstanceID, name string, tag entities.TypeTag) (entities.Arg, error) {
	if tag == entities.TypeObject {
		h, err := m.GetObject(id, name)
		if err != nil {
			return entities.Arg{}, err
		}
		return entities.ObjectArg(h), nil
	}
	if !isScalar(tag) {
		return entities.Arg{}, &errors.MarshalError{Member: name, From: tag.String(), To: "a property"}
	}
	f, err := m.field(id, name, tag)
	if err != nil {
		return entities.Arg{}, err
	}
	return argOf(f, tag, name)
}

// Set writes a property from a.
func (m *Marshaler) Set(id entities.InstanceID, name string, a entities.Arg) error {
	switch a.Type {
	case entities.TypeFloat:
		return m.SetFloat(id, name, a.Float)
	case entities.TypeInt:
		return m.SetInt(id, name, a.Int)
	case entities.TypeBool:
		return m.SetBool(id, name, a.Bool)
	case entities.TypeString:
		return m.SetString(id, name, a.String)
	case entities.TypeObject:
		return m.SetObject(id, name, a.Object)
	default:
		return &errors.MarshalError{Member: name, From: a.Type.String(), To: "a property"}
	}
}

func isScalar(tag entities.TypeTag) bool {
	switch tag {
	case entities.TypeFloat, entities.TypeInt, entities.TypeBool, entities.TypeString:
		return true
	}
	return false
}

// argOf packs v, whose category is tag, into an Arg. member names the
// property or method in errors.
func argOf(v reflect.Value, tag entities.TypeTag, member string) (entities.Arg, error) {
	switch tag {
	case entities.TypeFloat:
		f, err := convertScalar[float32](v, member)
		return entities.FloatArg(f), err
	case entities.TypeInt:
		i, err := convertScalar[int32](v, member)
		return entities.IntArg(i), err
	case entities.TypeBool:
		return entities.BoolArg(v.Bool()), nil
	case entities.TypeString:
		return entities.StringArg(v.String()), nil
	case entities.TypeObject:
		h, err := handleOf(v, member)
		return entities.ObjectArg(h), err
	}
	return entities.Arg{Type: tag}, nil
}
