package entities

import "fmt"

// Arg is one element of a call argument array sent by the host. Exactly one
// value field is meaningful, selected by Type. Object arguments carry a raw
// native handle where zero means "no object".
type Arg struct {
	String string       `json:"string,omitempty"`
	Type   TypeTag      `json:"type"`
	Object NativeHandle `json:"object,omitempty"`
	Float  float32      `json:"float,omitempty"`
	Int    int32        `json:"int,omitempty"`
	Bool   bool         `json:"bool,omitempty"`
}

// FloatArg builds a float argument.
func FloatArg(v float32) Arg { return Arg{Type: TypeFloat, Float: v} }

// IntArg builds an int argument.
func IntArg(v int32) Arg { return Arg{Type: TypeInt, Int: v} }

// BoolArg builds a bool argument.
func BoolArg(v bool) Arg { return Arg{Type: TypeBool, Bool: v} }

// StringArg builds a string argument.
func StringArg(v string) Arg { return Arg{Type: TypeString, String: v} }

// ObjectArg builds an object-handle argument.
func ObjectArg(h NativeHandle) Arg { return Arg{Type: TypeObject, Object: h} }

// Value returns the meaningful field as an untyped value.
func (a Arg) Value() (any, error) {
	switch a.Type {
	case TypeFloat:
		return a.Float, nil
	case TypeInt:
		return a.Int, nil
	case TypeBool:
		return a.Bool, nil
	case TypeString:
		return a.String, nil
	case TypeObject:
		return a.Object, nil
	default:
		return nil, fmt.Errorf("argument has no value type (tag %d)", a.Type)
	}
}
