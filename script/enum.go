package script

import (
	"fmt"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/klawr-dev/klawr-sdk/go/domain/errors"
)

// EnumValue is one member of an Enum.
type EnumValue struct {
	Name  string
	Value int
}

// Value is a shorthand for EnumValue{name, v}.
func Value(name string, v int) EnumValue {
	return EnumValue{Name: name, Value: v}
}

// Enum is a script enumeration exported to the code generator.
type Enum struct {
	name   string
	values []EnumValue
}

// NewEnum declares an enumeration. Members keep their declaration order.
func NewEnum(name string, values ...EnumValue) (*Enum, error) {
	if err := ValidateName(name); err != nil {
		return nil, &errors.BindingError{Class: name, Err: err}
	}
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v.Name == "" {
			return nil, &errors.BindingError{Class: name, Reason: "enum member without a name"}
		}
		if _, dup := seen[v.Name]; dup {
			return nil, &errors.BindingError{Class: name, Member: v.Name, Reason: "declared twice"}
		}
		seen[v.Name] = struct{}{}
	}
	return &Enum{name: name, values: append([]EnumValue(nil), values...)}, nil
}

// MustEnum is like NewEnum but panics on error.
func MustEnum(name string, values ...EnumValue) *Enum {
	e, err := NewEnum(name, values...)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Enum) Name() string { return e.name }

// Values returns the members in declaration order.
func (e *Enum) Values() []EnumValue {
	return append([]EnumValue(nil), e.values...)
}

// Info renders the enum as a metadata document entry.
func (e *Enum) Info() entities.EnumInfo {
	info := entities.EnumInfo{Name: e.name, Values: make([]entities.EnumKeyValue, 0, len(e.values))}
	for _, v := range e.values {
		info.Values = append(info.Values, entities.EnumKeyValue{Key: v.Name, Value: v.Value})
	}
	return info
}

func (e *Enum) String() string {
	return fmt.Sprintf("enum %s (%d values)", e.name, len(e.values))
}
