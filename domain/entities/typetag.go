package entities

// TypeTag is the small integer code identifying the category of a marshaled
// value. The numbering is part of the contract with the native host and the
// code generator and must not change.
type TypeTag int

const (
	TypeFloat  TypeTag = 0
	TypeInt    TypeTag = 1
	TypeBool   TypeTag = 2
	TypeString TypeTag = 3
	TypeObject TypeTag = 4
	// TypeVoid is only valid for return values.
	TypeVoid TypeTag = 5

	TypeUnknown       TypeTag = -1
	TypeClassNotFound TypeTag = -2
)

func (t TypeTag) String() string {
	switch t {
	case TypeFloat:
		return "float"
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	case TypeObject:
		return "object"
	case TypeVoid:
		return "void"
	case TypeClassNotFound:
		return "class-not-found"
	default:
		return "unknown"
	}
}

// IsValue reports whether values of this tag can be passed as arguments or
// stored in properties.
func (t TypeTag) IsValue() bool {
	return t >= TypeFloat && t <= TypeObject
}
