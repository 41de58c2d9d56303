package script

import (
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
)

var (
	nativeObjectType     = reflect.TypeFor[NativeObject]()
	scriptObjectType     = reflect.TypeFor[ScriptObject]()
	instanceType         = reflect.TypeFor[Instance]()
	componentType        = reflect.TypeFor[Component]()
	convertClassNameType = reflect.TypeFor[ConvertClassName]()
	functionType         = reflect.TypeFor[Function]()
	errorType            = reflect.TypeFor[error]()
)

// TypeTagOf classifies t for marshaling. A nil t means "no value": it is
// TypeVoid for return values and TypeUnknown otherwise.
//
// Named types are classified by their underlying kind, so an enum declared as
// `type Team int32` travels as an int.
func TypeTagOf(t reflect.Type, isReturn bool) entities.TypeTag {
	if t == nil {
		if isReturn {
			return entities.TypeVoid
		}
		return entities.TypeUnknown
	}

	if IsObjectType(t) {
		return entities.TypeObject
	}

	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return entities.TypeFloat
	case reflect.Int, reflect.Int32:
		return entities.TypeInt
	case reflect.Bool:
		return entities.TypeBool
	case reflect.String:
		return entities.TypeString
	default:
		return entities.TypeUnknown
	}
}

// IsObjectType reports whether values of t marshal as native object handles.
func IsObjectType(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Interface {
		return t.Implements(nativeObjectType)
	}
	return t.Kind() == reflect.Pointer && t.Implements(nativeObjectType)
}

// ClassNameOf returns the script-facing class name of t: the bare type name,
// with the first character dropped when the type embeds ConvertClassName.
// Pointers are dereferenced. Unnamed types yield "".
func ClassNameOf(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if t.Kind() == reflect.Struct && embeds(t, convertClassNameType) {
		return convertClassName(name)
	}
	return name
}

func convertClassName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 || !unicode.IsUpper(r) || len(name) == size {
		return name
	}
	return name[size:]
}

// embeds reports whether struct type st has an anonymous field of type want
// (by value or by pointer).
func embeds(st reflect.Type, want reflect.Type) bool {
	for i := range st.NumField() {
		f := st.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft == want {
			return true
		}
	}
	return false
}
