package resolver

import (
	"reflect"

	"github.com/klawr-dev/klawr-sdk/go/script"
)

// Constraint restricts which classes a lookup may return. Each constraint has
// its own cache, so a class found without a constraint is not reused for a
// constrained lookup of the same name.
type Constraint struct {
	match func(*script.Class) bool
	key   string
}

// Any accepts every class.
var Any = Constraint{key: "any", match: func(*script.Class) bool { return true }}

// Implements accepts classes whose instances implement iface, which must be
// an interface type.
func Implements(iface reflect.Type) Constraint {
	return Constraint{
		key:   "implements:" + iface.String(),
		match: func(c *script.Class) bool { return c.Implements(iface) },
	}
}

// OfKind accepts classes of the given kind.
func OfKind(kind script.Kind) Constraint {
	return Constraint{
		key:   "kind:" + kind.String(),
		match: func(c *script.Class) bool { return c.Kind() == kind },
	}
}

func (c Constraint) String() string { return c.key }
