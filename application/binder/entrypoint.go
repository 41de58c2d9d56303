package binder

import (
	"reflect"
	"sync"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
)

// EntryPoint is one callable slot of entities.ComponentProxy.
type EntryPoint struct {
	Type   reflect.Type // func type of the slot
	Name   string
	Params []reflect.Type
	field  int
}

// set stores fn in the slot on proxy. fn must be assignable to the slot type.
func (e EntryPoint) set(proxy *entities.ComponentProxy, fn reflect.Value) {
	reflect.ValueOf(proxy).Elem().Field(e.field).Set(fn.Convert(e.Type))
}

// EntryPoints lists the proxy slots in field order. The list is computed on
// first use and shared afterwards.
var EntryPoints = sync.OnceValue(func() []EntryPoint {
	pt := reflect.TypeFor[entities.ComponentProxy]()

	var eps []EntryPoint
	for i := range pt.NumField() {
		f := pt.Field(i)
		if !f.IsExported() || f.Type.Kind() != reflect.Func {
			continue
		}
		params := make([]reflect.Type, 0, f.Type.NumIn())
		for j := range f.Type.NumIn() {
			params = append(params, f.Type.In(j))
		}
		eps = append(eps, EntryPoint{Name: f.Name, Type: f.Type, Params: params, field: i})
	}
	return eps
})
