package script

import (
	"fmt"
	"slices"
	"sync"

	"github.com/klawr-dev/klawr-sdk/go/domain/errors"
)

// Assembly is a named, ordered set of classes and enums, the unit a session
// loads.
type Assembly struct {
	classByName map[string]*Class
	enumByName  map[string]*Enum
	name        string
	classes     []*Class
	enums       []*Enum
	mu          sync.RWMutex
	dynamic     bool
}

// AssemblyOption configures an Assembly.
type AssemblyOption func(*Assembly)

// WithDynamic marks the assembly as generated at run time. Type resolution
// skips dynamic assemblies.
func WithDynamic() AssemblyOption {
	return func(a *Assembly) {
		a.dynamic = true
	}
}

// NewAssembly creates an empty assembly.
func NewAssembly(name string, opts ...AssemblyOption) *Assembly {
	a := &Assembly{
		name:        name,
		classByName: make(map[string]*Class),
		enumByName:  make(map[string]*Enum),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Assembly) Name() string  { return a.name }
func (a *Assembly) Dynamic() bool { return a.dynamic }

// Add appends classes in order. A class name may appear only once per
// assembly, and a class belongs to at most one assembly.
func (a *Assembly) Add(classes ...*Class) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, c := range classes {
		if c == nil {
			return fmt.Errorf("assembly %s: nil class", a.name)
		}
		if _, dup := a.classByName[c.name]; dup {
			return fmt.Errorf("assembly %s: class %s: %w", a.name, c.name, errors.ErrDuplicate)
		}
		if c.assembly != "" && c.assembly != a.name {
			return fmt.Errorf("class %s already belongs to assembly %s", c.name, c.assembly)
		}
		c.assembly = a.name
		a.classes = append(a.classes, c)
		a.classByName[c.name] = c
	}
	return nil
}

// MustAdd is like Add but panics on error.
func (a *Assembly) MustAdd(classes ...*Class) *Assembly {
	if err := a.Add(classes...); err != nil {
		panic(err)
	}
	return a
}

// AddEnum appends enums in order.
func (a *Assembly) AddEnum(enums ...*Enum) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, e := range enums {
		if e == nil {
			return fmt.Errorf("assembly %s: nil enum", a.name)
		}
		if _, dup := a.enumByName[e.name]; dup {
			return fmt.Errorf("assembly %s: enum %s: %w", a.name, e.name, errors.ErrDuplicate)
		}
		a.enums = append(a.enums, e)
		a.enumByName[e.name] = e
	}
	return nil
}

// MustAddEnum is like AddEnum but panics on error.
func (a *Assembly) MustAddEnum(enums ...*Enum) *Assembly {
	if err := a.AddEnum(enums...); err != nil {
		panic(err)
	}
	return a
}

// Classes returns the classes in the order they were added.
func (a *Assembly) Classes() []*Class {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.classes)
}

// Class looks up a class by its fully qualified name.
func (a *Assembly) Class(name string) (*Class, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	c, ok := a.classByName[name]
	return c, ok
}

// Enums returns the enums in the order they were added.
func (a *Assembly) Enums() []*Enum {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.enums)
}

// catalog holds every assembly registered in the process, normally from
// package init functions.
var catalog = struct {
	assemblies map[string]*Assembly
	mu         sync.RWMutex
}{assemblies: make(map[string]*Assembly)}

// Register makes a available to LoadAssembly by name.
func Register(a *Assembly) error {
	if err := ValidateName(a.name); err != nil {
		return &errors.AssemblyLoadError{Assembly: a.name, Err: err}
	}

	catalog.mu.Lock()
	defer catalog.mu.Unlock()

	if _, dup := catalog.assemblies[a.name]; dup {
		return &errors.AssemblyLoadError{Assembly: a.name, Err: errors.ErrDuplicate}
	}
	catalog.assemblies[a.name] = a
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister(a *Assembly) {
	if err := Register(a); err != nil {
		panic(err)
	}
}

// Unregister removes an assembly from the catalog. Sessions that already
// loaded it keep their reference.
func Unregister(name string) {
	catalog.mu.Lock()
	defer catalog.mu.Unlock()
	delete(catalog.assemblies, name)
}

// LookupAssembly returns the registered assembly called name.
func LookupAssembly(name string) (*Assembly, error) {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	a, ok := catalog.assemblies[name]
	if !ok {
		return nil, errors.NewNotFound(errors.KindAssembly, name)
	}
	return a, nil
}

// AssemblyNames lists the registered assemblies, sorted.
func AssemblyNames() []string {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	names := make([]string, 0, len(catalog.assemblies))
	for name := range catalog.assemblies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
