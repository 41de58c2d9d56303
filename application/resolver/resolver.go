// Package resolver finds script classes by name across the assemblies loaded
// into a session, and caches what it finds.
package resolver

import (
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/klawr-dev/klawr-sdk/go/script"
	"golang.org/x/sync/singleflight"
)

// Resolver scans loaded assemblies in load order. Hits are cached for the
// lifetime of the resolver; misses are not, so a class that appears in a
// later assembly is still found.
type Resolver struct {
	logger     *slog.Logger
	byName     map[string]*script.Class
	byType     map[reflect.Type]*script.Class
	assemblies []*script.Assembly
	group      singleflight.Group
	mu         sync.RWMutex
	scans      atomic.Int64
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a resolver with no assemblies loaded.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		logger: slog.Default(),
		byName: make(map[string]*script.Class),
		byType: make(map[reflect.Type]*script.Class),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load appends a to the searched assemblies. Loading the same assembly twice
// has no effect.
func (r *Resolver) Load(a *script.Assembly) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(r.assemblies, a) {
		r.logger.Debug("assembly already loaded", "assembly", a.Name())
		return
	}
	r.assemblies = append(r.assemblies, a)
	r.logger.Debug("assembly loaded", "assembly", a.Name(), "classes", len(a.Classes()), "dynamic", a.Dynamic())
}

// Loaded returns the loaded assemblies in load order.
func (r *Resolver) Loaded() []*script.Assembly {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.assemblies)
}

// FindByName returns the first class called name, in load order, that
// satisfies c. Dynamic assemblies are skipped.
func (r *Resolver) FindByName(name string, c Constraint) (*script.Class, bool) {
	key := c.key + "\x00" + name

	r.mu.RLock()
	class, ok := r.byName[key]
	r.mu.RUnlock()
	if ok {
		return class, true
	}

	v, _, _ := r.group.Do(key, func() (any, error) {
		r.mu.RLock()
		class, ok := r.byName[key]
		r.mu.RUnlock()
		if ok {
			return class, nil
		}

		class = r.scan(func(cl *script.Class) bool {
			return cl.Name() == name && c.match(cl)
		})
		if class == nil {
			return (*script.Class)(nil), nil
		}

		r.mu.Lock()
		r.byName[key] = class
		r.mu.Unlock()
		return class, nil
	})

	class = v.(*script.Class)
	return class, class != nil
}

// FindByType returns the class whose instances have type t, typically to
// find the wrapper class for a property or parameter type.
func (r *Resolver) FindByType(t reflect.Type) (*script.Class, bool) {
	r.mu.RLock()
	class, ok := r.byType[t]
	r.mu.RUnlock()
	if ok {
		return class, true
	}

	class = r.scan(func(cl *script.Class) bool { return cl.Type() == t })
	if class == nil {
		return nil, false
	}

	r.mu.Lock()
	r.byType[t] = class
	r.mu.Unlock()
	return class, true
}

// Subclasses returns every class of the given kind in load order, skipping
// dynamic assemblies.
func (r *Resolver) Subclasses(kind script.Kind) []*script.Class {
	var out []*script.Class
	for _, a := range r.searchable() {
		for _, c := range a.Classes() {
			if c.Kind() == kind {
				out = append(out, c)
			}
		}
	}
	return out
}

// Enums returns every enum in load order, skipping dynamic assemblies.
func (r *Resolver) Enums() []*script.Enum {
	var out []*script.Enum
	for _, a := range r.searchable() {
		out = append(out, a.Enums()...)
	}
	return out
}

// Scans reports how many full assembly scans lookups have performed.
func (r *Resolver) Scans() int64 {
	return r.scans.Load()
}

func (r *Resolver) scan(match func(*script.Class) bool) *script.Class {
	r.scans.Add(1)
	for _, a := range r.searchable() {
		for _, c := range a.Classes() {
			if match(c) {
				return c
			}
		}
	}
	return nil
}

func (r *Resolver) searchable() []*script.Assembly {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*script.Assembly, 0, len(r.assemblies))
	for _, a := range r.assemblies {
		if !a.Dynamic() {
			out = append(out, a)
		}
	}
	return out
}
