// Package registry keeps the live script instances created on behalf of the
// native host, keyed by their instance id.
package registry

import (
	"sync"
	"sync/atomic"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/klawr-dev/klawr-sdk/go/domain/errors"
	"github.com/klawr-dev/klawr-sdk/go/script"
)

const (
	entityObject    = "script object"
	entityComponent = "script component"
)

// ObjectEntry is a registered script object and the event handlers captured
// from it at registration.
type ObjectEntry struct {
	Instance    script.ScriptObject
	EntryPoints entities.ObjectEntryPoints
}

// ComponentEntry is a registered script component and its bound call surface.
type ComponentEntry struct {
	Instance script.Instance
	Proxy    entities.ComponentProxy
}

// Registry assigns instance ids and stores instances until they are
// unregistered. Ids start at 1 and are never reused.
//
// The host drives the registry from a single thread; the lock only keeps
// concurrent readers (exports, introspection) from observing a map mid-write.
type Registry struct {
	objects    map[entities.InstanceID]ObjectEntry
	components map[entities.InstanceID]ComponentEntry
	mu         sync.RWMutex
	lastID     atomic.Int64
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		objects:    make(map[entities.InstanceID]ObjectEntry),
		components: make(map[entities.InstanceID]ComponentEntry),
	}
}

// GenerateID returns the next instance id.
func (r *Registry) GenerateID() entities.InstanceID {
	return entities.InstanceID(r.lastID.Add(1))
}

// RegisterObject stores obj under its own id and captures its event
// handlers.
func (r *Registry) RegisterObject(obj script.ScriptObject) (ObjectEntry, error) {
	id := obj.InstanceID()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.objects[id]; exists {
		return ObjectEntry{}, &errors.DuplicateInstanceError{Entity: entityObject, ID: id}
	}

	entry := ObjectEntry{
		Instance: obj,
		EntryPoints: entities.ObjectEntryPoints{
			InstanceID: id,
			BeginPlay:  obj.BeginPlay,
			Tick:       obj.Tick,
			Destroy:    obj.Destroy,
		},
	}
	r.objects[id] = entry
	return entry, nil
}

// UnregisterObject removes and returns the object stored under id.
func (r *Registry) UnregisterObject(id entities.InstanceID) (script.ScriptObject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.objects[id]
	if !ok {
		return nil, errors.NewNotFound(errors.KindInstance, id.String())
	}
	delete(r.objects, id)
	return entry.Instance, nil
}

// RegisterComponent stores a component and its proxy under id.
func (r *Registry) RegisterComponent(id entities.InstanceID, inst script.Instance, proxy entities.ComponentProxy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.components[id]; exists {
		return &errors.DuplicateInstanceError{Entity: entityComponent, ID: id}
	}
	r.components[id] = ComponentEntry{Instance: inst, Proxy: proxy}
	return nil
}

// UnregisterComponent removes and returns the component stored under id.
func (r *Registry) UnregisterComponent(id entities.InstanceID) (script.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.components[id]
	if !ok {
		return nil, errors.NewNotFound(errors.KindInstance, id.String())
	}
	delete(r.components, id)
	return entry.Instance, nil
}

// Object returns the object entry stored under id.
func (r *Registry) Object(id entities.InstanceID) (ObjectEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.objects[id]
	return e, ok
}

// Component returns the component entry stored under id.
func (r *Registry) Component(id entities.InstanceID) (ComponentEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.components[id]
	return e, ok
}

// Instance returns the component or object stored under id, components first.
func (r *Registry) Instance(id entities.InstanceID) (script.Instance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.components[id]; ok {
		return e.Instance, true
	}
	if e, ok := r.objects[id]; ok {
		return e.Instance, true
	}
	return nil, false
}

// Len returns the number of live objects and components.
func (r *Registry) Len() (objects, components int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.objects), len(r.components)
}
