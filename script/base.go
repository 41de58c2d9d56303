package script

import (
	"io"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
)

// Instance is implemented by everything the bridge registers on behalf of the
// host. Close is called exactly once, when the host destroys the instance.
type Instance interface {
	InstanceID() entities.InstanceID
	io.Closer
}

// ScriptObject is a script instance driven by the host's begin-play, tick and
// destroy events.
type ScriptObject interface {
	Instance
	BeginPlay()
	Tick(deltaSeconds float32)
	Destroy()
}

// NativeObject is implemented by wrappers around native host objects. Any
// value of such a type marshals as an object handle.
type NativeObject interface {
	NativeObject() entities.BorrowedHandle
}

// Component must be embedded by every script component class. It stores the
// instance id and a borrowed handle to the native component that owns the
// script instance.
//
// Component deliberately declares none of the ComponentProxy entry points:
// a component class only receives the calls it declares itself.
type Component struct {
	owner entities.BorrowedHandle
	id    entities.InstanceID
}

// NewComponent initialises the embedded base of a component.
func NewComponent(id entities.InstanceID, owner entities.BorrowedHandle) Component {
	return Component{id: id, owner: owner}
}

// InstanceID returns the id the bridge assigned to this instance.
func (c *Component) InstanceID() entities.InstanceID { return c.id }

// Owner returns the native component this instance belongs to.
func (c *Component) Owner() entities.BorrowedHandle { return c.owner }

// Close implements io.Closer. Override it to release script-side resources.
func (c *Component) Close() error { return nil }

// Object is an optional base for script objects. It provides no-op event
// handlers so a class only implements the events it cares about.
type Object struct {
	owner entities.BorrowedHandle
	id    entities.InstanceID
}

// NewObject initialises the embedded base of a script object.
func NewObject(id entities.InstanceID, owner entities.BorrowedHandle) Object {
	return Object{id: id, owner: owner}
}

func (o *Object) InstanceID() entities.InstanceID { return o.id }
func (o *Object) Owner() entities.BorrowedHandle  { return o.owner }
func (o *Object) BeginPlay()                      {}
func (o *Object) Tick(float32)                    {}
func (o *Object) Destroy()                        {}
func (o *Object) Close() error                    { return nil }

// UObject is the base of native object wrappers. The handle is borrowed:
// dropping a wrapper never releases the native object.
type UObject struct {
	handle entities.BorrowedHandle
}

// NewUObject wraps a borrowed native handle.
func NewUObject(h entities.BorrowedHandle) UObject {
	return UObject{handle: h}
}

// NativeObject implements NativeObject.
func (o *UObject) NativeObject() entities.BorrowedHandle {
	if o == nil {
		return entities.BorrowedHandle{}
	}
	return o.handle
}

// ConvertClassName is a marker. Embedding it in a wrapper type drops the
// first character of the type name when the name is exported, matching the
// native convention of a one-letter class prefix (UActor -> Actor).
type ConvertClassName struct{}

// Function is a marker field type declaring a script-visible method.
//
//	BumpFunc script.Function `method:"Bump" params:"n" category:"Combat" meta:"Tooltip=bump"`
type Function struct{}
