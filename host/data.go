package host

import (
	"fmt"
	"runtime/debug"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/klawr-dev/klawr-sdk/go/domain/errors"
)

func (s *Session) logAccess(op string, id entities.InstanceID, name string, err error) {
	s.logger.Error("property access failed", "op", op, "id", id, "property", name, "error", err)
}

// GetFloat reads a float property, or 0 on failure.
func (s *Session) GetFloat(id entities.InstanceID, name string) float32 {
	v, err := s.marshaler.GetFloat(id, name)
	if err != nil {
		s.logAccess("get_float", id, name, err)
	}
	return v
}

// GetInt reads an int property, or 0 on failure.
func (s *Session) GetInt(id entities.InstanceID, name string) int32 {
	v, err := s.marshaler.GetInt(id, name)
	if err != nil {
		s.logAccess("get_int", id, name, err)
	}
	return v
}

// GetBool reads a bool property, or false on failure.
func (s *Session) GetBool(id entities.InstanceID, name string) bool {
	v, err := s.marshaler.GetBool(id, name)
	if err != nil {
		s.logAccess("get_bool", id, name, err)
	}
	return v
}

// GetString reads a string property, or "" on failure.
func (s *Session) GetString(id entities.InstanceID, name string) string {
	v, err := s.marshaler.GetString(id, name)
	if err != nil {
		s.logAccess("get_string", id, name, err)
	}
	return v
}

// GetObject reads an object property, or the zero handle on failure.
func (s *Session) GetObject(id entities.InstanceID, name string) entities.NativeHandle {
	v, err := s.marshaler.GetObject(id, name)
	if err != nil {
		s.logAccess("get_object", id, name, err)
	}
	return v
}

// SetFloat writes a float property and reports success.
func (s *Session) SetFloat(id entities.InstanceID, name string, v float32) bool {
	return s.set("set_float", id, name, s.marshaler.SetFloat(id, name, v))
}

// SetInt writes an int property and reports success.
func (s *Session) SetInt(id entities.InstanceID, name string, v int32) bool {
	return s.set("set_int", id, name, s.marshaler.SetInt(id, name, v))
}

// SetBool writes a bool property and reports success.
func (s *Session) SetBool(id entities.InstanceID, name string, v bool) bool {
	return s.set("set_bool", id, name, s.marshaler.SetBool(id, name, v))
}

// SetString writes a string property and reports success.
func (s *Session) SetString(id entities.InstanceID, name string, v string) bool {
	return s.set("set_string", id, name, s.marshaler.SetString(id, name, v))
}

// SetObject points an object property at native (zero clears it) and
// reports success.
func (s *Session) SetObject(id entities.InstanceID, name string, native entities.NativeHandle) bool {
	return s.set("set_object", id, name, s.marshaler.SetObject(id, name, native))
}

func (s *Session) set(op string, id entities.InstanceID, name string, err error) bool {
	if err != nil {
		s.logAccess(op, id, name, err)
		return false
	}
	return true
}

// CallFloat calls a float-returning method.
func (s *Session) CallFloat(id entities.InstanceID, method string, args []entities.Arg) float32 {
	return s.marshaler.CallFloat(id, method, args)
}

// CallInt calls an int-returning method.
func (s *Session) CallInt(id entities.InstanceID, method string, args []entities.Arg) int32 {
	return s.marshaler.CallInt(id, method, args)
}

// CallBool calls a bool-returning method.
func (s *Session) CallBool(id entities.InstanceID, method string, args []entities.Arg) bool {
	return s.marshaler.CallBool(id, method, args)
}

// CallString calls a string-returning method.
func (s *Session) CallString(id entities.InstanceID, method string, args []entities.Arg) string {
	return s.marshaler.CallString(id, method, args)
}

// CallObject calls an object-returning method.
func (s *Session) CallObject(id entities.InstanceID, method string, args []entities.Arg) entities.NativeHandle {
	return s.marshaler.CallObject(id, method, args)
}

// CallVoid calls a method and discards its result.
func (s *Session) CallVoid(id entities.InstanceID, method string, args []entities.Arg) {
	s.marshaler.CallVoid(id, method, args)
}

// Get reads a property of category tag. Unlike the typed getters it returns
// the failure instead of logging it.
func (s *Session) Get(id entities.InstanceID, name string, tag entities.TypeTag) (entities.Arg, error) {
	return s.marshaler.Get(id, name, tag)
}

// Set writes a property from a.
func (s *Session) Set(id entities.InstanceID, name string, a entities.Arg) error {
	return s.marshaler.Set(id, name, a)
}

// Call invokes method and returns its result packed as an Arg of type want.
func (s *Session) Call(id entities.InstanceID, method string, args []entities.Arg, want entities.TypeTag) (entities.Arg, error) {
	return s.marshaler.CallArg(id, method, args, want)
}

// InvokeEntryPoint calls a named event on a live instance: a ComponentProxy
// slot for components, or BeginPlay/Tick/Destroy for script objects.
// deltaSeconds is passed to tick events. An unbound slot is not an error;
// the call is simply skipped and reported as not invoked.
func (s *Session) InvokeEntryPoint(id entities.InstanceID, name string, deltaSeconds float32) (invoked bool, err error) {
	fn, err := s.entryPoint(id, name)
	if err != nil || fn == nil {
		return false, err
	}

	defer func() {
		if r := recover(); r != nil {
			stack := string(debug.Stack())
			err = &errors.InvocationError{Class: fmt.Sprintf("instance %d", id), Method: name, Err: fmt.Errorf("panic: %v", r), Stack: stack}
			s.logger.Error("entry point panicked", "id", id, "entry_point", name, "panic", r, "stack", stack)
			invoked = false
		}
	}()

	fn(deltaSeconds)
	return true, nil
}

func (s *Session) entryPoint(id entities.InstanceID, name string) (func(float32), error) {
	noArg := func(f func()) func(float32) {
		if f == nil {
			return nil
		}
		return func(float32) { f() }
	}

	if p, ok := s.ComponentProxy(id); ok {
		switch name {
		case "OnComponentCreated":
			return noArg(p.OnComponentCreated), nil
		case "OnComponentDestroyed":
			return noArg(p.OnComponentDestroyed), nil
		case "OnRegister":
			return noArg(p.OnRegister), nil
		case "OnUnregister":
			return noArg(p.OnUnregister), nil
		case "InitializeComponent":
			return noArg(p.InitializeComponent), nil
		case "TickComponent":
			return p.TickComponent, nil
		}
		return nil, errors.NewMemberNotFound(errors.KindMethod, "component proxy", name)
	}

	if e, ok := s.ObjectEntryPoints(id); ok {
		switch name {
		case "BeginPlay":
			return noArg(e.BeginPlay), nil
		case "Tick":
			return e.Tick, nil
		case "Destroy":
			return noArg(e.Destroy), nil
		}
		return nil, errors.NewMemberNotFound(errors.KindMethod, "script object", name)
	}

	return nil, errors.NewNotFound(errors.KindInstance, id.String())
}
