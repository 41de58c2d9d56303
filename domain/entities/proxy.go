package entities

// ObjectEntryPoints is the call surface handed to the host for a script
// object. The method values are captured once when the object is registered.
type ObjectEntryPoints struct {
	BeginPlay  func()
	Tick       func(deltaSeconds float32)
	Destroy    func()
	InstanceID InstanceID
}

// ComponentProxy is the native-callable surface of a script component.
//
// Every exported func field is an entry point. A field stays nil when the
// component class does not declare the matching method, so the host can skip
// the cross-boundary call entirely.
type ComponentProxy struct {
	OnComponentCreated   func()
	OnComponentDestroyed func()
	OnRegister           func()
	OnUnregister         func()
	InitializeComponent  func()
	TickComponent        func(deltaSeconds float32)
	InstanceID           InstanceID
}
