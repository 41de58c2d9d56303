package host

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/klawr-dev/klawr-sdk/go/application/binder"
	"github.com/klawr-dev/klawr-sdk/go/application/exporter"
	"github.com/klawr-dev/klawr-sdk/go/application/marshal"
	"github.com/klawr-dev/klawr-sdk/go/application/registry"
	"github.com/klawr-dev/klawr-sdk/go/application/resolver"
	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/klawr-dev/klawr-sdk/go/domain/errors"
	"github.com/klawr-dev/klawr-sdk/go/domain/ports"
	"github.com/klawr-dev/klawr-sdk/go/infrastructure/docstore"
	"github.com/klawr-dev/klawr-sdk/go/log"
	"github.com/klawr-dev/klawr-sdk/go/script"
)

// Session is one execution domain.
type Session struct {
	logger    *slog.Logger
	store     ports.DocumentStore
	registry  *registry.Registry
	resolver  *resolver.Resolver
	binder    *binder.Binder
	marshaler *marshal.Marshaler
	exporter  *exporter.Exporter
	natives   *NativeFunctions
	sink      log.Sink
	config    entities.BridgeConfig
}

// NewSession creates a session with nothing loaded.
func NewSession(opts ...Option) *Session {
	s := &Session{
		logger:  slog.Default(),
		config:  entities.DefaultBridgeConfig(),
		natives: NewNativeFunctions(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.sink != nil {
		var level slog.Level
		if err := level.UnmarshalText([]byte(s.config.LogLevel)); err != nil {
			level = slog.LevelInfo
		}
		s.logger = slog.New(log.NewHandler(s.sink, log.WithLevel(level)))
	}
	if s.store == nil {
		s.store = docstore.NewFileStore(docstore.WithPath(s.config.ExportPath))
	}
	if s.binder == nil {
		s.binder = binder.New(binder.WithLogger(s.logger))
	}

	s.registry = registry.New()
	s.resolver = resolver.New(resolver.WithLogger(s.logger))
	s.marshaler = marshal.New(s.registry, s.resolver, s.binder, marshal.WithLogger(s.logger))

	exportOpts := []exporter.Option{exporter.WithLogger(s.logger), exporter.WithStore(s.store)}
	if s.config.ValidateExport {
		exportOpts = append(exportOpts, exporter.WithSchemaValidation())
	}
	s.exporter = exporter.New(s.resolver, exportOpts...)
	return s
}

// Config returns the effective configuration.
func (s *Session) Config() entities.BridgeConfig {
	return s.config
}

// LoadAssembly loads the registered assembly called name into the session.
// Failures are logged and reported as false.
func (s *Session) LoadAssembly(name string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("assembly load panicked", "assembly", name, "panic", r, "stack", string(debug.Stack()))
			ok = false
		}
	}()

	a, err := script.LookupAssembly(name)
	if err != nil {
		s.logger.Error("failed to load assembly", "error", &errors.AssemblyLoadError{Assembly: name, Err: err})
		return false
	}
	s.resolver.Load(a)
	s.logger.Info("assembly loaded", "assembly", name)
	return true
}

// LoadEngineWrappers loads the native wrapper assembly and prepares the
// component proxy entry points.
func (s *Session) LoadEngineWrappers() bool {
	eps := binder.EntryPoints()
	s.logger.Debug("component proxy entry points", "count", len(eps))
	return s.LoadAssembly(s.config.EngineWrapperAssembly)
}

// LoadConfigured loads the wrapper assembly, the game scripts assembly and
// any extra assemblies named in the configuration, in that order. It keeps
// going after a failure and reports whether everything loaded.
func (s *Session) LoadConfigured() bool {
	ok := s.LoadEngineWrappers()
	if s.config.GameScriptsAssembly != "" {
		ok = s.LoadAssembly(s.config.GameScriptsAssembly) && ok
	}
	for _, name := range s.config.Assemblies {
		ok = s.LoadAssembly(name) && ok
	}
	return ok
}

// LoadedAssemblies lists the names of the loaded assemblies in load order.
func (s *Session) LoadedAssemblies() []string {
	loaded := s.resolver.Loaded()
	names := make([]string, 0, len(loaded))
	for _, a := range loaded {
		names = append(names, a.Name())
	}
	return names
}

// CreateObject creates a script object for the native object native.
func (s *Session) CreateObject(className string, native entities.NativeHandle) (entities.ObjectEntryPoints, error) {
	eps, err := s.marshaler.CreateObject(className, native)
	if err != nil {
		s.logger.Error("failed to create script object", "class", className, "error", err)
		return entities.ObjectEntryPoints{}, fmt.Errorf("create script object %s: %w", className, err)
	}
	return eps, nil
}

// DestroyObject destroys the script object id.
func (s *Session) DestroyObject(id entities.InstanceID) error {
	if err := s.marshaler.DestroyObject(id); err != nil {
		s.logger.Error("failed to destroy script object", "id", id, "error", err)
		return fmt.Errorf("destroy script object %d: %w", id, err)
	}
	return nil
}

// CreateComponent creates a script component for the native component
// native and returns its call surface.
func (s *Session) CreateComponent(className string, native entities.NativeHandle) (entities.ComponentProxy, error) {
	proxy, err := s.marshaler.CreateComponent(className, native)
	if err != nil {
		s.logger.Error("failed to create script component", "class", className, "error", err)
		return entities.ComponentProxy{}, fmt.Errorf("create script component %s: %w", className, err)
	}
	return proxy, nil
}

// DestroyComponent destroys the script component id.
func (s *Session) DestroyComponent(id entities.InstanceID) error {
	if err := s.marshaler.DestroyComponent(id); err != nil {
		s.logger.Error("failed to destroy script component", "id", id, "error", err)
		return fmt.Errorf("destroy script component %d: %w", id, err)
	}
	return nil
}

// ComponentProxy returns the call surface of a live component.
func (s *Session) ComponentProxy(id entities.InstanceID) (entities.ComponentProxy, bool) {
	e, ok := s.registry.Component(id)
	return e.Proxy, ok
}

// ObjectEntryPoints returns the event handlers of a live script object.
func (s *Session) ObjectEntryPoints(id entities.InstanceID) (entities.ObjectEntryPoints, bool) {
	e, ok := s.registry.Object(id)
	return e.EntryPoints, ok
}

// AssemblyInfo exports the metadata document of the loaded assemblies,
// persists it and returns the JSON text.
func (s *Session) AssemblyInfo(ctx context.Context) string {
	return s.exporter.ExportJSON(ctx)
}

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// ScriptOutput returns a writer that turns each line written to it into a
// log record at level. Scripts use it in place of standard output. Call
// Flush to emit a trailing partial line.
func (s *Session) ScriptOutput(level slog.Level) *log.Writer {
	return log.NewWriter(s.logger.With("source", "script"), level)
}

// Natives returns the session's native function pointer table.
func (s *Session) Natives() *NativeFunctions {
	return s.natives
}

// SetNativeFunctionPointers records the native function pointers of a
// native class, replacing earlier ones.
func (s *Session) SetNativeFunctionPointers(nativeClass string, ptrs []int64) {
	s.natives.Set(nativeClass, ptrs)
	s.logger.Debug("native function pointers set", "class", nativeClass, "count", len(ptrs))
}

// NativeFunctionPointers returns the pointers recorded for nativeClass.
func (s *Session) NativeFunctionPointers(nativeClass string) ([]entities.NativeHandle, bool) {
	return s.natives.Get(nativeClass)
}
