// Package exporter renders the script classes and enums visible to a session
// as the metadata document consumed by the code generator.
package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/klawr-dev/klawr-sdk/go/application/resolver"
	"github.com/klawr-dev/klawr-sdk/go/application/schema"
	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/klawr-dev/klawr-sdk/go/domain/ports"
	"github.com/klawr-dev/klawr-sdk/go/script"
)

// Exporter builds metadata documents from a resolver.
type Exporter struct {
	logger    *slog.Logger
	resolver  *resolver.Resolver
	store     ports.DocumentStore
	validator *schema.DocumentValidator
	validate  bool
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithStore persists every JSON export to store.
func WithStore(store ports.DocumentStore) Option {
	return func(e *Exporter) {
		e.store = store
	}
}

// WithSchemaValidation checks every JSON export against the document schema
// and records violations in the document's errors.
func WithSchemaValidation() Option {
	return func(e *Exporter) {
		e.validate = true
	}
}

// New creates an exporter over res.
func New(res *resolver.Resolver, opts ...Option) *Exporter {
	e := &Exporter{
		logger:   slog.Default(),
		resolver: res,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export collects every component class and enum of the loaded, non-dynamic
// assemblies. It never fails: problems are logged and listed in the
// document's Errors.
func (e *Exporter) Export(ctx context.Context) *entities.AssemblyInfo {
	info := &entities.AssemblyInfo{
		ClassInfos: []entities.ClassInfo{},
		EnumInfos:  []entities.EnumInfo{},
	}

	for _, class := range e.resolver.Subclasses(script.KindComponent) {
		if err := ctx.Err(); err != nil {
			e.fail(info, fmt.Errorf("export interrupted: %w", err))
			return info
		}
		ci, err := classInfo(class)
		if err != nil {
			e.fail(info, err)
			continue
		}
		info.ClassInfos = append(info.ClassInfos, ci)
	}

	for _, enum := range e.resolver.Enums() {
		info.EnumInfos = append(info.EnumInfos, enum.Info())
	}

	e.logger.DebugContext(ctx, "metadata exported", "classes", len(info.ClassInfos), "enums", len(info.EnumInfos), "errors", len(info.Errors))
	return info
}

// ExportJSON exports, optionally validates, serializes and persists the
// document, returning the JSON text.
func (e *Exporter) ExportJSON(ctx context.Context) string {
	info := e.Export(ctx)

	data, err := json.Marshal(info)
	if err != nil {
		e.fail(info, fmt.Errorf("serialize document: %w", err))
		info.ClassInfos, info.EnumInfos = []entities.ClassInfo{}, []entities.EnumInfo{}
		data, _ = json.Marshal(info)
	}

	if e.validate {
		if violations := e.checkSchema(data); len(violations) > 0 {
			for _, v := range violations {
				e.fail(info, fmt.Errorf("schema violation: %s", v))
			}
			data, _ = json.Marshal(info)
		}
	}

	if e.store != nil {
		if err := e.store.Save(data); err != nil {
			e.logger.ErrorContext(ctx, "failed to persist metadata document", "path", e.store.Path(), "error", err)
		} else {
			e.logger.InfoContext(ctx, "metadata document written", "path", e.store.Path(), "bytes", len(data))
		}
	}
	return string(data)
}

func (e *Exporter) checkSchema(data []byte) []string {
	if e.validator == nil {
		v, err := schema.NewDocumentValidator()
		if err != nil {
			return []string{err.Error()}
		}
		e.validator = v
	}
	return e.validator.Validate(data)
}

func (e *Exporter) fail(info *entities.AssemblyInfo, err error) {
	e.logger.Error("metadata export problem", "error", err)
	info.Errors = append(info.Errors, err.Error())
}

// classInfo describes one class, converting a panic from a misbehaving
// descriptor into an error.
func classInfo(class *script.Class) (ci entities.ClassInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("export %s: panic: %v\n%s", class.Name(), r, debug.Stack())
		}
	}()

	ci = entities.ClassInfo{
		Name:          class.Name(),
		MethodInfos:   []entities.MethodInfo{},
		PropertyInfos: []entities.TypeInfo{},
	}

	for _, m := range class.Methods() {
		mi := entities.MethodInfo{
			Name:       m.Name,
			ClassName:  m.ReturnClassName(),
			ReturnType: m.ReturnTag,
			MetaData:   m.MetaData(),
			Parameters: make([]entities.TypeInfo, 0, len(m.ParamTypes)),
		}
		for i, pt := range m.ParamTypes {
			mi.Parameters = append(mi.Parameters, entities.TypeInfo{
				Name:      m.ParamNames[i],
				ClassName: script.ClassNameOf(pt),
				MetaData:  []entities.Meta{},
				TypeID:    m.ParamTags[i],
			})
		}
		ci.MethodInfos = append(ci.MethodInfos, mi)
	}

	for _, p := range class.ScriptProperties() {
		ci.PropertyInfos = append(ci.PropertyInfos, entities.TypeInfo{
			Name:      p.Name,
			ClassName: p.ClassName(),
			MetaData:  p.MetaData(),
			TypeID:    p.Tag,
		})
	}
	return ci, nil
}
