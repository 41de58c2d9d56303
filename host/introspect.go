package host

import (
	"github.com/klawr-dev/klawr-sdk/go/application/resolver"
	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/klawr-dev/klawr-sdk/go/domain/errors"
	"github.com/klawr-dev/klawr-sdk/go/script"
)

// returnValueIndex selects the return type in the parameter queries.
const returnValueIndex = -1

// ComponentTypes lists the component classes of the loaded assemblies.
func (s *Session) ComponentTypes() []string {
	classes := s.resolver.Subclasses(script.KindComponent)
	names := make([]string, 0, len(classes))
	for _, c := range classes {
		names = append(names, c.Name())
	}
	return names
}

func (s *Session) component(className string) (*script.Class, bool) {
	c, ok := s.resolver.FindByName(className, resolver.OfKind(script.KindComponent))
	if !ok {
		s.logger.Error("script component class not found", "error", errors.NewNotFound(errors.KindClass, className))
	}
	return c, ok
}

func (s *Session) property(className, name string) (*script.Property, bool) {
	c, ok := s.component(className)
	if !ok {
		return nil, false
	}
	p, ok := c.Property(name)
	if !ok || !p.Visible {
		s.logger.Error("script component property not found", "error", errors.NewMemberNotFound(errors.KindProperty, className, name))
		return nil, false
	}
	return p, true
}

func (s *Session) function(className, name string) (*script.Method, bool) {
	c, ok := s.component(className)
	if !ok {
		return nil, false
	}
	for _, m := range c.Methods() {
		if m.Name == name {
			return m, true
		}
	}
	s.logger.Error("script component function not found", "error", errors.NewMemberNotFound(errors.KindMethod, className, name))
	return nil, false
}

// ComponentPropertyNames lists the script-visible properties of a component
// class in declaration order.
func (s *Session) ComponentPropertyNames(className string) []string {
	c, ok := s.component(className)
	if !ok {
		return nil
	}
	props := c.ScriptProperties()
	names := make([]string, 0, len(props))
	for _, p := range props {
		names = append(names, p.Name)
	}
	return names
}

// ComponentPropertyMetadata returns the metadata pairs of a property,
// category first.
func (s *Session) ComponentPropertyMetadata(className, name string) []entities.Meta {
	p, ok := s.property(className, name)
	if !ok {
		return nil
	}
	return p.MetaData()
}

// ComponentPropertyIsAdvancedDisplay reports the property's advanced
// display flag.
func (s *Session) ComponentPropertyIsAdvancedDisplay(className, name string) bool {
	p, ok := s.property(className, name)
	return ok && p.AdvancedDisplay
}

// ComponentPropertyIsSaveGame reports the property's save-game flag.
func (s *Session) ComponentPropertyIsSaveGame(className, name string) bool {
	p, ok := s.property(className, name)
	return ok && p.SaveGame
}

// ComponentPropertyType returns the type tag of a property, TypeClassNotFound
// for an unknown class and TypeUnknown for an unknown property.
func (s *Session) ComponentPropertyType(className, name string) entities.TypeTag {
	if _, ok := s.component(className); !ok {
		return entities.TypeClassNotFound
	}
	p, ok := s.property(className, name)
	if !ok {
		return entities.TypeUnknown
	}
	return p.Tag
}

// ComponentPropertyClassName returns the class name of a property's type.
func (s *Session) ComponentPropertyClassName(className, name string) string {
	p, ok := s.property(className, name)
	if !ok {
		return ""
	}
	return p.ClassName()
}

// ComponentFunctionNames lists the script-visible functions of a component
// class in declaration order.
func (s *Session) ComponentFunctionNames(className string) []string {
	c, ok := s.component(className)
	if !ok {
		return nil
	}
	methods := c.Methods()
	names := make([]string, 0, len(methods))
	for _, m := range methods {
		names = append(names, m.Name)
	}
	return names
}

// ComponentFunctionReturnType returns the return type tag of a function.
func (s *Session) ComponentFunctionReturnType(className, name string) entities.TypeTag {
	return s.ComponentFunctionParameterType(className, name, returnValueIndex)
}

// ComponentFunctionParameterNames lists a function's parameter names.
func (s *Session) ComponentFunctionParameterNames(className, name string) []string {
	m, ok := s.function(className, name)
	if !ok {
		return nil
	}
	return append([]string(nil), m.ParamNames...)
}

// ComponentFunctionParameterType returns the type tag of parameter index,
// or of the return value when index is -1.
func (s *Session) ComponentFunctionParameterType(className, name string, index int) entities.TypeTag {
	if _, ok := s.component(className); !ok {
		return entities.TypeClassNotFound
	}
	m, ok := s.function(className, name)
	if !ok {
		return entities.TypeUnknown
	}
	if index == returnValueIndex {
		return m.ReturnTag
	}
	if index < 0 || index >= len(m.ParamTags) {
		s.logger.Error("parameter index out of range", "class", className, "function", name, "index", index, "parameters", len(m.ParamTags))
		return entities.TypeUnknown
	}
	return m.ParamTags[index]
}

// ComponentFunctionParameterClassName returns the class name of parameter
// index, or of the return value when index is -1.
func (s *Session) ComponentFunctionParameterClassName(className, name string, index int) string {
	m, ok := s.function(className, name)
	if !ok {
		return ""
	}
	if index == returnValueIndex {
		return m.ReturnClassName()
	}
	if index < 0 || index >= len(m.ParamTypes) {
		s.logger.Error("parameter index out of range", "class", className, "function", name, "index", index, "parameters", len(m.ParamTypes))
		return ""
	}
	return script.ClassNameOf(m.ParamTypes[index])
}
