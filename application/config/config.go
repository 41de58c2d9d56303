// Package config loads and validates bridge configuration files.
package config

import (
	stdErrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/klawr-dev/klawr-sdk/go/domain/errors"
	"github.com/klawr-dev/klawr-sdk/go/domain/ports"
	"github.com/klawr-dev/klawr-sdk/go/infrastructure/parser"
	"github.com/klawr-dev/klawr-sdk/go/script"
)

// validate is a package-level singleton; building a validator is expensive.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := script.RegisterValidations(v); err != nil {
		panic(err)
	}
	// Report fields by their file key rather than the Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Loader picks a parser by file extension.
type Loader struct {
	parsers []ports.ConfigParser
}

// NewLoader returns a loader for YAML and HCL files. Extra parsers take
// precedence over the built-in ones for the extensions they claim.
func NewLoader(extra ...ports.ConfigParser) *Loader {
	parsers := append([]ports.ConfigParser(nil), extra...)
	parsers = append(parsers, parser.NewYamlConfigParser(), parser.NewHCLConfigParser())
	return &Loader{parsers: parsers}
}

// Load reads, parses, defaults and validates the config file at path.
func (l *Loader) Load(path string) (*entities.BridgeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return l.Parse(path, data)
}

// Parse decodes data as the format implied by filename, then applies
// defaults and validates the result.
func (l *Loader) Parse(filename string, data []byte) (*entities.BridgeConfig, error) {
	p, err := l.parserFor(filename)
	if err != nil {
		return nil, err
	}
	cfg, err := p.Parse(filename, data)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) parserFor(filename string) (ports.ConfigParser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, p := range l.parsers {
		if slices.Contains(p.Extensions(), ext) {
			return p, nil
		}
	}
	return nil, &errors.ConfigError{Err: fmt.Errorf("unsupported config format %q", ext)}
}

// Validate checks cfg against its validation tags. The first failing field
// is reported as a *errors.ConfigError.
func Validate(cfg *entities.BridgeConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if stdErrors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		return &errors.ConfigError{
			Field: fe.Field(),
			Err:   fmt.Errorf("failed %q check (value %v)", fe.Tag(), fe.Value()),
		}
	}
	return &errors.ConfigError{Err: err}
}
