// Package schema generates and enforces the JSON Schema of the metadata
// document handed to the code generator.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
)

// DocumentSchemaID identifies the metadata document schema.
const DocumentSchemaID = "https://klawr.dev/schemas/assembly-info.json"

// GenerateSchema creates a JSON schema from a Go struct.
// It uses the `invopop/jsonschema` library to reflect on the struct
// and generate a standard JSON Schema (Draft 2020-12).
func GenerateSchema(v any) ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true, // Expand struct definitions inline
	}
	schema := reflector.Reflect(v)

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return jsonBytes, nil
}

// DocumentSchema returns the schema of entities.AssemblyInfo. It is generated
// once per process.
var DocumentSchema = sync.OnceValues(func() ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeFor[entities.TypeTag]() {
				return &jsonschema.Schema{Type: "integer", Minimum: json.Number("-2"), Maximum: json.Number("5")}
			}
			return nil
		},
	}
	schema := reflector.Reflect(&entities.AssemblyInfo{})
	schema.ID = DocumentSchemaID
	schema.Title = "Assembly info"

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document schema: %w", err)
	}
	return jsonBytes, nil
})
