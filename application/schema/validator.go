package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// DocumentValidator checks serialized documents against a compiled schema.
type DocumentValidator struct {
	schema *jsonschema.Schema
}

// NewDocumentValidator compiles the metadata document schema.
func NewDocumentValidator() (*DocumentValidator, error) {
	raw, err := DocumentSchema()
	if err != nil {
		return nil, err
	}
	return NewValidator(DocumentSchemaID, raw)
}

// NewValidator compiles an arbitrary schema registered under url.
func NewValidator(url string, raw []byte) (*DocumentValidator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource %s: %w", url, err)
	}
	sch, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", url, err)
	}
	return &DocumentValidator{schema: sch}, nil
}

// Validate returns one message per violation found in doc. A nil result
// means the document is valid.
func (v *DocumentValidator) Validate(doc []byte) []string {
	var obj any
	if err := json.Unmarshal(doc, &obj); err != nil {
		return []string{fmt.Sprintf("failed to prepare validation object: %v", err)}
	}

	err := v.schema.Validate(obj)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}

	var msgs []string
	for _, unit := range ve.BasicOutput().Errors {
		if unit.Error == "" {
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", unit.InstanceLocation, unit.Error))
	}
	if len(msgs) == 0 {
		msgs = append(msgs, ve.Error())
	}
	return msgs
}
