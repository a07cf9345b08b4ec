package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaValidator checks model replies against the receipt field schema.
// The schema is compiled once at construction; Validate is cheap per reply.
type SchemaValidator struct {
	schema *jsonschema.Schema
}

func NewSchemaValidator(schemaMap map[string]any) (*SchemaValidator, error) {
	raw, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal receipt schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("receipt-fields.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add receipt schema: %w", err)
	}
	schema, err := compiler.Compile("receipt-fields.json")
	if err != nil {
		return nil, fmt.Errorf("compile receipt schema: %w", err)
	}
	return &SchemaValidator{schema: schema}, nil
}

func (v *SchemaValidator) Validate(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse model reply: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("reply does not match receipt schema: %w", err)
	}
	return nil
}
