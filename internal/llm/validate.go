package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled schemas by name
var schemaCache sync.Map

// validateResponse checks raw against schema. A nil schema accepts
// anything.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := compileSchema(schema)
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("compile schema %q: %w", schema.Name, err)}
	}

	if err := compiled.Validate(doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	if c, ok := schemaCache.Load(schema.Name); ok {
		return c.(*jsonschema.Schema), nil
	}

	// The compiler wants the value as produced by its own decoder, so the
	// Go map takes a round trip through JSON.
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	url := "mem://schemas/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, err
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
