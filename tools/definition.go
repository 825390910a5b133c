package tools

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Definition is one built-in tool: metadata, derived input schema, and the
// handler invoked with the raw JSON arguments.
type Definition struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Function    func(input json.RawMessage) (string, error)
}

// GenerateSchema derives a JSON Schema for the input struct type T.
// Schemas are inlined (no $ref) and closed to unknown properties so the
// rendered prompt lists exactly the declared parameters.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// Descriptor flattens the definition's schema into the catalog form used
// for prompt rendering and execution lookup.
func (d Definition) Descriptor() Descriptor {
	return Descriptor{
		Name:        d.Name,
		Description: d.Description,
		Args:        argsFromSchema(d.InputSchema),
	}
}

// argsFromSchema walks schema properties in declaration order and marks
// each one required when it appears in the schema's required list.
func argsFromSchema(s *jsonschema.Schema) []ArgSpec {
	if s == nil || s.Properties == nil {
		return nil
	}
	required := map[string]bool{}
	for _, name := range s.Required {
		required[name] = true
	}
	var args []ArgSpec
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		args = append(args, ArgSpec{
			Name:        pair.Key,
			Description: pair.Value.Description,
			Required:    required[pair.Key],
		})
	}
	return args
}
