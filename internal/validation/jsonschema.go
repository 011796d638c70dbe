package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rendis/procmap/pkg/schema"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

const processSchemaURL = "https://procmap.dev/schemas/process.json"

// processSchemaJSON is the JSON Schema for ProcessDefinition documents.
// Embedded as a constant to avoid filesystem dependencies.
const processSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://procmap.dev/schemas/process.json",
  "type": "object",
  "required": ["title", "lanes", "edges"],
  "properties": {
    "title": { "type": "string", "minLength": 1 },
    "theme": { "type": "string" },
    "pool": { "type": "string" },
    "lanes": {
      "type": "array",
      "minItems": 1,
      "items": { "$ref": "#/$defs/lane" }
    },
    "edges": {
      "type": "array",
      "items": { "$ref": "#/$defs/edge" }
    }
  },
  "additionalProperties": false,
  "$defs": {
    "lane": {
      "type": "object",
      "required": ["name", "nodes"],
      "properties": {
        "name": { "type": "string", "minLength": 1 },
        "nodes": {
          "type": "array",
          "items": { "$ref": "#/$defs/node" }
        }
      },
      "additionalProperties": false
    },
    "node": {
      "type": "object",
      "required": ["id", "label", "kind"],
      "properties": {
        "id": {
          "type": "string",
          "pattern": "^[A-Za-z_][A-Za-z0-9_.-]*$"
        },
        "label": { "type": "string", "minLength": 1 },
        "kind": {
          "type": "string",
          "enum": ["start_event", "end_event", "task", "exclusive_gateway"]
        }
      },
      "additionalProperties": false
    },
    "edge": {
      "type": "object",
      "required": ["from", "to"],
      "properties": {
        "from": { "type": "string", "minLength": 1 },
        "to": { "type": "string", "minLength": 1 },
        "label": { "type": "string" }
      },
      "additionalProperties": false
    }
  }
}`

// SchemaValidator validates process definition documents against the
// embedded JSON Schema (Draft 2020-12). It is safe for concurrent use.
type SchemaValidator struct {
	processSchema *jsonschema.Schema
}

// NewSchemaValidator creates a SchemaValidator with the process schema pre-compiled.
func NewSchemaValidator() (*SchemaValidator, error) {
	c := jsonschema.NewCompiler()
	c.AssertFormat()

	schemaDoc, err := jsonschema.UnmarshalJSON(strings.NewReader(processSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal process schema: %w", err)
	}
	if err := c.AddResource(processSchemaURL, schemaDoc); err != nil {
		return nil, fmt.Errorf("add process schema resource: %w", err)
	}
	compiled, err := c.Compile(processSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile process schema: %w", err)
	}
	return &SchemaValidator{processSchema: compiled}, nil
}

// ValidateDefinition validates a typed ProcessDefinition.
func (v *SchemaValidator) ValidateDefinition(def *schema.ProcessDefinition) error {
	if def == nil {
		return schema.NewError(schema.ErrCodeValidation, "process definition is nil")
	}
	return v.ValidateDocument(def)
}

// ValidateDocument validates any JSON-compatible value, typically the
// generic decoding of a definition file, so that unknown fields are caught
// before the document is mapped onto Go structs.
func (v *SchemaValidator) ValidateDocument(doc any) error {
	value, err := toJSONValue(doc)
	if err != nil {
		return schema.NewError(schema.ErrCodeValidation, "failed to serialize process definition").WithCause(err)
	}
	if err := v.processSchema.Validate(value); err != nil {
		return toProcmapError(err)
	}
	return nil
}

// toJSONValue round-trips a Go value through JSON encoding/decoding so that
// numeric values become json.Number (required by the jsonschema library).
func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(strings.NewReader(string(b)))
}

// toProcmapError converts a jsonschema.ValidationError into a ProcmapError
// listing every violation with its instance location.
func toProcmapError(err error) *schema.ProcmapError {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return schema.NewError(schema.ErrCodeValidation, err.Error())
	}

	violations := collectViolations(verr)
	if len(violations) == 0 {
		return schema.NewError(schema.ErrCodeValidation, verr.Error())
	}
	if len(violations) == 1 {
		return schema.NewError(schema.ErrCodeValidation, violations[0]).
			WithDetails(map[string]any{"violations": violations})
	}

	msg := fmt.Sprintf("validation failed with %d errors", len(violations))
	return schema.NewError(schema.ErrCodeValidation, msg).
		WithDetails(map[string]any{"violations": violations})
}

// collectViolations walks a ValidationError tree and collects leaf error
// messages with their instance locations.
func collectViolations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/"
		if len(verr.InstanceLocation) > 0 {
			loc = "/" + strings.Join(verr.InstanceLocation, "/")
		}
		return []string{fmt.Sprintf("%s: %s", loc, verr.Error())}
	}

	var violations []string
	for _, cause := range verr.Causes {
		violations = append(violations, collectViolations(cause)...)
	}
	return violations
}
