package validation

import (
	"github.com/rendis/procmap/internal/process"
	"github.com/rendis/procmap/pkg/schema"
)

// Check runs the two-stage validation pipeline:
//  1. Structural (JSON Schema)
//  2. Graph (builder invariants and whole-graph checks)
//
// Structural errors short-circuit the graph stage.
func Check(def *schema.ProcessDefinition) *schema.ValidationResult {
	result := &schema.ValidationResult{}
	if def == nil {
		result.AddError(schema.RootPath, schema.ErrCodeValidation, "process definition is nil")
		return result
	}

	result.Merge(checkStructure(def))
	if !result.Valid() {
		return result
	}
	result.Merge(checkGraph(def))
	return result
}

func checkStructure(def *schema.ProcessDefinition) *schema.ValidationResult {
	result := &schema.ValidationResult{}
	v, err := NewSchemaValidator()
	if err != nil {
		result.AddFromError(err, schema.RootPath)
		return result
	}
	result.AddFromError(v.ValidateDefinition(def), schema.RootPath)
	return result
}

func checkGraph(def *schema.ProcessDefinition) *schema.ValidationResult {
	result := &schema.ValidationResult{}
	p, err := process.FromDefinition(def)
	if err != nil {
		result.AddFromError(err, schema.RootPath)
		return result
	}
	result.Warnings = p.Warnings()
	return result
}
