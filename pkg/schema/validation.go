package schema

import (
	"errors"
	"fmt"
)

// Severity of a ValidationIssue.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// RootPath addresses the definition as a whole.
const RootPath = "/"

// NodePath addresses a node, e.g. "nodes[auto_check]".
func NodePath(id string) string { return "nodes[" + id + "]" }

// LanePath addresses a lane, e.g. "lanes[Verifier]".
func LanePath(name string) string { return "lanes[" + name + "]" }

// EdgePath addresses an edge by its position in the definition.
func EdgePath(i int) string { return fmt.Sprintf("edges[%d]", i) }

// ValidationIssue is one problem found in a process definition. Path is a
// JSON pointer for schema violations and a NodePath/LanePath/EdgePath for
// graph issues.
type ValidationIssue struct {
	Path     string             `json:"path"`
	Code     string             `json:"code"`
	Message  string             `json:"message"`
	Severity ValidationSeverity `json:"severity"`
}

// String formats the issue as one report line.
func (i ValidationIssue) String() string {
	if i.Severity == SeverityWarning {
		return fmt.Sprintf("warning  %-24s %s", i.Path, i.Message)
	}
	return fmt.Sprintf("error    %-24s [%s] %s", i.Path, i.Code, i.Message)
}

// ValidationResult collects the issues of one or more checking stages.
// Warnings never make a process invalid.
type ValidationResult struct {
	Errors   []ValidationIssue `json:"errors,omitempty"`
	Warnings []ValidationIssue `json:"warnings,omitempty"`
}

func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) AddError(path, code, message string) {
	r.Errors = append(r.Errors, ValidationIssue{
		Path: path, Code: code, Message: message, Severity: SeverityError,
	})
}

func (r *ValidationResult) AddWarning(path, code, message string) {
	r.Warnings = append(r.Warnings, ValidationIssue{
		Path: path, Code: code, Message: message, Severity: SeverityWarning,
	})
}

// Merge appends the issues of a later stage.
func (r *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// AddFromError records err as issues. An aggregated error from ToError is
// expanded back into its issues, schema violations become one issue each,
// and any other ProcmapError is placed at its node, lane or details path.
// Plain errors land on fallbackPath as VALIDATION_ERROR.
func (r *ValidationResult) AddFromError(err error, fallbackPath string) {
	if err == nil {
		return
	}
	var pErr *ProcmapError
	if !errors.As(err, &pErr) {
		r.AddError(fallbackPath, ErrCodeValidation, err.Error())
		return
	}

	if issues, ok := pErr.Details["errors"].([]ValidationIssue); ok {
		r.Errors = append(r.Errors, issues...)
		if warnings, ok := pErr.Details["warnings"].([]ValidationIssue); ok {
			r.Warnings = append(r.Warnings, warnings...)
		}
		return
	}
	if violations, ok := pErr.Details["violations"].([]string); ok {
		for _, v := range violations {
			r.AddError(fallbackPath, pErr.Code, v)
		}
		return
	}

	path := fallbackPath
	if p, ok := pErr.Details["path"].(string); ok && p != "" {
		path = p
	} else if pErr.NodeID != "" {
		path = NodePath(pErr.NodeID)
	} else if pErr.Lane != "" {
		path = LanePath(pErr.Lane)
	}
	r.AddError(path, pErr.Code, pErr.Message)
}

// ToError folds the result into one ProcmapError carrying the first issue's
// code, or nil when the result is valid. The issues travel in Details so
// AddFromError can recover them.
func (r *ValidationResult) ToError() error {
	if r.Valid() {
		return nil
	}

	msg := r.Errors[0].Message
	if len(r.Errors) > 1 {
		msg = fmt.Sprintf("process definition has %d errors", len(r.Errors))
	}

	return NewError(r.Errors[0].Code, msg).
		WithDetails(map[string]any{
			"error_count":   len(r.Errors),
			"warning_count": len(r.Warnings),
			"errors":        r.Errors,
			"warnings":      r.Warnings,
		})
}
