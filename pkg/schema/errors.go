package schema

import (
	"errors"
	"fmt"
)

// Error codes for structured error reporting.
const (
	ErrCodeDefinition = "DEFINITION_ERROR"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeRender     = "RENDER_ERROR"
	ErrCodeConfig     = "CONFIG_ERROR"
	ErrCodeQuery      = "QUERY_ERROR"
)

// ProcmapError is the structured error type for all procmap operations.
type ProcmapError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Lane    string         `json:"lane,omitempty"`
	NodeID  string         `json:"node_id,omitempty"`
	Cause   error          `json:"-"`
}

func (e *ProcmapError) Error() string {
	var msg string
	switch {
	case e.NodeID != "":
		msg = fmt.Sprintf("[%s] node %s: %s", e.Code, e.NodeID, e.Message)
	case e.Lane != "":
		msg = fmt.Sprintf("[%s] lane %q: %s", e.Code, e.Lane, e.Message)
	default:
		msg = fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ProcmapError) Unwrap() error {
	return e.Cause
}

// NewError creates a new ProcmapError.
func NewError(code, message string) *ProcmapError {
	return &ProcmapError{Code: code, Message: message}
}

// NewErrorf creates a new ProcmapError with a formatted message.
func NewErrorf(code, format string, args ...any) *ProcmapError {
	return &ProcmapError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithNode attaches a node ID to the error.
func (e *ProcmapError) WithNode(id string) *ProcmapError {
	e.NodeID = id
	return e
}

// WithLane attaches a lane name to the error.
func (e *ProcmapError) WithLane(name string) *ProcmapError {
	e.Lane = name
	return e
}

// WithCause attaches an underlying cause.
func (e *ProcmapError) WithCause(err error) *ProcmapError {
	e.Cause = err
	return e
}

// WithDetails attaches key-value details.
func (e *ProcmapError) WithDetails(details map[string]any) *ProcmapError {
	e.Details = details
	return e
}

// IsCode reports whether err, or any error it wraps, is a ProcmapError with the given code.
func IsCode(err error, code string) bool {
	var pe *ProcmapError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}
