// Package query evaluates jq expressions over process definitions.
package query

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/itchyny/gojq"
	"github.com/rendis/procmap/pkg/schema"
)

// Engine evaluates jq expressions using GoJQ.
// Thread-safe: compiled *Code objects are cached and reused across goroutines.
type Engine struct {
	mu    sync.RWMutex
	cache map[string]*gojq.Code
}

// NewEngine creates a new jq engine.
func NewEngine() *Engine {
	return &Engine{
		cache: make(map[string]*gojq.Code),
	}
}

var defaultEngine = NewEngine()

// Run evaluates expression over the JSON form of def and returns every output
// in order. An expression that produces nothing yields an empty slice.
func Run(ctx context.Context, def *schema.ProcessDefinition, expression string) ([]any, error) {
	doc, err := Document(def)
	if err != nil {
		return nil, err
	}
	return defaultEngine.Evaluate(ctx, expression, doc)
}

// Document converts a definition into the generic JSON value jq operates on.
func Document(def *schema.ProcessDefinition) (map[string]any, error) {
	if def == nil {
		return nil, schema.NewError(schema.ErrCodeQuery, "process definition is nil")
	}
	b, err := json.Marshal(def)
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeQuery, "encode process definition").WithCause(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, schema.NewError(schema.ErrCodeQuery, "decode process definition").WithCause(err)
	}
	return doc, nil
}

// Evaluate compiles (or retrieves from cache) a jq expression and evaluates it
// against data, collecting all outputs.
func (e *Engine) Evaluate(ctx context.Context, expression string, data any) ([]any, error) {
	if expression == "" {
		return nil, schema.NewError(schema.ErrCodeQuery, "empty jq expression")
	}

	code, err := e.getOrCompile(expression)
	if err != nil {
		return nil, err
	}

	iter := code.RunWithContext(ctx, data)

	results := []any{}
	for {
		val, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := val.(error); isErr {
			return nil, schema.NewErrorf(schema.ErrCodeQuery,
				"jq evaluation failed for %q: %s", expression, err.Error()).
				WithCause(err).
				WithDetails(map[string]any{"expression": expression})
		}
		results = append(results, val)
	}
	return results, nil
}

// getOrCompile returns a cached compiled code or compiles and caches a new one.
func (e *Engine) getOrCompile(expression string) (*gojq.Code, error) {
	e.mu.RLock()
	if code, ok := e.cache[expression]; ok {
		e.mu.RUnlock()
		return code, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	// Double-check after acquiring write lock.
	if code, ok := e.cache[expression]; ok {
		return code, nil
	}

	q, err := gojq.Parse(expression)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeQuery,
			"jq parse error in %q: %s", expression, err.Error()).
			WithCause(err).
			WithDetails(map[string]any{"expression": expression})
	}

	code, err := gojq.Compile(q,
		// Sandbox: return empty env to block $ENV and env access.
		gojq.WithEnvironLoader(func() []string { return nil }),
	)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeQuery,
			"jq compile error in %q: %s", expression, err.Error()).
			WithCause(err).
			WithDetails(map[string]any{"expression": expression})
	}

	e.cache[expression] = code
	return code, nil
}
