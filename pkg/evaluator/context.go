package evaluator

import (
	"fmt"
	"maps"
)

// EvalContext holds the variable bindings visible to one evaluation.
// Lookups fall back to the parent context, so per-call bindings can shadow
// the evaluator's defaults without copying them. A context copies the
// bindings it is given and is never modified afterwards, so one context
// can be shared by concurrent EvalAST calls.
type EvalContext struct {
	parent   *EvalContext
	bindings map[string]float64
}

// NewContext creates a root context holding a copy of bindings.
func NewContext(bindings map[string]float64) *EvalContext {
	return &EvalContext{bindings: maps.Clone(bindings)}
}

// NewChildContext creates a context whose bindings shadow c's.
func (c *EvalContext) NewChildContext(bindings map[string]float64) *EvalContext {
	return &EvalContext{parent: c, bindings: maps.Clone(bindings)}
}

// GetBinding retrieves a variable, searching parent contexts.
func (c *EvalContext) GetBinding(name string) (float64, bool) {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if v, ok := ctx.bindings[name]; ok {
			return v, true
		}
	}
	return 0, false
}

// String returns a string representation of the context.
func (c *EvalContext) String() string {
	depth := 0
	for p := c.parent; p != nil; p = p.parent {
		depth++
	}
	return fmt.Sprintf("Context{depth=%d, bindings=%d}", depth, len(c.bindings))
}
