// Package evaluator implements the arithmetic evaluation engine.
//
// The evaluator receives a parsed Abstract Syntax Tree (AST) from the
// parser and folds it to a float64. It supports:
//   - Free variables (#name) bound by the caller
//   - External references (v[index]) resolved by a host lookup
//   - Function calls against caller tables and the built-ins
//   - Timeout and cancellation via context.Context
//
// # Example
//
//	ev := evaluator.New(evaluator.WithVariable("x", 4))
//	result, err := ev.Eval(ctx, expr)
//	if err != nil {
//	    log.Fatal(err)
//	}
package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sandrolain/goparsec/pkg/functions"
	"github.com/sandrolain/goparsec/pkg/types"
)

// DefaultMaxDepth bounds AST nesting during evaluation.
const DefaultMaxDepth = 10000

// ExternalFunc resolves the value of v[index].
type ExternalFunc func(ctx context.Context, index float64) (float64, error)

// Evaluator evaluates arithmetic expressions. It is immutable after New and
// safe for concurrent use.
type Evaluator struct {
	opts      EvalOptions
	logger    *slog.Logger
	root      *EvalContext
	functions functions.Table
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// Variables are the default bindings for #name references.
	Variables map[string]float64
	// Functions are consulted before the built-ins.
	Functions functions.Table
	// External resolves v[index] references. Without it every external
	// reference is a missing binding.
	External ExternalFunc
	// MaxDepth limits AST nesting. Zero or less disables the guard.
	MaxDepth int
	// Timeout bounds a single evaluation. Zero disables it.
	Timeout time.Duration
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
	// CustomFunctions are registered on top of Functions.
	CustomFunctions []functions.CustomFunctionDef
}

// New creates a new Evaluator.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{
		MaxDepth: DefaultMaxDepth,
		Timeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	table := functions.Table{}.Merge(options.Functions)
	for _, def := range options.CustomFunctions {
		table.Add(def)
	}

	return &Evaluator{
		opts:      options,
		logger:    options.Logger,
		root:      NewContext(options.Variables),
		functions: table,
	}
}

// Options returns the options the evaluator was built with.
func (e *Evaluator) Options() EvalOptions {
	return e.opts
}

// Eval evaluates expr with the evaluator's default bindings.
func (e *Evaluator) Eval(ctx context.Context, expr *types.Expression) (float64, error) {
	if expr == nil || expr.AST() == nil {
		return 0, fmt.Errorf("invalid expression")
	}
	return e.EvalAST(ctx, expr.AST(), e.root)
}

// EvalWithBindings evaluates expr with bindings shadowing the defaults.
func (e *Evaluator) EvalWithBindings(ctx context.Context, expr *types.Expression, bindings map[string]float64) (float64, error) {
	if expr == nil || expr.AST() == nil {
		return 0, fmt.Errorf("invalid expression")
	}
	return e.EvalAST(ctx, expr.AST(), e.root.NewChildContext(bindings))
}

// EvalAST evaluates a bare AST, such as one produced by embedding
// parser.Expression in a larger grammar. A nil evalCtx uses the defaults.
func (e *Evaluator) EvalAST(ctx context.Context, node *types.ASTNode, evalCtx *EvalContext) (float64, error) {
	if node == nil {
		return 0, fmt.Errorf("invalid expression")
	}
	if evalCtx == nil {
		evalCtx = e.root
	}

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	return e.evalNode(ctx, node, evalCtx, 0)
}

// EvalOption configures evaluation behavior.
type EvalOption func(*EvalOptions)

// WithVariables adds default bindings for #name references.
func WithVariables(vars map[string]float64) EvalOption {
	return func(opts *EvalOptions) {
		if opts.Variables == nil {
			opts.Variables = make(map[string]float64, len(vars))
		}
		for name, v := range vars {
			opts.Variables[name] = v
		}
	}
}

// WithVariable binds a single variable.
func WithVariable(name string, value float64) EvalOption {
	return WithVariables(map[string]float64{name: value})
}

// WithFunctions adds a function table. Later tables win on name clashes.
func WithFunctions(table functions.Table) EvalOption {
	return func(opts *EvalOptions) {
		opts.Functions = opts.Functions.Merge(table)
	}
}

// WithFunction registers fn under name without an argument count check.
//
// Example:
//
//	ev := evaluator.New(evaluator.WithFunction("double", func(ctx context.Context, args ...float64) (float64, error) {
//	    return 2 * args[0], nil
//	}))
func WithFunction(name string, fn functions.Func) EvalOption {
	return WithCustomFunction(functions.CustomFunctionDef{
		Name:    name,
		MaxArgs: functions.Variadic,
		Fn:      fn,
	})
}

// WithCustomFunction registers def. Its argument count is checked on every
// call.
func WithCustomFunction(def functions.CustomFunctionDef) EvalOption {
	return func(opts *EvalOptions) {
		opts.CustomFunctions = append(opts.CustomFunctions, def)
	}
}

// WithExternal sets the lookup for v[index] references.
func WithExternal(lookup ExternalFunc) EvalOption {
	return func(opts *EvalOptions) {
		opts.External = lookup
	}
}

// WithTimeout sets the evaluation timeout.
func WithTimeout(timeout time.Duration) EvalOption {
	return func(opts *EvalOptions) {
		opts.Timeout = timeout
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}

// WithMaxDepth sets the maximum AST nesting depth. Zero or less disables
// the guard.
//
// Depth counts every node on the path from the root, including the left
// spine of a chain of operators: a flat sum of n terms is n-1 levels deep,
// so "1+1+...+1" with more than DefaultMaxDepth operators fails with D3020
// under the default.
func WithMaxDepth(depth int) EvalOption {
	return func(opts *EvalOptions) {
		opts.MaxDepth = depth
	}
}
