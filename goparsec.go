// Package goparsec parses and evaluates arithmetic formulas with a
// generic parser-combinator engine.
//
// A formula combines numbers, free variables (#name), host references
// (v[index]) and function calls with + - * / and ^:
//
//	#price * (1 + #vat) - min(v[3], 10)
//
// # Quick Start
//
//	// Simple evaluation
//	result, err := goparsec.Eval("1 + 2 * 3")
//
//	// Compile once, evaluate many times
//	expr, err := goparsec.Compile("#w * #h")
//	ev := evaluator.New()
//	a, _ := ev.EvalWithBindings(ctx, expr, map[string]float64{"w": 2, "h": 3})
//	b, _ := ev.EvalWithBindings(ctx, expr, map[string]float64{"w": 4, "h": 5})
//
//	// With options
//	result, err := goparsec.Eval("hypot(#x, v[0])",
//	    goparsec.WithVariable("x", 3),
//	    goparsec.WithExternal(evaluator.Registers([]float64{4})),
//	    goparsec.WithTimeout(time.Second),
//	)
//
// # More Information
//
// For detailed documentation, see:
//   - Combinators: github.com/sandrolain/goparsec/pkg/combinator
//   - Text parsers: github.com/sandrolain/goparsec/pkg/text
//   - Parser: github.com/sandrolain/goparsec/pkg/parser
//   - Evaluator: github.com/sandrolain/goparsec/pkg/evaluator
//   - Functions: github.com/sandrolain/goparsec/pkg/functions
//   - Types: github.com/sandrolain/goparsec/pkg/types
package goparsec

import (
	"context"
	"fmt"

	"github.com/sandrolain/goparsec/pkg/cache"
	"github.com/sandrolain/goparsec/pkg/evaluator"
	"github.com/sandrolain/goparsec/pkg/parser"
	"github.com/sandrolain/goparsec/pkg/types"
)

// Version returns the current version of goparsec.
func Version() string {
	return "v0.1.0-dev"
}

// sharedCache memoises the formulas compiled by Eval and EvalWithContext.
var sharedCache = cache.New(cache.DefaultCapacity)

// Cache returns the process-wide cache used by Eval.
func Cache() *cache.Cache {
	return sharedCache
}

// EvalOption configures evaluation behavior.
type EvalOption = evaluator.EvalOption

// Evaluation options, re-exported from the evaluator package.
var (
	WithVariables      = evaluator.WithVariables
	WithVariable       = evaluator.WithVariable
	WithFunctions      = evaluator.WithFunctions
	WithFunction       = evaluator.WithFunction
	WithCustomFunction = evaluator.WithCustomFunction
	WithExternal       = evaluator.WithExternal
	WithTimeout        = evaluator.WithTimeout
	WithMaxDepth       = evaluator.WithMaxDepth
	WithDebug          = evaluator.WithDebug
	WithLogger         = evaluator.WithLogger
)

// Compile compiles a formula for repeated evaluation.
//
// The compiled expression can be evaluated multiple times with different
// bindings. It is safe for concurrent use.
//
// Example:
//
//	expr, err := goparsec.Compile("#a + #b")
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(query string, opts ...parser.CompileOption) (*types.Expression, error) {
	return parser.Compile(query, opts...)
}

// MustCompile is like Compile but panics if the formula cannot be compiled.
// It simplifies safe initialization of global variables.
func MustCompile(query string) *types.Expression {
	expr, err := Compile(query)
	if err != nil {
		panic(fmt.Sprintf("goparsec: Compile(%q): %v", query, err))
	}
	return expr
}

// Eval is a convenience function that compiles and evaluates a formula in
// a single call. Compiled formulas are kept in the process-wide cache.
//
// Example:
//
//	result, err := goparsec.Eval("#r ^ 2 * 3.14159", goparsec.WithVariable("r", 2))
func Eval(query string, opts ...EvalOption) (float64, error) {
	return EvalWithContext(context.Background(), query, opts...)
}

// EvalWithContext evaluates a formula with a custom context.
func EvalWithContext(ctx context.Context, query string, opts ...EvalOption) (float64, error) {
	expr, err := Compile(query, parser.WithCache(sharedCache))
	if err != nil {
		return 0, err
	}
	return evaluator.New(opts...).Eval(ctx, expr)
}
