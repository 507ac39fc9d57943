// Package parser turns arithmetic formulas into ASTs.
//
// The grammar is assembled from the combinators in pkg/combinator and the
// text primitives in pkg/text:
//
//	expression := atom (spaces operator spaces expression)?
//	atom       := "(" expression ")" | number | variable | call
//	variable   := "#" name | "v[" expression "]"
//	call       := name "(" (expression ("," expression)*)? ")"
//	operator   := "+" | "-" | "*" | "/" | "^"
//
// Operations are parsed right-recursively and rebalanced as they are
// built, so "*" and "/" bind tighter than "+" and "-", "^" binds tightest,
// and operators of equal priority associate to the left.
//
// # Limits
//
// Parsing recurses once per nesting level and once per operator, so input
// size is bounded only by the goroutine stack. Rebalancing pushes each new
// operand down the left spine of the operations of equal or lower priority
// to its right, which makes a long run of same-priority operators
// ("1+1+...+1") quadratic in its length: a few thousand operators parse in
// well under a second, tens of thousands take seconds. Hosts accepting
// untrusted formulas should cap their length.
//
// # Example
//
//	expr, err := parser.Parse("2 * (#x + 1)")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(expr.AST()) // (2 * (#x + 1))
package parser

import (
	"strings"

	"github.com/sandrolain/goparsec/pkg/cache"
	"github.com/sandrolain/goparsec/pkg/text"
	"github.com/sandrolain/goparsec/pkg/types"
)

// Parse compiles query with the default options: the whole input must be a
// single expression, optionally surrounded by spaces.
//
// Syntax errors are returned as *types.Error with code S0201 carrying the
// row and column where parsing stopped.
func Parse(query string) (*types.Expression, error) {
	return Compile(query)
}

// Compile compiles query according to opts.
func Compile(query string, opts ...CompileOption) (*types.Expression, error) {
	options := CompileOptions{Strict: true}
	for _, opt := range opts {
		opt(&options)
	}

	if options.Cache == nil {
		return compile(query, options)
	}
	key := query
	if !options.Strict {
		key = "\x00lenient\x00" + query
	}
	return options.Cache.GetOrCompile(key, func() (*types.Expression, error) {
		return compile(query, options)
	})
}

func compile(query string, options CompileOptions) (*types.Expression, error) {
	if strings.TrimSpace(query) == "" {
		return nil, types.NewError(types.ErrSyntaxError, "empty expression", 0).
			WithLocation(text.Start)
	}

	g := defaultGrammar()
	p := g.strict
	if !options.Strict {
		p = g.lenient
	}

	ast, perr, ok := text.Run(p, query).Outcome.Get()
	if !ok {
		return nil, types.NewSyntaxError(perr)
	}
	return types.NewExpression(ast, query), nil
}

// Expression returns the expression parser itself, for embedding
// arithmetic inside a larger text grammar. It consumes no surrounding
// spaces and does not require the input to end.
func Expression() text.Parser[*types.ASTNode] {
	return defaultGrammar().expression
}

// CompileOption configures compilation behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// Strict requires the expression to span the whole input. When false,
	// trailing input after the first complete expression is ignored.
	Strict bool
	// Cache, when set, memoises compiled expressions by source text.
	Cache *cache.Cache
}

// WithStrict sets whether trailing input is an error. Default true.
func WithStrict(strict bool) CompileOption {
	return func(opts *CompileOptions) {
		opts.Strict = strict
	}
}

// WithCache memoises compilation results in c.
func WithCache(c *cache.Cache) CompileOption {
	return func(opts *CompileOptions) {
		opts.Cache = c
	}
}
