// Package types defines the data shared by the arithmetic parser and
// evaluator.
//
// This package contains type definitions for:
//   - Expression: Compiled arithmetic expressions
//   - ASTNode: Abstract Syntax Tree nodes
//   - Operator: The read-only operator registry
//   - Error types: Structured errors with codes
package types

// Expression represents a compiled arithmetic expression.
//
// An Expression can be evaluated multiple times with different variable
// bindings by passing it to [evaluator.Evaluator.Eval]. It is safe for
// concurrent use by multiple goroutines.
type Expression struct {
	ast    *ASTNode
	source string
}

// NewExpression creates a new Expression from an AST.
func NewExpression(ast *ASTNode, source string) *Expression {
	return &Expression{
		ast:    ast,
		source: source,
	}
}

// AST returns the Abstract Syntax Tree of the expression.
func (e *Expression) AST() *ASTNode {
	return e.ast
}

// Source returns the original source code of the expression.
func (e *Expression) Source() string {
	return e.source
}

// String returns a string representation of the expression.
func (e *Expression) String() string {
	return e.source
}
