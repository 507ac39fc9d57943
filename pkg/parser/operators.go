package parser

import (
	"github.com/sandrolain/goparsec/pkg/combinator"
	"github.com/sandrolain/goparsec/pkg/text"
	"github.com/sandrolain/goparsec/pkg/types"
)

// operator accepts any registered operator symbol.
func operator() text.Parser[string] {
	symbols := types.OperatorSymbols()
	alternatives := make([]text.Parser[string], len(symbols))
	for i, s := range symbols {
		alternatives[i] = text.String(s)
	}
	p := combinator.OneOf(alternatives[0], alternatives[1:]...)
	return combinator.MapError(p, func(e text.Error) text.Error {
		return e.Expecting("operator")
	})
}

// balance builds left op right, where right has been parsed as a complete
// expression. Operations are parsed right-recursively, so a right operand
// whose operator binds no tighter than op is rotated: left is pushed down
// into its leftmost operand. This restores priority and makes operators of
// equal priority associate to the left. Parenthesised operands are never
// rotated.
func balance(op string, left, right *types.ASTNode) *types.ASTNode {
	if right.Type == types.NodeOperator && !right.Grouped &&
		types.Priority(op) >= types.Priority(right.Operator) {
		return types.NewOperator(right.Operator, balance(op, left, right.LHS), right.RHS)
	}
	return types.NewOperator(op, left, right)
}
