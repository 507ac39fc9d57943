package parser

import (
	"github.com/sandrolain/goparsec/pkg/combinator"
	"github.com/sandrolain/goparsec/pkg/text"
	"github.com/sandrolain/goparsec/pkg/types"
)

// freeVariable accepts #name.
func freeVariable() text.Parser[*types.ASTNode] {
	return combinator.FlatMap(text.Position(), func(pos text.Offset) text.Parser[*types.ASTNode] {
		return combinator.Map(combinator.DropThen(text.Char('#'), name()), func(n string) *types.ASTNode {
			return types.NewVariable(n, pos)
		})
	})
}

// external accepts v[expression], a reference the host resolves by the
// value of the index expression.
func (g *grammar) external() text.Parser[*types.ASTNode] {
	open := combinator.DropThen(text.String("v["), text.Spaces())
	closing := combinator.DropThen(text.Spaces(), text.Char(']'))
	index := combinator.ThenDrop(combinator.DropThen(open, g.expression), closing)

	return combinator.FlatMap(text.Position(), func(pos text.Offset) text.Parser[*types.ASTNode] {
		return combinator.Map(index, func(idx *types.ASTNode) *types.ASTNode {
			return types.NewExternal(idx, pos)
		})
	})
}

// variable accepts either kind of reference.
func (g *grammar) variable() text.Parser[*types.ASTNode] {
	return combinator.OneOf(freeVariable(), g.external())
}
