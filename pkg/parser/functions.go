package parser

import (
	"github.com/sandrolain/goparsec/pkg/combinator"
	"github.com/sandrolain/goparsec/pkg/text"
	"github.com/sandrolain/goparsec/pkg/types"
)

// arguments accepts a possibly empty, comma separated list of
// expressions. Spaces are allowed around every argument.
func (g *grammar) arguments() text.Parser[[]*types.ASTNode] {
	argument := combinator.ThenDrop(combinator.DropThen(text.Spaces(), g.expression), text.Spaces())
	next := combinator.DropThen(text.Char(','), argument)

	list := combinator.FlatMap(argument, func(first *types.ASTNode) text.Parser[[]*types.ASTNode] {
		return combinator.Map(combinator.Many(next), func(rest []*types.ASTNode) []*types.ASTNode {
			return append([]*types.ASTNode{first}, rest...)
		})
	})
	empty := combinator.Map(text.Spaces(), func(string) []*types.ASTNode { return []*types.ASTNode{} })
	return list.Or(empty)
}

// call accepts name(arguments).
func (g *grammar) call() text.Parser[*types.ASTNode] {
	args := combinator.ThenDrop(combinator.DropThen(text.Char('('), g.arguments()), text.Char(')'))

	return combinator.FlatMap(text.Position(), func(pos text.Offset) text.Parser[*types.ASTNode] {
		return combinator.FlatMap(name(), func(n string) text.Parser[*types.ASTNode] {
			return combinator.Map(args, func(as []*types.ASTNode) *types.ASTNode {
				return types.NewCall(n, as, pos)
			})
		})
	})
}
