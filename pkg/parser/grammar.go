package parser

import (
	"sync"

	"github.com/sandrolain/goparsec/pkg/combinator"
	"github.com/sandrolain/goparsec/pkg/text"
	"github.com/sandrolain/goparsec/pkg/types"
)

// grammar holds the mutually recursive parsers of the arithmetic
// language. A grammar is immutable once built and safe to share.
type grammar struct {
	expression text.Parser[*types.ASTNode]
	strict     text.Parser[*types.ASTNode]
	lenient    text.Parser[*types.ASTNode]
}

var defaultGrammar = sync.OnceValue(newGrammar)

func newGrammar() *grammar {
	g := &grammar{}
	g.expression = combinator.Lazy(g.buildExpression)

	padded := combinator.ThenDrop(combinator.DropThen(text.Spaces(), g.expression), text.Spaces())
	g.lenient = padded
	g.strict = combinator.ThenDrop(padded, text.EOS())
	return g
}

// buildExpression is
//
//	expression := atom (spaces operator spaces expression)?
//
// which accepts the same language as operation | atom while parsing the
// leading atom only once.
func (g *grammar) buildExpression() text.Parser[*types.ASTNode] {
	atom := g.atom()
	op := combinator.ThenDrop(combinator.DropThen(text.Spaces(), operator()), text.Spaces())

	return combinator.FlatMap(atom, func(left *types.ASTNode) text.Parser[*types.ASTNode] {
		tail := combinator.FlatMap(op, func(symbol string) text.Parser[*types.ASTNode] {
			return combinator.Map(g.expression, func(right *types.ASTNode) *types.ASTNode {
				return balance(symbol, left, right)
			})
		})
		return text.Optional(tail, left)
	})
}

// atom := "(" expression ")" | number | variable | call
func (g *grammar) atom() text.Parser[*types.ASTNode] {
	return combinator.OneOf(g.parens(), number(), g.variable(), g.call())
}

func (g *grammar) parens() text.Parser[*types.ASTNode] {
	open := combinator.ThenDrop(text.Char('('), text.Spaces())
	closing := combinator.DropThen(text.Spaces(), text.Char(')'))
	inner := combinator.ThenDrop(combinator.DropThen(open, g.expression), closing)
	return combinator.Map(inner, (*types.ASTNode).Group)
}
