package parser

import (
	"github.com/sandrolain/goparsec/pkg/combinator"
	"github.com/sandrolain/goparsec/pkg/text"
)

// name accepts one or more letters, digits or underscores.
func name() text.Parser[string] {
	char := text.Alphanumeric().Or(text.Char('_'))
	p := combinator.Map(combinator.Many1(char), func(rs []rune) string { return string(rs) })
	return combinator.MapError(p, func(e text.Error) text.Error {
		return e.Expecting("name")
	})
}
