package parser

import (
	"strconv"
	"strings"

	"github.com/sandrolain/goparsec/pkg/combinator"
	"github.com/sandrolain/goparsec/pkg/text"
	"github.com/sandrolain/goparsec/pkg/types"
)

// digits accepts one or more arabic digits and returns them verbatim.
func digits() text.Parser[string] {
	return combinator.Map(combinator.Many1(text.Digit()), func(ds []int) string {
		var b strings.Builder
		for _, d := range ds {
			b.WriteByte(byte('0' + d))
		}
		return b.String()
	})
}

// sign accepts "-" followed by optional spaces, or "+". Without either the
// number is positive.
func sign() text.Parser[string] {
	minus := combinator.ThenDrop(combinator.Map(text.Char('-'), func(rune) string { return "-" }), text.Spaces())
	plus := combinator.Map(text.Char('+'), func(rune) string { return "" })
	return text.Optional(minus.Or(plus), "")
}

// exponent accepts e or E, an optional sign and digits.
func exponent() text.Parser[string] {
	marker := text.Satisfy("e", func(r rune) bool { return r == 'e' || r == 'E' })
	expSign := text.Optional(combinator.Map(text.Satisfy("sign", func(r rune) bool {
		return r == '-' || r == '+'
	}), func(r rune) string { return string(r) }), "")

	return combinator.DropThen(marker, combinator.FlatMap(expSign, func(s string) text.Parser[string] {
		return combinator.Map(digits(), func(d string) string { return "e" + s + d })
	}))
}

// fraction accepts a dot followed by digits.
func fraction() text.Parser[string] {
	return combinator.Map(combinator.DropThen(text.Char('.'), digits()), func(d string) string {
		return "." + d
	})
}

// unsigned accepts integer[.fraction][exponent] or .fraction[exponent].
func unsigned() text.Parser[string] {
	withExponent := func(mantissa string) text.Parser[string] {
		return combinator.Map(text.Optional(exponent(), ""), func(e string) string {
			return mantissa + e
		})
	}
	integral := combinator.FlatMap(digits(), func(i string) text.Parser[string] {
		return combinator.FlatMap(text.Optional(fraction(), ""), func(f string) text.Parser[string] {
			return withExponent(i + f)
		})
	})
	fractional := combinator.FlatMap(fraction(), func(f string) text.Parser[string] {
		return withExponent("0" + f)
	})
	return integral.Or(fractional)
}

// number accepts a signed decimal literal. The sign applies to the whole
// literal, fraction and exponent included. Literals too large for a float64
// become ±Inf.
func number() text.Parser[*types.ASTNode] {
	literal := combinator.FlatMap(text.Position(), func(pos text.Offset) text.Parser[*types.ASTNode] {
		return combinator.FlatMap(sign(), func(s string) text.Parser[*types.ASTNode] {
			return combinator.Map(unsigned(), func(u string) *types.ASTNode {
				// Only ErrRange is possible here; its result is the
				// correctly signed infinity or zero.
				v, _ := strconv.ParseFloat(s+u, 64)
				return types.NewNumber(v, pos)
			})
		})
	})
	return combinator.MapError(literal, func(e text.Error) text.Error {
		return e.Expecting("number")
	})
}
