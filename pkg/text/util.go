package text

import (
	"unicode"

	"github.com/sandrolain/goparsec/pkg/combinator"
)

// Digit accepts a single arabic digit and returns its value.
func Digit() Parser[int] {
	digit := Satisfy("0-9", func(r rune) bool { return '0' <= r && r <= '9' })
	return combinator.Map(digit, func(r rune) int { return int(r - '0') })
}

// Letter accepts a single Unicode letter.
func Letter() Parser[rune] {
	return Satisfy("letter", unicode.IsLetter)
}

// Alphanumeric accepts a letter or an arabic digit.
func Alphanumeric() Parser[rune] {
	digit := combinator.Map(Digit(), func(d int) rune { return '0' + rune(d) })
	return combinator.MapError(Letter().Or(digit), func(e Error) Error {
		return e.Expecting("letter or digit")
	})
}

// EOS succeeds, consuming nothing, when the input is exhausted.
func EOS() Parser[struct{}] {
	return func(input []rune, ctx Context) Parsing[struct{}] {
		i := ctx.offset.Index
		if i >= len(input) {
			return success(input, ctx, struct{}{})
		}
		return failure[struct{}](input, ctx, EndOfInput, string(input[i]))
	}
}

// Spaces accepts zero or more space characters and returns them. It never
// fails.
func Spaces() Parser[string] {
	return combinator.Map(combinator.Many(Char(' ')), func(rs []rune) string {
		return string(rs)
	})
}

// Position succeeds with the current offset without consuming anything.
func Position() Parser[Offset] {
	return func(input []rune, ctx Context) Parsing[Offset] {
		return success(input, ctx, ctx.offset)
	}
}

// Pure succeeds with v without consuming anything.
func Pure[O any](v O) Parser[O] {
	return combinator.Pure[[]rune, O, Error, Context](v)
}

// Optional runs p and falls back to fallback, consuming nothing, when p
// fails.
func Optional[O any](p Parser[O], fallback O) Parser[O] {
	return p.Or(Pure(fallback))
}
