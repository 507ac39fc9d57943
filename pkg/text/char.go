// Package text specialises the combinator engine for textual input.
//
// Text parsers read a slice of code points and thread a Context holding
// the current Offset (index, row, column). The input itself is never
// sliced: every parser returns it whole as the rest and only the context
// moves, so a failure can always report an exact location.
//
// # Example
//
//	greeting := text.String("hello")
//	res := text.Run(greeting, "hello world")
//	if v, _, ok := res.Outcome.Get(); ok {
//	    fmt.Println(v, res.Context.Offset()) // hello 1:6
//	}
package text

import (
	"github.com/sandrolain/goparsec/pkg/combinator"
)

// Parser is a parser over code points producing values of type O.
type Parser[O any] = combinator.Parser[[]rune, O, Error, Context]

// Parsing is the result of running a Parser.
type Parsing[O any] = combinator.Parsing[[]rune, O, Error, Context]

func success[O any](input []rune, ctx Context, value O) Parsing[O] {
	return Parsing[O]{Rest: input, Context: ctx, Outcome: combinator.Success[O, Error](value)}
}

func failure[O any](input []rune, ctx Context, expected, actual string) Parsing[O] {
	err := Error{Expected: expected, Actual: actual, Offset: ctx.offset}
	return Parsing[O]{Rest: input, Context: ctx, Outcome: combinator.Failure[O](err)}
}

// charOffset is how far a single code point moves the context.
func charOffset(r rune) Offset {
	if r == '\n' {
		return Offset{Index: 1, Row: 1}
	}
	return Offset{Index: 1, Column: 1}
}

// AnyChar accepts any single code point.
func AnyChar() Parser[rune] {
	return func(input []rune, ctx Context) Parsing[rune] {
		i := ctx.offset.Index
		if i >= len(input) {
			return failure[rune](input, ctx, "any character", EndOfInput)
		}
		return success(input, ctx.Advance(charOffset(input[i])), input[i])
	}
}

// Char accepts exactly the code point c.
func Char(c rune) Parser[rune] {
	return Satisfy(string(c), func(r rune) bool { return r == c })
}

// Satisfy accepts a single code point for which pred holds. expected
// describes the accepted code points in errors.
func Satisfy(expected string, pred func(rune) bool) Parser[rune] {
	p := AnyChar().Filter(pred, func(r rune, ctx Context) Error {
		return Error{Expected: expected, Actual: string(r), Offset: ctx.offset}
	})
	return combinator.MapError(p, func(e Error) Error { return e.Expecting(expected) })
}
