// Package combinator implements a small algebra of parser values.
//
// A Parser is an immutable function from an input and a threaded context to
// a Parsing: the remaining input, the resulting context and an Outcome.
// Parsers are built once from constants and combinators and then reused for
// every invocation; they carry no per-parse state.
//
// # Backtracking
//
// Every combinator in this package honours one contract: when a parser
// fails, the Parsing it returns carries the input and context it was given.
// Or relies on it to retry its fallback from the original position, so a
// failed branch never leaks a partially advanced context.
//
// # Example
//
//	digits := combinator.Many1(digit)
//	number := combinator.Map(digits, toInt)
//	res := number.Run(input, start)
//	if n, _, ok := res.Outcome.Get(); ok {
//	    fmt.Println(n, res.Context)
//	}
//
// Recursive grammars use Lazy so that building a rule never recurses,
// while running it still may.
package combinator

import "sync"

// Parsing is what a Parser produces for one invocation.
type Parsing[I, O, E, C any] struct {
	Rest    I
	Context C
	Outcome Outcome[O, E]
}

// Parser parses values of type O from an input of type I, failing with
// errors of type E and threading a context of type C.
type Parser[I, O, E, C any] func(input I, ctx C) Parsing[I, O, E, C]

// Run invokes the parser.
func (p Parser[I, O, E, C]) Run(input I, ctx C) Parsing[I, O, E, C] {
	return p(input, ctx)
}

// Or returns a parser trying p first and, if it fails, running fallback
// against the original input and context. The fallback's failure is the one
// surfaced when both fail.
func (p Parser[I, O, E, C]) Or(fallback Parser[I, O, E, C]) Parser[I, O, E, C] {
	return func(input I, ctx C) Parsing[I, O, E, C] {
		res := p(input, ctx)
		if res.Outcome.ok {
			return res
		}
		return fallback(input, ctx)
	}
}

// Filter returns a parser accepting only values satisfying pred. Rejected
// values fail with the error built by fail from the value and the context
// the parser started from.
func (p Parser[I, O, E, C]) Filter(pred func(O) bool, fail func(O, C) E) Parser[I, O, E, C] {
	return func(input I, ctx C) Parsing[I, O, E, C] {
		res := p(input, ctx)
		if !res.Outcome.ok {
			return failed[I, O](input, ctx, res.Outcome.err)
		}
		if !pred(res.Outcome.value) {
			return failed[I, O](input, ctx, fail(res.Outcome.value, ctx))
		}
		return res
	}
}

func failed[I, O, E, C any](input I, ctx C, err E) Parsing[I, O, E, C] {
	return Parsing[I, O, E, C]{Rest: input, Context: ctx, Outcome: Failure[O](err)}
}

// Pure returns a parser that succeeds with value without consuming input.
func Pure[I, O, E, C any](value O) Parser[I, O, E, C] {
	return func(input I, ctx C) Parsing[I, O, E, C] {
		return Parsing[I, O, E, C]{Rest: input, Context: ctx, Outcome: Success[O, E](value)}
	}
}

// Fail returns a parser that always fails with err without consuming input.
func Fail[I, O, E, C any](err E) Parser[I, O, E, C] {
	return func(input I, ctx C) Parsing[I, O, E, C] {
		return failed[I, O](input, ctx, err)
	}
}

// Map transforms the value of a successful parse. Failures pass through as
// returned by p.
func Map[I, O, U, E, C any](p Parser[I, O, E, C], f func(O) U) Parser[I, U, E, C] {
	return func(input I, ctx C) Parsing[I, U, E, C] {
		res := p(input, ctx)
		if !res.Outcome.ok {
			return Parsing[I, U, E, C]{Rest: res.Rest, Context: res.Context, Outcome: Failure[U](res.Outcome.err)}
		}
		return Parsing[I, U, E, C]{Rest: res.Rest, Context: res.Context, Outcome: Success[U, E](f(res.Outcome.value))}
	}
}

// FlatMap runs p and feeds its value to f, running the returned parser on
// the remaining input. If either step fails, the failure is reported with
// the input and context FlatMap was called with.
func FlatMap[I, O, U, E, C any](p Parser[I, O, E, C], f func(O) Parser[I, U, E, C]) Parser[I, U, E, C] {
	return func(input I, ctx C) Parsing[I, U, E, C] {
		first := p(input, ctx)
		if !first.Outcome.ok {
			return failed[I, U](input, ctx, first.Outcome.err)
		}
		second := f(first.Outcome.value)(first.Rest, first.Context)
		if !second.Outcome.ok {
			return failed[I, U](input, ctx, second.Outcome.err)
		}
		return second
	}
}

// MapError transforms the error of a failed parse. Successes and contexts
// are left untouched.
func MapError[I, O, E, F, C any](p Parser[I, O, E, C], f func(E) F) Parser[I, O, F, C] {
	return func(input I, ctx C) Parsing[I, O, F, C] {
		res := p(input, ctx)
		if res.Outcome.ok {
			return Parsing[I, O, F, C]{Rest: res.Rest, Context: res.Context, Outcome: Success[O, F](res.Outcome.value)}
		}
		return Parsing[I, O, F, C]{Rest: res.Rest, Context: res.Context, Outcome: Failure[O](f(res.Outcome.err))}
	}
}

// Pair holds two values parsed in sequence.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Zip runs p then q and pairs their values.
func Zip[I, A, B, E, C any](p Parser[I, A, E, C], q Parser[I, B, E, C]) Parser[I, Pair[A, B], E, C] {
	return FlatMap(p, func(a A) Parser[I, Pair[A, B], E, C] {
		return Map(q, func(b B) Pair[A, B] { return Pair[A, B]{First: a, Second: b} })
	})
}

// ThenDrop runs p then q, keeping the value of p.
func ThenDrop[I, O, U, E, C any](p Parser[I, O, E, C], q Parser[I, U, E, C]) Parser[I, O, E, C] {
	return FlatMap(p, func(v O) Parser[I, O, E, C] {
		return Map(q, func(U) O { return v })
	})
}

// DropThen runs p then q, keeping the value of q.
func DropThen[I, O, U, E, C any](p Parser[I, O, E, C], q Parser[I, U, E, C]) Parser[I, U, E, C] {
	return FlatMap(p, func(O) Parser[I, U, E, C] { return q })
}

// Lazy defers building a parser until it first runs and then reuses the
// built parser for every later invocation. It makes self-referential rules
// possible: the factory may refer to the parser being defined.
func Lazy[I, O, E, C any](factory func() Parser[I, O, E, C]) Parser[I, O, E, C] {
	var (
		once sync.Once
		p    Parser[I, O, E, C]
	)
	return func(input I, ctx C) Parsing[I, O, E, C] {
		once.Do(func() { p = factory() })
		return p(input, ctx)
	}
}
