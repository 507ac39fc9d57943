package text

import "fmt"

// EndOfInput is reported as the actual token when a parser hits the end of
// the input.
const EndOfInput = "<eos>"

// Error describes why a text parser failed: what it expected, what it saw
// instead and where it looked.
type Error struct {
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Offset   Offset `json:"offset"`
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Offset.String() + ": " + e.Describe()
}

// Describe renders the expectation without the location.
func (e Error) Describe() string {
	return fmt.Sprintf("expected %s, got %s", quote(e.Expected), quote(e.Actual))
}

// Expecting returns a copy of e with a different expectation. It is meant
// for MapError when a composite parser describes itself.
func (e Error) Expecting(expected string) Error {
	e.Expected = expected
	return e
}

func quote(s string) string {
	if s == EndOfInput {
		return s
	}
	return fmt.Sprintf("'%s'", s)
}
