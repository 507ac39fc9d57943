package text

// Run parses input from its first code point.
func Run[O any](p Parser[O], input string) Parsing[O] {
	return RunContext(p, []rune(input), NewContext())
}

// RunContext parses input starting from ctx. It is used to resume a parse
// midway or to nest a text parser inside a surrounding one.
func RunContext[O any](p Parser[O], input []rune, ctx Context) Parsing[O] {
	return p(input, ctx)
}

// Parse runs p on input and returns its value, or the Error describing the
// failure.
func Parse[O any](p Parser[O], input string) (O, error) {
	res := Run(p, input)
	v, err, ok := res.Outcome.Get()
	if !ok {
		return v, err
	}
	return v, nil
}
