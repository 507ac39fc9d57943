package text

// String accepts the literal s. Line breaks inside s move the row forward
// and the column restarts after the last one.
func String(s string) Parser[string] {
	pattern := []rune(s)
	delta := spanOffset(pattern)

	return func(input []rune, ctx Context) Parsing[string] {
		i := ctx.offset.Index
		if i > len(input) {
			i = len(input)
		}
		for j, r := range pattern {
			if i+j >= len(input) || input[i+j] != r {
				return failure[string](input, ctx, s, observed(input, i, len(pattern)))
			}
		}
		return success(input, ctx.Advance(delta), s)
	}
}

// observed returns up to n code points of input starting at i, or
// EndOfInput when nothing is left.
func observed(input []rune, i, n int) string {
	if i >= len(input) {
		return EndOfInput
	}
	end := min(i+n, len(input))
	return string(input[i:end])
}
