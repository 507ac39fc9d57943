package combinator

// Sequence runs parsers left to right, each one continuing where the
// previous success left off, and collects their values in order. The first
// failure aborts the whole sequence. An empty sequence succeeds with an
// empty slice.
func Sequence[I, O, E, C any](parsers ...Parser[I, O, E, C]) Parser[I, []O, E, C] {
	if len(parsers) == 0 {
		return Pure[I, []O, E, C]([]O{})
	}
	acc := Map(parsers[0], func(v O) []O { return []O{v} })
	for _, next := range parsers[1:] {
		acc = FlatMap(acc, func(mine []O) Parser[I, []O, E, C] {
			return Map(next, func(theirs O) []O {
				out := make([]O, len(mine), len(mine)+1)
				copy(out, mine)
				return append(out, theirs)
			})
		})
	}
	return acc
}

// OneOf chains alternatives with Or. Each alternative is tried against the
// original input; the first success wins. When all fail, the failure of the
// last alternative is reported and the earlier ones are discarded.
func OneOf[I, O, E, C any](first Parser[I, O, E, C], rest ...Parser[I, O, E, C]) Parser[I, O, E, C] {
	p := first
	for _, alt := range rest {
		p = p.Or(alt)
	}
	return p
}

// Many1 accepts one or more repetitions of p.
func Many1[I, O, E, C any](p Parser[I, O, E, C]) Parser[I, []O, E, C] {
	return FlatMap(p, func(head O) Parser[I, []O, E, C] {
		return Map(Many(p), func(tail []O) []O {
			return append([]O{head}, tail...)
		})
	})
}

// Many accepts zero or more repetitions of p. Repetition stops at the first
// failure of p, which is discarded. A p that succeeds without consuming
// input makes Many loop forever.
func Many[I, O, E, C any](p Parser[I, O, E, C]) Parser[I, []O, E, C] {
	return Many1(p).Or(Pure[I, []O, E, C]([]O{}))
}
