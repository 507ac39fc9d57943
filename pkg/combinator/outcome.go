package combinator

// Outcome is the result of a single parse step: either a parsed value or an
// error, never both. The zero value is a failure carrying the zero error.
type Outcome[V, E any] struct {
	value V
	err   E
	ok    bool
}

// Success creates a successful outcome holding value.
func Success[V, E any](value V) Outcome[V, E] {
	return Outcome[V, E]{value: value, ok: true}
}

// Failure creates a failed outcome holding err.
func Failure[V, E any](err E) Outcome[V, E] {
	return Outcome[V, E]{err: err}
}

// Ok reports whether the outcome is a success.
func (o Outcome[V, E]) Ok() bool {
	return o.ok
}

// Value returns the parsed value. It is the zero value on failure.
func (o Outcome[V, E]) Value() V {
	return o.value
}

// Err returns the error payload. It is the zero value on success.
func (o Outcome[V, E]) Err() E {
	return o.err
}

// Get returns value, error and the success flag in one call.
func (o Outcome[V, E]) Get() (V, E, bool) {
	return o.value, o.err, o.ok
}
