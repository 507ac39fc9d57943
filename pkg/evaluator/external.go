package evaluator

import (
	"context"
	"fmt"
	"math"
)

// Registers returns a lookup resolving v[i] to values[i]. The index must
// be a whole number within range.
func Registers(values []float64) ExternalFunc {
	return func(_ context.Context, index float64) (float64, error) {
		if index != math.Trunc(index) || index < 0 || index >= float64(len(values)) {
			return 0, fmt.Errorf("register %g out of range [0, %d)", index, len(values))
		}
		return values[int(index)], nil
	}
}

// Chain returns a lookup that tries each lookup in turn and returns the
// first success. The last error is returned when all fail.
func Chain(lookups ...ExternalFunc) ExternalFunc {
	return func(ctx context.Context, index float64) (float64, error) {
		err := fmt.Errorf("no lookup for index %g", index)
		for _, lookup := range lookups {
			v, lerr := lookup(ctx, index)
			if lerr == nil {
				return v, nil
			}
			err = lerr
		}
		return 0, err
	}
}
