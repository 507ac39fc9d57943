// Package extnumeric provides numeric functions beyond the built-in table.
package extnumeric

import (
	"errors"
	"math"

	"github.com/sandrolain/goparsec/pkg/ext/extutil"
	"github.com/sandrolain/goparsec/pkg/functions"
)

// All returns all extended numeric function definitions.
func All() []functions.CustomFunctionDef {
	return []functions.CustomFunctionDef{
		Log(),
		Trunc(),
		Round(),
		Mod(),
		Clamp(),
		Atan2(),
		Deg(),
		Rad(),
		Pi(),
		E(),
		Sum(),
		Median(),
		Variance(),
		Stddev(),
		Percentile(),
		Mode(),
	}
}

// Table returns All as a function table.
func Table() functions.Table {
	return extutil.Table(All()...)
}

// Log returns the definition for log(n [, base]). It shadows the built-in
// natural logarithm and, unlike it, rejects non-positive input.
func Log() functions.CustomFunctionDef {
	return extutil.Def("log", 1, 2, func(args ...float64) (float64, error) {
		n := args[0]
		if n <= 0 {
			return 0, errors.New("argument must be positive")
		}
		if len(args) == 2 {
			base := args[1]
			if base <= 0 || base == 1 {
				return 0, errors.New("base must be positive and not 1")
			}
			return math.Log(n) / math.Log(base), nil
		}
		return math.Log(n), nil
	})
}

// Trunc returns the definition for trunc(n), truncating toward zero.
func Trunc() functions.CustomFunctionDef {
	return extutil.Unary("trunc", math.Trunc)
}

// Round returns the definition for round(n [, digits]). Halves round away
// from zero.
func Round() functions.CustomFunctionDef {
	return extutil.Def("round", 1, 2, func(args ...float64) (float64, error) {
		if len(args) == 1 {
			return math.Round(args[0]), nil
		}
		scale := math.Pow(10, math.Trunc(args[1]))
		return math.Round(args[0]*scale) / scale, nil
	})
}

// Mod returns the definition for mod(a, b), the remainder with the sign
// of a.
func Mod() functions.CustomFunctionDef {
	return extutil.Def("mod", 2, 2, func(args ...float64) (float64, error) {
		return math.Mod(args[0], args[1]), nil
	})
}

// Clamp returns the definition for clamp(n, min, max).
func Clamp() functions.CustomFunctionDef {
	return extutil.Def("clamp", 3, 3, func(args ...float64) (float64, error) {
		n, lo, hi := args[0], args[1], args[2]
		if lo > hi {
			return 0, errors.New("min must not exceed max")
		}
		return math.Min(math.Max(n, lo), hi), nil
	})
}

// Atan2 returns the definition for atan2(y, x).
func Atan2() functions.CustomFunctionDef {
	return extutil.Def("atan2", 2, 2, func(args ...float64) (float64, error) {
		return math.Atan2(args[0], args[1]), nil
	})
}

// Deg returns the definition for deg(radians).
func Deg() functions.CustomFunctionDef {
	return extutil.Unary("deg", func(r float64) float64 { return r * 180 / math.Pi })
}

// Rad returns the definition for rad(degrees).
func Rad() functions.CustomFunctionDef {
	return extutil.Unary("rad", func(d float64) float64 { return d * math.Pi / 180 })
}

// Pi returns the definition for pi().
func Pi() functions.CustomFunctionDef {
	return extutil.Const("pi", math.Pi)
}

// E returns the definition for e().
func E() functions.CustomFunctionDef {
	return extutil.Const("e", math.E)
}

// Sum returns the definition for sum(values...).
func Sum() functions.CustomFunctionDef {
	return extutil.Def("sum", 0, functions.Variadic, func(args ...float64) (float64, error) {
		s := 0.0
		for _, v := range args {
			s += v
		}
		return s, nil
	})
}

// Median returns the definition for median(values...).
func Median() functions.CustomFunctionDef {
	return extutil.Def("median", 1, functions.Variadic, func(args ...float64) (float64, error) {
		sorted := extutil.Sorted(args)
		mid := len(sorted) / 2
		if len(sorted)%2 == 0 {
			return (sorted[mid-1] + sorted[mid]) / 2, nil
		}
		return sorted[mid], nil
	})
}

// Variance returns the definition for variance(values...), the population
// variance.
func Variance() functions.CustomFunctionDef {
	return extutil.Def("variance", 1, functions.Variadic, func(args ...float64) (float64, error) {
		return variance(args), nil
	})
}

// Stddev returns the definition for stddev(values...), the population
// standard deviation.
func Stddev() functions.CustomFunctionDef {
	return extutil.Def("stddev", 1, functions.Variadic, func(args ...float64) (float64, error) {
		return math.Sqrt(variance(args)), nil
	})
}

// Percentile returns the definition for percentile(p, values...), with p
// in [0, 100] and linear interpolation between ranks.
func Percentile() functions.CustomFunctionDef {
	return extutil.Def("percentile", 2, functions.Variadic, func(args ...float64) (float64, error) {
		p := args[0]
		if p < 0 || p > 100 {
			return 0, errors.New("p must be between 0 and 100")
		}
		sorted := extutil.Sorted(args[1:])
		idx := p / 100 * float64(len(sorted)-1)
		lo := int(math.Floor(idx))
		hi := int(math.Ceil(idx))
		if lo == hi {
			return sorted[lo], nil
		}
		frac := idx - float64(lo)
		return sorted[lo]*(1-frac) + sorted[hi]*frac, nil
	})
}

// Mode returns the definition for mode(values...). Ties resolve to the
// smallest value.
func Mode() functions.CustomFunctionDef {
	return extutil.Def("mode", 1, functions.Variadic, func(args ...float64) (float64, error) {
		counts := make(map[float64]int, len(args))
		for _, n := range args {
			counts[n]++
		}
		best, bestCount := math.NaN(), 0
		for _, n := range extutil.Sorted(args) {
			if c := counts[n]; c > bestCount {
				best, bestCount = n, c
			}
		}
		return best, nil
	})
}

func variance(nums []float64) float64 {
	sum := 0.0
	for _, n := range nums {
		sum += n
	}
	mean := sum / float64(len(nums))
	v := 0.0
	for _, n := range nums {
		diff := n - mean
		v += diff * diff
	}
	return v / float64(len(nums))
}
