package functions

import (
	"maps"
	"math"
	"math/rand/v2"
)

// builtins is the process-wide built-in table. It is never modified after
// initialisation; Builtins hands out copies.
//
// Built-ins follow the usual floating point library conventions rather than
// enforcing an argument count: a missing argument reads as NaN and extra
// arguments are ignored.
var builtins = Table{
	"min":   variadic("min", minimum),
	"max":   variadic("max", maximum),
	"avg":   variadic("avg", average),
	"hypot": variadic("hypot", hypot),
	"rand":  variadic("rand", func(...float64) float64 { return rand.Float64() }),

	"abs":   unary("abs", math.Abs),
	"sign":  unary("sign", sign),
	"exp":   unary("exp", math.Exp),
	"log":   unary("log", math.Log),
	"log10": unary("log10", math.Log10),
	"log2":  unary("log2", math.Log2),
	"ceil":  unary("ceil", math.Ceil),
	"floor": unary("floor", math.Floor),
	"sqrt":  unary("sqrt", math.Sqrt),
	"sin":   unary("sin", math.Sin),
	"sinh":  unary("sinh", math.Sinh),
	"asin":  unary("asin", math.Asin),
	"cos":   unary("cos", math.Cos),
	"cosh":  unary("cosh", math.Cosh),
	"acos":  unary("acos", math.Acos),
	"tan":   unary("tan", math.Tan),
	"tanh":  unary("tanh", math.Tanh),
	"atan":  unary("atan", math.Atan),
}

// Builtins returns a copy of the built-in table.
func Builtins() Table {
	return maps.Clone(builtins)
}

// LookupBuiltin returns the built-in registered under name.
func LookupBuiltin(name string) (CustomFunctionDef, bool) {
	return builtins.Lookup(name)
}

func variadic(name string, fn func(...float64) float64) CustomFunctionDef {
	return CustomFunctionDef{Name: name, MaxArgs: Variadic, Fn: Pure(fn)}
}

func unary(name string, fn func(float64) float64) CustomFunctionDef {
	return variadic(name, func(args ...float64) float64 {
		return fn(Arg(args, 0))
	})
}

// Arg returns args[i], or NaN when there are not enough arguments.
func Arg(args []float64, i int) float64 {
	if i < len(args) {
		return args[i]
	}
	return math.NaN()
}

// minimum returns +Inf for no arguments and NaN if any argument is NaN.
// -0 is smaller than +0.
func minimum(args ...float64) float64 {
	m := math.Inf(1)
	for _, v := range args {
		if math.IsNaN(v) {
			return v
		}
		if v < m || (v == 0 && m == 0 && math.Signbit(v)) {
			m = v
		}
	}
	return m
}

// maximum returns -Inf for no arguments and NaN if any argument is NaN.
func maximum(args ...float64) float64 {
	m := math.Inf(-1)
	for _, v := range args {
		if math.IsNaN(v) {
			return v
		}
		if v > m || (v == 0 && m == 0 && !math.Signbit(v)) {
			m = v
		}
	}
	return m
}

// average of no arguments is NaN.
func average(args ...float64) float64 {
	sum := 0.0
	for _, v := range args {
		sum += v
	}
	return sum / float64(len(args))
}

// hypot is the square root of the sum of squares. Any infinite argument
// gives +Inf, even alongside NaN.
func hypot(args ...float64) float64 {
	h := 0.0
	nan := false
	for _, v := range args {
		switch {
		case math.IsInf(v, 0):
			return math.Inf(1)
		case math.IsNaN(v):
			nan = true
		default:
			h = math.Hypot(h, v)
		}
	}
	if nan {
		return math.NaN()
	}
	return h
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return x // ±0 and NaN
	}
}
