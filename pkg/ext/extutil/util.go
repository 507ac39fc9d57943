// Package extutil provides shared helpers for the ext sub-packages.
package extutil

import (
	"context"
	"fmt"
	"slices"

	"github.com/sandrolain/goparsec/pkg/functions"
)

// Def builds a definition accepting minArgs to maxArgs arguments. fn errors are
// prefixed with the function name.
func Def(name string, minArgs, maxArgs int, fn func(args ...float64) (float64, error)) functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    name,
		MinArgs: minArgs,
		MaxArgs: maxArgs,
		Fn: func(_ context.Context, args ...float64) (float64, error) {
			v, err := fn(args...)
			if err != nil {
				return 0, fmt.Errorf("%s: %w", name, err)
			}
			return v, nil
		},
	}
}

// Unary builds a one-argument definition from fn.
func Unary(name string, fn func(float64) float64) functions.CustomFunctionDef {
	return Def(name, 1, 1, func(args ...float64) (float64, error) {
		return fn(args[0]), nil
	})
}

// Const builds a zero-argument definition returning v.
func Const(name string, v float64) functions.CustomFunctionDef {
	return Def(name, 0, 0, func(...float64) (float64, error) {
		return v, nil
	})
}

// Sorted returns a sorted copy of values.
func Sorted(values []float64) []float64 {
	s := slices.Clone(values)
	slices.Sort(s)
	return s
}

// Table collects definitions into a function table.
func Table(defs ...functions.CustomFunctionDef) functions.Table {
	t := make(functions.Table, len(defs))
	for _, d := range defs {
		t.Add(d)
	}
	return t
}
