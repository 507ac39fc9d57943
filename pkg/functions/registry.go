// Package functions provides the function tables used by arithmetic
// expressions.
//
// A call such as max(#a, 2) is resolved by name against the caller's
// table first and the built-in table second. Hosts register their own
// functions through [goparsec.WithFunction] or [goparsec.WithCustomFunction].
//
// # Example
//
//	result, err := goparsec.Eval("double(#x)",
//	    goparsec.WithVariable("x", 21),
//	    goparsec.WithFunction("double", func(ctx context.Context, args ...float64) (float64, error) {
//	        return 2 * args[0], nil
//	    }),
//	)
//	// result == 42
package functions

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/sandrolain/goparsec/pkg/types"
)

// Variadic as MaxArgs lifts the upper bound on the argument count.
const Variadic = -1

// Func is the signature of every callable function. args holds the
// evaluated arguments in order.
type Func func(ctx context.Context, args ...float64) (float64, error)

// CustomFunctionDef describes a named function together with its accepted
// argument count.
type CustomFunctionDef struct {
	// Name is the function name as it appears inside expressions.
	Name string
	// MinArgs is the smallest accepted argument count.
	MinArgs int
	// MaxArgs is the largest accepted argument count, or Variadic.
	MaxArgs int
	// Fn is the implementation.
	Fn Func
}

// CheckArity returns a T0410 error when n arguments are not accepted.
func (d CustomFunctionDef) CheckArity(n int) error {
	if n < d.MinArgs || (d.MaxArgs != Variadic && n > d.MaxArgs) {
		return types.NewError(types.ErrArgumentCountMismatch,
			fmt.Sprintf("%s: %s, got %d", d.Name, d.arity(), n), -1)
	}
	return nil
}

func (d CustomFunctionDef) arity() string {
	switch {
	case d.MaxArgs == Variadic:
		return fmt.Sprintf("expected at least %d arguments", d.MinArgs)
	case d.MinArgs == d.MaxArgs:
		return fmt.Sprintf("expected %d arguments", d.MinArgs)
	default:
		return fmt.Sprintf("expected %d to %d arguments", d.MinArgs, d.MaxArgs)
	}
}

// Call checks the argument count and invokes the function.
func (d CustomFunctionDef) Call(ctx context.Context, args ...float64) (float64, error) {
	if err := d.CheckArity(len(args)); err != nil {
		return 0, err
	}
	return d.Fn(ctx, args...)
}

// Table maps function names to definitions.
type Table map[string]CustomFunctionDef

// Lookup returns the definition registered under name.
func (t Table) Lookup(name string) (CustomFunctionDef, bool) {
	d, ok := t[name]
	return d, ok
}

// Add registers d under d.Name, replacing any previous definition.
func (t Table) Add(d CustomFunctionDef) {
	t[d.Name] = d
}

// Merge returns a new table holding t overlaid with other.
func (t Table) Merge(other Table) Table {
	merged := maps.Clone(t)
	if merged == nil {
		merged = make(Table, len(other))
	}
	maps.Copy(merged, other)
	return merged
}

// Names returns the registered names, sorted.
func (t Table) Names() []string {
	return slices.Sorted(maps.Keys(t))
}

// FromFuncs builds a table of variadic functions.
func FromFuncs(fns map[string]Func) Table {
	t := make(Table, len(fns))
	for name, fn := range fns {
		t[name] = CustomFunctionDef{Name: name, MaxArgs: Variadic, Fn: fn}
	}
	return t
}

// Pure adapts a context-free function.
func Pure(fn func(args ...float64) float64) Func {
	return func(_ context.Context, args ...float64) (float64, error) {
		return fn(args...), nil
	}
}
