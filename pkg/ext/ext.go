// Package ext provides optional extension functions beyond the built-in
// table.
//
// The extension functions live in sub-packages grouped by category:
//   - extnumeric:  log with base, trunc, round, mod, clamp, atan2, pi, e, median, …
//   - extdatetime: now, year, month, addDays, diffMonths, startOfDay, …
//
// # Integration: all extensions at once
//
//	import "github.com/sandrolain/goparsec/pkg/ext"
//
//	result, err := goparsec.Eval("round(pi(), 2)", ext.WithAll())
//
// # Integration: single function from a sub-package
//
//	import "github.com/sandrolain/goparsec/pkg/ext/extnumeric"
//
//	result, err := goparsec.Eval("clamp(#x, 0, 1)",
//	    goparsec.WithCustomFunction(extnumeric.Clamp()),
//	)
package ext

import (
	"github.com/sandrolain/goparsec/pkg/evaluator"
	"github.com/sandrolain/goparsec/pkg/ext/extdatetime"
	"github.com/sandrolain/goparsec/pkg/ext/extnumeric"
	"github.com/sandrolain/goparsec/pkg/functions"
)

// All returns every extension function as one table.
func All() functions.Table {
	return extnumeric.Table().Merge(extdatetime.Table())
}

// WithAll returns an EvalOption that registers all extension functions.
func WithAll() evaluator.EvalOption {
	return evaluator.WithFunctions(All())
}

// WithNumeric returns an EvalOption for the extended numeric functions.
func WithNumeric() evaluator.EvalOption {
	return evaluator.WithFunctions(extnumeric.Table())
}

// WithDateTime returns an EvalOption for the date/time functions.
func WithDateTime() evaluator.EvalOption {
	return evaluator.WithFunctions(extdatetime.Table())
}
