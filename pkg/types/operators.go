package types

import (
	"math"
	"sort"
)

// Operator is a binary arithmetic operator. Higher priorities bind tighter.
type Operator struct {
	Symbol   string
	Priority int
	Apply    func(a, b float64) float64
}

// operators is the process-wide operator registry. It is never modified
// after initialisation.
var operators = map[string]Operator{
	"+": {Symbol: "+", Priority: 0, Apply: func(a, b float64) float64 { return a + b }},
	"-": {Symbol: "-", Priority: 0, Apply: func(a, b float64) float64 { return a - b }},
	"*": {Symbol: "*", Priority: 1, Apply: func(a, b float64) float64 { return a * b }},
	"/": {Symbol: "/", Priority: 1, Apply: func(a, b float64) float64 { return a / b }},
	"^": {Symbol: "^", Priority: 2, Apply: math.Pow},
}

// LookupOperator returns the operator registered for symbol.
func LookupOperator(symbol string) (Operator, bool) {
	op, ok := operators[symbol]
	return op, ok
}

// OperatorSymbols returns the registered symbols, sorted.
func OperatorSymbols() []string {
	symbols := make([]string, 0, len(operators))
	for s := range operators {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// Priority returns the priority of symbol, or -1 if it is not an operator.
func Priority(symbol string) int {
	if op, ok := operators[symbol]; ok {
		return op.Priority
	}
	return -1
}
