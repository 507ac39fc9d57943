// Package protocol is the request/response model shared by the WebAssembly
// entrypoints. Every failure, including a panic raised by the evaluation,
// comes back as a Response carrying an error message, so a bad formula
// never takes down the host runtime.
package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/sandrolain/goparsec"
	"github.com/sandrolain/goparsec/pkg/evaluator"
	"github.com/sandrolain/goparsec/pkg/types"
)

// Request asks for one formula to be evaluated.
type Request struct {
	Expression string             `json:"expression"`
	Variables  map[string]float64 `json:"variables,omitempty"`
	Registers  []float64          `json:"registers,omitempty"`
}

// Response holds either a result or an error message.
type Response struct {
	Result *Number `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// Failed reports whether r carries an error.
func (r Response) Failed() bool {
	return r.Error != ""
}

// Number encodes non-finite values as the strings "NaN", "+Inf" and "-Inf",
// which JSON cannot represent.
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return json.Marshal(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return json.Marshal(f)
}

// Options converts the request bindings into evaluator options.
func (r Request) Options() []evaluator.EvalOption {
	var opts []evaluator.EvalOption
	if len(r.Variables) > 0 {
		opts = append(opts, evaluator.WithVariables(r.Variables))
	}
	if len(r.Registers) > 0 {
		opts = append(opts, evaluator.WithExternal(evaluator.Registers(r.Registers)))
	}
	return opts
}

// Eval compiles and evaluates req.Expression.
func Eval(ctx context.Context, req Request) Response {
	return Guard(func() Response {
		result, err := goparsec.EvalWithContext(ctx, req.Expression, req.Options()...)
		return respond(result, err)
	})
}

// EvalCompiled evaluates an already compiled expression with the bindings
// of req. req.Expression is ignored.
func EvalCompiled(ctx context.Context, expr *types.Expression, req Request) Response {
	return Guard(func() Response {
		result, err := evaluator.New(req.Options()...).Eval(ctx, expr)
		return respond(result, err)
	})
}

// Guard runs fn and turns a panic into an error Response.
func Guard(fn func() Response) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = Response{Error: fmt.Sprintf("internal error: %v", r)}
		}
	}()
	return fn()
}

func respond(result float64, err error) Response {
	if err != nil {
		return Response{Error: err.Error()}
	}
	n := Number(result)
	return Response{Result: &n}
}
