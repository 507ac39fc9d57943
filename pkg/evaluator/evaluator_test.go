package evaluator_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/sandrolain/goparsec/pkg/evaluator"
	"github.com/sandrolain/goparsec/pkg/functions"
	"github.com/sandrolain/goparsec/pkg/parser"
	"github.com/sandrolain/goparsec/pkg/types"
)

func eval(t *testing.T, query string, opts ...evaluator.EvalOption) (float64, error) {
	t.Helper()
	expr, err := parser.Parse(query)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", query, err)
	}
	return evaluator.New(opts...).Eval(context.Background(), expr)
}

func mustEval(t *testing.T, query string, opts ...evaluator.EvalOption) float64 {
	t.Helper()
	v, err := eval(t, query, opts...)
	if err != nil {
		t.Fatalf("Eval(%q) failed: %v", query, err)
	}
	return v
}

func errorCode(t *testing.T, err error) types.ErrorCode {
	t.Helper()
	var terr *types.Error
	if !errors.As(err, &terr) {
		t.Fatalf("expected *types.Error, got %T (%v)", err, err)
	}
	return terr.Code
}

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		query string
		want  float64
	}{
		{"42", 42},
		{"1+2*3", 7},
		{"2-3-4", -5},
		{"(1+2)*3", 9},
		{"1*2+3*4", 14},
		{"1-2*3-4", -9},
		{"2^3^2", 64},
		{"2^(3^2)", 512},
		{"8/4/2", 1},
		{"10-(4-3)", 9},
		{"-2*-3", 6},
		{"- 1.5e1 + .5", -14.5},
		{"1 + 2 ^ 3 * 4", 33},
		{"((((5))))", 5},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := mustEval(t, tt.query); got != tt.want {
				t.Errorf("%s = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestEvalIEEE(t *testing.T) {
	if got := mustEval(t, "1/0"); !math.IsInf(got, 1) {
		t.Errorf("1/0 = %v, want +Inf", got)
	}
	if got := mustEval(t, "0/0"); !math.IsNaN(got) {
		t.Errorf("0/0 = %v, want NaN", got)
	}
	if got := mustEval(t, "1e999 - 1e999"); !math.IsNaN(got) {
		t.Errorf("Inf-Inf = %v, want NaN", got)
	}
}

func TestEvalVariables(t *testing.T) {
	got := mustEval(t, "#price * (1 + #vat)",
		evaluator.WithVariables(map[string]float64{"price": 100, "vat": 0.25}))
	if got != 125 {
		t.Errorf("expected 125, got %v", got)
	}

	got = mustEval(t, "#a + #a", evaluator.WithVariable("a", 1), evaluator.WithVariable("a", 4))
	if got != 8 {
		t.Errorf("the last binding should win, got %v", got)
	}
}

func TestEvalMissingVariable(t *testing.T) {
	_, err := eval(t, "1 + #x")
	if !types.IsMissingBinding(err) {
		t.Fatalf("expected a missing binding, got %v", err)
	}
	if code := errorCode(t, err); code != types.ErrUndefinedVariable {
		t.Errorf("expected %s, got %s", types.ErrUndefinedVariable, code)
	}
	var terr *types.Error
	errors.As(err, &terr)
	if terr.Line != 1 || terr.Column != 5 || terr.Token != "#x" {
		t.Errorf("unexpected location %d:%d token %q", terr.Line, terr.Column, terr.Token)
	}
}

func TestEvalWithBindings(t *testing.T) {
	expr, err := parser.Parse("#a + #b")
	if err != nil {
		t.Fatal(err)
	}
	ev := evaluator.New(evaluator.WithVariables(map[string]float64{"a": 1, "b": 2}))

	got, err := ev.EvalWithBindings(context.Background(), expr, map[string]float64{"b": 40})
	if err != nil || got != 41 {
		t.Errorf("expected 41, got %v, %v", got, err)
	}
	got, err = ev.Eval(context.Background(), expr)
	if err != nil || got != 3 {
		t.Errorf("per-call bindings must not leak, got %v, %v", got, err)
	}
}

func TestEvalExternal(t *testing.T) {
	regs := evaluator.Registers([]float64{10, 20, 30})

	if got := mustEval(t, "v[1] + v[#i + 1]", evaluator.WithExternal(regs), evaluator.WithVariable("i", 1)); got != 50 {
		t.Errorf("expected 50, got %v", got)
	}

	var seen []float64
	lookup := func(_ context.Context, index float64) (float64, error) {
		seen = append(seen, index)
		return index * 2, nil
	}
	if got := mustEval(t, "v[2 * 3]", evaluator.WithExternal(lookup)); got != 12 {
		t.Errorf("expected 12, got %v", got)
	}
	if len(seen) != 1 || seen[0] != 6 {
		t.Errorf("expected the lookup to see the evaluated index, got %v", seen)
	}
}

func TestEvalExternalMissing(t *testing.T) {
	_, err := eval(t, "v[0]")
	if !types.IsMissingBinding(err) || errorCode(t, err) != types.ErrUndefinedExternal {
		t.Errorf("expected %s without a lookup, got %v", types.ErrUndefinedExternal, err)
	}

	_, err = eval(t, "v[5]", evaluator.WithExternal(evaluator.Registers([]float64{1})))
	if !types.IsMissingBinding(err) || errorCode(t, err) != types.ErrUndefinedExternal {
		t.Errorf("expected %s out of range, got %v", types.ErrUndefinedExternal, err)
	}
	if !strings.Contains(err.Error(), "out of range") {
		t.Errorf("expected the lookup error in the message, got %v", err)
	}

	_, err = eval(t, "v[0.5]", evaluator.WithExternal(evaluator.Registers([]float64{1})))
	if !types.IsMissingBinding(err) {
		t.Errorf("expected a fractional register to be missing, got %v", err)
	}
}

func TestChain(t *testing.T) {
	first := evaluator.Registers([]float64{1, 2})
	second := func(_ context.Context, index float64) (float64, error) {
		if index == 7 {
			return 70, nil
		}
		return 0, errors.New("nope")
	}
	lookup := evaluator.Chain(first, second)

	if got := mustEval(t, "v[1] + v[7]", evaluator.WithExternal(lookup)); got != 72 {
		t.Errorf("expected 72, got %v", got)
	}
	if _, err := eval(t, "v[9]", evaluator.WithExternal(lookup)); !types.IsMissingBinding(err) {
		t.Errorf("expected a missing binding, got %v", err)
	}
}

func TestEvalBuiltins(t *testing.T) {
	tests := []struct {
		query string
		want  float64
	}{
		{"max(1, 5, 3)", 5},
		{"min(4, -2)", -2},
		{"abs(-3) + sqrt(16)", 7},
		{"avg(1, 2, 3)", 2},
		{"floor(2.7) + ceil(2.1)", 5},
		{"hypot(3, 4)", 5},
		{"max()", math.Inf(-1)},
		{"log2(8)", 3},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := mustEval(t, tt.query); got != tt.want {
				t.Errorf("%s = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestEvalFunctionOverride(t *testing.T) {
	got := mustEval(t, "max(1, 2)", evaluator.WithFunction("max", func(_ context.Context, _ ...float64) (float64, error) {
		return -1, nil
	}))
	if got != -1 {
		t.Errorf("caller functions should shadow built-ins, got %v", got)
	}
}

func TestEvalArgumentOrder(t *testing.T) {
	var order []float64
	record := func(_ context.Context, args ...float64) (float64, error) {
		order = append(order, args[0])
		return args[0], nil
	}
	mustEval(t, "f(1) + f(2) * f(3) + g(f(4), f(5))",
		evaluator.WithFunction("f", record),
		evaluator.WithFunction("g", func(_ context.Context, args ...float64) (float64, error) { return 0, nil }))

	want := []float64{1, 2, 3, 4, 5}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestEvalUnknownFunction(t *testing.T) {
	_, err := eval(t, "nope(1)")
	if !types.IsMissingBinding(err) || errorCode(t, err) != types.ErrUndefinedFunction {
		t.Errorf("expected %s, got %v", types.ErrUndefinedFunction, err)
	}
}

func TestEvalFunctionTables(t *testing.T) {
	table := functions.FromFuncs(map[string]functions.Func{
		"triple": functions.Pure(func(args ...float64) float64 { return 3 * functions.Arg(args, 0) }),
	})
	if got := mustEval(t, "triple(#x)", evaluator.WithFunctions(table), evaluator.WithVariable("x", 2)); got != 6 {
		t.Errorf("expected 6, got %v", got)
	}
}

func TestEvalArity(t *testing.T) {
	def := functions.CustomFunctionDef{
		Name: "pair", MinArgs: 2, MaxArgs: 2,
		Fn: func(_ context.Context, args ...float64) (float64, error) { return args[0] + args[1], nil },
	}
	if got := mustEval(t, "pair(1, 2)", evaluator.WithCustomFunction(def)); got != 3 {
		t.Errorf("expected 3, got %v", got)
	}

	_, err := eval(t, "1 + pair(1)", evaluator.WithCustomFunction(def))
	if code := errorCode(t, err); code != types.ErrArgumentCountMismatch {
		t.Fatalf("expected %s, got %s", types.ErrArgumentCountMismatch, code)
	}
	var terr *types.Error
	errors.As(err, &terr)
	if terr.Column != 5 {
		t.Errorf("expected the error at column 5, got %d", terr.Column)
	}
}

func TestEvalFunctionFailure(t *testing.T) {
	boom := errors.New("boom")
	_, err := eval(t, "bad()", evaluator.WithFunction("bad", func(context.Context, ...float64) (float64, error) {
		return 0, boom
	}))
	if code := errorCode(t, err); code != types.ErrFunctionFailed {
		t.Errorf("expected %s, got %s", types.ErrFunctionFailed, code)
	}
	if !errors.Is(err, boom) {
		t.Error("expected the function error to be wrapped")
	}
}

func TestEvalCancelled(t *testing.T) {
	expr, err := parser.Parse("1 + 1")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := evaluator.New().Eval(ctx, expr); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEvalTimeout(t *testing.T) {
	slow := func(ctx context.Context, _ ...float64) (float64, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	_, err := eval(t, "slow()", evaluator.WithFunction("slow", slow), evaluator.WithTimeout(10*time.Millisecond))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected a deadline error, got %v", err)
	}
}

func TestEvalMaxDepth(t *testing.T) {
	query := strings.Repeat("abs(", 50) + "1" + strings.Repeat(")", 50)

	_, err := eval(t, query, evaluator.WithMaxDepth(10))
	if code := errorCode(t, err); code != types.ErrStackOverflow {
		t.Errorf("expected %s, got %s", types.ErrStackOverflow, code)
	}
	if got := mustEval(t, query); got != 1 {
		t.Errorf("expected 1 with the default depth, got %v", got)
	}
	if got := mustEval(t, query, evaluator.WithMaxDepth(0)); got != 1 {
		t.Errorf("expected 1 without a depth guard, got %v", got)
	}
}

func TestEvalMaxDepthCountsOperatorChains(t *testing.T) {
	// 30 terms: the leftmost leaf sits 29 levels down
	query := "1" + strings.Repeat("+1", 29)

	_, err := eval(t, query, evaluator.WithMaxDepth(28))
	if code := errorCode(t, err); code != types.ErrStackOverflow {
		t.Errorf("expected %s, got %s", types.ErrStackOverflow, code)
	}
	if got := mustEval(t, query, evaluator.WithMaxDepth(29)); got != 30 {
		t.Errorf("expected 30 at the exact depth, got %v", got)
	}
	if got := mustEval(t, query, evaluator.WithMaxDepth(-1)); got != 30 {
		t.Errorf("expected 30 without a depth guard, got %v", got)
	}
}

func TestEvalDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mustEval(t, "abs(-1)", evaluator.WithLogger(logger), evaluator.WithDebug(true))
	if !strings.Contains(buf.String(), "calling function") {
		t.Errorf("expected a call to be logged, got %q", buf.String())
	}

	buf.Reset()
	eval(t, "#missing", evaluator.WithLogger(logger), evaluator.WithDebug(true))
	if !strings.Contains(buf.String(), "missing binding") {
		t.Errorf("expected the missing binding to be logged, got %q", buf.String())
	}

	buf.Reset()
	mustEval(t, "abs(-1)", evaluator.WithLogger(logger))
	if buf.Len() != 0 {
		t.Errorf("expected no output without debug, got %q", buf.String())
	}
}

func TestEvalInvalidExpression(t *testing.T) {
	if _, err := evaluator.New().Eval(context.Background(), nil); err == nil {
		t.Error("expected an error for a nil expression")
	}
}

func TestEvalAST(t *testing.T) {
	expr, err := parser.Parse("#n * 2")
	if err != nil {
		t.Fatal(err)
	}
	ev := evaluator.New()
	scope := evaluator.NewContext(map[string]float64{"n": 21})
	got, err := ev.EvalAST(context.Background(), expr.AST(), scope)
	if err != nil || got != 42 {
		t.Errorf("expected 42, got %v, %v", got, err)
	}
}

func TestEvalContextCopiesBindings(t *testing.T) {
	expr, err := parser.Parse("#n + #m")
	if err != nil {
		t.Fatal(err)
	}
	defaults := map[string]float64{"n": 1}
	ev := evaluator.New(evaluator.WithVariables(defaults))
	bindings := map[string]float64{"m": 2}
	scope := evaluator.NewContext(map[string]float64{"n": 10}).NewChildContext(bindings)

	defaults["n"] = 100
	bindings["m"] = 200

	if got, err := ev.EvalWithBindings(context.Background(), expr, map[string]float64{"m": 2}); err != nil || got != 3 {
		t.Errorf("expected the defaults to be copied, got %v, %v", got, err)
	}
	if got, err := ev.EvalAST(context.Background(), expr.AST(), scope); err != nil || got != 12 {
		t.Errorf("expected the scope to be copied, got %v, %v", got, err)
	}
}

func TestEvalSharedContextConcurrent(t *testing.T) {
	expr, err := parser.Parse("#a * #b")
	if err != nil {
		t.Fatal(err)
	}
	ev := evaluator.New()
	scope := evaluator.NewContext(map[string]float64{"a": 6}).NewChildContext(map[string]float64{"b": 7})

	done := make(chan error, 16)
	for range 16 {
		go func() {
			v, err := ev.EvalAST(context.Background(), expr.AST(), scope)
			if err == nil && v != 42 {
				err = errors.New("wrong result")
			}
			done <- err
		}()
	}
	for range 16 {
		if err := <-done; err != nil {
			t.Error(err)
		}
	}
}

func TestEvalConcurrent(t *testing.T) {
	expr, err := parser.Parse("#x * #x")
	if err != nil {
		t.Fatal(err)
	}
	ev := evaluator.New()
	done := make(chan error, 16)
	for i := range 16 {
		go func() {
			x := float64(i)
			v, err := ev.EvalWithBindings(context.Background(), expr, map[string]float64{"x": x})
			if err == nil && v != x*x {
				err = errors.New("wrong result")
			}
			done <- err
		}()
	}
	for range 16 {
		if err := <-done; err != nil {
			t.Error(err)
		}
	}
}
