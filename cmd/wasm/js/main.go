//go:build js && wasm

// Command goparsec-wasm-js is the WebAssembly entrypoint for browser and Node.js.
//
// It exposes a global `goparsec` object with the following API:
//
//	goparsec.version()                  → string
//	goparsec.eval(formula, variables?)  → number | Error
//	goparsec.compile(formula)           → { eval(variables?) → number | Error, ast: string, release() } | Error
//
// Failures are returned, not thrown: check the result with
// `instanceof Error`. The Go runtime keeps running after any failure.
// Call release() on a compiled handle once it is no longer needed.
//
// variables is a plain object mapping names to numbers. An optional
// "registers" array backs v[index] references.
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o goparsec.wasm ./cmd/wasm/js/
//
// Usage in Node.js:
//
//	const gp = await load()
//	gp.eval('#w * #h', { w: 3, h: 4 })            // 12
//	gp.eval('v[0] + 1', { registers: [41] })       // 42
//	const r = gp.eval('1 +')
//	if (r instanceof Error) console.error(r.message)
package main

import (
	"context"
	"fmt"
	"syscall/js"

	"github.com/sandrolain/goparsec"
	"github.com/sandrolain/goparsec/cmd/wasm/internal/protocol"
	"github.com/sandrolain/goparsec/pkg/types"
)

func jsError(msg string) js.Value {
	return js.Global().Get("Error").New(msg)
}

// toJS converts a response into the number or the Error handed back to JS.
func toJS(prefix string, resp protocol.Response) any {
	if resp.Failed() {
		return jsError(prefix + ": " + resp.Error)
	}
	return float64(*resp.Result)
}

// request reads bindings from a JS object. The "registers" key, when it
// holds an array, backs v[index]; every other numeric key is a variable.
func request(v js.Value) protocol.Request {
	var req protocol.Request
	if v.Type() != js.TypeObject {
		return req
	}

	keys := js.Global().Get("Object").Call("keys", v)
	for i := 0; i < keys.Length(); i++ {
		key := keys.Index(i).String()
		val := v.Get(key)
		switch {
		case key == "registers" && val.InstanceOf(js.Global().Get("Array")):
			req.Registers = make([]float64, val.Length())
			for j := range req.Registers {
				req.Registers[j] = val.Index(j).Float()
			}
		case val.Type() == js.TypeNumber:
			if req.Variables == nil {
				req.Variables = make(map[string]float64)
			}
			req.Variables[key] = val.Float()
		}
	}
	return req
}

func argOrUndefined(args []js.Value, i int) js.Value {
	if i < len(args) {
		return args[i]
	}
	return js.Undefined()
}

// jsEval implements goparsec.eval(formula, variables?).
func jsEval(_ js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return jsError("goparsec.eval requires a formula (string)")
	}
	resp := protocol.Guard(func() protocol.Response {
		req := request(argOrUndefined(args, 1))
		req.Expression = args[0].String()
		return protocol.Eval(context.Background(), req)
	})
	return toJS("goparsec.eval", resp)
}

// jsCompile implements goparsec.compile(formula).
func jsCompile(_ js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return jsError("goparsec.compile requires a formula (string)")
	}

	expr, err := goparsec.Compile(args[0].String())
	if err != nil {
		return jsError(fmt.Sprintf("goparsec.compile: %v", err))
	}
	return compiledHandle(expr)
}

func compiledHandle(expr *types.Expression) js.Value {
	var evalFn, releaseFn js.Func
	evalFn = js.FuncOf(func(_ js.Value, args []js.Value) any {
		resp := protocol.Guard(func() protocol.Response {
			return protocol.EvalCompiled(context.Background(), expr, request(argOrUndefined(args, 0)))
		})
		return toJS("compiled.eval", resp)
	})
	releaseFn = js.FuncOf(func(_ js.Value, _ []js.Value) any {
		evalFn.Release()
		releaseFn.Release()
		return js.Undefined()
	})

	return js.ValueOf(map[string]any{
		"eval":    evalFn,
		"ast":     expr.AST().String(),
		"release": releaseFn,
	})
}

func main() {
	api := map[string]any{
		"eval":    js.FuncOf(jsEval),
		"compile": js.FuncOf(jsCompile),
		"version": js.FuncOf(func(_ js.Value, _ []js.Value) any {
			return goparsec.Version()
		}),
	}
	js.Global().Set("goparsec", js.ValueOf(api))

	// Block forever: the JS event loop owns execution from here.
	select {}
}
