//go:build wasip1

// Command goparsec-wasm-wasi is the WASI (wasip1) entrypoint for use from any
// language that supports the WebAssembly System Interface.
//
// Protocol: single JSON object on stdin → single JSON object on stdout.
//
//	stdin:  { "expression": "<formula>", "variables": {"x": 1}, "registers": [1, 2] }
//	stdout: { "result": <number> }     on success
//	        { "error":  "<message>" }   on failure (exit code 1)
//
// Non-finite results are written as the strings "NaN", "+Inf" and "-Inf".
//
// Build:
//
//	GOOS=wasip1 GOARCH=wasm go build -o goparsec.wasm ./cmd/wasm/wasi/
//
// Usage with wasmtime CLI:
//
//	echo '{"expression":"#x * v[0]","variables":{"x":6},"registers":[7]}' | wasmtime goparsec.wasm
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/sandrolain/goparsec/cmd/wasm/internal/protocol"
)

func writeResponse(r protocol.Response) {
	_ = json.NewEncoder(os.Stdout).Encode(r)
	if r.Failed() {
		os.Exit(1)
	}
	os.Exit(0)
}

func main() {
	var req protocol.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(protocol.Response{Error: "invalid request JSON: " + err.Error()})
	}
	writeResponse(protocol.Eval(context.Background(), req))
}
