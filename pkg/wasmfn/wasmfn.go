// Package wasmfn exposes the exports of a WebAssembly module as arithmetic
// functions.
//
// Every exported function whose parameters and single result are all f64
// becomes callable from expressions under its export name. Other exports
// are ignored. Modules run on the wazero runtime and need no host imports.
//
// # Example
//
//	mod, err := wasmfn.LoadFile(ctx, "geometry.wasm")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer mod.Close(ctx)
//
//	result, err := goparsec.Eval("area(#w, #h)", goparsec.WithFunctions(mod.Functions()))
package wasmfn

import (
	"context"
	"fmt"
	"maps"
	"os"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/sandrolain/goparsec/pkg/functions"
)

// Module is an instantiated WebAssembly module. Calls into it are
// serialised; it is safe for concurrent use.
type Module struct {
	mu      sync.Mutex
	runtime wazero.Runtime
	module  api.Module
	table   functions.Table
	skipped []string
}

// Options configures loading.
type Options struct {
	// Prefix is prepended to every export name.
	Prefix string
}

// Option configures loading.
type Option func(*Options)

// WithPrefix registers exports as prefix+name, so several modules can be
// loaded side by side.
func WithPrefix(prefix string) Option {
	return func(o *Options) {
		o.Prefix = prefix
	}
}

// LoadFile reads and instantiates the module at path.
func LoadFile(ctx context.Context, path string, opts ...Option) (*Module, error) {
	bin, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wasm module: %w", err)
	}
	return Load(ctx, bin, opts...)
}

// Load compiles and instantiates a module from its binary form.
func Load(ctx context.Context, bin []byte, opts ...Option) (*Module, error) {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}

	// Closing on context done lets a cancelled evaluation interrupt a
	// function stuck in a loop.
	runtime := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithCloseOnContextDone(true))

	compiled, err := runtime.CompileModule(ctx, bin)
	if err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("compile wasm module: %w", err)
	}
	instance, err := runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("instantiate wasm module: %w", err)
	}

	m := &Module{
		runtime: runtime,
		module:  instance,
		table:   functions.Table{},
	}
	for name, def := range compiled.ExportedFunctions() {
		if !isNumeric(def) {
			m.skipped = append(m.skipped, name)
			continue
		}
		m.table.Add(m.bind(options.Prefix+name, instance.ExportedFunction(name), len(def.ParamTypes())))
	}
	return m, nil
}

// isNumeric reports whether def has the shape (f64...) -> f64.
func isNumeric(def api.FunctionDefinition) bool {
	results := def.ResultTypes()
	if len(results) != 1 || results[0] != api.ValueTypeF64 {
		return false
	}
	for _, p := range def.ParamTypes() {
		if p != api.ValueTypeF64 {
			return false
		}
	}
	return true
}

func (m *Module) bind(name string, fn api.Function, arity int) functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    name,
		MinArgs: arity,
		MaxArgs: arity,
		Fn: func(ctx context.Context, args ...float64) (float64, error) {
			params := make([]uint64, len(args))
			for i, a := range args {
				params[i] = api.EncodeF64(a)
			}

			m.mu.Lock()
			results, err := fn.Call(ctx, params...)
			m.mu.Unlock()
			if err != nil {
				return 0, fmt.Errorf("wasm %s: %w", name, err)
			}
			return api.DecodeF64(results[0]), nil
		},
	}
}

// Functions returns the numeric exports as a function table.
func (m *Module) Functions() functions.Table {
	return maps.Clone(m.table)
}

// Skipped returns the exports that were not registered because their
// signature is not numeric.
func (m *Module) Skipped() []string {
	return m.skipped
}

// Close releases the runtime. Functions obtained from the module fail
// afterwards.
func (m *Module) Close(ctx context.Context) error {
	return m.runtime.Close(ctx)
}
