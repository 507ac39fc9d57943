package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandrolain/goparsec/pkg/evaluator"
	"github.com/sandrolain/goparsec/pkg/parser"
)

type evalFlags struct {
	vars      []string
	registers []float64
	wasm      []string
	ext       bool
	debug     bool
	timeout   time.Duration
}

func newEvalCmd(g *globalFlags) *cobra.Command {
	var f evalFlags

	cmd := &cobra.Command{
		Use:   "eval [formula]",
		Short: "Evaluate a formula and print the result",
		Example: `  calc eval '1 + 2 * 3'
  calc eval '#w * #h' --var w=3 --var h=4
  calc eval 'v[0] + v[1]' --register 1.5 --register 2.5
  calc eval 'stddev(2, 4, 4, 4, 5, 5, 7, 9)' --ext`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, g, &f, args)
		},
	}

	cmd.Flags().StringArrayVar(&f.vars, "var", nil, "bind a variable, name=value (repeatable)")
	cmd.Flags().Float64SliceVar(&f.registers, "register", nil, "register values backing v[index]")
	cmd.Flags().StringArrayVar(&f.wasm, "wasm", nil, "load numeric functions from a WebAssembly module (repeatable)")
	cmd.Flags().BoolVar(&f.ext, "ext", false, "enable the extended function library")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "log function calls and missing bindings")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "evaluation timeout (default from config)")
	return cmd
}

func runEval(cmd *cobra.Command, g *globalFlags, f *evalFlags, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	vars, err := parseVars(f.vars)
	if err != nil {
		return err
	}

	h, err := newHost(ctx, cfg, f.wasm)
	if err != nil {
		return err
	}
	defer h.Close(ctx)

	opts := withExtensions(nil, f.ext)
	opts = append(opts, h.opts...)
	if len(vars) > 0 {
		opts = append(opts, evaluator.WithVariables(vars))
	}
	if len(f.registers) > 0 {
		opts = append(opts, evaluator.WithExternal(evaluator.Registers(f.registers)))
	}
	if f.timeout > 0 {
		opts = append(opts, evaluator.WithTimeout(f.timeout))
	}
	if f.debug {
		opts = append(opts, evaluator.WithDebug(true))
	}

	expr, err := parser.Compile(g.formula(cfg, args))
	if err != nil {
		return err
	}
	result, err := evaluator.New(opts...).Eval(ctx, expr)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), resultStyle.Render(strconv.FormatFloat(result, 'g', -1, 64)))
	return nil
}
