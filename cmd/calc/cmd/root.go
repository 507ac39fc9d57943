// Package cmd implements the calc command line.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/sandrolain/goparsec/pkg/config"
	"github.com/sandrolain/goparsec/pkg/evaluator"
	"github.com/sandrolain/goparsec/pkg/ext"
	"github.com/sandrolain/goparsec/pkg/wasmfn"
)

// flags shared by every command.
type globalFlags struct {
	cfgFile string
	nfc     bool
}

// NewRootCmd builds the calc command tree.
func NewRootCmd() *cobra.Command {
	var g globalFlags

	root := &cobra.Command{
		Use:   "calc",
		Short: "Evaluate arithmetic formulas",
		Long: `calc parses and evaluates arithmetic formulas.

A formula combines numbers, variables (#name), registers (v[index]) and
function calls with + - * / and ^:

  calc eval '#price * (1 + #vat)' --var price=100 --var vat=0.2
  calc ast '1 + 2 * 3'
  calc check '2 * (3 + 4'`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&g.cfgFile, "config", "", "config file (default: $"+config.EnvVar+", ./goparsec.toml)")
	root.PersistentFlags().BoolVar(&g.nfc, "nfc", false, "normalise the formula to Unicode NFC before parsing")

	root.AddCommand(
		newEvalCmd(&g),
		newASTCmd(&g),
		newCheckCmd(&g),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		printError(root, err)
	}
	return err
}

func printError(cmd *cobra.Command, err error) {
	fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render("Error:"), err)
}

func (g *globalFlags) loadConfig() (*config.Config, error) {
	if g.cfgFile != "" {
		return config.Load(g.cfgFile)
	}
	return config.LoadFromEnv()
}

// formula joins the arguments into one formula and normalises it when
// requested.
func (g *globalFlags) formula(cfg *config.Config, args []string) string {
	src := strings.Join(args, " ")
	if g.nfc || (cfg != nil && cfg.Normalize) {
		src = norm.NFC.String(src)
	}
	return src
}

// host collects everything an evaluation needs from configuration and
// flags. Close releases the loaded WebAssembly modules.
type host struct {
	opts    []evaluator.EvalOption
	logger  *slog.Logger
	modules []*wasmfn.Module
}

func newHost(ctx context.Context, cfg *config.Config, wasmPaths []string) (*host, error) {
	h := &host{
		logger: cfg.NewLogger(os.Stderr),
	}
	h.opts = append(h.opts, cfg.EvalOptions()...)
	h.opts = append(h.opts, evaluator.WithLogger(h.logger))

	paths := append(append([]string{}, cfg.WasmModules...), wasmPaths...)
	for _, p := range paths {
		m, err := wasmfn.LoadFile(ctx, p)
		if err != nil {
			h.Close(ctx)
			return nil, err
		}
		for _, name := range m.Skipped() {
			h.logger.Debug("skipping non-numeric export", "module", p, "export", name)
		}
		h.modules = append(h.modules, m)
		h.opts = append(h.opts, evaluator.WithFunctions(m.Functions()))
	}
	return h, nil
}

func (h *host) Close(ctx context.Context) {
	for _, m := range h.modules {
		if err := m.Close(ctx); err != nil {
			h.logger.Warn("closing wasm module", "error", err)
		}
	}
	h.modules = nil
}

// parseVars parses name=value pairs.
func parseVars(pairs []string) (map[string]float64, error) {
	vars := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.TrimPrefix(strings.TrimSpace(name), "#")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid variable %q, expected name=value", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", name, err)
		}
		vars[name] = v
	}
	return vars, nil
}

func withExtensions(opts []evaluator.EvalOption, enabled bool) []evaluator.EvalOption {
	if !enabled {
		return opts
	}
	return append(opts, ext.WithAll())
}
