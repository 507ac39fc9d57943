package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandrolain/goparsec/pkg/parser"
	"github.com/sandrolain/goparsec/pkg/types"
)

// errInvalid is returned by check after the diagnostic has been printed.
var errInvalid = errors.New("invalid formula")

func newCheckCmd(g *globalFlags) *cobra.Command {
	var lenient bool

	cmd := &cobra.Command{
		Use:   "check [formula]",
		Short: "Check the syntax of a formula",
		Example: `  calc check '2 * (3 + 4)'
  calc check '1 + 2 junk' --lenient`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			src := g.formula(cfg, args)
			expr, err := parser.Compile(src, parser.WithStrict(!lenient))
			if err != nil {
				var perr *types.Error
				if !errors.As(err, &perr) {
					return err
				}
				writeDiagnostic(cmd.OutOrStdout(), src, perr)
				return errInvalid
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("ok"), mutedStyle.Render(expr.AST().String()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&lenient, "lenient", false, "accept trailing input after the formula")
	return cmd
}

// writeDiagnostic prints the offending source line with a caret under the
// reported column.
func writeDiagnostic(w io.Writer, src string, perr *types.Error) {
	fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("%s at %d:%d:", perr.Code, perr.Line, perr.Column)), perr.Message)
	if perr.Line < 1 {
		return
	}
	lines := strings.Split(src, "\n")
	if perr.Line > len(lines) {
		return
	}
	line := lines[perr.Line-1]
	col := max(perr.Column, 1)
	fmt.Fprintln(w, "  "+sourceStyle.Render(line))
	fmt.Fprintln(w, "  "+strings.Repeat(" ", col-1)+caretStyle.Render("^"))
}
