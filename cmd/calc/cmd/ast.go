package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sandrolain/goparsec/pkg/parser"
	"github.com/sandrolain/goparsec/pkg/types"
)

func newASTCmd(g *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "ast [formula]",
		Short: "Print the syntax tree of a formula",
		Example: `  calc ast '1 + 2 * 3'
  calc ast 'max(#a, v[2])' --format yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			expr, err := parser.Compile(g.formula(cfg, args))
			if err != nil {
				return err
			}

			tree := nodeMap(expr.AST())
			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(tree)
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(tree); err != nil {
					return err
				}
				return enc.Close()
			case "text":
				_, err := fmt.Fprintln(out, expr.AST().String())
				return err
			default:
				return fmt.Errorf("unknown format %q (json, yaml, text)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, yaml or text")
	return cmd
}

// nodeMap converts n into plain maps so it can be encoded by both the JSON
// and the YAML encoder.
func nodeMap(n *types.ASTNode) map[string]any {
	m := map[string]any{
		"type":     string(n.Type),
		"position": fmt.Sprintf("%d:%d", n.Position.Row, n.Position.Column),
	}
	if n.Grouped {
		m["grouped"] = true
	}
	switch n.Type {
	case types.NodeNumber:
		m["value"] = n.Value
	case types.NodeVariable:
		m["name"] = n.Name
	case types.NodeExternal:
		m["index"] = nodeMap(n.Index)
	case types.NodeCall:
		args := make([]any, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = nodeMap(a)
		}
		m["name"] = n.Name
		m["arguments"] = args
	case types.NodeOperator:
		m["operator"] = n.Operator
		m["lhs"] = nodeMap(n.LHS)
		m["rhs"] = nodeMap(n.RHS)
	}
	return m
}
