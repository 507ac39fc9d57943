package parser_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/sandrolain/goparsec/pkg/cache"
	"github.com/sandrolain/goparsec/pkg/combinator"
	"github.com/sandrolain/goparsec/pkg/parser"
	"github.com/sandrolain/goparsec/pkg/text"
	"github.com/sandrolain/goparsec/pkg/types"
)

func TestParseShape(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"integer", "42", "42"},
		{"negative", "-7", "-7"},
		{"negative with space", "- 3", "-3"},
		{"explicit plus", "+4", "4"},
		{"decimal", "3.25", "3.25"},
		{"leading dot", ".5", "0.5"},
		{"exponent", "-1.5e3", "-1500"},
		{"upper exponent", "1E2", "100"},
		{"negative exponent", "25e-1", "2.5"},
		{"variable", "#x", "#x"},
		{"underscore name", "#rate_2", "#rate_2"},
		{"external", "v[ #i + 1 ]", "v[(#i + 1)]"},
		{"call", "max(1, 2 , 3)", "max(1, 2, 3)"},
		{"call without arguments", "rand()", "rand()"},
		{"call with blank arguments", "rand( )", "rand()"},
		{"nested call", "min(abs(#x), 2)", "min(abs(#x), 2)"},
		{"call named v", "v(1)", "v(1)"},
		{"product over sum", "1+2*3", "(1 + (2 * 3))"},
		{"left associative", "2-3-4", "((2 - 3) - 4)"},
		{"two products", "1*2+3*4", "((1 * 2) + (3 * 4))"},
		{"mixed", "1-2*3-4", "((1 - (2 * 3)) - 4)"},
		{"power binds tightest", "1 + 2 ^ 3 * 4", "(1 + ((2 ^ 3) * 4))"},
		{"power is left associative", "2^3^2", "((2 ^ 3) ^ 2)"},
		{"parens first", "(1+2)*3", "((1 + 2) * 3)"},
		{"parens last", "2*(3+4)", "(2 * (3 + 4))"},
		{"parens keep subtraction", "10-(4-3)", "(10 - (4 - 3))"},
		{"padded", "  1 + 2  ", "(1 + 2)"},
		{"padded parens", "( 1 )", "1"},
		{"subtract negative", "2 - -3", "(2 - -3)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := parser.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.input, err)
			}
			if got := expr.AST().String(); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
			if expr.Source() != tt.input {
				t.Errorf("expected source %q, got %q", tt.input, expr.Source())
			}
		})
	}
}

func TestParseNodeTypes(t *testing.T) {
	expr, err := parser.Parse("f(#a, v[0]) + 1")
	if err != nil {
		t.Fatal(err)
	}
	root := expr.AST()
	if root.Type != types.NodeOperator || root.Operator != "+" {
		t.Fatalf("expected a + node, got %s", root.Type)
	}
	call := root.LHS
	if call.Type != types.NodeCall || call.Name != "f" || len(call.Arguments) != 2 {
		t.Fatalf("unexpected call node %+v", call)
	}
	if call.Arguments[0].Type != types.NodeVariable || call.Arguments[0].Name != "a" {
		t.Errorf("unexpected first argument %+v", call.Arguments[0])
	}
	if ext := call.Arguments[1]; ext.Type != types.NodeExternal || ext.Index.Value != 0 {
		t.Errorf("unexpected second argument %+v", ext)
	}
	if root.RHS.Type != types.NodeNumber || root.RHS.Value != 1 {
		t.Errorf("unexpected right operand %+v", root.RHS)
	}
}

func TestParsePositions(t *testing.T) {
	expr, err := parser.Parse("1 +  #x")
	if err != nil {
		t.Fatal(err)
	}
	rhs := expr.AST().RHS
	want := text.Offset{Index: 5, Row: 1, Column: 6}
	if rhs.Position != want {
		t.Errorf("expected #x at %+v, got %+v", want, rhs.Position)
	}
	if expr.AST().Position != text.Start {
		t.Errorf("expected the operation to start at 1:1, got %s", expr.AST().Position)
	}
}

func TestParseGrouping(t *testing.T) {
	expr, err := parser.Parse("(1+2)")
	if err != nil {
		t.Fatal(err)
	}
	if !expr.AST().Grouped {
		t.Error("expected the parenthesised node to be marked grouped")
	}

	expr, err = parser.Parse("1+2")
	if err != nil {
		t.Fatal(err)
	}
	if expr.AST().Grouped {
		t.Error("expected a bare operation not to be grouped")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		token    string
		column   int
	}{
		{"dangling operator", "1 +", text.EndOfInput, "+", 3},
		{"unknown operator", "1 $ 2", text.EndOfInput, "$", 3},
		{"trailing dot", "1.", text.EndOfInput, ".", 2},
		{"line break is not a space", "1 +\n2", text.EndOfInput, "+", 3},
		{"unclosed paren", "(1+2", "name", "(", 1},
		{"not an atom", "$", "name", "$", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.input)
			var perr *types.Error
			if !errors.As(err, &perr) {
				t.Fatalf("expected *types.Error, got %T (%v)", err, err)
			}
			if perr.Code != types.ErrSyntaxError {
				t.Errorf("expected code %s, got %s", types.ErrSyntaxError, perr.Code)
			}
			if perr.Expected != tt.expected || perr.Token != tt.token {
				t.Errorf("expected %q/%q, got %q/%q", tt.expected, tt.token, perr.Expected, perr.Token)
			}
			if perr.Line != 1 || perr.Column != tt.column {
				t.Errorf("expected 1:%d, got %d:%d", tt.column, perr.Line, perr.Column)
			}
			var terr text.Error
			if !errors.As(err, &terr) {
				t.Error("expected the text error to be wrapped")
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, in := range []string{"", "   "} {
		_, err := parser.Parse(in)
		var perr *types.Error
		if !errors.As(err, &perr) || perr.Code != types.ErrSyntaxError {
			t.Errorf("Parse(%q): expected a syntax error, got %v", in, err)
		}
	}
}

func TestCompileLenient(t *testing.T) {
	expr, err := parser.Compile("1+2 and more", parser.WithStrict(false))
	if err != nil {
		t.Fatal(err)
	}
	if got := expr.AST().String(); got != "(1 + 2)" {
		t.Errorf("expected (1 + 2), got %s", got)
	}

	if _, err := parser.Compile("1+2 and more"); err == nil {
		t.Error("expected strict compilation to reject trailing input")
	}
}

func TestCompileWithCache(t *testing.T) {
	c := cache.New(4)
	first, err := parser.Compile("#a * 2", parser.WithCache(c))
	if err != nil {
		t.Fatal(err)
	}
	second, err := parser.Compile("#a * 2", parser.WithCache(c))
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("expected the cached expression to be reused")
	}

	if _, err := parser.Compile("#a * 2", parser.WithCache(c), parser.WithStrict(false)); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Errorf("strict and lenient compilations should be cached apart, got %d entries", c.Len())
	}

	if _, err := parser.Compile("#a *", parser.WithCache(c)); err == nil {
		t.Error("expected a syntax error")
	}
	if c.Len() != 2 {
		t.Errorf("failures must not be cached, got %d entries", c.Len())
	}
}

func TestExpressionEmbedding(t *testing.T) {
	stmt := combinator.ThenDrop(parser.Expression(), text.Char(';'))
	res := text.Run(stmt, "1+2;")
	ast, err, ok := res.Outcome.Get()
	if !ok {
		t.Fatalf("expected success, got %v", err)
	}
	if ast.String() != "(1 + 2)" {
		t.Errorf("unexpected AST %s", ast)
	}
	if res.Context.Offset().Index != 4 {
		t.Errorf("expected to stop after ';', got %s", res.Context.Offset())
	}
}

func TestParseDeepNesting(t *testing.T) {
	const depth = 2000
	src := strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth)
	expr, err := parser.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	if got := expr.AST().String(); got != "1" {
		t.Errorf("expected 1, got %s", got)
	}
}

func TestParseLongChain(t *testing.T) {
	src := "1" + strings.Repeat("-1", 500)
	expr, err := parser.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	// left associative: the leftmost leaf sits at the bottom of the LHS spine
	depth := 0
	for n := expr.AST(); n.Type == types.NodeOperator; n = n.LHS {
		if n.RHS.Type != types.NodeNumber {
			t.Fatalf("expected a number on the right at depth %d, got %s", depth, n.RHS.Type)
		}
		depth++
	}
	if depth != 500 {
		t.Errorf("expected 500 operations on the left spine, got %d", depth)
	}
}

func TestParseLongMixedChain(t *testing.T) {
	src := "1" + strings.Repeat(" + 2 * 3", 1000)
	expr, err := parser.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	// every product stays intact on the right of a sum
	depth := 0
	n := expr.AST()
	for ; n.Type == types.NodeOperator; n = n.LHS {
		if n.Operator != "+" {
			t.Fatalf("expected + on the spine at depth %d, got %s", depth, n.Operator)
		}
		if got := n.RHS.String(); got != "(2 * 3)" {
			t.Fatalf("expected (2 * 3) at depth %d, got %s", depth, got)
		}
		depth++
	}
	if depth != 1000 || n.String() != "1" {
		t.Errorf("expected 1000 sums down to 1, got %d down to %s", depth, n)
	}
}
