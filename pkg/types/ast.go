package types

import (
	"strconv"
	"strings"

	"github.com/sandrolain/goparsec/pkg/text"
)

// NodeType identifies the type of an AST node.
type NodeType string

// AST node types.
const (
	NodeNumber   NodeType = "number"   // 42, -1.5e3
	NodeVariable NodeType = "variable" // #name
	NodeExternal NodeType = "external" // v[index]
	NodeCall     NodeType = "call"     // name(args...)
	NodeOperator NodeType = "operator" // left op right
)

// ASTNode is a node of a parsed arithmetic expression. Nodes are built
// bottom-up by the parser and never modified afterwards.
type ASTNode struct {
	Type     NodeType
	Value    float64     // NodeNumber
	Name     string      // NodeVariable, NodeCall
	Operator string      // NodeOperator symbol
	Position text.Offset // where the node starts in the source

	// Relations
	LHS       *ASTNode   // NodeOperator left operand
	RHS       *ASTNode   // NodeOperator right operand
	Index     *ASTNode   // NodeExternal index expression
	Arguments []*ASTNode // NodeCall arguments

	// Grouped marks a node written inside parentheses. Operator balancing
	// never rotates through a grouped node.
	Grouped bool
}

// NewNumber creates a number literal node.
func NewNumber(value float64, pos text.Offset) *ASTNode {
	return &ASTNode{Type: NodeNumber, Value: value, Position: pos}
}

// NewVariable creates a free variable reference node.
func NewVariable(name string, pos text.Offset) *ASTNode {
	return &ASTNode{Type: NodeVariable, Name: name, Position: pos}
}

// NewExternal creates a reference resolved by the host through index.
func NewExternal(index *ASTNode, pos text.Offset) *ASTNode {
	return &ASTNode{Type: NodeExternal, Index: index, Position: pos}
}

// NewCall creates a function call node.
func NewCall(name string, args []*ASTNode, pos text.Offset) *ASTNode {
	return &ASTNode{Type: NodeCall, Name: name, Arguments: args, Position: pos}
}

// NewOperator creates a binary operation node positioned at its left
// operand.
func NewOperator(op string, lhs, rhs *ASTNode) *ASTNode {
	n := &ASTNode{Type: NodeOperator, Operator: op, LHS: lhs, RHS: rhs}
	if lhs != nil {
		n.Position = lhs.Position
	}
	return n
}

// Group returns a copy of n marked as parenthesised.
func (n *ASTNode) Group() *ASTNode {
	g := *n
	g.Grouped = true
	return &g
}

// String renders the node back to source form. Operations are fully
// parenthesised so the tree shape is visible.
func (n *ASTNode) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *ASTNode) write(b *strings.Builder) {
	switch n.Type {
	case NodeNumber:
		b.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
	case NodeVariable:
		b.WriteByte('#')
		b.WriteString(n.Name)
	case NodeExternal:
		b.WriteString("v[")
		n.Index.write(b)
		b.WriteByte(']')
	case NodeCall:
		b.WriteString(n.Name)
		b.WriteByte('(')
		for i, arg := range n.Arguments {
			if i > 0 {
				b.WriteString(", ")
			}
			arg.write(b)
		}
		b.WriteByte(')')
	case NodeOperator:
		b.WriteByte('(')
		n.LHS.write(b)
		b.WriteByte(' ')
		b.WriteString(n.Operator)
		b.WriteByte(' ')
		n.RHS.write(b)
		b.WriteByte(')')
	default:
		b.WriteString(string(n.Type))
	}
}
