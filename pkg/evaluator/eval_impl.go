package evaluator

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sandrolain/goparsec/pkg/functions"
	"github.com/sandrolain/goparsec/pkg/types"
)

func (e *Evaluator) evalNode(ctx context.Context, node *types.ASTNode, evalCtx *EvalContext, depth int) (float64, error) {
	if e.opts.MaxDepth > 0 && depth > e.opts.MaxDepth {
		return 0, types.NewError(types.ErrStackOverflow, "maximum evaluation depth exceeded", node.Position.Index).
			WithLocation(node.Position)
	}

	switch node.Type {
	case types.NodeNumber:
		return node.Value, nil
	case types.NodeVariable:
		return e.evalVariable(node, evalCtx)
	case types.NodeExternal:
		return e.evalExternal(ctx, node, evalCtx, depth)
	case types.NodeCall:
		return e.evalCall(ctx, node, evalCtx, depth)
	case types.NodeOperator:
		return e.evalOperator(ctx, node, evalCtx, depth)
	default:
		return 0, fmt.Errorf("unsupported node type: %s", node.Type)
	}
}

func (e *Evaluator) evalVariable(node *types.ASTNode, evalCtx *EvalContext) (float64, error) {
	if v, ok := evalCtx.GetBinding(node.Name); ok {
		return v, nil
	}
	e.debugMissing("variable", node)
	return 0, types.NewMissingBinding(types.ErrUndefinedVariable,
		fmt.Sprintf("variable #%s is not defined", node.Name), node.Position).
		WithToken("#" + node.Name)
}

func (e *Evaluator) evalExternal(ctx context.Context, node *types.ASTNode, evalCtx *EvalContext, depth int) (float64, error) {
	index, err := e.evalNode(ctx, node.Index, evalCtx, depth+1)
	if err != nil {
		return 0, err
	}
	token := "v[" + strconv.FormatFloat(index, 'g', -1, 64) + "]"

	if e.opts.External == nil {
		e.debugMissing("external", node)
		return 0, types.NewMissingBinding(types.ErrUndefinedExternal,
			fmt.Sprintf("%s cannot be resolved: no external lookup configured", token), node.Position).
			WithToken(token)
	}

	v, err := e.opts.External(ctx, index)
	if err != nil {
		e.debugMissing("external", node)
		return 0, types.NewMissingBinding(types.ErrUndefinedExternal,
			fmt.Sprintf("%s cannot be resolved: %v", token, err), node.Position).
			WithToken(token).
			WithCause(fmt.Errorf("%w: %w", types.ErrMissingBinding, err))
	}
	return v, nil
}

func (e *Evaluator) evalCall(ctx context.Context, node *types.ASTNode, evalCtx *EvalContext, depth int) (float64, error) {
	def, ok := e.lookupFunction(node.Name)
	if !ok {
		e.debugMissing("function", node)
		return 0, types.NewMissingBinding(types.ErrUndefinedFunction,
			fmt.Sprintf("function %s is not defined", node.Name), node.Position).
			WithToken(node.Name)
	}

	args := make([]float64, len(node.Arguments))
	for i, arg := range node.Arguments {
		v, err := e.evalNode(ctx, arg, evalCtx, depth+1)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if e.opts.Debug {
		e.logger.Debug("calling function",
			"name", node.Name,
			"args", args,
			"position", node.Position.String())
	}

	if err := def.CheckArity(len(args)); err != nil {
		var terr *types.Error
		if errors.As(err, &terr) {
			terr.Position = node.Position.Index
			terr.WithLocation(node.Position).WithToken(node.Name)
		}
		return 0, err
	}

	v, err := def.Fn(ctx, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return 0, err
		}
		return 0, types.NewError(types.ErrFunctionFailed,
			fmt.Sprintf("%s: %v", node.Name, err), node.Position.Index).
			WithLocation(node.Position).
			WithToken(node.Name).
			WithCause(err)
	}
	return v, nil
}

func (e *Evaluator) evalOperator(ctx context.Context, node *types.ASTNode, evalCtx *EvalContext, depth int) (float64, error) {
	op, ok := types.LookupOperator(node.Operator)
	if !ok {
		return 0, fmt.Errorf("unknown operator %q", node.Operator)
	}
	lhs, err := e.evalNode(ctx, node.LHS, evalCtx, depth+1)
	if err != nil {
		return 0, err
	}
	rhs, err := e.evalNode(ctx, node.RHS, evalCtx, depth+1)
	if err != nil {
		return 0, err
	}
	return op.Apply(lhs, rhs), nil
}

// lookupFunction resolves caller functions before the built-ins.
func (e *Evaluator) lookupFunction(name string) (functions.CustomFunctionDef, bool) {
	if def, ok := e.functions.Lookup(name); ok {
		return def, true
	}
	return functions.LookupBuiltin(name)
}

func (e *Evaluator) debugMissing(kind string, node *types.ASTNode) {
	if e.opts.Debug {
		e.logger.Debug("missing binding",
			"kind", kind,
			"node", node.String(),
			"position", node.Position.String())
	}
}
