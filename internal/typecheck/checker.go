// Package typecheck implements C4 from spec.md §4.3: bidirectional
// Hindley-Milner inference over a substitution side-table, with rank-1
// polymorphism restricted to user-written forall schemes (no
// let-generalization).
package typecheck

import (
	"github.com/knfc-lang/knfc/internal/ast"
	"github.com/knfc-lang/knfc/internal/errors"
	"github.com/knfc-lang/knfc/internal/namegen"
	"github.com/knfc-lang/knfc/internal/resolve"
	"github.com/knfc-lang/knfc/internal/typedast"
	"github.com/knfc-lang/knfc/internal/types"
)

// Checker owns the one piece of mutable state this pass has: the
// substitution map. Its fresh-variable counter is local to this instance,
// per spec.md §5's "each counter is local to a component instance."
type Checker struct {
	subst types.Substitution
	fresh *namegen.Generator
}

// New returns a Checker with an empty substitution.
func New() *Checker {
	return &Checker{subst: types.NewSubstitution(), fresh: namegen.New("t")}
}

func (c *Checker) freshVar() types.Ty {
	return types.TMono(types.TypeVar(c.fresh.Next()))
}

// Infer type-checks a resolved expression end to end: it runs infer on the
// whole tree, then final_apply to leave the result substitution-free.
func Infer(e resolve.Expr) (typedast.Expr, error) {
	c := New()
	typed, _, err := c.infer(types.NewTypingContext(), e)
	if err != nil {
		return nil, err
	}
	return finalApply(c.subst, typed), nil
}

func (c *Checker) typeErr(phase string, pos ast.Pos, err error) error {
	return errors.TypeErr(errors.TC001Unify, phase, err.Error(), &pos)
}

func (c *Checker) instantiate(s types.Scheme) types.Ty {
	ty := s.Ty
	for _, v := range s.Vars {
		ty = ty.Apply(v, c.freshVar())
	}
	return ty
}

// infer implements the table in spec.md §4.3.
func (c *Checker) infer(ctx *types.TypingContext, e resolve.Expr) (typedast.Expr, types.Ty, error) {
	switch n := e.(type) {
	case *resolve.IntLit:
		return &typedast.IntLit{Value: n.Value, Ty: types.TInt(), Pos: n.Pos}, types.TInt(), nil

	case *resolve.BoolLit:
		return &typedast.BoolLit{Value: n.Value, Ty: types.TBool(), Pos: n.Pos}, types.TBool(), nil

	case *resolve.UnitLit:
		return &typedast.UnitLit{Ty: types.TUnit(), Pos: n.Pos}, types.TUnit(), nil

	case *resolve.OpRef:
		ty := opType(n.Op)
		return &typedast.OpRef{Op: n.Op, Ty: ty, Pos: n.Pos}, ty, nil

	case *resolve.VarRef:
		scheme, ok := ctx.Lookup(n.Ident.Unique)
		if !ok {
			return nil, types.Ty{}, errors.Unbound(errors.TC005UnboundVariable, "unbound variable "+n.Ident.Surface, n.Pos)
		}
		ty := c.instantiate(scheme)
		return &typedast.VarRef{Ident: n.Ident, Ty: ty, Pos: n.Pos}, ty, nil

	case *resolve.If:
		return c.inferIf(ctx, n)

	case *resolve.Let:
		return c.inferLet(ctx, n)

	case *resolve.Apply:
		return c.inferApply(ctx, n)

	case *resolve.Lambda:
		return c.inferLambda(ctx, n)

	default:
		return nil, types.Ty{}, errors.Internal("typecheck", "unknown resolved AST node")
	}
}

func (c *Checker) inferIf(ctx *types.TypingContext, n *resolve.If) (typedast.Expr, types.Ty, error) {
	typedCond, condTy, err := c.infer(ctx, n.Cond)
	if err != nil {
		return nil, types.Ty{}, err
	}
	if err := types.Unify(c.subst, condTy, types.TBool()); err != nil {
		return nil, types.Ty{}, c.typeErr("typecheck", n.Cond.Position(), err)
	}
	typedThen, thenTy, err := c.infer(ctx, n.Then)
	if err != nil {
		return nil, types.Ty{}, err
	}
	typedElse, elseTy, err := c.infer(ctx, n.Else)
	if err != nil {
		return nil, types.Ty{}, err
	}
	if err := types.Unify(c.subst, thenTy, elseTy); err != nil {
		return nil, types.Ty{}, c.typeErr("typecheck", n.Pos, err)
	}
	ty := types.ApplySubst(c.subst, thenTy)
	return &typedast.If{Cond: typedCond, Then: typedThen, Else: typedElse, Ty: ty, Pos: n.Pos}, ty, nil
}

func (c *Checker) inferLet(ctx *types.TypingContext, n *resolve.Let) (typedast.Expr, types.Ty, error) {
	var typedValue typedast.Expr
	var scheme types.Scheme
	var isPoly bool
	var err error

	if n.Bind.Scheme != nil {
		scheme = *n.Bind.Scheme
		isPoly = len(scheme.Vars) > 0
		ctxWithBind := ctx.Extend(n.Bind.Ident.Unique, scheme)
		expected := c.instantiate(scheme)
		typedValue, err = c.check(ctxWithBind, n.Value, expected)
		if err != nil {
			return nil, types.Ty{}, err
		}
	} else {
		var valueTy types.Ty
		typedValue, valueTy, err = c.infer(ctx, n.Value)
		if err != nil {
			return nil, types.Ty{}, err
		}
		scheme = types.Monotype(valueTy)
		isPoly = false
	}

	ctxWithBind := ctx.Extend(n.Bind.Ident.Unique, scheme)
	typedBody, bodyTy, err := c.infer(ctxWithBind, n.Body)
	if err != nil {
		return nil, types.Ty{}, err
	}

	let := &typedast.Let{
		Bind:  typedast.LetBind{Ident: n.Bind.Ident, Scheme: scheme, IsPolymorphic: isPoly},
		Value: typedValue,
		Body:  typedBody,
		Ty:    bodyTy,
		Pos:   n.Pos,
	}
	return let, bodyTy, nil
}

func (c *Checker) inferApply(ctx *types.TypingContext, n *resolve.Apply) (typedast.Expr, types.Ty, error) {
	typedFunc, funcTy, err := c.infer(ctx, n.Func)
	if err != nil {
		return nil, types.Ty{}, err
	}
	typedArg, argTy, err := c.infer(ctx, n.Arg)
	if err != nil {
		return nil, types.Ty{}, err
	}
	ret := c.freshVar()
	if err := types.Unify(c.subst, funcTy, types.TArrow(argTy, ret)); err != nil {
		return nil, types.Ty{}, c.typeErr("typecheck", n.Pos, err)
	}
	ty := types.ApplySubst(c.subst, ret)
	return &typedast.Apply{Func: typedFunc, Arg: typedArg, Ty: ty, Pos: n.Pos}, ty, nil
}

func (c *Checker) inferLambda(ctx *types.TypingContext, n *resolve.Lambda) (typedast.Expr, types.Ty, error) {
	if n.Param.Ann == nil {
		return nil, types.Ty{}, errors.TypeErr(errors.TC003MissingAnnotation, "typecheck",
			"lambda parameter "+n.Param.Ident.Surface+" has no type annotation and no surrounding context supplies one", &n.Pos)
	}
	paramTy := *n.Param.Ann
	ctx2 := ctx.Extend(n.Param.Ident.Unique, types.Monotype(paramTy))
	typedBody, bodyTy, err := c.infer(ctx2, n.Body)
	if err != nil {
		return nil, types.Ty{}, err
	}
	ty := types.TArrow(paramTy, bodyTy)
	lam := &typedast.Lambda{
		Param: typedast.Param{Ident: n.Param.Ident, Ty: paramTy},
		Body:  typedBody,
		Ty:    ty,
		Pos:   n.Pos,
	}
	return lam, ty, nil
}

// check implements spec.md §4.3's check(e, τ): falls back to infer+unify
// for every form except Lambda, which decomposes τ into an arrow and
// checks the body against the result type.
func (c *Checker) check(ctx *types.TypingContext, e resolve.Expr, expected types.Ty) (typedast.Expr, error) {
	if lam, ok := e.(*resolve.Lambda); ok {
		return c.checkLambda(ctx, lam, expected)
	}
	typed, ty, err := c.infer(ctx, e)
	if err != nil {
		return nil, err
	}
	if err := types.Unify(c.subst, ty, expected); err != nil {
		return nil, c.typeErr("typecheck", e.Position(), err)
	}
	return typed, nil
}

func (c *Checker) checkLambda(ctx *types.TypingContext, n *resolve.Lambda, expected types.Ty) (typedast.Expr, error) {
	expected = types.ApplySubst(c.subst, expected)
	if expected.Kind != types.KArrow {
		return nil, errors.TypeErr(errors.TC004NotAFunction, "typecheck",
			"expected "+expected.String()+" but found a lambda", &n.Pos)
	}
	paramTy := *expected.Arg1
	if n.Param.Ann != nil {
		if err := types.Unify(c.subst, *n.Param.Ann, paramTy); err != nil {
			return nil, c.typeErr("typecheck", n.Pos, err)
		}
	}
	ctx2 := ctx.Extend(n.Param.Ident.Unique, types.Monotype(paramTy))
	typedBody, err := c.check(ctx2, n.Body, *expected.Arg2)
	if err != nil {
		return nil, err
	}
	return &typedast.Lambda{
		Param: typedast.Param{Ident: n.Param.Ident, Ty: paramTy},
		Body:  typedBody,
		Ty:    expected,
		Pos:   n.Pos,
	}, nil
}

// opType implements spec.md §4.3's Op rule: arithmetic ops are
// Int -> Int -> Int, comparisons are Int -> Int -> Bool.
func opType(op ast.OpType) types.Ty {
	if op.IsArith() {
		return types.TArrow(types.TInt(), types.TArrow(types.TInt(), types.TInt()))
	}
	return types.TArrow(types.TInt(), types.TArrow(types.TInt(), types.TBool()))
}
