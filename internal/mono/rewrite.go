package mono

import (
	"sort"

	"github.com/knfc-lang/knfc/internal/errors"
	"github.com/knfc-lang/knfc/internal/knf"
	"github.com/knfc-lang/knfc/internal/resolve"
	"github.com/knfc-lang/knfc/internal/types"
)

// Monomorphize runs C8 end to end: Phase 1 collects required instances,
// Phase 2 rewrites the tree, replacing every polymorphic binding with its
// concrete specializations.
func Monomorphize(e knf.Expr) (knf.Expr, error) {
	c := collect(e)
	r := &rewriter{collector: c}
	return r.rewrite(e, types.NewSubstitution())
}

type rewriter struct {
	*collector
}

func (r *rewriter) rewrite(e knf.Expr, subst types.Substitution) (knf.Expr, error) {
	switch n := e.(type) {
	case *knf.IntLit:
		return &knf.IntLit{Value: n.Value, Ty: types.ApplySubst(subst, n.Ty), Pos: n.Pos}, nil
	case *knf.BoolLit:
		return &knf.BoolLit{Value: n.Value, Ty: types.ApplySubst(subst, n.Ty), Pos: n.Pos}, nil
	case *knf.UnitLit:
		return &knf.UnitLit{Ty: types.ApplySubst(subst, n.Ty), Pos: n.Pos}, nil
	case *knf.OpRef:
		return &knf.OpRef{Op: n.Op, Ty: types.ApplySubst(subst, n.Ty), Pos: n.Pos}, nil

	case *knf.VarRef:
		return r.rewriteVar(n, subst)

	case *knf.If:
		return r.rewriteIf(n, subst)

	case *knf.Apply:
		return r.rewriteApply(n, subst)

	case *knf.Lambda:
		return r.rewriteLambda(n, subst)

	case *knf.Let:
		return r.rewriteLet(n, subst)

	default:
		return nil, errors.Internal("monomorphize", "unknown KNF node")
	}
}

func (r *rewriter) rewriteAtom(e knf.Atom, subst types.Substitution) (knf.Atom, error) {
	out, err := r.rewrite(e, subst)
	if err != nil {
		return nil, err
	}
	atom, ok := out.(knf.Atom)
	if !ok {
		return nil, errors.Internal("monomorphize", "rewritten atom is no longer atomic")
	}
	return atom, nil
}

// rewriteVar implements the Var case of spec.md §4.7 Phase 2: a
// polymorphic variable is redirected to the mangled identifier matching
// its call-site argument vector; every other atom keeps its identity and
// has the current substitution applied to its carried type.
func (r *rewriter) rewriteVar(n *knf.VarRef, subst types.Substitution) (knf.Expr, error) {
	if !r.polymorphic[n.Ident.Unique] {
		return &knf.VarRef{Ident: n.Ident, Ty: types.ApplySubst(subst, n.Ty), Pos: n.Pos}, nil
	}
	argTys, _ := n.Ty.ExtractArgs()
	key := types.MangleArgs(argTys)
	inst, ok := r.instances[n.Ident.Unique][key]
	if !ok {
		return nil, errors.New(errors.KindTypeError, errors.MONO001UnifyInstance, "monomorphize",
			"no recorded instance for "+n.Ident.Unique+" at "+key, &n.Pos)
	}
	id := resolve.Ident{Surface: n.Ident.Surface, Unique: inst.mangledID}
	return &knf.VarRef{Ident: id, Ty: types.ApplySubst(subst, n.Ty), Pos: n.Pos}, nil
}

func (r *rewriter) rewriteIf(n *knf.If, subst types.Substitution) (knf.Expr, error) {
	cond, err := r.rewriteAtom(n.CondAtom, subst)
	if err != nil {
		return nil, err
	}
	thenE, err := r.rewrite(n.Then, subst)
	if err != nil {
		return nil, err
	}
	elseE, err := r.rewrite(n.Else, subst)
	if err != nil {
		return nil, err
	}
	return &knf.If{CondAtom: cond, Then: thenE, Else: elseE, Ty: types.ApplySubst(subst, n.Ty), Pos: n.Pos}, nil
}

func (r *rewriter) rewriteApply(n *knf.Apply, subst types.Substitution) (knf.Expr, error) {
	fn, err := r.rewriteAtom(n.FuncAtom, subst)
	if err != nil {
		return nil, err
	}
	args := make([]knf.Atom, len(n.Args))
	for i, a := range n.Args {
		args[i], err = r.rewriteAtom(a, subst)
		if err != nil {
			return nil, err
		}
	}
	return &knf.Apply{FuncAtom: fn, Args: args, Ty: types.ApplySubst(subst, n.Ty), Pos: n.Pos}, nil
}

func (r *rewriter) rewriteLambda(n *knf.Lambda, subst types.Substitution) (knf.Expr, error) {
	params := make([]knf.Param, len(n.Params))
	for i, p := range n.Params {
		params[i] = knf.Param{Ident: p.Ident, Ty: types.ApplySubst(subst, p.Ty)}
	}
	body, err := r.rewrite(n.Body, subst)
	if err != nil {
		return nil, err
	}
	return &knf.Lambda{Params: params, Body: body, Ty: types.ApplySubst(subst, n.Ty), Pos: n.Pos}, nil
}

func (r *rewriter) rewriteLet(n *knf.Let, subst types.Substitution) (knf.Expr, error) {
	if !n.Bind.IsPolymorphic {
		value, err := r.rewrite(n.Value, subst)
		if err != nil {
			return nil, err
		}
		body, err := r.rewrite(n.Body, subst)
		if err != nil {
			return nil, err
		}
		bind := knf.LetBind{Ident: n.Bind.Ident, Scheme: types.Monotype(types.ApplySubst(subst, n.Bind.Scheme.Ty))}
		return &knf.Let{Bind: bind, Value: value, Body: body, Ty: body.Type(), Pos: n.Pos}, nil
	}

	lam, ok := n.Value.(*knf.Lambda)
	if !ok {
		return nil, errors.Internal("monomorphize", "polymorphic binding's value is not a lambda")
	}

	body, err := r.rewrite(n.Body, subst)
	if err != nil {
		return nil, err
	}

	insts := r.instances[n.Bind.Ident.Unique]
	keys := make([]string, 0, len(insts))
	for k := range insts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := body
	// Wrapped innermost first (spec.md §4.7 Phase 2): the last key wraps
	// closest to the continuation, the first key ends up outermost.
	for i := len(keys) - 1; i >= 0; i-- {
		inst := insts[keys[i]]
		specialized, err := r.specialize(n.Bind.Ident.Unique, lam, inst)
		if err != nil {
			return nil, err
		}
		id := resolve.Ident{Surface: n.Bind.Ident.Surface, Unique: inst.mangledID}
		arrow := buildArrow(inst.argTys, inst.retTy)
		result = &knf.Let{
			Bind:  knf.LetBind{Ident: id, Scheme: types.Monotype(arrow)},
			Value: specialized,
			Body:  result,
			Ty:    result.Type(),
			Pos:   n.Pos,
		}
	}
	return result, nil
}

// specialize implements the per-instance steps of spec.md §4.7 Phase 2:
// clear the substitution, unify the original parameter (and return) types
// against the instance's concrete types, then rebuild the lambda under the
// resulting substitution.
func (r *rewriter) specialize(base string, lam *knf.Lambda, inst instance) (*knf.Lambda, error) {
	if len(lam.Params) != len(inst.argTys) {
		return nil, errors.Internal("monomorphize", "arity mismatch specializing "+base)
	}
	local := types.NewSubstitution()
	for i, p := range lam.Params {
		if err := types.Unify(local, p.Ty, inst.argTys[i]); err != nil {
			return nil, errors.New(errors.KindTypeError, errors.MONO001UnifyInstance, "monomorphize", err.Error(), nil)
		}
	}
	if err := types.Unify(local, lam.Body.Type(), inst.retTy); err != nil {
		return nil, errors.New(errors.KindTypeError, errors.MONO001UnifyInstance, "monomorphize", err.Error(), nil)
	}

	params := make([]knf.Param, len(lam.Params))
	for i, p := range lam.Params {
		params[i] = knf.Param{Ident: p.Ident, Ty: inst.argTys[i]}
	}
	body, err := r.rewrite(lam.Body, local)
	if err != nil {
		return nil, err
	}
	return &knf.Lambda{Params: params, Body: body, Ty: buildArrow(inst.argTys, inst.retTy), Pos: lam.Pos}, nil
}

func buildArrow(args []types.Ty, ret types.Ty) types.Ty {
	result := ret
	for i := len(args) - 1; i >= 0; i-- {
		result = types.TArrow(args[i], result)
	}
	return result
}
