package typecheck

import (
	"github.com/knfc-lang/knfc/internal/typedast"
	"github.com/knfc-lang/knfc/internal/types"
)

// finalApply walks a freshly-inferred tree and rewrites every stored type
// slot through apply_subst (spec.md §4.3), so the returned tree carries no
// reference to the checker's substitution map and can outlive it.
func finalApply(subst types.Substitution, e typedast.Expr) typedast.Expr {
	switch n := e.(type) {
	case *typedast.IntLit:
		n.Ty = types.ApplySubst(subst, n.Ty)
		return n
	case *typedast.BoolLit:
		n.Ty = types.ApplySubst(subst, n.Ty)
		return n
	case *typedast.UnitLit:
		n.Ty = types.ApplySubst(subst, n.Ty)
		return n
	case *typedast.VarRef:
		n.Ty = types.ApplySubst(subst, n.Ty)
		return n
	case *typedast.OpRef:
		n.Ty = types.ApplySubst(subst, n.Ty)
		return n
	case *typedast.If:
		n.Cond = finalApply(subst, n.Cond)
		n.Then = finalApply(subst, n.Then)
		n.Else = finalApply(subst, n.Else)
		n.Ty = types.ApplySubst(subst, n.Ty)
		return n
	case *typedast.Let:
		n.Bind.Scheme.Ty = types.ApplySubst(subst, n.Bind.Scheme.Ty)
		n.Value = finalApply(subst, n.Value)
		n.Body = finalApply(subst, n.Body)
		n.Ty = types.ApplySubst(subst, n.Ty)
		return n
	case *typedast.Apply:
		n.Func = finalApply(subst, n.Func)
		n.Arg = finalApply(subst, n.Arg)
		n.Ty = types.ApplySubst(subst, n.Ty)
		return n
	case *typedast.Lambda:
		n.Param.Ty = types.ApplySubst(subst, n.Param.Ty)
		n.Body = finalApply(subst, n.Body)
		n.Ty = types.ApplySubst(subst, n.Ty)
		return n
	default:
		return e
	}
}
