// Package anf implements C7 from spec.md §4.6: the standard flatten-let
// transform, written as a continuation-passing traversal over KNF trees.
// ANF's only job is re-association — no new node shapes are needed beyond
// package knf's, since KNF already enforces "every Apply/If operand is an
// atom" and ANF only tightens the nesting rule for Let: after this pass, a
// Let's Value is never itself a Let.
package anf

import "github.com/knfc-lang/knfc/internal/knf"

// Cont is the continuation ANF threads through the traversal: it receives
// the resulting computation form (an Atom, Apply, If, or Lambda — never a
// Let) and produces the rest of the tree.
type Cont func(knf.Expr) knf.Expr

// ANF runs C7 over a KNF tree.
func ANF(e knf.Expr) knf.Expr {
	return anfTop(e)
}

// anfTop applies anf with the identity continuation, per spec.md §4.6's
// anf_top(x) = anf(x, λc. CExpr c).
func anfTop(e knf.Expr) knf.Expr {
	return anf(e, func(c knf.Expr) knf.Expr { return c })
}

func anf(e knf.Expr, k Cont) knf.Expr {
	switch n := e.(type) {
	case *knf.Let:
		// anf(Let x=v in b, k) = anf(v, λc. Let x = c in anf(b, k))
		return anf(n.Value, func(c knf.Expr) knf.Expr {
			newBody := anf(n.Body, k)
			return &knf.Let{Bind: n.Bind, Value: c, Body: newBody, Ty: newBody.Type(), Pos: n.Pos}
		})

	case *knf.If:
		// anf(If c t e, k) = k(If c, anf_top(t), anf_top(e))
		return k(&knf.If{
			CondAtom: n.CondAtom,
			Then:     anfTop(n.Then),
			Else:     anfTop(n.Else),
			Ty:       n.Ty, Pos: n.Pos,
		})

	case *knf.Lambda:
		// anf(Lambda args body, k) = k(Lambda args anf_top(body)) -- the
		// continuation is not threaded through the lambda's own body.
		return k(&knf.Lambda{Params: n.Params, Body: anfTop(n.Body), Ty: n.Ty, Pos: n.Pos})

	case *knf.Apply:
		// anf(Apply f as, k) = k(Apply f as)
		return k(n)

	default:
		if atom, ok := e.(knf.Atom); ok {
			// anf(Atom a, k) = k(Atom a)
			return k(atom)
		}
		panic("anf: unknown KNF node")
	}
}
