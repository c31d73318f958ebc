package types

import "fmt"

// Substitution maps TypeVar -> Ty. Reads are chased through the map to
// avoid stale pointers (ApplySubst repeatedly dereferences); inserts are
// preceded by an occurs-check so the map stays idempotent once fully
// applied.
type Substitution map[TypeVar]Ty

// NewSubstitution returns an empty substitution.
func NewSubstitution() Substitution {
	return make(Substitution)
}

// ApplySubst repeatedly chases Mono v through sub before structurally
// recursing into Arrow, per spec.md §4.3.
func ApplySubst(sub Substitution, t Ty) Ty {
	for t.Kind == KMono {
		next, ok := sub[t.Var]
		if !ok {
			break
		}
		t = next
	}
	if t.Kind == KArrow {
		a := ApplySubst(sub, *t.Arg1)
		b := ApplySubst(sub, *t.Arg2)
		return TArrow(a, b)
	}
	return t
}

// OccursError is returned when a bind would create a cyclic substitution.
type OccursError struct {
	Var TypeVar
	Ty  Ty
}

func (e *OccursError) Error() string {
	return fmt.Sprintf("occurs check failed: %s occurs in %s", e.Var, e.Ty)
}

// UnifyError is returned for any structural mismatch during unification.
type UnifyError struct {
	T1, T2 Ty
}

func (e *UnifyError) Error() string {
	return fmt.Sprintf("cannot unify %s with %s", e.T1, e.T2)
}

// OccursCheck reports whether v occurs free in τ once τ has been chased
// through sub.
func OccursCheck(sub Substitution, v TypeVar, t Ty) bool {
	t = ApplySubst(sub, t)
	return t.ContainsVar(v)
}

// Bind inserts v ↦ τ into sub after an occurs-check. Binding a variable to
// itself is trivially ok and performs no insert.
func Bind(sub Substitution, v TypeVar, t Ty) error {
	if t.Kind == KMono && t.Var == v {
		return nil
	}
	if OccursCheck(sub, v, t) {
		return &OccursError{Var: v, Ty: t}
	}
	sub[v] = t
	return nil
}

// Unify unifies a and b under sub, returning an error on any mismatch.
// Both sides are ApplySubst'd first; the recursive calls needed for Arrow
// thread the same (mutated in place) substitution map, so there is no
// separate "unifier" object — sub itself is the only state, matching
// spec.md §5 ("the substitution map is the only mutable state; it is
// monotonically extended").
func Unify(sub Substitution, a, b Ty) error {
	a = ApplySubst(sub, a)
	b = ApplySubst(sub, b)

	if a.Equals(b) {
		return nil
	}

	switch {
	case a.Kind == KMono:
		return Bind(sub, a.Var, b)
	case b.Kind == KMono:
		return Bind(sub, b.Var, a)
	case a.Kind == KArrow && b.Kind == KArrow:
		if err := Unify(sub, *a.Arg1, *b.Arg1); err != nil {
			return err
		}
		return Unify(sub, *a.Arg2, *b.Arg2)
	default:
		return &UnifyError{T1: a, T2: b}
	}
}
