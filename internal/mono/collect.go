// Package mono implements C8 from spec.md §4.7: whole-program
// monomorphization. Every polymorphic binding is replaced by one
// specialized binding per distinct argument-type vector observed at its
// use sites; there is no generic representation left for the C emitter to
// deal with.
package mono

import (
	"github.com/knfc-lang/knfc/internal/knf"
	"github.com/knfc-lang/knfc/internal/types"
)

// instance records one required specialization of a polymorphic binding:
// the concrete argument types it was called with, the mangled identifier
// that specialization will be emitted under, and the return type
// instantiated at that call site.
type instance struct {
	mangledID string
	argTys    []types.Ty
	retTy     types.Ty
}

// collector implements Phase 1 of spec.md §4.7: a single walk recording,
// for each polymorphic binding, the finite set of instances its use sites
// require.
type collector struct {
	polymorphic map[string]bool
	instances   map[string]map[string]instance // bind ident -> mangled args key -> instance
}

func newCollector() *collector {
	return &collector{
		polymorphic: make(map[string]bool),
		instances:   make(map[string]map[string]instance),
	}
}

func collect(e knf.Expr) *collector {
	c := newCollector()
	c.walk(e)
	return c
}

func (c *collector) walk(e knf.Expr) {
	switch n := e.(type) {
	case *knf.VarRef:
		c.visitVar(n)

	case *knf.IntLit, *knf.BoolLit, *knf.UnitLit, *knf.OpRef:
		// Literals and operators are never polymorphic bindings; skipped
		// per spec.md §4.7 Phase 1.

	case *knf.If:
		c.walk(n.CondAtom)
		c.walk(n.Then)
		c.walk(n.Else)

	case *knf.Let:
		if n.Bind.IsPolymorphic {
			c.polymorphic[n.Bind.Ident.Unique] = true
		}
		c.walk(n.Value)
		c.walk(n.Body)

	case *knf.Apply:
		c.walk(n.FuncAtom)
		for _, a := range n.Args {
			c.walk(a)
		}

	case *knf.Lambda:
		c.walk(n.Body)
	}
}

// visitVar registers an instance for every Var atom referring to a
// polymorphic binding, keyed by its already-instantiated type's argument
// vector (spec.md §4.7: "concrete types observed at call sites drive
// specialization; no back-propagation is required because the type
// checker has already annotated every atom with its instantiated type").
func (c *collector) visitVar(v *knf.VarRef) {
	if !c.polymorphic[v.Ident.Unique] {
		return
	}
	argTys, retTy := v.Ty.ExtractArgs()
	key := types.MangleArgs(argTys)
	if c.instances[v.Ident.Unique] == nil {
		c.instances[v.Ident.Unique] = make(map[string]instance)
	}
	if _, exists := c.instances[v.Ident.Unique][key]; exists {
		return
	}
	c.instances[v.Ident.Unique][key] = instance{
		mangledID: v.Ident.Unique + "__" + key,
		argTys:    argTys,
		retTy:     retTy,
	}
}
