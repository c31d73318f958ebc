// Package closure implements C9 from spec.md §4.8: closure conversion.
// Every remaining Lambda is lifted to a top-level function plus an
// explicit capture record, so the C emitter never has to deal with a
// nested function value — only flat functions and closure structs.
package closure

import (
	"sort"

	"github.com/knfc-lang/knfc/internal/ast"
	"github.com/knfc-lang/knfc/internal/knf"
	"github.com/knfc-lang/knfc/internal/namegen"
	"github.com/knfc-lang/knfc/internal/resolve"
	"github.com/knfc-lang/knfc/internal/types"
)

// Closure records one lifted function: its generated global name, the
// variables it captures from its defining environment, its parameters,
// and its return type.
type Closure struct {
	GlobalName string
	RetTy      types.Ty
	Capture    []knf.Param
	Args       []knf.Param
}

// Global pairs a lifted Closure with its converted body.
type Global struct {
	Closure Closure
	Body    Expr
}

// Program is the output of C9: every lifted function plus the remaining
// root expression.
type Program struct {
	Globals []Global
	Main    Expr
}

// Expr mirrors knf.Expr's compound forms, except Lambda no longer exists:
// in its place, a ClosureRef computation form names the lifted global and
// its captures.
type Expr interface {
	Position() ast.Pos
	Type() types.Ty
	exprNode()
}

// Atom mirrors knf.Atom, plus ClosureRef which behaves like an atom-producing
// computation (it appears as a Let's Value, or as a whole expression when
// a lambda is not let-bound; it is never an operand of an Apply or If).
type Atom interface {
	Expr
	atomNode()
}

type IntLit struct {
	Value int32
	Ty    types.Ty
	Pos   ast.Pos
}

type BoolLit struct {
	Value bool
	Ty    types.Ty
	Pos   ast.Pos
}

type UnitLit struct {
	Ty  types.Ty
	Pos ast.Pos
}

type VarRef struct {
	Ident resolve.Ident
	Ty    types.Ty
	Pos   ast.Pos
}

type OpRef struct {
	Op  ast.OpType
	Ty  types.Ty
	Pos ast.Pos
}

func (*IntLit) exprNode()  {}
func (*BoolLit) exprNode() {}
func (*UnitLit) exprNode() {}
func (*VarRef) exprNode()  {}
func (*OpRef) exprNode()   {}
func (*IntLit) atomNode()  {}
func (*BoolLit) atomNode() {}
func (*UnitLit) atomNode() {}
func (*VarRef) atomNode()  {}
func (*OpRef) atomNode()   {}

func (n *IntLit) Position() ast.Pos  { return n.Pos }
func (n *BoolLit) Position() ast.Pos { return n.Pos }
func (n *UnitLit) Position() ast.Pos { return n.Pos }
func (n *VarRef) Position() ast.Pos  { return n.Pos }
func (n *OpRef) Position() ast.Pos   { return n.Pos }

func (n *IntLit) Type() types.Ty  { return n.Ty }
func (n *BoolLit) Type() types.Ty { return n.Ty }
func (n *UnitLit) Type() types.Ty { return n.Ty }
func (n *VarRef) Type() types.Ty  { return n.Ty }
func (n *OpRef) Type() types.Ty   { return n.Ty }

// ClosureRef is the use-site form a Lambda becomes: a reference to the
// lifted global plus the list of variables to capture from the current
// environment, sorted by unique name.
type ClosureRef struct {
	Ref Closure
	Ty  types.Ty
	Pos ast.Pos
}

func (*ClosureRef) exprNode()        {}
func (*ClosureRef) atomNode()        {}
func (n *ClosureRef) Position() ast.Pos { return n.Pos }
func (n *ClosureRef) Type() types.Ty    { return n.Ty }

type If struct {
	CondAtom   Atom
	Then, Else Expr
	Ty         types.Ty
	Pos        ast.Pos
}

func (*If) exprNode()        {}
func (n *If) Position() ast.Pos { return n.Pos }
func (n *If) Type() types.Ty    { return n.Ty }

type LetBind struct {
	Ident resolve.Ident
	Ty    types.Ty
}

type Let struct {
	Bind  LetBind
	Value Expr
	Body  Expr
	Ty    types.Ty
	Pos   ast.Pos
}

func (*Let) exprNode()        {}
func (n *Let) Position() ast.Pos { return n.Pos }
func (n *Let) Type() types.Ty    { return n.Ty }

type Apply struct {
	FuncAtom Atom
	Args     []Atom
	Ty       types.Ty
	Pos      ast.Pos
}

func (*Apply) exprNode()        {}
func (n *Apply) Position() ast.Pos { return n.Pos }
func (n *Apply) Type() types.Ty    { return n.Ty }

// Convert runs C9 over a post-monomorphization ANF tree.
func Convert(e knf.Expr) *Program {
	c := &converter{gen: namegen.New("lambda_")}
	main := c.convert(e, nil)
	return &Program{Globals: c.globals, Main: main}
}

type converter struct {
	gen     *namegen.Generator
	globals []Global
}

func (c *converter) convert(e knf.Expr, bound map[string]bool) Expr {
	switch n := e.(type) {
	case *knf.IntLit:
		return &IntLit{Value: n.Value, Ty: n.Ty, Pos: n.Pos}
	case *knf.BoolLit:
		return &BoolLit{Value: n.Value, Ty: n.Ty, Pos: n.Pos}
	case *knf.UnitLit:
		return &UnitLit{Ty: n.Ty, Pos: n.Pos}
	case *knf.VarRef:
		return &VarRef{Ident: n.Ident, Ty: n.Ty, Pos: n.Pos}
	case *knf.OpRef:
		return &OpRef{Op: n.Op, Ty: n.Ty, Pos: n.Pos}

	case *knf.If:
		return &If{
			CondAtom: c.convert(n.CondAtom, bound).(Atom),
			Then:     c.convert(n.Then, bound),
			Else:     c.convert(n.Else, bound),
			Ty:       n.Ty, Pos: n.Pos,
		}

	case *knf.Apply:
		args := make([]Atom, len(n.Args))
		for i, a := range n.Args {
			args[i] = c.convert(a, bound).(Atom)
		}
		return &Apply{FuncAtom: c.convert(n.FuncAtom, bound).(Atom), Args: args, Ty: n.Ty, Pos: n.Pos}

	case *knf.Let:
		if lam, ok := n.Value.(*knf.Lambda); ok {
			ref := c.liftLambda(lam)
			body := c.convert(n.Body, extend(bound, n.Bind.Ident.Unique))
			return &Let{
				Bind:  LetBind{Ident: n.Bind.Ident, Ty: n.Bind.Scheme.Ty},
				Value: &ClosureRef{Ref: ref, Ty: lam.Ty, Pos: lam.Pos},
				Body:  body,
				Ty:    body.Type(),
				Pos:   n.Pos,
			}
		}
		value := c.convert(n.Value, bound)
		body := c.convert(n.Body, extend(bound, n.Bind.Ident.Unique))
		return &Let{
			Bind:  LetBind{Ident: n.Bind.Ident, Ty: n.Bind.Scheme.Ty},
			Value: value,
			Body:  body,
			Ty:    body.Type(),
			Pos:   n.Pos,
		}

	case *knf.Lambda:
		// A Lambda reached outside of a Let's value slot (a bare anonymous
		// lambda) is lifted the same way; its ClosureRef becomes the whole
		// expression.
		ref := c.liftLambda(n)
		return &ClosureRef{Ref: ref, Ty: n.Ty, Pos: n.Pos}

	default:
		panic("closure: unknown KNF node")
	}
}

// liftLambda implements the five steps of spec.md §4.8 for one Lambda.
func (c *converter) liftLambda(lam *knf.Lambda) Closure {
	params := make(map[string]bool, len(lam.Params))
	for _, p := range lam.Params {
		params[p.Ident.Unique] = true
	}
	free := freeVars(lam.Body, params)

	capture := make([]knf.Param, 0, len(free))
	for _, ident := range free {
		capture = append(capture, knf.Param{Ident: ident.Ident, Ty: ident.typeHint})
	}

	global := c.gen.Next()
	ref := Closure{
		GlobalName: global,
		RetTy:      lam.Body.Type(),
		Capture:    capture,
		Args:       lam.Params,
	}

	innerBound := make(map[string]bool, len(params)+len(capture))
	for k := range params {
		innerBound[k] = true
	}
	for _, cap := range capture {
		innerBound[cap.Ident.Unique] = true
	}
	body := c.convert(lam.Body, innerBound)
	c.globals = append(c.globals, Global{Closure: ref, Body: body})
	return ref
}

func extend(bound map[string]bool, ident string) map[string]bool {
	out := make(map[string]bool, len(bound)+1)
	for k := range bound {
		out[k] = true
	}
	out[ident] = true
	return out
}

// identTy pairs a resolve.Ident with the type it carried at the point it
// was collected as free, since knf.Param needs a Ty and free-variable
// computation walks an interface-typed tree that doesn't expose one
// uniformly without it.
type identTy struct {
	resolve.Ident
	typeHint types.Ty
}

// freeVars computes the free-variable set of e, excluding every name in
// bound, per spec.md §4.8: structural, with Let removing its own binder
// and Lambda removing its own parameters. The result is sorted by unique
// name for deterministic capture-list ordering.
func freeVars(e knf.Expr, bound map[string]bool) []identTy {
	seen := map[string]identTy{}
	var walk func(knf.Expr, map[string]bool)
	walk = func(x knf.Expr, b map[string]bool) {
		switch n := x.(type) {
		case *knf.VarRef:
			if !b[n.Ident.Unique] {
				seen[n.Ident.Unique] = identTy{Ident: n.Ident, typeHint: n.Ty}
			}
		case *knf.IntLit, *knf.BoolLit, *knf.UnitLit, *knf.OpRef:
		case *knf.If:
			walk(n.CondAtom, b)
			walk(n.Then, b)
			walk(n.Else, b)
		case *knf.Apply:
			walk(n.FuncAtom, b)
			for _, a := range n.Args {
				walk(a, b)
			}
		case *knf.Let:
			walk(n.Value, b)
			inner := extend(b, n.Bind.Ident.Unique)
			walk(n.Body, inner)
		case *knf.Lambda:
			inner := make(map[string]bool, len(b))
			for k := range b {
				inner[k] = true
			}
			for _, p := range n.Params {
				inner[p.Ident.Unique] = true
			}
			walk(n.Body, inner)
		}
	}
	walk(e, bound)

	out := make([]identTy, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Unique < out[j].Unique })
	return out
}
