// Package knf implements C6 from spec.md §4.5: K-normal form, where every
// operand of an If condition or an Apply is forced to be an atom, naming
// every non-atomic subterm through a fresh let-binding. The Atom/Expr
// interface split below lets the Go type system itself enforce the
// post-KNF "atoms only" invariant on If.CondAtom, Apply.FuncAtom and
// Apply.Args, rather than re-checking it at runtime.
package knf

import (
	"github.com/knfc-lang/knfc/internal/ast"
	"github.com/knfc-lang/knfc/internal/namegen"
	"github.com/knfc-lang/knfc/internal/resolve"
	"github.com/knfc-lang/knfc/internal/types"
	"github.com/knfc-lang/knfc/internal/uncurry"
)

// Expr is any KNF form: an Atom, or one of the compound computation forms
// (If, Apply, Let, Lambda).
type Expr interface {
	Position() ast.Pos
	Type() types.Ty
	exprNode()
}

// Atom is the subset of Expr that never needs further naming: literals,
// variable references, and bare operators.
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

// If's condition is now always an Atom.
type If struct {
	CondAtom   Atom
	Then, Else Expr
	Ty         types.Ty
	Pos        ast.Pos
}

func (*If) exprNode()        {}
func (n *If) Position() ast.Pos { return n.Pos }
func (n *If) Type() types.Ty    { return n.Ty }

// LetBind keeps IsPolymorphic flowing forward into monomorphization
// (spec.md §4.5, "Let nodes carry their is_polymorphic flag forward").
type LetBind struct {
	Ident         resolve.Ident
	Scheme        types.Scheme
	IsPolymorphic bool
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

// Apply's function and every argument are now always Atoms.
type Apply struct {
	FuncAtom Atom
	Args     []Atom
	Ty       types.Ty
	Pos      ast.Pos
}

func (*Apply) exprNode()        {}
func (n *Apply) Position() ast.Pos { return n.Pos }
func (n *Apply) Type() types.Ty    { return n.Ty }

type Param struct {
	Ident resolve.Ident
	Ty    types.Ty
}

type Lambda struct {
	Params []Param
	Body   Expr
	Ty     types.Ty
	Pos    ast.Pos
}

func (*Lambda) exprNode()        {}
func (n *Lambda) Position() ast.Pos { return n.Pos }
func (n *Lambda) Type() types.Ty    { return n.Ty }

// hoistBinding is a subterm forced out of operand position, waiting to be
// wrapped as a preceding Let around whatever continuation follows it.
type hoistBinding struct {
	ident resolve.Ident
	value Expr
}

// KNF runs C6 over an uncurried expression, using one fresh-identifier
// generator for the whole pass (spec.md §4.5, "introduces a fresh-identifier
// generator").
func KNF(e uncurry.Expr) Expr {
	gen := namegen.New("knf")
	return transform(e, gen)
}

func freshIdent(gen *namegen.Generator) resolve.Ident {
	u := gen.Next()
	return resolve.Ident{Surface: u, Unique: u}
}

func transform(e uncurry.Expr, gen *namegen.Generator) Expr {
	switch n := e.(type) {
	case *uncurry.IntLit:
		return &IntLit{Value: n.Value, Ty: n.Ty, Pos: n.Pos}
	case *uncurry.BoolLit:
		return &BoolLit{Value: n.Value, Ty: n.Ty, Pos: n.Pos}
	case *uncurry.UnitLit:
		return &UnitLit{Ty: n.Ty, Pos: n.Pos}
	case *uncurry.VarRef:
		return &VarRef{Ident: n.Ident, Ty: n.Ty, Pos: n.Pos}
	case *uncurry.OpRef:
		return &OpRef{Op: n.Op, Ty: n.Ty, Pos: n.Pos}

	case *uncurry.If:
		condAtom, hoists := toAtomIfNeeded(n.Cond, gen)
		ifNode := &If{
			CondAtom: condAtom,
			Then:     transform(n.Then, gen),
			Else:     transform(n.Else, gen),
			Ty:       n.Ty, Pos: n.Pos,
		}
		return wrap(hoists, ifNode)

	case *uncurry.Let:
		return &Let{
			Bind:  LetBind{Ident: n.Bind.Ident, Scheme: n.Bind.Scheme, IsPolymorphic: n.Bind.IsPolymorphic},
			Value: transform(n.Value, gen),
			Body:  transform(n.Body, gen),
			Ty:    n.Ty, Pos: n.Pos,
		}

	case *uncurry.Apply:
		return transformApply(n, gen)

	case *uncurry.Lambda:
		params := make([]Param, len(n.Params))
		for i, p := range n.Params {
			params[i] = Param{Ident: p.Ident, Ty: p.Ty}
		}
		return &Lambda{Params: params, Body: transform(n.Body, gen), Ty: n.Ty, Pos: n.Pos}

	default:
		panic("knf: unknown uncurried AST node")
	}
}

// transformApply implements the hoisting policy of spec.md §4.5: the
// function is hoisted only when it is not already atomic; every argument
// is always hoisted into a fresh let, even when it is already an atom.
func transformApply(n *uncurry.Apply, gen *namegen.Generator) Expr {
	funcAtom, funcHoists := toAtomIfNeeded(n.Func, gen)

	args := make([]Atom, len(n.Args))
	var allHoists []hoistBinding
	allHoists = append(allHoists, funcHoists...)
	for i, a := range n.Args {
		atom, hoists := toAtomAlways(a, gen)
		args[i] = atom
		allHoists = append(allHoists, hoists...)
	}

	apply := &Apply{FuncAtom: funcAtom, Args: args, Ty: n.Ty, Pos: n.Pos}
	return wrap(allHoists, apply)
}

// toAtomIfNeeded transforms e and hoists it into a fresh let only if the
// result is not already an Atom.
func toAtomIfNeeded(e uncurry.Expr, gen *namegen.Generator) (Atom, []hoistBinding) {
	v := transform(e, gen)
	if atom, ok := v.(Atom); ok {
		return atom, nil
	}
	return hoistOne(v, gen)
}

// toAtomAlways transforms e and unconditionally hoists it into a fresh
// let, per the argument-hoisting half of the C6 policy.
func toAtomAlways(e uncurry.Expr, gen *namegen.Generator) (Atom, []hoistBinding) {
	v := transform(e, gen)
	return hoistOne(v, gen)
}

func hoistOne(v Expr, gen *namegen.Generator) (Atom, []hoistBinding) {
	id := freshIdent(gen)
	ref := &VarRef{Ident: id, Ty: v.Type(), Pos: v.Position()}
	return ref, []hoistBinding{{ident: id, value: v}}
}

// wrap nests preceding Lets around body, outermost-first, preserving the
// left-to-right evaluation order the hoists were collected in.
func wrap(hoists []hoistBinding, body Expr) Expr {
	result := body
	for i := len(hoists) - 1; i >= 0; i-- {
		h := hoists[i]
		result = &Let{
			Bind:  LetBind{Ident: h.ident, Scheme: types.Monotype(h.value.Type())},
			Value: h.value,
			Body:  result,
			Ty:    result.Type(),
			Pos:   h.value.Position(),
		}
	}
	return result
}
