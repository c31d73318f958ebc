// Package uncurry implements C5 from spec.md §4.4: a purely syntactic
// pass that collapses nested unary Apply/Lambda chains produced by the
// parser's curried surface syntax into their n-ary equivalents, which
// every later pass (KNF, ANF, monomorphization, closure conversion, the C
// emitter) expects to operate on directly.
package uncurry

import (
	"github.com/knfc-lang/knfc/internal/ast"
	"github.com/knfc-lang/knfc/internal/resolve"
	"github.com/knfc-lang/knfc/internal/typedast"
	"github.com/knfc-lang/knfc/internal/types"
)

type Expr interface {
	Position() ast.Pos
	Type() types.Ty
	exprNode()
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

type If struct {
	Cond, Then, Else Expr
	Ty               types.Ty
	Pos              ast.Pos
}

func (*If) exprNode()        {}
func (n *If) Position() ast.Pos { return n.Pos }
func (n *If) Type() types.Ty    { return n.Ty }

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

// Apply is now n-ary: Args are in call order, produced by walking the
// left spine of nested unary typedast.Apply nodes.
type Apply struct {
	Func Expr
	Args []Expr
	Ty   types.Ty
	Pos  ast.Pos
}

func (*Apply) exprNode()        {}
func (n *Apply) Position() ast.Pos { return n.Pos }
func (n *Apply) Type() types.Ty    { return n.Ty }

type Param struct {
	Ident resolve.Ident
	Ty    types.Ty
}

// Lambda is now n-ary: Params come from walking nested unary
// typedast.Lambda nodes until a non-Lambda body is reached.
type Lambda struct {
	Params []Param
	Body   Expr
	Ty     types.Ty
	Pos    ast.Pos
}

func (*Lambda) exprNode()        {}
func (n *Lambda) Position() ast.Pos { return n.Pos }
func (n *Lambda) Type() types.Ty    { return n.Ty }

// Uncurry runs C5 over a fully-typed expression.
func Uncurry(e typedast.Expr) Expr {
	switch n := e.(type) {
	case *typedast.IntLit:
		return &IntLit{Value: n.Value, Ty: n.Ty, Pos: n.Pos}
	case *typedast.BoolLit:
		return &BoolLit{Value: n.Value, Ty: n.Ty, Pos: n.Pos}
	case *typedast.UnitLit:
		return &UnitLit{Ty: n.Ty, Pos: n.Pos}
	case *typedast.VarRef:
		return &VarRef{Ident: n.Ident, Ty: n.Ty, Pos: n.Pos}
	case *typedast.OpRef:
		return &OpRef{Op: n.Op, Ty: n.Ty, Pos: n.Pos}

	case *typedast.If:
		return &If{
			Cond: Uncurry(n.Cond), Then: Uncurry(n.Then), Else: Uncurry(n.Else),
			Ty: n.Ty, Pos: n.Pos,
		}

	case *typedast.Let:
		return &Let{
			Bind:  LetBind{Ident: n.Bind.Ident, Scheme: n.Bind.Scheme, IsPolymorphic: n.Bind.IsPolymorphic},
			Value: Uncurry(n.Value),
			Body:  Uncurry(n.Body),
			Ty:    n.Ty,
			Pos:   n.Pos,
		}

	case *typedast.Apply:
		return uncurryApply(n)

	case *typedast.Lambda:
		return uncurryLambda(n)

	default:
		panic("uncurry: unknown typed AST node")
	}
}

// uncurryApply walks Apply(Apply(f, a1), a2) left spines, collecting
// arguments in call order (spec.md §4.4).
func uncurryApply(n *typedast.Apply) *Apply {
	var args []Expr
	var cur typedast.Expr = n
	for {
		app, ok := cur.(*typedast.Apply)
		if !ok {
			break
		}
		args = append(args, Uncurry(app.Arg))
		cur = app.Func
	}
	for i, j := 0, len(args)-1; i < j; i, j = i+1, j-1 {
		args[i], args[j] = args[j], args[i]
	}
	return &Apply{Func: Uncurry(cur), Args: args, Ty: n.Ty, Pos: n.Pos}
}

// uncurryLambda walks Lambda(x1, Lambda(x2, ..., body)) chains, collecting
// parameters in binding order. The flattened lambda's type is preserved
// from the outermost node; its innermost body's type becomes the eventual
// return type once all parameters are stripped off (spec.md §4.4).
func uncurryLambda(n *typedast.Lambda) *Lambda {
	var params []Param
	var body typedast.Expr = n
	for {
		lam, ok := body.(*typedast.Lambda)
		if !ok {
			break
		}
		params = append(params, Param{Ident: lam.Param.Ident, Ty: lam.Param.Ty})
		body = lam.Body
	}
	return &Lambda{Params: params, Body: Uncurry(body), Ty: n.Ty, Pos: n.Pos}
}
