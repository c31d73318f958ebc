// Package resolve implements C2/C3 from spec.md §4.2: turning the surface
// AST's plain strings into globally unique identifiers using lexical
// scopes, so every later pass can treat a bound name as a unique token
// rather than re-deriving scoping rules of its own.
package resolve

import (
	"github.com/knfc-lang/knfc/internal/ast"
	"github.com/knfc-lang/knfc/internal/errors"
	"github.com/knfc-lang/knfc/internal/namegen"
	"github.com/knfc-lang/knfc/internal/types"
)

// Ident is a resolved identifier: the original surface name (kept for
// diagnostics) plus a unique suffix assigned at the binding site, so two
// bindings that shadow each other under the same surface name never
// collide downstream.
type Ident struct {
	Surface string
	Unique  string
}

func (id Ident) String() string { return id.Unique }

// Expr is the resolved AST (C2): the same five-form shape as package ast,
// but every binder and every Var now carries an Ident instead of a bare
// string.
type Expr interface {
	Position() ast.Pos
	exprNode()
}

type IntLit struct {
	Value int32
	Pos   ast.Pos
}

type BoolLit struct {
	Value bool
	Pos   ast.Pos
}

type UnitLit struct {
	Pos ast.Pos
}

type VarRef struct {
	Ident Ident
	Pos   ast.Pos
}

type OpRef struct {
	Op  ast.OpType
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

type If struct {
	Cond, Then, Else Expr
	Pos              ast.Pos
}

func (*If) exprNode()       {}
func (n *If) Position() ast.Pos { return n.Pos }

// LetBind is a resolved binder: its Ident is now unique, and Scheme is
// carried through unchanged from the surface AST — it still gates the
// self-recursive exception of spec.md §4.3.
type LetBind struct {
	Ident  Ident
	Scheme *types.Scheme
}

type Let struct {
	Bind  LetBind
	Value Expr
	Body  Expr
	Pos   ast.Pos
}

func (*Let) exprNode()       {}
func (n *Let) Position() ast.Pos { return n.Pos }

type Apply struct {
	Func Expr
	Arg  Expr
	Pos  ast.Pos
}

func (*Apply) exprNode()       {}
func (n *Apply) Position() ast.Pos { return n.Pos }

type Param struct {
	Ident Ident
	Ann   *types.Ty
}

type Lambda struct {
	Param Param
	Body  Expr
	Pos   ast.Pos
}

func (*Lambda) exprNode()       {}
func (n *Lambda) Position() ast.Pos { return n.Pos }

// scope is an immutable linked-list frame, mirroring the style of
// types.TypingContext: pushing a frame never mutates the parent, so a
// Resolver can hold the frame pointer active on the call stack and simply
// return when a nested resolve call is done, with no explicit pop step.
type scope struct {
	parent *scope
	name   string
	ident  Ident
}

func (s *scope) lookup(name string) (Ident, bool) {
	for f := s; f != nil; f = f.parent {
		if f.name == name {
			return f.ident, true
		}
	}
	return Ident{}, false
}

func (s *scope) extend(name string, ident Ident) *scope {
	return &scope{parent: s, name: name, ident: ident}
}

// Resolver holds the one piece of process-wide state spec.md §5 allows: a
// gensym counter for minting unique identifiers, local to this Resolver
// instance.
type Resolver struct {
	gen *namegen.Generator
}

// New returns a Resolver with its own independent counter.
func New() *Resolver {
	return &Resolver{gen: namegen.New("r")}
}

func (r *Resolver) fresh(surface string) Ident {
	return Ident{Surface: surface, Unique: surface + "$" + r.gen.Next()}
}

// Resolve walks a surface ast.Expr and produces its resolved form, or an
// UnboundVariable error (RES001) at the first free identifier.
func (r *Resolver) Resolve(e ast.Expr) (Expr, error) {
	return r.resolve(e, nil)
}

func (r *Resolver) resolve(e ast.Expr, sc *scope) (Expr, error) {
	switch n := e.(type) {
	case *ast.IntLit:
		return &IntLit{Value: n.Value, Pos: n.Pos}, nil
	case *ast.BoolLit:
		return &BoolLit{Value: n.Value, Pos: n.Pos}, nil
	case *ast.UnitLit:
		return &UnitLit{Pos: n.Pos}, nil
	case *ast.OpRef:
		return &OpRef{Op: n.Op, Pos: n.Pos}, nil

	case *ast.VarRef:
		id, ok := sc.lookup(n.Name)
		if !ok {
			return nil, errors.Unbound(errors.RES001UnboundVariable,
				"unbound variable "+n.Name, n.Pos)
		}
		return &VarRef{Ident: id, Pos: n.Pos}, nil

	case *ast.If:
		cond, err := r.resolve(n.Cond, sc)
		if err != nil {
			return nil, err
		}
		thenE, err := r.resolve(n.Then, sc)
		if err != nil {
			return nil, err
		}
		elseE, err := r.resolve(n.Else, sc)
		if err != nil {
			return nil, err
		}
		return &If{Cond: cond, Then: thenE, Else: elseE, Pos: n.Pos}, nil

	case *ast.Let:
		return r.resolveLet(n, sc)

	case *ast.Apply:
		fn, err := r.resolve(n.Func, sc)
		if err != nil {
			return nil, err
		}
		arg, err := r.resolve(n.Arg, sc)
		if err != nil {
			return nil, err
		}
		return &Apply{Func: fn, Arg: arg, Pos: n.Pos}, nil

	case *ast.Lambda:
		id := r.fresh(n.Param.Name)
		inner := sc.extend(n.Param.Name, id)
		body, err := r.resolve(n.Body, inner)
		if err != nil {
			return nil, err
		}
		return &Lambda{Param: Param{Ident: id, Ann: n.Param.Ann}, Body: body, Pos: n.Pos}, nil

	default:
		return nil, errors.Internal("resolve", "unknown surface AST node")
	}
}

// resolveLet implements spec.md §4.2's Let rule precisely: the binder is
// inserted into scope before the value is resolved only when Scheme is
// non-nil (the self-recursive exception of §4.3); otherwise the value is
// resolved in the outer scope and only the body sees the new binder.
func (r *Resolver) resolveLet(n *ast.Let, sc *scope) (Expr, error) {
	id := r.fresh(n.Bind.Name)

	var value Expr
	var err error
	if n.Bind.Scheme != nil {
		inner := sc.extend(n.Bind.Name, id)
		value, err = r.resolve(n.Value, inner)
	} else {
		value, err = r.resolve(n.Value, sc)
	}
	if err != nil {
		return nil, err
	}

	bodyScope := sc.extend(n.Bind.Name, id)
	body, err := r.resolve(n.Body, bodyScope)
	if err != nil {
		return nil, err
	}

	return &Let{
		Bind:  LetBind{Ident: id, Scheme: n.Bind.Scheme},
		Value: value,
		Body:  body,
		Pos:   n.Pos,
	}, nil
}
