// Package typedast is the fully-annotated IR the type checker (C4)
// produces: the same five-form shape as package resolve, with every node
// carrying a frozen types.Ty slot (spec.md §4.3's final_apply leaves this
// tree substitution-free).
package typedast

import (
	"github.com/knfc-lang/knfc/internal/ast"
	"github.com/knfc-lang/knfc/internal/resolve"
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

// LetBind carries IsPolymorphic forward from the checker into every later
// pass (spec.md §4.5, "Let nodes carry their is_polymorphic flag
// forward"): true exactly when the binder's scheme quantifies at least one
// variable, since this language has no let-generalization — only
// explicit, user-written foralls make a binding polymorphic.
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

type Apply struct {
	Func Expr
	Arg  Expr
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

type Lambda struct {
	Param Param
	Body  Expr
	Ty    types.Ty
	Pos   ast.Pos
}

func (*Lambda) exprNode()        {}
func (n *Lambda) Position() ast.Pos { return n.Pos }
func (n *Lambda) Type() types.Ty    { return n.Ty }
