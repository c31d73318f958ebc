// Package ast defines the surface AST produced by the lexer/parser (§6.1
// of spec.md) and the positions/spans carried through every later IR for
// diagnostics.
package ast

import (
	"fmt"

	"github.com/knfc-lang/knfc/internal/types"
)

// Pos is a single point in a source file.
type Pos struct {
	File   string
	Line   int
	Column int
	Offset int
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a source range [Start, End).
type Span struct {
	Start Pos
	End   Pos
}

// OpType is a primitive binary operator, always treated as a first-class
// atom carrying an arrow type (spec.md §3).
type OpType int

const (
	OpAdd OpType = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLeq
	OpGeq
)

var opNames = map[OpType]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/",
	OpEq: "==", OpNeq: "!=", OpLt: "<", OpGt: ">", OpLeq: "<=", OpGeq: ">=",
}

func (o OpType) String() string { return opNames[o] }

// IsArith reports whether o is one of the arithmetic operators (Int -> Int
// -> Int), as opposed to the comparison operators (Int -> Int -> Bool).
func (o OpType) IsArith() bool {
	switch o {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	default:
		return false
	}
}

// Expr is the surface AST, variant ASTExpr<String, Option<Ty>, Option<Scheme>>
// with five forms: Atom/If/Let/Apply/Lambda (spec.md §6.1). Apply and
// Lambda are unary at this layer; uncurrying happens at C5.
type Expr interface {
	Position() Pos
	exprNode()
}

// IntLit, BoolLit and UnitLit are three of the surface atom forms.
type IntLit struct {
	Value int32
	Pos   Pos
}

type BoolLit struct {
	Value bool
	Pos   Pos
}

type UnitLit struct {
	Pos Pos
}

// VarRef is a surface variable reference by name, resolved to a
// resolve.Ident by package resolve.
type VarRef struct {
	Name string
	Pos  Pos
}

// OpRef is a surface reference to a primitive operator as a first-class
// atom (e.g. written as a section, or the callee of a fully-applied Apply
// chain emitted by the parser's infix-to-prefix desugaring).
type OpRef struct {
	Op  OpType
	Pos Pos
}

func (*IntLit) exprNode()  {}
func (*BoolLit) exprNode() {}
func (*UnitLit) exprNode() {}
func (*VarRef) exprNode()  {}
func (*OpRef) exprNode()   {}

func (n *IntLit) Position() Pos  { return n.Pos }
func (n *BoolLit) Position() Pos { return n.Pos }
func (n *UnitLit) Position() Pos { return n.Pos }
func (n *VarRef) Position() Pos  { return n.Pos }
func (n *OpRef) Position() Pos   { return n.Pos }

// If is the conditional form.
type If struct {
	Cond, Then, Else Expr
	Pos              Pos
}

func (*If) exprNode()      {}
func (n *If) Position() Pos { return n.Pos }

// LetBind is a let-binder: a name plus an optional user-written scheme
// (spec.md §6.1, "Let.bind = (name, Option<Scheme>)").
type LetBind struct {
	Name   string
	Scheme *types.Scheme // nil when unannotated
}

// Let is the let-binding form. Non-recursive: Body sees Bind, Value does
// not, unless Scheme is non-nil (spec.md §4.2/§4.3's self-recursive
// exception). The `let rec` surface sugar of SPEC_FULL.md §3 desugars to
// exactly this annotated shape before resolution ever sees it.
type Let struct {
	Bind  LetBind
	Value Expr
	Body  Expr
	Pos   Pos
}

func (*Let) exprNode()      {}
func (n *Let) Position() Pos { return n.Pos }

// Apply is unary function application; C5 collapses nested Applies into
// n-ary form.
type Apply struct {
	Func Expr
	Arg  Expr
	Pos  Pos
}

func (*Apply) exprNode()      {}
func (n *Apply) Position() Pos { return n.Pos }

// Param is a lambda parameter: a name plus an optional type annotation.
// Per spec.md §4.3, the annotation is only optional when the binding
// context supplies it (e.g. a Let scheme) — a free-floating unannotated
// lambda is a type error at check time, not at parse time.
type Param struct {
	Name string
	Ann  *types.Ty // nil when unannotated
}

// Lambda is unary abstraction; C5 collapses nested Lambdas into n-ary
// form.
type Lambda struct {
	Param Param
	Body  Expr
	Pos   Pos
}

func (*Lambda) exprNode()      {}
func (n *Lambda) Position() Pos { return n.Pos }
