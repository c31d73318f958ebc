package codegen

import (
	"fmt"
	"strings"

	"github.com/knfc-lang/knfc/internal/ast"
	"github.com/knfc-lang/knfc/internal/closure"
	"github.com/knfc-lang/knfc/internal/errors"
	"github.com/knfc-lang/knfc/internal/types"
)

// emitExpr lowers one closure-converted expression, returning the variable
// holding its result, per the per-ANF-form rules of spec.md §4.9.
func (b *Builder) emitExpr(e closure.Expr) (variable, error) {
	switch n := e.(type) {
	case *closure.IntLit:
		return b.emitInt(n)
	case *closure.BoolLit:
		return b.emitBool(n)
	case *closure.UnitLit:
		return variable{name: "", ty: "void"}, nil
	case *closure.VarRef:
		return b.resolve(n.Ident.Unique)
	case *closure.OpRef:
		return variable{}, errors.Imp(errors.IMP003UnexpectedForm, "a bare operator atom cannot be emitted outside an Apply")

	case *closure.ClosureRef:
		return b.emitClosureRef(n)

	case *closure.If:
		return b.emitIf(n)

	case *closure.Apply:
		return b.emitApply(n)

	case *closure.Let:
		return b.emitLet(n)

	default:
		return variable{}, errors.Imp(errors.IMP003UnexpectedForm, "unknown closure-converted node")
	}
}

func (b *Builder) emitInt(n *closure.IntLit) (variable, error) {
	tmp := b.freshTemp()
	b.emit(fmt.Sprintf("int %s;", tmp))
	b.emit(fmt.Sprintf("%s = %d;", tmp, n.Value))
	return variable{name: tmp, ty: "int"}, nil
}

func (b *Builder) emitBool(n *closure.BoolLit) (variable, error) {
	tmp := b.freshTemp()
	val := 0
	if n.Value {
		val = 1
	}
	b.emit(fmt.Sprintf("int %s;", tmp))
	b.emit(fmt.Sprintf("%s = %d;", tmp, val))
	return variable{name: tmp, ty: "int"}, nil
}

func (b *Builder) emitIf(n *closure.If) (variable, error) {
	ty, err := cType(n.Ty)
	if err != nil {
		return variable{}, err
	}
	phi := b.freshTemp()
	b.emit(fmt.Sprintf("%s %s;", ty, phi))

	cond, err := b.emitExpr(n.CondAtom)
	if err != nil {
		return variable{}, err
	}

	b.emit(fmt.Sprintf("if (%s) {", cond.name))
	b.pushScope()
	thenVar, err := b.emitExpr(n.Then)
	if err != nil {
		return variable{}, err
	}
	b.emit(fmt.Sprintf("%s = %s;", phi, thenVar.name))
	b.popScope()
	b.emit("} else {")
	b.pushScope()
	elseVar, err := b.emitExpr(n.Else)
	if err != nil {
		return variable{}, err
	}
	b.emit(fmt.Sprintf("%s = %s;", phi, elseVar.name))
	b.popScope()
	b.emit("}")

	return variable{name: phi, ty: ty}, nil
}

// emitApply implements the two Apply forms spec.md §4.9 distinguishes: a
// primitive operator applied to its operands, or a call through a
// closure's function pointer.
func (b *Builder) emitApply(n *closure.Apply) (variable, error) {
	args := make([]variable, len(n.Args))
	for i, a := range n.Args {
		v, err := b.emitExpr(a)
		if err != nil {
			return variable{}, err
		}
		args[i] = v
	}

	if op, ok := n.FuncAtom.(*closure.OpRef); ok {
		return b.emitOpApply(op, args, n.Ty)
	}

	return b.emitClosureCall(n, args)
}

var cOperator = map[ast.OpType]string{
	ast.OpAdd: "+", ast.OpSub: "-", ast.OpMul: "*", ast.OpDiv: "/",
	ast.OpEq: "==", ast.OpNeq: "!=", ast.OpLt: "<", ast.OpGt: ">",
	ast.OpLeq: "<=", ast.OpGeq: ">=",
}

func (b *Builder) emitOpApply(op *closure.OpRef, args []variable, retTy types.Ty) (variable, error) {
	symbol, ok := cOperator[op.Op]
	if !ok {
		return variable{}, errors.Imp(errors.IMP002UnsupportedOp, "unsupported operator: "+op.Op.String())
	}
	if len(args) != 2 {
		return variable{}, errors.Imp(errors.IMP002UnsupportedOp, "operator "+op.Op.String()+" requires exactly two operands")
	}
	cTy, err := cType(retTy)
	if err != nil {
		return variable{}, err
	}
	tmp := b.freshTemp()
	b.emit(fmt.Sprintf("%s %s;", cTy, tmp))
	b.emit(fmt.Sprintf("%s = %s %s %s;", tmp, args[0].name, symbol, args[1].name))
	return variable{name: tmp, ty: cTy}, nil
}

// emitClosureCall casts the closure's func pointer to the right C function
// type and invokes it, per spec.md §4.9: `((RET (*)(void*, ARG_TYPES))
// f->func)(f->env, arg0, arg1, ...)`.
func (b *Builder) emitClosureCall(n *closure.Apply, args []variable) (variable, error) {
	fn, err := b.emitExpr(n.FuncAtom)
	if err != nil {
		return variable{}, err
	}

	retTy, err := cType(n.Ty)
	if err != nil {
		return variable{}, err
	}

	argTys := make([]string, len(n.Args))
	for i, a := range n.Args {
		ty, err := cType(a.Type())
		if err != nil {
			return variable{}, err
		}
		argTys[i] = ty
	}

	castSig := fmt.Sprintf("%s (*)(void*, %s)", retTy, strings.Join(argTys, ", "))
	callArgs := append([]string{fn.name + "->env"}, varNames(args)...)

	tmp := b.freshTemp()
	b.emit(fmt.Sprintf("%s %s;", retTy, tmp))
	b.emit(fmt.Sprintf("%s = ((%s) %s->func)(%s);", tmp, castSig, fn.name, strings.Join(callArgs, ", ")))
	return variable{name: tmp, ty: retTy}, nil
}

func varNames(vs []variable) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.name
	}
	return out
}

// emitLet implements the Let case of spec.md §4.9, special-casing a
// ClosureRef value: the environment and closure struct are heap-allocated,
// and the closure's own name is bound before its captures are evaluated so
// a self-recursive closure can capture itself.
func (b *Builder) emitLet(n *closure.Let) (variable, error) {
	if ref, ok := n.Value.(*closure.ClosureRef); ok {
		if err := b.emitClosureLet(n, ref); err != nil {
			return variable{}, err
		}
		return b.emitExpr(n.Body)
	}

	value, err := b.emitExpr(n.Value)
	if err != nil {
		return variable{}, err
	}
	b.bind(n.Bind.Ident.Unique, value)
	return b.emitExpr(n.Body)
}

func (b *Builder) emitClosureLet(n *closure.Let, ref *closure.ClosureRef) error {
	envStructName := "clos_env_" + ref.Ref.GlobalName
	envVar := b.freshTemp()
	b.emit(fmt.Sprintf("%s* %s = malloc(sizeof(%s));", envStructName, envVar, envStructName))

	// The closure pointer is allocated and bound before any capture is
	// evaluated, so a self-recursive closure can capture itself -- its
	// address never changes after this point.
	closVar := cIdent(n.Bind.Ident.Unique)
	b.emit(fmt.Sprintf("__closure* %s = malloc(sizeof(__closure));", closVar))
	b.bind(n.Bind.Ident.Unique, variable{name: closVar, ty: "__closure*"})

	for _, cap := range ref.Ref.Capture {
		capVar, err := b.resolve(cap.Ident.Unique)
		if err != nil {
			return err
		}
		b.emit(fmt.Sprintf("%s->%s = %s;", envVar, cIdent(cap.Ident.Unique), capVar.name))
	}

	b.emit(fmt.Sprintf("%s->func = (void*) %s;", closVar, ref.Ref.GlobalName))
	b.emit(fmt.Sprintf("%s->env = (void*) %s;", closVar, envVar))
	return nil
}

func (b *Builder) emitClosureRef(n *closure.ClosureRef) (variable, error) {
	// A ClosureRef only ever appears directly as a Let's Value (see
	// emitLet); reaching it elsewhere means the closure converter produced
	// a bare lambda with nowhere to bind it.
	return variable{}, errors.Imp(errors.IMP003UnexpectedForm, "a closure reference must be the value of a let binding")
}
