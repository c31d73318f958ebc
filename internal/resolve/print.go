package resolve

import "fmt"

// Print renders a resolved expression using each identifier's unique name,
// used by the `knfc dump resolved` subcommand to show scoping decisions
// directly instead of asking the reader to re-derive them.
func Print(e Expr) string {
	switch n := e.(type) {
	case *IntLit:
		return fmt.Sprintf("%d", n.Value)
	case *BoolLit:
		return fmt.Sprintf("%t", n.Value)
	case *UnitLit:
		return "()"
	case *VarRef:
		return n.Ident.Unique
	case *OpRef:
		return "(" + n.Op.String() + ")"
	case *If:
		return fmt.Sprintf("if %s then %s else %s", Print(n.Cond), Print(n.Then), Print(n.Else))
	case *Let:
		return fmt.Sprintf("let %s = %s in %s", n.Bind.Ident.Unique, Print(n.Value), Print(n.Body))
	case *Apply:
		return fmt.Sprintf("(%s %s)", Print(n.Func), Print(n.Arg))
	case *Lambda:
		return fmt.Sprintf("fun (%s) -> %s", n.Param.Ident.Unique, Print(n.Body))
	default:
		return "<?>"
	}
}
