package ast

import "fmt"

// Print renders a surface expression in the source's own concrete syntax.
func Print(e Expr) string {
	return print(e, 0)
}

func pad(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += "  "
	}
	return out
}

func print(e Expr, indent int) string {
	switch n := e.(type) {
	case *IntLit:
		return fmt.Sprintf("%d", n.Value)
	case *BoolLit:
		return fmt.Sprintf("%t", n.Value)
	case *UnitLit:
		return "()"
	case *VarRef:
		return n.Name
	case *OpRef:
		return "(" + n.Op.String() + ")"
	case *If:
		return fmt.Sprintf("if %s then %s else %s",
			print(n.Cond, indent), print(n.Then, indent), print(n.Else, indent))
	case *Let:
		name := n.Bind.Name
		if n.Bind.Scheme != nil {
			name = fmt.Sprintf("%s : %s", name, n.Bind.Scheme)
		}
		return fmt.Sprintf("let %s = %s in\n%s%s", name, print(n.Value, indent+1), pad(indent+1), print(n.Body, indent+1))
	case *Apply:
		return fmt.Sprintf("(%s %s)", print(n.Func, indent), print(n.Arg, indent))
	case *Lambda:
		ann := ""
		if n.Param.Ann != nil {
			ann = ": " + n.Param.Ann.String()
		}
		return fmt.Sprintf("fun (%s%s) -> %s", n.Param.Name, ann, print(n.Body, indent))
	default:
		return "<?>"
	}
}
