package knf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knfc-lang/knfc/internal/knf"
	"github.com/knfc-lang/knfc/internal/parser"
	"github.com/knfc-lang/knfc/internal/resolve"
	"github.com/knfc-lang/knfc/internal/typecheck"
	"github.com/knfc-lang/knfc/internal/uncurry"
)

func mustKNF(t *testing.T, src string) knf.Expr {
	t.Helper()
	surface, err := parser.Parse("<test>", []byte(src))
	require.NoError(t, err)
	resolved, err := resolve.New().Resolve(surface)
	require.NoError(t, err)
	typed, err := typecheck.Infer(resolved)
	require.NoError(t, err)
	return knf.KNF(uncurry.Uncurry(typed))
}

func TestKNF_IfConditionIsHoistedIntoLet(t *testing.T) {
	e := mustKNF(t, "if 1 == 1 then 2 else 3")

	var findIf func(knf.Expr) *knf.If
	findIf = func(x knf.Expr) *knf.If {
		switch n := x.(type) {
		case *knf.Let:
			if n.Body != nil {
				if found := findIf(n.Body); found != nil {
					return found
				}
			}
			return findIf(n.Value)
		case *knf.If:
			return n
		default:
			return nil
		}
	}
	ifNode := findIf(e)
	require.NotNil(t, ifNode)
	_, isVar := ifNode.CondAtom.(*knf.VarRef)
	assert.True(t, isVar)

	let, ok := e.(*knf.Let)
	require.True(t, ok)
	_, valueIsLet := let.Value.(*knf.Let)
	assert.True(t, valueIsLet, "the == application's own atomic arguments should also be hoisted")
}

func TestKNF_ApplyArgsAreAlwaysHoistedEvenWhenAtomic(t *testing.T) {
	// "f 1" -- 1 is already atomic, but the hoisting policy hoists it
	// anyway so the ANF pass can rely on a uniform shape.
	src := `let f : int -> int = fun x -> x in f 1`
	e := mustKNF(t, src)
	let, ok := e.(*knf.Let)
	require.True(t, ok)
	inner, ok := let.Body.(*knf.Let)
	require.True(t, ok)
	apply, ok := inner.Body.(*knf.Apply)
	require.True(t, ok)
	_, argIsVar := apply.Args[0].(*knf.VarRef)
	assert.True(t, argIsVar)
}

func TestKNF_NestedApplyHoistsInnerCallFirst(t *testing.T) {
	// "f (g 1)" -- g 1 is not atomic, so it is named before f's own
	// argument-hoisting wraps it again.
	src := `let g : int -> int = fun x -> x in let f : int -> int = fun y -> y in f (g 1)`
	e := mustKNF(t, src)

	var walk func(knf.Expr) *knf.Apply
	walk = func(x knf.Expr) *knf.Apply {
		switch n := x.(type) {
		case *knf.Let:
			return walk(n.Body)
		case *knf.Apply:
			return n
		default:
			return nil
		}
	}
	outerApply := walk(e)
	require.NotNil(t, outerApply)
	_, argIsVar := outerApply.Args[0].(*knf.VarRef)
	assert.True(t, argIsVar)
}

func TestKNF_LambdaBodyIsRecursivelyTransformed(t *testing.T) {
	src := `let f : int -> int = fun x -> if x == 0 then 1 else x in f 1`
	e := mustKNF(t, src)
	let, ok := e.(*knf.Let)
	require.True(t, ok)
	lam, ok := let.Value.(*knf.Lambda)
	require.True(t, ok)
	_, bodyIsLet := lam.Body.(*knf.Let)
	assert.True(t, bodyIsLet, "lambda body's If-condition hoist should produce a Let")
}
