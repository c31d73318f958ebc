package anf_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knfc-lang/knfc/internal/anf"
	"github.com/knfc-lang/knfc/internal/knf"
	"github.com/knfc-lang/knfc/internal/parser"
	"github.com/knfc-lang/knfc/internal/resolve"
	"github.com/knfc-lang/knfc/internal/typecheck"
	"github.com/knfc-lang/knfc/internal/uncurry"
)

func mustANF(t *testing.T, src string) knf.Expr {
	t.Helper()
	surface, err := parser.Parse("<test>", []byte(src))
	require.NoError(t, err)
	resolved, err := resolve.New().Resolve(surface)
	require.NoError(t, err)
	typed, err := typecheck.Infer(resolved)
	require.NoError(t, err)
	knfExpr := knf.KNF(uncurry.Uncurry(typed))
	return anf.ANF(knfExpr)
}

// assertNoNestedLet walks the tree and fails if any Let's Value is itself
// a Let -- the universal post-ANF invariant from spec.md §4.6.
func assertNoNestedLet(t *testing.T, e knf.Expr) {
	t.Helper()
	switch n := e.(type) {
	case *knf.Let:
		if _, isLet := n.Value.(*knf.Let); isLet {
			t.Fatalf("found a Let nested inside another Let's value slot")
		}
		assertNoNestedLet(t, n.Value)
		assertNoNestedLet(t, n.Body)
	case *knf.If:
		assertNoNestedLet(t, n.Then)
		assertNoNestedLet(t, n.Else)
	case *knf.Lambda:
		assertNoNestedLet(t, n.Body)
	}
}

func TestANF_NestedApplyFlattensToSequentialLets(t *testing.T) {
	src := `let g : int -> int = fun x -> x in let f : int -> int = fun y -> y in f (g 1)`
	e := mustANF(t, src)
	assertNoNestedLet(t, e)
}

func TestANF_IfInsideLetValueIsFlattened(t *testing.T) {
	src := `let x = if true then 1 else 2 in x`
	e := mustANF(t, src)
	assertNoNestedLet(t, e)

	let, ok := e.(*knf.Let)
	require.True(t, ok)
	_, valueIsIf := let.Value.(*knf.If)
	assert.True(t, valueIsIf)
}

func TestANF_RecursiveFactorialHasNoNestedLets(t *testing.T) {
	src := `let rec fact (n: int) : int = if n == 0 then 1 else n * fact (n - 1) in fact 5`
	e := mustANF(t, src)
	assertNoNestedLet(t, e)
}

// TestANF_IsIdempotent checks that re-running ANF over its own output
// yields a structurally identical tree -- a fixed point, not just "still
// has no nested lets" -- using go-cmp instead of hand-walking every node
// kind the way assertNoNestedLet does.
func TestANF_IsIdempotent(t *testing.T) {
	src := `let rec fact (n: int) : int = if n == 0 then 1 else n * fact (n - 1) in fact 5`
	once := mustANF(t, src)
	twice := anf.ANF(once)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("ANF is not idempotent (-once +twice):\n%s", diff)
	}
}

func TestANF_LambdaBodyIsOwnFlattenedSubtree(t *testing.T) {
	src := `let f : int -> int = fun x -> let y = x + 1 in let z = y + 1 in z in f 1`
	e := mustANF(t, src)
	assertNoNestedLet(t, e)
}
