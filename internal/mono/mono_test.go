package mono_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knfc-lang/knfc/internal/anf"
	"github.com/knfc-lang/knfc/internal/knf"
	"github.com/knfc-lang/knfc/internal/mono"
	"github.com/knfc-lang/knfc/internal/parser"
	"github.com/knfc-lang/knfc/internal/resolve"
	"github.com/knfc-lang/knfc/internal/typecheck"
	"github.com/knfc-lang/knfc/internal/uncurry"
)

func mustMono(t *testing.T, src string) knf.Expr {
	t.Helper()
	surface, err := parser.Parse("<test>", []byte(src))
	require.NoError(t, err)
	resolved, err := resolve.New().Resolve(surface)
	require.NoError(t, err)
	typed, err := typecheck.Infer(resolved)
	require.NoError(t, err)
	knfExpr := anf.ANF(knf.KNF(uncurry.Uncurry(typed)))
	out, err := mono.Monomorphize(knfExpr)
	require.NoError(t, err)
	return out
}

// collectLetIdents walks every Let binder's unique name in the tree, in
// the order they're encountered from the outside in.
func collectLetIdents(e knf.Expr) []string {
	var out []string
	var walk func(knf.Expr)
	walk = func(x knf.Expr) {
		switch n := x.(type) {
		case *knf.Let:
			out = append(out, n.Bind.Ident.Unique)
			walk(n.Value)
			walk(n.Body)
		case *knf.If:
			walk(n.Then)
			walk(n.Else)
		case *knf.Lambda:
			walk(n.Body)
		}
	}
	walk(e)
	return out
}

func assertNoPolymorphicLets(t *testing.T, e knf.Expr) {
	t.Helper()
	var walk func(knf.Expr)
	walk = func(x knf.Expr) {
		switch n := x.(type) {
		case *knf.Let:
			assert.False(t, n.Bind.IsPolymorphic, "monomorphization should discard every polymorphic binding")
			walk(n.Value)
			walk(n.Body)
		case *knf.If:
			walk(n.Then)
			walk(n.Else)
		case *knf.Lambda:
			walk(n.Body)
		}
	}
	walk(e)
}

// countWithSuffix counts the Let binders whose mangled name ends with
// suffix, e.g. "__bool" or "__int".
func countWithSuffix(idents []string, suffix string) int {
	n := 0
	for _, id := range idents {
		if strings.HasSuffix(id, suffix) {
			n++
		}
	}
	return n
}

func TestMonomorphize_IdentityUsedAtTwoTypesProducesTwoInstances(t *testing.T) {
	src := `let id : forall a. a -> a = fun x -> x in if id true then id 1 else id 2`
	e := mustMono(t, src)
	assertNoPolymorphicLets(t, e)

	idents := collectLetIdents(e)
	assert.Equal(t, 1, countWithSuffix(idents, "__bool"), "a single specialization should serve id true")
	assert.Equal(t, 1, countWithSuffix(idents, "__int"), "a single specialization should serve both id 1 and id 2")
}

func TestMonomorphize_SameInstanceReusedAcrossMultipleCallSites(t *testing.T) {
	src := `let id : forall a. a -> a = fun x -> x in id 1 + id 2`
	e := mustMono(t, src)
	idents := collectLetIdents(e)
	assert.Equal(t, 1, countWithSuffix(idents, "__int"), "two uses at the same type share one specialized binding")
}

func TestMonomorphize_NestedPolymorphismSpecializesBothBindings(t *testing.T) {
	src := `let id : forall a. a -> a = fun x -> x in ` +
		`let apply : forall a b. (a -> b) -> a -> b = fun f -> fun y -> f y in ` +
		`apply id 7`
	e := mustMono(t, src)
	assertNoPolymorphicLets(t, e)

	idents := collectLetIdents(e)
	foundIDInstance, foundApplyInstance := false, false
	for _, id := range idents {
		if strings.HasPrefix(id, "id$") && strings.Contains(id, "__") {
			foundIDInstance = true
		}
		if strings.HasPrefix(id, "apply$") && strings.Contains(id, "__") {
			foundApplyInstance = true
		}
	}
	assert.True(t, foundIDInstance, "id should be specialized under a mangled name")
	assert.True(t, foundApplyInstance, "apply should be specialized under a mangled name")
}

func TestMonomorphize_NonPolymorphicBindingsAreLeftAlone(t *testing.T) {
	src := `let f : int -> int = fun x -> x in f 1`
	e := mustMono(t, src)
	idents := collectLetIdents(e)
	found := false
	for _, id := range idents {
		if strings.HasPrefix(id, "f$") && !strings.Contains(id, "__") {
			found = true
		}
	}
	assert.True(t, found, "a non-polymorphic binding keeps its resolved identifier unchanged")
}

func TestMonomorphize_IsIdempotentOnAnAlreadyMonomorphicTree(t *testing.T) {
	src := `let id : forall a. a -> a = fun x -> x in id 1`
	once := mustMono(t, src)
	twice, err := mono.Monomorphize(once)
	require.NoError(t, err)
	assert.Equal(t, collectLetIdents(once), collectLetIdents(twice))
}
