package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knfc-lang/knfc/internal/parser"
	"github.com/knfc-lang/knfc/internal/resolve"
)

func mustResolve(t *testing.T, src string) resolve.Expr {
	t.Helper()
	surface, err := parser.Parse("<test>", []byte(src))
	require.NoError(t, err)
	r := resolve.New()
	resolved, err := r.Resolve(surface)
	require.NoError(t, err)
	return resolved
}

func TestResolve_UnboundVariableFails(t *testing.T) {
	surface, err := parser.Parse("<test>", []byte("x"))
	require.NoError(t, err)
	_, err = resolve.New().Resolve(surface)
	require.Error(t, err)
}

func TestResolve_ShadowingUsesInnerFrame(t *testing.T) {
	// let x = 1 in let x = 2 in x   --  the innermost x must win.
	e := mustResolve(t, "let x = 1 in let x = 2 in x")
	outer, ok := e.(*resolve.Let)
	require.True(t, ok)
	inner, ok := outer.Body.(*resolve.Let)
	require.True(t, ok)
	ref, ok := inner.Body.(*resolve.VarRef)
	require.True(t, ok)
	assert.Equal(t, inner.Bind.Ident, ref.Ident)
	assert.NotEqual(t, outer.Bind.Ident, inner.Bind.Ident)
}

func TestResolve_NonRecursiveLetValueDoesNotSeeBinder(t *testing.T) {
	// "x" inside the value position here refers to the *outer* x, not the
	// one being defined, since this let carries no scheme.
	surface, err := parser.Parse("<test>", []byte("let x = 1 in let x = x in x"))
	require.NoError(t, err)
	_, err = resolve.New().Resolve(surface)
	require.NoError(t, err) // outer x is in scope, so this resolves fine

	surfaceUnbound, err := parser.Parse("<test>", []byte("let x = x in x"))
	require.NoError(t, err)
	_, err = resolve.New().Resolve(surfaceUnbound)
	require.Error(t, err) // no outer x here, so the inner x is unbound
}

func TestResolve_SelfRecursiveExceptionBindsValueScope(t *testing.T) {
	src := `let rec fact (n: int) : int = if n == 0 then 1 else n * fact (n - 1) in fact 5`
	surface, err := parser.Parse("<test>", []byte(src))
	require.NoError(t, err)
	_, err = resolve.New().Resolve(surface)
	require.NoError(t, err)
}

func TestResolve_LambdaParamShadowsOuterBinding(t *testing.T) {
	e := mustResolve(t, "let x = 1 in fun x -> x")
	let, ok := e.(*resolve.Let)
	require.True(t, ok)
	lam, ok := let.Body.(*resolve.Lambda)
	require.True(t, ok)
	ref, ok := lam.Body.(*resolve.VarRef)
	require.True(t, ok)
	assert.Equal(t, lam.Param.Ident, ref.Ident)
	assert.NotEqual(t, let.Bind.Ident, ref.Ident)
}
