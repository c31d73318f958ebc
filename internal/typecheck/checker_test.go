package typecheck_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knfc-lang/knfc/internal/parser"
	"github.com/knfc-lang/knfc/internal/resolve"
	"github.com/knfc-lang/knfc/internal/typecheck"
	"github.com/knfc-lang/knfc/internal/typedast"
)

func typecheckSrc(t *testing.T, src string) typedast.Expr {
	t.Helper()
	surface, err := parser.Parse("<test>", []byte(src))
	require.NoError(t, err)
	resolved, err := resolve.New().Resolve(surface)
	require.NoError(t, err)
	typed, err := typecheck.Infer(resolved)
	require.NoError(t, err)
	return typed
}

func TestInfer_SimpleApplication(t *testing.T) {
	// let f : int -> int = fun x -> x + 1 in f 41
	typed := typecheckSrc(t, `let f : int -> int = fun x -> x + 1 in f 41`)
	assert.Equal(t, "int", typed.Type().String())
}

func TestInfer_RecursiveFactorial(t *testing.T) {
	src := `let rec fact (n: int) : int = if n == 0 then 1 else n * fact (n - 1) in fact 5`
	typed := typecheckSrc(t, src)
	assert.Equal(t, "int", typed.Type().String())
}

func TestInfer_ClosureCapture(t *testing.T) {
	src := `let x = 3 in let addx = fun (y: int) -> x + y in addx 4`
	typed := typecheckSrc(t, src)
	assert.Equal(t, "int", typed.Type().String())
}

func TestInfer_PolymorphicIdentityAtTwoTypes(t *testing.T) {
	src := `let id : forall a. a -> a = fun x -> x in if id true then id 1 else id 2`
	typed := typecheckSrc(t, src)
	assert.Equal(t, "int", typed.Type().String())
}

func TestInfer_PolymorphicApplyAndIdentity(t *testing.T) {
	src := `let apply : forall a b. (a -> b) -> a -> b = fun f x -> f x in
	        let id : forall a. a -> a = fun y -> y in
	        apply id 7`
	typed := typecheckSrc(t, src)
	assert.Equal(t, "int", typed.Type().String())
}

func TestInfer_IfBranchTypeMismatchFails(t *testing.T) {
	surface, err := parser.Parse("<test>", []byte("if true then 1 else false"))
	require.NoError(t, err)
	resolved, err := resolve.New().Resolve(surface)
	require.NoError(t, err)
	_, err = typecheck.Infer(resolved)
	require.Error(t, err)
}

func TestInfer_UnannotatedFreeLambdaFails(t *testing.T) {
	surface, err := parser.Parse("<test>", []byte("fun x -> x"))
	require.NoError(t, err)
	resolved, err := resolve.New().Resolve(surface)
	require.NoError(t, err)
	_, err = typecheck.Infer(resolved)
	require.Error(t, err)
}

func TestInfer_LetBindingIsPolymorphicFlagReflectsScheme(t *testing.T) {
	surface, err := parser.Parse("<test>", []byte(`let id : forall a. a -> a = fun x -> x in id 1`))
	require.NoError(t, err)
	resolved, err := resolve.New().Resolve(surface)
	require.NoError(t, err)
	typed, err := typecheck.Infer(resolved)
	require.NoError(t, err)
	let, ok := typed.(*typedast.Let)
	require.True(t, ok)
	assert.True(t, let.Bind.IsPolymorphic)
}
