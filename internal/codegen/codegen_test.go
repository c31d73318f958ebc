package codegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knfc-lang/knfc/internal/anf"
	"github.com/knfc-lang/knfc/internal/closure"
	"github.com/knfc-lang/knfc/internal/codegen"
	"github.com/knfc-lang/knfc/internal/knf"
	"github.com/knfc-lang/knfc/internal/mono"
	"github.com/knfc-lang/knfc/internal/parser"
	"github.com/knfc-lang/knfc/internal/resolve"
	"github.com/knfc-lang/knfc/internal/typecheck"
	"github.com/knfc-lang/knfc/internal/uncurry"
)

func mustEmit(t *testing.T, src string) string {
	t.Helper()
	surface, err := parser.Parse("<test>", []byte(src))
	require.NoError(t, err)
	resolved, err := resolve.New().Resolve(surface)
	require.NoError(t, err)
	typed, err := typecheck.Infer(resolved)
	require.NoError(t, err)
	knfExpr := anf.ANF(knf.KNF(uncurry.Uncurry(typed)))
	monoExpr, err := mono.Monomorphize(knfExpr)
	require.NoError(t, err)
	program := closure.Convert(monoExpr)
	out, err := codegen.Emit(program)
	require.NoError(t, err)
	return out
}

func TestEmit_PreludeIsAlwaysPresent(t *testing.T) {
	out := mustEmit(t, "1 + 1")
	assert.Contains(t, out, "#include <stdio.h>")
	assert.Contains(t, out, "#include <stdlib.h>")
	assert.Contains(t, out, "typedef struct { void* func; void* env; } __closure;")
}

func TestEmit_MainPrintsResult(t *testing.T) {
	out := mustEmit(t, "1 + 2")
	assert.Contains(t, out, "int main() {")
	assert.Contains(t, out, "printf(\"%d\\n\",")
}

func TestEmit_ArithmeticAndComparisonOperatorsLowerToCOperators(t *testing.T) {
	out := mustEmit(t, "if 3 == 3 then 1 - 2 else 4 * 5")
	assert.Contains(t, out, "==")
	assert.Contains(t, out, "-")
	assert.Contains(t, out, "*")
}

func TestEmit_LambdaProducesLiftedFunctionAndEnvStruct(t *testing.T) {
	src := `let f : int -> int = fun x -> x + 1 in f 41`
	out := mustEmit(t, src)
	assert.Contains(t, out, "typedef struct {")
	assert.Contains(t, out, "lambda_0")
	assert.Contains(t, out, "clos_env_lambda_0")
}

func TestEmit_ClosureCallCastsFunctionPointer(t *testing.T) {
	src := `let f : int -> int = fun x -> x + 1 in f 41`
	out := mustEmit(t, src)
	assert.Contains(t, out, "->func)(")
}

func TestEmit_RecursiveFactorialCompilesToSelfCapturingClosure(t *testing.T) {
	src := `let rec fact (n: int) : int = if n == 0 then 1 else n * fact (n - 1) in fact 5`
	out := mustEmit(t, src)
	assert.Contains(t, out, "malloc(sizeof(__closure))")
}

func TestEmit_IfEmitsPhiVariable(t *testing.T) {
	out := mustEmit(t, "if true then 1 else 2")
	assert.Contains(t, out, "if (")
	assert.Contains(t, out, "} else {")
}
