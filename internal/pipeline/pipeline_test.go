package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knfc-lang/knfc/internal/pipeline"
)

func TestRun_SimpleArithmeticProducesCOutput(t *testing.T) {
	res, err := pipeline.Run(pipeline.Config{}, pipeline.Source{
		Filename: "<test>",
		Code:     []byte("1 + 2"),
	})
	require.NoError(t, err)
	assert.Contains(t, res.C, "#include <stdio.h>")
	assert.Contains(t, res.C, "int main() {")
}

func TestRun_RecursiveFactorialProducesClosureAndEmission(t *testing.T) {
	src := `let rec fact (n: int) : int = if n == 0 then 1 else n * fact (n - 1) in fact 5`
	res, err := pipeline.Run(pipeline.Config{DumpClosure: true, DumpMono: true}, pipeline.Source{
		Filename: "<test>",
		Code:     []byte(src),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Artifacts.Closure)
	assert.Len(t, res.Artifacts.Closure.Globals, 1)
	assert.NotNil(t, res.Artifacts.Mono)
}

func TestRun_ParseErrorAbortsBeforeLaterPhases(t *testing.T) {
	res, err := pipeline.Run(pipeline.Config{}, pipeline.Source{
		Filename: "<test>",
		Code:     []byte("let in"),
	})
	require.Error(t, err)
	assert.Empty(t, res.C)
}

func TestRun_TypeErrorAbortsBeforeEmission(t *testing.T) {
	res, err := pipeline.Run(pipeline.Config{}, pipeline.Source{
		Filename: "<test>",
		Code:     []byte("if 1 then 2 else 3"),
	})
	require.Error(t, err)
	assert.Empty(t, res.C)
}

func TestRun_RecordsPhaseTimingsForEveryPass(t *testing.T) {
	res, err := pipeline.Run(pipeline.Config{}, pipeline.Source{
		Filename: "<test>",
		Code:     []byte("1 + 2"),
	})
	require.NoError(t, err)
	for _, phase := range []string{"resolve", "typecheck", "uncurry", "knf", "anf", "monomorphize", "closure", "emit"} {
		_, ok := res.PhaseTimings[phase]
		assert.True(t, ok, "expected a timing entry for phase %q", phase)
	}
}

func TestRun_DumpFlagsAreOptIn(t *testing.T) {
	res, err := pipeline.Run(pipeline.Config{}, pipeline.Source{
		Filename: "<test>",
		Code:     []byte("1 + 2"),
	})
	require.NoError(t, err)
	assert.Nil(t, res.Artifacts.Resolved)
	assert.Nil(t, res.Artifacts.Typed)
}
