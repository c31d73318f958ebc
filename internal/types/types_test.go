package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knfc-lang/knfc/internal/types"
)

func TestString_RendersArrowsRightAssociatively(t *testing.T) {
	ty := types.TArrow(types.TInt(), types.TArrow(types.TBool(), types.TInt()))
	assert.Equal(t, "int -> bool -> int", ty.String())
}

func TestString_ParenthesizesArrowOnTheLeftOfAnArrow(t *testing.T) {
	ty := types.TArrow(types.TArrow(types.TInt(), types.TInt()), types.TBool())
	assert.Equal(t, "(int -> int) -> bool", ty.String())
}

func TestEquals_IgnoresPendingSubstitution(t *testing.T) {
	a := types.TArrow(types.TMono("t0"), types.TInt())
	b := types.TArrow(types.TMono("t0"), types.TInt())
	assert.True(t, a.Equals(b))

	c := types.TArrow(types.TMono("t1"), types.TInt())
	assert.False(t, a.Equals(c))
}

func TestExtractArgs_WalksTheArrowSpine(t *testing.T) {
	ty := types.TArrow(types.TInt(), types.TArrow(types.TBool(), types.TInt()))
	args, ret := ty.ExtractArgs()
	require.Len(t, args, 2)
	assert.True(t, args[0].Equals(types.TInt()))
	assert.True(t, args[1].Equals(types.TBool()))
	assert.True(t, ret.Equals(types.TInt()))
}

func TestExtractArgs_NonArrowReturnsNoArgs(t *testing.T) {
	args, ret := types.TInt().ExtractArgs()
	assert.Empty(t, args)
	assert.True(t, ret.Equals(types.TInt()))
}

func TestMangle_GroundTypesAndArrows(t *testing.T) {
	assert.Equal(t, "int", types.TInt().Mangle())
	assert.Equal(t, "bool", types.TBool().Mangle())
	assert.Equal(t, "unit", types.TUnit().Mangle())
	assert.Equal(t, "fn_int_to_bool_nf", types.TArrow(types.TInt(), types.TBool()).Mangle())
}

func TestMangleArgs_JoinsPerArgumentMangling(t *testing.T) {
	got := types.MangleArgs([]types.Ty{types.TInt(), types.TBool()})
	assert.Equal(t, "int_bool", got)
}

func TestApplySubst_ChasesVariableThenRecursesIntoArrow(t *testing.T) {
	sub := types.NewSubstitution()
	sub["t0"] = types.TInt()
	ty := types.TArrow(types.TMono("t0"), types.TMono("t1"))
	got := types.ApplySubst(sub, ty)
	assert.Equal(t, "int -> t1", got.String())
}

func TestUnify_BindsAFreeVariableToAGroundType(t *testing.T) {
	sub := types.NewSubstitution()
	require.NoError(t, types.Unify(sub, types.TMono("t0"), types.TInt()))
	assert.True(t, types.ApplySubst(sub, types.TMono("t0")).Equals(types.TInt()))
}

func TestUnify_RecursesStructurallyIntoArrows(t *testing.T) {
	sub := types.NewSubstitution()
	a := types.TArrow(types.TMono("t0"), types.TMono("t1"))
	b := types.TArrow(types.TInt(), types.TBool())
	require.NoError(t, types.Unify(sub, a, b))
	assert.True(t, types.ApplySubst(sub, types.TMono("t0")).Equals(types.TInt()))
	assert.True(t, types.ApplySubst(sub, types.TMono("t1")).Equals(types.TBool()))
}

func TestUnify_MismatchedGroundTypesFail(t *testing.T) {
	sub := types.NewSubstitution()
	err := types.Unify(sub, types.TInt(), types.TBool())
	require.Error(t, err)
	var uerr *types.UnifyError
	assert.ErrorAs(t, err, &uerr)
}

func TestUnify_OccursCheckRejectsCyclicBinding(t *testing.T) {
	sub := types.NewSubstitution()
	cyclic := types.TArrow(types.TMono("t0"), types.TInt())
	err := types.Unify(sub, types.TMono("t0"), cyclic)
	require.Error(t, err)
	var oerr *types.OccursError
	assert.ErrorAs(t, err, &oerr)
}

func TestMonotype_ProducesASchemeWithNoQuantifiedVars(t *testing.T) {
	s := types.Monotype(types.TInt())
	assert.Empty(t, s.Vars)
	assert.Equal(t, "int", s.String())
}

func TestScheme_StringPrintsForallPrefixWhenQuantified(t *testing.T) {
	s := types.Scheme{Vars: []types.TypeVar{"t0"}, Ty: types.TArrow(types.TMono("t0"), types.TMono("t0"))}
	assert.Equal(t, "forall t0. t0 -> t0", s.String())
}
