package pbsolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RodCut/internal/cpmodel"
	"github.com/piwi3910/RodCut/internal/cpmodel/cpmodeltest"
)

func TestSolver_Conformance(t *testing.T) {
	cpmodeltest.Run(t, func() cpmodel.Solver { return New() })
}

func TestSolver_Name(t *testing.T) {
	assert.Equal(t, "gophersat", New().Name())
}

func TestTranslate_SkipsSlackRows(t *testing.T) {
	b := cpmodel.NewCpModelBuilder()
	x := b.NewBoolVar()
	y := b.NewBoolVar()
	b.AddLessOrEqual(cpmodel.NewLinearExpr().AddTerm(x, 2).AddTerm(y, 3), 10)
	m, err := b.Model()
	require.NoError(t, err)

	assert.Empty(t, translate(m))
}

func TestSolve_UnreachableBoundsIsInfeasible(t *testing.T) {
	b := cpmodel.NewCpModelBuilder()
	x := b.NewBoolVar()
	b.AddGreaterOrEqual(cpmodel.NewLinearExpr().AddTerm(x, 2), 3)
	m, err := b.Model()
	require.NoError(t, err)

	out, err := New().Solve(context.Background(), m, cpmodel.Params{})
	require.NoError(t, err)
	assert.Equal(t, cpmodel.Infeasible, out.Status)
	assert.Nil(t, out.Values)
}

func TestValues_WidensModel(t *testing.T) {
	got := values([]bool{true}, 3)
	assert.Equal(t, []bool{true, false, false}, got)
}
