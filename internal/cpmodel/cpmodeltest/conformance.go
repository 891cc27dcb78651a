// Package cpmodeltest holds behaviour checks shared by every cpmodel.Solver backend.
package cpmodeltest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RodCut/internal/cpmodel"
)

// Run exercises a backend against small models with known optima.
func Run(t *testing.T, newSolver func() cpmodel.Solver) {
	t.Helper()

	t.Run("MinimizeCardinality", func(t *testing.T) {
		b := cpmodel.NewCpModelBuilder()
		x := b.NewBoolVar()
		y := b.NewBoolVar()
		b.AddGreaterOrEqual(cpmodel.NewLinearExpr().AddSum(x, y), 1)
		b.Minimize(cpmodel.NewLinearExpr().AddSum(x, y))

		out := solve(t, newSolver(), build(t, b), cpmodel.Params{})
		assert.Equal(t, cpmodel.Optimal, out.Status)
		assert.Equal(t, int64(1), out.Objective)
	})

	t.Run("Infeasible", func(t *testing.T) {
		b := cpmodel.NewCpModelBuilder()
		x := b.NewBoolVar()
		y := b.NewBoolVar()
		b.AddEquality(cpmodel.NewLinearExpr().AddSum(x, y), 1)
		b.AddEquality(cpmodel.NewLinearExpr().AddSum(x, y), 2)
		b.Minimize(x)

		out, err := newSolver().Solve(context.Background(), build(t, b), cpmodel.Params{})
		require.NoError(t, err)
		assert.Equal(t, cpmodel.Infeasible, out.Status)
		assert.Nil(t, out.Values)
	})

	t.Run("WeightedLowerBound", func(t *testing.T) {
		b := cpmodel.NewCpModelBuilder()
		x := b.NewBoolVar()
		y := b.NewBoolVar()
		z := b.NewBoolVar()
		b.AddGreaterOrEqual(cpmodel.NewLinearExpr().AddTerm(x, 3).AddTerm(y, 2).AddTerm(z, 2), 4)
		b.Minimize(cpmodel.NewLinearExpr().AddSum(x, y, z))

		out := solve(t, newSolver(), build(t, b), cpmodel.Params{})
		assert.Equal(t, cpmodel.Optimal, out.Status)
		assert.Equal(t, int64(2), out.Objective)
	})

	t.Run("BinPacking", func(t *testing.T) {
		m := binPacking(t, []int64{3100, 3100, 2900, 2900}, 6000, 4)
		out := solve(t, newSolver(), m, cpmodel.Params{})
		assert.Equal(t, cpmodel.Optimal, out.Status)
		assert.Equal(t, int64(2), out.Objective)
	})

	t.Run("StopsAtLowerBound", func(t *testing.T) {
		m := binPacking(t, []int64{700, 850, 1200, 1500, 3100, 3600, 4200}, 6000, 7)
		out := solve(t, newSolver(), m, cpmodel.Params{ObjectiveLowerBound: 3})
		assert.Equal(t, cpmodel.Optimal, out.Status)
		assert.Equal(t, int64(3), out.Objective)
	})

	t.Run("FreeVariable", func(t *testing.T) {
		b := cpmodel.NewCpModelBuilder()
		x := b.NewBoolVar()
		b.NewBoolVar()
		b.AddEquality(cpmodel.NewLinearExpr().Add(x), 1)

		m := build(t, b)
		out := solve(t, newSolver(), m, cpmodel.Params{})
		assert.Equal(t, cpmodel.Optimal, out.Status)
		assert.Len(t, out.Values, m.NumVars())
		assert.True(t, out.Values[0])
	})

	t.Run("UnreachableRow", func(t *testing.T) {
		b := cpmodel.NewCpModelBuilder()
		x := b.NewBoolVar()
		b.AddGreaterOrEqual(cpmodel.NewLinearExpr().AddTerm(x, 2), 3)

		out, err := newSolver().Solve(context.Background(), build(t, b), cpmodel.Params{})
		require.NoError(t, err)
		assert.Equal(t, cpmodel.Infeasible, out.Status)
		assert.Nil(t, out.Values)
	})

	t.Run("StopsAtTimeLimit", func(t *testing.T) {
		m := pigeonhole(t, 12)
		start := time.Now()
		out, err := newSolver().Solve(context.Background(), m, cpmodel.Params{TimeLimit: time.Millisecond})
		require.NoError(t, err)
		assertInterrupted(t, m, out, time.Since(start))
	})

	t.Run("StopsOnCancel", func(t *testing.T) {
		m := pigeonhole(t, 12)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		start := time.Now()
		out, err := newSolver().Solve(ctx, m, cpmodel.Params{})
		require.NoError(t, err)
		assertInterrupted(t, m, out, time.Since(start))
	})
}

// pigeonhole builds holes+1 pigeons that each take a hole or overflow, at
// most one pigeon per hole, minimizing overflow. Proving the optimum of 1
// means refuting the pigeonhole principle, which no backend does quickly.
func pigeonhole(t *testing.T, holes int) *cpmodel.Model {
	t.Helper()
	b := cpmodel.NewCpModelBuilder()
	in := make([][]cpmodel.BoolVar, holes+1)
	obj := cpmodel.NewLinearExpr()
	for p := range in {
		in[p] = make([]cpmodel.BoolVar, holes)
		row := cpmodel.NewLinearExpr()
		for h := range in[p] {
			in[p][h] = b.NewBoolVar().WithName(fmt.Sprintf("in[%d][%d]", p, h))
			row.Add(in[p][h])
		}
		over := b.NewBoolVar().WithName(fmt.Sprintf("over[%d]", p))
		b.AddEquality(row.Add(over), 1)
		obj.Add(over)
	}
	for h := 0; h < holes; h++ {
		col := cpmodel.NewLinearExpr()
		for p := range in {
			col.Add(in[p][h])
		}
		b.AddLessOrEqual(col, 1)
	}
	b.Minimize(obj)
	return build(t, b)
}

func assertInterrupted(t *testing.T, m *cpmodel.Model, out cpmodel.Outcome, elapsed time.Duration) {
	t.Helper()
	assert.Contains(t, []cpmodel.Status{cpmodel.Feasible, cpmodel.Unknown}, out.Status)
	assert.Less(t, elapsed, time.Second)
	if out.Values != nil {
		require.NoError(t, m.Check(out.Values))
		assert.Equal(t, m.Evaluate(out.Values), out.Objective)
	}
}

// binPacking builds a bin packing model: every item in exactly one bin,
// bin loads within capacity, used bins packed to the front.
func binPacking(t *testing.T, sizes []int64, capacity int64, bins int) *cpmodel.Model {
	t.Helper()
	b := cpmodel.NewCpModelBuilder()
	assign := make([][]cpmodel.BoolVar, bins)
	used := make([]cpmodel.BoolVar, bins)
	for i := range assign {
		assign[i] = make([]cpmodel.BoolVar, len(sizes))
		for j := range sizes {
			assign[i][j] = b.NewBoolVar().WithName(fmt.Sprintf("assign[%d][%d]", i, j))
		}
		used[i] = b.NewBoolVar().WithName(fmt.Sprintf("used[%d]", i))
	}
	for j := range sizes {
		col := cpmodel.NewLinearExpr()
		for i := range assign {
			col.Add(assign[i][j])
		}
		b.AddEquality(col, 1)
	}
	obj := cpmodel.NewLinearExpr()
	for i := range assign {
		load := cpmodel.NewLinearExpr()
		for j, s := range sizes {
			load.AddTerm(assign[i][j], s)
		}
		b.AddLessOrEqual(load, capacity)
		b.AddMaxEquality(used[i], assign[i]...)
		if i+1 < bins {
			b.AddImplication(used[i+1], used[i])
		}
		obj.Add(used[i])
	}
	b.Minimize(obj)
	return build(t, b)
}

func build(t *testing.T, b *cpmodel.Builder) *cpmodel.Model {
	t.Helper()
	m, err := b.Model()
	require.NoError(t, err)
	return m
}

func solve(t *testing.T, s cpmodel.Solver, m *cpmodel.Model, p cpmodel.Params) cpmodel.Outcome {
	t.Helper()
	out, err := s.Solve(context.Background(), m, p)
	require.NoError(t, err)
	require.NotNil(t, out.Values, "status %s", out.Status)
	require.NoError(t, m.Check(out.Values))
	assert.Equal(t, m.Evaluate(out.Values), out.Objective)
	return out
}
