package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RodCut/internal/cpmodel"
	"github.com/piwi3910/RodCut/internal/model"
	"github.com/piwi3910/RodCut/internal/solver/pbsolver"
	"github.com/piwi3910/RodCut/internal/solver/satsolver"
)

func scenarioA() model.Problem {
	return model.NewProblem("A", 6000,
		model.NewPiece("a", 3100, 2),
		model.NewPiece("b", 2900, 2),
	)
}

func scenarioB() model.Problem {
	return model.NewProblem("B", 6000,
		model.NewPiece("a", 3100, 2),
		model.NewPiece("b", 850, 2),
		model.NewPiece("c", 1200, 2),
		model.NewPiece("d", 4200, 2),
		model.NewPiece("e", 3600, 2),
		model.NewPiece("f", 700, 2),
		model.NewPiece("g", 1500, 15),
	)
}

func scenarioC() model.Problem {
	return model.NewProblem("C", 1000, model.NewPiece("a", 1500, 1))
}

func mixedProblem() model.Problem {
	return model.NewProblem("mixed", 1000,
		model.NewPiece("a", 200, 2),
		model.NewPiece("b", 500, 2),
		model.NewPiece("c", 300, 1),
		model.NewPiece("d", 600, 1),
		model.NewPiece("e", 400, 2),
	)
}

func testSettings() model.SolveSettings {
	s := model.DefaultSettings()
	s.TimeLimitSeconds = 60
	return s
}

var backends = []struct {
	name string
	new  func() cpmodel.Solver
}{
	{"gophersat", func() cpmodel.Solver { return pbsolver.New() }},
	{"gini", func() cpmodel.Solver { return satsolver.New() }},
}

// countingSolver records calls and forwards to inner, or reports Unknown.
type countingSolver struct {
	inner  cpmodel.Solver
	calls  int
	params cpmodel.Params
}

func (c *countingSolver) Name() string { return "counting" }

func (c *countingSolver) Solve(ctx context.Context, m *cpmodel.Model, p cpmodel.Params) (cpmodel.Outcome, error) {
	c.calls++
	c.params = p
	if c.inner == nil {
		return cpmodel.Outcome{Status: cpmodel.Unknown}, nil
	}
	return c.inner.Solve(ctx, m, p)
}

// statusSolver solves for real and then reports a forced status.
type statusSolver struct {
	status cpmodel.Status
	err    error
}

func (s statusSolver) Name() string { return "status" }

func (s statusSolver) Solve(ctx context.Context, m *cpmodel.Model, p cpmodel.Params) (cpmodel.Outcome, error) {
	if s.err != nil {
		return cpmodel.Outcome{}, s.err
	}
	out, err := pbsolver.New().Solve(ctx, m, p)
	if err != nil {
		return out, err
	}
	out.Status = s.status
	if s.status == cpmodel.Infeasible || s.status == cpmodel.Unknown {
		out.Values = nil
	}
	return out, nil
}

func assertValidPlan(t *testing.T, p model.Problem, plan model.CuttingPlan) {
	t.Helper()
	counts := plan.PieceCounts()
	for _, pc := range p.Pieces {
		assert.Equal(t, pc.Demand, counts[pc.Length], "demand for length %d", pc.Length)
	}
	for _, r := range plan.Rods {
		assert.LessOrEqual(t, r.UsedLength, p.RodLength, "rod %d over capacity", r.Number)
		assert.Equal(t, p.RodLength-r.UsedLength, r.Waste)
	}
	assert.Equal(t, len(plan.Rods), plan.TotalRodsUsed)
	assert.Equal(t, plan.TotalRodsUsed*p.RodLength-p.TotalLength(), plan.TotalWaste)
}

func TestOptimize_ScenarioA(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			plan, err := New(testSettings(), b.new()).Optimize(context.Background(), scenarioA())
			require.NoError(t, err)

			assert.Equal(t, model.PlanOptimal, plan.Status)
			assert.Equal(t, model.Backend(b.name), plan.Backend)
			require.Equal(t, 2, plan.TotalRodsUsed)
			assert.Equal(t, 0, plan.TotalWaste)
			for _, r := range plan.Rods {
				require.Len(t, r.Cuts, 2)
				assert.Equal(t, 3100, r.Cuts[0].Length)
				assert.Equal(t, 2900, r.Cuts[1].Length)
				assert.Equal(t, 0, r.Waste)
			}
			assert.NotEmpty(t, plan.ID)
		})
	}
}

func TestOptimize_ScenarioB(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			p := scenarioB()
			plan, err := New(testSettings(), b.new()).Optimize(context.Background(), p)
			require.NoError(t, err)

			assert.Equal(t, model.PlanOptimal, plan.Status)
			// 15 units of 1500 need 15 rods when a rod holds one unit per length.
			assert.Equal(t, 15, plan.TotalRodsUsed)
			assertValidPlan(t, p, plan)
		})
	}
}

func TestOptimize_ScenarioC_InfeasibleWithoutSolver(t *testing.T) {
	s := &countingSolver{}
	_, err := New(testSettings(), s).Optimize(context.Background(), scenarioC())

	assert.True(t, errors.Is(err, ErrInfeasibleSpecification), "got %v", err)
	assert.Equal(t, 0, s.calls, "solver must not be invoked")
}

func TestOptimize_InvalidSpecification(t *testing.T) {
	cases := map[string]model.Problem{
		"zero rod length":  model.NewProblem("p", 0, model.NewPiece("a", 10, 1)),
		"negative demand":  model.NewProblem("p", 100, model.NewPiece("a", 10, -1)),
		"duplicate length": model.NewProblem("p", 100, model.NewPiece("a", 10, 1), model.NewPiece("b", 10, 2)),
		"zero length":      model.NewProblem("p", 100, model.NewPiece("a", 0, 1)),
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			s := &countingSolver{}
			_, err := New(testSettings(), s).Optimize(context.Background(), p)
			assert.True(t, errors.Is(err, ErrInvalidSpecification), "got %v", err)
			assert.Equal(t, 0, s.calls)
		})
	}
}

func TestOptimize_EmptyCatalogue(t *testing.T) {
	s := &countingSolver{}
	plan, err := New(testSettings(), s).Optimize(context.Background(), model.NewProblem("empty", 6000))
	require.NoError(t, err)

	assert.Equal(t, 0, plan.TotalRodsUsed)
	assert.Empty(t, plan.Rods)
	assert.Equal(t, model.PlanOptimal, plan.Status)
	assert.Equal(t, 0, s.calls)
}

func TestOptimize_ModelTooLarge(t *testing.T) {
	settings := testSettings()
	settings.MaxAssignmentVars = 10

	s := &countingSolver{}
	_, err := New(settings, s).Optimize(context.Background(), scenarioB())
	assert.True(t, errors.Is(err, ErrModelTooLarge), "got %v", err)
	assert.Equal(t, 0, s.calls)
}

func TestOptimize_OrderingInvariance(t *testing.T) {
	for _, b := range backends {
		for _, p := range []model.Problem{scenarioA(), scenarioB(), mixedProblem()} {
			t.Run(b.name+"/"+p.Name, func(t *testing.T) {
				ordered := testSettings()
				ordered.Ordering = true
				unordered := testSettings()
				unordered.Ordering = false

				withOrder, err := New(ordered, b.new()).Optimize(context.Background(), p)
				require.NoError(t, err)
				withoutOrder, err := New(unordered, b.new()).Optimize(context.Background(), p)
				require.NoError(t, err)

				assert.Equal(t, withOrder.TotalRodsUsed, withoutOrder.TotalRodsUsed)
				assertValidPlan(t, p, withOrder)
				assertValidPlan(t, p, withoutOrder)
			})
		}
	}
}

func TestOptimize_SlotBoundsAgree(t *testing.T) {
	p := mixedProblem()
	for _, bound := range []model.SlotBound{model.SlotBoundDemand, model.SlotBoundGreedy, model.SlotBoundGenetic} {
		t.Run(string(bound), func(t *testing.T) {
			settings := testSettings()
			settings.SlotBound = bound
			plan, err := New(settings, pbsolver.New()).Optimize(context.Background(), p)
			require.NoError(t, err)
			assert.Equal(t, 4, plan.TotalRodsUsed)
			assertValidPlan(t, p, plan)
		})
	}
}

func TestOptimize_WithoutSymmetryBreaking(t *testing.T) {
	settings := testSettings()
	settings.SymmetryBreaking = false
	settings.SlotBound = model.SlotBoundDemand

	plan, err := New(settings, satsolver.New()).Optimize(context.Background(), scenarioA())
	require.NoError(t, err)
	assert.Equal(t, 2, plan.TotalRodsUsed)
}

func TestOptimize_RepeatPieces(t *testing.T) {
	p := model.NewProblem("repeat", 6000, model.NewPiece("a", 1500, 4))
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			settings := testSettings()
			settings.RepeatPieces = true
			plan, err := New(settings, b.new()).Optimize(context.Background(), p)
			require.NoError(t, err)
			assert.Equal(t, 1, plan.TotalRodsUsed)
			assertValidPlan(t, p, plan)

			settings.RepeatPieces = false
			plan, err = New(settings, b.new()).Optimize(context.Background(), p)
			require.NoError(t, err)
			assert.Equal(t, 4, plan.TotalRodsUsed)
		})
	}
}

func TestOptimize_PassesBudgetAndLowerBound(t *testing.T) {
	settings := testSettings()
	settings.TimeLimitSeconds = 2

	s := &countingSolver{inner: pbsolver.New()}
	_, err := New(settings, s).Optimize(context.Background(), scenarioA())
	require.NoError(t, err)

	assert.Equal(t, 1, s.calls)
	assert.Equal(t, 2*time.Second, s.params.TimeLimit)
	assert.Equal(t, int64(2), s.params.ObjectiveLowerBound)
}

func TestOptimize_OutcomeMapping(t *testing.T) {
	sentinel := errors.New("backend exploded")

	t.Run("optimal", func(t *testing.T) {
		plan, err := New(testSettings(), statusSolver{status: cpmodel.Optimal}).Optimize(context.Background(), scenarioA())
		require.NoError(t, err)
		assert.Equal(t, model.PlanOptimal, plan.Status)
		assert.True(t, plan.Optimal())
	})

	t.Run("feasible", func(t *testing.T) {
		plan, err := New(testSettings(), statusSolver{status: cpmodel.Feasible}).Optimize(context.Background(), scenarioA())
		require.NoError(t, err)
		assert.Equal(t, model.PlanFeasible, plan.Status)
		assert.False(t, plan.Optimal())
		assertValidPlan(t, scenarioA(), plan)
	})

	t.Run("infeasible", func(t *testing.T) {
		_, err := New(testSettings(), statusSolver{status: cpmodel.Infeasible}).Optimize(context.Background(), scenarioA())
		assert.True(t, errors.Is(err, ErrInfeasibleSpecification), "got %v", err)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := New(testSettings(), statusSolver{status: cpmodel.Unknown}).Optimize(context.Background(), scenarioA())
		assert.True(t, errors.Is(err, ErrNoPlanWithinBudget), "got %v", err)
	})

	t.Run("error", func(t *testing.T) {
		_, err := New(testSettings(), statusSolver{err: sentinel}).Optimize(context.Background(), scenarioA())
		assert.True(t, errors.Is(err, sentinel), "got %v", err)
	})
}

func TestFormulate_OrdersCatalogue(t *testing.T) {
	f, err := New(testSettings(), nil).Formulate(scenarioB())
	require.NoError(t, err)

	for i := 1; i < len(f.Problem.Pieces); i++ {
		assert.GreaterOrEqual(t, f.Problem.Pieces[i-1].Length, f.Problem.Pieces[i].Length)
	}
	assert.Equal(t, 15, f.Slots)
}
