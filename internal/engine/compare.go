package engine

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/RodCut/internal/cpmodel"
	"github.com/piwi3910/RodCut/internal/model"
)

// SolverFactory returns a fresh solver for a backend.
type SolverFactory func(model.Backend) (cpmodel.Solver, error)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.SolveSettings
}

// ComparisonResult holds the plan and computed statistics for a single
// scenario. Err is set when the scenario produced no plan.
type ComparisonResult struct {
	Scenario     ComparisonScenario
	Plan         model.CuttingPlan
	RodsUsed     int
	TotalWaste   int
	WastePercent float64
	Status       model.PlanStatus
	SolveTime    time.Duration
	Err          error
}

// CompareScenarios solves the problem once per scenario, concurrently, and
// returns the results in scenario order. A scenario that fails records its
// error in the result; only an unknown backend aborts the comparison.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, p model.Problem, newSolver SolverFactory) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, scenario := range scenarios {
		g.Go(func() error {
			s, err := newSolver(scenario.Settings.Backend)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", scenario.Name, err)
			}
			plan, err := New(scenario.Settings, s).Optimize(ctx, p)

			r := ComparisonResult{Scenario: scenario, Plan: plan, Err: err}
			if err == nil {
				r.RodsUsed = plan.TotalRodsUsed
				r.TotalWaste = plan.TotalWaste
				r.WastePercent = 100.0 - plan.Efficiency()
				r.Status = plan.Status
				r.SolveTime = plan.SolveTime
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(base model.SolveSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	// Scenario: Try the other backend
	alt := base
	if base.Backend == model.BackendSAT {
		alt.Backend = model.BackendPB
	} else {
		alt.Backend = model.BackendSAT
	}
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Backend %s", alt.Backend),
		Settings: alt,
	})

	// Scenario: Flip the ordering heuristic; the rod count must not change
	flipped := base
	flipped.Ordering = !base.Ordering
	name := "Catalogue order"
	if flipped.Ordering {
		name = "Largest first"
	}
	scenarios = append(scenarios, ComparisonScenario{
		Name:     name,
		Settings: flipped,
	})

	// Scenario: No symmetry breaking
	if base.SymmetryBreaking {
		noSym := base
		noSym.SymmetryBreaking = false
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Symmetry Breaking",
			Settings: noSym,
		})
	}

	// Scenario: Allow repeated lengths on one rod
	if !base.RepeatPieces {
		repeat := base
		repeat.RepeatPieces = true
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Repeated Pieces",
			Settings: repeat,
		})
	}

	return scenarios
}
