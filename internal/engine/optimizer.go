package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/golang/glog"

	"github.com/piwi3910/RodCut/internal/cpmodel"
	"github.com/piwi3910/RodCut/internal/model"
)

// Optimizer runs the 1D cutting pipeline: validate, order, bound, build,
// solve and extract.
type Optimizer struct {
	Settings model.SolveSettings
	Solver   cpmodel.Solver
	Genetic  GeneticConfig
}

func New(settings model.SolveSettings, solver cpmodel.Solver) *Optimizer {
	return &Optimizer{
		Settings: settings,
		Solver:   solver,
		Genetic:  DefaultGeneticConfig(),
	}
}

// Formulate builds the model Optimize would solve for p.
func (o *Optimizer) Formulate(p model.Problem) (*Formulation, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}
	if o.Settings.Ordering {
		p = OrderPieces(p)
	}
	return Build(p, BuildOptions{
		Slots:             SlotCount(p, o.Settings, o.Genetic),
		MaxAssignmentVars: o.Settings.MaxAssignmentVars,
		SymmetryBreaking:  o.Settings.SymmetryBreaking,
		RepeatPieces:      o.Settings.RepeatPieces,
	})
}

// Optimize computes a cutting plan with the fewest rods the solver can prove
// or find within the time limit.
//
// Solver outcomes map as follows: Optimal gives a plan with status optimal,
// Feasible a plan with status feasible, Infeasible ErrInfeasibleSpecification
// and Unknown ErrNoPlanWithinBudget.
func (o *Optimizer) Optimize(ctx context.Context, p model.Problem) (model.CuttingPlan, error) {
	start := time.Now()

	f, err := o.Formulate(p)
	if err != nil {
		return model.CuttingPlan{}, err
	}

	if p.TotalDemand() == 0 {
		plan := Extract(f, make([]bool, f.Model.NumVars()))
		return o.stamp(plan, model.PlanOptimal, start), nil
	}

	lb := LowerBound(f.Problem, o.Settings.RepeatPieces)
	log.Infof("solving %q: %d pieces, %d slots, lower bound %d rods, backend %s",
		p.Name, p.TotalDemand(), f.Slots, lb, o.Solver.Name())

	limit := o.Settings.TimeLimit()
	if limit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limit)
		defer cancel()
	}
	out, err := o.Solver.Solve(ctx, f.Model, cpmodel.Params{
		TimeLimit:           limit,
		ObjectiveLowerBound: int64(lb),
	})
	if err != nil {
		return model.CuttingPlan{}, fmt.Errorf("solver %s: %w", o.Solver.Name(), err)
	}
	log.V(1).Infof("solver %s returned %s in %s", o.Solver.Name(), out.Status, out.WallTime)

	switch out.Status {
	case cpmodel.Optimal:
		return o.stamp(Extract(f, out.Values), model.PlanOptimal, start), nil
	case cpmodel.Feasible:
		log.Warningf("time limit reached; plan with %d rods is not proven optimal", out.Objective)
		return o.stamp(Extract(f, out.Values), model.PlanFeasible, start), nil
	case cpmodel.Infeasible:
		return model.CuttingPlan{}, fmt.Errorf("%w: solver proved no plan exists", ErrInfeasibleSpecification)
	default:
		log.Warningf("solver %s found no plan within %s", o.Solver.Name(), limit)
		return model.CuttingPlan{}, fmt.Errorf("%w (limit %s)", ErrNoPlanWithinBudget, limit)
	}
}

func (o *Optimizer) stamp(plan model.CuttingPlan, status model.PlanStatus, start time.Time) model.CuttingPlan {
	plan.ID = uuid.New().String()[:8]
	plan.Status = status
	if o.Solver != nil {
		plan.Backend = model.Backend(o.Solver.Name())
	}
	plan.SolveTime = time.Since(start)
	return plan
}
