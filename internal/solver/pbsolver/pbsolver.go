// Package pbsolver solves cpmodel models with the gophersat pseudo-boolean
// solver. Weighted linear rows map one to one onto native PB constraints, so
// no clause expansion is needed.
package pbsolver

import (
	"context"
	"time"

	gs "github.com/crillab/gophersat/solver"
	log "github.com/golang/glog"

	"github.com/piwi3910/RodCut/internal/cpmodel"
)

// Name is the backend identifier.
const Name = "gophersat"

// Solver is the gophersat backend. The zero value is ready to use.
type Solver struct{}

// New returns a gophersat backend.
func New() *Solver {
	return &Solver{}
}

// Name implements cpmodel.Solver.
func (s *Solver) Name() string {
	return Name
}

// Solve implements cpmodel.Solver.
//
// gophersat reports every improving model on a channel, which lets the search
// be abandoned at the deadline while keeping the best model seen. An abandoned
// search keeps running in the background until gophersat observes the stop
// request.
func (s *Solver) Solve(ctx context.Context, m *cpmodel.Model, p cpmodel.Params) (cpmodel.Outcome, error) {
	start := time.Now()

	if i := m.Unreachable(); i >= 0 {
		log.V(1).Infof("gophersat: linear constraint %d %q cannot be met", i, m.Linear[i].Name)
		return cpmodel.Outcome{Status: cpmodel.Infeasible, WallTime: time.Since(start)}, nil
	}
	constrs := translate(m)
	pb := gs.ParsePBConstrs(constrs)
	if len(m.Objective) > 0 {
		lits := make([]gs.Lit, len(m.Objective))
		weights := make([]int, len(m.Objective))
		for i, t := range m.Objective {
			lits[i] = gs.IntToLit(int32(t.Var) + 1)
			weights[i] = int(t.Coeff)
		}
		pb.SetCostFunc(lits, weights)
	}
	log.V(1).Infof("gophersat: %d vars, %d PB constraints", m.NumVars(), len(constrs))

	sol := gs.New(pb)
	results := make(chan gs.Result)
	stop := make(chan struct{})
	done := make(chan gs.Result, 1)
	go func() {
		done <- sol.Optimal(results, stop)
	}()

	var timeout <-chan time.Time
	if p.TimeLimit > 0 {
		timer := time.NewTimer(p.TimeLimit)
		defer timer.Stop()
		timeout = timer.C
	}

	var best *gs.Result
	outcome := func(status cpmodel.Status) cpmodel.Outcome {
		out := cpmodel.Outcome{Status: status, WallTime: time.Since(start)}
		if best != nil && (status == cpmodel.Optimal || status == cpmodel.Feasible) {
			out.Values = values(best.Model, m.NumVars())
			out.Objective = m.Evaluate(out.Values)
		}
		return out
	}
	abandon := func() {
		close(stop)
		// Keep draining so the search goroutine can exit.
		go func() {
			for {
				select {
				case _, ok := <-results:
					if !ok {
						return
					}
				case <-done:
					return
				}
			}
		}()
	}

	for {
		select {
		case r, ok := <-results:
			if !ok {
				results = nil
				continue
			}
			if r.Status != gs.Sat {
				continue
			}
			best = &r
			log.V(2).Infof("gophersat: improved objective to %d", r.Weight)
			if int64(r.Weight) <= p.ObjectiveLowerBound {
				abandon()
				return outcome(cpmodel.Optimal), nil
			}

		case r := <-done:
			switch r.Status {
			case gs.Sat:
				best = &r
				return outcome(cpmodel.Optimal), nil
			case gs.Unsat:
				if best != nil {
					// Unsat after an improvement means the last model is optimal.
					return outcome(cpmodel.Optimal), nil
				}
				return outcome(cpmodel.Infeasible), nil
			default:
				if best != nil {
					return outcome(cpmodel.Feasible), nil
				}
				return outcome(cpmodel.Unknown), nil
			}

		case <-timeout:
			abandon()
			if best != nil {
				return outcome(cpmodel.Feasible), nil
			}
			return outcome(cpmodel.Unknown), nil

		case <-ctx.Done():
			abandon()
			if best != nil {
				return outcome(cpmodel.Feasible), nil
			}
			return outcome(cpmodel.Unknown), nil
		}
	}
}

// translate maps the model onto gophersat constraints. Literals are 1-based,
// negative for negation. Every row must be reachable, see Model.Unreachable.
func translate(m *cpmodel.Model) []gs.PBConstr {
	var constrs []gs.PBConstr
	for _, c := range m.Linear {
		lits := make([]int, len(c.Terms))
		weights := make([]int, len(c.Terms))
		var total int64
		for k, t := range c.Terms {
			lits[k] = lit(t.Var)
			weights[k] = int(t.Coeff)
			total += t.Coeff
		}
		if c.Lower > 0 {
			constrs = append(constrs, gs.GtEq(lits, weights, int(c.Lower)))
		}
		if c.Upper < total {
			constrs = append(constrs, gs.LtEq(lits, weights, int(c.Upper)))
		}
	}
	for _, me := range m.MaxEqualities {
		t := lit(me.Target)
		or := []int{-t}
		for _, v := range me.Vars {
			constrs = append(constrs, gs.PropClause(-lit(v), t))
			or = append(or, lit(v))
		}
		constrs = append(constrs, gs.PropClause(or...))
	}
	for _, imp := range m.Implications {
		constrs = append(constrs, gs.PropClause(-lit(imp.If), lit(imp.Then)))
	}
	return constrs
}

func lit(v cpmodel.VarIndex) int {
	return int(v) + 1
}

// values widens a gophersat model to the model's variable count. Variables
// absent from every constraint are not known to gophersat and default to false.
func values(model []bool, n int) []bool {
	out := make([]bool, n)
	copy(out, model)
	return out
}
