// Package satsolver solves cpmodel models with the gini CDCL SAT solver.
//
// Models are compiled to CNF: rows whose coefficients are all equal become
// cardinality networks built with gini/logic, weighted rows become one clause
// per minimal cover, and the objective is tightened one step at a time under
// assumptions until the solver proves no better assignment exists.
package satsolver

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	log "github.com/golang/glog"

	"github.com/piwi3910/RodCut/internal/cpmodel"
)

// Name is the backend identifier.
const Name = "gini"

// pollInterval is how often a running search checks for cancellation.
const pollInterval = 5 * time.Millisecond

// DefaultMaxClauses bounds the number of clauses produced for weighted rows.
const DefaultMaxClauses = 2000000

// Solver is the gini backend.
type Solver struct {
	MaxClauses int // Clause budget for weighted rows; 0 uses DefaultMaxClauses
}

// New returns a gini backend with the default clause budget.
func New() *Solver {
	return &Solver{MaxClauses: DefaultMaxClauses}
}

// Name implements cpmodel.Solver.
func (s *Solver) Name() string {
	return Name
}

// Solve implements cpmodel.Solver.
func (s *Solver) Solve(ctx context.Context, m *cpmodel.Model, p cpmodel.Params) (cpmodel.Outcome, error) {
	start := time.Now()

	if i := m.Unreachable(); i >= 0 {
		log.V(1).Infof("gini: linear constraint %d %q cannot be met", i, m.Linear[i].Name)
		return cpmodel.Outcome{Status: cpmodel.Infeasible, WallTime: time.Since(start)}, nil
	}
	maxClauses := s.MaxClauses
	if maxClauses <= 0 {
		maxClauses = DefaultMaxClauses
	}
	e, err := encode(m, maxClauses)
	if err != nil {
		return cpmodel.Outcome{}, err
	}

	g := gini.New()
	e.c.ToCnf(g)
	for _, cl := range e.clauses {
		for _, l := range cl {
			g.Add(l)
		}
		g.Add(z.LitNull)
	}
	log.V(1).Infof("gini: %d vars, %d direct clauses", m.NumVars(), len(e.clauses))

	if p.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.TimeLimit)
		defer cancel()
	}
	solve := func() int {
		if ctx.Err() != nil {
			return 0
		}
		bg := g.GoSolve()
		tick := time.NewTicker(pollInterval)
		defer tick.Stop()
		for {
			if r, done := bg.Test(); done {
				return r
			}
			select {
			case <-ctx.Done():
				return bg.Stop()
			case <-tick.C:
			}
		}
	}
	outcome := func(status cpmodel.Status, values []bool) cpmodel.Outcome {
		out := cpmodel.Outcome{Status: status, Values: values, WallTime: time.Since(start)}
		if values != nil {
			out.Objective = m.Evaluate(values)
		}
		return out
	}

	switch solve() {
	case -1:
		return outcome(cpmodel.Infeasible, nil), nil
	case 0:
		return outcome(cpmodel.Unknown, nil), nil
	}
	best := e.read(g)

	for {
		cost := m.Evaluate(best)
		if cost <= p.ObjectiveLowerBound || cost == 0 || len(e.bound) == 0 {
			return outcome(cpmodel.Optimal, best), nil
		}
		if ctx.Err() != nil {
			return outcome(cpmodel.Feasible, best), nil
		}
		g.Assume(e.bound[cost-1])
		switch solve() {
		case 1:
			best = e.read(g)
			log.V(2).Infof("gini: improved objective to %d", m.Evaluate(best))
		case -1:
			return outcome(cpmodel.Optimal, best), nil
		default:
			return outcome(cpmodel.Feasible, best), nil
		}
	}
}

// encoding is a model compiled to a logic circuit plus direct clauses.
type encoding struct {
	c          *logic.C
	vars       []z.Lit
	mentioned  []bool
	clauses    [][]z.Lit
	maxClauses int
	// bound[k] holds iff at most k objective literals are true.
	bound []z.Lit
}

func encode(m *cpmodel.Model, maxClauses int) (*encoding, error) {
	e := &encoding{
		c:          logic.NewCCap(4 * m.NumVars()),
		vars:       make([]z.Lit, m.NumVars()),
		mentioned:  make([]bool, m.NumVars()),
		maxClauses: maxClauses,
	}
	for i := range e.vars {
		e.vars[i] = e.c.Lit()
	}

	for i, c := range m.Linear {
		if err := e.linear(c); err != nil {
			return nil, fmt.Errorf("linear constraint %d %q: %w", i, c.Name, err)
		}
	}
	for _, me := range m.MaxEqualities {
		t := e.vars[me.Target]
		or := []z.Lit{t.Not()}
		for _, v := range me.Vars {
			e.clause(e.vars[v].Not(), t)
			or = append(or, e.vars[v])
		}
		e.clause(or...)
		e.mark(me.Target)
		for _, v := range me.Vars {
			e.mark(v)
		}
	}
	for _, imp := range m.Implications {
		e.clause(e.vars[imp.If].Not(), e.vars[imp.Then])
		e.mark(imp.If)
		e.mark(imp.Then)
	}
	if len(e.clauses) > e.maxClauses {
		return nil, cpmodel.ErrEncodingTooLarge
	}

	if len(m.Objective) > 0 {
		if !m.ObjectiveHasUnitWeights() {
			return nil, fmt.Errorf("gini backend needs unit objective weights")
		}
		lits := make([]z.Lit, len(m.Objective))
		for i, t := range m.Objective {
			lits[i] = e.vars[t.Var]
		}
		if len(lits) >= 2 {
			cs := e.c.CardSort(lits)
			e.bound = make([]z.Lit, len(lits))
			for k := range e.bound {
				e.bound[k] = cs.Leq(k)
			}
			for _, t := range m.Objective {
				e.mark(t.Var)
			}
		} else if e.mentioned[m.Objective[0].Var] {
			e.bound = []z.Lit{lits[0].Not()}
		}
	}

	// A variable no clause or gate refers to is unconstrained and, if it is
	// in the objective, cheapest when false.
	for i, seen := range e.mentioned {
		if !seen {
			e.clause(e.vars[i].Not())
		}
	}
	return e, nil
}

func (e *encoding) mark(v cpmodel.VarIndex) {
	e.mentioned[v] = true
}

func (e *encoding) clause(lits ...z.Lit) {
	e.clauses = append(e.clauses, lits)
}

func (e *encoding) linear(c cpmodel.LinearConstraint) error {
	lits := make([]z.Lit, len(c.Terms))
	coeffs := make([]int64, len(c.Terms))
	var total int64
	uniform := true
	for i, t := range c.Terms {
		lits[i] = e.vars[t.Var]
		coeffs[i] = t.Coeff
		total += t.Coeff
		uniform = uniform && t.Coeff == c.Terms[0].Coeff
	}
	if c.Lower <= 0 && c.Upper >= total {
		return nil
	}
	for _, t := range c.Terms {
		e.mark(t.Var)
	}

	if uniform {
		w := c.Terms[0].Coeff
		lo := int((c.Lower + w - 1) / w)
		hi := len(lits)
		if c.Upper < total {
			hi = int(c.Upper / w)
		}
		return e.cardinality(lits, lo, hi)
	}

	if c.Upper < total {
		if err := e.covers(lits, coeffs, c.Upper); err != nil {
			return err
		}
	}
	if c.Lower > 0 {
		neg := make([]z.Lit, len(lits))
		for i, l := range lits {
			neg[i] = l.Not()
		}
		if err := e.covers(neg, coeffs, total-c.Lower); err != nil {
			return err
		}
	}
	return nil
}

// cardinality requires lo <= #true(lits) <= hi.
func (e *encoding) cardinality(lits []z.Lit, lo, hi int) error {
	n := len(lits)
	switch {
	case hi == 0:
		for _, l := range lits {
			e.clause(l.Not())
		}
	case lo == n:
		for _, l := range lits {
			e.clause(l)
		}
	case n == 1:
		// 0 < hi and lo < 1, nothing to enforce
	default:
		cs := e.c.CardSort(lits)
		if lo > 0 {
			e.clause(cs.Geq(lo))
		}
		if hi < n {
			e.clause(cs.Leq(hi))
		}
	}
	if len(e.clauses) > e.maxClauses {
		return cpmodel.ErrEncodingTooLarge
	}
	return nil
}

// covers forbids every minimal set of lits whose coefficients sum past ub.
// Terms are visited by decreasing coefficient so each emitted set is minimal.
func (e *encoding) covers(lits []z.Lit, coeffs []int64, ub int64) error {
	idx := make([]int, len(lits))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return coeffs[idx[a]] > coeffs[idx[b]]
	})
	suffix := make([]int64, len(idx)+1)
	for i := len(idx) - 1; i >= 0; i-- {
		suffix[i] = suffix[i+1] + coeffs[idx[i]]
	}

	var chosen []z.Lit
	var walk func(from int, sum int64) error
	walk = func(from int, sum int64) error {
		for k := from; k < len(idx); k++ {
			if sum+suffix[k] <= ub {
				return nil
			}
			c := coeffs[idx[k]]
			if sum+c > ub {
				cl := make([]z.Lit, 0, len(chosen)+1)
				for _, l := range chosen {
					cl = append(cl, l.Not())
				}
				e.clause(append(cl, lits[idx[k]].Not())...)
				if len(e.clauses) > e.maxClauses {
					return cpmodel.ErrEncodingTooLarge
				}
				continue
			}
			chosen = append(chosen, lits[idx[k]])
			if err := walk(k+1, sum+c); err != nil {
				return err
			}
			chosen = chosen[:len(chosen)-1]
		}
		return nil
	}
	return walk(0, 0)
}

func (e *encoding) read(g *gini.Gini) []bool {
	values := make([]bool, len(e.vars))
	for i, l := range e.vars {
		values[i] = g.Value(l)
	}
	return values
}
