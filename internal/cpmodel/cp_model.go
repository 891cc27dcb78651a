// Package cpmodel offers a small API to build 0/1 linear optimization models
// and hand them to a solver backend.
//
// The Builder owns the model under construction. BoolVar is a reference to a
// variable of that model and LinearExpr collects weighted terms used by
// constraints and by the objective. Only the constraint families needed by
// rod cutting are supported: bounded linear sums with positive integer
// coefficients, max-equalities and implications.
package cpmodel

import (
	"errors"
	"fmt"
	"math"

	log "github.com/golang/glog"
)

var (
	// ErrMixedModels holds the error when elements added to a model are different.
	ErrMixedModels = errors.New("elements are not part of the same model")
	// ErrBadCoefficient is reported when a linear term has a coefficient below 1.
	ErrBadCoefficient = errors.New("coefficients must be positive")
)

// Unbounded is the upper bound of a linear constraint without an upper limit.
const Unbounded = math.MaxInt64

type (
	// VarIndex is the index of a variable in the model.
	VarIndex int32
	// ConstrIndex is the index of a linear constraint in the model.
	ConstrIndex int32
)

// Term is one coefficient times variable product of a linear sum.
type Term struct {
	Var   VarIndex
	Coeff int64
}

// LinearConstraint requires Lower <= sum(Terms) <= Upper.
type LinearConstraint struct {
	Name  string
	Terms []Term
	Lower int64
	Upper int64
}

// MaxEquality requires Target == max(Vars), with max of nothing being 0.
type MaxEquality struct {
	Target VarIndex
	Vars   []VarIndex
}

// Implication requires If -> Then.
type Implication struct {
	If   VarIndex
	Then VarIndex
}

// Model is a frozen 0/1 minimization model.
type Model struct {
	Names         []string
	Linear        []LinearConstraint
	MaxEqualities []MaxEquality
	Implications  []Implication
	// Objective is minimized. An empty objective makes any feasible
	// assignment optimal.
	Objective []Term
}

// NumVars returns the number of variables in the model.
func (m *Model) NumVars() int {
	return len(m.Names)
}

// LinearArgument provides an interface for BoolVar and LinearExpr.
type LinearArgument interface {
	addToLinearExpr(e *LinearExpr, c int64)
	builder() *Builder
}

// LinearExpr is a container for a linear expression.
type LinearExpr struct {
	terms []Term
	cpb   *Builder
}

// NewLinearExpr creates a new empty LinearExpr.
func NewLinearExpr() *LinearExpr {
	return &LinearExpr{}
}

// Add adds the linear argument with coefficient 1 and returns itself.
func (l *LinearExpr) Add(la LinearArgument) *LinearExpr {
	return l.AddTerm(la, 1)
}

// AddTerm adds the linear argument term with the given coefficient to the LinearExpr and returns itself.
func (l *LinearExpr) AddTerm(la LinearArgument, coeff int64) *LinearExpr {
	if l.cpb == nil {
		l.cpb = la.builder()
	} else if b := la.builder(); b != nil {
		l.cpb.checkSameModelAndSetErrorf(b, "invalid parameters la %v added to LinearExpr %v", la, l)
	}
	la.addToLinearExpr(l, coeff)
	return l
}

// AddSum adds the sum of the linear arguments to the LinearExpr and returns itself.
func (l *LinearExpr) AddSum(las ...LinearArgument) *LinearExpr {
	for _, la := range las {
		l.AddTerm(la, 1)
	}
	return l
}

func (l *LinearExpr) addToLinearExpr(e *LinearExpr, c int64) {
	for _, t := range l.terms {
		e.terms = append(e.terms, Term{Var: t.Var, Coeff: t.Coeff * c})
	}
}

func (l *LinearExpr) builder() *Builder {
	return l.cpb
}

// merged returns the terms with duplicate variables summed, in first-seen order.
func (l *LinearExpr) merged() []Term {
	pos := make(map[VarIndex]int, len(l.terms))
	out := make([]Term, 0, len(l.terms))
	for _, t := range l.terms {
		if i, ok := pos[t.Var]; ok {
			out[i].Coeff += t.Coeff
			continue
		}
		pos[t.Var] = len(out)
		out = append(out, t)
	}
	return out
}

// BoolVar is a reference to a Boolean variable in the model.
type BoolVar struct {
	ind VarIndex
	cpb *Builder
}

// Name returns the name of the variable.
func (b BoolVar) Name() string {
	return b.cpb.m.Names[b.ind]
}

// Index returns the index of the variable.
func (b BoolVar) Index() VarIndex {
	return b.ind
}

// WithName sets the name of the variable.
func (b BoolVar) WithName(s string) BoolVar {
	b.cpb.m.Names[b.ind] = s
	return b
}

func (b BoolVar) addToLinearExpr(e *LinearExpr, c int64) {
	e.terms = append(e.terms, Term{Var: b.ind, Coeff: c})
}

func (b BoolVar) builder() *Builder {
	return b.cpb
}

// Constraint is a reference to a linear constraint in the model.
type Constraint struct {
	ind ConstrIndex
	cpb *Builder
}

// WithName sets the name of the constraint.
func (c Constraint) WithName(s string) Constraint {
	c.cpb.m.Linear[c.ind].Name = s
	return c
}

// Name returns the name of the constraint.
func (c Constraint) Name() string {
	return c.cpb.m.Linear[c.ind].Name
}

// Index returns the index of the constraint.
func (c Constraint) Index() ConstrIndex {
	return c.ind
}

// Builder accumulates variables and constraints of a Model.
type Builder struct {
	m *Model
	// The first and only the first error is reported in Model.
	err error
}

// NewCpModelBuilder creates and returns a new Builder.
func NewCpModelBuilder() *Builder {
	return &Builder{m: &Model{}}
}

// checkSameModelAndSetErrorf returns true if `cp` and `cp2` point to the same Builder.
// If false, an error with the error message `format` is set on `cp` if `cp.err`
// is nil.
func (cp *Builder) checkSameModelAndSetErrorf(cp2 *Builder, format string, a ...any) bool {
	if cp == cp2 {
		return true
	}
	args := make([]any, len(a)+1)
	copy(args, a)
	args[len(a)] = ErrMixedModels
	cp.setErr(fmt.Errorf(format+": %w", args...))
	return false
}

func (cp *Builder) setErr(err error) {
	log.Errorf("%v; use `-log_backtrace_at` flag to get the error stack", err)
	if cp.err == nil {
		cp.err = err
	}
}

// NewBoolVar creates a new BoolVar in the model.
func (cp *Builder) NewBoolVar() BoolVar {
	v := BoolVar{cpb: cp, ind: VarIndex(len(cp.m.Names))}
	cp.m.Names = append(cp.m.Names, "")
	return v
}

// NumVars returns the number of variables created so far.
func (cp *Builder) NumVars() int {
	return len(cp.m.Names)
}

func (cp *Builder) terms(la LinearArgument) []Term {
	if b := la.builder(); b != nil {
		cp.checkSameModelAndSetErrorf(b, "invalid parameter la %v added to constraint", la)
	}
	e := NewLinearExpr()
	la.addToLinearExpr(e, 1)
	ts := e.merged()
	for _, t := range ts {
		if t.Coeff < 1 {
			cp.setErr(fmt.Errorf("term %v: %w", t, ErrBadCoefficient))
		}
	}
	return ts
}

// AddLinearConstraint adds the constraint lb <= expr <= ub.
func (cp *Builder) AddLinearConstraint(expr LinearArgument, lb, ub int64) Constraint {
	c := Constraint{cpb: cp, ind: ConstrIndex(len(cp.m.Linear))}
	cp.m.Linear = append(cp.m.Linear, LinearConstraint{
		Terms: cp.terms(expr),
		Lower: lb,
		Upper: ub,
	})
	return c
}

// AddEquality adds the constraint expr == rhs.
func (cp *Builder) AddEquality(expr LinearArgument, rhs int64) Constraint {
	return cp.AddLinearConstraint(expr, rhs, rhs)
}

// AddLessOrEqual adds the constraint expr <= rhs.
func (cp *Builder) AddLessOrEqual(expr LinearArgument, rhs int64) Constraint {
	return cp.AddLinearConstraint(expr, 0, rhs)
}

// AddGreaterOrEqual adds the constraint expr >= rhs.
func (cp *Builder) AddGreaterOrEqual(expr LinearArgument, rhs int64) Constraint {
	return cp.AddLinearConstraint(expr, rhs, Unbounded)
}

// AddMaxEquality adds the constraint target == max(vars).
func (cp *Builder) AddMaxEquality(target BoolVar, vars ...BoolVar) {
	cp.checkSameModelAndSetErrorf(target.cpb, "invalid target %v in AddMaxEquality", target)
	me := MaxEquality{Target: target.ind, Vars: make([]VarIndex, len(vars))}
	for i, v := range vars {
		cp.checkSameModelAndSetErrorf(v.cpb, "invalid parameter %v in AddMaxEquality", v)
		me.Vars[i] = v.ind
	}
	cp.m.MaxEqualities = append(cp.m.MaxEqualities, me)
}

// AddImplication adds the constraint a => b.
func (cp *Builder) AddImplication(a, b BoolVar) {
	cp.checkSameModelAndSetErrorf(a.cpb, "invalid parameter a %v in AddImplication", a)
	cp.checkSameModelAndSetErrorf(b.cpb, "invalid parameter b %v in AddImplication", b)
	cp.m.Implications = append(cp.m.Implications, Implication{If: a.ind, Then: b.ind})
}

// Minimize sets the objective to minimize obj, replacing any previous one.
func (cp *Builder) Minimize(obj LinearArgument) {
	cp.m.Objective = cp.terms(obj)
}

// Model returns the built model, or the first error recorded while building.
func (cp *Builder) Model() (*Model, error) {
	if cp.err != nil {
		return nil, cp.err
	}
	return cp.m, nil
}
