package cpmodel

import (
	"context"
	"errors"
	"time"
)

// Status is the outcome class of a solve.
type Status int

const (
	// Unknown means the budget ran out before any solution or proof was found.
	Unknown Status = iota
	// Optimal means Values minimizes the objective.
	Optimal
	// Feasible means Values satisfies the model but optimality is not proven.
	Feasible
	// Infeasible means the model has no solution.
	Infeasible
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "OPTIMAL"
	case Feasible:
		return "FEASIBLE"
	case Infeasible:
		return "INFEASIBLE"
	default:
		return "UNKNOWN"
	}
}

// ErrEncodingTooLarge is returned by backends whose translation of the model
// would exceed their clause budget.
var ErrEncodingTooLarge = errors.New("model encoding exceeds clause budget")

// Params tunes a single solve.
type Params struct {
	// TimeLimit bounds the wall time of the solve; 0 means no limit.
	TimeLimit time.Duration
	// ObjectiveLowerBound is a proven lower bound on the objective. A
	// solution reaching it is reported Optimal without further search.
	ObjectiveLowerBound int64
}

// Outcome is the result of a solve.
type Outcome struct {
	Status    Status
	Values    []bool // Set for Optimal and Feasible
	Objective int64
	WallTime  time.Duration
}

// Solver is implemented by every constraint solver backend.
type Solver interface {
	// Name identifies the backend.
	Name() string
	// Solve searches for a minimum-objective assignment of m. Running out of
	// budget is not an error: it yields Feasible or Unknown.
	Solve(ctx context.Context, m *Model, p Params) (Outcome, error)
}
