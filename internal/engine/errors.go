package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSpecification reports malformed input. It is detected before
	// any model is built.
	ErrInvalidSpecification = errors.New("invalid specification")
	// ErrInfeasibleSpecification reports that no cutting plan exists, either
	// because a piece is longer than the rod or because the solver proved the
	// model unsatisfiable.
	ErrInfeasibleSpecification = errors.New("infeasible specification")
	// ErrModelTooLarge reports that the assignment variable count exceeds the
	// configured ceiling.
	ErrModelTooLarge = errors.New("model too large")
	// ErrNoPlanWithinBudget reports that the solver stopped without finding any
	// plan. Retrying with a larger time limit may succeed.
	ErrNoPlanWithinBudget = errors.New("no plan found within time budget")
)

// ReconciliationError is panicked by Extract when a solver assignment breaks
// an invariant the model guarantees. It signals a defect, never bad input.
type ReconciliationError struct {
	Check  string // Name of the failed check
	Detail string
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconciliation failure (%s): %s", e.Check, e.Detail)
}

func reconciliationFailure(check, format string, a ...any) {
	panic(&ReconciliationError{Check: check, Detail: fmt.Sprintf(format, a...)})
}
