package cli

import (
	"errors"

	"github.com/piwi3910/RodCut/internal/engine"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInvalid     = 2
	ExitInfeasible  = 3
	ExitTooLarge    = 4
	ExitOutOfBudget = 5
)

// usageError marks bad flags or arguments.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	var usage usageError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &usage), errors.Is(err, engine.ErrInvalidSpecification):
		return ExitInvalid
	case errors.Is(err, engine.ErrInfeasibleSpecification):
		return ExitInfeasible
	case errors.Is(err, engine.ErrModelTooLarge):
		return ExitTooLarge
	case errors.Is(err, engine.ErrNoPlanWithinBudget):
		return ExitOutOfBudget
	default:
		return ExitFailure
	}
}
