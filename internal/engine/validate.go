package engine

import (
	"fmt"

	"github.com/piwi3910/RodCut/internal/model"
)

// Validate checks the static preconditions of a problem. Malformed input
// yields ErrInvalidSpecification; a piece longer than the rod yields
// ErrInfeasibleSpecification. An empty catalogue is valid.
func Validate(p model.Problem) error {
	if p.RodLength <= 0 {
		return fmt.Errorf("%w: rod length must be positive, got %d", ErrInvalidSpecification, p.RodLength)
	}

	seen := make(map[int]int, len(p.Pieces))
	for i, pc := range p.Pieces {
		if pc.Length <= 0 {
			return fmt.Errorf("%w: piece %d (%s) has non-positive length %d", ErrInvalidSpecification, i+1, pc.Label, pc.Length)
		}
		if pc.Demand < 0 {
			return fmt.Errorf("%w: piece %d (%s) has negative demand %d", ErrInvalidSpecification, i+1, pc.Label, pc.Demand)
		}
		if first, dup := seen[pc.Length]; dup {
			return fmt.Errorf("%w: pieces %d and %d share length %d", ErrInvalidSpecification, first+1, i+1, pc.Length)
		}
		seen[pc.Length] = i
	}

	for i, pc := range p.Pieces {
		if pc.Length > p.RodLength {
			return fmt.Errorf("%w: piece %d (%s) is %d long, rod is %d", ErrInfeasibleSpecification, i+1, pc.Label, pc.Length, p.RodLength)
		}
	}
	return nil
}
