package model

import (
	"fmt"
	"strings"
	"time"
)

// DefaultRodLength is the stock length new projects start with (6 m bars).
const DefaultRodLength = 6000

// Backend names the constraint solver used for a run.
type Backend string

const (
	BackendPB  Backend = "gophersat" // Pseudo-boolean CDCL solver, native weighted constraints
	BackendSAT Backend = "gini"      // CNF SAT solver with cardinality networks
)

// ParseBackend accepts a backend name case-insensitively.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gophersat", "pb":
		return BackendPB, nil
	case "gini", "sat":
		return BackendSAT, nil
	default:
		return "", fmt.Errorf("unknown backend %q", s)
	}
}

// SlotBound selects how the number of candidate rods in the model is bounded.
type SlotBound string

const (
	SlotBoundDemand  SlotBound = "demand"  // Total demand: one piece per rod in the worst case
	SlotBoundGreedy  SlotBound = "greedy"  // First-fit decreasing pre-pass
	SlotBoundGenetic SlotBound = "genetic" // Genetic permutation search decoded by first-fit
)

// ParseSlotBound accepts a slot bound name case-insensitively.
func ParseSlotBound(s string) (SlotBound, error) {
	switch SlotBound(strings.ToLower(strings.TrimSpace(s))) {
	case SlotBoundDemand:
		return SlotBoundDemand, nil
	case SlotBoundGreedy, "ffd":
		return SlotBoundGreedy, nil
	case SlotBoundGenetic, "ga":
		return SlotBoundGenetic, nil
	default:
		return "", fmt.Errorf("unknown slot bound %q", s)
	}
}

// SolveSettings holds model and solver configuration.
type SolveSettings struct {
	Backend           Backend   `json:"backend"`             // Constraint solver backend
	TimeLimitSeconds  float64   `json:"time_limit_seconds"`  // 0 = no limit
	MaxAssignmentVars int       `json:"max_assignment_vars"` // Ceiling on slot x piece variables
	Ordering          bool      `json:"ordering"`            // Sort catalogue by descending length before modeling
	SymmetryBreaking  bool      `json:"symmetry_breaking"`   // Force used rods to occupy the first slots
	SlotBound         SlotBound `json:"slot_bound"`          // How the slot count is bounded
	RepeatPieces      bool      `json:"repeat_pieces"`       // Allow several identical pieces on one rod
}

func DefaultSettings() SolveSettings {
	return SolveSettings{
		Backend:           BackendPB,
		TimeLimitSeconds:  30,
		MaxAssignmentVars: 200000,
		Ordering:          true,
		SymmetryBreaking:  true,
		SlotBound:         SlotBoundGreedy,
		RepeatPieces:      false,
	}
}

// TimeLimit returns the solver budget, or 0 when unbounded.
func (s SolveSettings) TimeLimit() time.Duration {
	if s.TimeLimitSeconds <= 0 {
		return 0
	}
	return time.Duration(s.TimeLimitSeconds * float64(time.Second))
}
