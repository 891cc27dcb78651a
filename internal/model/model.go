package model

import (
	"time"

	"github.com/google/uuid"
)

// Piece is one catalogue entry: a required cut length and how many of it are needed.
type Piece struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Length int    `json:"length"` // mm
	Demand int    `json:"demand"`
}

func NewPiece(label string, length, demand int) Piece {
	return Piece{
		ID:     uuid.New().String()[:8],
		Label:  label,
		Length: length,
		Demand: demand,
	}
}

// Problem is the input of a cutting run: one rod length and the catalogue of
// pieces to cut from it. All lengths share one integer sub-unit (mm).
type Problem struct {
	Name      string  `json:"name"`
	RodLength int     `json:"rod_length"` // mm
	Pieces    []Piece `json:"pieces"`
}

// NewProblem copies pieces so the caller's slice is never aliased.
func NewProblem(name string, rodLength int, pieces ...Piece) Problem {
	return Problem{
		Name:      name,
		RodLength: rodLength,
		Pieces:    copyPieces(pieces),
	}
}

// Clone returns a deep copy of the problem.
func (p Problem) Clone() Problem {
	return NewProblem(p.Name, p.RodLength, p.Pieces...)
}

// TotalDemand is the number of pieces to cut, which is also the worst-case
// number of rods (one piece per rod).
func (p Problem) TotalDemand() int {
	total := 0
	for _, pc := range p.Pieces {
		total += pc.Demand
	}
	return total
}

// TotalLength returns the summed length of every demanded piece.
func (p Problem) TotalLength() int {
	total := 0
	for _, pc := range p.Pieces {
		total += pc.Length * pc.Demand
	}
	return total
}

// PlanStatus tells whether a plan is proven optimal or only the best found.
type PlanStatus string

const (
	PlanOptimal  PlanStatus = "optimal"  // Minimum rod count is proven
	PlanFeasible PlanStatus = "feasible" // Valid plan, optimality not proven within the budget
)

// Cut is a single piece cut from a rod.
type Cut struct {
	PieceID string `json:"piece_id"`
	Label   string `json:"label"`
	Length  int    `json:"length"` // mm
}

// RodRecord is one physical rod of the plan with the pieces cut from it.
type RodRecord struct {
	Number     int   `json:"number"` // 1-based position in the plan
	Slot       int   `json:"slot"`   // Model slot the rod came from
	Cuts       []Cut `json:"cuts"`
	UsedLength int   `json:"used_length"` // mm
	Waste      int   `json:"waste"`       // mm
}

// Efficiency returns the usage percentage of the rod.
func (r RodRecord) Efficiency() float64 {
	total := r.UsedLength + r.Waste
	if total == 0 {
		return 0
	}
	return float64(r.UsedLength) / float64(total) * 100.0
}

// CuttingPlan holds the full solution.
type CuttingPlan struct {
	ID            string        `json:"id,omitempty"`
	ProblemName   string        `json:"problem_name,omitempty"`
	RodLength     int           `json:"rod_length"`
	Rods          []RodRecord   `json:"rods"`
	TotalRodsUsed int           `json:"total_rods_used"`
	TotalWaste    int           `json:"total_waste"`
	Status        PlanStatus    `json:"status"`
	Backend       Backend       `json:"backend,omitempty"`
	SolveTime     time.Duration `json:"solve_time,omitempty"`
}

// Optimal reports whether the rod count is proven minimal.
func (p CuttingPlan) Optimal() bool {
	return p.Status == PlanOptimal
}

// Efficiency returns overall material usage percentage.
func (p CuttingPlan) Efficiency() float64 {
	total := p.TotalRodsUsed * p.RodLength
	if total == 0 {
		return 0
	}
	return float64(total-p.TotalWaste) / float64(total) * 100.0
}

// PieceCounts returns how many pieces of each length the plan cuts.
func (p CuttingPlan) PieceCounts() map[int]int {
	counts := make(map[int]int)
	for _, r := range p.Rods {
		for _, c := range r.Cuts {
			counts[c.Length]++
		}
	}
	return counts
}

// Project ties everything together for save/load.
type Project struct {
	Name     string        `json:"name"`
	Problem  Problem       `json:"problem"`
	Settings SolveSettings `json:"settings"`
	Result   *CuttingPlan  `json:"result,omitempty"`
}

func NewProject() Project {
	return Project{
		Name:     "Untitled",
		Problem:  Problem{Name: "Untitled", RodLength: DefaultRodLength, Pieces: []Piece{}},
		Settings: DefaultSettings(),
	}
}

// copyPieces creates a copy of a pieces slice.
func copyPieces(pieces []Piece) []Piece {
	if pieces == nil {
		return []Piece{}
	}
	cp := make([]Piece, len(pieces))
	copy(cp, pieces)
	return cp
}
