package model

import (
	"testing"
)

func TestNewPieceAssignsShortID(t *testing.T) {
	p := NewPiece("Rail", 3100, 2)
	if len(p.ID) != 8 {
		t.Errorf("expected 8 character ID, got %q", p.ID)
	}
	if p.Length != 3100 || p.Demand != 2 || p.Label != "Rail" {
		t.Errorf("unexpected piece %+v", p)
	}

	q := NewPiece("Rail", 3100, 2)
	if p.ID == q.ID {
		t.Error("expected distinct IDs for distinct pieces")
	}
}

func TestProblemTotals(t *testing.T) {
	pr := NewProblem("frame", 6000,
		NewPiece("A", 3100, 2),
		NewPiece("B", 2900, 2),
	)
	if pr.TotalDemand() != 4 {
		t.Errorf("expected total demand 4, got %d", pr.TotalDemand())
	}
	if pr.TotalLength() != 12000 {
		t.Errorf("expected total length 12000, got %d", pr.TotalLength())
	}
}

func TestNewProblemDoesNotAliasPieces(t *testing.T) {
	pieces := []Piece{NewPiece("A", 100, 1)}
	pr := NewProblem("p", 1000, pieces...)
	pieces[0].Length = 999
	if pr.Pieces[0].Length != 100 {
		t.Errorf("expected problem to keep its own copy, got length %d", pr.Pieces[0].Length)
	}

	clone := pr.Clone()
	clone.Pieces[0].Demand = 7
	if pr.Pieces[0].Demand != 1 {
		t.Error("expected Clone to deep copy pieces")
	}
}

func TestNewProblemNilPieces(t *testing.T) {
	pr := NewProblem("empty", 1000)
	if pr.Pieces == nil {
		t.Error("expected empty, non-nil pieces slice")
	}
	if pr.TotalDemand() != 0 {
		t.Errorf("expected zero demand, got %d", pr.TotalDemand())
	}
}

func TestCuttingPlanEfficiency(t *testing.T) {
	plan := CuttingPlan{RodLength: 1000, TotalRodsUsed: 2, TotalWaste: 500}
	if got := plan.Efficiency(); got != 75.0 {
		t.Errorf("expected 75%% efficiency, got %.2f", got)
	}

	empty := CuttingPlan{RodLength: 1000}
	if empty.Efficiency() != 0 {
		t.Error("expected zero efficiency for an empty plan")
	}
}

func TestRodRecordEfficiency(t *testing.T) {
	r := RodRecord{UsedLength: 900, Waste: 100}
	if r.Efficiency() != 90.0 {
		t.Errorf("expected 90%%, got %.2f", r.Efficiency())
	}
}

func TestPieceCounts(t *testing.T) {
	plan := CuttingPlan{
		Rods: []RodRecord{
			{Cuts: []Cut{{Length: 3100}, {Length: 2900}}},
			{Cuts: []Cut{{Length: 3100}}},
		},
	}
	counts := plan.PieceCounts()
	if counts[3100] != 2 || counts[2900] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestNewProjectDefaults(t *testing.T) {
	p := NewProject()
	if p.Problem.RodLength != DefaultRodLength {
		t.Errorf("expected rod length %d, got %d", DefaultRodLength, p.Problem.RodLength)
	}
	if p.Settings != DefaultSettings() {
		t.Error("expected default settings on a new project")
	}
	if p.Result != nil {
		t.Error("expected no result on a new project")
	}
}
