package engine

import (
	"testing"

	"github.com/piwi3910/RodCut/internal/model"
)

func fastGeneticConfig() GeneticConfig {
	cfg := DefaultGeneticConfig()
	cfg.PopulationSize = 20
	cfg.Generations = 30
	return cfg
}

func TestGeneticBoundPlacesAllPieces(t *testing.T) {
	for _, p := range []model.Problem{scenarioA(), scenarioB(), mixedProblem()} {
		rods := GeneticBound(p, false, fastGeneticConfig())
		checkPacking(t, p, rods, false)
	}
}

func TestGeneticBoundNeverWorseThanGreedy(t *testing.T) {
	problems := []model.Problem{
		scenarioA(),
		scenarioB(),
		mixedProblem(),
		model.NewProblem("odd", 1000,
			model.NewPiece("a", 510, 3),
			model.NewPiece("b", 490, 3),
			model.NewPiece("c", 260, 4),
			model.NewPiece("d", 240, 4),
		),
	}
	for _, repeat := range []bool{false, true} {
		for _, p := range problems {
			ga := GeneticBound(p, repeat, fastGeneticConfig())
			ffd := FirstFitDecreasing(p, repeat)
			if len(ga) > len(ffd) {
				t.Errorf("%s (repeat=%t): genetic used %d rods, greedy %d", p.Name, repeat, len(ga), len(ffd))
			}
			if len(ga) < LowerBound(p, repeat) {
				t.Errorf("%s (repeat=%t): genetic used %d rods, below lower bound %d", p.Name, repeat, len(ga), LowerBound(p, repeat))
			}
		}
	}
}

func TestGeneticBoundDeterministic(t *testing.T) {
	p := mixedProblem()
	first := GeneticBound(p, true, fastGeneticConfig())
	second := GeneticBound(p, true, fastGeneticConfig())
	if len(first) != len(second) {
		t.Fatalf("expected same rod count for same seed, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if len(first[i]) != len(second[i]) {
			t.Errorf("rod %d differs between runs", i)
		}
	}
}

func TestGeneticBoundEmpty(t *testing.T) {
	if rods := GeneticBound(model.NewProblem("empty", 100), false, fastGeneticConfig()); rods != nil {
		t.Errorf("expected nil for empty problem, got %v", rods)
	}
}

func TestGeneticBoundZeroPopulation(t *testing.T) {
	cfg := fastGeneticConfig()
	cfg.PopulationSize = 0
	rods := GeneticBound(scenarioA(), false, cfg)
	checkPacking(t, scenarioA(), rods, false)
}
