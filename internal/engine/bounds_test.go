package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/RodCut/internal/model"
)

// checkPacking verifies that rods hold every demanded unit, fit the rod and
// respect the per-rod copy limit.
func checkPacking(t *testing.T, p model.Problem, rods [][]int, repeat bool) {
	t.Helper()
	counts := make([]int, len(p.Pieces))
	for r, rod := range rods {
		used := 0
		perType := map[int]int{}
		for _, j := range rod {
			used += p.Pieces[j].Length
			counts[j]++
			perType[j]++
		}
		assert.LessOrEqual(t, used, p.RodLength, "rod %d over capacity", r)
		for j, n := range perType {
			assert.LessOrEqual(t, n, copiesPerRod(p.Pieces[j], p.RodLength, repeat), "rod %d repeats length %d", r, p.Pieces[j].Length)
		}
	}
	for j, pc := range p.Pieces {
		assert.Equal(t, pc.Demand, counts[j], "demand for %d", pc.Length)
	}
}

func TestLowerBound(t *testing.T) {
	assert.Equal(t, 2, LowerBound(scenarioA(), false))
	assert.Equal(t, 15, LowerBound(scenarioB(), false))
	// ceil(49800 / 6000) once lengths may repeat.
	assert.Equal(t, 9, LowerBound(scenarioB(), true))
	assert.Equal(t, 0, LowerBound(model.NewProblem("empty", 100), false))

	repeat := model.NewProblem("r", 6000, model.NewPiece("a", 1500, 4))
	assert.Equal(t, 4, LowerBound(repeat, false))
	assert.Equal(t, 1, LowerBound(repeat, true))
}

func TestCopiesPerRod(t *testing.T) {
	pc := model.Piece{Length: 1500, Demand: 10}
	assert.Equal(t, 1, copiesPerRod(pc, 6000, false))
	assert.Equal(t, 4, copiesPerRod(pc, 6000, true))
	pc.Demand = 2
	assert.Equal(t, 2, copiesPerRod(pc, 6000, true))
	pc.Demand = 0
	assert.Equal(t, 1, copiesPerRod(pc, 6000, true))
}

func TestFirstFitDecreasing(t *testing.T) {
	for _, repeat := range []bool{false, true} {
		for _, p := range []model.Problem{scenarioA(), scenarioB(), mixedProblem()} {
			rods := FirstFitDecreasing(p, repeat)
			checkPacking(t, p, rods, repeat)
			assert.GreaterOrEqual(t, len(rods), LowerBound(p, repeat))
		}
	}

	assert.Len(t, FirstFitDecreasing(scenarioA(), false), 2)
	assert.Len(t, FirstFitDecreasing(scenarioB(), false), 15)
	assert.Len(t, FirstFitDecreasing(model.NewProblem("r", 6000, model.NewPiece("a", 1500, 4)), true), 1)
	assert.Empty(t, FirstFitDecreasing(model.NewProblem("empty", 6000), false))
}

func TestSlotCount(t *testing.T) {
	s := model.DefaultSettings()

	s.SlotBound = model.SlotBoundDemand
	assert.Equal(t, 27, SlotCount(scenarioB(), s, DefaultGeneticConfig()))

	s.SlotBound = model.SlotBoundGreedy
	assert.Equal(t, 15, SlotCount(scenarioB(), s, DefaultGeneticConfig()))

	s.SlotBound = model.SlotBoundGenetic
	assert.Equal(t, 15, SlotCount(scenarioB(), s, DefaultGeneticConfig()))
}
