package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/RodCut/internal/model"
)

func TestPermutation_StableDescending(t *testing.T) {
	pieces := []model.Piece{
		{Label: "A", Length: 100},
		{Label: "B", Length: 300},
		{Label: "C", Length: 100},
		{Label: "D", Length: 200},
	}
	assert.Equal(t, []int{1, 3, 0, 2}, Permutation(pieces))
}

func TestPermutation_Empty(t *testing.T) {
	assert.Empty(t, Permutation(nil))
}

func TestOrderPieces(t *testing.T) {
	p := scenarioB()
	ordered := OrderPieces(p)

	lengths := make([]int, len(ordered.Pieces))
	for i, pc := range ordered.Pieces {
		lengths[i] = pc.Length
	}
	assert.Equal(t, []int{4200, 3600, 3100, 1500, 1200, 850, 700}, lengths)
	assert.Equal(t, 15, ordered.Pieces[3].Demand, "demand travels with its length")

	// Input untouched
	assert.Equal(t, 3100, p.Pieces[0].Length)
	assert.Equal(t, p.TotalLength(), ordered.TotalLength())
}
