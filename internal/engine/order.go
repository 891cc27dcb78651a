package engine

import (
	"sort"

	"github.com/piwi3910/RodCut/internal/model"
)

// Permutation returns the catalogue indices sorted by descending length.
// Equal lengths keep their original order.
func Permutation(pieces []model.Piece) []int {
	perm := make([]int, len(pieces))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return pieces[perm[a]].Length > pieces[perm[b]].Length
	})
	return perm
}

// OrderPieces returns a copy of the problem with its catalogue sorted largest
// first. Placing long pieces first cuts down the equivalent slot assignments
// the solver has to rule out; it never changes the optimal rod count.
func OrderPieces(p model.Problem) model.Problem {
	ordered := p.Clone()
	for i, idx := range Permutation(p.Pieces) {
		ordered.Pieces[i] = p.Pieces[idx]
	}
	return ordered
}
