package engine

import (
	"sort"

	"github.com/piwi3910/RodCut/internal/model"
)

// copiesPerRod is how many units of a piece one rod may carry in the model.
// Without repeats every rod holds at most one unit of each length.
func copiesPerRod(pc model.Piece, rodLength int, repeat bool) int {
	if !repeat {
		return 1
	}
	n := rodLength / pc.Length
	if pc.Demand < n {
		n = pc.Demand
	}
	if n < 1 {
		n = 1
	}
	return n
}

// LowerBound returns a rod count no plan can beat: the total length over the
// rod length, or the demand of a single length over how many fit per rod.
func LowerBound(p model.Problem, repeat bool) int {
	if p.RodLength <= 0 {
		return 0
	}
	lb := (p.TotalLength() + p.RodLength - 1) / p.RodLength
	for _, pc := range p.Pieces {
		if pc.Demand == 0 {
			continue
		}
		c := copiesPerRod(pc, p.RodLength, repeat)
		if need := (pc.Demand + c - 1) / c; need > lb {
			lb = need
		}
	}
	return lb
}

// expandUnits lists one catalogue index per demanded unit.
func expandUnits(p model.Problem) []int {
	units := make([]int, 0, p.TotalDemand())
	for j, pc := range p.Pieces {
		for k := 0; k < pc.Demand; k++ {
			units = append(units, j)
		}
	}
	return units
}

// firstFit packs units in the given order, each into the first rod with room
// and with fewer than the allowed copies of its length. Rods are returned as
// lists of catalogue indices.
func firstFit(p model.Problem, units []int, repeat bool) [][]int {
	var rods [][]int
	var free []int
	var count []map[int]int

	for _, j := range units {
		length := p.Pieces[j].Length
		limit := copiesPerRod(p.Pieces[j], p.RodLength, repeat)
		placed := false
		for r := range rods {
			if free[r] >= length && count[r][j] < limit {
				rods[r] = append(rods[r], j)
				free[r] -= length
				count[r][j]++
				placed = true
				break
			}
		}
		if !placed {
			rods = append(rods, []int{j})
			free = append(free, p.RodLength-length)
			count = append(count, map[int]int{j: 1})
		}
	}
	return rods
}

// FirstFitDecreasing packs every demanded piece largest first with first-fit.
// The rod count it reaches is an upper bound for the model.
func FirstFitDecreasing(p model.Problem, repeat bool) [][]int {
	units := expandUnits(p)
	sort.SliceStable(units, func(a, b int) bool {
		return p.Pieces[units[a]].Length > p.Pieces[units[b]].Length
	})
	return firstFit(p, units, repeat)
}

// SlotCount returns the number of candidate rods the model allocates for p.
func SlotCount(p model.Problem, s model.SolveSettings, ga GeneticConfig) int {
	switch s.SlotBound {
	case model.SlotBoundDemand:
		return p.TotalDemand()
	case model.SlotBoundGenetic:
		return len(GeneticBound(p, s.RepeatPieces, ga))
	default:
		return len(FirstFitDecreasing(p, s.RepeatPieces))
	}
}
