package engine

import (
	"sort"

	"github.com/piwi3910/RodCut/internal/model"
)

// Extract turns a solver assignment into a cutting plan. Rods follow slot
// order and cuts within a rod run longest first, so equal inputs give equal
// plans. Demand, capacity, usage linkage and the waste balance are checked
// again here; a violation panics with *ReconciliationError because it means
// the model or the solver broke its contract.
//
// Extract does not set the plan ID, status, backend or solve time.
func Extract(f *Formulation, values []bool) model.CuttingPlan {
	if len(values) != f.Model.NumVars() {
		reconciliationFailure("assignment", "got %d values for %d variables", len(values), f.Model.NumVars())
	}

	p := f.Problem
	plan := model.CuttingPlan{
		ProblemName: p.Name,
		RodLength:   p.RodLength,
		Rods:        []model.RodRecord{},
	}
	counts := make([]int, len(p.Pieces))

	for i := 0; i < f.Slots; i++ {
		var cuts []model.Cut
		for j, copies := range f.Assign[i] {
			for _, v := range copies {
				if values[v] {
					pc := p.Pieces[j]
					cuts = append(cuts, model.Cut{PieceID: pc.ID, Label: pc.Label, Length: pc.Length})
					counts[j]++
				}
			}
		}

		used := values[f.Used[i]]
		switch {
		case used && len(cuts) == 0:
			reconciliationFailure("usage", "slot %d is marked used but carries no piece", i)
		case !used && len(cuts) > 0:
			reconciliationFailure("usage", "slot %d carries %d pieces but is marked unused", i, len(cuts))
		case !used:
			continue
		}

		sort.SliceStable(cuts, func(a, b int) bool {
			return cuts[a].Length > cuts[b].Length
		})
		usedLength := 0
		for _, c := range cuts {
			usedLength += c.Length
		}
		if usedLength > p.RodLength {
			reconciliationFailure("capacity", "slot %d holds %d on a rod of %d", i, usedLength, p.RodLength)
		}

		plan.Rods = append(plan.Rods, model.RodRecord{
			Number:     len(plan.Rods) + 1,
			Slot:       i,
			Cuts:       cuts,
			UsedLength: usedLength,
			Waste:      p.RodLength - usedLength,
		})
		plan.TotalWaste += p.RodLength - usedLength
	}
	plan.TotalRodsUsed = len(plan.Rods)

	for j, pc := range p.Pieces {
		if counts[j] != pc.Demand {
			reconciliationFailure("demand", "length %d cut %d times, demand is %d", pc.Length, counts[j], pc.Demand)
		}
	}
	if want := plan.TotalRodsUsed*p.RodLength - p.TotalLength(); plan.TotalWaste != want {
		reconciliationFailure("waste", "total waste %d, expected %d rods x %d - %d = %d",
			plan.TotalWaste, plan.TotalRodsUsed, p.RodLength, p.TotalLength(), want)
	}
	return plan
}
