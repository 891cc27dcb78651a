package model

import "sort"

// Remnant is the unused tail of a rod that is long enough to be kept.
type Remnant struct {
	RodNumber int `json:"rod_number"`
	Slot      int `json:"slot"`
	Offset    int `json:"offset"` // Where the remnant starts, mm from the rod start
	Length    int `json:"length"` // mm
}

// MinOffcutLength is the default minimum length (in mm) for a rod tail to be
// reported as a usable remnant. Shorter tails are scrap.
const MinOffcutLength = 300

// DetectRemnants lists the rods whose waste is at least minLength, longest first.
// Pieces are cut from the rod start, so the remnant always begins at UsedLength.
func DetectRemnants(plan CuttingPlan, minLength int) []Remnant {
	if minLength <= 0 {
		minLength = MinOffcutLength
	}
	var remnants []Remnant
	for _, r := range plan.Rods {
		if r.Waste >= minLength {
			remnants = append(remnants, Remnant{
				RodNumber: r.Number,
				Slot:      r.Slot,
				Offset:    r.UsedLength,
				Length:    r.Waste,
			})
		}
	}

	// Longest first, rod order on ties
	sort.SliceStable(remnants, func(i, j int) bool {
		return remnants[i].Length > remnants[j].Length
	})
	return remnants
}

// TotalRemnantLength returns the summed length of all remnants in mm.
func TotalRemnantLength(remnants []Remnant) int {
	total := 0
	for _, r := range remnants {
		total += r.Length
	}
	return total
}
