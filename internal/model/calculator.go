package model

import "math"

// PurchaseEstimate holds the results of a rod purchasing calculation.
type PurchaseEstimate struct {
	TotalPieceLength int     `json:"total_piece_length"` // Total length of all pieces (mm)
	RodLength        int     `json:"rod_length"`         // Length of one rod (mm)
	RodsNeededExact  float64 `json:"rods_needed_exact"`  // Exact fractional number of rods
	RodsNeededMin    int     `json:"rods_needed_min"`    // Minimum rods (ceiling of exact)
	RodsWithWaste    int     `json:"rods_with_waste"`    // Recommended rods including waste factor
	WastePercent     float64 `json:"waste_percent"`      // Waste factor applied (e.g., 10 for 10%)
	EstimatedCost    float64 `json:"estimated_cost"`     // Total cost if pricing available
	PricePerRod      float64 `json:"price_per_rod"`      // Price used for estimation
}

// CalculatePurchaseEstimate computes how many rods to buy for a given cut list
// without solving the cutting problem. RodsNeededMin is a valid lower bound on
// any cutting plan.
func CalculatePurchaseEstimate(pieces []Piece, rodLength int, wastePercent, pricePerRod float64) PurchaseEstimate {
	total := 0
	for _, p := range pieces {
		total += p.Length * p.Demand
	}

	if rodLength <= 0 {
		return PurchaseEstimate{
			TotalPieceLength: total,
			WastePercent:     wastePercent,
		}
	}

	exact := float64(total) / float64(rodLength)
	minRods := (total + rodLength - 1) / rodLength

	wasteFactor := 1.0 + (wastePercent / 100.0)
	withWaste := int(math.Ceil(exact * wasteFactor))
	if withWaste < minRods {
		withWaste = minRods
	}

	return PurchaseEstimate{
		TotalPieceLength: total,
		RodLength:        rodLength,
		RodsNeededExact:  exact,
		RodsNeededMin:    minRods,
		RodsWithWaste:    withWaste,
		WastePercent:     wastePercent,
		EstimatedCost:    float64(withWaste) * pricePerRod,
		PricePerRod:      pricePerRod,
	}
}
