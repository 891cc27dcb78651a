package model

import (
	"testing"
)

func TestDetectRemnantsFiltersShortTails(t *testing.T) {
	plan := CuttingPlan{
		RodLength: 6000,
		Rods: []RodRecord{
			{Number: 1, Slot: 0, UsedLength: 5900, Waste: 100},
			{Number: 2, Slot: 1, UsedLength: 4500, Waste: 1500},
			{Number: 3, Slot: 2, UsedLength: 5200, Waste: 800},
		},
	}
	remnants := DetectRemnants(plan, 300)
	if len(remnants) != 2 {
		t.Fatalf("expected 2 remnants, got %d", len(remnants))
	}
	if remnants[0].RodNumber != 2 || remnants[0].Length != 1500 {
		t.Errorf("expected longest remnant from rod 2, got %+v", remnants[0])
	}
	if remnants[0].Offset != 4500 {
		t.Errorf("expected remnant to start at 4500, got %d", remnants[0].Offset)
	}
	if TotalRemnantLength(remnants) != 2300 {
		t.Errorf("expected total 2300, got %d", TotalRemnantLength(remnants))
	}
}

func TestDetectRemnantsDefaultMinimum(t *testing.T) {
	plan := CuttingPlan{
		Rods: []RodRecord{
			{Number: 1, Waste: MinOffcutLength - 1},
			{Number: 2, Waste: MinOffcutLength},
		},
	}
	remnants := DetectRemnants(plan, 0)
	if len(remnants) != 1 || remnants[0].RodNumber != 2 {
		t.Errorf("expected only rod 2 to yield a remnant, got %+v", remnants)
	}
}

func TestDetectRemnantsEmptyPlan(t *testing.T) {
	if got := DetectRemnants(CuttingPlan{}, 100); len(got) != 0 {
		t.Errorf("expected no remnants, got %d", len(got))
	}
}
