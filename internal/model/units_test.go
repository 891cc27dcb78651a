package model

import "testing"

func TestParseUnit(t *testing.T) {
	for in, want := range map[string]Unit{"": UnitMillimeter, "MM": UnitMillimeter, "cm": UnitCentimeter, " m": UnitMeter} {
		got, err := ParseUnit(in)
		if err != nil || got != want {
			t.Errorf("ParseUnit(%q) = %s, %v; want %s", in, got, err, want)
		}
	}
	if _, err := ParseUnit("in"); err == nil {
		t.Error("expected error for inches")
	}
}

func TestToMillimeters(t *testing.T) {
	mm, err := UnitMeter.ToMillimeters(3.1)
	if err != nil || mm != 3100 {
		t.Errorf("expected 3100, got %d (%v)", mm, err)
	}
	mm, err = UnitCentimeter.ToMillimeters(85)
	if err != nil || mm != 850 {
		t.Errorf("expected 850, got %d (%v)", mm, err)
	}
	if _, err := UnitMillimeter.ToMillimeters(10.5); err == nil {
		t.Error("expected error for fractional millimetres")
	}
}

func TestFormat(t *testing.T) {
	if got := UnitMeter.Format(3100); got != "3.1 m" {
		t.Errorf("expected 3.1 m, got %q", got)
	}
	if got := UnitMillimeter.Format(850); got != "850 mm" {
		t.Errorf("expected 850 mm, got %q", got)
	}
	if got := Unit("").Format(12); got != "12 mm" {
		t.Errorf("expected empty unit to format as mm, got %q", got)
	}
}
