package agronomy

import "testing"

func TestFactors(t *testing.T) {
	if RainfallFactor(2500) != 0.8 || RainfallFactor(1500) != 1.1 {
		t.Error("unexpected rainfall factors")
	}
	if TemperatureFactor(40) != 0.4 || TemperatureFactor(30) != 0.9 {
		t.Error("unexpected temperature factors")
	}
	if PesticideFactor(100) != 1.3 {
		t.Errorf("expected pesticide cap, got %v", PesticideFactor(100))
	}
	if RegionalMultiplier("Atlantis") != 1.0 {
		t.Error("expected neutral multiplier for unknown area")
	}
}

func TestAreasSorted(t *testing.T) {
	areas := Areas()
	if len(areas) != 20 || areas[0] != "Argentina" || areas[19] != "United States" {
		t.Errorf("unexpected areas %v", areas)
	}
}
