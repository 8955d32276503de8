// Package agronomy holds the rule-of-thumb growing-condition factors shared by
// the heuristic estimator and the prediction assessment.
package agronomy

import (
	"math"
	"sort"
)

var regionalMultipliers = map[string]float64{
	"United States":  1.15,
	"China":          1.05,
	"India":          0.85,
	"Brazil":         1.10,
	"Argentina":      1.08,
	"Russia":         0.95,
	"Ukraine":        1.02,
	"Australia":      1.12,
	"Canada":         1.08,
	"France":         1.18,
	"Germany":        1.16,
	"Turkey":         0.92,
	"Pakistan":       0.78,
	"Poland":         1.01,
	"Romania":        0.98,
	"Kazakhstan":     0.88,
	"United Kingdom": 1.14,
	"Italy":          1.09,
	"Spain":          1.06,
	"Mexico":         0.89,
}

// RegionalMultiplier returns the regional adjustment for area, 1.0 if unknown.
func RegionalMultiplier(area string) float64 {
	if m, ok := regionalMultipliers[area]; ok {
		return m
	}
	return 1.0
}

// Areas lists the areas with a known multiplier, sorted.
func Areas() []string {
	areas := make([]string, 0, len(regionalMultipliers))
	for a := range regionalMultipliers {
		areas = append(areas, a)
	}
	sort.Strings(areas)
	return areas
}

func RainfallFactor(mm float64) float64 {
	switch {
	case mm < 300:
		return 0.4
	case mm < 600:
		return 0.7
	case mm < 1200:
		return 1.0
	case mm < 2000:
		return 1.1
	default:
		return 0.8
	}
}

func TemperatureFactor(c float64) float64 {
	switch {
	case c < 5:
		return 0.3
	case c < 15:
		return 0.7
	case c < 25:
		return 1.0
	case c < 35:
		return 0.9
	default:
		return 0.4
	}
}

// PesticideFactor has diminishing returns capped at 1.3.
func PesticideFactor(tonnes float64) float64 {
	return math.Min(1.0+tonnes*0.02, 1.3)
}
