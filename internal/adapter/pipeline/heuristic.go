package pipeline

import (
	"context"
	"fmt"
	"math"
	"sort"

	"cropyield/internal/domain/agronomy"
	"cropyield/internal/domain/entity"
)

const (
	defaultBaseYield  = 3000.0 // kg/ha
	minHeuristicYield = 100.0  // kg/ha
	hgPerKg           = 10.0
)

// Base yield in kg/ha per crop.
var cropBaseYields = map[string]float64{
	"Wheat":          3500,
	"Maize (Corn)":   6000,
	"Rice":           4500,
	"Soybeans":       2800,
	"Barley":         3200,
	"Sorghum":        3800,
	"Oats":           2900,
	"Millet":         1800,
	"Rye":            2700,
	"Sunflower Seed": 2200,
	"Cotton":         1600,
	"Sugar Beet":     4800,
	"Potatoes":       8500,
	"Sweet Potatoes": 7200,
	"Cassava":        5800,
	"Beans":          2100,
	"Peas":           2400,
	"Chickpeas":      1900,
	"Lentils":        1700,
	"Groundnuts":     2600,
}

func yearFactor(year int) float64 {
	return 1.0 + float64(year-2000)*0.005
}

// Heuristic is a rule-based estimator used when no fitted model is available.
type Heuristic struct{}

func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

func (h *Heuristic) Estimate(_ context.Context, in entity.CropInput) (*entity.Estimate, error) {
	for _, v := range []float64{in.AverageRainfall, in.Pesticides, in.AvgTemp} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite numeric value", entity.ErrInvalidInput)
		}
	}

	base, ok := cropBaseYields[in.Item]
	if !ok {
		base = defaultBaseYield
	}
	kg := base *
		agronomy.RegionalMultiplier(in.Area) *
		agronomy.RainfallFactor(in.AverageRainfall) *
		agronomy.TemperatureFactor(in.AvgTemp) *
		agronomy.PesticideFactor(in.Pesticides) *
		yearFactor(in.Year)
	kg = math.Max(minHeuristicYield, math.Round(kg))

	return &entity.Estimate{Value: kg * hgPerKg, Source: entity.SourceHeuristic}, nil
}

func (h *Heuristic) Catalog() entity.Catalog {
	return entity.Catalog{
		Areas: agronomy.Areas(),
		Items: sortedKeys(cropBaseYields),
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
