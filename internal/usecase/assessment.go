package usecase

import (
	"fmt"
	"math"

	"cropyield/internal/domain/agronomy"
	"cropyield/internal/domain/entity"
)

const hgPerKg = 10.0

// YieldCategory buckets a yield given in hg/ha.
func YieldCategory(valueHgHa float64) string {
	kg := valueHgHa / hgPerKg
	switch {
	case kg < 1000:
		return "Low"
	case kg < 3000:
		return "Moderate"
	case kg < 5000:
		return "Good"
	default:
		return "Excellent"
	}
}

// Assess rates the growing conditions behind a prediction.
func Assess(in entity.CropInput, valueHgHa float64) entity.Assessment {
	rain := agronomy.RainfallFactor(in.AverageRainfall)
	temp := agronomy.TemperatureFactor(in.AvgTemp)
	pest := agronomy.PesticideFactor(in.Pesticides)

	optimality := (rain + temp + math.Min(pest, 1.2)) / 3
	confidence := int(math.Round(75 + (optimality-0.8)*100))
	confidence = max(65, min(95, confidence))

	return entity.Assessment{
		Category:        YieldCategory(valueHgHa),
		Confidence:      confidence,
		Factors:         factors(in),
		Recommendations: recommendations(in),
	}
}

func factors(in entity.CropInput) []entity.Factor {
	rainImpact := entity.ImpactNeutral
	switch {
	case in.AverageRainfall >= 600 && in.AverageRainfall <= 2000:
		rainImpact = entity.ImpactPositive
	case in.AverageRainfall < 300 || in.AverageRainfall > 2500:
		rainImpact = entity.ImpactNegative
	}

	tempImpact := entity.ImpactNeutral
	switch {
	case in.AvgTemp >= 15 && in.AvgTemp <= 25:
		tempImpact = entity.ImpactPositive
	case in.AvgTemp < 5 || in.AvgTemp > 35:
		tempImpact = entity.ImpactNegative
	}

	pestImpact := entity.ImpactNeutral
	switch {
	case in.Pesticides > 0 && in.Pesticides < 50:
		pestImpact = entity.ImpactPositive
	case in.Pesticides > 100:
		pestImpact = entity.ImpactNegative
	}

	regionImpact := entity.ImpactNeutral
	switch m := agronomy.RegionalMultiplier(in.Area); {
	case m > 1.05:
		regionImpact = entity.ImpactPositive
	case m < 0.95:
		regionImpact = entity.ImpactNegative
	}

	return []entity.Factor{
		{Name: "Rainfall", Value: fmt.Sprintf("%g mm/year", in.AverageRainfall), Impact: rainImpact},
		{Name: "Temperature", Value: fmt.Sprintf("%g°C", in.AvgTemp), Impact: tempImpact},
		{Name: "Pesticide Usage", Value: fmt.Sprintf("%g tonnes", in.Pesticides), Impact: pestImpact},
		{Name: "Regional Conditions", Value: in.Area, Impact: regionImpact},
	}
}

func recommendations(in entity.CropInput) []string {
	var out []string
	if in.AverageRainfall < 600 {
		out = append(out, "Consider implementing irrigation systems to supplement rainfall")
	}
	if in.AverageRainfall > 2000 {
		out = append(out, "Implement proper drainage systems to prevent waterlogging")
	}
	if in.AvgTemp > 30 {
		out = append(out, "Consider heat-resistant crop varieties or shade management")
	}
	if in.AvgTemp < 10 {
		out = append(out, "Consider using greenhouses or selecting cold-tolerant varieties")
	}
	if in.Pesticides > 50 {
		out = append(out, "Optimize pesticide usage to prevent environmental damage")
	}
	if in.Pesticides < 5 {
		out = append(out, "Consider integrated pest management strategies")
	}
	return append(out,
		"Monitor soil health and consider crop rotation practices",
		"Stay updated with weather forecasts for optimal planting timing",
	)
}
