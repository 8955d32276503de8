package entity

import "time"

// Raw column names, in the order the preprocessor receives them.
const (
	ColumnYear       = "Year"
	ColumnRainfall   = "average_rain_fall_mm_per_year"
	ColumnPesticides = "pesticides_tonnes"
	ColumnAvgTemp    = "avg_temp"
	ColumnArea       = "Area"
	ColumnItem       = "Item"
)

// Source values reported on an Estimate.
const (
	SourceModel     = "model"
	SourceHeuristic = "heuristic"
)

type CropInput struct {
	Year            int     `json:"year"`
	AverageRainfall float64 `json:"average_rain_fall_mm_per_year"`
	Pesticides      float64 `json:"pesticides_tonnes"`
	AvgTemp         float64 `json:"avg_temp"`
	Area            string  `json:"area"`
	Item            string  `json:"item"`
}

// Numeric returns the value of a numeric raw column.
func (c CropInput) Numeric(column string) (float64, bool) {
	switch column {
	case ColumnYear:
		return float64(c.Year), true
	case ColumnRainfall:
		return c.AverageRainfall, true
	case ColumnPesticides:
		return c.Pesticides, true
	case ColumnAvgTemp:
		return c.AvgTemp, true
	}
	return 0, false
}

// Categorical returns the value of a categorical raw column.
func (c CropInput) Categorical(column string) (string, bool) {
	switch column {
	case ColumnArea:
		return c.Area, true
	case ColumnItem:
		return c.Item, true
	}
	return "", false
}

// Estimate is the raw output of a yield estimator. Value is in hg/ha.
type Estimate struct {
	Value    float64
	Features []float64 // transformed vector; nil when no preprocessor ran
	Source   string
}

type Prediction struct {
	ID         string              `json:"id"`
	Input      CropInput           `json:"input"`
	Value      float64             `json:"predicted_value"` // hg/ha
	Source     string              `json:"source"`
	Assessment Assessment          `json:"assessment"`
	Advice     string              `json:"advice,omitempty"`
	Similar    []SimilarPrediction `json:"similar,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

type SimilarPrediction struct {
	Input CropInput `json:"input"`
	Value float64   `json:"predicted_value"`
	Score float32   `json:"score"`
}

type Impact string

const (
	ImpactPositive Impact = "Positive"
	ImpactNegative Impact = "Negative"
	ImpactNeutral  Impact = "Neutral"
)

type Factor struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Impact Impact `json:"impact"`
}

type Assessment struct {
	Category        string   `json:"category"`
	Confidence      int      `json:"confidence"`
	Factors         []Factor `json:"factors"`
	Recommendations []string `json:"recommendations"`
}

// Catalog lists the areas and crops an estimator knows about.
type Catalog struct {
	Areas []string
	Items []string
}
