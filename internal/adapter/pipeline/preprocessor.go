package pipeline

import (
	"fmt"
	"math"

	"cropyield/internal/domain/entity"
)

const (
	KindStandardScaler = "standard_scaler"
	KindOneHot         = "one_hot"
)

// Transformer is one entry of a fitted column transformer.
type Transformer struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Columns []string `json:"columns"`

	// standard_scaler
	Mean  []float64 `json:"mean,omitempty"`
	Scale []float64 `json:"scale,omitempty"`

	// one_hot
	Categories    [][]string `json:"categories,omitempty"`
	HandleUnknown string     `json:"handle_unknown,omitempty"`

	index []map[string]int
}

// Preprocessor maps a CropInput to the feature vector the regressor was
// fitted on. Transformer outputs are concatenated in declaration order.
type Preprocessor struct {
	Columns      []string       `json:"columns"`
	Transformers []*Transformer `json:"transformers"`

	width int
}

func (p *Preprocessor) Width() int {
	return p.width
}

func (p *Preprocessor) validate() error {
	var zero entity.CropInput
	listed := make(map[string]bool, len(p.Columns))
	for _, col := range p.Columns {
		_, num := zero.Numeric(col)
		_, cat := zero.Categorical(col)
		if !num && !cat {
			return fmt.Errorf("unknown input column %q", col)
		}
		listed[col] = true
	}
	if len(p.Transformers) == 0 {
		return fmt.Errorf("preprocessor has no transformers")
	}

	p.width = 0
	encoded := make(map[string]string, len(p.Columns))
	for _, t := range p.Transformers {
		if len(t.Columns) == 0 {
			return fmt.Errorf("transformer %q has no columns", t.Name)
		}
		for _, col := range t.Columns {
			if !listed[col] {
				return fmt.Errorf("transformer %q: column %q is not an input column", t.Name, col)
			}
			if prev, ok := encoded[col]; ok {
				return fmt.Errorf("transformer %q: column %q is already encoded by %q", t.Name, col, prev)
			}
			encoded[col] = t.Name
		}
		switch t.Kind {
		case KindStandardScaler:
			if len(t.Mean) != len(t.Columns) || len(t.Scale) != len(t.Columns) {
				return fmt.Errorf("transformer %q: mean/scale length does not match columns", t.Name)
			}
			for i, col := range t.Columns {
				if _, ok := zero.Numeric(col); !ok {
					return fmt.Errorf("transformer %q: column %q is not numeric", t.Name, col)
				}
				if t.Scale[i] == 0 {
					return fmt.Errorf("transformer %q: zero scale for column %q", t.Name, col)
				}
			}
			p.width += len(t.Columns)
		case KindOneHot:
			if len(t.Categories) != len(t.Columns) {
				return fmt.Errorf("transformer %q: categories length does not match columns", t.Name)
			}
			switch t.HandleUnknown {
			case "":
				t.HandleUnknown = "error"
			case "error", "ignore":
			default:
				return fmt.Errorf("transformer %q: unsupported handle_unknown %q", t.Name, t.HandleUnknown)
			}
			t.index = make([]map[string]int, len(t.Columns))
			for i, col := range t.Columns {
				if _, ok := zero.Categorical(col); !ok {
					return fmt.Errorf("transformer %q: column %q is not categorical", t.Name, col)
				}
				t.index[i] = make(map[string]int, len(t.Categories[i]))
				for j, c := range t.Categories[i] {
					if _, dup := t.index[i][c]; dup {
						return fmt.Errorf("transformer %q: duplicate category %q in column %q", t.Name, c, col)
					}
					t.index[i][c] = j
				}
				p.width += len(t.Categories[i])
			}
		default:
			return fmt.Errorf("transformer %q: unsupported kind %q", t.Name, t.Kind)
		}
	}
	return nil
}

// Transform returns the encoded feature vector for in.
func (p *Preprocessor) Transform(in entity.CropInput) ([]float64, error) {
	out := make([]float64, 0, p.width)
	for _, t := range p.Transformers {
		switch t.Kind {
		case KindStandardScaler:
			for i, col := range t.Columns {
				v, _ := in.Numeric(col)
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, fmt.Errorf("%w: %s contains a non-finite value", entity.ErrInvalidInput, col)
				}
				out = append(out, (v-t.Mean[i])/t.Scale[i])
			}
		case KindOneHot:
			for i, col := range t.Columns {
				v, _ := in.Categorical(col)
				block := make([]float64, len(t.Categories[i]))
				j, known := t.index[i][v]
				if known {
					block[j] = 1
				} else if t.HandleUnknown == "error" {
					return nil, fmt.Errorf("%w: found unknown category %q in column %s", entity.ErrInvalidInput, v, col)
				}
				out = append(out, block...)
			}
		}
	}
	return out, nil
}

// Categories returns the fitted categories of a categorical column.
func (p *Preprocessor) Categories(column string) []string {
	for _, t := range p.Transformers {
		if t.Kind != KindOneHot {
			continue
		}
		for i, col := range t.Columns {
			if col == column {
				return append([]string(nil), t.Categories[i]...)
			}
		}
	}
	return nil
}
