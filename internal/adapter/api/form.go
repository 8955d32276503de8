package api

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"cropyield/internal/domain/entity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/thedevsaddam/govalidator"
)

// Form fields in display order.
var formFields = []string{
	entity.ColumnYear,
	entity.ColumnRainfall,
	entity.ColumnPesticides,
	entity.ColumnAvgTemp,
	entity.ColumnArea,
	entity.ColumnItem,
}

var formRules = govalidator.MapData{
	entity.ColumnYear:       []string{"required"},
	entity.ColumnRainfall:   []string{"required"},
	entity.ColumnPesticides: []string{"required"},
	entity.ColumnAvgTemp:    []string{"required"},
	entity.ColumnArea:       []string{"required", "max:128"},
	entity.ColumnItem:       []string{"required", "max:128"},
}

// FormValues holds the raw submitted strings so the page can echo them back.
type FormValues map[string]string

// readForm copies each value out of the request buffer, which fasthttp
// reuses once the handler returns while history saves may still hold them.
func readForm(c *fiber.Ctx) FormValues {
	values := make(FormValues, len(formFields))
	for _, f := range formFields {
		values[f] = strings.Clone(c.FormValue(f))
	}
	return values
}

// validateForm applies the presence rules to the submitted form.
func validateForm(c *fiber.Ctx) error {
	req, err := adaptor.ConvertRequest(c, false)
	if err != nil {
		return fmt.Errorf("failed to read form: %w", err)
	}
	v := govalidator.New(govalidator.Options{
		Request: req,
		Rules:   formRules,
	})
	bag := v.Validate()
	if len(bag) == 0 {
		return nil
	}

	var msgs []string
	for _, f := range formFields {
		msgs = append(msgs, bag[f]...)
	}
	return fmt.Errorf("%w: %s", entity.ErrInvalidInput, strings.Join(msgs, "; "))
}

// parseForm converts validated form values into a CropInput.
func parseForm(values FormValues) (entity.CropInput, error) {
	var in entity.CropInput

	year, err := strconv.Atoi(strings.TrimSpace(values[entity.ColumnYear]))
	if err != nil {
		return in, fmt.Errorf("%w: %s must be an integer, got %q", entity.ErrInvalidInput, entity.ColumnYear, values[entity.ColumnYear])
	}
	in.Year = year

	floats := []struct {
		field string
		dst   *float64
	}{
		{entity.ColumnRainfall, &in.AverageRainfall},
		{entity.ColumnPesticides, &in.Pesticides},
		{entity.ColumnAvgTemp, &in.AvgTemp},
	}
	for _, f := range floats {
		raw := values[f.field]
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return in, fmt.Errorf("%w: %s must be a number, got %q", entity.ErrInvalidInput, f.field, raw)
		}
		*f.dst = v
	}

	in.Area = strings.TrimSpace(values[entity.ColumnArea])
	in.Item = strings.TrimSpace(values[entity.ColumnItem])

	return in, validateInput(in)
}

// validateInput checks ranges; shared by the form and the JSON API.
func validateInput(in entity.CropInput) error {
	for _, v := range []float64{in.AverageRainfall, in.Pesticides, in.AvgTemp} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: numeric fields must be finite", entity.ErrInvalidInput)
		}
	}
	switch {
	case in.Year < 1990 || in.Year > 2030:
		return fmt.Errorf("%w: Year must be between 1990 and 2030", entity.ErrInvalidInput)
	case in.AverageRainfall < 0 || in.AverageRainfall > 5000:
		return fmt.Errorf("%w: rainfall must be between 0 and 5000 mm", entity.ErrInvalidInput)
	case in.Pesticides < 0:
		return fmt.Errorf("%w: pesticides must not be negative", entity.ErrInvalidInput)
	case in.AvgTemp < -20 || in.AvgTemp > 50:
		return fmt.Errorf("%w: temperature must be between -20°C and 50°C", entity.ErrInvalidInput)
	case in.Area == "":
		return fmt.Errorf("%w: Area is required", entity.ErrInvalidInput)
	case in.Item == "":
		return fmt.Errorf("%w: Item is required", entity.ErrInvalidInput)
	}
	return nil
}
