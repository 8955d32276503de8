package api

import (
	"embed"
	"net/http"
	"strconv"

	"cropyield/internal/domain/entity"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

const indexView = "templates/index"

// NewViews returns the template engine serving the embedded pages.
func NewViews() *html.Engine {
	return html.NewFileSystem(http.FS(templateFS), ".html")
}

type page struct {
	Form       FormValues
	Catalog    entity.Catalog
	Prediction *predictionView
	Error      string
}

type predictionView struct {
	ID              string
	Raw             string
	Value           string
	KgPerHectare    string
	Source          string
	Category        string
	Confidence      int
	Factors         []entity.Factor
	Recommendations []string
	Advice          string
	Similar         []similarView
}

type similarView struct {
	Area  string
	Item  string
	Year  int
	Value string
}

// formatYield rounds for display only; the raw regressor value is kept in
// the data-value attribute.
func formatYield(hg float64) string {
	return humanize.FormatFloat("#,###.##", decimal.NewFromFloat(hg).Round(2).InexactFloat64())
}

func newPredictionView(p *entity.Prediction) *predictionView {
	kg := decimal.NewFromFloat(p.Value).Div(decimal.NewFromInt(10)).Round(1)
	kgFloat := kg.InexactFloat64()

	v := &predictionView{
		ID:              p.ID,
		Raw:             strconv.FormatFloat(p.Value, 'f', -1, 64),
		Value:           formatYield(p.Value),
		KgPerHectare:    humanize.FormatFloat("#,###.#", kgFloat),
		Source:          p.Source,
		Category:        p.Assessment.Category,
		Confidence:      p.Assessment.Confidence,
		Factors:         p.Assessment.Factors,
		Recommendations: p.Assessment.Recommendations,
		Advice:          p.Advice,
	}
	for _, s := range p.Similar {
		v.Similar = append(v.Similar, similarView{
			Area:  s.Input.Area,
			Item:  s.Input.Item,
			Year:  s.Input.Year,
			Value: formatYield(s.Value),
		})
	}
	return v
}

func render(c *fiber.Ctx, status int, data page) error {
	return c.Status(status).Render(indexView, data)
}
