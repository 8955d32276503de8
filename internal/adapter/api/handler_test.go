package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"cropyield/internal/adapter/pipeline"
	"cropyield/internal/adapter/store"
	"cropyield/internal/domain/entity"
	"cropyield/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

func newTestApp(t *testing.T, opts ...usecase.Option) *fiber.App {
	app, _ := newTestServer(t, opts...)
	return app
}

// newTestServer leaves fiber.Config.Immutable unset so handlers see the
// pooled request buffers.
func newTestServer(t *testing.T, opts ...usecase.Option) (*fiber.App, *usecase.Orchestrator) {
	t.Helper()
	p, err := pipeline.Load("../pipeline/testdata/preprocessor.json", "../pipeline/testdata/dtr.json")
	if err != nil {
		t.Fatal(err)
	}
	orch := usecase.NewOrchestrator(p, opts...)

	app := fiber.New(fiber.Config{Views: NewViews()})
	SetupRouter(app, NewPredictionHandler(orch, p.Catalog()))
	return app, orch
}

// gatedHistory holds every Save until the gate is closed.
type gatedHistory struct {
	gate  chan struct{}
	mu    sync.Mutex
	saved []entity.Prediction
}

func (g *gatedHistory) Save(_ context.Context, p *entity.Prediction) error {
	<-g.gate
	g.mu.Lock()
	defer g.mu.Unlock()
	g.saved = append(g.saved, *p)
	return nil
}

func (g *gatedHistory) Recent(_ context.Context, _ int) ([]entity.Prediction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]entity.Prediction(nil), g.saved...), nil
}

func validForm() url.Values {
	return url.Values{
		"Year":                          {"2013"},
		"average_rain_fall_mm_per_year": {"1485"},
		"pesticides_tonnes":             {"121"},
		"avg_temp":                      {"25"},
		"Area":                          {"India"},
		"Item":                          {"Maize"},
	}
}

func postForm(t *testing.T, app *fiber.App, form url.Values) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestIndexRendersForm(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	html := string(body)
	for _, want := range []string{`<form method="post" action="/predict">`, `name="Year"`, `name="Item"`, `<option value="Brazil">`} {
		if !strings.Contains(html, want) {
			t.Errorf("index page missing %q", want)
		}
	}
	if strings.Contains(html, `id="predicted-value"`) || strings.Contains(html, `id="error"`) {
		t.Error("index page should not show a result")
	}
}

func TestPredictRendersValue(t *testing.T) {
	app := newTestApp(t)

	resp, html := postForm(t, app, validForm())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(html, `data-value="50000"`) {
		t.Errorf("expected predicted value in page:\n%s", html)
	}
	if !strings.Contains(html, "50,000.00") {
		t.Error("expected formatted value")
	}
	if strings.Contains(html, `id="error"`) {
		t.Error("unexpected error block")
	}
	// submitted values are kept in the form
	if !strings.Contains(html, `value="India"`) {
		t.Error("expected form to echo Area")
	}
}

func TestPredictTrimsWhitespace(t *testing.T) {
	app := newTestApp(t)
	form := validForm()
	form.Set("Year", " 2013 ")
	form.Set("Item", "Wheat ")

	_, html := postForm(t, app, form)
	if !strings.Contains(html, `data-value="30000"`) {
		t.Errorf("expected wheat prediction:\n%s", html)
	}
}

func TestPredictSavesSubmittedValuesAfterResponse(t *testing.T) {
	history := &gatedHistory{gate: make(chan struct{})}
	app, orch := newTestServer(t, usecase.WithHistory(history))

	if resp, _ := postForm(t, app, validForm()); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	second := validForm()
	second.Set("Year", "2001")
	second.Set("Area", "Kenya")
	second.Set("Item", "Wheat")
	if resp, _ := postForm(t, app, second); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	close(history.gate)
	orch.Drain()

	saved, _ := history.Recent(context.Background(), 0)
	if len(saved) != 2 {
		t.Fatalf("expected 2 saved predictions, got %d", len(saved))
	}
	var first *entity.Prediction
	for i := range saved {
		if saved[i].Input.Year == 2013 {
			first = &saved[i]
		}
	}
	if first == nil {
		t.Fatalf("first prediction not saved: %+v", saved)
	}
	if first.Input.Area != "India" || first.Input.Item != "Maize" {
		t.Errorf("first prediction saved as %s/%s, want India/Maize", first.Input.Area, first.Input.Item)
	}
}

func TestPredictMalformedYear(t *testing.T) {
	app := newTestApp(t)
	form := validForm()
	form.Set("Year", "abc")

	resp, html := postForm(t, app, form)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(html, `id="error"`) || !strings.Contains(html, "Year must be an integer") {
		t.Errorf("expected error string in page:\n%s", html)
	}
	if strings.Contains(html, `id="predicted-value"`) {
		t.Error("no prediction expected")
	}
}

func TestPredictMissingFields(t *testing.T) {
	app := newTestApp(t)
	form := validForm()
	form.Del("Area")
	form.Del("avg_temp")

	_, html := postForm(t, app, form)
	if !strings.Contains(html, `id="error"`) {
		t.Fatalf("expected error block:\n%s", html)
	}
	if !strings.Contains(html, "Area") || !strings.Contains(html, "avg_temp") {
		t.Errorf("expected both missing fields to be named:\n%s", html)
	}
}

func TestPredictOutOfRange(t *testing.T) {
	app := newTestApp(t)
	form := validForm()
	form.Set("average_rain_fall_mm_per_year", "9000")

	_, html := postForm(t, app, form)
	if !strings.Contains(html, "rainfall must be between 0 and 5000 mm") {
		t.Errorf("expected range error:\n%s", html)
	}
}

func TestPredictRateLimited(t *testing.T) {
	limiter := store.NewMemoryLimiter(1, time.Minute)
	defer limiter.Stop()
	app := newTestApp(t, usecase.WithRateLimiter(limiter))

	if resp, _ := postForm(t, app, validForm()); resp.StatusCode != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", resp.StatusCode)
	}
	resp, html := postForm(t, app, validForm())
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
	if !strings.Contains(html, "rate limit exceeded") {
		t.Error("expected rate limit message")
	}
}

func TestPredictJSON(t *testing.T) {
	app := newTestApp(t)
	body := `{"year":2013,"average_rain_fall_mm_per_year":1485,"pesticides_tonnes":121,"avg_temp":16,"area":"Brazil","item":"Maize"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var p entity.Prediction
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if p.Value != 20000 || p.Source != entity.SourceModel {
		t.Errorf("unexpected prediction %+v", p)
	}
	if resp.Header.Get("X-Prediction-Source") != entity.SourceModel {
		t.Error("expected source header")
	}
}

func TestPredictJSONBadRequest(t *testing.T) {
	app := newTestApp(t)
	for _, body := range []string{`{invalid-json}`, `{"year":1800,"area":"India","item":"Maize"}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, resp.StatusCode)
		}
	}
}

func TestRecentWithoutHistory(t *testing.T) {
	app := newTestApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/predictions?limit=5", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(body)) != "[]" {
		t.Errorf("expected empty list, got %d %s", resp.StatusCode, body)
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}
