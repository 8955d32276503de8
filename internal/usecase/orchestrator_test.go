package usecase

import (
	"context"
	"errors"
	"testing"

	"cropyield/internal/domain/entity"
)

var wheat = entity.CropInput{
	Year:            2013,
	AverageRainfall: 800,
	Pesticides:      20,
	AvgTemp:         20,
	Area:            "France",
	Item:            "Wheat",
}

func TestExecuteReturnsRawRegressorValue(t *testing.T) {
	est := &stubEstimator{est: &entity.Estimate{Value: 36613.4567, Source: entity.SourceModel}}
	orch := NewOrchestrator(est)

	p, err := orch.Execute(context.Background(), "10.0.0.1", wheat)
	if err != nil {
		t.Fatal(err)
	}
	if p.Value != 36613.4567 {
		t.Errorf("expected the unrounded 36613.4567, got %v", p.Value)
	}
	if p.ID == "" || p.CreatedAt.IsZero() {
		t.Errorf("expected id and timestamp, got %+v", p)
	}
	if p.Assessment.Category != "Good" {
		t.Errorf("expected Good, got %q", p.Assessment.Category)
	}
}

func TestExecuteRateLimited(t *testing.T) {
	est := &stubEstimator{est: &entity.Estimate{Value: 1}}
	orch := NewOrchestrator(est, WithRateLimiter(stubLimiter{allowed: false}))

	_, err := orch.Execute(context.Background(), "10.0.0.1", wheat)
	if !errors.Is(err, entity.ErrRateLimitExceeded) {
		t.Fatalf("expected ErrRateLimitExceeded, got %v", err)
	}
	if est.calls != 0 {
		t.Error("estimator should not run when rate limited")
	}
}

func TestExecuteLimiterError(t *testing.T) {
	est := &stubEstimator{est: &entity.Estimate{Value: 1}}
	orch := NewOrchestrator(est, WithRateLimiter(stubLimiter{err: errBoom}))

	if _, err := orch.Execute(context.Background(), "c", wheat); !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped limiter error, got %v", err)
	}
}

func TestExecutePropagatesEstimatorError(t *testing.T) {
	orch := NewOrchestrator(&stubEstimator{err: entity.ErrInvalidInput})
	if _, err := orch.Execute(context.Background(), "c", wheat); !errors.Is(err, entity.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestExecuteEnrichesAndPersists(t *testing.T) {
	est := &stubEstimator{est: &entity.Estimate{Value: 50000, Features: []float64{0.5, 1}, Source: entity.SourceModel}}
	history := &memoryHistory{}
	sim := &stubSimilarity{hits: []entity.SimilarPrediction{{Value: 48000, Score: 0.2}}}
	orch := NewOrchestrator(est,
		WithHistory(history),
		WithSimilarity(sim),
		WithAdvisor(stubAdvisor{advice: "Plant early."}, 0),
	)

	p, err := orch.Execute(context.Background(), "c", wheat)
	if err != nil {
		t.Fatal(err)
	}
	orch.Drain()

	if p.Advice != "Plant early." {
		t.Errorf("expected advice, got %q", p.Advice)
	}
	if len(p.Similar) != 1 || p.Similar[0].Value != 48000 {
		t.Errorf("expected similar hit, got %+v", p.Similar)
	}

	recent, err := orch.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].ID != p.ID {
		t.Errorf("expected saved prediction, got %+v", recent)
	}
	if len(sim.vectors) != 1 || sim.vectors[0][1] != 1 {
		t.Errorf("expected saved vector, got %+v", sim.vectors)
	}
}

func TestExecuteIgnoresEnrichmentFailures(t *testing.T) {
	est := &stubEstimator{est: &entity.Estimate{Value: 50000, Features: []float64{1}}}
	orch := NewOrchestrator(est,
		WithSimilarity(&stubSimilarity{err: errBoom}),
		WithAdvisor(stubAdvisor{err: errBoom}, 0),
	)

	p, err := orch.Execute(context.Background(), "c", wheat)
	orch.Drain()
	if err != nil {
		t.Fatalf("enrichment failures must not fail the prediction: %v", err)
	}
	if p.Advice != "" || p.Similar != nil {
		t.Errorf("expected no enrichment, got %+v", p)
	}
}

func TestRecentWithoutHistory(t *testing.T) {
	orch := NewOrchestrator(&stubEstimator{})
	recent, err := orch.Recent(context.Background(), 5)
	if err != nil || len(recent) != 0 {
		t.Fatalf("expected empty history, got %v %v", recent, err)
	}
}
