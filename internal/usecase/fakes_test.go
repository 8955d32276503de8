package usecase

import (
	"context"
	"errors"
	"sync"

	"cropyield/internal/domain/entity"
)

type stubEstimator struct {
	est   *entity.Estimate
	err   error
	calls int
}

func (s *stubEstimator) Estimate(_ context.Context, _ entity.CropInput) (*entity.Estimate, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.est, nil
}

type stubLimiter struct {
	allowed bool
	err     error
}

func (s stubLimiter) Allow(_ context.Context, _ string) (bool, error) {
	return s.allowed, s.err
}

type memoryHistory struct {
	mu    sync.Mutex
	saved []entity.Prediction
}

func (m *memoryHistory) Save(_ context.Context, p *entity.Prediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, *p)
	return nil
}

func (m *memoryHistory) Recent(_ context.Context, limit int) ([]entity.Prediction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.saved) {
		limit = len(m.saved)
	}
	return append([]entity.Prediction(nil), m.saved[:limit]...), nil
}

type stubSimilarity struct {
	mu      sync.Mutex
	hits    []entity.SimilarPrediction
	err     error
	vectors [][]float32
}

func (s *stubSimilarity) Search(_ context.Context, _ []float32, _ uint64) ([]entity.SimilarPrediction, error) {
	return s.hits, s.err
}

func (s *stubSimilarity) Save(_ context.Context, _ *entity.Prediction, vector []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = append(s.vectors, vector)
	return nil
}

type stubAdvisor struct {
	advice string
	err    error
}

func (s stubAdvisor) Advise(_ context.Context, _ *entity.Prediction) (string, error) {
	return s.advice, s.err
}

var errBoom = errors.New("boom")
