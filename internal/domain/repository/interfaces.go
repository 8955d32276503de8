package repository

import (
	"context"
	"cropyield/internal/domain/entity"
)

type Estimator interface {
	Estimate(ctx context.Context, in entity.CropInput) (*entity.Estimate, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, clientID string) (bool, error)
}

type SimilarityStore interface {
	Search(ctx context.Context, vector []float32, limit uint64) ([]entity.SimilarPrediction, error)
	Save(ctx context.Context, p *entity.Prediction, vector []float32) error
}

type HistoryStore interface {
	Save(ctx context.Context, p *entity.Prediction) error
	Recent(ctx context.Context, limit int) ([]entity.Prediction, error)
}

type Advisor interface {
	Advise(ctx context.Context, p *entity.Prediction) (string, error)
}
