package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cropyield/internal/domain/entity"
	"cropyield/internal/domain/repository"
	"cropyield/internal/logging"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultSimilarLimit  = 3
	defaultAdviceTimeout = 10 * time.Second
	persistTimeout       = 5 * time.Second
)

type Orchestrator struct {
	estimator  repository.Estimator
	limiter    repository.RateLimiter
	history    repository.HistoryStore
	similarity repository.SimilarityStore
	advisor    repository.Advisor

	similarLimit  uint64
	adviceTimeout time.Duration
	now           func() time.Time

	pending sync.WaitGroup
}

type Option func(*Orchestrator)

func WithRateLimiter(l repository.RateLimiter) Option {
	return func(o *Orchestrator) { o.limiter = l }
}

func WithHistory(h repository.HistoryStore) Option {
	return func(o *Orchestrator) { o.history = h }
}

func WithSimilarity(s repository.SimilarityStore) Option {
	return func(o *Orchestrator) { o.similarity = s }
}

func WithAdvisor(a repository.Advisor, timeout time.Duration) Option {
	return func(o *Orchestrator) {
		o.advisor = a
		if timeout > 0 {
			o.adviceTimeout = timeout
		}
	}
}

func NewOrchestrator(est repository.Estimator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		estimator:     est,
		similarLimit:  defaultSimilarLimit,
		adviceTimeout: defaultAdviceTimeout,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (u *Orchestrator) Execute(ctx context.Context, clientID string, in entity.CropInput) (*entity.Prediction, error) {
	log := logging.GetLogger()

	// 1. Rate limit
	if u.limiter != nil {
		allowed, err := u.limiter.Allow(ctx, clientID)
		if err != nil {
			return nil, fmt.Errorf("rate limiter check failed: %w", err)
		}
		if !allowed {
			return nil, entity.ErrRateLimitExceeded
		}
	}

	// 2. Transform + predict
	est, err := u.estimator.Estimate(ctx, in)
	if err != nil {
		return nil, err
	}

	p := &entity.Prediction{
		ID:         uuid.NewString(),
		Input:      in,
		Value:      est.Value,
		Source:     est.Source,
		Assessment: Assess(in, est.Value),
		CreatedAt:  u.now().UTC(),
	}

	// 3. Nearest earlier predictions
	vector := toFloat32(est.Features)
	if u.similarity != nil && len(vector) > 0 {
		similar, err := u.similarity.Search(ctx, vector, u.similarLimit)
		if err != nil {
			log.WithError(err).Warn("[PREDICT] Similarity search failed")
		} else {
			p.Similar = similar
		}
	}

	// 4. Advice
	if u.advisor != nil {
		adviceCtx, cancel := context.WithTimeout(ctx, u.adviceTimeout)
		advice, err := u.advisor.Advise(adviceCtx, p)
		cancel()
		if err != nil {
			log.WithError(err).Warn("[PREDICT] Advisor failed")
		} else {
			p.Advice = advice
		}
	}

	// 5. Persist in the background
	if u.history != nil || (u.similarity != nil && len(vector) > 0) {
		saved := *p
		u.pending.Add(1)
		go func() {
			defer u.pending.Done()
			// The request context ends with the response.
			bgCtx, cancel := context.WithTimeout(context.Background(), persistTimeout)
			defer cancel()
			u.persist(bgCtx, &saved, vector)
		}()
	}

	log.WithFields(logrus.Fields{
		"id":     p.ID,
		"area":   in.Area,
		"item":   in.Item,
		"value":  p.Value,
		"source": p.Source,
	}).Info("[PREDICT] Prediction served")

	return p, nil
}

func (u *Orchestrator) persist(ctx context.Context, p *entity.Prediction, vector []float32) {
	log := logging.GetLogger().WithField("id", p.ID)
	if u.history != nil {
		if err := u.history.Save(ctx, p); err != nil {
			log.WithError(err).Error("[PREDICT] Failed to save history")
		}
	}
	if u.similarity != nil && len(vector) > 0 {
		if err := u.similarity.Save(ctx, p, vector); err != nil {
			log.WithError(err).Error("[PREDICT] Failed to save vector")
		}
	}
}

// Recent returns the latest stored predictions, newest first.
func (u *Orchestrator) Recent(ctx context.Context, limit int) ([]entity.Prediction, error) {
	if u.history == nil {
		return []entity.Prediction{}, nil
	}
	return u.history.Recent(ctx, limit)
}

// Drain blocks until background persistence has finished.
func (u *Orchestrator) Drain() {
	u.pending.Wait()
}

func toFloat32(v []float64) []float32 {
	if len(v) == 0 {
		return nil
	}
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
