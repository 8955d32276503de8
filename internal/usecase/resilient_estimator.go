package usecase

import (
	"context"
	"errors"
	"fmt"

	"cropyield/internal/domain/entity"
	"cropyield/internal/domain/repository"
	"cropyield/internal/logging"
)

// ResilientEstimator serves estimates from the fitted pipeline and, when
// configured, falls back to a secondary estimator on failure.
type ResilientEstimator struct {
	primary  repository.Estimator
	fallback repository.Estimator
}

// NewResilientEstimator accepts a nil primary (artifacts failed to load) or a
// nil fallback (no fallback configured), but not both.
func NewResilientEstimator(primary, fallback repository.Estimator) *ResilientEstimator {
	return &ResilientEstimator{primary: primary, fallback: fallback}
}

func (r *ResilientEstimator) Estimate(ctx context.Context, in entity.CropInput) (*entity.Estimate, error) {
	log := logging.GetLogger()

	if r.primary != nil {
		est, err := r.primary.Estimate(ctx, in)
		if err == nil {
			return est, nil
		}
		if !r.isRecoverable(err) {
			return nil, err
		}
		log.WithError(err).Warn("[RELIABILITY] Primary estimator failed")
	}

	if r.fallback == nil {
		return nil, entity.ErrModelUnavailable
	}

	est, err := r.fallback.Estimate(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("fallback estimator failed: %w", err)
	}
	log.WithField("source", est.Source).Debug("[RELIABILITY] Served estimate from fallback")
	return est, nil
}

// Bad input fails the same way on every estimator, so it is not retried.
func (r *ResilientEstimator) isRecoverable(err error) bool {
	return !errors.Is(err, entity.ErrInvalidInput) && !errors.Is(err, context.Canceled)
}
