package store

import (
	"context"
	"fmt"
	"time"

	"cropyield/internal/domain/entity"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const maxRecent = 100

type PredictionRecord struct {
	ID              string `gorm:"primaryKey;size:36"`
	Year            int
	AverageRainfall float64
	Pesticides      float64
	AvgTemp         float64
	Area            string `gorm:"size:128;index"`
	Item            string `gorm:"size:128;index"`
	Value           float64
	Source          string `gorm:"size:16"`
	Category        string `gorm:"size:16"`
	Confidence      int
	CreatedAt       time.Time `gorm:"index"`
}

// OpenDatabase connects to PostgreSQL when postgres is set, SQLite otherwise.
func OpenDatabase(dsn string, postgresDSN bool) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	var dialector gorm.Dialector
	if postgresDSN {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}
	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return db, nil
}

type HistoryStore struct {
	db *gorm.DB
}

func NewHistoryStore(db *gorm.DB) (*HistoryStore, error) {
	if err := db.AutoMigrate(&PredictionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history: %w", err)
	}
	return &HistoryStore{db: db}, nil
}

func (s *HistoryStore) Save(ctx context.Context, p *entity.Prediction) error {
	rec := PredictionRecord{
		ID:              p.ID,
		Year:            p.Input.Year,
		AverageRainfall: p.Input.AverageRainfall,
		Pesticides:      p.Input.Pesticides,
		AvgTemp:         p.Input.AvgTemp,
		Area:            p.Input.Area,
		Item:            p.Input.Item,
		Value:           p.Value,
		Source:          p.Source,
		Category:        p.Assessment.Category,
		Confidence:      p.Assessment.Confidence,
		CreatedAt:       p.CreatedAt,
	}
	return s.db.WithContext(ctx).Create(&rec).Error
}

func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]entity.Prediction, error) {
	if limit <= 0 || limit > maxRecent {
		limit = maxRecent
	}
	var records []PredictionRecord
	err := s.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	out := make([]entity.Prediction, 0, len(records))
	for _, r := range records {
		out = append(out, entity.Prediction{
			ID: r.ID,
			Input: entity.CropInput{
				Year:            r.Year,
				AverageRainfall: r.AverageRainfall,
				Pesticides:      r.Pesticides,
				AvgTemp:         r.AvgTemp,
				Area:            r.Area,
				Item:            r.Item,
			},
			Value:  r.Value,
			Source: r.Source,
			Assessment: entity.Assessment{
				Category:   r.Category,
				Confidence: r.Confidence,
			},
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}
