package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cropyield/internal/adapter/api"
	"cropyield/internal/adapter/client"
	"cropyield/internal/adapter/pipeline"
	"cropyield/internal/adapter/store"
	"cropyield/internal/config"
	"cropyield/internal/domain/repository"
	"cropyield/internal/logging"
	"cropyield/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logging.GetLogger().Fatalf("failed to load config: %v", err)
	}
	logging.InitLogger(cfg.Level())
	log := logging.GetLogger()
	ctx := context.Background()

	// Artifacts are loaded once and shared read-only by every request.
	var primary repository.Estimator
	var catalog = pipeline.NewHeuristic().Catalog()
	model, err := pipeline.Load(cfg.PreprocessorPath, cfg.ModelPath)
	switch {
	case err == nil:
		primary = model
		catalog = model.Catalog()
		log.WithFields(logrus.Fields{
			"features": model.Width(),
			"depth":    model.Depth(),
		}).Info("Loaded prediction pipeline")
	case cfg.AllowHeuristic:
		log.WithError(err).Warn("Model artifacts unavailable, serving heuristic estimates")
	default:
		log.Fatalf("failed to load model artifacts: %v", err)
	}

	var fallback repository.Estimator
	if cfg.AllowHeuristic {
		fallback = pipeline.NewHeuristic()
	}
	estimator := usecase.NewResilientEstimator(primary, fallback)

	var opts []usecase.Option

	// Rate limiting: Redis when configured, otherwise per process
	if cfg.RateLimit > 0 {
		if cfg.RedisAddr != "" {
			rdb := redis.NewClient(&redis.Options{
				Addr: cfg.RedisAddr,
			})
			defer rdb.Close()
			opts = append(opts, usecase.WithRateLimiter(store.NewRedisLimiter(rdb, cfg.RateLimit, time.Minute)))
		} else {
			limiter := store.NewMemoryLimiter(cfg.RateLimit, time.Minute)
			defer limiter.Stop()
			opts = append(opts, usecase.WithRateLimiter(limiter))
		}
	}

	if cfg.DatabaseDSN != "" {
		db, err := store.OpenDatabase(cfg.DatabaseDSN, cfg.IsPostgres())
		if err != nil {
			log.Fatalf("failed to open history database: %v", err)
		}
		history, err := store.NewHistoryStore(db)
		if err != nil {
			log.Fatalf("failed to init history: %v", err)
		}
		opts = append(opts, usecase.WithHistory(history))
	}

	// Qdrant for similar-prediction lookup; vectors only exist with a model
	if cfg.QdrantHost != "" && model != nil {
		qClient, err := qdrant.NewClient(&qdrant.Config{
			Host: cfg.QdrantHost,
			Port: cfg.QdrantPort,
		})
		if err != nil {
			log.Fatalf("failed to connect to qdrant: %v", err)
		}
		defer qClient.Close()

		vectorStore := store.NewQdrantStore(qClient, cfg.QdrantCollection)
		if err := vectorStore.InitCollection(ctx, uint64(model.Width())); err != nil {
			log.Fatalf("failed to init qdrant collection: %v", err)
		}
		opts = append(opts, usecase.WithSimilarity(vectorStore))
	}

	if cfg.GoogleCloudProject != "" {
		advisor, err := client.NewGeminiAdvisor(ctx, cfg.GoogleCloudProject, cfg.GoogleCloudLocation, cfg.AdvisorModel)
		if err != nil {
			log.Fatalf("failed to init genai client: %v", err)
		}
		opts = append(opts, usecase.WithAdvisor(advisor, 0))
	}

	orchestrator := usecase.NewOrchestrator(estimator, opts...)

	app := fiber.New(fiber.Config{
		AppName:      "Crop Yield Predictor",
		Views:        api.NewViews(),
		Immutable:    true,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	})
	api.SetupRouter(app, api.NewPredictionHandler(orchestrator, catalog))

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Crop Yield Predictor running on port %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Errorf("Error starting server: %v", err)
		return
	case <-quit:
		log.Info("Shutting down server...")
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorf("Error during server shutdown: %v", err)
	}
	orchestrator.Drain()

	log.Info("Server exited")
}
