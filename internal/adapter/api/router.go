package api

import (
	"os"

	"cropyield/internal/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func SetupRouter(app *fiber.App, handler *PredictionHandler) {
	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Output: logging.GetLogger().Writer(),
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"version": os.Getenv("APP_VERSION"),
			"env":     os.Getenv("ENV"),
		})
	})

	// HTML form
	app.Get("/", handler.Index)
	app.Post("/predict", handler.Predict)

	// API Versioning
	v1 := app.Group("/api/v1")
	v1.Post("/predict", handler.PredictJSON)
	v1.Get("/predictions", handler.Recent)
}
