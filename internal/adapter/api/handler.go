package api

import (
	"errors"

	"cropyield/internal/domain/entity"
	"cropyield/internal/logging"
	"cropyield/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

const defaultRecentLimit = 20

type PredictionHandler struct {
	orchestrator *usecase.Orchestrator
	catalog      entity.Catalog
}

func NewPredictionHandler(orch *usecase.Orchestrator, catalog entity.Catalog) *PredictionHandler {
	return &PredictionHandler{orchestrator: orch, catalog: catalog}
}

func (h *PredictionHandler) Index(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, page{Form: FormValues{}, Catalog: h.catalog})
}

// Predict handles the HTML form. Input and prediction errors are shown on the
// page itself.
func (h *PredictionHandler) Predict(c *fiber.Ctx) error {
	data := page{Form: readForm(c), Catalog: h.catalog}

	if err := validateForm(c); err != nil {
		data.Error = err.Error()
		return render(c, fiber.StatusOK, data)
	}
	in, err := parseForm(data.Form)
	if err != nil {
		data.Error = err.Error()
		return render(c, fiber.StatusOK, data)
	}

	p, err := h.orchestrator.Execute(c.UserContext(), c.IP(), in)
	if err != nil {
		data.Error = err.Error()
		if errors.Is(err, entity.ErrRateLimitExceeded) {
			return render(c, fiber.StatusTooManyRequests, data)
		}
		if !errors.Is(err, entity.ErrInvalidInput) {
			logging.GetLogger().WithError(err).Error("[API] Prediction failed")
		}
		return render(c, fiber.StatusOK, data)
	}

	data.Prediction = newPredictionView(p)
	return render(c, fiber.StatusOK, data)
}

func (h *PredictionHandler) PredictJSON(c *fiber.Ctx) error {
	var in entity.CropInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validateInput(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// The Delivery layer maps the business error to HTTP status codes
	p, err := h.orchestrator.Execute(c.UserContext(), c.IP(), in)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrRateLimitExceeded):
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, entity.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, entity.ErrModelUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		logging.GetLogger().WithError(err).Error("[API] Prediction failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": entity.ErrInternalServer.Error()})
	}

	c.Set("X-Prediction-Source", p.Source)
	return c.Status(fiber.StatusOK).JSON(p)
}

func (h *PredictionHandler) Recent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultRecentLimit)
	predictions, err := h.orchestrator.Recent(c.UserContext(), limit)
	if err != nil {
		logging.GetLogger().WithError(err).Error("[API] Listing predictions failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": entity.ErrInternalServer.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(predictions)
}
