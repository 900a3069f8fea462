package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lunaselene/solace/internal/models"
	"github.com/lunaselene/solace/internal/services"
)

func (handler *Handler) ListWeeklyAnalyses(c *fiber.Ctx) error {
	sess := currentSession(c)
	if sess.Guest {
		return c.JSON(fiber.Map{"weekly_analyses": []models.WeeklyAnalysis{}})
	}

	analyses, err := handler.weekly.WeeklyAnalyses(sess.UserID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "could not load weekly analyses")
	}

	availability, err := handler.weekly.Availability(c.UserContext(), sess.UserID, time.Now())
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "could not load weekly analyses")
	}

	return c.JSON(fiber.Map{
		"weekly_analyses": analyses,
		"availability":    availability,
	})
}

// GenerateWeeklyAnalysis runs the weekly reflection. The seven-day cooldown
// is an informational state ("available again in N days"), not an error.
func (handler *Handler) GenerateWeeklyAnalysis(c *fiber.Ctx) error {
	sess := currentSession(c)
	if sess.Guest {
		return c.JSON(fiber.Map{"ok": true, "guest": true})
	}
	analysis, availability, err := handler.weekly.Generate(c.UserContext(), sess.UserID, time.Now())
	switch {
	case errors.Is(err, services.ErrCompleterMissing):
		return apiError(c, fiber.StatusServiceUnavailable, "analysis is not configured")
	case errors.Is(err, services.ErrWeeklyNotAvailable):
		return c.JSON(fiber.Map{"availability": availability})
	case errors.Is(err, services.ErrWeeklyNoEntries):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "no entries in the last week",
		})
	case errors.Is(err, services.ErrWeeklyLLMFailed):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"analysis_failed": true})
	case err != nil:
		return apiError(c, fiber.StatusInternalServerError, "could not save weekly analysis")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"weekly_analysis": analysis,
		"availability":    availability,
	})
}
