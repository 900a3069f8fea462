package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/lunaselene/solace/internal/services"
)

// GenerateEntryAnalysis asks the coach model to reflect on one entry. The
// entry is already persisted; a completion failure leaves it untouched and
// reports an analysis_failed state the client can retry from.
func (handler *Handler) GenerateEntryAnalysis(c *fiber.Ctx) error {
	sess := currentSession(c)
	if sess.Guest {
		return c.JSON(fiber.Map{"ok": true, "guest": true})
	}
	if handler.analysis == nil {
		return apiError(c, fiber.StatusServiceUnavailable, "analysis is not configured")
	}

	entry, err := handler.analysis.GenerateEntryAnalysis(c.UserContext(), sess.UserID, c.Params("id"))
	switch {
	case errors.Is(err, services.ErrEntryNotFound):
		return apiError(c, fiber.StatusNotFound, "entry not found")
	case errors.Is(err, services.ErrAnalysisFailed):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"entry":           entry,
			"analysis_failed": true,
		})
	case err != nil:
		return apiError(c, fiber.StatusInternalServerError, "could not save entry")
	}
	return c.JSON(fiber.Map{"entry": entry})
}
