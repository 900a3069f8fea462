package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lunaselene/solace/internal/services"
)

func (handler *Handler) GetStreak(c *fiber.Ctx) error {
	sess := currentSession(c)
	if sess.Guest {
		return c.JSON(fiber.Map{"streak": services.StreakState{}})
	}

	streak, err := handler.journal.StreakForUser(sess.UserID, time.Now())
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "could not load entries")
	}
	return c.JSON(fiber.Map{"streak": streak})
}
