package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lunaselene/solace/internal/models"
	"github.com/lunaselene/solace/internal/services"
)

func (handler *Handler) ListEntries(c *fiber.Ctx) error {
	sess := currentSession(c)
	if sess.Guest {
		return c.JSON(fiber.Map{"entries": []models.JournalEntry{}})
	}

	entries, err := handler.journal.Entries(sess.UserID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "could not load entries")
	}
	return c.JSON(fiber.Map{"entries": entries})
}

func (handler *Handler) TodaysEntry(c *fiber.Ctx) error {
	sess := currentSession(c)
	if sess.Guest {
		return c.JSON(fiber.Map{"entry": nil})
	}

	entry, found, err := handler.journal.TodaysEntry(sess.UserID, time.Now())
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "could not load entries")
	}
	if !found {
		return c.JSON(fiber.Map{"entry": nil})
	}
	return c.JSON(fiber.Map{"entry": entry})
}

// CreateEntry saves today's entry. A second attempt on the same local day is
// answered with the existing entry and created=false, which the client
// renders as "already logged today" rather than an error.
func (handler *Handler) CreateEntry(c *fiber.Ctx) error {
	sess := currentSession(c)
	if sess.Guest {
		return c.JSON(fiber.Map{"ok": true, "guest": true, "created": false})
	}

	input := entryInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	entry, created, err := handler.journal.CreateEntry(c.UserContext(), sess.UserID, services.EntryInput{
		Emotion:   input.Emotion,
		FeelScore: input.FeelScore,
		Theme:     input.Theme,
		Text:      input.Text,
		Gratitude: input.Gratitude,
	}, time.Now())
	switch {
	case errors.Is(err, services.ErrInvalidFeelScore):
		return apiError(c, fiber.StatusBadRequest, "feel score must be between 1 and 99")
	case err != nil:
		return apiError(c, fiber.StatusInternalServerError, "could not save entry")
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"entry": entry, "created": created})
}

func (handler *Handler) UpdateEntry(c *fiber.Ctx) error {
	sess := currentSession(c)
	if sess.Guest {
		return c.JSON(fiber.Map{"ok": true, "guest": true})
	}

	input := entryPatchInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	entry, err := handler.journal.UpdateEntry(c.UserContext(), sess.UserID, c.Params("id"), services.EntryPatch{
		Emotion:   input.Emotion,
		FeelScore: input.FeelScore,
		Theme:     input.Theme,
		Text:      input.Text,
		Gratitude: input.Gratitude,
	})
	switch {
	case errors.Is(err, services.ErrEntryNotFound):
		return apiError(c, fiber.StatusNotFound, "entry not found")
	case errors.Is(err, services.ErrInvalidFeelScore):
		return apiError(c, fiber.StatusBadRequest, "feel score must be between 1 and 99")
	case err != nil:
		return apiError(c, fiber.StatusInternalServerError, "could not save entry")
	}
	return c.JSON(fiber.Map{"entry": entry})
}

func (handler *Handler) DeleteAllData(c *fiber.Ctx) error {
	sess := currentSession(c)
	if sess.Guest {
		return c.JSON(fiber.Map{"ok": true, "guest": true})
	}

	if err := handler.journal.DeleteAll(sess.UserID); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "could not clear data")
	}
	return c.JSON(fiber.Map{"ok": true})
}
