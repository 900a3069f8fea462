package api

import "github.com/gofiber/fiber/v2"

const contextSessionKey = "session"

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func currentSession(c *fiber.Ctx) session {
	if value, ok := c.Locals(contextSessionKey).(session); ok {
		return value
	}
	return session{}
}
