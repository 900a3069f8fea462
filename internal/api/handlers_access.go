package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// GetAccess re-evaluates the trial/entitlement gate. The client calls this
// on every foreground and after purchase attempts; the gate is stateless so
// arbitrary re-evaluation is safe.
func (handler *Handler) GetAccess(c *fiber.Ctx) error {
	sess := currentSession(c)

	access, err := handler.trialGate.Evaluate(c.UserContext(), sess.UserID, handler.deviceID, time.Now())
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "could not evaluate access")
	}
	return c.JSON(fiber.Map{"access": access})
}

// Purchase forwards a store receipt to the billing provider and then
// re-evaluates the gate so the response reflects the new entitlement.
func (handler *Handler) Purchase(c *fiber.Ctx) error {
	sess := currentSession(c)
	if sess.Guest {
		return apiError(c, fiber.StatusForbidden, "sign in to subscribe")
	}

	input := purchaseInput{}
	if err := c.BodyParser(&input); err != nil || input.PlanID == "" {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	result := handler.billing.SubmitReceipt(c.UserContext(), sess.UserID, input.PlanID, input.Receipt)

	access, err := handler.trialGate.Evaluate(c.UserContext(), sess.UserID, handler.deviceID, time.Now())
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "could not evaluate access")
	}
	return c.JSON(fiber.Map{"purchase": result, "access": access})
}
