package userValidator

import (
	"academy/middleware"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// TargetUser validates the :id route parameter of /users/:id/progress
func TargetUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || userID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
		}

		c.Locals("targetUserID", userID)
		return c.Next()
	}
}
