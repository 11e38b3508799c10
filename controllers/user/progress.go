package userController

import (
	"academy/database"
	"academy/middleware"
	"academy/services"

	"github.com/gofiber/fiber/v2"
)

// GetOverallProgress serves GET /users/:id/progress. Users can read their own
// progress; ADMIN can read anyone's. Only enrollments appear: entitlement
// without an enrollment record is access, not tracked progress.
func GetOverallProgress(c *fiber.Ctx) error {
	callerID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetID := uint(c.Locals("targetUserID").(int))

	role, _ := c.Locals("role").(string)
	if targetID != callerID && role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You may only view your own progress!", nil)
	}

	aggregator := services.NewProgressAggregator(database.Database.Db)
	overall, err := aggregator.GetOverallProgress(targetID)
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", overall)
}
