package userRoutes

import (
	userController "academy/controllers/user"
	"academy/middleware"
	validators "academy/validators/user"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up the user dashboard routes
func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/users")

	userGroup.Get("/:id/progress", middleware.JWTMiddleware, validators.TargetUser(), userController.GetOverallProgress)
}
