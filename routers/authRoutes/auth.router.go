package authRoutes

import (
	authController "academy/controllers/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up the authentication routes
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authController.Signup)
	authGroup.Post("/login", authController.Login)
}
