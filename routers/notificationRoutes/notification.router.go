package notificationRoutes

import (
	notificationController "academy/controllers/notification"
	"academy/middleware"
	validators "academy/validators/notification"

	"github.com/gofiber/fiber/v2"
)

// SetupNotificationRoutes sets up the notification routes
func SetupNotificationRoutes(app *fiber.App) {
	notificationGroup := app.Group("/notifications")

	notificationGroup.Get("/", middleware.JWTMiddleware, notificationController.GetNotifications)
	notificationGroup.Patch("/", middleware.JWTMiddleware, validators.MarkRead(), notificationController.MarkNotificationRead)
	notificationGroup.Post("/read-all", middleware.JWTMiddleware, notificationController.MarkAllNotificationsRead)

	// System/admin fan-out
	notificationGroup.Post("/", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), validators.CreateNotification(), notificationController.CreateNotification)
}
