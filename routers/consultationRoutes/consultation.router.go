package consultationRoutes

import (
	consultationController "academy/controllers/consultation"
	"academy/middleware"
	validators "academy/validators/consultation"

	"github.com/gofiber/fiber/v2"
)

// SetupConsultationRoutes sets up the consultation routes
func SetupConsultationRoutes(app *fiber.App) {
	consultationGroup := app.Group("/consultations")

	consultationGroup.Post("/", middleware.JWTMiddleware, validators.Schedule(), consultationController.ScheduleConsultation)
	consultationGroup.Get("/", middleware.JWTMiddleware, consultationController.GetConsultations)
	consultationGroup.Patch("/:id/tasks/:taskId", middleware.JWTMiddleware, validators.CompleteTask(), consultationController.CompleteTask)
	consultationGroup.Patch("/:id/status", middleware.JWTMiddleware, validators.Transition(), consultationController.TransitionStatus)
}
