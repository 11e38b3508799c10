package courseRoutes

import (
	controllers "academy/controllers/course"
	"academy/middleware"
	validators "academy/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Enrollment
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)

	// Entitlement check for one course
	courseGroup.Get("/:id/access", middleware.JWTMiddleware, validators.CourseID(), controllers.CheckCourseAccess)

	// Lesson completion
	courseGroup.Post("/:course_id/lesson/:lesson_id/complete", middleware.JWTMiddleware, validators.LessonParams(), controllers.CompleteLesson)

	// Progress tracking
	courseGroup.Get("/:course_id/progress", middleware.JWTMiddleware, validators.ProgressParams(), controllers.GetCourseProgress)

	// User-scoped enrollment and entitlement views
	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetEnrollments)
	userGroup.Get("/entitlements", middleware.JWTMiddleware, controllers.GetEntitlements)
	userGroup.Post("/enrollments/backfill", middleware.JWTMiddleware, controllers.BackfillEnrollments)
}
