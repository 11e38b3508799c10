package controllers

import (
	"academy/database"
	"academy/middleware"
	"academy/models"
	courseModels "academy/models/course"
	"academy/services"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// CompleteLesson records a lesson completion and refreshes the enrollment
// counters. Completing the same lesson twice is a safe no-op.
func CompleteLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	aggregator := services.NewProgressAggregator(database.Database.Db)
	progress, justCompleted, err := aggregator.RecordLessonCompletion(userID, uint(courseID), uint(lessonID))
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	if justCompleted {
		var course courseModels.Course
		title := "your course"
		if err := database.Database.Db.Where("id = ?", courseID).First(&course).Error; err == nil {
			title = course.Title
		}
		notifier := services.NewNotificationService(database.Database.Db)
		notifier.Create(userID, models.NotificationAchievement,
			"Course completed!",
			"Congratulations, you finished "+title+".",
			models.PriorityHigh,
			services.NotificationOptions{
				IdempotencyKey: fmt.Sprintf("course-completed-%d-%d", userID, courseID),
			})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as completed!", progress)
}

// GetCourseProgress returns the caller's progress in one course.
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	aggregator := services.NewProgressAggregator(database.Database.Db)
	progress, err := aggregator.GetCourseProgress(userID, uint(courseID))
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", progress)
}
