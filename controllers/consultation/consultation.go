package consultationController

import (
	"academy/database"
	"academy/middleware"
	"academy/models"
	"academy/services"

	"github.com/gofiber/fiber/v2"
)

// ScheduleConsultation books a consultation and instantiates its prep
// checklist from the supplied template.
func ScheduleConsultation(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedConsultation").(*services.ScheduleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	reqData.UserID = userID

	notifier := services.NewNotificationService(database.Database.Db)
	svc := services.NewConsultationService(database.Database.Db, notifier)

	consultation, err := svc.Schedule(*reqData)
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Consultation scheduled!", consultation)
}

// GetConsultations lists the caller's consultations, soonest first.
func GetConsultations(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var consultations []models.Consultation
	if err := database.Database.Db.Where("user_id = ?", userID).
		Order("scheduled_at asc").Find(&consultations).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch consultations!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Consultations fetched successfully!", fiber.Map{
		"consultations": consultations,
		"total":         len(consultations),
	})
}

// CompleteTask serves PATCH /consultations/:id/tasks/:taskId.
func CompleteTask(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	consultationID := c.Locals("consultationID").(uint)
	taskID := c.Locals("taskID").(string)

	notifier := services.NewNotificationService(database.Database.Db)
	svc := services.NewConsultationService(database.Database.Db, notifier)

	consultation, err := svc.CompleteTask(userID, consultationID, taskID)
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Task marked as completed!", consultation)
}

// TransitionStatus serves PATCH /consultations/:id/status.
func TransitionStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	consultationID := c.Locals("consultationID").(uint)
	newStatus := c.Locals("newStatus").(string)

	notifier := services.NewNotificationService(database.Database.Db)
	svc := services.NewConsultationService(database.Database.Db, notifier)

	consultation, err := svc.TransitionStatus(userID, consultationID, newStatus)
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Consultation status updated!", consultation)
}
