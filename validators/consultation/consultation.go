package consultationValidator

import (
	"academy/middleware"
	"academy/models"
	"academy/services"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// Schedule validates the POST /consultations body
func Schedule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID        uint                        `json:"course_id" validate:"required"`
			InstructorName  string                      `json:"instructor_name"`
			ScheduledAt     time.Time                   `json:"scheduled_at" validate:"required"`
			DurationMinutes int                         `json:"duration_minutes"`
			MeetingLink     string                      `json:"meeting_link"`
			PrepTasks       []services.PrepTaskTemplate `json:"prep_tasks"`
			IdempotencyKey  string                      `json:"idempotency_key"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[fieldErr.Field()] = "Field is " + fieldErr.Tag() + "!"
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		if reqData.ScheduledAt.Before(time.Now()) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Consultation must be scheduled in the future!", nil)
		}

		c.Locals("validatedConsultation", &services.ScheduleRequest{
			CourseID:        reqData.CourseID,
			InstructorName:  reqData.InstructorName,
			ScheduledAt:     reqData.ScheduledAt,
			DurationMinutes: reqData.DurationMinutes,
			MeetingLink:     reqData.MeetingLink,
			Template:        reqData.PrepTasks,
			IdempotencyKey:  reqData.IdempotencyKey,
		})
		return c.Next()
	}
}

// CompleteTask validates PATCH /consultations/:id/tasks/:taskId. The body
// must carry a boolean `completed`; tasks never move back, so only true is
// accepted.
func CompleteTask() fiber.Handler {
	return func(c *fiber.Ctx) error {
		consultationID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || consultationID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Consultation ID!", nil)
		}

		taskID := strings.TrimSpace(c.Params("taskId"))
		if taskID == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Task ID is required!", nil)
		}

		reqData := new(struct {
			Completed *bool `json:"completed"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if reqData.Completed == nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Field completed must be a boolean!", nil)
		}
		if !*reqData.Completed {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Tasks cannot be un-completed!", nil)
		}

		c.Locals("consultationID", uint(consultationID))
		c.Locals("taskID", taskID)
		return c.Next()
	}
}

// Transition validates PATCH /consultations/:id/status
func Transition() fiber.Handler {
	return func(c *fiber.Ctx) error {
		consultationID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || consultationID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Consultation ID!", nil)
		}

		reqData := new(struct {
			Status string `json:"status"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if !models.TerminalConsultationStatus(reqData.Status) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
				"Status must be one of: completed, cancelled, no_show!", nil)
		}

		c.Locals("consultationID", uint(consultationID))
		c.Locals("newStatus", reqData.Status)
		return c.Next()
	}
}
