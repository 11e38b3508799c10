package notificationValidator

import (
	"academy/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// MarkRead validates the PATCH /notifications body
func MarkRead() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			NotificationID uint `json:"notificationId"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.NotificationID == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing notificationId!", nil)
		}

		c.Locals("notificationID", reqData.NotificationID)
		return c.Next()
	}
}

// CreateNotification validates the admin fan-out body
func CreateNotification() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID         uint                   `json:"user_id" validate:"required"`
			Type           string                 `json:"type" validate:"required"`
			Title          string                 `json:"title" validate:"required"`
			Message        string                 `json:"message" validate:"required"`
			Priority       string                 `json:"priority"`
			ActionURL      string                 `json:"action_url"`
			Metadata       map[string]interface{} `json:"metadata"`
			IdempotencyKey string                 `json:"idempotency_key"`
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

		c.Locals("validatedNotification", reqData)
		return c.Next()
	}
}
