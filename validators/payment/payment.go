package paymentValidator

import (
	"academy/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// Webhook validates the processor callback body
func Webhook() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			TransactionID string  `json:"transaction_id" validate:"required"`
			UserID        uint    `json:"user_id" validate:"required"`
			CourseID      *uint   `json:"course_id"`
			Status        string  `json:"status" validate:"required,oneof=pending completed failed refunded"`
			Amount        float64 `json:"amount"`
			Currency      string  `json:"currency"`
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

		c.Locals("validatedPaymentEvent", reqData)
		return c.Next()
	}
}
