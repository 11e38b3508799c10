package paymentRoutes

import (
	paymentController "academy/controllers/payment"
	validators "academy/validators/payment"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes sets up the payment processor callback route. The
// processor authenticates with its own signature, not a user JWT.
func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payments")

	paymentGroup.Post("/webhook", validators.Webhook(), paymentController.PaymentWebhook)
}
