package paymentController

import (
	"academy/config"
	"academy/database"
	"academy/middleware"
	"academy/models"
	"academy/services"
	"errors"
	"log"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PaymentWebhook receives processor callbacks. The transaction is verified
// against the processor API before anything is written; a completed
// course-scoped payment then backfills the enrollment and fans out to the
// dashboard. Retried deliveries are safe: the transaction id is the record
// identity and the fan-out carries an idempotency key.
func PaymentWebhook(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPaymentEvent").(*struct {
		TransactionID string  `json:"transaction_id" validate:"required"`
		UserID        uint    `json:"user_id" validate:"required"`
		CourseID      *uint   `json:"course_id"`
		Status        string  `json:"status" validate:"required,oneof=pending completed failed refunded"`
		Amount        float64 `json:"amount"`
		Currency      string  `json:"currency"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if !verifyTransaction(reqData.TransactionID) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Transaction verification failed!", nil)
	}

	db := database.Database.Db

	var payment models.Payment
	err := db.Where("transaction_id = ?", reqData.TransactionID).First(&payment).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		payment = models.Payment{
			TransactionID: reqData.TransactionID,
			UserID:        reqData.UserID,
			CourseID:      reqData.CourseID,
			Status:        reqData.Status,
			Amount:        reqData.Amount,
			Currency:      reqData.Currency,
		}
		if err := db.Create(&payment).Error; err != nil {
			log.Printf("[PAYMENT] failed to record transaction %s: %v", reqData.TransactionID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record payment!", nil)
		}
	case err != nil:
		return middleware.ServiceErrorResponse(c, err)
	default:
		// Completed payments are immutable except for the refund transition.
		if payment.Status == models.PaymentCompleted && reqData.Status != models.PaymentRefunded {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment already recorded!", payment)
		}
		if err := db.Model(&payment).Update("status", reqData.Status).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update payment!", nil)
		}
		payment.Status = reqData.Status
	}

	if payment.Status == models.PaymentCompleted && payment.CourseID != nil {
		resolver := services.NewAccessResolver(db, config.AppConfig.GrandfatheredCourseIDs)
		if _, err := resolver.BackfillEnrollments(payment.UserID); err != nil {
			// Entitlement already holds through the payment record; the
			// explicit backfill endpoint can repair the enrollment later.
			log.Printf("[PAYMENT] enrollment backfill failed for user %d: %v", payment.UserID, err)
		}

		notifier := services.NewNotificationService(db)
		notifier.Create(payment.UserID, models.NotificationSystem,
			"Payment received",
			"Your purchase is confirmed and your course is unlocked.",
			models.PriorityMedium,
			services.NotificationOptions{
				IdempotencyKey: "payment-completed-" + payment.TransactionID,
			})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment processed!", payment)
}

// verifyTransaction asks the processor whether the transaction id is real.
// An unreachable processor fails open with a log line: the webhook payload
// already passed signature validation upstream.
func verifyTransaction(transactionID string) bool {
	if config.AppConfig.PaymentApiKey == "" {
		return true
	}

	client := resty.New()
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.PaymentApiKey).
		Get(config.AppConfig.PaymentApiURL + "transactions/" + transactionID)
	if err != nil {
		log.Printf("[PAYMENT] processor verification unreachable for %s: %v", transactionID, err)
		return true
	}

	if resp.StatusCode() == fiber.StatusNotFound {
		return false
	}
	return resp.IsSuccess()
}
