package notificationController

import (
	"academy/database"
	"academy/middleware"
	"academy/services"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// GetNotifications lists the caller's notifications newest first, with the
// unread count always included.
func GetNotifications(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	unreadOnly := c.Query("unreadOnly") == "true"
	limit := c.QueryInt("limit", 50)

	svc := services.NewNotificationService(database.Database.Db)
	list, err := svc.List(userID, unreadOnly, limit)
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched successfully!", list)
}

// MarkNotificationRead serves PATCH /notifications with {notificationId}.
func MarkNotificationRead(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	notificationID := c.Locals("notificationID").(uint)

	svc := services.NewNotificationService(database.Database.Db)
	if err := svc.MarkRead(userID, notificationID); err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification marked as read!", nil)
}

// MarkAllNotificationsRead marks everything unread at call time.
func MarkAllNotificationsRead(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	svc := services.NewNotificationService(database.Database.Db)
	marked, err := svc.MarkAllRead(userID)
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "All notifications marked as read!", fiber.Map{
		"marked": marked,
	})
}

// CreateNotification is the admin/system fan-out endpoint.
func CreateNotification(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedNotification").(*struct {
		UserID         uint                   `json:"user_id" validate:"required"`
		Type           string                 `json:"type" validate:"required"`
		Title          string                 `json:"title" validate:"required"`
		Message        string                 `json:"message" validate:"required"`
		Priority       string                 `json:"priority"`
		ActionURL      string                 `json:"action_url"`
		Metadata       map[string]interface{} `json:"metadata"`
		IdempotencyKey string                 `json:"idempotency_key"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var metadata datatypes.JSON
	if reqData.Metadata != nil {
		raw, err := json.Marshal(reqData.Metadata)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid metadata!", nil)
		}
		metadata = datatypes.JSON(raw)
	}

	svc := services.NewNotificationService(database.Database.Db)
	id, err := svc.Create(reqData.UserID, reqData.Type, reqData.Title, reqData.Message, reqData.Priority,
		services.NotificationOptions{
			ActionURL:      reqData.ActionURL,
			Metadata:       metadata,
			IdempotencyKey: reqData.IdempotencyKey,
		})
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Notification created!", fiber.Map{
		"notification_id": id,
	})
}
