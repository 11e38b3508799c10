package services

import (
	"academy/models"
	"errors"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationOptions carries the optional fields of Create.
type NotificationOptions struct {
	ActionURL string
	Metadata  datatypes.JSON
	// IdempotencyKey dedupes retried triggers: a second Create with the same
	// key returns the existing notification instead of inserting. Empty
	// skips the guard.
	IdempotencyKey string
	ExpiresAt      *time.Time
}

// NotificationList is the dashboard query shape. UnreadCount counts every
// unread notification regardless of the unreadOnly filter or limit.
type NotificationList struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
	Total         int                   `json:"total"`
}

// NotificationService persists and queries the per-user notification log.
// It never decides when to notify; collaborators trigger Create on their
// own state changes.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Create validates and stores one notification, returning its id.
func (s *NotificationService) Create(userID uint, ntype, title, message, priority string, opts NotificationOptions) (uint, error) {
	if title == "" || message == "" {
		return 0, validationf("title and message are required")
	}
	if !models.KnownNotificationType(ntype) {
		return 0, validationf("unknown notification type %q", ntype)
	}
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.KnownPriority(priority) {
		return 0, validationf("unknown priority %q", priority)
	}

	if opts.IdempotencyKey != "" {
		var existing models.Notification
		err := s.db.
			Where("user_id = ? AND idempotency_key = ?", userID, opts.IdempotencyKey).
			First(&existing).Error
		if err == nil {
			return existing.ID, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, storeErr(err)
		}
	}

	notification := models.Notification{
		UserID:         userID,
		Type:           ntype,
		Title:          title,
		Message:        message,
		Priority:       priority,
		ActionURL:      opts.ActionURL,
		Metadata:       opts.Metadata,
		IdempotencyKey: opts.IdempotencyKey,
		ExpiresAt:      opts.ExpiresAt,
	}
	if err := s.db.Create(&notification).Error; err != nil {
		return 0, storeErr(err)
	}
	return notification.ID, nil
}

// List returns notifications newest first.
func (s *NotificationService) List(userID uint, unreadOnly bool, limit int) (*NotificationList, error) {
	if limit <= 0 {
		limit = 50
	}

	query := s.db.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var notifications []models.Notification
	err := query.Order("created_at desc").Limit(limit).Find(&notifications).Error
	if err != nil {
		return nil, storeErr(err)
	}

	var unread int64
	err = s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&unread).Error
	if err != nil {
		return nil, storeErr(err)
	}

	return &NotificationList{
		Notifications: notifications,
		UnreadCount:   unread,
		Total:         len(notifications),
	}, nil
}

// MarkRead marks one notification read. Marking an already-read notification
// again is a no-op, not an error.
func (s *NotificationService) MarkRead(userID, notificationID uint) error {
	var notification models.Notification
	err := s.db.Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundf("notification %d not found", notificationID)
	}
	if err != nil {
		return storeErr(err)
	}

	if notification.Read {
		return nil
	}

	now := time.Now()
	err = s.db.Model(&notification).
		Updates(map[string]interface{}{"read": true, "read_at": &now}).Error
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// MarkAllRead marks every notification unread at call time. Snapshot then
// apply: notifications created after the snapshot stay unread.
func (s *NotificationService) MarkAllRead(userID uint) (int, error) {
	var ids []uint
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, storeErr(err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	now := time.Now()
	err = s.db.Model(&models.Notification{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"read": true, "read_at": &now}).Error
	if err != nil {
		return 0, storeErr(err)
	}
	return len(ids), nil
}

// PruneExpired deletes notifications whose expiry passed. Run by the daily
// cron job.
func (s *NotificationService) PruneExpired(now time.Time) (int64, error) {
	result := s.db.
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Delete(&models.Notification{})
	if result.Error != nil {
		return 0, storeErr(result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("[NOTIFY] pruned %d expired notifications", result.RowsAffected)
	}
	return result.RowsAffected, nil
}
