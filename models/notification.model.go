package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification types surfaced on the dashboard.
const (
	NotificationConsultationReminder = "consultation_reminder"
	NotificationNewModule            = "new_module"
	NotificationAchievement          = "achievement"
	NotificationInstructorMessage    = "instructor_message"
	NotificationSystem               = "system"
)

// Notification priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Notification is an append-only per-user event record. Only the read/readAt
// pair ever changes after creation.
type Notification struct {
	gorm.Model
	UserID         uint           `json:"user_id" gorm:"index;not null"`
	Type           string         `json:"type" gorm:"not null"`
	Title          string         `json:"title" gorm:"not null"`
	Message        string         `json:"message" gorm:"type:text;not null"`
	Priority       string         `json:"priority" gorm:"default:'medium'"`
	Read           bool           `json:"read" gorm:"index;default:false"`
	ReadAt         *time.Time     `json:"read_at"`
	ActionURL      string         `json:"action_url"`
	Metadata       datatypes.JSON `json:"metadata"`
	IdempotencyKey string         `json:"idempotency_key" gorm:"index"`
	ExpiresAt      *time.Time     `json:"expires_at" gorm:"index"`
}

// KnownNotificationType reports whether t is one of the supported enum values.
func KnownNotificationType(t string) bool {
	switch t {
	case NotificationConsultationReminder, NotificationNewModule,
		NotificationAchievement, NotificationInstructorMessage, NotificationSystem:
		return true
	}
	return false
}

// KnownPriority reports whether p is a supported priority.
func KnownPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
