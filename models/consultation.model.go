package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Consultation statuses. Scheduled is the only non-terminal state.
const (
	ConsultationScheduled = "scheduled"
	ConsultationCompleted = "completed"
	ConsultationCancelled = "cancelled"
	ConsultationNoShow    = "no_show"
)

// Reminder kinds recorded in RemindersSent.
const (
	Reminder24h = "24h"
	Reminder1h  = "1h"
)

// PrepTask is one checklist item embedded in a consultation. Tasks only move
// incomplete -> complete.
type PrepTask struct {
	TaskID      string     `json:"task_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Consultation is a scheduled 1:1 session with its embedded prep checklist
// and reminder flags.
type Consultation struct {
	gorm.Model
	UserID          uint           `json:"user_id" gorm:"index;not null"`
	CourseID        uint           `json:"course_id" gorm:"index;not null"`
	InstructorName  string         `json:"instructor_name"`
	ScheduledAt     time.Time      `json:"scheduled_at" gorm:"index;not null"`
	DurationMinutes int            `json:"duration_minutes" gorm:"default:30"`
	Status          string         `json:"status" gorm:"index;default:'scheduled'"`
	PrepTasks       datatypes.JSON `json:"prep_tasks"`
	RemindersSent   datatypes.JSON `json:"reminders_sent"`
	MeetingLink     string         `json:"meeting_link"`
	Notes           string         `json:"notes" gorm:"type:text"`
	IdempotencyKey  string         `json:"idempotency_key" gorm:"index"`
}

// TerminalConsultationStatus reports whether s is one of the terminal states.
func TerminalConsultationStatus(s string) bool {
	switch s {
	case ConsultationCompleted, ConsultationCancelled, ConsultationNoShow:
		return true
	}
	return false
}

// Tasks decodes the embedded prep checklist. Missing or malformed data reads
// as an empty list.
func (cn *Consultation) Tasks() []PrepTask {
	if len(cn.PrepTasks) == 0 {
		return nil
	}
	var tasks []PrepTask
	if err := json.Unmarshal(cn.PrepTasks, &tasks); err != nil {
		return nil
	}
	return tasks
}

// SetTasks encodes the embedded prep checklist.
func (cn *Consultation) SetTasks(tasks []PrepTask) error {
	raw, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	cn.PrepTasks = datatypes.JSON(raw)
	return nil
}

// Reminders decodes the reminder-kind flags.
func (cn *Consultation) Reminders() map[string]bool {
	flags := map[string]bool{}
	if len(cn.RemindersSent) == 0 {
		return flags
	}
	if err := json.Unmarshal(cn.RemindersSent, &flags); err != nil {
		return map[string]bool{}
	}
	return flags
}

// SetReminders encodes the reminder-kind flags.
func (cn *Consultation) SetReminders(flags map[string]bool) error {
	raw, err := json.Marshal(flags)
	if err != nil {
		return err
	}
	cn.RemindersSent = datatypes.JSON(raw)
	return nil
}
