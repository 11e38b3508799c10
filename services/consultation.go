package services

import (
	"academy/models"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrepTaskTemplate is the collaborator-supplied checklist blueprint.
type PrepTaskTemplate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ScheduleRequest carries everything needed to book a consultation.
type ScheduleRequest struct {
	UserID          uint
	CourseID        uint
	InstructorName  string
	ScheduledAt     time.Time
	DurationMinutes int
	MeetingLink     string
	Template        []PrepTaskTemplate
	// IdempotencyKey lets a retried booking find the consultation the first
	// attempt created instead of double-booking. Empty skips the guard.
	IdempotencyKey string
}

// ConsultationService manages scheduled consultations and their prep
// checklists. Status is a single-hop machine: scheduled moves exactly once
// to completed, cancelled or no_show; prep tasks only move to complete.
type ConsultationService struct {
	db       *gorm.DB
	notifier *NotificationService
}

func NewConsultationService(db *gorm.DB, notifier *NotificationService) *ConsultationService {
	return &ConsultationService{db: db, notifier: notifier}
}

// Schedule books a consultation, instantiating the prep checklist from the
// template with every task incomplete.
func (s *ConsultationService) Schedule(req ScheduleRequest) (*models.Consultation, error) {
	if req.ScheduledAt.IsZero() {
		return nil, validationf("scheduledAt is required")
	}
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = 30
	}

	if req.IdempotencyKey != "" {
		var existing models.Consultation
		err := s.db.
			Where("user_id = ? AND idempotency_key = ?", req.UserID, req.IdempotencyKey).
			First(&existing).Error
		if err == nil {
			// A retry whose first attempt died between the insert and the
			// fan-out lands here; re-run the confirmation so the retry heals
			// the partial state.
			if cerr := s.confirmBooking(&existing); cerr != nil {
				return nil, cerr
			}
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storeErr(err)
		}
	}

	tasks := make([]models.PrepTask, len(req.Template))
	for i, t := range req.Template {
		tasks[i] = models.PrepTask{
			TaskID:      uuid.NewString(),
			Title:       t.Title,
			Description: t.Description,
		}
	}

	consultation := models.Consultation{
		UserID:          req.UserID,
		CourseID:        req.CourseID,
		InstructorName:  req.InstructorName,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Status:          models.ConsultationScheduled,
		MeetingLink:     req.MeetingLink,
		IdempotencyKey:  req.IdempotencyKey,
	}
	if err := consultation.SetTasks(tasks); err != nil {
		return nil, validationf("prep task template: %v", err)
	}
	if err := consultation.SetReminders(map[string]bool{
		models.Reminder24h: false,
		models.Reminder1h:  false,
	}); err != nil {
		return nil, validationf("reminder flags: %v", err)
	}

	if err := s.db.Create(&consultation).Error; err != nil {
		return nil, storeErr(err)
	}

	// Booking confirmation on the dashboard. The timed reminders come later
	// from the scheduler. A failed confirmation write fails the whole call;
	// the idempotency key lets the caller retry without double-booking.
	if err := s.confirmBooking(&consultation); err != nil {
		return nil, err
	}
	return &consultation, nil
}

// confirmBooking writes the scheduled-confirmation notification. Keyed by
// consultation id, so retries and the heal path never duplicate it.
func (s *ConsultationService) confirmBooking(consultation *models.Consultation) error {
	_, err := s.notifier.Create(consultation.UserID,
		models.NotificationConsultationReminder,
		"Consultation scheduled",
		fmt.Sprintf("Your consultation is booked for %s.", consultation.ScheduledAt.Format("January 2, 2006 15:04")),
		models.PriorityMedium,
		NotificationOptions{
			IdempotencyKey: scheduleNotificationKey(consultation.ID),
		})
	return err
}

// Get loads a consultation owned by the caller.
func (s *ConsultationService) Get(callerID, consultationID uint) (*models.Consultation, error) {
	var consultation models.Consultation
	err := s.db.Where("id = ?", consultationID).First(&consultation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("consultation %d not found", consultationID)
	}
	if err != nil {
		return nil, storeErr(err)
	}
	if consultation.UserID != callerID {
		return nil, fmt.Errorf("%w: consultation %d belongs to another user", ErrForbidden, consultationID)
	}
	return &consultation, nil
}

// CompleteTask marks one prep task complete. Completing an already-complete
// task is a no-op returning the same state.
func (s *ConsultationService) CompleteTask(callerID, consultationID uint, taskID string) (*models.Consultation, error) {
	consultation, err := s.Get(callerID, consultationID)
	if err != nil {
		return nil, err
	}

	tasks := consultation.Tasks()
	found := false
	changed := false
	for i := range tasks {
		if tasks[i].TaskID != taskID {
			continue
		}
		found = true
		if !tasks[i].Completed {
			now := time.Now()
			tasks[i].Completed = true
			tasks[i].CompletedAt = &now
			changed = true
		}
		break
	}
	if !found {
		return nil, notFoundf("task %s not found on consultation %d", taskID, consultationID)
	}
	if !changed {
		return consultation, nil
	}

	if err := consultation.SetTasks(tasks); err != nil {
		return nil, storeErr(err)
	}
	if err := s.db.Model(consultation).Update("prep_tasks", consultation.PrepTasks).Error; err != nil {
		return nil, storeErr(err)
	}
	return consultation, nil
}

// TransitionStatus moves a scheduled consultation to one of the terminal
// states. Any transition out of a terminal state fails.
func (s *ConsultationService) TransitionStatus(callerID, consultationID uint, newStatus string) (*models.Consultation, error) {
	consultation, err := s.Get(callerID, consultationID)
	if err != nil {
		return nil, err
	}

	if !models.TerminalConsultationStatus(newStatus) {
		return nil, fmt.Errorf("%w: %q is not a valid target status", ErrInvalidTransition, newStatus)
	}
	if consultation.Status != models.ConsultationScheduled {
		return nil, fmt.Errorf("%w: consultation %d is already %s",
			ErrInvalidTransition, consultationID, consultation.Status)
	}

	if err := s.db.Model(consultation).Update("status", newStatus).Error; err != nil {
		return nil, storeErr(err)
	}
	consultation.Status = newStatus
	return consultation, nil
}

// MarkReminderSent flips one reminder flag so the scheduler never sends the
// same reminder twice. Called by the cron job, not the HTTP surface, so
// there is no ownership check.
func (s *ConsultationService) MarkReminderSent(consultationID uint, kind string) error {
	var consultation models.Consultation
	err := s.db.Where("id = ?", consultationID).First(&consultation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundf("consultation %d not found", consultationID)
	}
	if err != nil {
		return storeErr(err)
	}

	flags := consultation.Reminders()
	if flags[kind] {
		return nil
	}
	flags[kind] = true
	if err := consultation.SetReminders(flags); err != nil {
		return storeErr(err)
	}
	if err := s.db.Model(&consultation).Update("reminders_sent", consultation.RemindersSent).Error; err != nil {
		return storeErr(err)
	}
	return nil
}

func scheduleNotificationKey(consultationID uint) string {
	return fmt.Sprintf("consultation-scheduled-%d", consultationID)
}
