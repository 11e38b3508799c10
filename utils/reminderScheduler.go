package utils

import (
	"academy/database"
	"academy/models"
	"academy/services"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializeReminderScheduler sets up the consultation reminder and
// notification cleanup jobs
func InitializeReminderScheduler() {
	log.Println("[REMINDER-SCHEDULER] Initializing reminder scheduler...")

	c := cron.New()

	// Run hourly to catch consultations entering the 24h reminder window
	c.AddFunc("0 * * * *", func() {
		log.Println("[REMINDER-SCHEDULER] Running hourly consultation check...")
		ProcessUpcomingConsultations()
	})

	// Run daily at 3 AM to prune expired notifications
	c.AddFunc("0 3 * * *", func() {
		log.Println("[REMINDER-SCHEDULER] Running daily notification cleanup...")
		notifier := services.NewNotificationService(database.Database.Db)
		if _, err := notifier.PruneExpired(time.Now()); err != nil {
			log.Printf("[REMINDER-SCHEDULER] Error pruning notifications: %v", err)
		}
	})

	c.Start()
	log.Println("[REMINDER-SCHEDULER] Reminder scheduler started - hourly reminders, daily cleanup")
}

// ProcessUpcomingConsultations sends 24h reminders for consultations
// scheduled 23-25 hours out that haven't received one yet
func ProcessUpcomingConsultations() {
	db := database.Database.Db
	now := time.Now()
	windowStart := now.Add(23 * time.Hour)
	windowEnd := now.Add(25 * time.Hour)

	var upcoming []models.Consultation
	if err := db.
		Where("status = ?", models.ConsultationScheduled).
		Where("scheduled_at BETWEEN ? AND ?", windowStart, windowEnd).
		Find(&upcoming).Error; err != nil {
		log.Printf("[REMINDER-SCHEDULER] Error fetching upcoming consultations: %v", err)
		return
	}

	log.Printf("[REMINDER-SCHEDULER] Found %d consultations in reminder window", len(upcoming))

	notifier := services.NewNotificationService(db)
	consultations := services.NewConsultationService(db, notifier)

	for _, consultation := range upcoming {
		// Skip if the 24h reminder already went out
		if consultation.Reminders()[models.Reminder24h] {
			continue
		}

		expiry := consultation.ScheduledAt.Add(24 * time.Hour)
		_, err := notifier.Create(consultation.UserID,
			models.NotificationConsultationReminder,
			"Consultation tomorrow",
			fmt.Sprintf("Your consultation is scheduled for %s. Finish your prep checklist before the session.",
				consultation.ScheduledAt.Format("Monday, January 2 at 15:04")),
			models.PriorityHigh,
			services.NotificationOptions{
				IdempotencyKey: fmt.Sprintf("consultation-reminder-24h-%d", consultation.ID),
				ExpiresAt:      &expiry,
			})
		if err != nil {
			log.Printf("[REMINDER-SCHEDULER] Error creating reminder for consultation %d: %v", consultation.ID, err)
			continue
		}

		// Get user details for the email
		var user models.User
		if err := db.Where("id = ?", consultation.UserID).First(&user).Error; err != nil {
			log.Printf("[REMINDER-SCHEDULER] Error fetching user %d: %v", consultation.UserID, err)
		} else {
			SendConsultationReminderEmail(user.Email, user.Name, consultation.ScheduledAt)
		}

		if err := consultations.MarkReminderSent(consultation.ID, models.Reminder24h); err != nil {
			log.Printf("[REMINDER-SCHEDULER] Error marking reminder sent for consultation %d: %v", consultation.ID, err)
			continue
		}
		log.Printf("[REMINDER-SCHEDULER] Sent 24h reminder for consultation %d to user %d", consultation.ID, consultation.UserID)
	}
}
