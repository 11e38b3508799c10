package utils

import (
	"academy/config"
	"fmt"
	"log"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Generic Send Email
func SendEmail(to, subject, htmlBody string) error {
	if config.AppConfig.SendGridAPIKey == "" {
		log.Printf("Skipping email %q to %s: SENDGRID_API_KEY not set", subject, to)
		return nil
	}

	from := mail.NewEmail("Academy", config.AppConfig.EmailSender)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, "", getEmailTemplate(subject, htmlBody))

	client := sendgrid.NewSendClient(config.AppConfig.SendGridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", to, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("SendGrid rejected email to %s: %d %s", to, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid rejected email, code: %d", resp.StatusCode)
	}
	return nil
}

// HTML wrapper shared by every outgoing mail
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A1A2E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A1A2E; line-height: 1.6; }
			.content h2 { color: #1A1A2E; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #E94560; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #E94560; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>ACADEMY</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Academy. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Signup
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to Academy"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>Academy</strong>! Your account has been created.</p>
		<p>Browse the course catalog and start learning whenever you are ready.</p>
	`, name)

	go SendEmail(email, subject, body)
}

// 2. Enrollment confirmation
func SendEnrollmentEmail(email, name, courseTitle string) {
	subject := "You're enrolled: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<div class="info-box">
			<strong>Next Steps:</strong> Open your dashboard to start the first lesson.
		</div>
	`, name, courseTitle)

	go SendEmail(email, subject, body)
}

// 3. Consultation reminder
func SendConsultationReminderEmail(email, name string, scheduledAt time.Time) {
	subject := "Reminder: your consultation is tomorrow"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder that your consultation is scheduled for <strong>%s</strong>.</p>
		<p>Please finish your preparation checklist before the session.</p>
	`, name, scheduledAt.Format("Monday, January 2 at 15:04"))

	go SendEmail(email, subject, body)
}

// EnrollmentEventKey is the fan-out idempotency key for an enrollment event.
func EnrollmentEventKey(enrollmentID uint) string {
	return fmt.Sprintf("enrollment-created-%d", enrollmentID)
}
