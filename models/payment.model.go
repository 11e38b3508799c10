package models

import "gorm.io/gorm"

// Payment statuses as reported by the payment processor.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Payment mirrors a processor transaction. Written by the payment webhook,
// read-only everywhere else. A nil CourseID means the payment was not
// course-scoped (consultation packages, invoiced extras) and never grants
// course access.
type Payment struct {
	gorm.Model
	TransactionID string  `json:"transaction_id" gorm:"uniqueIndex;not null"`
	UserID        uint    `json:"user_id" gorm:"index;not null"`
	CourseID      *uint   `json:"course_id" gorm:"index"`
	Status        string  `json:"status" gorm:"index;default:'pending'"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency" gorm:"default:'EUR'"`
}
