package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses.
const (
	EnrollmentActive    = "ACTIVE"
	EnrollmentCompleted = "COMPLETED"
	EnrollmentCancelled = "CANCELLED"
)

// Enrollment tracks a user's progress in a course. At most one non-cancelled
// enrollment exists per (user, course); cancellation is a status change,
// never a delete. CompletedLessons and ProgressPercentage are a persisted
// cache over LessonCompletion rows, refreshed by the completion write path.
type Enrollment struct {
	gorm.Model
	UserID             uint       `json:"user_id" gorm:"index;not null"`
	CourseID           uint       `json:"course_id" gorm:"index;not null"`
	Status             string     `json:"status" gorm:"index;default:'ACTIVE'"`
	EnrolledAt         time.Time  `json:"enrolled_at"`
	LastAccessedAt     *time.Time `json:"last_accessed_at"`
	CompletedLessons   int        `json:"completed_lessons" gorm:"default:0"`
	TotalLessons       int        `json:"total_lessons" gorm:"default:0"`
	ProgressPercentage int        `json:"progress_percentage" gorm:"default:0"`
	CompletedAt        *time.Time `json:"completed_at"`
	IsDeleted          bool       `gorm:"default:false"`
}
