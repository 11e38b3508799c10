package course

import "gorm.io/gorm"

// Lesson is one catalog entry of a course. Catalog order is OrderIndex asc.
// DurationMinutes is optional metadata and never weights progress math.
type Lesson struct {
	gorm.Model
	CourseID        uint   `json:"course_id" gorm:"index;not null"`
	Title           string `json:"title"`
	VideoURL        string `json:"video_url"`
	DurationMinutes int    `json:"duration_minutes" gorm:"default:0"`
	OrderIndex      int    `json:"order_index" gorm:"default:0"`
	IsPublished     bool   `json:"is_published" gorm:"default:false"`
	IsDeleted       bool   `gorm:"default:false"`
}

// LessonCompletion records that a user finished a lesson. Append-only; the
// enrollment counters are a cache derived from these rows.
type LessonCompletion struct {
	gorm.Model
	UserID    uint `json:"user_id" gorm:"index;not null;uniqueIndex:idx_user_lesson"`
	CourseID  uint `json:"course_id" gorm:"index;not null"`
	LessonID  uint `json:"lesson_id" gorm:"index;not null;uniqueIndex:idx_user_lesson"`
	IsDeleted bool `gorm:"default:false"`
}
