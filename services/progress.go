package services

import (
	"academy/models/course"
	"errors"
	"log"
	"math"
	"time"

	"gorm.io/gorm"
)

// CourseProgress is the per-course dashboard shape.
type CourseProgress struct {
	CourseID         uint `json:"course_id"`
	CompletedLessons int  `json:"completed_lessons"`
	TotalLessons     int  `json:"total_lessons"`
	Percentage       int  `json:"percentage"`
	IsCompleted      bool `json:"is_completed"`
	NextLessonID     uint `json:"next_lesson_id"` // 0 when the course is done
}

// OverallProgress is the aggregate dashboard shape. Only enrollments appear
// here: payment- or legacy-only access is entitlement without progress
// tracking until an enrollment is backfilled.
type OverallProgress struct {
	EnrolledCourses       []CourseProgress `json:"enrolled_courses"`
	TotalCourses          int              `json:"total_courses"`
	CompletedCourses      int              `json:"completed_courses"`
	InProgressCourses     int              `json:"in_progress_courses"`
	OverallCompletionRate float64          `json:"overall_completion_rate"`
}

// ProgressAggregator computes lesson-completion metrics. Completion events
// are the system of record; the counters persisted on the enrollment are a
// cache refreshed by RecordLessonCompletion and allowed to lag briefly.
type ProgressAggregator struct {
	db *gorm.DB
}

func NewProgressAggregator(db *gorm.DB) *ProgressAggregator {
	return &ProgressAggregator{db: db}
}

// GetCourseProgress computes progress for one enrollment.
func (a *ProgressAggregator) GetCourseProgress(userID, courseID uint) (*CourseProgress, error) {
	var enrollment course.Enrollment
	err := a.db.
		Where("user_id = ? AND course_id = ? AND is_deleted = ? AND status <> ?",
			userID, courseID, false, course.EnrollmentCancelled).
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("no enrollment for user %d in course %d", userID, courseID)
	}
	if err != nil {
		return nil, storeErr(err)
	}

	var lessons []course.Lesson
	err = a.db.
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Order("order_index asc").
		Find(&lessons).Error
	if err != nil {
		return nil, storeErr(err)
	}

	var completions []course.LessonCompletion
	err = a.db.
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		Find(&completions).Error
	if err != nil {
		return nil, storeErr(err)
	}

	done := make(map[uint]bool, len(completions))
	for _, c := range completions {
		done[c.LessonID] = true
	}

	completed := 0
	var nextLessonID uint
	for _, lesson := range lessons {
		if done[lesson.ID] {
			completed++
		} else if nextLessonID == 0 {
			nextLessonID = lesson.ID
		}
	}

	percentage := Percentage(completed, len(lessons))
	if percentage == 100 {
		nextLessonID = 0
	}

	return &CourseProgress{
		CourseID:         courseID,
		CompletedLessons: completed,
		TotalLessons:     len(lessons),
		Percentage:       percentage,
		IsCompleted:      percentage == 100 || enrollment.Status == course.EnrollmentCompleted,
		NextLessonID:     nextLessonID,
	}, nil
}

// GetOverallProgress aggregates every non-cancelled enrollment.
func (a *ProgressAggregator) GetOverallProgress(userID uint) (*OverallProgress, error) {
	var enrollments []course.Enrollment
	err := a.db.
		Where("user_id = ? AND is_deleted = ? AND status <> ?", userID, false, course.EnrollmentCancelled).
		Order("enrolled_at asc").
		Find(&enrollments).Error
	if err != nil {
		return nil, storeErr(err)
	}

	overall := &OverallProgress{
		EnrolledCourses: make([]CourseProgress, 0, len(enrollments)),
		TotalCourses:    len(enrollments),
	}

	sum := 0
	for _, e := range enrollments {
		progress, err := a.GetCourseProgress(userID, e.CourseID)
		if err != nil {
			return nil, err
		}
		overall.EnrolledCourses = append(overall.EnrolledCourses, *progress)
		sum += progress.Percentage

		switch {
		case progress.IsCompleted:
			overall.CompletedCourses++
		case progress.Percentage > 0:
			overall.InProgressCourses++
		}
	}

	// Mean of per-course percentages; zero enrollments must read 0, not NaN.
	if len(enrollments) > 0 {
		overall.OverallCompletionRate = float64(sum) / float64(len(enrollments))
	}
	return overall, nil
}

// RecordLessonCompletion stores a completion event and refreshes the cached
// counters on the enrollment. Completing an already-completed lesson is a
// no-op. Returns the refreshed progress and whether this call finished the
// course.
func (a *ProgressAggregator) RecordLessonCompletion(userID, courseID, lessonID uint) (*CourseProgress, bool, error) {
	var enrollment course.Enrollment
	err := a.db.
		Where("user_id = ? AND course_id = ? AND is_deleted = ? AND status <> ?",
			userID, courseID, false, course.EnrollmentCancelled).
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, notFoundf("no enrollment for user %d in course %d", userID, courseID)
	}
	if err != nil {
		return nil, false, storeErr(err)
	}

	var lesson course.Lesson
	err = a.db.
		Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?",
			lessonID, courseID, false, true).
		First(&lesson).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, notFoundf("lesson %d not found in course %d", lessonID, courseID)
	}
	if err != nil {
		return nil, false, storeErr(err)
	}

	var existing course.LessonCompletion
	err = a.db.
		Where("user_id = ? AND lesson_id = ? AND is_deleted = ?", userID, lessonID, false).
		First(&existing).Error
	if err == nil {
		progress, perr := a.GetCourseProgress(userID, courseID)
		return progress, false, perr
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, storeErr(err)
	}

	completion := course.LessonCompletion{UserID: userID, CourseID: courseID, LessonID: lessonID}
	if err := a.db.Create(&completion).Error; err != nil {
		return nil, false, storeErr(err)
	}

	progress, err := a.GetCourseProgress(userID, courseID)
	if err != nil {
		return nil, false, err
	}

	justCompleted := a.refreshEnrollment(&enrollment, progress)
	return progress, justCompleted, nil
}

// refreshEnrollment writes the recomputed counters back onto the enrollment
// record. Reports whether the course moved to COMPLETED on this refresh.
func (a *ProgressAggregator) refreshEnrollment(enrollment *course.Enrollment, progress *CourseProgress) bool {
	now := time.Now()
	enrollment.CompletedLessons = progress.CompletedLessons
	enrollment.TotalLessons = progress.TotalLessons
	enrollment.ProgressPercentage = progress.Percentage
	enrollment.LastAccessedAt = &now

	justCompleted := false
	if progress.Percentage >= 100 && enrollment.Status == course.EnrollmentActive {
		enrollment.Status = course.EnrollmentCompleted
		enrollment.CompletedAt = &now
		justCompleted = true
	}

	if err := a.db.Save(enrollment).Error; err != nil {
		// The completion event is already stored; the cache catches up on the
		// next write. Aggregation reads events, so nothing is lost.
		log.Printf("[PROGRESS] enrollment refresh failed for user %d course %d: %v",
			enrollment.UserID, enrollment.CourseID, err)
		return false
	}
	return justCompleted
}

// Percentage rounds 100*completed/total, clamped to [0,100]. A course with
// no published lessons reads 0.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(completed) / float64(total)))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
