package services

import (
	courseModels "academy/models/course"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentage(t *testing.T) {
	cases := []struct {
		completed, total, want int
	}{
		{0, 0, 0},   // empty catalog is 0, never an error
		{3, 0, 0},   // stale completions against an unpublished course
		{0, 10, 0},
		{3, 6, 50},
		{1, 3, 33},
		{2, 3, 67},
		{6, 6, 100},
		{9, 6, 100}, // clamped
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Percentage(tc.completed, tc.total),
			"completed=%d total=%d", tc.completed, tc.total)
	}
}

func TestGetCourseProgressHalfway(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "learner")
	course, lessons := seedCourse(t, db, "Halfway", 6)
	seedEnrollment(t, db, user.ID, course.ID, courseModels.EnrollmentActive)

	aggregator := NewProgressAggregator(db)
	for i := 0; i < 3; i++ {
		_, _, err := aggregator.RecordLessonCompletion(user.ID, course.ID, lessons[i].ID)
		require.NoError(t, err)
	}

	progress, err := aggregator.GetCourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, progress.CompletedLessons)
	assert.Equal(t, 6, progress.TotalLessons)
	assert.Equal(t, 50, progress.Percentage)
	assert.False(t, progress.IsCompleted)
	assert.Equal(t, lessons[3].ID, progress.NextLessonID)
}

func TestGetCourseProgressEmptyCatalog(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "early")
	course, _ := seedCourse(t, db, "Unpublished", 0)
	seedEnrollment(t, db, user.ID, course.ID, courseModels.EnrollmentActive)

	aggregator := NewProgressAggregator(db)
	progress, err := aggregator.GetCourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, progress.Percentage)
	assert.Equal(t, 0, progress.TotalLessons)
	assert.False(t, progress.IsCompleted)
	assert.Zero(t, progress.NextLessonID)
}

func TestGetCourseProgressRequiresEnrollment(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "outsider")
	course, _ := seedCourse(t, db, "Closed", 3)

	aggregator := NewProgressAggregator(db)
	_, err := aggregator.GetCourseProgress(user.ID, course.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestManuallyCompletedEnrollment(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "granted")
	course, _ := seedCourse(t, db, "Granted", 4)
	seedEnrollment(t, db, user.ID, course.ID, courseModels.EnrollmentCompleted)

	// A manually completed grant counts as completed at 0 percent
	aggregator := NewProgressAggregator(db)
	progress, err := aggregator.GetCourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, progress.Percentage)
	assert.True(t, progress.IsCompleted)
}

func TestRecordLessonCompletionIdempotent(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "repeat")
	course, lessons := seedCourse(t, db, "Repeat", 2)
	seedEnrollment(t, db, user.ID, course.ID, courseModels.EnrollmentActive)

	aggregator := NewProgressAggregator(db)
	first, _, err := aggregator.RecordLessonCompletion(user.ID, course.ID, lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.CompletedLessons)

	// Double submission lands in the same state with no error
	second, justCompleted, err := aggregator.RecordLessonCompletion(user.ID, course.ID, lessons[0].ID)
	require.NoError(t, err)
	assert.False(t, justCompleted)
	assert.Equal(t, first, second)

	var count int64
	db.Model(&courseModels.LessonCompletion{}).
		Where("user_id = ? AND lesson_id = ?", user.ID, lessons[0].ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRecordLessonCompletionUnknownLesson(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "lost")
	course, _ := seedCourse(t, db, "Short", 1)
	seedEnrollment(t, db, user.ID, course.ID, courseModels.EnrollmentActive)

	aggregator := NewProgressAggregator(db)
	_, _, err := aggregator.RecordLessonCompletion(user.ID, course.ID, 9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCourseCompletionRefreshesEnrollment(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "finisher")
	course, lessons := seedCourse(t, db, "Finish", 2)
	seedEnrollment(t, db, user.ID, course.ID, courseModels.EnrollmentActive)

	aggregator := NewProgressAggregator(db)
	_, justCompleted, err := aggregator.RecordLessonCompletion(user.ID, course.ID, lessons[0].ID)
	require.NoError(t, err)
	assert.False(t, justCompleted)

	progress, justCompleted, err := aggregator.RecordLessonCompletion(user.ID, course.ID, lessons[1].ID)
	require.NoError(t, err)
	assert.True(t, justCompleted)
	assert.Equal(t, 100, progress.Percentage)
	assert.True(t, progress.IsCompleted)
	assert.Zero(t, progress.NextLessonID)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, courseModels.EnrollmentCompleted, enrollment.Status)
	assert.Equal(t, 100, enrollment.ProgressPercentage)
	assert.Equal(t, 2, enrollment.CompletedLessons)
	assert.NotNil(t, enrollment.CompletedAt)
}

func TestGetOverallProgressEmpty(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "new")

	aggregator := NewProgressAggregator(db)
	overall, err := aggregator.GetOverallProgress(user.ID)
	require.NoError(t, err)
	assert.Empty(t, overall.EnrolledCourses)
	assert.Equal(t, 0, overall.TotalCourses)
	assert.Equal(t, 0, overall.CompletedCourses)
	assert.Equal(t, 0, overall.InProgressCourses)
	assert.Equal(t, float64(0), overall.OverallCompletionRate)
}

func TestGetOverallProgressExcludesPaymentOnlyAccess(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer")
	course, _ := seedCourse(t, db, "Bought", 3)

	// Access without an enrollment is entitlement, not tracked progress
	seedPayment(t, db, user.ID, &course.ID, "completed")

	resolver := NewAccessResolver(db, nil)
	hasAccess, err := resolver.HasAccess(user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, hasAccess)

	aggregator := NewProgressAggregator(db)
	overall, err := aggregator.GetOverallProgress(user.ID)
	require.NoError(t, err)
	assert.Empty(t, overall.EnrolledCourses)
	assert.Equal(t, 0, overall.TotalCourses)
}

func TestGetOverallProgressClassification(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "mixed")

	done, doneLessons := seedCourse(t, db, "Done", 1)
	seedEnrollment(t, db, user.ID, done.ID, courseModels.EnrollmentActive)
	halfway, halfLessons := seedCourse(t, db, "Half", 2)
	seedEnrollment(t, db, user.ID, halfway.ID, courseModels.EnrollmentActive)
	untouched, _ := seedCourse(t, db, "Untouched", 5)
	seedEnrollment(t, db, user.ID, untouched.ID, courseModels.EnrollmentActive)

	aggregator := NewProgressAggregator(db)
	_, _, err := aggregator.RecordLessonCompletion(user.ID, done.ID, doneLessons[0].ID)
	require.NoError(t, err)
	_, _, err = aggregator.RecordLessonCompletion(user.ID, halfway.ID, halfLessons[0].ID)
	require.NoError(t, err)

	overall, err := aggregator.GetOverallProgress(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, overall.TotalCourses)
	assert.Len(t, overall.EnrolledCourses, 3)
	assert.Equal(t, 1, overall.CompletedCourses)
	assert.Equal(t, 1, overall.InProgressCourses)
	// 100 + 50 + 0 over three courses
	assert.InDelta(t, 50.0, overall.OverallCompletionRate, 0.001)
}
