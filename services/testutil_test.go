package services

import (
	"academy/models"
	courseModels "academy/models/course"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Payment{},
		&models.Notification{},
		&models.Consultation{},
		&courseModels.Course{},
		&courseModels.Lesson{},
		&courseModels.LessonCompletion{},
		&courseModels.Enrollment{},
	))
	return db
}

// newBareDB opens a database with no schema at all, so every read fails the
// way an unreachable store would.
func newBareDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s-bare?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := &models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s-%s@test.local", name, t.Name()),
		Password: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCourse(t *testing.T, db *gorm.DB, title string, lessons int) (*courseModels.Course, []courseModels.Lesson) {
	t.Helper()

	course := &courseModels.Course{
		Title:       title,
		Status:      "ACTIVE",
		IsPublished: true,
	}
	require.NoError(t, db.Create(course).Error)

	out := make([]courseModels.Lesson, 0, lessons)
	for i := 0; i < lessons; i++ {
		lesson := courseModels.Lesson{
			CourseID:    course.ID,
			Title:       fmt.Sprintf("%s lesson %d", title, i+1),
			OrderIndex:  i + 1,
			IsPublished: true,
		}
		require.NoError(t, db.Create(&lesson).Error)
		out = append(out, lesson)
	}
	return course, out
}

func seedEnrollment(t *testing.T, db *gorm.DB, userID, courseID uint, status string) *courseModels.Enrollment {
	t.Helper()

	enrollment := &courseModels.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		Status:     status,
		EnrolledAt: time.Now(),
	}
	require.NoError(t, db.Create(enrollment).Error)
	return enrollment
}

var txnSeq uint64

func seedPayment(t *testing.T, db *gorm.DB, userID uint, courseID *uint, status string) *models.Payment {
	t.Helper()

	payment := &models.Payment{
		TransactionID: fmt.Sprintf("txn-%s-%d", t.Name(), atomic.AddUint64(&txnSeq, 1)),
		UserID:        userID,
		CourseID:      courseID,
		Status:        status,
		Amount:        199,
		Currency:      "EUR",
	}
	require.NoError(t, db.Create(payment).Error)
	return payment
}
