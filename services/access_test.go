package services

import (
	"academy/models"
	courseModels "academy/models/course"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAccessNoFacts(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "fresh")

	resolver := NewAccessResolver(db, nil)
	access, err := resolver.ResolveAccess(user.ID)
	require.NoError(t, err)
	assert.Empty(t, access)
}

func TestHasAccessFromCompletedPayment(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "payer")
	course, _ := seedCourse(t, db, "Copywriting", 0)

	// Completed payment grants access even with no enrollment at all
	seedPayment(t, db, user.ID, &course.ID, "completed")

	resolver := NewAccessResolver(db, nil)
	hasAccess, err := resolver.HasAccess(user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, hasAccess)
}

func TestResolveAccessIgnoresIncompletePayments(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "pending")
	course, _ := seedCourse(t, db, "Marketing", 0)

	seedPayment(t, db, user.ID, &course.ID, "pending")
	seedPayment(t, db, user.ID, &course.ID, "failed")
	seedPayment(t, db, user.ID, nil, "completed") // not course-scoped

	resolver := NewAccessResolver(db, nil)
	access, err := resolver.ResolveAccess(user.ID)
	require.NoError(t, err)
	assert.Empty(t, access)
}

func TestResolveAccessUnionIsMonotonic(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "collector")
	c1, _ := seedCourse(t, db, "One", 0)
	c2, _ := seedCourse(t, db, "Two", 0)
	c3, _ := seedCourse(t, db, "Three", 0)

	resolver := NewAccessResolver(db, []uint{c3.ID})

	seedEnrollment(t, db, user.ID, c1.ID, courseModels.EnrollmentActive)
	first, err := resolver.ResolveAccess(user.ID)
	require.NoError(t, err)

	// Each new fact can only grow the set
	seedPayment(t, db, user.ID, &c2.ID, "completed")
	second, err := resolver.ResolveAccess(user.ID)
	require.NoError(t, err)
	for id := range first {
		assert.True(t, second[id])
	}
	assert.True(t, second[c2.ID])

	require.NoError(t, db.Model(user).Update("has_global_access", true).Error)
	third, err := resolver.ResolveAccess(user.ID)
	require.NoError(t, err)
	for id := range second {
		assert.True(t, third[id])
	}
	assert.True(t, third[c3.ID])
	assert.Len(t, third, 3)
}

func TestResolveAccessOwnedCourseList(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "granted")
	course, _ := seedCourse(t, db, "Granted", 0)

	require.NoError(t, user.SetOwnedCourses([]uint{course.ID}))
	require.NoError(t, db.Save(user).Error)

	resolver := NewAccessResolver(db, nil)
	access, err := resolver.ResolveAccess(user.ID)
	require.NoError(t, err)
	assert.True(t, access[course.ID])
	assert.Len(t, access, 1)
}

func TestResolveAccessGrandfatheredFlag(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "legacy")
	c1, _ := seedCourse(t, db, "Legacy A", 0)
	c2, _ := seedCourse(t, db, "Legacy B", 0)

	require.NoError(t, db.Model(user).Update("has_global_access", true).Error)

	resolver := NewAccessResolver(db, []uint{c1.ID, c2.ID})
	access, err := resolver.ResolveAccess(user.ID)
	require.NoError(t, err)
	assert.True(t, access[c1.ID])
	assert.True(t, access[c2.ID])

	// The flag without a grandfathered list grants nothing
	bare := NewAccessResolver(db, nil)
	access, err = bare.ResolveAccess(user.ID)
	require.NoError(t, err)
	assert.Empty(t, access)
}

func TestResolveAccessExcludesCancelledEnrollments(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "dropout")
	course, _ := seedCourse(t, db, "Dropped", 0)

	seedEnrollment(t, db, user.ID, course.ID, courseModels.EnrollmentCancelled)

	resolver := NewAccessResolver(db, nil)
	hasAccess, err := resolver.HasAccess(user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, hasAccess)
}

func TestEntitlementUnknownWhenAllSourcesFail(t *testing.T) {
	db := newBareDB(t)

	resolver := NewAccessResolver(db, []uint{1})
	_, err := resolver.ResolveAccess(42)
	require.ErrorIs(t, err, ErrEntitlementUnknown)
	assert.True(t, Retryable(err))

	// Store failure must never surface as a plain denial
	_, err = resolver.HasAccess(42, 1)
	require.ErrorIs(t, err, ErrEntitlementUnknown)
}

func TestResolveAccessDegradesOnPartialFailure(t *testing.T) {
	db := newBareDB(t)

	// Only users and payments exist; enrollment reads will fail
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Payment{}))
	user := seedUser(t, db, "partial")
	courseID := uint(7)
	seedPayment(t, db, user.ID, &courseID, "completed")

	resolver := NewAccessResolver(db, nil)
	access, err := resolver.ResolveAccess(user.ID)
	require.NoError(t, err)
	assert.True(t, access[courseID])
}

func TestBackfillEnrollments(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "repair")
	course, _ := seedCourse(t, db, "Paid", 0)

	seedPayment(t, db, user.ID, &course.ID, "completed")

	resolver := NewAccessResolver(db, nil)
	created, err := resolver.BackfillEnrollments(user.ID)
	require.NoError(t, err)
	require.Equal(t, []uint{course.ID}, created)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, courseModels.EnrollmentActive, enrollment.Status)

	// Running the repair again creates nothing
	created, err = resolver.BackfillEnrollments(user.ID)
	require.NoError(t, err)
	assert.Empty(t, created)
}
