package services

import (
	"academy/models"
	"academy/models/course"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
)

// AccessResolver answers "which courses may this user open" by folding four
// independently written access facts: enrollments, the user's embedded
// owned-course list, completed course-scoped payments, and the legacy
// global-access flag. The merge is a plain union; any one fact is enough.
// Resolution never writes, repair is the explicit BackfillEnrollments call.
type AccessResolver struct {
	db            *gorm.DB
	grandfathered []uint
}

// NewAccessResolver builds a resolver. grandfathered lists the course ids
// granted to accounts carrying the legacy global-access flag.
func NewAccessResolver(db *gorm.DB, grandfathered []uint) *AccessResolver {
	return &AccessResolver{db: db, grandfathered: grandfathered}
}

// ResolveAccess returns the set of course ids the user is entitled to.
//
// A single source failing to read contributes nothing and is logged; only
// when every source fails does the call return ErrEntitlementUnknown, so a
// transient outage is never reported as a plain denial.
func (r *AccessResolver) ResolveAccess(userID uint) (map[uint]bool, error) {
	access := make(map[uint]bool)
	failures := 0

	// Source 1: non-cancelled enrollments.
	var enrollments []course.Enrollment
	err := r.db.
		Where("user_id = ? AND is_deleted = ? AND status IN ?", userID, false,
			[]string{course.EnrollmentActive, course.EnrollmentCompleted}).
		Find(&enrollments).Error
	if err != nil {
		log.Printf("[ACCESS] enrollment read failed for user %d: %v", userID, err)
		failures++
	} else {
		for _, e := range enrollments {
			access[e.CourseID] = true
		}
	}

	// Sources 2 and 4 both live on the user record.
	var user models.User
	err = r.db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error
	switch {
	case err == nil:
		for _, id := range user.OwnedCourses() {
			access[id] = true
		}
		if user.HasGlobalAccess {
			for _, id := range r.grandfathered {
				access[id] = true
			}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Unknown user holds no facts here; not a source failure.
	default:
		log.Printf("[ACCESS] user read failed for user %d: %v", userID, err)
		failures += 2
	}

	// Source 3: completed course-scoped payments.
	var payments []models.Payment
	err = r.db.
		Where("user_id = ? AND status = ? AND course_id IS NOT NULL", userID, models.PaymentCompleted).
		Find(&payments).Error
	if err != nil {
		log.Printf("[ACCESS] payment read failed for user %d: %v", userID, err)
		failures++
	} else {
		for _, p := range payments {
			if p.CourseID != nil {
				access[*p.CourseID] = true
			}
		}
	}

	if failures >= 4 {
		return nil, ErrEntitlementUnknown
	}
	return access, nil
}

// HasAccess reports whether the user may open the course. An enrollment row
// answers without materializing the full set; otherwise it falls back to
// ResolveAccess.
func (r *AccessResolver) HasAccess(userID, courseID uint) (bool, error) {
	var count int64
	err := r.db.Model(&course.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND is_deleted = ? AND status IN ?",
			userID, courseID, false,
			[]string{course.EnrollmentActive, course.EnrollmentCompleted}).
		Count(&count).Error
	if err == nil && count > 0 {
		return true, nil
	}

	access, rerr := r.ResolveAccess(userID)
	if rerr != nil {
		return false, rerr
	}
	return access[courseID], nil
}

// BackfillEnrollments creates an ACTIVE enrollment for every entitled course
// missing one, returning the course ids it created. This is the explicit
// repair operation for payments or grants whose enrollment write never
// landed; the read path never does this implicitly.
func (r *AccessResolver) BackfillEnrollments(userID uint) ([]uint, error) {
	access, err := r.ResolveAccess(userID)
	if err != nil {
		return nil, err
	}

	var created []uint
	for courseID := range access {
		var existing course.Enrollment
		err := r.db.
			Where("user_id = ? AND course_id = ? AND is_deleted = ? AND status <> ?",
				userID, courseID, false, course.EnrollmentCancelled).
			First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, storeErr(err)
		}

		enrollment := course.Enrollment{
			UserID:     userID,
			CourseID:   courseID,
			Status:     course.EnrollmentActive,
			EnrolledAt: time.Now(),
		}
		if err := r.db.Create(&enrollment).Error; err != nil {
			return created, storeErr(err)
		}
		created = append(created, courseID)
	}

	if len(created) > 0 {
		log.Printf("[ACCESS] backfilled %d enrollments for user %d", len(created), userID)
	}
	return created, nil
}
