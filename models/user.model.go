package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ProfileImage    string    `gorm:"default:''"`
	Name            string    `gorm:"default:''"`
	Email           string    `gorm:"unique;not null"`
	Mobile          string    `gorm:"default:''"`
	Role            string    `gorm:"default:'USER'"` // USER, ADMIN
	Password        string    `gorm:"not null"`
	IsEmailVerified bool      `gorm:"default:false"`
	LastLogin       time.Time `gorm:"default:NULL"`
	IsBlocked       bool      `gorm:"default:false"`
	IsDeleted       bool      `gorm:"default:false"`

	// Access facts. HasGlobalAccess is the legacy all-courses flag kept for
	// grandfathered accounts; OwnedCourseIDs is a denormalized course-id list
	// written by admin grants and older purchase flows. Entitlement is always
	// derived at read time, these are inputs, not the answer.
	HasGlobalAccess bool           `json:"has_global_access" gorm:"default:false"`
	OwnedCourseIDs  datatypes.JSON `json:"owned_course_ids"`
}

// OwnedCourses decodes the embedded course-id list. A missing or malformed
// list reads as empty.
func (u *User) OwnedCourses() []uint {
	if len(u.OwnedCourseIDs) == 0 {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal(u.OwnedCourseIDs, &ids); err != nil {
		return nil
	}
	return ids
}

// SetOwnedCourses encodes the embedded course-id list.
func (u *User) SetOwnedCourses(ids []uint) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	u.OwnedCourseIDs = datatypes.JSON(raw)
	return nil
}
