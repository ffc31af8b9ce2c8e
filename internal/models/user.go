package models

import (
	"time"

	"gorm.io/datatypes"
)

type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleInstructor UserRole = "instructor"
)

func (r UserRole) IsValid() bool {
	return r == RoleStudent || r == RoleInstructor
}

type UserProfile struct {
	Bio    string   `json:"bio"`
	Avatar *string  `json:"avatar"`
	Skills []string `json:"skills"`
}

type User struct {
	ID         uint                            `json:"-" gorm:"primaryKey"`
	UserID     string                          `json:"userId" gorm:"not null;size:64;check:chk_users_user_id,user_id <> ''" validate:"required,max=64"`
	Email      string                          `json:"email" gorm:"not null;size:255;check:chk_users_email,email ~ '^.+@.+\\..+$'" validate:"required,edu_email,max=255"`
	FirstName  string                          `json:"firstName" gorm:"not null;size:100;check:chk_users_first_name,first_name <> ''" validate:"required,max=100"`
	LastName   string                          `json:"lastName" gorm:"not null;size:100;check:chk_users_last_name,last_name <> ''" validate:"required,max=100"`
	Role       UserRole                        `json:"role" gorm:"not null;size:20;check:chk_users_role,role IN ('student','instructor')" validate:"required,oneof=student instructor"`
	DateJoined time.Time                       `json:"dateJoined" gorm:"not null" validate:"required"`
	IsActive   bool                            `json:"isActive" gorm:"not null"`
	Profile    datatypes.JSONType[UserProfile] `json:"profile"`
}

func (User) TableName() string {
	return "users"
}

// FullName is used by reports and the XLSX export.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// NewProfile wraps a profile for storage, normalising a nil skill list to an
// empty one.
func NewProfile(bio string, avatar *string, skills []string) datatypes.JSONType[UserProfile] {
	if skills == nil {
		skills = []string{}
	}
	return datatypes.NewJSONType(UserProfile{Bio: bio, Avatar: avatar, Skills: skills})
}
