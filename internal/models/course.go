package models

import (
	"time"

	"gorm.io/datatypes"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

func (l CourseLevel) IsValid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

type Course struct {
	ID           uint                        `json:"-" gorm:"primaryKey"`
	CourseID     string                      `json:"courseId" gorm:"not null;size:64;check:chk_courses_course_id,course_id <> ''" validate:"required,max=64"`
	Title        string                      `json:"title" gorm:"not null;size:200;check:chk_courses_title,title <> ''" validate:"required,max=200"`
	Description  string                      `json:"description" gorm:"type:text"`
	InstructorID string                      `json:"instructorId" gorm:"not null;size:64;check:chk_courses_instructor_id,instructor_id <> ''" validate:"required,max=64"`
	Category     string                      `json:"category" gorm:"size:100"`
	Level        CourseLevel                 `json:"level" gorm:"size:20;check:chk_courses_level,level IN ('beginner','intermediate','advanced')" validate:"omitempty,oneof=beginner intermediate advanced"`
	Price        float64                     `json:"price" gorm:"type:numeric(10,2);not null;check:chk_courses_price,price >= 0" validate:"gte=0"`
	Duration     int                         `json:"duration" gorm:"not null" validate:"gte=0"`
	Tags         datatypes.JSONSlice[string] `json:"tags"`
	IsPublished  bool                        `json:"isPublished" gorm:"not null"`
	CreatedAt    time.Time                   `json:"createdAt" gorm:"not null"`
	UpdatedAt    *time.Time                  `json:"updatedAt,omitempty" gorm:"autoUpdateTime:false"`

	// Populated only by the course-with-instructor read.
	Instructor *User `json:"instructor,omitempty" gorm:"foreignKey:InstructorID;references:UserID"`
}

func (Course) TableName() string {
	return "courses"
}

// HasTag reports whether tag is already in the course's tag set.
func (c *Course) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// MergeTags appends tags not yet present, keeping the existing order. It
// returns the number of tags added.
func (c *Course) MergeTags(tags ...string) int {
	added := 0
	for _, tag := range tags {
		if tag == "" || c.HasTag(tag) {
			continue
		}
		c.Tags = append(c.Tags, tag)
		added++
	}
	return added
}
