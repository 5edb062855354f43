package models

import (
	"time"

	"gorm.io/gorm"
)

// CourseType defines how a batch is delivered
type CourseType string

const (
	CourseTypeOnline  CourseType = "online"
	CourseTypeOffline CourseType = "offline"
)

// BatchStatus defines the lifecycle state of a batch
type BatchStatus string

const (
	BatchStatusDraft     BatchStatus = "draft"
	BatchStatusPublished BatchStatus = "published"
	BatchStatusUpcoming  BatchStatus = "upcoming"
	BatchStatusOngoing   BatchStatus = "ongoing"
	BatchStatusCompleted BatchStatus = "completed"
	BatchStatusCancelled BatchStatus = "cancelled"
)

// Batch is one offering instance of a Course. BatchCode and Slug are derived
// once at creation and never regenerated afterwards.
type Batch struct {
	gorm.Model
	CourseID  uint   `json:"course_id" gorm:"index;not null"`
	BatchCode string `json:"batch_code" gorm:"uniqueIndex;not null"` // {courseCode}{YY}{NN}
	Name      string `json:"name" gorm:"not null"`
	Slug      string `json:"slug" gorm:"uniqueIndex;not null"`

	CourseType CourseType `json:"course_type" gorm:"type:varchar(20);default:'online'"`
	StartDate  time.Time  `json:"start_date" gorm:"not null"`
	EndDate    time.Time  `json:"end_date" gorm:"not null"`

	MaxStudents     int `json:"max_students" gorm:"not null"`
	CurrentStudents int `json:"current_students" gorm:"default:0"`

	// Pricing overrides; nil falls back to the parent course's values.
	// DiscountPercentage is always recomputed, never accepted as input.
	RegularPrice       *float64 `json:"regular_price"`
	DiscountPrice      *float64 `json:"discount_price"`
	DiscountPercentage int      `json:"discount_percentage" gorm:"default:0"`

	Status    BatchStatus `json:"status" gorm:"type:varchar(20);default:'draft'"`
	IsActive  bool        `json:"is_active" gorm:"default:true"`
	IsDeleted bool        `gorm:"default:false"`

	// Relations - omit in JSON by default (only load when needed)
	Course Course `gorm:"foreignKey:CourseID" json:"-"`
}

func (Batch) TableName() string {
	return "batches"
}
