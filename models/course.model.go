package models

import "gorm.io/gorm"

// Course is the parent entity for batches. Owned by content-management flows;
// this service reads it for identifier derivation and pricing fallback.
type Course struct {
	gorm.Model
	CourseCode     string   `json:"course_code" gorm:"uniqueIndex;not null"` // e.g. WD, DM
	CourseShortcut string   `json:"course_shortcut"`
	Title          string   `json:"title" gorm:"not null"`
	Description    string   `json:"description"`
	RegularPrice   float64  `json:"regular_price" gorm:"default:0"`
	DiscountPrice  *float64 `json:"discount_price"`
	Status         string   `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, INACTIVE
	ThumbnailURL   string   `json:"thumbnail_url"`
	IsDeleted      bool     `gorm:"default:false"`
}
