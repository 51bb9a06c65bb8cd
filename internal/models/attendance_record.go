package models

import "gorm.io/gorm"

// AttendanceRecord holds one row per (user, date). Marking the same date
// again overwrites the status in place; there is no edit history.
type AttendanceRecord struct {
	gorm.Model

	UserID      uint   `gorm:"not null;uniqueIndex:idx_attendance_user_date"`
	Date        string `gorm:"size:10;not null;uniqueIndex:idx_attendance_user_date"` // YYYY-MM-DD
	Day         int    `gorm:"not null"`
	Month       int    `gorm:"not null"`
	IsPresent   bool   `gorm:"default:false"`
	IsSchoolOff bool   `gorm:"default:false"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
