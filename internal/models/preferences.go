package models

import "gorm.io/gorm"

// Preferences is one-to-one with User. Rows are created lazily on first
// access, never implicitly overwritten.
type Preferences struct {
	gorm.Model

	UserID                     uint   `gorm:"not null;uniqueIndex"`
	ChromeNotificationTime     string `gorm:"size:5;not null"` // "HH:MM"
	EmailNotificationTime      string `gorm:"size:5;not null"` // "HH:MM"
	ChromeNotificationsEnabled bool   `gorm:"default:true"`
	EmailNotificationsEnabled  bool   `gorm:"default:true"`
	TotalSchoolDays            int    `gorm:"not null"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
