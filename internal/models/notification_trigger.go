package models

import "gorm.io/gorm"

// NotificationTrigger is a server-created marker telling a polling client
// to show a reminder. The reminder job appends them, the client marks them
// read, the purge job deletes them by age.
type NotificationTrigger struct {
	gorm.Model

	UserID           uint   `gorm:"not null;index"`
	NotificationType string `gorm:"size:50;not null;default:attendance_reminder"`
	IsRead           bool   `gorm:"default:false"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
