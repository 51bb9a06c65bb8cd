package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReminderRun records one execution of a scheduled job. The summary is
// advisory only; nothing consumes it programmatically.
type ReminderRun struct {
	gorm.Model

	Job        string `gorm:"not null;index"` // "reminder_fanout", "trigger_purge"
	Processed  int    `gorm:"not null"`
	Summary    string
	Details    datatypes.JSON `gorm:"type:jsonb"`
	StartedAt  time.Time      `gorm:"not null"`
	FinishedAt time.Time      `gorm:"not null"`
}
