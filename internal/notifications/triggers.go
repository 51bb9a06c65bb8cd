package notifications

import (
	"errors"
	"time"

	"github.com/rollcall-dev/rollcall/internal/models"
	"gorm.io/gorm"
)

const TypeAttendanceReminder = "attendance_reminder"

var ErrTriggerNotFound = errors.New("notification trigger not found")

// CreateTrigger appends a trigger for the user. There is no same-day
// dedup; a rerun of the reminder job produces a second trigger.
func CreateTrigger(db *gorm.DB, userID uint, notificationType string) (*models.NotificationTrigger, error) {
	if notificationType == "" {
		notificationType = TypeAttendanceReminder
	}

	trigger := models.NotificationTrigger{
		UserID:           userID,
		NotificationType: notificationType,
	}

	if err := db.Create(&trigger).Error; err != nil {
		return nil, err
	}

	return &trigger, nil
}

// ListPending returns the user's unread triggers, newest first.
func ListPending(db *gorm.DB, userID uint) ([]models.NotificationTrigger, error) {
	var triggers []models.NotificationTrigger

	err := db.Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").
		Find(&triggers).Error

	if err != nil {
		return nil, err
	}

	return triggers, nil
}

// MarkRead acknowledges a trigger. The ownership check is mandatory: a
// trigger belonging to another user answers exactly like a missing one.
func MarkRead(db *gorm.DB, triggerID uint, userID uint) error {
	var trigger models.NotificationTrigger

	err := db.Where("id = ? AND user_id = ?", triggerID, userID).First(&trigger).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTriggerNotFound
		}
		return err
	}

	return db.Model(&trigger).Update("is_read", true).Error
}

// PurgeOlderThan deletes triggers created strictly before now-retention,
// read or not, and returns how many went.
func PurgeOlderThan(db *gorm.DB, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)

	result := db.Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&models.NotificationTrigger{})

	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
