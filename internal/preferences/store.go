package preferences

import (
	"errors"
	"time"

	"github.com/rollcall-dev/rollcall/internal/models"
	"gorm.io/gorm"
)

const timeLayout = "15:04"

var (
	ErrInvalidTime       = errors.New("invalid notification time, expected HH:MM")
	ErrInvalidSchoolDays = errors.New("total school days must be a positive number")
)

// Defaults seeds a freshly created Preferences row. The values come from
// config, not from constants buried here.
type Defaults struct {
	NotificationTime string
	TotalSchoolDays  int
}

// UpdateInput carries a partial update. Nil fields leave the stored value
// untouched; non-nil fields overwrite, including explicit false for the
// enabled flags.
type UpdateInput struct {
	ChromeNotificationTime     *string
	EmailNotificationTime      *string
	ChromeNotificationsEnabled *bool
	EmailNotificationsEnabled  *bool
	TotalSchoolDays            *int
}

// GetOrCreate fetches the user's preferences, creating them with defaults
// on first access. An existing row is never modified here.
func GetOrCreate(db *gorm.DB, userID uint, defaults Defaults) (*models.Preferences, error) {
	var prefs models.Preferences

	err := db.Where("user_id = ?", userID).First(&prefs).Error

	if err == nil {
		return &prefs, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	prefs = models.Preferences{
		UserID:                     userID,
		ChromeNotificationTime:     defaults.NotificationTime,
		EmailNotificationTime:      defaults.NotificationTime,
		ChromeNotificationsEnabled: true,
		EmailNotificationsEnabled:  true,
		TotalSchoolDays:            defaults.TotalSchoolDays,
	}

	err = db.Create(&prefs).Error

	if err == nil {
		return &prefs, nil
	}

	// Two first accesses can race on the unique user index; the loser
	// reads the row the winner created.
	var existing models.Preferences

	if fetchErr := db.Where("user_id = ?", userID).First(&existing).Error; fetchErr == nil {
		return &existing, nil
	}

	return nil, err
}

// ApplyUpdate writes only the fields present in the input.
func ApplyUpdate(db *gorm.DB, prefs *models.Preferences, input UpdateInput) error {
	updates := make(map[string]interface{})

	if input.ChromeNotificationTime != nil {
		if !validTime(*input.ChromeNotificationTime) {
			return ErrInvalidTime
		}
		updates["chrome_notification_time"] = *input.ChromeNotificationTime
	}

	if input.EmailNotificationTime != nil {
		if !validTime(*input.EmailNotificationTime) {
			return ErrInvalidTime
		}
		updates["email_notification_time"] = *input.EmailNotificationTime
	}

	if input.ChromeNotificationsEnabled != nil {
		updates["chrome_notifications_enabled"] = *input.ChromeNotificationsEnabled
	}

	if input.EmailNotificationsEnabled != nil {
		updates["email_notifications_enabled"] = *input.EmailNotificationsEnabled
	}

	if input.TotalSchoolDays != nil {
		if *input.TotalSchoolDays <= 0 {
			return ErrInvalidSchoolDays
		}
		updates["total_school_days"] = *input.TotalSchoolDays
	}

	if len(updates) == 0 {
		return nil
	}

	return db.Model(prefs).Updates(updates).Error
}

func validTime(value string) bool {
	_, err := time.Parse(timeLayout, value)
	return err == nil
}
