package attendance

import (
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/rollcall-dev/rollcall/internal/models"
	"gorm.io/gorm"
)

const DateLayout = "2006-01-02"

const (
	StatusPresent   = "present"
	StatusAbsent    = "absent"
	StatusSchoolOff = "school_off"
)

var (
	ErrInvalidStatus = errors.New("invalid status, expected present, absent or school_off")
	ErrInvalidDate   = errors.New("invalid date, expected YYYY-MM-DD")
)

// Mark upserts the record for (userID, date). An empty date means today.
// Calling it again for the same date overwrites the stored status, so
// exactly one row per (user, date) exists after any successful call.
func Mark(db *gorm.DB, userID uint, date string, status string) (*models.AttendanceRecord, error) {
	isPresent, isSchoolOff, err := encodeStatus(status)

	if err != nil {
		return nil, err
	}

	if date == "" {
		date = time.Now().Format(DateLayout)
	}

	parsed, err := time.Parse(DateLayout, date)

	if err != nil {
		return nil, ErrInvalidDate
	}

	var record models.AttendanceRecord

	err = db.Where("user_id = ? AND date = ?", userID, date).First(&record).Error

	if err == nil {
		return &record, overwriteStatus(db, &record, isPresent, isSchoolOff)
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	record = models.AttendanceRecord{
		UserID:      userID,
		Date:        date,
		Day:         parsed.Day(),
		Month:       int(parsed.Month()),
		IsPresent:   isPresent,
		IsSchoolOff: isSchoolOff,
	}

	err = db.Create(&record).Error

	if err == nil {
		return &record, nil
	}

	// A concurrent mark for the same date can win the insert. The unique
	// index rejects ours; fall back to updating the winner's row.
	if !isDuplicateKey(err) {
		return nil, err
	}

	if err := db.Where("user_id = ? AND date = ?", userID, date).First(&record).Error; err != nil {
		return nil, err
	}

	return &record, overwriteStatus(db, &record, isPresent, isSchoolOff)
}

// List returns the user's records newest-first. Non-empty start/end bound
// the dates inclusively; the filter affects the listing only, never stats.
func List(db *gorm.DB, userID uint, start string, end string) ([]models.AttendanceRecord, error) {
	tx := db.Where("user_id = ?", userID)

	if start != "" {
		tx = tx.Where("date >= ?", start)
	}

	if end != "" {
		tx = tx.Where("date <= ?", end)
	}

	var records []models.AttendanceRecord

	if err := tx.Order("date DESC").Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

// MarkedOn reports whether the user already has a record for the date.
func MarkedOn(db *gorm.DB, userID uint, date string) (bool, error) {
	var count int64

	err := db.Model(&models.AttendanceRecord{}).
		Where("user_id = ? AND date = ?", userID, date).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// StatusOf decodes the stored boolean pair back into a status tag.
func StatusOf(record *models.AttendanceRecord) string {
	switch {
	case record.IsPresent:
		return StatusPresent
	case record.IsSchoolOff:
		return StatusSchoolOff
	default:
		return StatusAbsent
	}
}

func encodeStatus(status string) (isPresent bool, isSchoolOff bool, err error) {
	switch status {
	case StatusPresent:
		return true, false, nil
	case StatusAbsent:
		return false, false, nil
	case StatusSchoolOff:
		return false, true, nil
	default:
		return false, false, ErrInvalidStatus
	}
}

func overwriteStatus(db *gorm.DB, record *models.AttendanceRecord, isPresent bool, isSchoolOff bool) error {
	return db.Model(record).Updates(map[string]interface{}{
		"is_present":    isPresent,
		"is_school_off": isSchoolOff,
	}).Error
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pqErr *pq.Error

	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
