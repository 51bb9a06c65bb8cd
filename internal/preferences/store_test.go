package preferences

import (
	"fmt"
	"testing"

	"github.com/rollcall-dev/rollcall/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Preferences{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func testDefaults() Defaults {
	return Defaults{NotificationTime: "06:30", TotalSchoolDays: 220}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(n int) *int       { return &n }

func TestGetOrCreateSeedsDefaults(t *testing.T) {
	db := newTestDB(t)

	prefs, err := GetOrCreate(db, 1, testDefaults())
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	if prefs.ChromeNotificationTime != "06:30" || prefs.EmailNotificationTime != "06:30" {
		t.Errorf("unexpected default times: %+v", prefs)
	}

	if !prefs.ChromeNotificationsEnabled || !prefs.EmailNotificationsEnabled {
		t.Error("notifications should default to enabled")
	}

	if prefs.TotalSchoolDays != 220 {
		t.Errorf("expected 220 school days, got %d", prefs.TotalSchoolDays)
	}
}

func TestGetOrCreateNeverDuplicatesOrResets(t *testing.T) {
	db := newTestDB(t)

	first, err := GetOrCreate(db, 1, testDefaults())
	if err != nil {
		t.Fatalf("first GetOrCreate failed: %v", err)
	}

	if err := ApplyUpdate(db, first, UpdateInput{TotalSchoolDays: intPtr(240)}); err != nil {
		t.Fatalf("ApplyUpdate failed: %v", err)
	}

	second, err := GetOrCreate(db, 1, testDefaults())
	if err != nil {
		t.Fatalf("second GetOrCreate failed: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("expected the same row, got ids %d and %d", first.ID, second.ID)
	}

	if second.TotalSchoolDays != 240 {
		t.Errorf("GetOrCreate reset an updated field: got %d school days", second.TotalSchoolDays)
	}

	var count int64
	db.Model(&models.Preferences{}).Where("user_id = ?", 1).Count(&count)

	if count != 1 {
		t.Errorf("expected one preferences row, got %d", count)
	}
}

func TestApplyUpdateIsPartial(t *testing.T) {
	db := newTestDB(t)

	prefs, err := GetOrCreate(db, 1, testDefaults())
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	input := UpdateInput{
		ChromeNotificationTime: strPtr("09:00"),
		TotalSchoolDays:        intPtr(240),
	}

	if err := ApplyUpdate(db, prefs, input); err != nil {
		t.Fatalf("ApplyUpdate failed: %v", err)
	}

	var stored models.Preferences
	if err := db.Where("user_id = ?", 1).First(&stored).Error; err != nil {
		t.Fatalf("failed to fetch preferences: %v", err)
	}

	if stored.ChromeNotificationTime != "09:00" {
		t.Errorf("expected chrome time 09:00, got %s", stored.ChromeNotificationTime)
	}

	if stored.EmailNotificationTime != "06:30" {
		t.Errorf("untouched email time changed: %s", stored.EmailNotificationTime)
	}

	if stored.TotalSchoolDays != 240 {
		t.Errorf("expected 240 school days, got %d", stored.TotalSchoolDays)
	}

	if !stored.ChromeNotificationsEnabled {
		t.Error("untouched enabled flag changed")
	}
}

func TestApplyUpdateExplicitFalseOverwrites(t *testing.T) {
	db := newTestDB(t)

	prefs, err := GetOrCreate(db, 1, testDefaults())
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	input := UpdateInput{
		ChromeNotificationsEnabled: boolPtr(false),
		EmailNotificationsEnabled:  boolPtr(true),
	}

	if err := ApplyUpdate(db, prefs, input); err != nil {
		t.Fatalf("ApplyUpdate failed: %v", err)
	}

	var stored models.Preferences
	if err := db.Where("user_id = ?", 1).First(&stored).Error; err != nil {
		t.Fatalf("failed to fetch preferences: %v", err)
	}

	if stored.ChromeNotificationsEnabled {
		t.Error("explicit false did not overwrite chrome_notifications_enabled")
	}

	if !stored.EmailNotificationsEnabled {
		t.Error("explicit true did not keep email_notifications_enabled")
	}
}

func TestApplyUpdateRejectsBadValues(t *testing.T) {
	db := newTestDB(t)

	prefs, err := GetOrCreate(db, 1, testDefaults())
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	if err := ApplyUpdate(db, prefs, UpdateInput{ChromeNotificationTime: strPtr("25:99")}); err != ErrInvalidTime {
		t.Errorf("expected ErrInvalidTime, got %v", err)
	}

	if err := ApplyUpdate(db, prefs, UpdateInput{TotalSchoolDays: intPtr(0)}); err != ErrInvalidSchoolDays {
		t.Errorf("expected ErrInvalidSchoolDays, got %v", err)
	}

	var stored models.Preferences
	if err := db.Where("user_id = ?", 1).First(&stored).Error; err != nil {
		t.Fatalf("failed to fetch preferences: %v", err)
	}

	if stored.ChromeNotificationTime != "06:30" || stored.TotalSchoolDays != 220 {
		t.Errorf("rejected update still modified the row: %+v", stored)
	}
}
