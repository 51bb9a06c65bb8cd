package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/rollcall-dev/rollcall/db"
	"github.com/rollcall-dev/rollcall/internal/config"
	"github.com/rollcall-dev/rollcall/internal/models"
	"github.com/rollcall-dev/rollcall/internal/notifications"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())

	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Preferences{},
		&models.NotificationTrigger{},
		&models.ReminderRun{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = testDB

	return NewScheduler(&config.Config{
		ReminderCronSpec: "30 6 * * *",
		PurgeCronSpec:    "0 2 * * *",
		TriggerRetention: 24 * time.Hour,
	})
}

func seedUser(t *testing.T, username string, chromeEnabled, emailEnabled bool) uint {
	t.Helper()

	user := models.User{
		Username:     username,
		FirstName:    "Test",
		Email:        username + "@example.com",
		PasswordHash: "x",
	}

	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	prefs := models.Preferences{
		UserID:                     user.ID,
		ChromeNotificationTime:     "06:30",
		EmailNotificationTime:      "06:30",
		ChromeNotificationsEnabled: chromeEnabled,
		EmailNotificationsEnabled:  emailEnabled,
		TotalSchoolDays:            220,
	}

	if err := db.DB.Create(&prefs).Error; err != nil {
		t.Fatalf("failed to create preferences: %v", err)
	}

	return user.ID
}

func TestReminderFanoutCreatesTriggersForOptedInUsers(t *testing.T) {
	s := newTestScheduler(t)

	enabled := seedUser(t, "enabled", true, false)
	alsoEnabled := seedUser(t, "also-enabled", true, false)
	seedUser(t, "disabled", false, false)

	s.runReminderFanout()

	for _, userID := range []uint{enabled, alsoEnabled} {
		pending, err := notifications.ListPending(db.DB, userID)
		if err != nil {
			t.Fatalf("ListPending failed: %v", err)
		}
		if len(pending) != 1 {
			t.Errorf("expected one trigger for user %d, got %d", userID, len(pending))
		}
	}

	var total int64
	db.DB.Model(&models.NotificationTrigger{}).Count(&total)

	if total != 2 {
		t.Errorf("disabled user must not receive a trigger, got %d total", total)
	}
}

func TestReminderFanoutIsolatesPerUserFailures(t *testing.T) {
	s := newTestScheduler(t)

	// The mailer is uninitialized in tests, so an email-enabled user is a
	// guaranteed per-user failure. The chrome trigger must still land and
	// other users must still be processed.
	flaky := seedUser(t, "flaky", true, true)
	healthy := seedUser(t, "healthy", true, false)

	s.runReminderFanout()

	for _, userID := range []uint{flaky, healthy} {
		pending, err := notifications.ListPending(db.DB, userID)
		if err != nil {
			t.Fatalf("ListPending failed: %v", err)
		}
		if len(pending) != 1 {
			t.Errorf("expected one trigger for user %d, got %d", userID, len(pending))
		}
	}

	var run models.ReminderRun
	if err := db.DB.Where("job = ?", "reminder_fanout").First(&run).Error; err != nil {
		t.Fatalf("expected a stored run result: %v", err)
	}

	if run.Summary == "" {
		t.Error("run summary should be human readable, got empty string")
	}
}

func TestReminderFanoutRerunDuplicatesTriggers(t *testing.T) {
	s := newTestScheduler(t)

	userID := seedUser(t, "rerun", true, false)

	s.runReminderFanout()
	s.runReminderFanout()

	pending, err := notifications.ListPending(db.DB, userID)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}

	if len(pending) != 2 {
		t.Errorf("reruns append without dedup, expected 2 triggers, got %d", len(pending))
	}
}

func TestTriggerPurgeJob(t *testing.T) {
	s := newTestScheduler(t)

	userID := seedUser(t, "purged", true, false)

	old, err := notifications.CreateTrigger(db.DB, userID, "")
	if err != nil {
		t.Fatalf("CreateTrigger failed: %v", err)
	}

	err = db.DB.Model(&models.NotificationTrigger{}).
		Where("id = ?", old.ID).
		Update("created_at", time.Now().Add(-25*time.Hour)).Error
	if err != nil {
		t.Fatalf("failed to backdate trigger: %v", err)
	}

	if _, err := notifications.CreateTrigger(db.DB, userID, ""); err != nil {
		t.Fatalf("CreateTrigger failed: %v", err)
	}

	s.runTriggerPurge()

	var remaining int64
	db.DB.Model(&models.NotificationTrigger{}).Count(&remaining)

	if remaining != 1 {
		t.Errorf("expected one trigger after purge, got %d", remaining)
	}

	var run models.ReminderRun
	if err := db.DB.Where("job = ?", "trigger_purge").First(&run).Error; err != nil {
		t.Fatalf("expected a stored run result: %v", err)
	}

	if run.Processed != 1 {
		t.Errorf("expected processed=1 in run result, got %d", run.Processed)
	}
}
