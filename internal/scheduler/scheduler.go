package scheduler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rollcall-dev/rollcall/db"
	"github.com/rollcall-dev/rollcall/internal/config"
	"github.com/rollcall-dev/rollcall/internal/models"
	"github.com/rollcall-dev/rollcall/internal/notifications"
	"github.com/rollcall-dev/rollcall/internal/services"
	log "github.com/sirupsen/logrus"
)

// Scheduler owns the two recurring jobs: the daily reminder fan-out and
// the trigger purge. Both run on deploy-time cron specs; the per-user
// notification time in Preferences is stored but does not move them.
type Scheduler struct {
	cron *cron.Cron
	cfg  *config.Config
}

func NewScheduler(cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		cfg:  cfg,
	}
}

// Start registers both jobs and begins the cron loop.
func (s *Scheduler) Start() error {
	log.Info("Starting scheduler...")

	if _, err := s.cron.AddFunc(s.cfg.ReminderCronSpec, s.runReminderFanout); err != nil {
		return fmt.Errorf("invalid reminder cron spec %q: %w", s.cfg.ReminderCronSpec, err)
	}

	if _, err := s.cron.AddFunc(s.cfg.PurgeCronSpec, s.runTriggerPurge); err != nil {
		return fmt.Errorf("invalid purge cron spec %q: %w", s.cfg.PurgeCronSpec, err)
	}

	s.cron.Start()

	log.Infof("Scheduler started (reminders %q, purge %q)", s.cfg.ReminderCronSpec, s.cfg.PurgeCronSpec)
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	log.Info("Stopping scheduler...")
	<-s.cron.Stop().Done()
	log.Info("Scheduler stopped")
}

// runReminderFanout creates one trigger per opted-in user and, for users
// who also want email, sends the reminder mail. Failures are isolated per
// user so one bad record never aborts the batch.
func (s *Scheduler) runReminderFanout() {
	started := time.Now()

	var prefs []models.Preferences

	err := db.DB.Preload("User").
		Where("chrome_notifications_enabled = ? OR email_notifications_enabled = ?", true, true).
		Find(&prefs).Error

	if err != nil {
		log.Errorf("Reminder fan-out failed to list preferences: %v", err)
		return
	}

	triggered := 0
	emailed := 0
	failed := 0

	for _, pref := range prefs {
		if pref.ChromeNotificationsEnabled {
			trigger, err := notifications.CreateTrigger(db.DB, pref.UserID, notifications.TypeAttendanceReminder)

			if err != nil {
				failed++
				log.Errorf("Failed to create trigger for user %d: %v", pref.UserID, err)
			} else {
				triggered++
				notifications.BroadcastTrigger(pref.UserID, trigger)
			}
		}

		if pref.EmailNotificationsEnabled && pref.User.Email != "" {
			if err := services.SendAttendanceReminder(pref.User.Email, pref.User.FirstName, s.cfg.SenderEmail); err != nil {
				failed++
				log.Errorf("Failed to email reminder to user %d: %v", pref.UserID, err)
			} else {
				emailed++
			}
		}
	}

	summary := fmt.Sprintf("Created %d triggers, sent %d emails, %d failures", triggered, emailed, failed)
	log.Info(summary)

	s.storeRun("reminder_fanout", started, triggered+emailed, summary, map[string]interface{}{
		"triggered":  triggered,
		"emailed":    emailed,
		"failed":     failed,
		"candidates": len(prefs),
	})
}

// runTriggerPurge deletes triggers older than the retention window,
// regardless of read state.
func (s *Scheduler) runTriggerPurge() {
	started := time.Now()

	deleted, err := notifications.PurgeOlderThan(db.DB, s.cfg.TriggerRetention)

	if err != nil {
		log.Errorf("Trigger purge failed: %v", err)
		return
	}

	summary := fmt.Sprintf("Cleaned up %d old notification triggers", deleted)
	log.Info(summary)

	s.storeRun("trigger_purge", started, int(deleted), summary, map[string]interface{}{
		"deleted":   deleted,
		"retention": s.cfg.TriggerRetention.String(),
	})
}

// storeRun saves the advisory result row. Nothing reads it back in code;
// it exists for operators.
func (s *Scheduler) storeRun(job string, started time.Time, processed int, summary string, details map[string]interface{}) {
	detailsJSON, err := json.Marshal(details)

	if err != nil {
		log.Errorf("Failed to marshal run details for %s: %v", job, err)
		detailsJSON = nil
	}

	run := models.ReminderRun{
		Job:        job,
		Processed:  processed,
		Summary:    summary,
		Details:    detailsJSON,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}

	if err := db.DB.Create(&run).Error; err != nil {
		log.Errorf("Failed to store run result for %s: %v", job, err)
	}
}

// Global scheduler instance
var globalScheduler *Scheduler

// Initialize creates and starts the global scheduler
func Initialize(cfg *config.Config) error {
	globalScheduler = NewScheduler(cfg)
	return globalScheduler.Start()
}

// Shutdown stops the global scheduler
func Shutdown() {
	if globalScheduler != nil {
		globalScheduler.Stop()
	}
}
