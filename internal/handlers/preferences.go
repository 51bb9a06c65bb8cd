package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rollcall-dev/rollcall/db"
	"github.com/rollcall-dev/rollcall/internal/preferences"
	"github.com/rollcall-dev/rollcall/internal/utils"
	log "github.com/sirupsen/logrus"
)

type PreferencesResponse struct {
	ChromeNotificationTime     string `json:"chrome_notification_time"`
	EmailNotificationTime      string `json:"email_notification_time"`
	ChromeNotificationsEnabled bool   `json:"chrome_notifications_enabled"`
	EmailNotificationsEnabled  bool   `json:"email_notifications_enabled"`
	TotalSchoolDays            int    `json:"total_school_days"`
}

// GetPreferences handles GET /preferences, creating the row with defaults
// on a user's first visit.
func GetPreferences(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	prefs, err := preferences.GetOrCreate(db.DB, userID, preferenceDefaults())

	if err != nil {
		log.Errorf("Failed to load preferences for user %d: %v", userID, err)
		ctx.JSON(http.StatusOK, gin.H{"success": false, "message": "Could not load preferences: " + err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"preferences": PreferencesResponse{
			ChromeNotificationTime:     prefs.ChromeNotificationTime,
			EmailNotificationTime:      prefs.EmailNotificationTime,
			ChromeNotificationsEnabled: prefs.ChromeNotificationsEnabled,
			EmailNotificationsEnabled:  prefs.EmailNotificationsEnabled,
			TotalSchoolDays:            prefs.TotalSchoolDays,
		},
	})
}

// UpdatePreferences handles POST /preferences/update. The body may be JSON
// or form-encoded and any subset of fields; absent fields stay untouched,
// while the enabled flags overwrite whenever present, including explicit
// false. Conversion problems answer 200 with a descriptive message.
func UpdatePreferences(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	values, err := bindValues(ctx,
		"chrome_notification_time",
		"email_notification_time",
		"chrome_notifications_enabled",
		"email_notifications_enabled",
		"total_school_days",
	)

	if err != nil {
		ctx.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	var input preferences.UpdateInput

	if v, ok := values["chrome_notification_time"]; ok {
		input.ChromeNotificationTime = &v
	}

	if v, ok := values["email_notification_time"]; ok {
		input.EmailNotificationTime = &v
	}

	if v, ok := values["chrome_notifications_enabled"]; ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			ctx.JSON(http.StatusOK, gin.H{"success": false, "message": "chrome_notifications_enabled must be true or false"})
			return
		}
		input.ChromeNotificationsEnabled = &enabled
	}

	if v, ok := values["email_notifications_enabled"]; ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			ctx.JSON(http.StatusOK, gin.H{"success": false, "message": "email_notifications_enabled must be true or false"})
			return
		}
		input.EmailNotificationsEnabled = &enabled
	}

	if v, ok := values["total_school_days"]; ok {
		days, err := strconv.Atoi(v)
		if err != nil {
			ctx.JSON(http.StatusOK, gin.H{"success": false, "message": "total_school_days must be a whole number"})
			return
		}
		input.TotalSchoolDays = &days
	}

	prefs, err := preferences.GetOrCreate(db.DB, userID, preferenceDefaults())

	if err != nil {
		log.Errorf("Failed to load preferences for user %d: %v", userID, err)
		ctx.JSON(http.StatusOK, gin.H{"success": false, "message": "Could not load preferences: " + err.Error()})
		return
	}

	if err := preferences.ApplyUpdate(db.DB, prefs, input); err != nil {
		if errors.Is(err, preferences.ErrInvalidTime) || errors.Is(err, preferences.ErrInvalidSchoolDays) {
			ctx.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}

		log.Errorf("Failed to update preferences for user %d: %v", userID, err)
		ctx.JSON(http.StatusOK, gin.H{"success": false, "message": "Could not update preferences: " + err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Preferences updated successfully"})
}
