package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rollcall-dev/rollcall/db"
	"github.com/rollcall-dev/rollcall/internal/notifications"
	"github.com/rollcall-dev/rollcall/internal/utils"
	log "github.com/sirupsen/logrus"
)

type TriggerResponse struct {
	ID               uint      `json:"id"`
	NotificationType string    `json:"notification_type"`
	CreatedAt        time.Time `json:"created_at"`
}

// CheckNotifications handles GET /notifications/check, the polling
// endpoint clients hit to learn about pending reminders.
func CheckNotifications(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	triggers, err := notifications.ListPending(db.DB, userID)

	if err != nil {
		log.Errorf("Failed to list triggers for user %d: %v", userID, err)
		ctx.JSON(http.StatusOK, gin.H{"success": false, "message": "Could not check notifications: " + err.Error()})
		return
	}

	responses := make([]TriggerResponse, 0, len(triggers))

	for _, trigger := range triggers {
		responses = append(responses, TriggerResponse{
			ID:               trigger.ID,
			NotificationType: trigger.NotificationType,
			CreatedAt:        trigger.CreatedAt,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":  true,
		"triggers": responses,
		"count":    len(responses),
	})
}

// MarkNotificationRead handles POST /notifications/mark-read. A trigger
// owned by someone else answers exactly like a missing one.
func MarkNotificationRead(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	raw := formOrJSONValue(ctx, "trigger_id")

	if raw == "" {
		ctx.JSON(http.StatusOK, gin.H{"success": false, "message": "The trigger_id field is required"})
		return
	}

	triggerID, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		ctx.JSON(http.StatusOK, gin.H{"success": false, "message": "trigger_id must be a number"})
		return
	}

	if err := notifications.MarkRead(db.DB, uint(triggerID), userID); err != nil {
		if errors.Is(err, notifications.ErrTriggerNotFound) {
			ctx.JSON(http.StatusOK, gin.H{"success": false, "message": "Notification trigger not found"})
			return
		}

		log.Errorf("Failed to mark trigger %d read for user %d: %v", triggerID, userID, err)
		ctx.JSON(http.StatusOK, gin.H{"success": false, "message": "Could not mark notification read: " + err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification marked as read"})
}
