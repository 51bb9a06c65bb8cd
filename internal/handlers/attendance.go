package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rollcall-dev/rollcall/db"
	"github.com/rollcall-dev/rollcall/internal/attendance"
	"github.com/rollcall-dev/rollcall/internal/models"
	"github.com/rollcall-dev/rollcall/internal/utils"
	log "github.com/sirupsen/logrus"
)

type RecordResponse struct {
	ID     uint   `json:"id"`
	Date   string `json:"date"`
	Day    int    `json:"day"`
	Month  int    `json:"month"`
	Status string `json:"status"`
}

// MarkAttendance handles POST /mark. Failures that the user can fix (bad
// status, bad date) come back as 200 with success=false; only transport
// and auth problems use error status codes.
func MarkAttendance(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	values, err := bindValues(ctx, "status", "date")

	if err != nil {
		ctx.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	status, ok := values["status"]

	if !ok || status == "" {
		ctx.JSON(http.StatusOK, gin.H{"success": false, "message": "The status field is required"})
		return
	}

	record, err := attendance.Mark(db.DB, userID, values["date"], status)

	if err != nil {
		if errors.Is(err, attendance.ErrInvalidStatus) || errors.Is(err, attendance.ErrInvalidDate) {
			ctx.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
			return
		}

		log.Errorf("Failed to mark attendance for user %d: %v", userID, err)
		ctx.JSON(http.StatusOK, gin.H{"success": false, "message": "Could not save attendance: " + err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Attendance marked as " + attendance.StatusOf(record),
		"status":  attendance.StatusOf(record),
		"date":    record.Date,
	})
}

// CheckTodayAttendance handles GET /api/attendance/today.
func CheckTodayAttendance(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	today := time.Now().Format(attendance.DateLayout)

	marked, err := attendance.MarkedOn(db.DB, userID, today)

	if err != nil {
		log.Errorf("Failed to check today's attendance for user %d: %v", userID, err)
		ctx.JSON(http.StatusOK, gin.H{"success": false, "message": "Could not check attendance: " + err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"marked": marked, "date": today})
}

// GetAttendanceStats handles GET /api/attendance/stats. Stats always come
// from the full ledger, even when the history view is date-filtered.
func GetAttendanceStats(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	records, err := attendance.List(db.DB, userID, "", "")

	if err != nil {
		log.Errorf("Failed to list attendance for user %d: %v", userID, err)
		ctx.JSON(http.StatusOK, gin.H{"success": false, "message": "Could not load attendance: " + err.Error()})
		return
	}

	stats := attendance.ComputeStats(records)

	ctx.JSON(http.StatusOK, gin.H{
		"total":      stats.Total,
		"present":    stats.Present,
		"absent":     stats.Absent,
		"school_off": stats.SchoolOff,
		"percentage": stats.Percentage,
	})
}

// ListAttendanceRecords handles GET /attendance/records with an optional
// inclusive start/end date range.
func ListAttendanceRecords(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	start := ctx.Query("start")
	end := ctx.Query("end")

	for _, value := range []string{start, end} {
		if value == "" {
			continue
		}
		if _, err := time.Parse(attendance.DateLayout, value); err != nil {
			ctx.JSON(http.StatusOK, gin.H{"success": false, "message": attendance.ErrInvalidDate.Error()})
			return
		}
	}

	records, err := attendance.List(db.DB, userID, start, end)

	if err != nil {
		log.Errorf("Failed to list attendance for user %d: %v", userID, err)
		ctx.JSON(http.StatusOK, gin.H{"success": false, "message": "Could not load attendance: " + err.Error()})
		return
	}

	responses := make([]RecordResponse, 0, len(records))

	for _, record := range records {
		responses = append(responses, recordResponse(record))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"records": responses,
		"count":   len(responses),
	})
}

func recordResponse(record models.AttendanceRecord) RecordResponse {
	return RecordResponse{
		ID:     record.ID,
		Date:   record.Date,
		Day:    record.Day,
		Month:  record.Month,
		Status: attendance.StatusOf(&record),
	}
}
