package attendance

import (
	"math"

	"github.com/rollcall-dev/rollcall/internal/models"
)

type Stats struct {
	Total      int     `json:"total"`
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	SchoolOff  int     `json:"school_off"`
	Percentage float64 `json:"percentage"`
}

// ComputeStats derives counts and the presence percentage from a record
// set. Callers must pass the user's full ledger; date-filtered views are a
// display concern and never feed the aggregate.
func ComputeStats(records []models.AttendanceRecord) Stats {
	stats := Stats{Total: len(records)}

	for _, record := range records {
		switch {
		case record.IsPresent:
			stats.Present++
		case record.IsSchoolOff:
			stats.SchoolOff++
		}
	}

	stats.Absent = stats.Total - stats.Present - stats.SchoolOff

	if stats.Total > 0 {
		stats.Percentage = math.Round(float64(stats.Present)/float64(stats.Total)*1000) / 10
	}

	return stats
}
