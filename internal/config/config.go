package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config collects every tunable the app used to hardcode. It is built once
// in main and injected; packages never reach for os.Getenv themselves.
type Config struct {
	Port   string
	Domain string

	// Origins allowed by CORS and websocket upgrades. Localhost dev origins
	// are always included; CLIENT_URL and ALLOWED_ORIGINS extend the list.
	AllowedOrigins []string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Cron specs for the two scheduled jobs. The dispatch time is a deploy
	// setting, not a per-user one; per-user notification times are stored
	// but do not move these schedules.
	ReminderCronSpec string
	PurgeCronSpec    string

	// Defaults applied when a Preferences row is first created.
	DefaultNotificationTime string
	DefaultTotalSchoolDays  int

	// Triggers older than this are purged regardless of read state.
	TriggerRetention time.Duration

	SenderEmail string
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func loadOrigins() []string {
	origins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}

func Load() *Config {
	return &Config{
		Port:   get("PORT", "3000"),
		Domain: get("DOMAIN", ""),

		AllowedOrigins: loadOrigins(),

		DBHost:     get("DB_HOST", "localhost"),
		DBPort:     get("DB_PORT", "5432"),
		DBUser:     get("DB_USER", "postgres"),
		DBPassword: get("DB_PASSWORD", ""),
		DBName:     get("DB_NAME", "rollcall"),
		DBSSLMode:  get("DB_SSLMODE", "disable"),

		ReminderCronSpec: get("REMINDER_CRON", "30 6 * * *"),
		PurgeCronSpec:    get("PURGE_CRON", "0 2 * * *"),

		DefaultNotificationTime: get("DEFAULT_NOTIFICATION_TIME", "06:30"),
		DefaultTotalSchoolDays:  getInt("DEFAULT_TOTAL_SCHOOL_DAYS", 220),

		TriggerRetention: getDuration("TRIGGER_RETENTION", 24*time.Hour),

		SenderEmail: get("SENDER_EMAIL", ""),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}
