package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/teamtrack/attendance-bot/internal/domain"
)

type Config struct {
	SlackBotToken      string
	SlackSigningSecret string
	SlackChannelID     string
	ManagerPassword    string
	DatabasePath       string
	Port               string
	Timezone           string
	SummaryTime        string
	ActiveDays         []int
}

func Load() *Config {
	return &Config{
		SlackBotToken:      getEnv("SLACK_BOT_TOKEN", ""),
		SlackSigningSecret: getEnv("SLACK_SIGNING_SECRET", ""),
		SlackChannelID:     getEnv("SLACK_CHANNEL_ID", ""),
		ManagerPassword:    getEnv("MANAGER_PASSWORD", "admin123"),
		DatabasePath:       getEnv("DATABASE_PATH", "./attendance.db"),
		Port:               getEnv("PORT", "3000"),
		Timezone:           getEnv("TIMEZONE", "Local"),
		SummaryTime:        getEnv("SUMMARY_TIME", "09:30"),
		ActiveDays:         parseActiveDays(getEnv("ACTIVE_DAYS", "")),
	}
}

// Location resolves the configured timezone, falling back to the process
// timezone when it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		slog.Warn("invalid TIMEZONE, falling back to local", "timezone", c.Timezone)
		return time.Local
	}
	return loc
}

// parseActiveDays reads a comma-separated list of ISO weekday numbers
// (1=Mon .. 7=Sun); invalid or empty input yields Monday-Friday.
func parseActiveDays(value string) []int {
	if strings.TrimSpace(value) == "" {
		return domain.DefaultActiveDays
	}

	var days []int
	for _, part := range strings.Split(value, ",") {
		day, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || day < domain.Monday || day > domain.Sunday {
			continue
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return domain.DefaultActiveDays
	}
	return days
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
