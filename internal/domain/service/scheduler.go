package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"github.com/teamtrack/attendance-bot/internal/domain/contract"
	"github.com/teamtrack/attendance-bot/internal/report"
)

// SummaryConfig drives the daily summary post. An empty ChannelID disables
// the scheduler; the core works without the refresh hint.
type SummaryConfig struct {
	ChannelID  string
	Time       string // HH:MM, 24-hour
	ActiveDays []int  // ISO 8601 weekday numbers
	Location   *time.Location
}

type scheduler struct {
	attendance  contract.AttendanceService
	slackClient contract.SlackClient
	cfg         SummaryConfig
	stopChan    chan struct{}
	running     bool
	now         func() time.Time
}

func newScheduler(attendance contract.AttendanceService, slackClient contract.SlackClient, cfg SummaryConfig) *scheduler {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &scheduler{
		attendance:  attendance,
		slackClient: slackClient,
		cfg:         cfg,
		stopChan:    make(chan struct{}),
		now:         time.Now,
	}
}

func (s *scheduler) Start() {
	if s.running {
		return
	}
	if s.cfg.ChannelID == "" {
		slog.Info("summary scheduler disabled: no channel configured")
		return
	}
	s.running = true
	slog.Info("summary scheduler starting", "time", s.cfg.Time, "channel", s.cfg.ChannelID)
	go s.mainLoop()
}

func (s *scheduler) Stop() {
	if !s.running {
		return
	}
	slog.Info("summary scheduler stopping")
	close(s.stopChan)
	s.running = false
}

func (s *scheduler) mainLoop() {
	for {
		nextTime := s.calculateNext(s.now().In(s.cfg.Location))
		if nextTime.IsZero() {
			slog.Warn("no valid summary schedule, checking again in 1 hour")
			timer := time.NewTimer(1 * time.Hour)
			select {
			case <-timer.C:
				continue
			case <-s.stopChan:
				timer.Stop()
				return
			}
		}

		slog.Info("next summary scheduled", "at", nextTime.Format("2006-01-02 15:04:05 MST"))

		timer := time.NewTimer(time.Until(nextTime))
		select {
		case <-timer.C:
			s.postSummary()
			// Wait 1 minute to prevent re-processing the same time
			time.Sleep(1 * time.Minute)

		case <-s.stopChan:
			timer.Stop()
			return
		}
	}
}

// calculateNext finds the next configured summary instant at or after now.
func (s *scheduler) calculateNext(now time.Time) time.Time {
	parts := strings.Split(s.cfg.Time, ":")
	if len(parts) != 2 {
		slog.Error("invalid summary time format", "time", s.cfg.Time)
		return time.Time{}
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		slog.Error("invalid hour in summary time", "hour", parts[0])
		return time.Time{}
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		slog.Error("invalid minute in summary time", "minute", parts[1])
		return time.Time{}
	}

	if len(s.cfg.ActiveDays) == 0 {
		slog.Error("no active days configured for summary")
		return time.Time{}
	}

	activeDaysMap := make(map[int]bool)
	for _, day := range s.cfg.ActiveDays {
		activeDaysMap[day] = true
	}

	// Try today first
	today := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, s.cfg.Location)
	if activeDaysMap[isoWeekday(today)] && today.After(now) {
		return today
	}

	// Find next active day
	for i := 1; i <= 7; i++ {
		nextDay := today.AddDate(0, 0, i)
		if activeDaysMap[isoWeekday(nextDay)] {
			return nextDay
		}
	}

	return time.Time{}
}

// isoWeekday maps Go's Sunday=0 to ISO 8601's Sunday=7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// postSummary posts the day's report to the configured channel. Failures are
// logged and dropped: the summary is a best-effort refresh hint, never a
// dependency of the core.
func (s *scheduler) postSummary() {
	sheet, err := s.attendance.LoadToday(context.Background())
	if err != nil {
		slog.Error("failed to load today's sheet for summary", "error", err)
		return
	}

	message := fmt.Sprintf("%s\n%s", report.BuildText(sheet, s.now().In(s.cfg.Location)), report.Summary(sheet))

	_, _, err = s.slackClient.PostMessage(
		s.cfg.ChannelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(false),
	)
	if err != nil {
		slog.Error("failed to post daily summary", "error", err)
		return
	}

	slog.Info("daily summary posted", "channel", s.cfg.ChannelID, "day", sheet.DayKey)
}
