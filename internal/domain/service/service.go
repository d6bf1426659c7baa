package service

import (
	"time"

	"github.com/teamtrack/attendance-bot/internal/domain/contract"
)

type Instance struct {
	Attendance contract.AttendanceService
	Scheduler  *scheduler
}

func NewInstance(dm contract.DataManager, slackClient contract.SlackClient, loc *time.Location, summary SummaryConfig) *Instance {
	attendance := newAttendance(dm, loc)

	return &Instance{
		Attendance: attendance,
		Scheduler:  newScheduler(attendance, slackClient, summary),
	}
}
