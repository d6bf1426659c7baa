package entity

import (
	"time"

	"github.com/teamtrack/attendance-bot/internal/domain"
)

// AttendanceRecord is one person's status submission for one day. At most one
// record exists per (PersonID, DayKey) pair; a new submission for the same
// pair replaces the prior one. Timestamp is the moment of last write and is
// monotonically non-decreasing for a given pair.
type AttendanceRecord struct {
	PersonID  string
	DayKey    string
	Status    domain.Status
	Timestamp time.Time
	SetByRole domain.SetBy
}
