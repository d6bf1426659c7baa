package entity

import (
	"time"

	"github.com/teamtrack/attendance-bot/internal/domain"
)

// Person is a roster member. ID is a stable lowercase token, unique within
// the roster (case-insensitively); Position preserves roster order for
// deterministic board and report output.
type Person struct {
	ID          string
	DisplayName string
	Position    int
	CreatedAt   time.Time
}

// DaySheet is the derived projection of one day: every roster member mapped
// to a status, absent submissions defaulting to NotSet. It is read-through
// state; the submission ledger stays the source of truth.
type DaySheet struct {
	DayKey   string
	Roster   []*Person
	Statuses map[string]domain.Status
}

// StatusOf returns the projected status for a person id.
func (d *DaySheet) StatusOf(personID string) domain.Status {
	if s, ok := d.Statuses[personID]; ok {
		return s
	}
	return domain.StatusNotSet
}

// Pending returns the roster members that have no status yet, in roster order.
func (d *DaySheet) Pending() []*Person {
	var out []*Person
	for _, p := range d.Roster {
		if d.StatusOf(p.ID) == domain.StatusNotSet {
			out = append(out, p)
		}
	}
	return out
}
