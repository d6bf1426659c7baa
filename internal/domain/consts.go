package domain

import "time"

// Status is one person's attendance choice for one day.
type Status string

const (
	StatusNotSet       Status = "not-set"
	StatusPresent      Status = "present"
	StatusWorkFromHome Status = "wfh"
	StatusOnLeave      Status = "absent"
	StatusClientOffice Status = "client"
)

// StatusLabels maps wire values to the labels used in boards and reports.
var StatusLabels = map[Status]string{
	StatusNotSet:       "Not Set",
	StatusPresent:      "Present in Office",
	StatusWorkFromHome: "Work From Home",
	StatusOnLeave:      "On Leave",
	StatusClientOffice: "Client Office",
}

// ParseStatus resolves user input to a Status, accepting the aliases the
// manual-entry flow supports. Returns false for unknown input.
func ParseStatus(s string) (Status, bool) {
	switch s {
	case "present", "office":
		return StatusPresent, true
	case "wfh", "home":
		return StatusWorkFromHome, true
	case "leave", "absent":
		return StatusOnLeave, true
	case "client":
		return StatusClientOffice, true
	case "not-set":
		return StatusNotSet, true
	}
	return StatusNotSet, false
}

// IsValid reports whether s is a member of the closed status enumeration.
func (s Status) IsValid() bool {
	_, ok := StatusLabels[s]
	return ok
}

// Label returns the human-readable label for s. Unknown stored values degrade
// to the NotSet label instead of failing.
func (s Status) Label() string {
	if label, ok := StatusLabels[s]; ok {
		return label
	}
	return StatusLabels[StatusNotSet]
}

// Role is the acting role of a caller.
type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// SetBy records which role wrote an attendance record.
type SetBy string

const (
	SetBySelf    SetBy = "self"
	SetByManager SetBy = "manager"
)

// DayKeyLayout renders a calendar day without time-of-day. All per-day state
// is scoped by this key; comparing two keys for equality is the rollover test.
const DayKeyLayout = "2006-01-02"

// DayKeyFor returns the day key for t in t's location.
func DayKeyFor(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// ISO 8601 weekday constants used by the summary scheduler.
const (
	Monday    = 1
	Tuesday   = 2
	Wednesday = 3
	Thursday  = 4
	Friday    = 5
	Saturday  = 6
	Sunday    = 7
)

// DefaultActiveDays represents Monday through Friday in ISO format.
var DefaultActiveDays = []int{Monday, Tuesday, Wednesday, Thursday, Friday}
