package contract

import (
	"context"

	"github.com/teamtrack/attendance-bot/internal/domain/entity"
)

// DataManager aggregates all repository interfaces
type DataManager interface {
	WithTransaction(ctx context.Context, fn func(dm DataManager) error) error
	Roster() RosterRepo
	Ledger() LedgerRepo
	Session() SessionRepo
}

// RosterRepo defines the contract for the roster of trackable persons.
// Roster membership changes independently of historical submissions.
type RosterRepo interface {
	Add(person *entity.Person) error
	GetByID(personID string) (*entity.Person, error)
	List() ([]*entity.Person, error)
	Remove(personID string) error
}

// LedgerRepo defines the contract for the submission ledger: the durable
// collection of attendance records, upserted by (personID, dayKey).
type LedgerRepo interface {
	// Get returns the record for the pair, or nil when no submission exists.
	Get(personID, dayKey string) (*entity.AttendanceRecord, error)

	// Put upserts by (personID, dayKey). Last write wins unconditionally:
	// no merge, no timestamp-ordering guard.
	Put(record *entity.AttendanceRecord) error

	// AllForDay returns the day's records ordered by roster position, with
	// records of removed persons after current members.
	AllForDay(dayKey string) ([]*entity.AttendanceRecord, error)

	// DeleteForDay removes every record scoped to the given day.
	DeleteForDay(dayKey string) error

	// PurgeOlderThan removes every record whose day key differs from the
	// given one. Idempotent. Returns the number of removed records.
	PurgeOlderThan(dayKey string) (int64, error)
}

// SessionRepo defines the contract for Slack-user login sessions
type SessionRepo interface {
	Save(session *entity.Session) error
	GetBySlackUserID(slackUserID string) (*entity.Session, error)
	Delete(slackUserID string) error
	DeleteByPersonID(personID string) error
}
