package contract

import (
	"context"

	"github.com/teamtrack/attendance-bot/internal/domain"
	"github.com/teamtrack/attendance-bot/internal/domain/entity"
)

// Actor identifies who is calling a mutation. PersonID is empty for a manager
// that is not also a roster member.
type Actor struct {
	PersonID string
	Role     domain.Role
}

// ConfirmFunc is the yes/no capability the boundary layer passes into
// SetStatus for the re-edit flow. It receives the existing record and returns
// whether the overwrite may proceed. A nil ConfirmFunc means the caller did
// not offer confirmation, which blocks a conflicting re-edit.
type ConfirmFunc func(prev *entity.AttendanceRecord) bool

// AttendanceService owns the role-aware view of who is marked as what today
// and gates every mutation by permission.
type AttendanceService interface {
	// LoadToday computes today's day key and builds the projection over the
	// current roster, defaulting absent submissions to NotSet. Seeds the
	// default roster on first run.
	LoadToday(ctx context.Context) (*entity.DaySheet, error)

	// SetStatus writes a submission for targetPersonID. Managers may target
	// anyone; employees only themselves. applied is false when a conflicting
	// re-edit was declined via confirm, which is a no-op, not an error.
	SetStatus(ctx context.Context, actor Actor, targetPersonID string, status domain.Status, confirm ConfirmFunc) (record *entity.AttendanceRecord, applied bool, err error)

	// HasSubmittedToday returns today's record for the person, or nil.
	HasSubmittedToday(ctx context.Context, personID string) (*entity.AttendanceRecord, error)

	// AddPerson appends a person to the roster. Manager-only.
	AddPerson(ctx context.Context, actor Actor, person *entity.Person) error

	// RemovePerson removes a person from the roster without deleting their
	// submission history. Manager-only.
	RemovePerson(ctx context.Context, actor Actor, personID string) error

	// ResetToday clears every record scoped to today, for everyone.
	// Manager-only.
	ResetToday(ctx context.Context, actor Actor) error

	// PurgeHistory removes every record not scoped to today. Manager-only
	// retention cleanup; never triggered implicitly by rollover.
	PurgeHistory(ctx context.Context, actor Actor) (int64, error)

	// AllForDay exposes the ledger's day slice for reporting.
	AllForDay(ctx context.Context, dayKey string) ([]*entity.AttendanceRecord, error)

	// Login binds a Slack user to a person and role; Logout clears it.
	Login(ctx context.Context, slackUserID, personID string, role domain.Role) (*entity.Session, error)
	Logout(ctx context.Context, slackUserID string) error
	SessionFor(ctx context.Context, slackUserID string) (*entity.Session, error)
}
