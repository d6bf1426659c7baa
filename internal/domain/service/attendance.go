package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/teamtrack/attendance-bot/internal/domain"
	"github.com/teamtrack/attendance-bot/internal/domain/contract"
	"github.com/teamtrack/attendance-bot/internal/domain/entity"
)

// defaultRoster seeds the roster on first run.
var defaultRoster = []entity.Person{
	{ID: "bhavya", DisplayName: "Bhavya"},
	{ID: "sahana", DisplayName: "Sahana"},
	{ID: "asha", DisplayName: "Asha"},
	{ID: "srikanth", DisplayName: "Srikanth"},
}

type attendanceService struct {
	dm  contract.DataManager
	loc *time.Location
	now func() time.Time

	// guards the last-seen day key used for rollover detection
	mu         sync.Mutex
	lastDayKey string
}

func newAttendance(dm contract.DataManager, loc *time.Location) *attendanceService {
	if loc == nil {
		loc = time.Local
	}
	return &attendanceService{
		dm:  dm,
		loc: loc,
		now: time.Now,
	}
}

// todayKey computes the current day key in the service's timezone.
func (s *attendanceService) todayKey() string {
	return domain.DayKeyFor(s.now().In(s.loc))
}

// trackRollover records the observed day key and logs the day boundary. The
// ledger is never touched here: rollover only stops projecting stale days,
// history survives for reporting.
func (s *attendanceService) trackRollover(dayKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastDayKey != "" && s.lastDayKey != dayKey {
		slog.Info("day rolled over", "from", s.lastDayKey, "to", dayKey)
	}
	s.lastDayKey = dayKey
}

func (s *attendanceService) LoadToday(ctx context.Context) (*entity.DaySheet, error) {
	dayKey := s.todayKey()
	s.trackRollover(dayKey)

	roster, err := s.dm.Roster().List()
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	if len(roster) == 0 {
		roster, err = s.seedDefaultRoster(ctx)
		if err != nil {
			return nil, err
		}
	}

	records, err := s.dm.Ledger().AllForDay(dayKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load today's submissions: %w", err)
	}

	sheet := &entity.DaySheet{
		DayKey:   dayKey,
		Roster:   roster,
		Statuses: make(map[string]domain.Status, len(roster)),
	}
	for _, p := range roster {
		sheet.Statuses[p.ID] = domain.StatusNotSet
	}
	for _, rec := range records {
		if _, onRoster := sheet.Statuses[rec.PersonID]; !onRoster {
			continue
		}
		if !rec.Status.IsValid() {
			// Corrupt stored value: degrade to NotSet instead of failing the load.
			slog.Warn("ignoring malformed stored status",
				"person", rec.PersonID, "day", rec.DayKey, "status", string(rec.Status))
			continue
		}
		sheet.Statuses[rec.PersonID] = rec.Status
	}

	return sheet, nil
}

func (s *attendanceService) seedDefaultRoster(ctx context.Context) ([]*entity.Person, error) {
	err := s.dm.WithTransaction(ctx, func(tx contract.DataManager) error {
		for i := range defaultRoster {
			p := defaultRoster[i]
			if err := tx.Roster().Add(&p); err != nil {
				return fmt.Errorf("failed to seed person %s: %w", p.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("seeded default roster", "members", len(defaultRoster))
	return s.dm.Roster().List()
}

func (s *attendanceService) SetStatus(ctx context.Context, actor contract.Actor, targetPersonID string, status domain.Status, confirm contract.ConfirmFunc) (*entity.AttendanceRecord, bool, error) {
	targetPersonID = normalizeID(targetPersonID)

	if !status.IsValid() || status == domain.StatusNotSet {
		return nil, false, domain.ErrMalformed(fmt.Sprintf("invalid status %q", status))
	}

	if actor.Role != domain.RoleManager && actor.PersonID != targetPersonID {
		return nil, false, domain.ErrPermission("self-only: employees may set only their own status")
	}

	person, err := s.dm.Roster().GetByID(targetPersonID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check roster: %w", err)
	}
	if person == nil {
		return nil, false, domain.ErrNotFound(fmt.Sprintf("person %q is not on the roster", targetPersonID))
	}

	dayKey := s.todayKey()
	existing, err := s.dm.Ledger().Get(targetPersonID, dayKey)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check existing submission: %w", err)
	}

	setBy := domain.SetBySelf
	if actor.Role == domain.RoleManager && actor.PersonID != targetPersonID {
		setBy = domain.SetByManager
	}

	// A self re-edit with a different status needs explicit confirmation.
	// Declining is a no-op with the prior record preserved, not an error.
	if setBy == domain.SetBySelf && existing != nil && existing.Status != status {
		if confirm == nil || !confirm(existing) {
			return existing, false, nil
		}
	}

	timestamp := s.now().In(s.loc)
	if existing != nil && timestamp.Before(existing.Timestamp) {
		// Timestamps never decrease for a (person, day) pair; the write
		// itself still wins unconditionally.
		timestamp = existing.Timestamp
	}

	record := &entity.AttendanceRecord{
		PersonID:  targetPersonID,
		DayKey:    dayKey,
		Status:    status,
		Timestamp: timestamp,
		SetByRole: setBy,
	}

	if err := s.dm.Ledger().Put(record); err != nil {
		return nil, false, fmt.Errorf("failed to store submission: %w", err)
	}

	return record, true, nil
}

func (s *attendanceService) HasSubmittedToday(ctx context.Context, personID string) (*entity.AttendanceRecord, error) {
	return s.dm.Ledger().Get(normalizeID(personID), s.todayKey())
}

func (s *attendanceService) AddPerson(ctx context.Context, actor contract.Actor, person *entity.Person) error {
	if actor.Role != domain.RoleManager {
		return domain.ErrPermission("only managers can add persons")
	}

	person.ID = normalizeID(person.ID)
	if person.ID == "" {
		return domain.ErrMalformed("person id is required")
	}
	if person.DisplayName == "" {
		person.DisplayName = strings.ToUpper(person.ID[:1]) + person.ID[1:]
	}

	existing, err := s.dm.Roster().GetByID(person.ID)
	if err != nil {
		return fmt.Errorf("failed to check roster: %w", err)
	}
	if existing != nil {
		return domain.ErrDuplicate(fmt.Sprintf("person %q already exists", person.ID))
	}

	return s.dm.Roster().Add(person)
}

func (s *attendanceService) RemovePerson(ctx context.Context, actor contract.Actor, personID string) error {
	if actor.Role != domain.RoleManager {
		return domain.ErrPermission("only managers can remove persons")
	}

	personID = normalizeID(personID)
	person, err := s.dm.Roster().GetByID(personID)
	if err != nil {
		return fmt.Errorf("failed to check roster: %w", err)
	}
	if person == nil {
		return domain.ErrNotFound(fmt.Sprintf("person %q is not on the roster", personID))
	}

	// Removal drops the person and their login sessions, never their
	// submission history.
	return s.dm.WithTransaction(ctx, func(tx contract.DataManager) error {
		if err := tx.Roster().Remove(personID); err != nil {
			return err
		}
		return tx.Session().DeleteByPersonID(personID)
	})
}

func (s *attendanceService) ResetToday(ctx context.Context, actor contract.Actor) error {
	if actor.Role != domain.RoleManager {
		return domain.ErrPermission("only managers can reset attendance")
	}

	return s.dm.Ledger().DeleteForDay(s.todayKey())
}

func (s *attendanceService) PurgeHistory(ctx context.Context, actor contract.Actor) (int64, error) {
	if actor.Role != domain.RoleManager {
		return 0, domain.ErrPermission("only managers can purge history")
	}

	return s.dm.Ledger().PurgeOlderThan(s.todayKey())
}

func (s *attendanceService) AllForDay(ctx context.Context, dayKey string) ([]*entity.AttendanceRecord, error) {
	return s.dm.Ledger().AllForDay(dayKey)
}

func (s *attendanceService) Login(ctx context.Context, slackUserID, personID string, role domain.Role) (*entity.Session, error) {
	personID = normalizeID(personID)

	if role == domain.RoleEmployee || personID != "" {
		person, err := s.dm.Roster().GetByID(personID)
		if err != nil {
			return nil, fmt.Errorf("failed to check roster: %w", err)
		}
		if person == nil {
			return nil, domain.ErrNotFound(fmt.Sprintf("person %q is not on the roster", personID))
		}
	}

	session := &entity.Session{
		SlackUserID: slackUserID,
		PersonID:    personID,
		Role:        role,
		CreatedAt:   s.now().In(s.loc),
	}
	if err := s.dm.Session().Save(session); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *attendanceService) Logout(ctx context.Context, slackUserID string) error {
	return s.dm.Session().Delete(slackUserID)
}

func (s *attendanceService) SessionFor(ctx context.Context, slackUserID string) (*entity.Session, error) {
	return s.dm.Session().GetBySlackUserID(slackUserID)
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
