package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamtrack/attendance-bot/internal/domain"
	"github.com/teamtrack/attendance-bot/internal/domain/entity"
)

func newRecord(personID, dayKey string, status domain.Status, ts time.Time) *entity.AttendanceRecord {
	return &entity.AttendanceRecord{
		PersonID:  personID,
		DayKey:    dayKey,
		Status:    status,
		Timestamp: ts,
		SetByRole: domain.SetBySelf,
	}
}

func TestLedgerRepo_PutAndGet(t *testing.T) {
	db := SetupTestDB(t)
	defer db.Close()

	ledgerRepo := newLedgerRepository(db.conn)
	now := time.Date(2025, 6, 2, 9, 15, 0, 0, time.UTC)

	t.Run("read your write", func(t *testing.T) {
		require.NoError(t, ledgerRepo.Put(newRecord("alice", "2025-06-02", domain.StatusPresent, now)))

		record, err := ledgerRepo.Get("alice", "2025-06-02")

		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, "alice", record.PersonID)
		assert.Equal(t, "2025-06-02", record.DayKey)
		assert.Equal(t, domain.StatusPresent, record.Status)
		assert.Equal(t, domain.SetBySelf, record.SetByRole)
		assert.True(t, record.Timestamp.Equal(now))
	})

	t.Run("should return nil when no submission exists", func(t *testing.T) {
		record, err := ledgerRepo.Get("alice", "2025-06-03")

		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("put is idempotent under identical input", func(t *testing.T) {
		rec := newRecord("bob", "2025-06-02", domain.StatusWorkFromHome, now)
		require.NoError(t, ledgerRepo.Put(rec))
		require.NoError(t, ledgerRepo.Put(rec))

		records, err := ledgerRepo.AllForDay("2025-06-02")
		require.NoError(t, err)
		assert.Len(t, records, 2) // alice from the previous subtest + bob once
	})

	t.Run("last write wins even with an older timestamp", func(t *testing.T) {
		earlier := now.Add(-2 * time.Hour)
		require.NoError(t, ledgerRepo.Put(newRecord("carol", "2025-06-02", domain.StatusPresent, now)))
		require.NoError(t, ledgerRepo.Put(newRecord("carol", "2025-06-02", domain.StatusOnLeave, earlier)))

		record, err := ledgerRepo.Get("carol", "2025-06-02")

		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, domain.StatusOnLeave, record.Status)
		assert.True(t, record.Timestamp.Equal(earlier))
	})
}

func TestLedgerRepo_AllForDay(t *testing.T) {
	db := SetupTestDB(t)
	defer db.Close()

	rosterRepo := newRosterRepository(db.conn)
	ledgerRepo := newLedgerRepository(db.conn)
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	// Roster order: carol, alice; bob submitted but was never on the roster.
	require.NoError(t, rosterRepo.Add(&entity.Person{ID: "carol", DisplayName: "Carol"}))
	require.NoError(t, rosterRepo.Add(&entity.Person{ID: "alice", DisplayName: "Alice"}))

	require.NoError(t, ledgerRepo.Put(newRecord("alice", "2025-06-02", domain.StatusPresent, now)))
	require.NoError(t, ledgerRepo.Put(newRecord("bob", "2025-06-02", domain.StatusOnLeave, now.Add(-time.Hour))))
	require.NoError(t, ledgerRepo.Put(newRecord("carol", "2025-06-02", domain.StatusWorkFromHome, now.Add(time.Hour))))
	require.NoError(t, ledgerRepo.Put(newRecord("alice", "2025-06-01", domain.StatusOnLeave, now.AddDate(0, 0, -1))))

	t.Run("should order by roster position, removed persons last", func(t *testing.T) {
		records, err := ledgerRepo.AllForDay("2025-06-02")

		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "carol", records[0].PersonID)
		assert.Equal(t, "alice", records[1].PersonID)
		assert.Equal(t, "bob", records[2].PersonID)
	})

	t.Run("should scope strictly to the day", func(t *testing.T) {
		records, err := ledgerRepo.AllForDay("2025-06-01")

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "alice", records[0].PersonID)
	})

	t.Run("roster removal does not erase history", func(t *testing.T) {
		require.NoError(t, rosterRepo.Remove("alice"))

		record, err := ledgerRepo.Get("alice", "2025-06-01")
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, domain.StatusOnLeave, record.Status)
	})
}

func TestLedgerRepo_DeleteForDay(t *testing.T) {
	db := SetupTestDB(t)
	defer db.Close()

	ledgerRepo := newLedgerRepository(db.conn)
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, ledgerRepo.Put(newRecord("alice", "2025-06-02", domain.StatusPresent, now)))
	require.NoError(t, ledgerRepo.Put(newRecord("alice", "2025-06-01", domain.StatusOnLeave, now)))

	require.NoError(t, ledgerRepo.DeleteForDay("2025-06-02"))

	today, err := ledgerRepo.AllForDay("2025-06-02")
	require.NoError(t, err)
	assert.Empty(t, today)

	yesterday, err := ledgerRepo.AllForDay("2025-06-01")
	require.NoError(t, err)
	assert.Len(t, yesterday, 1)
}

func TestLedgerRepo_PurgeOlderThan(t *testing.T) {
	db := SetupTestDB(t)
	defer db.Close()

	ledgerRepo := newLedgerRepository(db.conn)
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, ledgerRepo.Put(newRecord("alice", "2025-05-30", domain.StatusPresent, now)))
	require.NoError(t, ledgerRepo.Put(newRecord("bob", "2025-06-01", domain.StatusOnLeave, now)))
	require.NoError(t, ledgerRepo.Put(newRecord("carol", "2025-06-02", domain.StatusWorkFromHome, now)))

	t.Run("should remove every record of other days", func(t *testing.T) {
		purged, err := ledgerRepo.PurgeOlderThan("2025-06-02")

		require.NoError(t, err)
		assert.Equal(t, int64(2), purged)

		kept, err := ledgerRepo.AllForDay("2025-06-02")
		require.NoError(t, err)
		assert.Len(t, kept, 1)

		gone, err := ledgerRepo.AllForDay("2025-06-01")
		require.NoError(t, err)
		assert.Empty(t, gone)
	})

	t.Run("purging twice for the same boundary is a no-op", func(t *testing.T) {
		purged, err := ledgerRepo.PurgeOlderThan("2025-06-02")

		require.NoError(t, err)
		assert.Zero(t, purged)
	})
}
