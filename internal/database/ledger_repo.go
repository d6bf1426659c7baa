package database

import (
	"database/sql"
	"fmt"

	"github.com/teamtrack/attendance-bot/internal/domain"
	"github.com/teamtrack/attendance-bot/internal/domain/contract"
	"github.com/teamtrack/attendance-bot/internal/domain/entity"
)

type ledgerRepository struct {
	db dbConn
}

func newLedgerRepository(db dbConn) contract.LedgerRepo {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Get(personID, dayKey string) (*entity.AttendanceRecord, error) {
	record := &entity.AttendanceRecord{}
	query := `
		SELECT person_id, day_key, status, set_by_role, submitted_at
		FROM submissions
		WHERE person_id = ? AND day_key = ?
	`

	var status, setBy string
	err := r.db.QueryRow(query, personID, dayKey).Scan(
		&record.PersonID,
		&record.DayKey,
		&status,
		&setBy,
		&record.Timestamp,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	record.Status = domain.Status(status)
	record.SetByRole = domain.SetBy(setBy)
	return record, nil
}

// Put upserts by (person_id, day_key). The replace is unconditional: the last
// write wins even when it carries an older timestamp than the stored row.
func (r *ledgerRepository) Put(record *entity.AttendanceRecord) error {
	query := `
		INSERT INTO submissions (person_id, day_key, status, set_by_role, submitted_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (person_id, day_key) DO UPDATE SET
			status = excluded.status,
			set_by_role = excluded.set_by_role,
			submitted_at = excluded.submitted_at
	`

	_, err := r.db.Exec(query,
		record.PersonID,
		record.DayKey,
		string(record.Status),
		string(record.SetByRole),
		record.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to put submission: %w", err)
	}

	return nil
}

func (r *ledgerRepository) AllForDay(dayKey string) ([]*entity.AttendanceRecord, error) {
	// Roster order for deterministic board/report output; records of removed
	// persons sort after current members, by id.
	query := `
		SELECT s.person_id, s.day_key, s.status, s.set_by_role, s.submitted_at
		FROM submissions s
		LEFT JOIN roster r ON r.person_id = s.person_id
		WHERE s.day_key = ?
		ORDER BY (r.position IS NULL) ASC, r.position ASC, s.person_id ASC
	`

	rows, err := r.db.Query(query, dayKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get submissions for day: %w", err)
	}
	defer rows.Close()

	var records []*entity.AttendanceRecord
	for rows.Next() {
		record := &entity.AttendanceRecord{}
		var status, setBy string
		err := rows.Scan(
			&record.PersonID,
			&record.DayKey,
			&status,
			&setBy,
			&record.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		record.Status = domain.Status(status)
		record.SetByRole = domain.SetBy(setBy)
		records = append(records, record)
	}

	return records, rows.Err()
}

func (r *ledgerRepository) DeleteForDay(dayKey string) error {
	query := `DELETE FROM submissions WHERE day_key = ?`

	if _, err := r.db.Exec(query, dayKey); err != nil {
		return fmt.Errorf("failed to delete submissions for day: %w", err)
	}

	return nil
}

func (r *ledgerRepository) PurgeOlderThan(dayKey string) (int64, error) {
	query := `DELETE FROM submissions WHERE day_key != ?`

	result, err := r.db.Exec(query, dayKey)
	if err != nil {
		return 0, fmt.Errorf("failed to purge submissions: %w", err)
	}

	purged, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged submissions: %w", err)
	}

	return purged, nil
}
