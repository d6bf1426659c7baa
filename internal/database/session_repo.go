package database

import (
	"database/sql"
	"fmt"

	"github.com/teamtrack/attendance-bot/internal/domain"
	"github.com/teamtrack/attendance-bot/internal/domain/contract"
	"github.com/teamtrack/attendance-bot/internal/domain/entity"
)

type sessionRepository struct {
	db dbConn
}

func newSessionRepository(db dbConn) contract.SessionRepo {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Save(session *entity.Session) error {
	query := `
		INSERT INTO sessions (slack_user_id, person_id, role)
		VALUES (?, ?, ?)
		ON CONFLICT (slack_user_id) DO UPDATE SET
			person_id = excluded.person_id,
			role = excluded.role
	`

	if _, err := r.db.Exec(query, session.SlackUserID, session.PersonID, string(session.Role)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (r *sessionRepository) GetBySlackUserID(slackUserID string) (*entity.Session, error) {
	session := &entity.Session{}
	query := `
		SELECT slack_user_id, person_id, role, created_at
		FROM sessions
		WHERE slack_user_id = ?
	`

	var role string
	err := r.db.QueryRow(query, slackUserID).Scan(
		&session.SlackUserID,
		&session.PersonID,
		&role,
		&session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session.Role = domain.Role(role)
	return session, nil
}

func (r *sessionRepository) Delete(slackUserID string) error {
	query := `DELETE FROM sessions WHERE slack_user_id = ?`

	if _, err := r.db.Exec(query, slackUserID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

func (r *sessionRepository) DeleteByPersonID(personID string) error {
	query := `DELETE FROM sessions WHERE person_id = ?`

	if _, err := r.db.Exec(query, personID); err != nil {
		return fmt.Errorf("failed to delete sessions for person: %w", err)
	}

	return nil
}
