package database

import (
	"database/sql"
	"fmt"

	"github.com/teamtrack/attendance-bot/internal/domain/contract"
	"github.com/teamtrack/attendance-bot/internal/domain/entity"
)

type rosterRepository struct {
	db dbConn
}

func newRosterRepository(db dbConn) contract.RosterRepo {
	return &rosterRepository{db: db}
}

func (r *rosterRepository) Add(person *entity.Person) error {
	query := `
		INSERT INTO roster (person_id, display_name, position)
		VALUES (?, ?, COALESCE((SELECT MAX(position) + 1 FROM roster), 0))
	`

	if _, err := r.db.Exec(query, person.ID, person.DisplayName); err != nil {
		return fmt.Errorf("failed to add person: %w", err)
	}

	// Read back the assigned position
	row := r.db.QueryRow(`SELECT position, created_at FROM roster WHERE person_id = ?`, person.ID)
	if err := row.Scan(&person.Position, &person.CreatedAt); err != nil {
		return fmt.Errorf("failed to read back person: %w", err)
	}

	return nil
}

func (r *rosterRepository) GetByID(personID string) (*entity.Person, error) {
	person := &entity.Person{}
	query := `
		SELECT person_id, display_name, position, created_at
		FROM roster
		WHERE person_id = ?
	`

	err := r.db.QueryRow(query, personID).Scan(
		&person.ID,
		&person.DisplayName,
		&person.Position,
		&person.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}

	return person, nil
}

func (r *rosterRepository) List() ([]*entity.Person, error) {
	query := `
		SELECT person_id, display_name, position, created_at
		FROM roster
		ORDER BY position ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	defer rows.Close()

	var persons []*entity.Person
	for rows.Next() {
		person := &entity.Person{}
		err := rows.Scan(
			&person.ID,
			&person.DisplayName,
			&person.Position,
			&person.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		persons = append(persons, person)
	}

	return persons, rows.Err()
}

func (r *rosterRepository) Remove(personID string) error {
	query := `DELETE FROM roster WHERE person_id = ?`

	if _, err := r.db.Exec(query, personID); err != nil {
		return fmt.Errorf("failed to remove person: %w", err)
	}

	return nil
}
