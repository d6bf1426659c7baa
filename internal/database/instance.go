package database

import (
	"context"
	"fmt"

	"github.com/teamtrack/attendance-bot/internal/domain/contract"
)

// instance implements DataManager interface
type instance struct {
	db          *DB
	rosterRepo  contract.RosterRepo
	ledgerRepo  contract.LedgerRepo
	sessionRepo contract.SessionRepo
}

// NewInstance creates a new database instance with all repositories
func NewInstance(db *DB) contract.DataManager {
	instance := &instance{
		db: db,
	}
	instance.repoInstances()
	return instance
}

// repoInstances initializes all repositories
func (i *instance) repoInstances() {
	i.rosterRepo = newRosterRepository(i.db.conn)
	i.ledgerRepo = newLedgerRepository(i.db.conn)
	i.sessionRepo = newSessionRepository(i.db.conn)
}

// repoInstancesWithConn creates repository instances with custom dbConn
func repoInstancesWithConn(db dbConn) *instance {
	return &instance{
		rosterRepo:  newRosterRepository(db),
		ledgerRepo:  newLedgerRepository(db),
		sessionRepo: newSessionRepository(db),
	}
}

// Roster returns the roster repository
func (i *instance) Roster() contract.RosterRepo {
	return i.rosterRepo
}

// Ledger returns the submission ledger repository
func (i *instance) Ledger() contract.LedgerRepo {
	return i.ledgerRepo
}

// Session returns the session repository
func (i *instance) Session() contract.SessionRepo {
	return i.sessionRepo
}

// WithTransaction executes a function within a database transaction
func (i *instance) WithTransaction(ctx context.Context, fn func(dm contract.DataManager) error) error {
	tx, err := i.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txInstance := repoInstancesWithConn(tx)
	err = fn(txInstance)
	if err != nil {
		rbErr := tx.Rollback()
		if rbErr != nil {
			return fmt.Errorf("error rolling back transaction: %v, original error: %w", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}
