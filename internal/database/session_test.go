package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamtrack/attendance-bot/internal/domain"
	"github.com/teamtrack/attendance-bot/internal/domain/entity"
)

func TestSessionRepo(t *testing.T) {
	db := SetupTestDB(t)
	defer db.Close()

	sessionRepo := newSessionRepository(db.conn)

	t.Run("should save and load a session", func(t *testing.T) {
		err := sessionRepo.Save(&entity.Session{
			SlackUserID: "U123456789",
			PersonID:    "alice",
			Role:        domain.RoleEmployee,
		})
		require.NoError(t, err)

		session, err := sessionRepo.GetBySlackUserID("U123456789")

		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, "alice", session.PersonID)
		assert.Equal(t, domain.RoleEmployee, session.Role)
		assert.False(t, session.CreatedAt.IsZero())
	})

	t.Run("save upserts by slack user id", func(t *testing.T) {
		err := sessionRepo.Save(&entity.Session{
			SlackUserID: "U123456789",
			PersonID:    "",
			Role:        domain.RoleManager,
		})
		require.NoError(t, err)

		session, err := sessionRepo.GetBySlackUserID("U123456789")

		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Empty(t, session.PersonID)
		assert.Equal(t, domain.RoleManager, session.Role)
	})

	t.Run("should return nil for unknown slack user", func(t *testing.T) {
		session, err := sessionRepo.GetBySlackUserID("U000000000")

		require.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("should delete a session", func(t *testing.T) {
		require.NoError(t, sessionRepo.Delete("U123456789"))

		session, err := sessionRepo.GetBySlackUserID("U123456789")
		require.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("should delete all sessions bound to a person", func(t *testing.T) {
		require.NoError(t, sessionRepo.Save(&entity.Session{SlackUserID: "U1", PersonID: "bob", Role: domain.RoleEmployee}))
		require.NoError(t, sessionRepo.Save(&entity.Session{SlackUserID: "U2", PersonID: "bob", Role: domain.RoleEmployee}))

		require.NoError(t, sessionRepo.DeleteByPersonID("bob"))

		for _, id := range []string{"U1", "U2"} {
			session, err := sessionRepo.GetBySlackUserID(id)
			require.NoError(t, err)
			assert.Nil(t, session)
		}
	})
}
