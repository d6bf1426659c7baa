package entity

import (
	"time"

	"github.com/teamtrack/attendance-bot/internal/domain"
)

// Session binds a Slack user to a roster person and role until logout. It is
// the auto-login state; the login gate is a role selector, not authentication.
type Session struct {
	SlackUserID string
	PersonID    string
	Role        domain.Role
	CreatedAt   time.Time
}
