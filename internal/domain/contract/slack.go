package contract

import "github.com/slack-go/slack"

// SlackClient defines the interface for Slack operations
// This allows faking in tests while keeping the real implementation simple
type SlackClient interface {
	// PostMessage sends a message to a Slack channel
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
}
