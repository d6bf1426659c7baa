package test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/teamtrack/attendance-bot/internal/database"
	"github.com/teamtrack/attendance-bot/internal/domain/contract"
	"github.com/teamtrack/attendance-bot/internal/domain/service"
	"github.com/teamtrack/attendance-bot/internal/handlers"
)

const (
	SigningSecret   = "test-signing-secret"
	ManagerPassword = "admin123"
)

// GetHandlerTest wires a handler to a real service over an in-memory database.
func GetHandlerTest(t *testing.T) (svc contract.AttendanceService, handler *handlers.SlackHandler) {
	t.Helper()

	db := database.SetupTestDB(t)
	t.Cleanup(func() { db.Close() })

	dm := database.NewInstance(db)
	services := service.NewInstance(dm, nil, time.UTC, service.SummaryConfig{})

	handler = handlers.New(services.Attendance, SigningSecret, ManagerPassword)

	return services.Attendance, handler
}

// CreateSlackRequest creates a properly signed Slack slash command request
func CreateSlackRequest(t *testing.T, text, userID, signingSecret string) *http.Request {
	t.Helper()

	// Create form data matching Slack's slash command format
	form := url.Values{
		"token":        {"test-token"},
		"team_id":      {"T123456789"},
		"team_domain":  {"test-team"},
		"channel_id":   {"C123456789"},
		"channel_name": {"test-channel"},
		"user_id":      {userID},
		"user_name":    {"test-user"},
		"command":      {"/attendance"},
		"text":         {text},
		"response_url": {"https://hooks.slack.com/commands/test"},
		"trigger_id":   {"test-trigger-id"},
	}

	body := form.Encode()

	req, err := http.NewRequest(http.MethodPost, "/slack/commands", strings.NewReader(body))
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	// Generate Slack signature
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	req.Header.Set("X-Slack-Request-Timestamp", timestamp)

	sig := generateSlackSignature(signingSecret, timestamp, body)
	req.Header.Set("X-Slack-Signature", sig)

	return req
}

func generateSlackSignature(signingSecret, timestamp, body string) string {
	baseString := fmt.Sprintf("v0:%s:%s", timestamp, body)
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	signature := hex.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("v0=%s", signature)
}

func CreateTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}
