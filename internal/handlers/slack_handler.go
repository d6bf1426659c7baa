package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"github.com/teamtrack/attendance-bot/internal/domain"
	"github.com/teamtrack/attendance-bot/internal/domain/contract"
	"github.com/teamtrack/attendance-bot/internal/domain/entity"
	"github.com/teamtrack/attendance-bot/internal/report"
	slackcmd "github.com/teamtrack/attendance-bot/internal/slack"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

type SlackHandler struct {
	attendance      contract.AttendanceService
	signingSecret   string
	managerPassword string
}

func New(attendance contract.AttendanceService, signingSecret, managerPassword string) *SlackHandler {
	return &SlackHandler{
		attendance:      attendance,
		signingSecret:   signingSecret,
		managerPassword: managerPassword,
	}
}

func (h *SlackHandler) HandleSlashCommand(w http.ResponseWriter, r *http.Request) {
	// Verify request from Slack
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	// Verify Slack signature
	verifier, err := slack.NewSecretsVerifier(r.Header, h.signingSecret)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if _, err := verifier.Write(body); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := verifier.Ensure(); err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	// Parse command
	s, err := slack.SlashCommandParse(r)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Parse our command
	cmd, err := slackcmd.ParseCommand(s.Text)
	if err != nil {
		h.respond(w, h.errorResponse(err.Error()))
		return
	}

	response := h.handleCommand(r.Context(), cmd, &s)
	h.respond(w, response)
}

func (h *SlackHandler) respond(w http.ResponseWriter, msg *slack.Msg) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(msg)
}

func (h *SlackHandler) handleCommand(ctx context.Context, cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	switch cmd.Type {
	case slackcmd.CmdMark:
		return h.handleMark(ctx, cmd, slashCmd)
	case slackcmd.CmdLogin:
		return h.handleLogin(ctx, cmd, slashCmd)
	case slackcmd.CmdLogout:
		return h.handleLogout(ctx, slashCmd)
	case slackcmd.CmdSet:
		return h.handleSet(ctx, cmd, slashCmd)
	case slackcmd.CmdBoard:
		return h.handleBoard(ctx)
	case slackcmd.CmdAdd:
		return h.handleAdd(ctx, cmd, slashCmd)
	case slackcmd.CmdRemove:
		return h.handleRemove(ctx, cmd, slashCmd)
	case slackcmd.CmdReset:
		return h.handleReset(ctx, cmd, slashCmd)
	case slackcmd.CmdReport:
		return h.handleReport(ctx, slashCmd)
	case slackcmd.CmdCSV:
		return h.handleCSV(ctx, slashCmd)
	case slackcmd.CmdPending:
		return h.handlePending(ctx, slashCmd)
	case slackcmd.CmdPurge:
		return h.handlePurge(ctx, cmd, slashCmd)
	case slackcmd.CmdHelp:
		return h.handleHelp()
	default:
		return h.errorResponse("Unknown command. Try `/attendance help`.")
	}
}

// actorFor resolves the caller's session into a core Actor. A nil session
// means the Slack user has not linked themselves yet.
func (h *SlackHandler) actorFor(ctx context.Context, slashCmd *slack.SlashCommand) (*entity.Session, contract.Actor, *slack.Msg) {
	session, err := h.attendance.SessionFor(ctx, slashCmd.UserID)
	if err != nil {
		return nil, contract.Actor{}, h.errorResponse("Could not look up your session.")
	}
	if session == nil {
		return nil, contract.Actor{}, h.errorResponse("You are not logged in. Use `/attendance login <your-id>` first.")
	}
	return session, contract.Actor{PersonID: session.PersonID, Role: session.Role}, nil
}

func (h *SlackHandler) requireManager(ctx context.Context, slashCmd *slack.SlashCommand) (contract.Actor, *slack.Msg) {
	session, actor, errMsg := h.actorFor(ctx, slashCmd)
	if errMsg != nil {
		return contract.Actor{}, errMsg
	}
	if session.Role != domain.RoleManager {
		return contract.Actor{}, h.errorResponse("Only managers can do that.")
	}
	return actor, nil
}

func (h *SlackHandler) handleMark(ctx context.Context, cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	session, actor, errMsg := h.actorFor(ctx, slashCmd)
	if errMsg != nil {
		return errMsg
	}
	if session.PersonID == "" {
		return h.errorResponse("Your login is not linked to a roster member. Use `/attendance login <your-id>`.")
	}

	confirm := func(prev *entity.AttendanceRecord) bool { return cmd.Confirmed }

	record, applied, err := h.attendance.SetStatus(ctx, actor, session.PersonID, cmd.Status, confirm)
	if err != nil {
		return h.domainErrorResponse(err)
	}
	if !applied {
		return h.errorResponse(fmt.Sprintf(
			"You already marked today as *%s* (at %s). Re-run with `confirm` to change it, e.g. `/attendance %s confirm`.",
			record.Status.Label(), record.Timestamp.Format("15:04"), string(cmd.Status)))
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeInChannel,
		Text:         fmt.Sprintf("✅ <@%s> marked today as *%s*", slashCmd.UserID, record.Status.Label()),
	}
}

func (h *SlackHandler) handleLogin(ctx context.Context, cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	if len(cmd.Args) == 0 {
		return h.errorResponse("Use `/attendance login <your-id>` or `/attendance login manager <password>`.")
	}

	// Manager login: static password gate, a role selector rather than
	// an authentication mechanism.
	if strings.EqualFold(cmd.Args[0], "manager") {
		if len(cmd.Args) < 2 || cmd.Args[1] != h.managerPassword {
			return h.errorResponse("Incorrect manager password.")
		}
		if _, err := h.attendance.Login(ctx, slashCmd.UserID, "", domain.RoleManager); err != nil {
			return h.domainErrorResponse(err)
		}
		return &slack.Msg{
			ResponseType: slack.ResponseTypeEphemeral,
			Text:         "👨‍💼 Logged in as manager.",
		}
	}

	// Employee login: the id doubles as the "password" (your own lowercase
	// name), exactly the gate the roster uses.
	personID := cmd.Args[0]
	session, err := h.attendance.Login(ctx, slashCmd.UserID, personID, domain.RoleEmployee)
	if err != nil {
		if domain.IsNotFound(err) {
			return h.errorResponse(fmt.Sprintf("`%s` is not on the roster. Ask a manager to add you.", personID))
		}
		return h.domainErrorResponse(err)
	}

	// Surface the re-edit warning at login, like the original flow did.
	if existing, err := h.attendance.HasSubmittedToday(ctx, session.PersonID); err == nil && existing != nil {
		return &slack.Msg{
			ResponseType: slack.ResponseTypeEphemeral,
			Text: fmt.Sprintf("👤 Logged in as `%s`. You already marked today as *%s*; re-marking will ask for `confirm`.",
				session.PersonID, existing.Status.Label()),
		}
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         fmt.Sprintf("👤 Logged in as `%s`. Mark your day with `/attendance present|wfh|leave|client`.", session.PersonID),
	}
}

func (h *SlackHandler) handleLogout(ctx context.Context, slashCmd *slack.SlashCommand) *slack.Msg {
	if err := h.attendance.Logout(ctx, slashCmd.UserID); err != nil {
		return h.errorResponse("Could not log you out.")
	}
	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         "👋 Logged out.",
	}
}

func (h *SlackHandler) handleSet(ctx context.Context, cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	actor, errMsg := h.requireManager(ctx, slashCmd)
	if errMsg != nil {
		return errMsg
	}

	if len(cmd.Args) < 2 {
		return h.errorResponse("Use `/attendance set <id> <status>`, e.g. `/attendance set bhavya wfh`.")
	}

	status, ok := domain.ParseStatus(strings.ToLower(cmd.Args[1]))
	if !ok || status == domain.StatusNotSet {
		return h.errorResponse("Invalid status. Use: present, wfh, leave or client.")
	}

	// Manager overrides apply directly; no confirmation handshake.
	record, _, err := h.attendance.SetStatus(ctx, actor, cmd.Args[0], status, func(*entity.AttendanceRecord) bool { return true })
	if err != nil {
		return h.domainErrorResponse(err)
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeInChannel,
		Text:         fmt.Sprintf("✅ `%s` marked as *%s* (set by manager)", record.PersonID, record.Status.Label()),
	}
}

func (h *SlackHandler) handleBoard(ctx context.Context) *slack.Msg {
	sheet, err := h.attendance.LoadToday(ctx)
	if err != nil {
		return h.errorResponse("Could not load today's board.")
	}

	records, err := h.attendance.AllForDay(ctx, sheet.DayKey)
	if err != nil {
		return h.errorResponse("Could not load today's submissions.")
	}
	byPerson := make(map[string]*entity.AttendanceRecord, len(records))
	for _, rec := range records {
		byPerson[rec.PersonID] = rec
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Attendance board — %s*\n", sheet.DayKey)
	for i, p := range sheet.Roster {
		status := sheet.StatusOf(p.ID)
		fmt.Fprintf(&b, "%d. %s — %s", i+1, p.DisplayName, status.Label())
		if rec, ok := byPerson[p.ID]; ok {
			fmt.Fprintf(&b, " _(at %s", rec.Timestamp.Format("15:04"))
			if rec.SetByRole == domain.SetByManager {
				b.WriteString(", by manager")
			}
			b.WriteString(")_")
		}
		b.WriteString("\n")
	}
	b.WriteString(report.Summary(sheet))

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         b.String(),
	}
}

func (h *SlackHandler) handleAdd(ctx context.Context, cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	actor, errMsg := h.requireManager(ctx, slashCmd)
	if errMsg != nil {
		return errMsg
	}

	if len(cmd.Args) == 0 {
		return h.errorResponse("Use `/attendance add <id> [display name]`.")
	}

	person := &entity.Person{ID: cmd.Args[0]}
	if len(cmd.Args) > 1 {
		person.DisplayName = strings.Join(cmd.Args[1:], " ")
	}

	if err := h.attendance.AddPerson(ctx, actor, person); err != nil {
		if domain.IsDuplicate(err) {
			return h.errorResponse(fmt.Sprintf("`%s` is already on the roster.", person.ID))
		}
		return h.domainErrorResponse(err)
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeInChannel,
		Text:         fmt.Sprintf("✅ %s (`%s`) was added to the roster.", person.DisplayName, person.ID),
	}
}

func (h *SlackHandler) handleRemove(ctx context.Context, cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	actor, errMsg := h.requireManager(ctx, slashCmd)
	if errMsg != nil {
		return errMsg
	}

	if len(cmd.Args) == 0 {
		return h.errorResponse("Use `/attendance remove <id> confirm`.")
	}
	if !cmd.Confirmed {
		return h.errorResponse(fmt.Sprintf("This removes `%s` from the roster (history is kept). Re-run with `confirm`.", cmd.Args[0]))
	}

	if err := h.attendance.RemovePerson(ctx, actor, cmd.Args[0]); err != nil {
		return h.domainErrorResponse(err)
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeInChannel,
		Text:         fmt.Sprintf("✅ `%s` was removed from the roster.", cmd.Args[0]),
	}
}

func (h *SlackHandler) handleReset(ctx context.Context, cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	actor, errMsg := h.requireManager(ctx, slashCmd)
	if errMsg != nil {
		return errMsg
	}
	if !cmd.Confirmed {
		return h.errorResponse("This resets today's attendance for everyone. Re-run as `/attendance reset confirm`.")
	}

	if err := h.attendance.ResetToday(ctx, actor); err != nil {
		return h.domainErrorResponse(err)
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeInChannel,
		Text:         "✅ Today's attendance has been reset for all employees.",
	}
}

func (h *SlackHandler) handleReport(ctx context.Context, slashCmd *slack.SlashCommand) *slack.Msg {
	_, errMsg := h.requireManager(ctx, slashCmd)
	if errMsg != nil {
		return errMsg
	}

	sheet, err := h.attendance.LoadToday(ctx)
	if err != nil {
		return h.errorResponse("Could not build the report.")
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         fmt.Sprintf("```%s```", report.BuildText(sheet, timeNow())),
	}
}

func (h *SlackHandler) handleCSV(ctx context.Context, slashCmd *slack.SlashCommand) *slack.Msg {
	_, errMsg := h.requireManager(ctx, slashCmd)
	if errMsg != nil {
		return errMsg
	}

	sheet, err := h.attendance.LoadToday(ctx)
	if err != nil {
		return h.errorResponse("Could not build the export.")
	}

	csvText, err := report.BuildCSV(sheet)
	if err != nil {
		return h.errorResponse("Could not build the export.")
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         fmt.Sprintf("```%s```", csvText),
	}
}

func (h *SlackHandler) handlePending(ctx context.Context, slashCmd *slack.SlashCommand) *slack.Msg {
	_, errMsg := h.requireManager(ctx, slashCmd)
	if errMsg != nil {
		return errMsg
	}

	sheet, err := h.attendance.LoadToday(ctx)
	if err != nil {
		return h.errorResponse("Could not load today's board.")
	}

	pending := sheet.Pending()
	if len(pending) == 0 {
		return &slack.Msg{
			ResponseType: slack.ResponseTypeEphemeral,
			Text:         "✅ All employees have marked their attendance!",
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⏰ Pending attendance (%d):\n", len(pending))
	for _, p := range pending {
		fmt.Fprintf(&b, "• %s\n", p.DisplayName)
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         b.String(),
	}
}

func (h *SlackHandler) handlePurge(ctx context.Context, cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	actor, errMsg := h.requireManager(ctx, slashCmd)
	if errMsg != nil {
		return errMsg
	}
	if !cmd.Confirmed {
		return h.errorResponse("This deletes every record except today's. Re-run as `/attendance purge confirm`.")
	}

	purged, err := h.attendance.PurgeHistory(ctx, actor)
	if err != nil {
		return h.domainErrorResponse(err)
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         fmt.Sprintf("🧹 Purged %d old records.", purged),
	}
}

func (h *SlackHandler) handleHelp() *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         slackcmd.GetHelpText(),
	}
}

func (h *SlackHandler) errorResponse(text string) *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         "❌ " + text,
	}
}

// domainErrorResponse maps core error codes to user-facing messages.
func (h *SlackHandler) domainErrorResponse(err error) *slack.Msg {
	switch domain.CodeOf(err) {
	case domain.CodePermissionDenied:
		return h.errorResponse("You can only mark your own attendance!")
	case domain.CodeNotFound:
		return h.errorResponse("That person is not on the roster.")
	case domain.CodeDuplicate:
		return h.errorResponse("That person already exists.")
	case domain.CodeMalformedData:
		return h.errorResponse("Invalid input. Try `/attendance help`.")
	default:
		return h.errorResponse(fmt.Sprintf("Something went wrong: %v", err))
	}
}
