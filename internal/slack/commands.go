package slack

import (
	"fmt"
	"strings"

	"github.com/teamtrack/attendance-bot/internal/domain"
)

type CommandType string

const (
	CmdMark    CommandType = "mark"
	CmdLogin   CommandType = "login"
	CmdLogout  CommandType = "logout"
	CmdSet     CommandType = "set"
	CmdBoard   CommandType = "board"
	CmdAdd     CommandType = "add"
	CmdRemove  CommandType = "remove"
	CmdReset   CommandType = "reset"
	CmdReport  CommandType = "report"
	CmdCSV     CommandType = "csv"
	CmdPending CommandType = "pending"
	CmdPurge   CommandType = "purge"
	CmdHelp    CommandType = "help"
)

type Command struct {
	Type CommandType
	// Status is set for CmdMark (the bare status-word form).
	Status domain.Status
	Args   []string
	// Confirmed is true when the trailing "confirm" token was given; it is
	// the boolean the re-edit confirmation flow feeds into the core.
	Confirmed bool
	Raw       string
}

func ParseCommand(text string) (*Command, error) {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return &Command{Type: CmdHelp}, nil
	}

	cmd := &Command{
		Raw: text,
	}

	// A trailing "confirm" applies to any command that overwrites state.
	if last := parts[len(parts)-1]; strings.EqualFold(last, "confirm") {
		cmd.Confirmed = true
		parts = parts[:len(parts)-1]
		if len(parts) == 0 {
			return nil, fmt.Errorf("nothing to confirm")
		}
	}

	if status, ok := domain.ParseStatus(strings.ToLower(parts[0])); ok && status != domain.StatusNotSet {
		cmd.Type = CmdMark
		cmd.Status = status
		return cmd, nil
	}

	switch strings.ToLower(parts[0]) {
	case "login":
		cmd.Type = CmdLogin
		cmd.Args = parts[1:]
	case "logout":
		cmd.Type = CmdLogout
	case "set":
		cmd.Type = CmdSet
		cmd.Args = parts[1:]
	case "board", "list", "ls":
		cmd.Type = CmdBoard
	case "add":
		cmd.Type = CmdAdd
		cmd.Args = parts[1:]
	case "remove", "rm":
		cmd.Type = CmdRemove
		cmd.Args = parts[1:]
	case "reset":
		cmd.Type = CmdReset
	case "report":
		cmd.Type = CmdReport
	case "csv", "export":
		cmd.Type = CmdCSV
	case "pending":
		cmd.Type = CmdPending
	case "purge":
		cmd.Type = CmdPurge
	case "help", "":
		cmd.Type = CmdHelp
	default:
		return nil, fmt.Errorf("unknown command: %s", parts[0])
	}

	return cmd, nil
}

func GetHelpText() string {
	return `*Available commands:*

*Mark your day:*
• ` + "`/attendance present`" + ` - Present in office
• ` + "`/attendance wfh`" + ` - Work from home
• ` + "`/attendance leave`" + ` - On leave
• ` + "`/attendance client`" + ` - Client office
_Re-marking a different status asks you to append_ ` + "`confirm`" + `

*Account:*
• ` + "`/attendance login <your-id>`" + ` - Link yourself to the roster
• ` + "`/attendance login manager <password>`" + ` - Manager login
• ` + "`/attendance logout`" + `

*Everyone:*
• ` + "`/attendance board`" + ` - Today's attendance board

*Manager only:*
• ` + "`/attendance set <id> <status>`" + ` - Override someone's status
• ` + "`/attendance add <id> [display name]`" + ` - Add to roster
• ` + "`/attendance remove <id>`" + ` - Remove from roster (history kept)
• ` + "`/attendance reset confirm`" + ` - Clear today's attendance
• ` + "`/attendance report`" + ` - Daily text report
• ` + "`/attendance csv`" + ` - CSV export
• ` + "`/attendance pending`" + ` - Who hasn't marked yet
• ` + "`/attendance purge confirm`" + ` - Delete all non-today history`
}
