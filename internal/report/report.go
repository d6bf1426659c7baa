// Package report builds the daily attendance report and CSV export. Both are
// pure functions of the day sheet; no formatting logic lives in the core.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/teamtrack/attendance-bot/internal/domain"
	"github.com/teamtrack/attendance-bot/internal/domain/entity"
)

const reportDateLayout = "02/01/2006"

// BuildText renders the daily report grouped by status, in roster order.
func BuildText(sheet *entity.DaySheet, generatedAt time.Time) string {
	groups := map[domain.Status][]string{}
	for _, p := range sheet.Roster {
		status := sheet.StatusOf(p.ID)
		groups[status] = append(groups[status], p.DisplayName)
	}

	day, err := time.Parse(domain.DayKeyLayout, sheet.DayKey)
	if err != nil {
		day = generatedAt
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 DAILY ATTENDANCE REPORT - %s\n", day.Format(reportDateLayout))

	section := func(emoji, title string, names []string) {
		fmt.Fprintf(&b, "\n%s %s (%d):\n", emoji, title, len(names))
		if len(names) == 0 {
			b.WriteString("   None\n")
			return
		}
		for _, name := range names {
			fmt.Fprintf(&b, "• %s\n", name)
		}
	}

	section("🏢", "PRESENT IN OFFICE", groups[domain.StatusPresent])
	section("🏠", "WORK FROM HOME", groups[domain.StatusWorkFromHome])
	section("❌", "ON LEAVE", groups[domain.StatusOnLeave])
	section("🏢", "CLIENT OFFICE", groups[domain.StatusClientOffice])
	section("⏰", "PENDING ATTENDANCE", groups[domain.StatusNotSet])

	marked := len(sheet.Roster) - len(groups[domain.StatusNotSet])
	fmt.Fprintf(&b, "\nTOTAL TEAM SIZE: %d\n", len(sheet.Roster))
	fmt.Fprintf(&b, "ATTENDANCE MARKED: %d\n", marked)
	fmt.Fprintf(&b, "\nGenerated on: %s\n", generatedAt.Format("02/01/2006 15:04:05"))

	return b.String()
}

// BuildCSV renders the day sheet as Name,Status,Date rows.
func BuildCSV(sheet *entity.DaySheet) (string, error) {
	day, err := time.Parse(domain.DayKeyLayout, sheet.DayKey)
	if err != nil {
		return "", fmt.Errorf("invalid day key %q: %w", sheet.DayKey, err)
	}
	date := day.Format(reportDateLayout)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Name", "Status", "Date"}); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, p := range sheet.Roster {
		row := []string{p.DisplayName, sheet.StatusOf(p.ID).Label(), date}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.String(), nil
}

// Summary is the one-line counts string shown under the board.
func Summary(sheet *entity.DaySheet) string {
	var present, wfh, leave int
	for _, p := range sheet.Roster {
		switch sheet.StatusOf(p.ID) {
		case domain.StatusPresent:
			present++
		case domain.StatusWorkFromHome:
			wfh++
		case domain.StatusOnLeave, domain.StatusClientOffice:
			leave++
		}
	}
	return fmt.Sprintf("Present: %d | WFH: %d | Leave/Client: %d", present, wfh, leave)
}
