package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/cli"
)

// TerminalFormatter renders reports for an interactive terminal.
type TerminalFormatter struct {
	// Width wraps section content. Zero disables wrapping.
	Width int
}

// Render returns the styled report.
func (t TerminalFormatter) Render(r *Report) string {
	var b strings.Builder

	b.WriteString(cli.FormatTitle(r.Title))
	b.WriteString("\n")
	b.WriteString(cli.SubtitleStyle.Render(fmt.Sprintf("%s · %s · %d days",
		r.UserID, periodLabel(r.Period), r.Period.Days)))
	b.WriteString("\n")

	b.WriteString(t.renderSummary(r.Summary))
	b.WriteString("\n\n")

	content := lipgloss.NewStyle()
	if t.Width > 0 {
		content = content.Width(t.Width)
	}

	for _, s := range r.Sections {
		title := fmt.Sprintf("%d. %s", s.Order, s.Title)
		body := content.Render(s.Content)
		if s.Fallback {
			body += "\n" + cli.SubtleStyle.Render("(generated without narration)")
		}
		b.WriteString(cli.RenderBox(title, body))
		b.WriteString("\n")
	}

	if n := r.FallbackCount(); n > 0 {
		b.WriteString(cli.FormatWarning(fmt.Sprintf("%d of %d sections used fallback content", n, len(r.Sections))))
		b.WriteString("\n")
	}

	return b.String()
}

func (t TerminalFormatter) renderSummary(s Summary) string {
	rows := [][2]string{
		{"Balance", formatAmount(s.TotalBalance)},
		{"Income", formatAmount(s.Income)},
		{"Expenses", formatAmount(s.Expenses)},
		{"Net change", formatAmount(s.NetChange)},
		{"Days of runway", fmt.Sprintf("%.0f", s.DaysOfRunway)},
	}

	labels := make([]string, 0, len(rows))
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		labels = append(labels, cli.TableCellStyle.Render(cli.BoldStyle.Render(row[0])))
		values = append(values, row[1])
	}

	table := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, labels...),
		lipgloss.JoinVertical(lipgloss.Right, values...),
	)

	if s.HasCriticalRisks {
		return table + "\n" + cli.FormatError(fmt.Sprintf("%d risk(s), including high severity", s.RiskCount))
	}
	if s.RiskCount > 0 {
		return table + "\n" + cli.FormatWarning(fmt.Sprintf("%d risk(s) detected", s.RiskCount))
	}
	return table + "\n" + cli.FormatSuccess("No risks detected")
}

func periodLabel(p Period) string {
	if p.IsAllTime() {
		return "all time"
	}
	return p.StartDate.Format("2006-01-02") + " to " + p.EndDate.Format("2006-01-02")
}
