package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7a2f3a")).
			Padding(1, 2).
			Width(48)

	dialogTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#e06c75")).
				Bold(true)

	dialogHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8d98a7"))
)

const confirmHint = "y: confirm | n: cancel"

// ConfirmDialog renders a yes/no confirmation.
func ConfirmDialog(title, message string) string {
	header := dialogTitleStyle.Render(SanitizeOneLine(title))
	body := boxMutedStyle.Render(SanitizeText(message))
	hint := dialogHintStyle.Render(confirmHint)
	return dialogStyle.Render(header + "\n\n" + body + "\n\n" + hint)
}

// ConfirmPreviewDialog renders a confirmation that previews the affected
// item as label/value rows.
func ConfirmPreviewDialog(title, message string, rows [][2]string, width int) string {
	sections := make([]string, 0, 3)
	if message != "" {
		sections = append(sections, boxMutedStyle.Render(SanitizeText(message)))
	}
	if len(rows) > 0 {
		inner := BoxContentWidth(width)
		lines := make([]string, 0, len(rows))
		for _, r := range rows {
			line := InfoRow(r[0], r[1])
			if inner > 0 {
				line = InfoRow(r[0], ClampTextWidth(r[1], inner-lipgloss.Width(r[0])-2))
			}
			lines = append(lines, line)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}
	sections = append(sections, dialogHintStyle.Render(confirmHint))
	return titledBox(title, strings.Join(sections, "\n\n"), width, errorBorder.Padding(1, 2), lipgloss.Color("#7a2f3a"))
}
