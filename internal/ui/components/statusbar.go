package components

import "github.com/charmbracelet/lipgloss"

var (
	hintDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8d98a7"))
	keyCapStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0f1419")).
			Background(lipgloss.Color("#8fb8e0")).
			Bold(true).
			Padding(0, 1)
	segmentStyle = lipgloss.NewStyle().
			MarginRight(2)
	statusBarBorder = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(colorBorder).
			PaddingLeft(1)
)

// StatusBar renders the bottom hint bar separated from content by a rule.
// Hints wrap onto extra rows when the terminal is narrow.
func StatusBar(hints []string, width int) string {
	segments := make([]string, 0, len(hints))
	for _, h := range hints {
		segments = append(segments, segmentStyle.Render(h))
	}
	if width <= 0 {
		return statusBarBorder.Render(lipgloss.JoinHorizontal(lipgloss.Top, segments...))
	}
	rows := wrapSegments(segments, width-1)
	if len(rows) == 0 {
		return ""
	}
	return statusBarBorder.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// Hint formats a single keybind hint like "[enter] send".
func Hint(key, desc string) string {
	return keyCapStyle.Render(key) + hintDescStyle.Render(" "+desc)
}

func wrapSegments(segments []string, width int) []string {
	if width <= 0 {
		return []string{lipgloss.JoinHorizontal(lipgloss.Top, segments...)}
	}
	rows := make([]string, 0, 2)
	var current []string
	currentWidth := 0
	for _, seg := range segments {
		segWidth := lipgloss.Width(seg)
		if currentWidth > 0 && currentWidth+segWidth > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = []string{seg}
			currentWidth = segWidth
			continue
		}
		current = append(current, seg)
		currentWidth += segWidth
	}
	if len(current) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
	}
	return rows
}
