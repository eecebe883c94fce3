package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	pillStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cfe3f7")).
			Background(lipgloss.Color("#23415e")).
			Padding(0, 1)
	pillSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#0f1419")).
				Background(lipgloss.Color("#e5a84b")).
				Bold(true).
				Padding(0, 1)
)

// KeywordPills renders keywords as inline tags wrapped to width. The pill at
// selected is highlighted; pass -1 for none.
func KeywordPills(keywords []string, selected, width int) string {
	if len(keywords) == 0 {
		return boxMutedStyle.Render("(no keywords)")
	}
	var (
		lines   []string
		current strings.Builder
		used    int
	)
	for i, kw := range keywords {
		style := pillStyle
		if i == selected {
			style = pillSelectedStyle
		}
		pill := style.Render(SanitizeOneLine(kw))
		w := lipgloss.Width(pill) + 1
		if width > 0 && used > 0 && used+w > width {
			lines = append(lines, current.String())
			current.Reset()
			used = 0
		}
		current.WriteString(pill + " ")
		used += w
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.Join(lines, "\n")
}

// FAQCard renders one FAQ entry with its answer wrapped inside a box.
func FAQCard(question, answer string, keywords []string, width int, active bool) string {
	inner := BoxContentWidth(width)
	body := boxValueStyle.Render(lipgloss.NewStyle().Width(inner).Render(SanitizeText(answer))) +
		"\n\n" + KeywordPills(keywords, -1, inner)
	if active {
		return ActiveTitledBox(question, body, width)
	}
	return TitledBox(question, body, width)
}
