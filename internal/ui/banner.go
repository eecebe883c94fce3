package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerArt = `
 _   _       _ ____        _
| | | |_ __ (_) __ )  ___ | |_
| | | | '_ \| |  _ \ / _ \| __|
| |_| | | | | | |_) | (_) | |_
 \___/|_| |_|_|____/ \___/ \__|`

const bannerSubtitle = "Campus FAQ Assistant"

// RenderBanner returns the styled ASCII banner with its subtitle.
func RenderBanner() string {
	lines := splitLines(bannerArt)

	maxWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}

	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		b.WriteString(BannerStyle.Render(line) + "\n")
	}

	subtitle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Width(maxWidth).
		Align(lipgloss.Center).
		Render(bannerSubtitle)

	return b.String() + subtitle + "\n"
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimPrefix(s, "\n"), "\n")
}
