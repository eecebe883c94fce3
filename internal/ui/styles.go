package ui

import "github.com/charmbracelet/lipgloss"

// --- Theme Colors ---

var (
	ColorPrimary    = lipgloss.Color("#3d8bd9") // blue
	ColorSecondary  = lipgloss.Color("#2f9e8f") // teal
	ColorAccent     = lipgloss.Color("#e5a84b") // amber
	ColorBackground = lipgloss.Color("#0f1419") // dark
	ColorText       = lipgloss.Color("#dde3ea") // main text
	ColorMuted      = lipgloss.Color("#8d98a7") // muted text
	ColorError      = lipgloss.Color("#e06c75") // red
	ColorWarning    = lipgloss.Color("#c78854") // warning
	ColorBorder     = lipgloss.Color("#2b3a4a") // border
)

// --- Reusable Styles ---

var (
	BannerStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorBackground).
			Background(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	// Chat transcript.

	UserNameStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	BotNameStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	UserTextStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			PaddingLeft(2)

	FallbackTextStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Italic(true).
				PaddingLeft(2)

	TimestampStyle = lipgloss.NewStyle().
			Foreground(ColorBorder)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	PromptStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)
)
