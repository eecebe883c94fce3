package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/unibot/cli/internal/apperr"
	"github.com/unibot/cli/internal/chat"
	"github.com/unibot/cli/internal/ui/components"
)

// --- Messages ---

type chatAnsweredMsg struct{ err error }
type chatProbedMsg struct{ ok bool }

const (
	chatWelcome     = "Ask a question about campus life to get started."
	chatUnreachable = "Could not connect to the UniBot server. Answers may fail until it is back."
	chatBusyNotice  = "Still waiting for the previous answer."
)

// --- Chat Model ---

// ChatModel renders a chat.Session: the transcript in a scrolling viewport
// and a single-line input. Bot answers are rendered as markdown.
type ChatModel struct {
	session  *chat.Session
	feed     *changeFeed
	timeout  time.Duration
	theme    string
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	sending  bool
	notice   string
	width    int
	height   int
}

// NewChatModel builds the chat surface on top of session.
func NewChatModel(session *chat.Session, timeout time.Duration, theme string) ChatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask me anything..."
	ti.Prompt = "> "
	ti.PromptStyle = PromptStyle
	ti.CharLimit = 1000
	ti.Width = 76
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	m := ChatModel{
		session:  session,
		feed:     newChangeFeed(session),
		timeout:  timeout,
		theme:    theme,
		input:    ti,
		viewport: viewport.New(80, 16),
		spinner:  sp,
		width:    80,
		height:   24,
	}
	m.renderer = newMarkdownRenderer(theme, 76)
	m.refresh()
	return m
}

func newMarkdownRenderer(theme string, wrap int) *glamour.TermRenderer {
	if theme == "" {
		theme = "dark"
	}
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil
	}
	return r
}

func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.probeCmd(), m.feed.wait())
}

// Close detaches the model from its session.
func (m ChatModel) Close() {
	m.feed.Close()
}

func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case stateChangedMsg:
		if msg.feed != m.feed {
			return m, nil
		}
		m.refresh()
		return m, m.feed.wait()

	case chatProbedMsg:
		m.refresh()
		return m, nil

	case chatAnsweredMsg:
		m.sending = false
		if apperr.IsKind(msg.err, apperr.KindBusy) {
			m.notice = chatBusyNotice
			m.input.SetValue(m.session.Input())
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.sending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m ChatModel) handleKeys(msg tea.KeyMsg) (ChatModel, tea.Cmd) {
	switch {
	case isEnter(msg):
		text := m.input.Value()
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		if m.sending {
			m.notice = chatBusyNotice
			return m, nil
		}
		m.notice = ""
		m.session.SetInput(text)
		m.input.Reset()
		m.sending = true
		return m, tea.Batch(m.sendCmd(), m.spinner.Tick)
	case isKey(msg, "pgup", "pgdown", "up", "down"):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m ChatModel) sendCmd() tea.Cmd {
	session, timeout := m.session, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return chatAnsweredMsg{err: session.Submit(ctx)}
	}
}

func (m ChatModel) probeCmd() tea.Cmd {
	session, timeout := m.session, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return chatProbedMsg{ok: session.Probe(ctx)}
	}
}

func (m *ChatModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(10, width-4)

	// title, warning, spinner/notice, input, status bar (2)
	m.viewport.Width = width
	m.viewport.Height = max(3, height-7)
	m.renderer = newMarkdownRenderer(m.theme, width-4)
	m.refresh()
}

// refresh rebuilds the viewport content from the session transcript and
// keeps the newest message in view.
func (m *ChatModel) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m ChatModel) renderTranscript() string {
	messages := m.session.Transcript()
	if len(messages) == 0 {
		return RenderBanner() + "\n" + MutedStyle.Render(chatWelcome)
	}

	var b strings.Builder
	for _, msg := range messages {
		stamp := TimestampStyle.Render(msg.SentAt.Format("15:04"))
		switch msg.Sender {
		case chat.User:
			b.WriteString(UserNameStyle.Render("You") + " " + stamp + "\n")
			b.WriteString(UserTextStyle.Render(components.SanitizeText(msg.Text)))
			b.WriteString("\n\n")
		default:
			b.WriteString(BotNameStyle.Render("UniBot") + " " + stamp + "\n")
			if msg.Fallback {
				b.WriteString(FallbackTextStyle.Render(msg.Text))
				b.WriteString("\n\n")
				continue
			}
			b.WriteString(m.renderMarkdown(components.SanitizeText(msg.Text)))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m ChatModel) renderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = UserTextStyle.Render(content)
		}
	}()
	if m.renderer != nil && content != "" {
		if rendered, err := m.renderer.Render(content); err == nil {
			return strings.TrimRight(rendered, "\n") + "\n"
		}
	}
	return UserTextStyle.Render(content) + "\n"
}

func (m ChatModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("UniBot") + " " + MutedStyle.Render("chat") + "\n")
	if m.session.Unreachable() {
		b.WriteString(WarningStyle.Render(chatUnreachable))
	}
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	switch {
	case m.sending:
		b.WriteString(fmt.Sprintf("%s %s", m.spinner.View(), MutedStyle.Render("UniBot is thinking...")))
	case m.notice != "":
		b.WriteString(WarningStyle.Render(m.notice))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(components.StatusBar([]string{
		components.Hint("enter", "send"),
		components.Hint("↑/↓", "scroll"),
		components.Hint("ctrl+a", "admin"),
		components.Hint("ctrl+c", "quit"),
	}, m.width))
	return b.String()
}
