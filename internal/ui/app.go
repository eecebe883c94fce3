package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/unibot/cli/internal/api"
	"github.com/unibot/cli/internal/chat"
	"github.com/unibot/cli/internal/config"
	"github.com/unibot/cli/internal/faq"
	"github.com/unibot/cli/internal/session"
)

// Surface selects which screen the App shows.
type Surface int

const (
	SurfaceChat Surface = iota
	SurfaceAdmin
)

// --- Messages ---

type navigateMsg struct{ to Surface }

func navigateTo(s Surface) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: s} }
}

// --- App Model ---

// App is the root TUI model. Moving between the chat and admin surfaces is
// a full transition: the surface being left is closed and the one entered
// is built on fresh core objects.
type App struct {
	client  *api.Client
	logger  *zap.Logger
	timeout time.Duration
	theme   string

	surface Surface
	chat    *ChatModel
	admin   *AdminModel
	width   int
	height  int
}

// NewApp creates the root application model starting on surface.
func NewApp(client *api.Client, cfg *config.Config, logger *zap.Logger, start Surface) App {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	a := App{
		client:  client,
		logger:  logger,
		timeout: cfg.Timeout,
		theme:   cfg.Theme,
		width:   80,
		height:  24,
	}
	a.enter(start)
	return a
}

func (a *App) enter(s Surface) {
	a.surface = s
	switch s {
	case SurfaceAdmin:
		repo := faq.NewRepository(a.client, a.logger)
		controller := session.NewController(a.client, repo, a.logger)
		edit := faq.NewEditSession(repo, a.logger)
		m := NewAdminModel(controller, repo, edit, a.timeout)
		m, _ = m.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		a.admin = &m
	default:
		m := NewChatModel(chat.NewSession(a.client, a.logger), a.timeout, a.theme)
		m, _ = m.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		a.chat = &m
	}
	a.logger.Debug("surface entered", zap.Int("surface", int(s)))
}

func (a *App) leave() {
	if a.chat != nil {
		a.chat.Close()
		a.chat = nil
	}
	if a.admin != nil {
		a.admin.Close()
		a.admin = nil
	}
}

func (a App) initSurface() tea.Cmd {
	if a.surface == SurfaceAdmin && a.admin != nil {
		return a.admin.Init()
	}
	if a.chat != nil {
		return a.chat.Init()
	}
	return nil
}

func (a App) Init() tea.Cmd {
	return a.initSurface()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case tea.KeyMsg:
		if isQuit(msg) {
			a.leave()
			return a, tea.Quit
		}
		if isAdminToggle(msg) {
			if a.surface == SurfaceAdmin {
				return a.navigate(SurfaceChat)
			}
			return a.navigate(SurfaceAdmin)
		}

	case navigateMsg:
		return a.navigate(msg.to)
	}

	var cmd tea.Cmd
	switch a.surface {
	case SurfaceAdmin:
		if a.admin != nil {
			m, c := a.admin.Update(msg)
			a.admin = &m
			cmd = c
		}
	default:
		if a.chat != nil {
			m, c := a.chat.Update(msg)
			a.chat = &m
			cmd = c
		}
	}
	return a, cmd
}

func (a App) navigate(to Surface) (tea.Model, tea.Cmd) {
	if to == a.surface {
		return a, nil
	}
	a.leave()
	a.enter(to)
	return a, a.initSurface()
}

func (a App) View() string {
	switch a.surface {
	case SurfaceAdmin:
		if a.admin != nil {
			return a.admin.View()
		}
	default:
		if a.chat != nil {
			return a.chat.View()
		}
	}
	return ""
}

// Surface reports the active surface.
func (a App) Surface() Surface {
	return a.surface
}
