package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unibot/cli/internal/apperr"
	"github.com/unibot/cli/internal/faq"
	"github.com/unibot/cli/internal/session"
	"github.com/unibot/cli/internal/ui/components"
)

// --- Messages ---

type loginDoneMsg struct{ err error }
type faqsLoadedMsg struct{ err error }
type saveDoneMsg struct{ err error }
type deleteDoneMsg struct{ err error }

type adminView int

const (
	adminViewLogin adminView = iota
	adminViewList
	adminViewEdit
	adminViewConfirmDelete
)

const (
	loginFieldUsername = iota
	loginFieldPassword
	loginFieldCount
)

const (
	editFieldQuestion = iota
	editFieldAnswer
	editFieldKeyword
	editFieldKeywordList
	editFieldCount
)

const (
	adminEmptyHint     = "No FAQs found. Press a to add one."
	adminReloadWarning = "Saved, but reloading FAQs failed. Press r to retry."
	keywordRejected    = "Keyword is empty or already added"
)

// --- Admin Model ---

// AdminModel renders the login form and, once logged in, the FAQ list with
// its create/edit form and delete confirmation.
type AdminModel struct {
	controller *session.Controller
	repo       *faq.Repository
	edit       *faq.EditSession
	feed       *changeFeed
	timeout    time.Duration

	view    adminView
	list    *components.List
	spinner spinner.Model
	busy    bool
	errText string
	notice  string
	width   int
	height  int

	// login
	loginInputs []textinput.Model
	loginFocus  int

	// edit
	questionInput textinput.Model
	answerInput   textinput.Model
	keywordInput  textinput.Model
	editFocus     int
	keywordCursor int

	pendingDelete int
}

// NewAdminModel builds the admin surface. The edit session must save through
// the same repository the controller loads.
func NewAdminModel(controller *session.Controller, repo *faq.Repository, edit *faq.EditSession, timeout time.Duration) AdminModel {
	username := textinput.New()
	username.Placeholder = "username"
	username.Prompt = ""
	username.CharLimit = 128
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = ""
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	m := AdminModel{
		controller:    controller,
		repo:          repo,
		edit:          edit,
		feed:          newChangeFeed(controller, repo, edit),
		timeout:       timeout,
		view:          adminViewLogin,
		list:          components.NewList(10),
		spinner:       sp,
		width:         80,
		height:        24,
		loginInputs:   []textinput.Model{username, password},
		questionInput: newFormInput("What is the question?", 500),
		answerInput:   newFormInput("What should UniBot answer?", 4000),
		keywordInput:  newFormInput("type a keyword and press enter", 64),
		pendingDelete: -1,
	}
	if controller.LoggedIn() {
		m.view = adminViewList
		m.syncList()
	}
	return m
}

func newFormInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = limit
	ti.Width = 60
	return ti
}

func (m AdminModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.feed.wait())
}

// Close detaches the model from its core objects.
func (m AdminModel) Close() {
	m.feed.Close()
}

func (m AdminModel) Update(msg tea.Msg) (AdminModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetPageSize(max(3, msg.Height-16))
		return m, nil

	case stateChangedMsg:
		if msg.feed != m.feed {
			return m, nil
		}
		m.syncList()
		return m, m.feed.wait()

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loginDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = apperr.UserMessage(msg.err)
			return m, nil
		}
		m.errText = ""
		m.view = adminViewList
		m.resetLoginInputs()
		m.list.SetItems(nil)
		m.syncList()
		return m, nil

	case faqsLoadedMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = apperr.UserMessage(msg.err)
		} else {
			m.errText = ""
		}
		m.syncList()
		return m, nil

	case saveDoneMsg:
		m.busy = false
		var reloadErr *faq.ReloadError
		switch {
		case msg.err == nil:
			m.errText = ""
		case errors.As(msg.err, &reloadErr):
			m.errText = adminReloadWarning
		case m.edit.IsOpen():
			// the form renders the session's own error
			m.errText = ""
		default:
			m.errText = apperr.UserMessage(msg.err)
		}
		if !m.edit.IsOpen() {
			m.view = adminViewList
		}
		m.syncList()
		return m, nil

	case deleteDoneMsg:
		m.busy = false
		var reloadErr *faq.ReloadError
		switch {
		case msg.err == nil:
			m.errText = ""
		case errors.As(msg.err, &reloadErr):
			m.errText = adminReloadWarning
		default:
			m.errText = apperr.UserMessage(msg.err)
		}
		m.pendingDelete = -1
		m.view = adminViewList
		m.syncList()
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case adminViewLogin:
			return m.handleLoginKeys(msg)
		case adminViewList:
			return m.handleListKeys(msg)
		case adminViewEdit:
			return m.handleEditKeys(msg)
		case adminViewConfirmDelete:
			return m.handleConfirmKeys(msg)
		}
	}
	return m, nil
}

// --- Login ---

func (m AdminModel) handleLoginKeys(msg tea.KeyMsg) (AdminModel, tea.Cmd) {
	switch {
	case isNextField(msg), isDown(msg):
		m.focusLogin((m.loginFocus + 1) % loginFieldCount)
		return m, nil
	case isPrevField(msg), isUp(msg):
		m.focusLogin((m.loginFocus + loginFieldCount - 1) % loginFieldCount)
		return m, nil
	case isEnter(msg):
		if m.loginFocus == loginFieldUsername {
			m.focusLogin(loginFieldPassword)
			return m, nil
		}
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.errText = ""
		return m, tea.Batch(m.loginCmd(), m.spinner.Tick)
	case isBack(msg):
		return m, navigateTo(SurfaceChat)
	}

	var cmd tea.Cmd
	m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	if m.loginFocus == loginFieldUsername {
		m.controller.SetUsername(m.loginInputs[loginFieldUsername].Value())
	} else {
		m.controller.SetPassword(m.loginInputs[loginFieldPassword].Value())
	}
	return m, cmd
}

func (m *AdminModel) focusLogin(field int) {
	m.loginFocus = field
	for i := range m.loginInputs {
		if i == field {
			m.loginInputs[i].Focus()
		} else {
			m.loginInputs[i].Blur()
		}
	}
}

func (m *AdminModel) resetLoginInputs() {
	for i := range m.loginInputs {
		m.loginInputs[i].Reset()
	}
	m.focusLogin(loginFieldUsername)
}

func (m AdminModel) loginCmd() tea.Cmd {
	controller, timeout := m.controller, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return loginDoneMsg{err: controller.Submit(ctx)}
	}
}

// --- List ---

func (m AdminModel) handleListKeys(msg tea.KeyMsg) (AdminModel, tea.Cmd) {
	switch {
	case isDown(msg):
		m.list.Down()
	case isUp(msg):
		m.list.Up()
	case isKey(msg, "a"):
		m.edit.OpenForCreate()
		m.openForm()
	case isKey(msg, "e"), isEnter(msg):
		idx := m.list.Selected()
		if idx < 0 {
			return m, nil
		}
		if err := m.edit.OpenForEdit(idx); err != nil {
			m.errText = apperr.UserMessage(err)
			return m, nil
		}
		m.openForm()
	case isKey(msg, "d"):
		idx := m.list.Selected()
		if idx < 0 {
			return m, nil
		}
		m.pendingDelete = idx
		m.view = adminViewConfirmDelete
	case isKey(msg, "r"):
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.loadCmd(), m.spinner.Tick)
	case isKey(msg, "L"):
		m.edit.Cancel()
		m.controller.Logout()
		m.resetLoginInputs()
		m.errText = ""
		m.view = adminViewLogin
	case isKey(msg, "c"), isBack(msg):
		return m, navigateTo(SurfaceChat)
	}
	return m, nil
}

func (m AdminModel) loadCmd() tea.Cmd {
	repo, timeout := m.repo, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_, err := repo.Load(ctx)
		return faqsLoadedMsg{err: err}
	}
}

// syncList mirrors the repository cache into the list, keeping the cursor.
func (m *AdminModel) syncList() {
	entries := m.repo.Entries()
	items := make([]string, len(entries))
	for i, e := range entries {
		items[i] = e.Question
	}
	m.list.ReplaceItems(items)
}

// --- Edit ---

// openForm loads the edit session's draft into the form inputs.
func (m *AdminModel) openForm() {
	m.view = adminViewEdit
	m.errText = ""
	m.notice = ""
	m.questionInput.SetValue(m.edit.Question())
	m.answerInput.SetValue(m.edit.Answer())
	m.keywordInput.Reset()
	m.keywordCursor = 0
	m.focusEdit(editFieldQuestion)
}

func (m *AdminModel) focusEdit(field int) {
	m.editFocus = field
	inputs := []*textinput.Model{&m.questionInput, &m.answerInput, &m.keywordInput}
	for i, in := range inputs {
		if i == field {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (m AdminModel) handleEditKeys(msg tea.KeyMsg) (AdminModel, tea.Cmd) {
	switch {
	case isBack(msg):
		m.edit.Cancel()
		m.view = adminViewList
		m.errText = ""
		m.notice = ""
		return m, nil
	case isSave(msg):
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.notice = ""
		return m, tea.Batch(m.saveCmd(), m.spinner.Tick)
	case isNextField(msg):
		m.focusEdit((m.editFocus + 1) % editFieldCount)
		return m, nil
	case isPrevField(msg):
		m.focusEdit((m.editFocus + editFieldCount - 1) % editFieldCount)
		return m, nil
	}

	switch m.editFocus {
	case editFieldKeyword:
		if isEnter(msg) {
			if m.edit.AddKeyword(m.keywordInput.Value()) {
				m.keywordInput.Reset()
				m.notice = ""
			} else {
				m.notice = keywordRejected
			}
			return m, nil
		}
	case editFieldKeywordList:
		count := len(m.edit.Keywords())
		switch {
		case isKey(msg, "left", "up"):
			if m.keywordCursor > 0 {
				m.keywordCursor--
			}
		case isKey(msg, "right", "down"):
			if m.keywordCursor < count-1 {
				m.keywordCursor++
			}
		case isDeleteKey(msg):
			if m.edit.RemoveKeyword(m.keywordCursor) && m.keywordCursor >= count-1 && m.keywordCursor > 0 {
				m.keywordCursor--
			}
		}
		return m, nil
	case editFieldQuestion, editFieldAnswer:
		if isEnter(msg) {
			m.focusEdit(m.editFocus + 1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.editFocus {
	case editFieldQuestion:
		m.questionInput, cmd = m.questionInput.Update(msg)
		m.edit.SetQuestion(m.questionInput.Value())
	case editFieldAnswer:
		m.answerInput, cmd = m.answerInput.Update(msg)
		m.edit.SetAnswer(m.answerInput.Value())
	case editFieldKeyword:
		m.keywordInput, cmd = m.keywordInput.Update(msg)
	}
	return m, cmd
}

func (m AdminModel) saveCmd() tea.Cmd {
	edit, timeout := m.edit, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return saveDoneMsg{err: edit.Save(ctx)}
	}
}

// --- Delete ---

func (m AdminModel) handleConfirmKeys(msg tea.KeyMsg) (AdminModel, tea.Cmd) {
	switch {
	case isKey(msg, "y", "Y"):
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.deleteCmd(m.pendingDelete), m.spinner.Tick)
	case isKey(msg, "n", "N"), isBack(msg):
		m.pendingDelete = -1
		m.view = adminViewList
	}
	return m, nil
}

func (m AdminModel) deleteCmd(index int) tea.Cmd {
	edit, timeout := m.edit, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return deleteDoneMsg{err: edit.Delete(ctx, index, true)}
	}
}

// --- View ---

func (m AdminModel) View() string {
	var body string
	var hints []string
	switch m.view {
	case adminViewLogin:
		body = m.renderLogin()
		hints = []string{
			components.Hint("tab", "next field"),
			components.Hint("enter", "login"),
			components.Hint("esc", "chat"),
			components.Hint("ctrl+c", "quit"),
		}
	case adminViewList:
		body = m.renderList()
		hints = []string{
			components.Hint("↑/↓", "move"),
			components.Hint("a", "add"),
			components.Hint("e", "edit"),
			components.Hint("d", "delete"),
			components.Hint("r", "reload"),
			components.Hint("L", "logout"),
			components.Hint("c", "chat"),
		}
	case adminViewEdit:
		body = m.renderEdit()
		hints = []string{
			components.Hint("tab", "next field"),
			components.Hint("ctrl+s", "save"),
			components.Hint("esc", "cancel"),
		}
	case adminViewConfirmDelete:
		body = m.renderConfirm()
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("UniBot") + " " + MutedStyle.Render("admin") + "\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	if m.busy {
		b.WriteString(m.spinner.View() + " " + MutedStyle.Render("Working...") + "\n")
	}
	if m.errText != "" {
		b.WriteString(components.ErrorBox("Error", m.errText, m.width) + "\n")
	}
	if len(hints) > 0 {
		b.WriteString(components.StatusBar(hints, m.width))
	}
	return b.String()
}

func (m AdminModel) renderLogin() string {
	labels := []string{"Username", "Password"}
	var rows []string
	for i, in := range m.loginInputs {
		label := LabelStyle.Render(labels[i])
		if i == m.loginFocus {
			label = SelectedStyle.Render("› " + labels[i])
		}
		rows = append(rows, label+"\n"+in.View())
	}
	return components.TitledBox("Admin login", strings.Join(rows, "\n\n"), m.width)
}

func (m AdminModel) renderList() string {
	if len(m.list.Items) == 0 {
		msg := adminEmptyHint
		if err := m.repo.LastError(); err != nil && !m.repo.Loaded() {
			msg = apperr.UserMessage(err)
		}
		return components.Box(MutedStyle.Render(msg), m.width)
	}

	inner := components.BoxContentWidth(m.width)
	var rows []string
	for i, q := range m.list.Visible() {
		abs := m.list.RelToAbs(i)
		line := components.ClampTextWidth(q, max(10, inner-2))
		if m.list.IsSelected(abs) {
			rows = append(rows, SelectedStyle.Render("› "+line))
		} else {
			rows = append(rows, NormalStyle.Render("  "+line))
		}
	}
	out := components.TitledBox("FAQs", strings.Join(rows, "\n"), m.width)

	if entry, ok := m.repo.Entry(m.list.Selected()); ok {
		out += "\n" + components.FAQCard(entry.Question, entry.Answer, entry.Keywords.Values(), m.width, false)
	}
	return out
}

func (m AdminModel) renderEdit() string {
	title := "New FAQ"
	if m.edit.Mode() == faq.ModeEdit {
		title = "Edit FAQ"
	}

	label := func(field int, text string) string {
		if m.editFocus == field {
			return SelectedStyle.Render("› " + text)
		}
		return LabelStyle.Render(text)
	}

	selected := -1
	if m.editFocus == editFieldKeywordList {
		selected = m.keywordCursor
	}

	sections := []string{
		label(editFieldQuestion, "Question") + "\n" + m.questionInput.View(),
		label(editFieldAnswer, "Answer") + "\n" + m.answerInput.View(),
		label(editFieldKeyword, "Add keyword") + "\n" + m.keywordInput.View(),
		label(editFieldKeywordList, "Keywords") + "\n" +
			components.KeywordPills(m.edit.Keywords(), selected, components.BoxContentWidth(m.width)),
	}
	if m.notice != "" {
		sections = append(sections, WarningStyle.Render(m.notice))
	}
	if err := m.edit.Err(); err != nil {
		sections = append(sections, ErrorStyle.Render(apperr.UserMessage(err)))
	}
	return components.ActiveTitledBox(title, strings.Join(sections, "\n\n"), m.width)
}

func (m AdminModel) renderConfirm() string {
	entry, ok := m.repo.Entry(m.pendingDelete)
	if !ok {
		return components.ConfirmDialog("Delete FAQ", "Delete this FAQ?")
	}
	return components.ConfirmPreviewDialog("Delete FAQ", "Delete this FAQ? This cannot be undone.", [][2]string{
		{"Question", entry.Question},
		{"Keywords", entry.Keywords.String()},
	}, m.width)
}
