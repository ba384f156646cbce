package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jrsteele09/news-admin/api"
	"github.com/jrsteele09/news-admin/authgate"
	"github.com/jrsteele09/news-admin/sessionlog"
	"github.com/jrsteele09/news-admin/signin"
)

// SignIn is the login service the console drives.
type SignIn interface {
	Login(ctx context.Context, email, password string) (signin.Result, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (api.User, bool)
}

// ActivityLogger records what the administrator does.
type ActivityLogger interface {
	LogActivity(ctx context.Context, a sessionlog.Activity)
}

// Gate guards every entry into a section.
type Gate interface {
	Enter(ctx context.Context, location string) *authgate.Mount
	Acknowledge(ctx context.Context)
}

type screen int

const (
	screenLoading screen = iota
	screenLogin
	screenSections
	screenExpired
)

const (
	fieldEmail = iota
	fieldPassword
)

type enteredMsg struct {
	index int
	mount *authgate.Mount
}

type loginDoneMsg struct {
	result signin.Result
	err    error
}

type logoutDoneMsg struct {
	err error
}

type acknowledgedMsg struct{}

// Model is the console's bubbletea model.
type Model struct {
	ctx      context.Context
	signin   SignIn
	activity ActivityLogger
	gate     Gate

	screen   screen
	inputs   []textinput.Model
	focus    int
	busy     bool
	err      string
	status   string
	cursor   int
	open     int // index of the open section, -1 when none
	current  *authgate.Mount
	returnTo string
	user     api.User
	width    int
	height   int
}

func NewModel(ctx context.Context, signIn SignIn, activity ActivityLogger, gate Gate) Model {
	email := textinput.New()
	email.Placeholder = "editor@example.com"
	email.Prompt = "> "
	email.CharLimit = 254
	email.Width = 40

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "> "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.Width = 40

	inputs := []textinput.Model{email, password}
	for i := range inputs {
		inputs[i].Cursor.SetMode(cursor.CursorStatic)
	}

	return Model{
		ctx:      ctx,
		signin:   signIn,
		activity: activity,
		gate:     gate,
		screen:   screenLoading,
		inputs:   inputs,
		open:     -1,
	}
}

// Init enters the first section; without a valid token the gate sends the
// user to the login screen.
func (m Model) Init() tea.Cmd {
	return m.enter(0)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		switch m.screen {
		case screenLogin:
			return m.updateLogin(msg)
		case screenSections:
			return m.updateSections(msg)
		case screenExpired:
			return m.updateExpired(msg)
		}
		return m, nil

	case enteredMsg:
		return m.entered(msg)

	case redirectMsg:
		status := "Your session has ended. Please sign in again."
		if msg.redirect.From != "" {
			status = "Please sign in to continue."
		}
		return m.toLogin(msg.redirect.From, status), nil

	case sessionExpiredMsg:
		if msg.mount == nil || msg.mount != m.current {
			return m, nil
		}
		m.screen = screenExpired
		m.busy = false
		return m, nil

	case acknowledgedMsg:
		m.busy = false
		if m.screen == screenExpired {
			m = m.toLogin("", "Your session has expired. Please sign in again.")
		}
		return m, nil

	case loginDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err.Error()
			m.inputs[fieldPassword].Reset()
			return m, nil
		}
		m.user = msg.result.User
		m.err = ""
		m.status = ""
		for i := range m.inputs {
			m.inputs[i].Reset()
		}
		target := 0
		if i := sectionIndex(m.returnTo); i >= 0 {
			target = i
		}
		m.returnTo = ""
		m.cursor = target
		return m, m.enter(target)

	case logoutDoneMsg:
		m.busy = false
		m = m.toLogin("", "Signed out.")
		if msg.err != nil {
			m.err = msg.err.Error()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		return m.quit()
	case "tab", "down", "shift+tab", "up":
		m.setFocus(1 - m.focus)
		return m, nil
	case "enter":
		if m.focus == fieldEmail {
			m.setFocus(fieldPassword)
			return m, nil
		}
		email := m.inputs[fieldEmail].Value()
		password := m.inputs[fieldPassword].Value()
		m.busy = true
		m.err = ""
		m.status = "Signing in..."
		ctx, svc := m.ctx, m.signin
		return m, func() tea.Msg {
			res, err := svc.Login(ctx, email, password)
			return loginDoneMsg{result: res, err: err}
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) updateSections(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		return m.quit()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(Sections)-1 {
			m.cursor++
		}
	case "enter":
		return m, m.enter(m.cursor)
	case "L":
		m.busy = true
		m.status = "Signing out..."
		if m.current != nil {
			m.current.Unmount()
			m.current = nil
		}
		ctx, svc := m.ctx, m.signin
		return m, func() tea.Msg {
			return logoutDoneMsg{err: svc.Logout(ctx)}
		}
	}
	return m, nil
}

func (m Model) updateExpired(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy || msg.Type != tea.KeyEnter {
		return m, nil
	}
	m.busy = true
	ctx, gate := m.ctx, m.gate
	return m, func() tea.Msg {
		gate.Acknowledge(ctx)
		return acknowledgedMsg{}
	}
}

func (m Model) entered(msg enteredMsg) (tea.Model, tea.Cmd) {
	if msg.mount == nil || !msg.mount.Allowed() {
		if m.screen == screenLoading {
			m.screen = screenLogin
			m.setFocus(fieldEmail)
		}
		return m, nil
	}

	if m.current != nil && m.current != msg.mount {
		m.current.Unmount()
	}
	m.current = msg.mount
	m.open = msg.index
	m.cursor = msg.index
	m.screen = screenSections
	m.err = ""
	m.status = ""
	if m.user.ID == "" {
		if u, ok := m.signin.CurrentUser(m.ctx); ok {
			m.user = u
		}
	}

	section := Sections[msg.index]
	ctx, logger := m.ctx, m.activity
	return m, func() tea.Msg {
		logger.LogActivity(ctx, sessionlog.Activity{
			Action:      "view",
			Section:     section.Title,
			Description: "Opened " + section.Title,
			Metadata:    map[string]any{"path": section.Path},
		})
		return nil
	}
}

// enter asks the gate for section i off the UI goroutine.
func (m Model) enter(i int) tea.Cmd {
	ctx, gate, path := m.ctx, m.gate, Sections[i].Path
	return func() tea.Msg {
		return enteredMsg{index: i, mount: gate.Enter(ctx, path)}
	}
}

func (m Model) toLogin(returnTo, status string) Model {
	if m.current != nil {
		m.current.Unmount()
		m.current = nil
	}
	m.screen = screenLogin
	m.open = -1
	m.user = api.User{}
	m.returnTo = returnTo
	m.status = status
	m.err = ""
	m.busy = false
	m.inputs[fieldPassword].Reset()
	m.setFocus(fieldEmail)
	return m
}

func (m *Model) setFocus(i int) {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			_ = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.current != nil {
		m.current.Unmount()
		m.current = nil
	}
	return m, tea.Quit
}

func (m Model) View() string {
	switch m.screen {
	case screenLogin:
		return m.loginView()
	case screenSections:
		return m.sectionsView()
	case screenExpired:
		return m.expiredView()
	}
	return hintStyle.Render("Checking session...")
}

func (m Model) loginView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("News Admin"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Email"))
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldEmail].View())
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldPassword].View())
	b.WriteString("\n\n")
	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(hintStyle.Render("tab switch field • enter sign in • esc quit"))
	return panelStyle.Render(b.String())
}

func (m Model) sectionsView() string {
	var list strings.Builder
	for i, s := range Sections {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		line := marker + s.Title
		if i == m.open {
			line += " ●"
		}
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		list.WriteString(line)
		list.WriteString("\n")
	}

	var detail strings.Builder
	if m.open >= 0 {
		detail.WriteString(titleStyle.Render(Sections[m.open].Title))
		detail.WriteString("\n\n")
	}
	if m.user.Email != "" {
		detail.WriteString(labelStyle.Render("Signed in as " + m.user.Email))
		detail.WriteString("\n")
	}
	if m.current != nil && !m.current.ExpiresAt().IsZero() {
		detail.WriteString(labelStyle.Render(fmt.Sprintf("Session valid until %s", m.current.ExpiresAt().Local().Format("15:04:05"))))
		detail.WriteString("\n")
	}
	if m.status != "" {
		detail.WriteString(statusStyle.Render(m.status))
		detail.WriteString("\n")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(list.String()),
		panelStyle.Render(detail.String()),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		hintStyle.Render("↑/↓ move • enter open • L sign out • q quit"),
	)
}

func (m Model) expiredView() string {
	box := modalStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		errorStyle.Bold(true).Render("Session expired"),
		"",
		"Your session has expired.",
		hintStyle.Render("Press Enter to sign in again"),
	))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
