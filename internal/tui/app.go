package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkarlsen/adcon/internal/actions"
	"github.com/mkarlsen/adcon/internal/api"
	"github.com/mkarlsen/adcon/internal/directory"
	"github.com/mkarlsen/adcon/internal/session"
	"github.com/mkarlsen/adcon/internal/urls"
)

// Screen represents the current active screen in the application.
// Exactly one screen is visible at any time.
type Screen string

const (
	ScreenLoading Screen = "loading"
	ScreenLogin   Screen = "login"
	ScreenError   Screen = "error"
	ScreenMain    Screen = "main"
)

// AppModel is the top-level coordinator model that manages screen
// transitions: loading at startup, login when no session is held, error
// for explicit connection failures, and main once a session and the
// tenant configuration are both established.
type AppModel struct {
	CurrentScreen Screen

	// Shared services
	Controller *session.Controller
	Search     *directory.Service
	Dispatch   *actions.Dispatcher

	// Screen models
	MainModel MainModel

	// Error screen state
	LastError *api.APIError

	// Whether the startup establish attempt runs silently
	AutoLogin bool

	// Gateway traffic indicator
	Busy    bool
	Spinner spinner.Model

	// UI state
	Width  int
	Height int
}

// NewAppModel creates the application model. When autoLogin is set the
// model starts on the loading screen and attempts a silent session
// establish; otherwise it starts on the login screen.
func NewAppModel(ctrl *session.Controller, autoLogin bool) AppModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	start := ScreenLogin
	if autoLogin {
		start = ScreenLoading
	}

	return AppModel{
		CurrentScreen: start,
		Controller:    ctrl,
		Search:        directory.NewService(ctrl.Client()),
		Dispatch:      newDialogDispatcher(ctrl.Client()),
		AutoLogin:     autoLogin,
		Spinner:       s,
	}
}

// newDialogDispatcher builds the dispatcher used by the TUI. Confirmation
// happens in the confirm dialog before any workflow command is issued, so
// the dispatcher-level hook always accepts.
func newDialogDispatcher(client *api.Client) *actions.Dispatcher {
	d := actions.NewDispatcher(client)
	d.Confirm = func(string) bool { return true }
	return d
}

// Init starts the spinner and, when auto-login is enabled, the silent
// session establish.
func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.Spinner.Tick}
	if m.CurrentScreen == ScreenLoading {
		cmds = append(cmds, establishCmd(m.Controller, false))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages and routes them to the appropriate screen.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.MainModel.Width = msg.Width
		m.MainModel.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case BusyMsg:
		m.Busy = msg.Active
		if m.Busy {
			return m, m.Spinner.Tick
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		// Keep ticking only while something needs the indicator
		if m.Busy || m.CurrentScreen == ScreenLoading {
			return m, cmd
		}
		return m, nil

	case sessionResultMsg:
		return m.handleSessionResult(msg)
	}

	return m.updateCurrentScreen(msg)
}

// handleSessionResult applies the establish outcome. Success always lands
// on the main screen. A silent failure falls back to the login screen
// without raising an alert; an explicit failure shows the error screen
// with the failure detail.
func (m AppModel) handleSessionResult(msg sessionResultMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil {
		m.LastError = nil
		m.MainModel = NewMainModel(msg.state, m.Search, m.Dispatch)
		m.MainModel.Width = m.Width
		m.MainModel.Height = m.Height
		m.CurrentScreen = ScreenMain
		return m, m.MainModel.Init()
	}

	if msg.explicit {
		m.LastError = msg.err
		m.CurrentScreen = ScreenError
	} else {
		m.CurrentScreen = ScreenLogin
	}
	return m, nil
}

func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.CurrentScreen {
	case ScreenLoading:
		// Only the establish result moves this screen forward
		return m, nil

	case ScreenLogin:
		return m.handleLoginScreen(msg)

	case ScreenError:
		return m.handleErrorScreen(msg)

	case ScreenMain:
		updated, cmd := m.MainModel.Update(msg)
		m.MainModel = updated

		if m.MainModel.LogoutRequested {
			m.Controller.End()
			m.MainModel = MainModel{}
			m.CurrentScreen = ScreenLogin
			return m, nil
		}
		return m, cmd
	}

	return m, nil
}

func (m AppModel) handleLoginScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter", "s":
			m.CurrentScreen = ScreenLoading
			return m, tea.Batch(m.Spinner.Tick, establishCmd(m.Controller, true))

		case "q", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m AppModel) handleErrorScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "r", "enter":
			m.CurrentScreen = ScreenLoading
			return m, tea.Batch(m.Spinner.Tick, establishCmd(m.Controller, true))

		case "l":
			m.CurrentScreen = ScreenLogin
			return m, nil

		case "q", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the current screen.
func (m AppModel) View() string {
	if m.Width == 0 || m.Height == 0 {
		return "Initializing..."
	}

	operator := ""
	if state := m.Controller.State(); state.Authenticated() {
		operator = state.Session.Name
	}

	switch m.CurrentScreen {
	case ScreenLoading:
		return m.renderLoading(operator)
	case ScreenLogin:
		return m.renderLogin()
	case ScreenError:
		return m.renderError()
	case ScreenMain:
		return m.MainModel.render(operator, m.footerIndicator())
	default:
		return "Unknown screen"
	}
}

// footerIndicator is the process-wide traffic indicator appended to every
// footer while a gateway call is in flight.
func (m AppModel) footerIndicator() string {
	if !m.Busy {
		return ""
	}
	return m.Spinner.View() + " working"
}

func (m AppModel) renderLoading(operator string) string {
	var b strings.Builder
	b.WriteString(RenderTitle("Connecting"))
	b.WriteString("\n\n")
	b.WriteString(m.Spinner.View())
	b.WriteString(" Contacting the administration service...")
	b.WriteString("\n\n")
	b.WriteString(LabelStyle.Render(m.Controller.Client().BaseURL))

	return RenderApplicationContainer(b.String(), "ctrl+c quit", operator, m.Width, m.Height)
}

func (m AppModel) renderLogin() string {
	var b strings.Builder
	b.WriteString(RenderTitle("Sign In"))
	b.WriteString("\n")
	b.WriteString("No active session with the administration service.\n\n")
	b.WriteString(LabelStyle.Render("Server: "))
	b.WriteString(m.Controller.Client().BaseURL)
	b.WriteString("\n\n")
	b.WriteString("Press enter to sign in. Authentication is asserted by the\n")
	b.WriteString("service itself; no credentials are entered here.")

	return RenderApplicationContainer(b.String(), "enter sign in • q quit", "", m.Width, m.Height)
}

func (m AppModel) renderError() string {
	var b strings.Builder
	b.WriteString(RenderTitle("Connection Failed"))
	b.WriteString("\n")
	if m.LastError != nil {
		b.WriteString(RenderError(m.LastError.Message))
		b.WriteString("\n\n")
		if m.LastError.Detail != "" {
			b.WriteString(m.LastError.Detail)
			b.WriteString("\n\n")
		}
	}
	b.WriteString(LabelStyle.Render("Server: "))
	b.WriteString(m.Controller.Client().BaseURL)
	b.WriteString("\n\n")
	b.WriteString(LabelStyle.Render("Troubleshooting: " + urls.Troubleshooting))

	return RenderApplicationContainer(b.String(), "r retry • l login • q quit", "", m.Width, m.Height)
}
