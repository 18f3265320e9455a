package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkarlsen/adcon/internal/session"
)

// Run launches the interactive console over an established controller.
// The gateway's in-flight gauge is bridged into the program so the busy
// indicator tracks real traffic, not screen state.
func Run(ctrl *session.Controller, autoLogin bool) error {
	model := NewAppModel(ctrl, autoLogin)
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctrl.Client().Busy().Observe(func(active bool) {
		p.Send(BusyMsg{Active: active})
	})

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("console error: %w", err)
	}
	return nil
}
