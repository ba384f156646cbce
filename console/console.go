// Package console is the interactive admin console. It hosts the login form,
// the protected sections and the session-expired interstitial.
package console

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jrsteele09/news-admin/app"
)

// Run starts the console on the terminal and blocks until the user quits.
func Run(ctx context.Context, a *app.App, opts ...tea.ProgramOption) error {
	bridge := NewBridge()
	gate := a.NewGate(bridge, bridge)

	model := NewModel(ctx, a.SignIn, a.Sessions, gate)
	p := tea.NewProgram(model, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)
	bridge.Attach(p.Send)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			p.Quit()
		case <-done:
		}
	}()

	_, err := p.Run()
	return err
}
