package console

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jrsteele09/news-admin/authgate"
)

type redirectMsg struct {
	redirect authgate.Redirect
}

type sessionExpiredMsg struct {
	mount *authgate.Mount
}

// Bridge turns the gate's navigator and presenter callbacks into messages for
// a running program. Callbacks before Attach are dropped.
type Bridge struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

var (
	_ authgate.Navigator = (*Bridge)(nil)
	_ authgate.Presenter = (*Bridge)(nil)
)

func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach routes messages to send, usually (*tea.Program).Send.
func (b *Bridge) Attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

func (b *Bridge) Redirect(r authgate.Redirect) {
	b.dispatch(redirectMsg{redirect: r})
}

func (b *Bridge) ShowSessionExpired(m *authgate.Mount) {
	b.dispatch(sessionExpiredMsg{mount: m})
}

func (b *Bridge) dispatch(msg tea.Msg) {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send != nil {
		send(msg)
	}
}
