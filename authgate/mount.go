package authgate

import (
	"errors"
	"time"
)

var errSuperseded = errors.New("superseded by a newer navigation")

// Mount is one entry into the protected area.
type Mount struct {
	gate       *Gate
	generation uint64
	location   string
	expiresAt  time.Time
	denied     error
	timer      Timer
	expired    bool
}

// Allowed reports whether the protected view may render.
func (m *Mount) Allowed() bool {
	return m.denied == nil
}

// Err is why the mount was denied, or nil.
func (m *Mount) Err() error {
	return m.denied
}

// Location is where the navigation was headed.
func (m *Mount) Location() string {
	return m.location
}

// ExpiresAt is the token expiry the mount's timer is armed for.
func (m *Mount) ExpiresAt() time.Time {
	return m.expiresAt
}

// Unmount cancels the mount's timer. A fired timer becomes a no-op.
func (m *Mount) Unmount() {
	g := m.gate
	g.mu.Lock()
	defer g.mu.Unlock()
	m.stop()
	if g.live == m {
		g.live = nil
	}
}

// stop must be called with the gate lock held.
func (m *Mount) stop() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// Expired reports whether the mount's timer has fired.
func (m *Mount) Expired() bool {
	g := m.gate
	g.mu.Lock()
	defer g.mu.Unlock()
	return m.expired
}
