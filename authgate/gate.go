// Package authgate guards the console's protected area. Every entry checks the
// stored access token; a missing, malformed or expired token forces a logout,
// while a valid one arms a single timer that raises the session-expired
// interstitial at the token's expiry instant.
package authgate

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/news-admin/internal/errors"
	"github.com/jrsteele09/news-admin/sessionlog"
	"github.com/jrsteele09/news-admin/storage"
	"github.com/jrsteele09/news-admin/token"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SessionEnder is the part of sessionlog.Manager the gate drives on logout.
type SessionEnder interface {
	EndSession(ctx context.Context, reason string)
	ClearSession(ctx context.Context)
}

// Redirect describes a navigation to the unauthenticated entry point.
type Redirect struct {
	To      string
	From    string // location the user was trying to reach, if any
	Replace bool   // replace history so back-navigation cannot return
}

// Navigator performs redirects on behalf of the gate.
type Navigator interface {
	Redirect(r Redirect)
}

// Presenter shows the blocking session-expired interstitial. It is called from
// the timer goroutine.
type Presenter interface {
	ShowSessionExpired(m *Mount)
}

type Gate struct {
	store     storage.Store
	sessions  SessionEnder
	navigator Navigator
	presenter Presenter
	decoder   token.Decoder
	scheduler Scheduler
	now       func() time.Time
	loginPath string
	logger    zerolog.Logger

	mu         sync.Mutex
	generation uint64
	live       *Mount
}

type Option func(*Gate)

func WithLogger(l zerolog.Logger) Option {
	return func(g *Gate) {
		g.logger = l
	}
}

// WithNowFunc overrides the clock used for expiry checks.
func WithNowFunc(now func() time.Time) Option {
	return func(g *Gate) {
		g.now = now
	}
}

func WithScheduler(s Scheduler) Option {
	return func(g *Gate) {
		g.scheduler = s
	}
}

// WithDecoder plugs in a non-JWT token scheme.
func WithDecoder(d token.Decoder) Option {
	return func(g *Gate) {
		g.decoder = d
	}
}

// WithLoginPath sets the unauthenticated entry point.
func WithLoginPath(path string) Option {
	return func(g *Gate) {
		g.loginPath = path
	}
}

func New(store storage.Store, sessions SessionEnder, navigator Navigator, presenter Presenter, opts ...Option) *Gate {
	g := &Gate{
		store:     store,
		sessions:  sessions,
		navigator: navigator,
		presenter: presenter,
		decoder:   token.JWT,
		scheduler: realScheduler{},
		now:       time.Now,
		loginPath: "/login",
		logger:    log.Logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Enter validates the stored token for a navigation to location. The returned
// mount is Allowed when the protected view may render; otherwise the gate has
// already logged out and redirected. Any previously live mount is superseded.
func (g *Gate) Enter(ctx context.Context, location string) *Mount {
	g.mu.Lock()
	if g.live != nil {
		g.live.stop()
		g.live = nil
	}
	g.generation++
	m := &Mount{gate: g, generation: g.generation, location: location}
	g.mu.Unlock()

	claims, err := g.readToken(ctx)
	if err != nil {
		m.denied = err
		reason := sessionlog.ReasonTokenExpired
		if errors.Is(err, apperrors.ErrTokenMissing) {
			reason = sessionlog.ReasonTokenMissing
		}
		g.logger.Info().Err(err).Str("location", location).Msg("Protected area denied")
		g.forceLogout(ctx, reason, location)
		return m
	}

	remaining := claims.Remaining(g.now())
	if remaining <= 0 {
		m.denied = apperrors.ErrTokenExpired
		g.logger.Info().Time("expired_at", claims.ExpiresAt).Str("location", location).Msg("Token expired")
		g.forceLogout(ctx, sessionlog.ReasonTokenExpired, location)
		return m
	}

	m.expiresAt = claims.ExpiresAt

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.generation != m.generation {
		// A newer Enter raced past this one; it owns the timer.
		m.denied = errSuperseded
		return m
	}
	m.timer = g.scheduler.AfterFunc(remaining, func() { g.fire(m) })
	g.live = m
	g.logger.Debug().Dur("remaining", remaining).Str("location", location).Msg("Expiry timer armed")
	return m
}

// Acknowledge is the interstitial's only action: log out and go to login.
func (g *Gate) Acknowledge(ctx context.Context) {
	g.mu.Lock()
	if g.live != nil {
		g.live.stop()
		g.live = nil
	}
	g.generation++
	g.mu.Unlock()

	g.forceLogout(ctx, sessionlog.ReasonSessionExpired, "")
}

// Armed reports whether an expiry timer is currently live.
func (g *Gate) Armed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.live != nil
}

func (g *Gate) readToken(ctx context.Context) (token.Claims, error) {
	raw, err := g.store.Get(ctx, storage.KeyAccessToken)
	if err != nil {
		if !storage.IsNotFound(err) {
			g.logger.Warn().Err(err).Msg("Failed to read access token")
		}
		return token.Claims{}, apperrors.ErrTokenMissing
	}
	claims, err := g.decoder.Decode(raw)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenMissing) {
			return token.Claims{}, err
		}
		if !errors.Is(err, apperrors.ErrTokenMalformed) {
			err = errors.Join(apperrors.ErrTokenMalformed, err)
		}
		return token.Claims{}, err
	}
	return claims, nil
}

func (g *Gate) fire(m *Mount) {
	g.mu.Lock()
	if g.live != m || g.generation != m.generation {
		g.mu.Unlock()
		return
	}
	m.expired = true
	g.mu.Unlock()

	g.logger.Info().Str("location", m.location).Msg("Session expired")
	g.presenter.ShowSessionExpired(m)
}

// forceLogout is the shared cleanup for every way a session can end at the
// gate. The backend call is best-effort.
func (g *Gate) forceLogout(ctx context.Context, reason, from string) {
	g.sessions.EndSession(ctx, reason)
	if err := storage.ClearCredentials(ctx, g.store); err != nil {
		g.logger.Warn().Err(err).Msg("Failed to clear credentials")
	}
	g.sessions.ClearSession(ctx)

	g.navigator.Redirect(Redirect{To: g.loginPath, From: from, Replace: true})
}
