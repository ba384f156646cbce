// Package sessionlog tracks the console's current backend session: it opens a
// session record after login, appends activity entries to it and closes it on
// logout or forced expiry. The identifier is mirrored into durable storage so
// a restarted console resumes logging without logging in again.
package sessionlog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/news-admin/api"
	apperrors "github.com/jrsteele09/news-admin/internal/errors"
	"github.com/jrsteele09/news-admin/internal/utils"
	"github.com/jrsteele09/news-admin/netenv"
	"github.com/jrsteele09/news-admin/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Reasons sent with EndSession.
const (
	ReasonManual         = "manual"
	ReasonTokenExpired   = "token_expired"
	ReasonSessionExpired = "session_expired"
	ReasonTokenMissing   = "token_missing"
)

// DefaultSessionIDTTL is how long the persisted identifier survives.
const DefaultSessionIDTTL = 7 * 24 * time.Hour

// Backend is the subset of the REST API the manager calls.
type Backend interface {
	CreateSession(ctx context.Context, req api.CreateSessionRequest) (api.CreateSessionResponse, error)
	LogActivity(ctx context.Context, sessionID string, req api.ActivityRequest) error
	Logout(ctx context.Context, req api.LogoutRequest) error
	Revoke(ctx context.Context, sessionID string, req api.RevokeRequest) error
}

// EnvironmentProbe reports the IP and location attached to a new session.
type EnvironmentProbe interface {
	Environment(ctx context.Context) netenv.Environment
}

// Activity is one entry appended to the current session.
type Activity struct {
	Action      string
	Section     string
	Description string
	Metadata    map[string]any
}

// Manager owns the single current session handle. Build one per process in
// the composition root and share it.
type Manager struct {
	backend    Backend
	probe      EnvironmentProbe
	store      storage.Store
	classifier *DeviceClassifier
	userAgent  string
	ttl        time.Duration
	logger     zerolog.Logger

	mu        sync.Mutex
	sessionID string
}

type Option func(*Manager)

func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

func WithUserAgent(ua string) Option {
	return func(m *Manager) {
		m.userAgent = ua
	}
}

func WithDeviceClassifier(c *DeviceClassifier) Option {
	return func(m *Manager) {
		m.classifier = c
	}
}

// WithSessionIDTTL sets the lifetime of the persisted identifier.
func WithSessionIDTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

func New(backend Backend, probe EnvironmentProbe, store storage.Store, opts ...Option) *Manager {
	m := &Manager{
		backend:    backend,
		probe:      probe,
		store:      store,
		classifier: DefaultDeviceClassifier(),
		userAgent:  "news-admin",
		ttl:        DefaultSessionIDTTL,
		logger:     log.Logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init recovers a persisted session identifier, if any.
func (m *Manager) Init(ctx context.Context) {
	if id, ok := m.SessionID(ctx); ok {
		m.logger.Debug().Str("session_id", id).Msg("Resumed persisted session")
	}
}

// Close drops the in-memory handle. The persisted identifier is kept so the
// next start can resume it.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionID = ""
}

// StartSession opens a backend session for the user who has just logged in.
// Failure is not fatal to login; it only means no activity will be logged.
func (m *Manager) StartSession(ctx context.Context) (string, bool) {
	id, err := m.start(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("Failed to start session")
		return "", false
	}
	m.logger.Info().Str("session_id", id).Msg("Session started")
	return id, true
}

func (m *Manager) start(ctx context.Context) (string, error) {
	env := m.probe.Environment(ctx)

	resp, err := m.backend.CreateSession(ctx, api.CreateSessionRequest{
		IPAddress:  env.IPAddress,
		UserAgent:  m.userAgent,
		DeviceType: string(m.classifier.Classify(m.userAgent)),
		Location:   env.Location,
	})
	if err != nil {
		return "", apperrors.Wrapf(err, "create session")
	}

	id := resp.Identifier()
	if id == "" {
		return "", fmt.Errorf("%w: no session identifier in response", apperrors.ErrMalformedBody)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionID = id
	if err := m.store.Set(ctx, storage.KeySessionID, id, storage.SetOptions{
		TTL:      m.ttl,
		Secure:   true,
		SameSite: storage.SameSiteStrict,
	}); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to persist session id")
	}
	return id, nil
}

// LogActivity appends an entry to the current session. Without a session it
// logs a warning and does nothing. Errors never reach the caller.
func (m *Manager) LogActivity(ctx context.Context, a Activity) {
	id, ok := m.SessionID(ctx)
	if !ok {
		m.logger.Warn().Str("action", a.Action).Str("section", a.Section).Msg("No session for activity log")
		return
	}

	err := m.backend.LogActivity(ctx, id, api.ActivityRequest{
		Action:      a.Action,
		Section:     a.Section,
		Description: a.Description,
		Metadata:    a.Metadata,
	})
	if err != nil {
		m.logger.Warn().Err(err).Str("session_id", id).Str("action", a.Action).Msg("Failed to log activity")
	}
}

// EndSession closes the current session on the backend and clears it locally.
// The local clear happens whether or not the backend call succeeds.
func (m *Manager) EndSession(ctx context.Context, reason string) {
	id, ok := m.SessionID(ctx)
	if !ok {
		return
	}
	reason = utils.Or(reason, ReasonManual)

	if err := m.backend.Logout(ctx, api.LogoutRequest{SessionID: id, Reason: reason}); err != nil {
		m.logger.Warn().Err(err).Str("session_id", id).Str("reason", reason).Msg("Failed to end session")
	} else {
		m.logger.Info().Str("session_id", id).Str("reason", reason).Msg("Session ended")
	}

	m.ClearSession(ctx)
}

// RevokeSession ends an arbitrary session by identifier. Unlike the other
// operations its failure is returned to the caller.
func (m *Manager) RevokeSession(ctx context.Context, sessionID, note string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session id is required", apperrors.ErrRevokeFailed)
	}

	req := api.RevokeRequest{}
	if note != "" {
		req.Note = utils.Ptr(note)
	}
	if err := m.backend.Revoke(ctx, sessionID, req); err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrRevokeFailed, sessionID, err)
	}

	m.logger.Info().Str("session_id", sessionID).Msg("Session revoked")
	return nil
}

// SessionID returns the current identifier, recovering it from durable
// storage (and caching it) when memory is empty.
func (m *Manager) SessionID(ctx context.Context) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sessionID != "" {
		return m.sessionID, true
	}

	id, err := m.store.Get(ctx, storage.KeySessionID)
	if err != nil {
		if !storage.IsNotFound(err) {
			m.logger.Warn().Err(err).Msg("Failed to read persisted session id")
		}
		return "", false
	}
	if id == "" {
		return "", false
	}
	m.sessionID = id
	return id, true
}

// ClearSession erases the in-memory and persisted identifier. Idempotent.
func (m *Manager) ClearSession(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessionID = ""
	if err := m.store.Delete(ctx, storage.KeySessionID); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to delete persisted session id")
	}
}
