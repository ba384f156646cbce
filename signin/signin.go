// Package signin authenticates an administrator against the backend and
// bootstraps the session log for them.
package signin

import (
	"context"
	"errors"
	"strings"

	"github.com/jrsteele09/news-admin/api"
	apperrors "github.com/jrsteele09/news-admin/internal/errors"
	"github.com/jrsteele09/news-admin/sessionlog"
	"github.com/jrsteele09/news-admin/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Authenticator exchanges credentials for an access token.
type Authenticator interface {
	Login(ctx context.Context, req api.LoginRequest) (api.LoginResponse, error)
}

// Sessions is the part of sessionlog.Manager driven at login and logout.
type Sessions interface {
	StartSession(ctx context.Context) (string, bool)
	EndSession(ctx context.Context, reason string)
}

// Result describes a completed login.
type Result struct {
	User      api.User
	SessionID string // empty when the session log could not be opened
}

type Service struct {
	auth     Authenticator
	sessions Sessions
	store    storage.Store
	logger   zerolog.Logger
}

type Option func(*Service)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

func New(auth Authenticator, sessions Sessions, store storage.Store, opts ...Option) *Service {
	s := &Service{
		auth:     auth,
		sessions: sessions,
		store:    store,
		logger:   log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates, stores the token and user identifiers, then opens a
// backend session. A session that fails to open does not fail the login.
func (s *Service) Login(ctx context.Context, email, password string) (Result, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Result{}, apperrors.Wrapf(apperrors.ErrInvalidCredentials, "email and password are required")
	}

	resp, err := s.auth.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			return Result{}, apperrors.Wrapf(apperrors.ErrInvalidCredentials, "login %s: %v", email, err)
		}
		return Result{}, apperrors.Wrapf(err, "login %s", email)
	}

	user := resp.User
	if user.Email == "" {
		user.Email = email
	}
	if err := s.storeCredentials(ctx, resp.Token, user); err != nil {
		return Result{}, err
	}

	res := Result{User: user}
	if id, ok := s.sessions.StartSession(ctx); ok {
		res.SessionID = id
	}
	s.logger.Info().Str("user_id", user.ID).Bool("session_logged", res.SessionID != "").Msg("Signed in")
	return res, nil
}

// Logout ends the current session with reason manual and erases the stored
// credentials.
func (s *Service) Logout(ctx context.Context) error {
	s.sessions.EndSession(ctx, sessionlog.ReasonManual)
	if err := storage.ClearCredentials(ctx, s.store); err != nil {
		return apperrors.Wrapf(err, "clear credentials")
	}
	s.logger.Info().Msg("Signed out")
	return nil
}

// CurrentUser returns the identifiers cached at login.
func (s *Service) CurrentUser(ctx context.Context) (api.User, bool) {
	id, err := s.store.Get(ctx, storage.KeyUserID)
	if err != nil {
		return api.User{}, false
	}
	email, _ := s.store.Get(ctx, storage.KeyUserEmail)
	return api.User{ID: id, Email: email}, true
}

func (s *Service) storeCredentials(ctx context.Context, token string, user api.User) error {
	opts := storage.SetOptions{Secure: true, SameSite: storage.SameSiteStrict}
	values := []struct{ key, value string }{
		{storage.KeyAccessToken, token},
		{storage.KeyUserID, user.ID},
		{storage.KeyUserEmail, user.Email},
	}
	for _, v := range values {
		if err := s.store.Set(ctx, v.key, v.value, opts); err != nil {
			_ = storage.ClearCredentials(ctx, s.store)
			return apperrors.Wrapf(err, "store %s", v.key)
		}
	}
	return nil
}
