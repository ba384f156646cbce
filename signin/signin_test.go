package signin_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jrsteele09/news-admin/api"
	"github.com/jrsteele09/news-admin/api/apifake"
	apperrors "github.com/jrsteele09/news-admin/internal/errors"
	"github.com/jrsteele09/news-admin/netenv"
	"github.com/jrsteele09/news-admin/sessionlog"
	"github.com/jrsteele09/news-admin/signin"
	"github.com/jrsteele09/news-admin/storage"
	"github.com/jrsteele09/news-admin/storage/memstore"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fixedProbe struct{}

func (fixedProbe) Environment(context.Context) netenv.Environment {
	return netenv.Environment{IPAddress: netenv.UnknownIP, Location: api.Location{Country: netenv.UnknownLocation, City: netenv.UnknownLocation}}
}

type testFixture struct {
	backend *apifake.FakeBackend
	store   *memstore.Store
	manager *sessionlog.Manager
	service *signin.Service
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	backend := apifake.NewFakeBackend()
	backend.LoginResponse = api.LoginResponse{
		Token: "tok-1",
		User:  api.User{ID: "u-1", Email: "editor@example.com", Name: "Editor"},
	}
	backend.CreateResponse = api.CreateSessionResponse{SessionID: "sess-1"}

	store := memstore.New()
	t.Cleanup(func() { _ = store.Close() })

	manager := sessionlog.New(backend, fixedProbe{}, store, sessionlog.WithLogger(zerolog.Nop()))
	return &testFixture{
		backend: backend,
		store:   store,
		manager: manager,
		service: signin.New(backend, manager, store, signin.WithLogger(zerolog.Nop())),
	}
}

func (f *testFixture) get(t *testing.T, key string) string {
	t.Helper()
	v, err := f.store.Get(context.Background(), key)
	require.NoError(t, err, key)
	return v
}

func TestLogin_StoresCredentialsAndStartsSession(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)

	res, err := f.service.Login(ctx, " editor@example.com ", "secret")
	require.NoError(t, err)
	require.Equal(t, "u-1", res.User.ID)
	require.Equal(t, "sess-1", res.SessionID)

	require.Equal(t, "tok-1", f.get(t, storage.KeyAccessToken))
	require.Equal(t, "u-1", f.get(t, storage.KeyUserID))
	require.Equal(t, "editor@example.com", f.get(t, storage.KeyUserEmail))
	require.Equal(t, "sess-1", f.get(t, storage.KeySessionID))

	entry, err := f.store.Lookup(ctx, storage.KeyAccessToken)
	require.NoError(t, err)
	require.True(t, entry.Secure)
	require.Equal(t, storage.SameSiteStrict, entry.SameSite)

	login := f.backend.CallsTo("Login")
	require.Len(t, login, 1)
	require.Equal(t, api.LoginRequest{Email: "editor@example.com", Password: "secret"}, login[0].Body)

	user, ok := f.service.CurrentUser(ctx)
	require.True(t, ok)
	require.Equal(t, api.User{ID: "u-1", Email: "editor@example.com"}, user)
}

func TestLogin_SessionFailureDoesNotFailLogin(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.CreateErr = errors.New("boom")

	res, err := f.service.Login(context.Background(), "editor@example.com", "secret")
	require.NoError(t, err)
	require.Empty(t, res.SessionID)
	require.Equal(t, "tok-1", f.get(t, storage.KeyAccessToken))

	_, ok := f.manager.SessionID(context.Background())
	require.False(t, ok)
}

func TestLogin_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		loginErr error
		wantErr  error
	}{
		{name: "blank email", email: "  ", password: "x", wantErr: apperrors.ErrInvalidCredentials},
		{name: "blank password", email: "a@b.c", wantErr: apperrors.ErrInvalidCredentials},
		{
			name:     "backend 401",
			email:    "a@b.c",
			password: "x",
			loginErr: &api.StatusError{Method: http.MethodPost, Path: api.RouteLogin, StatusCode: http.StatusUnauthorized},
			wantErr:  apperrors.ErrInvalidCredentials,
		},
		{
			name:     "backend 500",
			email:    "a@b.c",
			password: "x",
			loginErr: &api.StatusError{Method: http.MethodPost, Path: api.RouteLogin, StatusCode: http.StatusInternalServerError},
			wantErr:  apperrors.ErrUnexpectedStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t)
			f.backend.LoginErr = tt.loginErr

			_, err := f.service.Login(context.Background(), tt.email, tt.password)
			require.ErrorIs(t, err, tt.wantErr)

			_, err = f.store.Get(context.Background(), storage.KeyAccessToken)
			require.ErrorIs(t, err, storage.ErrNotFound)
			require.Empty(t, f.backend.CallsTo("CreateSession"))
		})
	}
}

func TestLogout_EndsSessionAndClearsCredentials(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	_, err := f.service.Login(ctx, "editor@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx))

	logout := f.backend.CallsTo("Logout")
	require.Len(t, logout, 1)
	require.Equal(t, api.LogoutRequest{SessionID: "sess-1", Reason: sessionlog.ReasonManual}, logout[0].Body)

	for _, k := range []string{storage.KeyAccessToken, storage.KeyUserID, storage.KeyUserEmail, storage.KeySessionID} {
		_, err := f.store.Get(ctx, k)
		require.ErrorIs(t, err, storage.ErrNotFound, k)
	}
	_, ok := f.service.CurrentUser(ctx)
	require.False(t, ok)
}
