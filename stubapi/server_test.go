package stubapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/news-admin/api"
	apperrors "github.com/jrsteele09/news-admin/internal/errors"
	"github.com/jrsteele09/news-admin/internal/utils"
	"github.com/jrsteele09/news-admin/stubapi"
	"github.com/jrsteele09/news-admin/stubapi/sessionrepo"
	"github.com/jrsteele09/news-admin/token"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "editor@example.com"
	testPassword = "correct horse"
)

type testFixture struct {
	server *stubapi.Server
	http   *httptest.Server
	now    time.Time
	token  string
	client *api.Client
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{now: time.Now().Truncate(time.Second)}
	f.server = stubapi.New(
		stubapi.WithEnv("TEST"),
		stubapi.WithLogger(zerolog.Nop()),
		stubapi.WithSecret("test-secret"),
		stubapi.WithTokenTTL(10*time.Minute),
		stubapi.WithNowFunc(func() time.Time { return f.now }),
	)
	_, err := f.server.AddUser(testEmail, testPassword, "Ed Itor", "editor")
	require.NoError(t, err)

	f.http = httptest.NewServer(f.server)
	t.Cleanup(f.http.Close)

	f.client = api.NewClient(f.http.URL, api.WithTokenSource(func(context.Context) string { return f.token }))
	return f
}

func (f *testFixture) login(t *testing.T) api.LoginResponse {
	t.Helper()
	resp, err := f.client.Login(context.Background(), api.LoginRequest{Email: testEmail, Password: testPassword})
	require.NoError(t, err)
	f.token = resp.Token
	return resp
}

func TestLogin(t *testing.T) {
	f := setupTestFixture(t)

	resp := f.login(t)
	require.NotEmpty(t, resp.User.ID)
	require.Equal(t, testEmail, resp.User.Email)
	require.Equal(t, "Ed Itor", resp.User.Name)

	claims, err := token.Decode(resp.Token)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, claims.Subject)
	require.True(t, f.now.Add(10*time.Minute).Equal(claims.ExpiresAt))
}

func TestLogin_WrongPassword(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.client.Login(context.Background(), api.LoginRequest{Email: testEmail, Password: "nope"})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	var se *api.StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusUnauthorized, se.StatusCode)
	require.Equal(t, "Invalid email or password", se.Message)
}

func TestSessionRoutes_RequireBearerToken(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	_, err := f.client.CreateSession(ctx, api.CreateSessionRequest{})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	f.token = "not-a-jwt"
	_, err = f.client.ListSessions(ctx)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestSessionRoutes_RejectExpiredToken(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)

	f.now = f.now.Add(11 * time.Minute)
	_, err := f.client.CreateSession(context.Background(), api.CreateSessionRequest{})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	user := f.login(t)

	created, err := f.client.CreateSession(ctx, api.CreateSessionRequest{
		IPAddress:  "198.51.100.4",
		UserAgent:  "ua",
		DeviceType: "web",
		Location:   api.Location{Country: "Ireland", City: "Cork"},
	})
	require.NoError(t, err)
	id := created.Identifier()
	require.NotEmpty(t, id)
	require.NotNil(t, created.Session, "identifier is returned nested under session")

	require.NoError(t, f.client.LogActivity(ctx, id, api.ActivityRequest{Action: "view", Section: "polls", Description: "Opened polls"}))
	require.NoError(t, f.client.Logout(ctx, api.LogoutRequest{SessionID: id, Reason: "manual"}))

	stored, err := f.server.Sessions().Get(id)
	require.NoError(t, err)
	require.Equal(t, user.User.ID, stored.UserID)
	require.Equal(t, "Cork", stored.Location.City)
	require.False(t, stored.Active)
	require.Equal(t, "manual", stored.Reason)
	require.Len(t, stored.Activities, 1)
	require.Equal(t, "polls", stored.Activities[0].Section)

	err = f.client.LogActivity(ctx, id, api.ActivityRequest{Action: "view"})
	var se *api.StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusConflict, se.StatusCode)

	list, err := f.client.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, id, list[0].ID)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.login(t)

	created, err := f.client.CreateSession(ctx, api.CreateSessionRequest{})
	require.NoError(t, err)
	id := created.Identifier()

	require.NoError(t, f.client.Revoke(ctx, id, api.RevokeRequest{Note: utils.Ptr("stolen device")}))
	stored, err := f.server.Sessions().Get(id)
	require.NoError(t, err)
	require.False(t, stored.Active)
	require.Equal(t, sessionrepo.ReasonRevoked, stored.Reason)
	require.Equal(t, "stolen device", stored.Note)

	err = f.client.Revoke(ctx, "missing", api.RevokeRequest{})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRevokeRouteWinsOverActivity(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.login(t)

	// /revoke/activity matches both patterns; it must revoke.
	require.NoError(t, f.server.Sessions().Create(api.SessionLog{ID: "activity", Active: true, CreatedAt: f.now}))
	require.NoError(t, f.client.Revoke(ctx, "activity", api.RevokeRequest{}))

	stored, err := f.server.Sessions().Get("activity")
	require.NoError(t, err)
	require.Equal(t, sessionrepo.ReasonRevoked, stored.Reason)
	require.Empty(t, stored.Activities)
}

func TestBadRequests(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.login(t)

	err := f.client.Logout(ctx, api.LogoutRequest{})
	var se *api.StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusBadRequest, se.StatusCode)

	req, err := http.NewRequest(http.MethodPost, f.http.URL+api.RouteSessionLogs, strings.NewReader("{"))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+f.token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	f := setupTestFixture(t)
	resp, err := http.Get(f.http.URL + "/v1/nothing")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestRoutes(t *testing.T) {
	f := setupTestFixture(t)
	require.ElementsMatch(t, []string{
		"POST " + api.RouteLogin,
		"GET " + api.RouteSessionLogs,
		"POST " + api.RouteSessionLogs,
		"POST " + api.RouteSessionLogout,
		"POST " + api.RouteSessionRevoke,
		"POST " + api.RouteSessionActivity,
	}, f.server.Routes())
}

func TestPasswordHashing(t *testing.T) {
	hash, err := stubapi.HashPassword("pw")
	require.NoError(t, err)
	require.True(t, stubapi.CheckPasswordHash("pw", hash))
	require.False(t, stubapi.CheckPasswordHash("other", hash))
}
