package authgate_test

import (
	"context"
	"sync"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/news-admin/authgate"
	apperrors "github.com/jrsteele09/news-admin/internal/errors"
	"github.com/jrsteele09/news-admin/sessionlog"
	"github.com/jrsteele09/news-admin/storage"
	"github.com/jrsteele09/news-admin/storage/memstore"
	"github.com/jrsteele09/news-admin/token"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeScheduler struct {
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) authgate.Timer {
	t := &fakeTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) live() []*fakeTimer {
	var out []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped {
			out = append(out, t)
		}
	}
	return out
}

type fakeSessions struct {
	ended   []string
	cleared int
}

func (s *fakeSessions) EndSession(_ context.Context, reason string) {
	s.ended = append(s.ended, reason)
}

func (s *fakeSessions) ClearSession(context.Context) {
	s.cleared++
}

type recorder struct {
	mu        sync.Mutex
	redirects []authgate.Redirect
	shown     []*authgate.Mount
}

func (r *recorder) Redirect(rd authgate.Redirect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redirects = append(r.redirects, rd)
}

func (r *recorder) ShowSessionExpired(m *authgate.Mount) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, m)
}

type testFixture struct {
	store     *memstore.Store
	sessions  *fakeSessions
	rec       *recorder
	scheduler *fakeScheduler
	now       time.Time
	gate      *authgate.Gate
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{
		store:     memstore.New(),
		sessions:  &fakeSessions{},
		rec:       &recorder{},
		scheduler: &fakeScheduler{},
		now:       testNow,
	}
	t.Cleanup(func() { _ = f.store.Close() })

	f.gate = authgate.New(f.store, f.sessions, f.rec, f.rec,
		authgate.WithLogger(zerolog.Nop()),
		authgate.WithScheduler(f.scheduler),
		authgate.WithNowFunc(func() time.Time { return f.now }),
		authgate.WithLoginPath("/login"),
	)
	return f
}

func (f *testFixture) storeToken(t *testing.T, exp time.Time) {
	t.Helper()
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("1234"))
	require.NoError(t, err)
	f.storeRaw(t, raw)
}

func (f *testFixture) storeRaw(t *testing.T, raw string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.store.Set(ctx, storage.KeyAccessToken, raw, storage.SetOptions{}))
	require.NoError(t, f.store.Set(ctx, storage.KeyUserID, "user-1", storage.SetOptions{}))
	require.NoError(t, f.store.Set(ctx, storage.KeyUserEmail, "ed@example.com", storage.SetOptions{}))
}

func (f *testFixture) requireCredentialsCleared(t *testing.T) {
	t.Helper()
	for _, k := range []string{storage.KeyAccessToken, storage.KeyUserID, storage.KeyUserEmail} {
		_, err := f.store.Get(context.Background(), k)
		require.ErrorIs(t, err, storage.ErrNotFound, k)
	}
}

func TestGate_DeniedEntries(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(t *testing.T, f *testFixture)
		wantErr    error
		wantReason string
	}{
		{
			name:       "missing token",
			setup:      func(*testing.T, *testFixture) {},
			wantErr:    apperrors.ErrTokenMissing,
			wantReason: sessionlog.ReasonTokenMissing,
		},
		{
			name:       "malformed token",
			setup:      func(t *testing.T, f *testFixture) { f.storeRaw(t, "garbage") },
			wantErr:    apperrors.ErrTokenMalformed,
			wantReason: sessionlog.ReasonTokenExpired,
		},
		{
			name:       "expired token",
			setup:      func(t *testing.T, f *testFixture) { f.storeToken(t, testNow.Add(-time.Minute)) },
			wantErr:    apperrors.ErrTokenExpired,
			wantReason: sessionlog.ReasonTokenExpired,
		},
		{
			name:       "expires exactly now",
			setup:      func(t *testing.T, f *testFixture) { f.storeToken(t, testNow) },
			wantErr:    apperrors.ErrTokenExpired,
			wantReason: sessionlog.ReasonTokenExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t)
			tt.setup(t, f)

			m := f.gate.Enter(context.Background(), "/news")

			require.False(t, m.Allowed())
			require.ErrorIs(t, m.Err(), tt.wantErr)
			require.Empty(t, f.scheduler.timers, "no timer may be armed")
			require.False(t, f.gate.Armed())
			require.Empty(t, f.rec.shown, "no interstitial on navigation-time denial")
			require.Equal(t, []authgate.Redirect{{To: "/login", From: "/news", Replace: true}}, f.rec.redirects)
			require.Equal(t, []string{tt.wantReason}, f.sessions.ended)
			require.Equal(t, 1, f.sessions.cleared)
			f.requireCredentialsCleared(t)
		})
	}
}

func TestGate_ValidTokenArmsTimerForRemainingTime(t *testing.T) {
	f := setupTestFixture(t)
	f.storeToken(t, testNow.Add(90*time.Second))

	m := f.gate.Enter(context.Background(), "/news")

	require.True(t, m.Allowed())
	require.NoError(t, m.Err())
	require.Equal(t, "/news", m.Location())
	require.True(t, testNow.Add(90*time.Second).Equal(m.ExpiresAt()))
	require.Len(t, f.scheduler.timers, 1)
	require.Equal(t, 90*time.Second, f.scheduler.timers[0].d)
	require.True(t, f.gate.Armed())
	require.Empty(t, f.rec.redirects)
	require.Empty(t, f.sessions.ended)
}

func TestGate_ReentryRearmsSingleTimer(t *testing.T) {
	f := setupTestFixture(t)
	f.storeToken(t, testNow.Add(10*time.Minute))

	first := f.gate.Enter(context.Background(), "/news")
	f.now = testNow.Add(4 * time.Minute)
	second := f.gate.Enter(context.Background(), "/polls")

	require.True(t, first.Allowed())
	require.True(t, second.Allowed())
	require.Len(t, f.scheduler.timers, 2)
	require.True(t, f.scheduler.timers[0].stopped)
	live := f.scheduler.live()
	require.Len(t, live, 1)
	require.Equal(t, 6*time.Minute, live[0].d)

	// A stale callback from the first mount must not surface anything.
	f.scheduler.timers[0].f()
	require.Empty(t, f.rec.shown)

	live[0].f()
	require.Len(t, f.rec.shown, 1)
	require.Same(t, second, f.rec.shown[0])
	require.True(t, second.Expired())
}

func TestGate_UnmountCancelsTimer(t *testing.T) {
	f := setupTestFixture(t)
	f.storeToken(t, testNow.Add(time.Minute))

	m := f.gate.Enter(context.Background(), "/classifieds")
	timer := f.scheduler.timers[0]
	m.Unmount()

	require.True(t, timer.stopped)
	require.False(t, f.gate.Armed())

	timer.f()
	require.Empty(t, f.rec.shown)
	require.False(t, m.Expired())
}

func TestGate_ExpiryThenAcknowledge(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.storeToken(t, testNow.Add(time.Minute))

	m := f.gate.Enter(ctx, "/customers")
	f.scheduler.timers[0].f()
	require.Equal(t, []*authgate.Mount{m}, f.rec.shown)
	require.Empty(t, f.rec.redirects, "interstitial waits for acknowledgement")

	f.gate.Acknowledge(ctx)

	require.Equal(t, []string{sessionlog.ReasonSessionExpired}, f.sessions.ended)
	require.Equal(t, 1, f.sessions.cleared)
	require.Equal(t, []authgate.Redirect{{To: "/login", Replace: true}}, f.rec.redirects)
	require.False(t, f.gate.Armed())
	f.requireCredentialsCleared(t)
}

func TestGate_CustomDecoder(t *testing.T) {
	f := setupTestFixture(t)
	f.gate = authgate.New(f.store, f.sessions, f.rec, f.rec,
		authgate.WithLogger(zerolog.Nop()),
		authgate.WithScheduler(f.scheduler),
		authgate.WithNowFunc(func() time.Time { return testNow }),
		authgate.WithDecoder(token.DecoderFunc(func(raw string) (token.Claims, error) {
			return token.Claims{Subject: raw, ExpiresAt: testNow.Add(5 * time.Second)}, nil
		})),
	)
	f.storeRaw(t, "opaque-token")

	m := f.gate.Enter(context.Background(), "/subscriptions")
	require.True(t, m.Allowed())
	require.Equal(t, 5*time.Second, f.scheduler.timers[0].d)
}

func TestGate_RealTimerFiresNoEarlierThanExpiry(t *testing.T) {
	store := memstore.New()
	t.Cleanup(func() { _ = store.Close() })
	rec := &recorder{}
	sessions := &fakeSessions{}

	// Second-resolution exp: pin "now" just under one second before expiry.
	exp := time.Now().Add(2 * time.Second).Truncate(time.Second)
	start := exp.Add(-300 * time.Millisecond)
	offset := time.Since(start)
	g := authgate.New(store, sessions, rec, rec,
		authgate.WithLogger(zerolog.Nop()),
		authgate.WithNowFunc(func() time.Time { return time.Now().Add(-offset) }),
	)

	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), storage.KeyAccessToken, raw, storage.SetOptions{}))

	entered := time.Now()
	m := g.Enter(context.Background(), "/news")
	require.True(t, m.Allowed())

	require.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return len(rec.shown) == 1
	}, 2*time.Second, 10*time.Millisecond)
	require.GreaterOrEqual(t, time.Since(entered), 250*time.Millisecond)
}
