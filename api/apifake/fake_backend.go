package apifake

import (
	"context"
	"sync"

	"github.com/jrsteele09/news-admin/api"
)

// Call records one request made against the fake.
type Call struct {
	Method    string
	SessionID string
	Body      any
}

// FakeBackend is an in-memory stand-in for api.Client.
type FakeBackend struct {
	lock  sync.Mutex
	calls []Call

	LoginResponse  api.LoginResponse
	CreateResponse api.CreateSessionResponse
	Sessions       []api.SessionLog

	LoginErr    error
	CreateErr   error
	ActivityErr error
	LogoutErr   error
	RevokeErr   error
	ListErr     error
}

func NewFakeBackend() *FakeBackend {
	return &FakeBackend{}
}

func (f *FakeBackend) record(c Call) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.calls = append(f.calls, c)
}

// Calls returns a copy of every recorded call.
func (f *FakeBackend) Calls() []Call {
	f.lock.Lock()
	defer f.lock.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo returns the recorded calls for one method name.
func (f *FakeBackend) CallsTo(method string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (f *FakeBackend) Login(_ context.Context, req api.LoginRequest) (api.LoginResponse, error) {
	f.record(Call{Method: "Login", Body: req})
	if f.LoginErr != nil {
		return api.LoginResponse{}, f.LoginErr
	}
	return f.LoginResponse, nil
}

func (f *FakeBackend) CreateSession(_ context.Context, req api.CreateSessionRequest) (api.CreateSessionResponse, error) {
	f.record(Call{Method: "CreateSession", Body: req})
	if f.CreateErr != nil {
		return api.CreateSessionResponse{}, f.CreateErr
	}
	return f.CreateResponse, nil
}

func (f *FakeBackend) LogActivity(_ context.Context, sessionID string, req api.ActivityRequest) error {
	f.record(Call{Method: "LogActivity", SessionID: sessionID, Body: req})
	return f.ActivityErr
}

func (f *FakeBackend) Logout(_ context.Context, req api.LogoutRequest) error {
	f.record(Call{Method: "Logout", SessionID: req.SessionID, Body: req})
	return f.LogoutErr
}

func (f *FakeBackend) Revoke(_ context.Context, sessionID string, req api.RevokeRequest) error {
	f.record(Call{Method: "Revoke", SessionID: sessionID, Body: req})
	return f.RevokeErr
}

func (f *FakeBackend) ListSessions(_ context.Context) ([]api.SessionLog, error) {
	f.record(Call{Method: "ListSessions"})
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Sessions, nil
}
