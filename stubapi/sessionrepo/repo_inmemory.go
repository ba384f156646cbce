package sessionrepo

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jrsteele09/news-admin/api"
	apperrors "github.com/jrsteele09/news-admin/internal/errors"
)

// ErrSessionEnded is returned when activity is appended to a closed session.
var ErrSessionEnded = errors.New("session already ended")

// ReasonRevoked is recorded on sessions closed by an administrator.
const ReasonRevoked = "revoked"

var _ Repo = (*InMemoryRepo)(nil)

type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]api.SessionLog
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		sessions: make(map[string]api.SessionLog),
	}
}

func (r *InMemoryRepo) Create(session api.SessionLog) error {
	if session.ID == "" {
		return fmt.Errorf("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[session.ID]; ok {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	r.sessions[session.ID] = session
	return nil
}

func (r *InMemoryRepo) Get(sessionID string) (api.SessionLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return api.SessionLog{}, apperrors.Wrapf(apperrors.ErrSessionNotFound, "session %s", sessionID)
	}
	return copySession(session), nil
}

func (r *InMemoryRepo) AppendActivity(sessionID string, activity api.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return apperrors.Wrapf(apperrors.ErrSessionNotFound, "session %s", sessionID)
	}
	if !session.Active {
		return apperrors.Wrapf(ErrSessionEnded, "session %s", sessionID)
	}
	session.Activities = append(session.Activities, activity)
	r.sessions[sessionID] = session
	return nil
}

// End closes a session. Ending an already closed session keeps the first
// reason.
func (r *InMemoryRepo) End(sessionID, reason string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return apperrors.Wrapf(apperrors.ErrSessionNotFound, "session %s", sessionID)
	}
	if !session.Active {
		return nil
	}
	session.Active = false
	session.Reason = reason
	session.EndedAt = &at
	r.sessions[sessionID] = session
	return nil
}

func (r *InMemoryRepo) Revoke(sessionID string, note string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return apperrors.Wrapf(apperrors.ErrSessionNotFound, "session %s", sessionID)
	}
	if session.Active {
		session.Active = false
		session.EndedAt = &at
	}
	session.Reason = ReasonRevoked
	session.Note = note
	r.sessions[sessionID] = session
	return nil
}

// List returns every session, newest first.
func (r *InMemoryRepo) List() ([]api.SessionLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]api.SessionLog, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, copySession(s))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func copySession(s api.SessionLog) api.SessionLog {
	if s.Activities != nil {
		s.Activities = append([]api.Activity(nil), s.Activities...)
	}
	if s.EndedAt != nil {
		t := *s.EndedAt
		s.EndedAt = &t
	}
	return s
}
