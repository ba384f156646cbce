package api

import (
	"time"

	"github.com/jrsteele09/news-admin/internal/utils"
)

// Location is the coarse geolocation attached to a new session.
type Location struct {
	Country string `json:"country"`
	City    string `json:"city"`
}

type CreateSessionRequest struct {
	IPAddress  string   `json:"ipAddress"`
	UserAgent  string   `json:"userAgent"`
	DeviceType string   `json:"deviceType"`
	Location   Location `json:"location"`
}

// CreateSessionResponse accepts every shape the backend has used for the new
// session's identifier.
type CreateSessionResponse struct {
	Session *struct {
		ID string `json:"_id"`
	} `json:"session,omitempty"`
	ID        string `json:"_id,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// Identifier returns session._id, then _id, then sessionId; the first
// non-empty value wins.
func (r CreateSessionResponse) Identifier() string {
	var nested string
	if r.Session != nil {
		nested = r.Session.ID
	}
	return utils.FirstNonEmpty(nested, r.ID, r.SessionID)
}

type ActivityRequest struct {
	Action      string         `json:"action"`
	Section     string         `json:"section"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type LogoutRequest struct {
	SessionID string `json:"sessionId"`
	Reason    string `json:"reason"`
}

type RevokeRequest struct {
	Note *string `json:"note,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SessionLog is one backend-tracked session as returned by the admin listing.
type SessionLog struct {
	ID         string     `json:"_id"`
	UserID     string     `json:"userId,omitempty"`
	IPAddress  string     `json:"ipAddress"`
	UserAgent  string     `json:"userAgent"`
	DeviceType string     `json:"deviceType"`
	Location   Location   `json:"location"`
	Active     bool       `json:"active"`
	Reason     string     `json:"reason,omitempty"`
	Note       string     `json:"note,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	EndedAt    *time.Time `json:"endedAt,omitempty"`
	Activities []Activity `json:"activities,omitempty"`
}

type Activity struct {
	Action      string         `json:"action"`
	Section     string         `json:"section"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	At          time.Time      `json:"at"`
}

type listSessionsResponse struct {
	Sessions []SessionLog `json:"sessions"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
