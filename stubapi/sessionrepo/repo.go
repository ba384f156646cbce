// Package sessionrepo holds the development backend's session-log records.
package sessionrepo

import (
	"time"

	"github.com/jrsteele09/news-admin/api"
)

// Repo stores session logs keyed by their identifier.
type Repo interface {
	Create(session api.SessionLog) error
	Get(sessionID string) (api.SessionLog, error)
	AppendActivity(sessionID string, activity api.Activity) error
	End(sessionID, reason string, at time.Time) error
	Revoke(sessionID string, note string, at time.Time) error
	List() ([]api.SessionLog, error)
}
