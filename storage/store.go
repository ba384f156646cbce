// Package storage defines the durable key/value store that survives console
// restarts, the Go counterpart of browser cookie/local storage.
package storage

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/jrsteele09/news-admin/internal/errors"
)

// Well-known keys. Only sessionlog.Manager may write KeySessionID.
const (
	KeyAccessToken = "token"
	KeySessionID   = "sessionId"
	KeyUserID      = "userId"
	KeyUserEmail   = "userEmail"
)

// ErrNotFound is returned by Get when the key is absent or its TTL elapsed.
var ErrNotFound = apperrors.ErrNotFound

type SameSite string

const (
	SameSiteDefault SameSite = ""
	SameSiteLax     SameSite = "Lax"
	SameSiteStrict  SameSite = "Strict"
	SameSiteNone    SameSite = "None"
)

// SetOptions are the attributes persisted alongside a value. A zero TTL means
// the entry does not expire.
type SetOptions struct {
	TTL      time.Duration
	Secure   bool
	SameSite SameSite
}

// Entry is a stored value together with its attributes.
type Entry struct {
	Value     string
	ExpiresAt time.Time // zero when the entry never expires
	Secure    bool
	SameSite  SameSite
}

// Store is implemented by every storage driver.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound
	Get(ctx context.Context, key string) (string, error)

	// Lookup returns the value and its attributes, or ErrNotFound
	Lookup(ctx context.Context, key string) (Entry, error)

	// Set creates or replaces key
	Set(ctx context.Context, key, value string, opts SetOptions) error

	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// Close releases the driver's resources
	Close() error
}

// ClearCredentials removes the access token and the cached user identifiers.
// The session identifier is left to its owner.
func ClearCredentials(ctx context.Context, s Store) error {
	var errs []error
	for _, key := range []string{KeyAccessToken, KeyUserID, KeyUserEmail} {
		if err := s.Delete(ctx, key); err != nil {
			errs = append(errs, apperrors.Wrapf(err, "delete %s", key))
		}
	}
	return errors.Join(errs...)
}

// IsNotFound reports whether err means the key is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
