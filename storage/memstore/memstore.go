// Package memstore is an in-process storage.Store backed by ttlcache. Nothing
// survives a restart; it backs the "memory" driver and the tests.
package memstore

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/jrsteele09/news-admin/storage"
)

var _ storage.Store = (*Store)(nil)

type Store struct {
	cache *ttlcache.Cache[string, storage.Entry]
}

func New() *Store {
	cache := ttlcache.New(
		ttlcache.WithDisableTouchOnHit[string, storage.Entry](),
	)

	go cache.Start()

	return &Store{cache: cache}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	e, err := s.Lookup(ctx, key)
	if err != nil {
		return "", err
	}
	return e.Value, nil
}

func (s *Store) Lookup(_ context.Context, key string) (storage.Entry, error) {
	item := s.cache.Get(key)
	if item == nil || item.IsExpired() {
		return storage.Entry{}, storage.ErrNotFound
	}
	return item.Value(), nil
}

func (s *Store) Set(_ context.Context, key, value string, opts storage.SetOptions) error {
	ttl := ttlcache.NoTTL
	var expiresAt time.Time
	if opts.TTL > 0 {
		ttl = opts.TTL
		expiresAt = time.Now().Add(opts.TTL)
	}
	s.cache.Set(key, storage.Entry{
		Value:     value,
		ExpiresAt: expiresAt,
		Secure:    opts.Secure,
		SameSite:  opts.SameSite,
	}, ttl)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

// Close stops the expiry goroutine.
func (s *Store) Close() error {
	s.cache.Stop()
	return nil
}
