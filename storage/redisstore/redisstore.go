// Package redisstore keeps the console's durable state in Redis so several
// consoles on one workstation pool can share a login.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jrsteele09/news-admin/storage"
	"github.com/redis/go-redis/v9"
)

var _ storage.Store = (*Store)(nil)

const defaultPrefix = "newsadmin:"

const (
	fieldValue    = "value"
	fieldExpires  = "expires_at"
	fieldSecure   = "secure"
	fieldSameSite = "same_site"
)

type Store struct {
	client *redis.Client
	prefix string
}

type Option func(*Store)

// WithPrefix namespaces every key.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New connects to addr and pings it.
func New(ctx context.Context, addr string, db int, opts ...Option) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	s := &Store{client: client, prefix: defaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	e, err := s.Lookup(ctx, key)
	if err != nil {
		return "", err
	}
	return e.Value, nil
}

func (s *Store) Lookup(ctx context.Context, key string) (storage.Entry, error) {
	fields, err := s.client.HGetAll(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return storage.Entry{}, storage.ErrNotFound
		}
		return storage.Entry{}, fmt.Errorf("lookup %s: %w", key, err)
	}
	value, ok := fields[fieldValue]
	if !ok {
		return storage.Entry{}, storage.ErrNotFound
	}

	e := storage.Entry{
		Value:    value,
		Secure:   fields[fieldSecure] == "1",
		SameSite: storage.SameSite(fields[fieldSameSite]),
	}
	if n, err := strconv.ParseInt(fields[fieldExpires], 10, 64); err == nil && n != 0 {
		e.ExpiresAt = time.Unix(0, n)
	}
	return e, nil
}

func (s *Store) Set(ctx context.Context, key, value string, opts storage.SetOptions) error {
	var expiresAt int64
	if opts.TTL > 0 {
		expiresAt = time.Now().Add(opts.TTL).UnixNano()
	}
	secure := "0"
	if opts.Secure {
		secure = "1"
	}

	k := s.key(key)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, k)
		p.HSet(ctx, k,
			fieldValue, value,
			fieldExpires, expiresAt,
			fieldSecure, secure,
			fieldSameSite, string(opts.SameSite),
		)
		if opts.TTL > 0 {
			p.PExpire(ctx, k, opts.TTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
