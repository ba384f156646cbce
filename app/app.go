// Package app is the console's composition root. It builds every component
// from configuration exactly once per process.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jrsteele09/news-admin/api"
	"github.com/jrsteele09/news-admin/authgate"
	"github.com/jrsteele09/news-admin/internal/config"
	apperrors "github.com/jrsteele09/news-admin/internal/errors"
	"github.com/jrsteele09/news-admin/netenv"
	"github.com/jrsteele09/news-admin/sessionlog"
	"github.com/jrsteele09/news-admin/signin"
	"github.com/jrsteele09/news-admin/storage"
	"github.com/jrsteele09/news-admin/storage/memstore"
	"github.com/jrsteele09/news-admin/storage/redisstore"
	"github.com/jrsteele09/news-admin/storage/sqlitestore"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type App struct {
	Config   config.Config
	Logger   zerolog.Logger
	Store    storage.Store
	Client   *api.Client
	Probe    *netenv.Probe
	Sessions *sessionlog.Manager
	SignIn   *signin.Service
}

type Option func(*App)

func WithLogger(l zerolog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithStore uses s instead of opening the configured driver. The app takes
// ownership and closes it.
func WithStore(s storage.Store) Option {
	return func(a *App) {
		a.Store = s
	}
}

func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: log.Logger,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.Store == nil {
		store, err := OpenStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.Store = store
	}

	classifier, err := sessionlog.NewDeviceClassifier(cfg.GetMobilePattern(), cfg.GetTabletPattern())
	if err != nil {
		_ = a.Store.Close()
		return nil, fmt.Errorf("[app.New] device patterns: %w", err)
	}

	a.Client = api.NewClient(cfg.GetAPIBaseURL(),
		api.WithTimeout(cfg.GetAPITimeout()),
		api.WithTokenSource(a.accessToken),
	)
	a.Probe = netenv.NewProbe(cfg.GetIPLookupURL(), cfg.GetGeoLookupURL(),
		netenv.WithLogger(a.Logger),
	)
	a.Sessions = sessionlog.New(a.Client, a.Probe, a.Store,
		sessionlog.WithLogger(a.Logger),
		sessionlog.WithUserAgent(cfg.GetUserAgent()),
		sessionlog.WithDeviceClassifier(classifier),
		sessionlog.WithSessionIDTTL(cfg.GetSessionIDTTL()),
	)
	a.SignIn = signin.New(a.Client, a.Sessions, a.Store, signin.WithLogger(a.Logger))
	return a, nil
}

// NewGate builds the auth gate for a UI host.
func (a *App) NewGate(navigator authgate.Navigator, presenter authgate.Presenter) *authgate.Gate {
	return authgate.New(a.Store, a.Sessions, navigator, presenter,
		authgate.WithLogger(a.Logger),
		authgate.WithLoginPath(a.Config.GetLoginPath()),
	)
}

// Init recovers persisted state. Call once after New.
func (a *App) Init(ctx context.Context) {
	a.Sessions.Init(ctx)
}

// Close is the teardown hook. The persisted session identifier survives.
func (a *App) Close() error {
	a.Sessions.Close()
	return a.Store.Close()
}

func (a *App) accessToken(ctx context.Context) string {
	tok, err := a.Store.Get(ctx, storage.KeyAccessToken)
	if err != nil {
		if !storage.IsNotFound(err) {
			a.Logger.Warn().Err(err).Msg("Failed to read access token")
		}
		return ""
	}
	return tok
}

// OpenStore opens the durable store selected by the storage driver setting.
func OpenStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	switch driver := cfg.GetStorageDriver(); driver {
	case config.StorageDriverSQLite:
		s, err := sqlitestore.Open(ctx, cfg.GetSQLitePath())
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StorageDriverMemory:
		return memstore.New(), nil
	case config.StorageDriverRedis:
		s, err := redisstore.New(ctx, cfg.GetRedisAddr(), cfg.GetRedisDB())
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, errors.Join(apperrors.ErrUnsupported, fmt.Errorf("storage driver %q", driver))
	}
}
