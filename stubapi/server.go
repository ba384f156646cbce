// Package stubapi is a development double of the news platform's session-log
// and login endpoints. It lets the console run and be tested end to end
// without the real backend.
package stubapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jrsteele09/news-admin/api"
	"github.com/jrsteele09/news-admin/stubapi/sessionrepo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultSecret   = "news-admin-dev-secret"
	defaultTokenTTL = time.Hour
)

type Server struct {
	env      string
	router   *mux.Router
	routes   []string
	users    *userStore
	sessions sessionrepo.Repo
	signer   *HMACSigner
	tokenTTL time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

type Option func(*Server)

// WithEnv sets the environment name. Requests are only logged in DEV.
func WithEnv(env string) Option {
	return func(s *Server) {
		s.env = env
	}
}

func WithSecret(secret string) Option {
	return func(s *Server) {
		s.signer = NewHMACSigner(secret)
	}
}

// WithTokenTTL sets the lifetime of minted access tokens.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.tokenTTL = ttl
	}
}

func WithSessionRepo(repo sessionrepo.Repo) Option {
	return func(s *Server) {
		s.sessions = repo
	}
}

func WithNowFunc(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

func New(opts ...Option) *Server {
	s := &Server{
		env:      "DEV",
		router:   mux.NewRouter(),
		users:    newUserStore(),
		sessions: sessionrepo.NewInMemoryRepo(),
		signer:   NewHMACSigner(defaultSecret),
		tokenTTL: defaultTokenTTL,
		now:      time.Now,
		logger:   log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.initRoutes()
	s.logRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// AddUser registers an administrator who can log in.
func (s *Server) AddUser(email, password, name, role string) (User, error) {
	return s.users.add(email, password, name, role)
}

// Sessions exposes the session-log records for inspection.
func (s *Server) Sessions() sessionrepo.Repo {
	return s.sessions
}

// Routes lists the registered "METHOD path" patterns.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) initRoutes() {
	public := s.APIMiddleware()
	private := s.APIMiddleware(s.RequireAuth())

	s.registerRoute(http.MethodPost, api.RouteLogin, ChainMiddleware(s.loginHandler, public...))
	s.registerRoute(http.MethodGet, api.RouteSessionLogs, ChainMiddleware(s.listSessionsHandler, private...))
	s.registerRoute(http.MethodPost, api.RouteSessionLogs, ChainMiddleware(s.createSessionHandler, private...))
	s.registerRoute(http.MethodPost, api.RouteSessionLogout, ChainMiddleware(s.logoutHandler, private...))
	// revoke/{id} must be matched before {id}/activity.
	s.registerRoute(http.MethodPost, api.RouteSessionRevoke, ChainMiddleware(s.revokeHandler, private...))
	s.registerRoute(http.MethodPost, api.RouteSessionActivity, ChainMiddleware(s.activityHandler, private...))

	s.router.NotFoundHandler = ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, "not_found", "no such route", http.StatusNotFound)
	}, public...)
	s.router.MethodNotAllowedHandler = ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, "method_not_allowed", r.Method+" not allowed", http.StatusMethodNotAllowed)
	}, public...)
}

func (s *Server) registerRoute(method, path string, handler http.HandlerFunc) {
	s.routes = append(s.routes, method+" "+path)
	s.router.HandleFunc(path, handler).Methods(method)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		var method, path string
		if _, err := fmt.Sscanf(route, "%s %s", &method, &path); err != nil {
			continue
		}
		s.logRoute(method, path)
	}
}

func (s *Server) logRoute(method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	s.logger.Info().Msgf("[%-19s] %s", color+paddedMethod+ResetColor, path)
}
