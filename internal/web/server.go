// Package web provides the HTTP server and handlers for the public lead
// form and the admin dashboard.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/leadintake/internal/api"
	"github.com/JonMunkholm/leadintake/internal/config"
	"github.com/JonMunkholm/leadintake/internal/dashboard"
	"github.com/JonMunkholm/leadintake/internal/leads"
	"github.com/JonMunkholm/leadintake/internal/session"
	"github.com/JonMunkholm/leadintake/internal/web/templates"
	lmw "github.com/JonMunkholm/leadintake/internal/web/middleware"
)

// Paths outside the dashboard.
const (
	loginPath  = "/gerenciarform"
	logoutPath = "/gerenciarform/logout"
)

// Gateway is the anonymous part of the remote API.
type Gateway interface {
	Login(ctx context.Context, creds api.Credentials) (api.LoginResult, error)
	Submit(ctx context.Context, in leads.SubmissionInput) error
	PublicConfig(ctx context.Context) (leads.FormConfig, error)
}

var _ Gateway = (*api.Client)(nil)

// Deps are the collaborators of a Server.
type Deps struct {
	Config  *config.Config
	Gateway Gateway
	// Backend returns an API backend authorized with token.
	Backend     func(token string) dashboard.Backend
	Hub         *dashboard.Hub
	Codec       *session.Codec
	Preferences session.Store
}

// Server is the HTTP server.
type Server struct {
	cfg      *config.Config
	gateway  Gateway
	backend  func(string) dashboard.Backend
	hub      *dashboard.Hub
	sessions *lmw.Sessions
	loc      *time.Location
	now      func() time.Time

	submitLimiter *rateLimiter
	router        *chi.Mux
	server        *http.Server
}

// NewServer creates a Server and wires its routes.
func NewServer(d Deps) *Server {
	s := &Server{
		cfg:     d.Config,
		gateway: d.Gateway,
		backend: d.Backend,
		hub:     d.Hub,
		sessions: &lmw.Sessions{
			Codec:             d.Codec,
			Store:             d.Preferences,
			CookieName:        d.Config.Session.CookieName,
			BrowserCookieName: d.Config.Session.BrowserCookieName,
			Secure:            d.Config.Session.Secure,
		},
		loc:    d.Config.Dashboard.Location(),
		now:    time.Now,
		router: chi.NewRouter(),
	}
	if d.Config.Rate.Enabled {
		s.submitLimiter = newRateLimiter(d.Config.Rate.SubmitLimit)
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(lmw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(lmw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(newRateLimiter(s.cfg.Rate.RequestsPerMinute).middleware(s))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Group(func(r chi.Router) {
		r.Use(s.sessions.Load)

		// Public form
		r.Get("/", s.handlePublicForm)
		r.Post("/", s.handleSubmit)

		// Login
		r.Get(loginPath, s.handleLoginPage)
		r.Post(loginPath, s.handleLogin)
		r.Post(logoutPath, s.handleLogout)

		r.Route(templates.BasePath, func(r chi.Router) {
			r.Use(lmw.RequireLogin(loginPath))

			r.Get("/", s.handleDashboard)
			r.Get("/registros", s.handleRecordsFragment)
			r.Get("/exportar", s.handleExport)

			// Filters
			r.Post("/filtros", s.handleUpdateFilters)
			r.Post("/filtros/hoje", s.handleFilterToday)
			r.Post("/filtros/limpar", s.handleClearFilters)

			// Submissions
			r.Post("/formularios", s.handleSaveSubmission)
			r.Post("/formularios/{id}", s.handleSaveSubmission)
			r.Post("/formularios/{id}/status", s.handleSetStatus)
			r.Post("/formularios/{id}/fintechs/{tagID}", s.handleToggleTag)
			r.Post("/formularios/{id}/excluir", s.handleDeleteSubmission)
			r.Post("/importar", s.handleImport)

			// Affiliates
			r.Post("/afiliados", s.handleCreateAffiliate)
			r.Post("/afiliados/{id}/excluir", s.handleDeleteAffiliate)

			// Tags
			r.Post("/fintechs", s.handleSaveTag)
			r.Post("/fintechs/{id}", s.handleSaveTag)
			r.Post("/fintechs/{id}/ativo", s.handleToggleTagActive)
			r.Post("/fintechs/{id}/excluir", s.handleDeleteTag)

			// Admins
			r.Post("/admins", s.handleCreateAdmin)
			r.Post("/admins/{id}", s.handleUpdateAdmin)
			r.Post("/admins/{id}/excluir", s.handleDeleteAdmin)

			// Form configuration
			r.Post("/config", s.handleUpdateConfig)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// render writes an HTML component with status.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render failed", "path", r.URL.Path, "error", err)
	}
}

// securityHeaders adds security headers to all responses.
func securityHeaders(csp bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			// Views inline their styles and the refresh script.
			if csp {
				w.Header().Set("Content-Security-Policy",
					"default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; form-action 'self'")
			}
			next.ServeHTTP(w, r)
		})
	}
}
