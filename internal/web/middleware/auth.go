package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/leadintake/internal/logging"
	"github.com/JonMunkholm/leadintake/internal/session"
)

// browserCookieTTL keeps the browser id (and with it the saved filters)
// for a year.
const browserCookieTTL = 365 * 24 * time.Hour

// Sessions loads the per-browser session for every request.
type Sessions struct {
	Codec             *session.Codec
	Store             session.Store
	CookieName        string
	BrowserCookieName string
	Secure            bool
}

// Load returns middleware that identifies the browser, decodes the login
// cookie and stores a *session.Context in the request context. An invalid
// or expired login cookie yields a logged-out context.
func (s *Sessions) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		browserID := s.browserID(w, r)

		var cred session.Credential
		if c, err := r.Cookie(s.CookieName); err == nil {
			cred, err = s.Codec.Decode(c.Value)
			if err != nil {
				logging.FromContext(r.Context()).Debug("auth: discarding session cookie", "error", err)
				s.ClearLogin(w)
			}
		}

		if cred.Token != "" {
			annotateAdmin(r.Context(), cred.Email)
		}

		sc, err := session.Load(r.Context(), s.Store, browserID, cred)
		if err != nil {
			logging.FromContext(r.Context()).Error("auth: load session", "error", err)
			http.Error(w, "Serviço indisponível (ERR000)", http.StatusServiceUnavailable)
			return
		}

		next.ServeHTTP(w, r.WithContext(session.WithContext(r.Context(), sc)))
	})
}

// browserID returns the browser cookie value, issuing a new id when the
// cookie is missing or malformed.
func (s *Sessions) browserID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(s.BrowserCookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, s.cookie(s.BrowserCookieName, id, browserCookieTTL))
	return id
}

// SetLogin stores a signed credential.
func (s *Sessions) SetLogin(w http.ResponseWriter, value string) {
	http.SetCookie(w, s.cookie(s.CookieName, value, s.Codec.TTL()))
}

// ClearLogin expires the login cookie. The browser cookie is kept.
func (s *Sessions) ClearLogin(w http.ResponseWriter) {
	c := s.cookie(s.CookieName, "", 0)
	c.MaxAge = -1
	http.SetCookie(w, c)
}

func (s *Sessions) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// RequireLogin redirects requests without a logged-in session to loginPath.
// JSON clients get a 401 instead.
func RequireLogin(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc, ok := session.FromContext(r.Context())
			if !ok || !sc.LoggedIn() {
				logging.FromContext(r.Context()).Debug("auth: login required",
					"path", r.URL.Path,
					"method", r.Method,
				)
				if r.Header.Get("Accept") == "application/json" {
					http.Error(w, `{"error":"login required","code":"AUTH001"}`, http.StatusUnauthorized)
					return
				}
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
