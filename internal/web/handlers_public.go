package web

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/leadintake/internal/api"
	"github.com/JonMunkholm/leadintake/internal/leads"
	"github.com/JonMunkholm/leadintake/internal/logging"
	"github.com/JonMunkholm/leadintake/internal/session"
	"github.com/JonMunkholm/leadintake/internal/web/templates"
)

const (
	msgSubmitFailed = "Erro ao enviar formulário"
	msgLoginFailed  = "Erro ao fazer login"
)

// formConfig loads the public form copy, falling back to the defaults.
func (s *Server) formConfig(r *http.Request) leads.FormConfig {
	cfg, err := s.gateway.PublicConfig(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Warn("load public form config", "error", err)
	}
	return cfg.WithDefaults()
}

// handlePublicForm renders the public form. ?ref= carries the affiliate code.
func (s *Server) handlePublicForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, templates.PublicFormPage(templates.PublicForm{
		Config: s.formConfig(r),
		Ref:    r.URL.Query().Get("ref"),
	}))
}

// handleSubmit posts a public submission.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest, msgSubmitFailed)
		return
	}
	in := leads.SubmissionInput{
		Name:          r.PostFormValue("nome"),
		Email:         r.PostFormValue("email"),
		CPF:           r.PostFormValue("cpf"),
		Phone:         r.PostFormValue("telefone"),
		Password:      r.PostFormValue("senha"),
		AffiliateCode: r.PostFormValue("ref"),
	}.Normalize()

	page := templates.PublicForm{Config: s.formConfig(r), Ref: in.AffiliateCode, Input: in}
	logger := logging.WithFields(r.Context(), "affiliate_code", in.AffiliateCode)

	err := in.Validate()
	if err == nil && s.submitLimiter != nil && !s.submitLimiter.allow(clientIP(r)) {
		err = errRateLimited
	}
	if err == nil {
		err = s.gateway.Submit(r.Context(), in)
	}
	if err != nil {
		msg := MapError(err, msgSubmitFailed)
		logger.Warn("public submission rejected", "error", err, "code", msg.Code)

		page.Error = msg.Message
		if msg.Code == CodeRateLimited {
			page.ErrorLink = s.cfg.Dashboard.SupportURL
		}
		status := http.StatusUnprocessableEntity
		if msg.Code == CodeRateLimited {
			status = http.StatusTooManyRequests
		}
		s.render(w, r, status, templates.PublicFormPage(page))
		return
	}

	logger.Info("public submission accepted")
	s.render(w, r, http.StatusOK, templates.PublicFormPage(templates.PublicForm{
		Config:    page.Config,
		Submitted: true,
		GroupURL:  s.cfg.Dashboard.GroupURL,
	}))
}

// handleLoginPage renders the login form, or skips it when logged in.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if sc, ok := session.FromContext(r.Context()); ok && sc.LoggedIn() {
		http.Redirect(w, r, templates.BasePath, http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, templates.LoginPage(templates.Login{}))
}

// handleLogin exchanges credentials for an API token and stores it in the
// signed session cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	sc, _ := session.FromContext(r.Context())
	creds := api.Credentials{Email: r.PostFormValue("email"), Password: r.PostFormValue("senha")}

	res, err := s.gateway.Login(r.Context(), creds)
	if err == nil {
		var value string
		if value, err = s.sessions.Codec.Encode(res.Token, res.Admin.Email); err == nil {
			s.sessions.SetLogin(w, value)
		}
	}
	if err != nil {
		msg := msgLoginFailed
		if errors.Is(err, api.ErrRateLimited) {
			msg = MsgRateLimited
		} else if m, ok := api.Message(err); ok {
			msg = m
		}
		logging.FromContext(r.Context()).Warn("login failed", "email", creds.Email, "error", err)
		s.render(w, r, http.StatusUnauthorized, templates.LoginPage(templates.Login{Email: creds.Email, Error: msg}))
		return
	}

	// A view left over from a previous login holds the old token.
	s.hub.Drop(sc.BrowserID)
	logging.FromContext(r.Context()).Info("admin logged in", "email", res.Admin.Email)
	http.Redirect(w, r, templates.BasePath, http.StatusSeeOther)
}

// handleLogout clears the login. Filter preferences stay with the browser.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.endSession(w, r)
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

// endSession drops the dashboard view and the login cookie.
func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	sc, _ := session.FromContext(r.Context())
	s.hub.Drop(sc.BrowserID)
	s.sessions.ClearLogin(w)
	sc.Clear()
}
