package web

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/leadintake/internal/api"
	"github.com/JonMunkholm/leadintake/internal/dashboard"
	"github.com/JonMunkholm/leadintake/internal/leads"
	"github.com/JonMunkholm/leadintake/internal/logging"
	"github.com/JonMunkholm/leadintake/internal/session"
	"github.com/JonMunkholm/leadintake/internal/web/templates"
)

// historyRows is how many import reports the dashboard lists.
const historyRows = 10

// viewFor returns the session and dashboard view of the request.
// RequireLogin guarantees a logged-in session.
func (s *Server) viewFor(r *http.Request) (*session.Context, *dashboard.View) {
	sc, _ := session.FromContext(r.Context())
	token := sc.Credential.Token
	return sc, s.hub.View(sc.BrowserID, token, s.backend(token))
}

func redirectTab(w http.ResponseWriter, r *http.Request, tab string) {
	http.Redirect(w, r, templates.TabURL(tab), http.StatusSeeOther)
}

// forceLogout ends a session the API no longer accepts.
func (s *Server) forceLogout(w http.ResponseWriter, r *http.Request) {
	logging.FromContext(r.Context()).Warn("api rejected session token, logging out")
	s.endSession(w, r)
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

// fail shows err as an error banner and returns to tab. A rejected token
// logs the browser out instead.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, v *dashboard.View, tab, fallback string, err error) {
	if errors.Is(err, api.ErrUnauthorized) {
		s.forceLogout(w, r)
		return
	}
	msg := MapError(err, fallback)
	logging.FromContext(r.Context()).Warn("dashboard action failed",
		"path", r.URL.Path,
		"error", err,
		"code", msg.Code,
	)
	v.Banners().Show(s.errorBanner(msg))
	redirectTab(w, r, tab)
}

func (s *Server) errorBanner(msg UserMessage) dashboard.Banner {
	b := dashboard.Banner{Kind: dashboard.BannerError, Text: msg.Message}
	if msg.Code == CodeRateLimited {
		b.LinkURL = s.cfg.Dashboard.SupportURL
		b.LinkText = MsgSupportLink
	}
	return b
}

// done shows a success banner and returns to tab.
func done(w http.ResponseWriter, r *http.Request, v *dashboard.View, tab, text string) {
	v.Banners().Success(text)
	redirectTab(w, r, tab)
}

func tabParam(r *http.Request) string {
	tab := r.URL.Query().Get("tab")
	for _, t := range templates.Tabs {
		if t.Key == tab {
			return tab
		}
	}
	return templates.TabSubmissions
}

// referralBase is the origin of the public form.
func (s *Server) referralBase(r *http.Request) string {
	if s.cfg.Dashboard.PublicURL != "" {
		return s.cfg.Dashboard.PublicURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// filtered applies the browser's filter preferences to the cached records.
func (s *Server) filtered(sc *session.Context, state dashboard.State) (leads.Filter, []leads.Submission, *leads.DuplicateIndex) {
	f := sc.Preferences.Filter(s.now(), s.loc)
	idx := leads.NewDuplicateIndex(state.Submissions)
	return f, leads.Apply(state.Submissions, f, idx), idx
}

// load makes sure the view holds data. It reports false when the response
// has already been written.
func (s *Server) load(w http.ResponseWriter, r *http.Request, v *dashboard.View) (loadErr string, ok bool) {
	err := v.EnsureLoaded(r.Context())
	if err == nil {
		err = v.Err()
	}
	if err == nil {
		return "", true
	}
	if errors.Is(err, api.ErrUnauthorized) {
		s.forceLogout(w, r)
		return "", false
	}
	logging.FromContext(r.Context()).Warn("dashboard load failed", "error", err)
	return MapError(err, "Erro ao carregar dados").Message, true
}

func (s *Server) buildDashboard(r *http.Request, sc *session.Context, v *dashboard.View, tab string) templates.Dashboard {
	state := v.Snapshot()
	f, records, idx := s.filtered(sc, state)
	return templates.Dashboard{
		Tab:            tab,
		Email:          sc.Credential.Email,
		Banners:        v.Banners().Active(),
		State:          state,
		Records:        records,
		Index:          idx,
		Counts:         leads.StatusCounts(state.Submissions),
		Prefs:          sc.Preferences,
		Date:           f.Date,
		Location:       s.loc,
		Directory:      state.Directory(),
		ReferralBase:   s.referralBase(r),
		ProtectedAdmin: s.cfg.Session.ProtectedAdminEmail,
		RefreshMillis:  s.cfg.Dashboard.RefreshInterval.Milliseconds(),
	}
}

// handleDashboard renders the dashboard tab named by ?tab=.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sc, v := s.viewFor(r)
	loadErr, ok := s.load(w, r, v)
	if !ok {
		return
	}

	tab := tabParam(r)
	d := s.buildDashboard(r, sc, v, tab)
	d.LoadErr = loadErr
	q := r.URL.Query()

	switch tab {
	case templates.TabSubmissions:
		if id := q.Get("editar"); id != "" {
			if rec, _, found := d.State.Submission(id); found {
				d.Edit = &templates.EditForm{ID: id, Input: leads.FromSubmission(rec)}
			}
		} else if q.Get("novo") != "" {
			d.Edit = &templates.EditForm{}
		}
		history, err := s.hub.History().Recent(r.Context(), historyRows)
		if err != nil {
			logging.FromContext(r.Context()).Warn("load import history", "error", err)
		}
		d.History = history

	case templates.TabAffiliates:
		if id := q.Get("afiliado"); id != "" {
			aff, subs, err := v.AffiliateSubmissions(r.Context(), id)
			switch {
			case errors.Is(err, api.ErrUnauthorized):
				s.forceLogout(w, r)
				return
			case err != nil:
				d.Banners = append(d.Banners, s.errorBanner(MapError(err, "Erro ao carregar formulários do afiliado")))
			default:
				d.Affiliate = &templates.AffiliateDetail{Affiliate: aff, Submissions: subs}
			}
		}
	}

	s.render(w, r, http.StatusOK, templates.DashboardPage(d))
}

// handleRecordsFragment renders the records table for the refresh poll.
func (s *Server) handleRecordsFragment(w http.ResponseWriter, r *http.Request) {
	sc, v := s.viewFor(r)
	if errors.Is(v.Err(), api.ErrUnauthorized) {
		s.forceLogout(w, r)
		return
	}
	d := s.buildDashboard(r, sc, v, templates.TabSubmissions)
	s.render(w, r, http.StatusOK, templates.RecordsFragment(d))
}

// handleUpdateFilters saves the filter form.
func (s *Server) handleUpdateFilters(w http.ResponseWriter, r *http.Request) {
	sc, v := s.viewFor(r)
	err := sc.Update(r.Context(), func(p session.Preferences) session.Preferences {
		p.Search = r.PostFormValue("busca")
		p.Status = r.PostFormValue("status")
		p.Tag = r.PostFormValue("fintech")
		p.DuplicatesOnly = r.PostFormValue("duplicados") != ""
		return p.WithDate(strings.TrimSpace(r.PostFormValue("data")))
	})
	if err != nil {
		s.fail(w, r, v, templates.TabSubmissions, "Erro ao salvar filtros", err)
		return
	}
	redirectTab(w, r, templates.TabSubmissions)
}

// handleFilterToday sets the date filter to today.
func (s *Server) handleFilterToday(w http.ResponseWriter, r *http.Request) {
	sc, v := s.viewFor(r)
	err := sc.Update(r.Context(), func(p session.Preferences) session.Preferences {
		return p.Today(s.now(), s.loc)
	})
	if err != nil {
		s.fail(w, r, v, templates.TabSubmissions, "Erro ao salvar filtros", err)
		return
	}
	redirectTab(w, r, templates.TabSubmissions)
}

// handleClearFilters resets every filter so all records show.
func (s *Server) handleClearFilters(w http.ResponseWriter, r *http.Request) {
	sc, v := s.viewFor(r)
	err := sc.Update(r.Context(), func(session.Preferences) session.Preferences {
		return session.Cleared()
	})
	if err != nil {
		s.fail(w, r, v, templates.TabSubmissions, "Erro ao salvar filtros", err)
		return
	}
	redirectTab(w, r, templates.TabSubmissions)
}

// handleExport downloads the filtered records, or every record when the
// filter matches none.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sc, v := s.viewFor(r)
	format, err := leads.ParseFormat(r.URL.Query().Get("formato"))
	if err != nil {
		s.respondError(w, r, &leads.ValidationError{Field: "formato", Message: "Formato inválido"},
			http.StatusBadRequest, "")
		return
	}
	if _, ok := s.load(w, r, v); !ok {
		return
	}

	state := v.Snapshot()
	_, records, _ := s.filtered(sc, state)
	set := leads.ExportSet(records, state.Submissions)

	exporter := leads.Exporter{Directory: state.Directory(), Location: s.loc}
	var buf bytes.Buffer
	if err := exporter.Write(&buf, format, set); err != nil {
		s.fail(w, r, v, templates.TabSubmissions, "Erro ao exportar", err)
		return
	}

	logging.FromContext(r.Context()).Info("export", "format", format, "records", len(set))
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+exporter.Filename(format, s.now())+`"`)
	w.Write(buf.Bytes())
}
