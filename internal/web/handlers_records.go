package web

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/leadintake/internal/dashboard"
	"github.com/JonMunkholm/leadintake/internal/leads"
	"github.com/JonMunkholm/leadintake/internal/logging"
	"github.com/JonMunkholm/leadintake/internal/web/templates"
)

const tabRecords = templates.TabSubmissions

// handleSaveSubmission creates a record, or updates the one named by {id}.
func (s *Server) handleSaveSubmission(w http.ResponseWriter, r *http.Request) {
	_, v := s.viewFor(r)
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		s.fail(w, r, v, tabRecords, "Erro ao salvar formulário", err)
		return
	}

	in := leads.SubmissionInput{
		Name:     r.PostFormValue("nome"),
		Email:    r.PostFormValue("email"),
		CPF:      r.PostFormValue("cpf"),
		Phone:    r.PostFormValue("telefone"),
		Password: r.PostFormValue("senha"),
		TagIDs:   r.PostForm["fintechIds"],
	}
	if err := v.SaveSubmission(r.Context(), id, in); err != nil {
		s.fail(w, r, v, tabRecords, "Erro ao salvar formulário", err)
		return
	}
	if id == "" {
		done(w, r, v, tabRecords, "Formulário criado com sucesso!")
		return
	}
	done(w, r, v, tabRecords, "Formulário atualizado com sucesso!")
}

// handleSetStatus changes a record's status.
func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	_, v := s.viewFor(r)
	status := leads.Status(r.PostFormValue("status"))
	if err := v.SetStatus(r.Context(), chi.URLParam(r, "id"), status); err != nil {
		s.fail(w, r, v, tabRecords, "Erro ao atualizar status", err)
		return
	}
	done(w, r, v, tabRecords, "Status atualizado com sucesso!")
}

// handleToggleTag attaches or detaches a tag.
func (s *Server) handleToggleTag(w http.ResponseWriter, r *http.Request) {
	_, v := s.viewFor(r)
	tagID := chi.URLParam(r, "tagID")
	name := tagID
	if tag, ok := v.Snapshot().Tag(tagID); ok {
		name = tag.Name
	}

	added, err := v.ToggleTag(r.Context(), chi.URLParam(r, "id"), tagID)
	if err != nil {
		s.fail(w, r, v, tabRecords, "Erro ao atualizar fintech", err)
		return
	}
	verb := "removida"
	if added {
		verb = "adicionada"
	}
	done(w, r, v, tabRecords, fmt.Sprintf("Fintech %s %s com sucesso!", name, verb))
}

// handleDeleteSubmission removes a record.
func (s *Server) handleDeleteSubmission(w http.ResponseWriter, r *http.Request) {
	_, v := s.viewFor(r)
	if err := v.DeleteSubmission(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, v, tabRecords, "Erro ao excluir formulário", err)
		return
	}
	done(w, r, v, tabRecords, "Formulário excluído com sucesso!")
}

// handleImport parses pasted text and posts every entry. The import is not
// cancelled when the client goes away; it is bounded by
// DASHBOARD_IMPORT_TIMEOUT, which config validation keeps inside the
// server's write and request timeouts.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	sc, v := s.viewFor(r)
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Dashboard.MaxImportBytes)
	if err := r.ParseForm(); err != nil {
		s.fail(w, r, v, tabRecords, "Texto muito grande para importar", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.cfg.Dashboard.ImportTimeout)
	defer cancel()

	report, err := v.Import(ctx, r.PostFormValue("texto"), sc.Credential.Email)
	if err != nil {
		s.fail(w, r, v, tabRecords, "Erro ao importar", err)
		return
	}
	logging.WithFields(r.Context(), "batch_id", report.BatchID).Info("import finished",
		"total", report.Total,
		"succeeded", report.Succeeded,
		"failed", report.Failed(),
	)

	showImportBanners(v.Banners(), report)
	redirectTab(w, r, tabRecords)
}

// showImportBanners reports the successes and lists each failure.
func showImportBanners(b *dashboard.Banners, report dashboard.ImportReport) {
	if report.Succeeded > 0 {
		b.Success(fmt.Sprintf("%d formulário(s) importado(s) com sucesso!", report.Succeeded))
	}
	if report.Failed() > 0 {
		msgs := make([]string, len(report.Failures))
		for i, f := range report.Failures {
			msgs[i] = f.String()
		}
		b.Error("Erros: " + strings.Join(msgs, "; "))
	}
}
