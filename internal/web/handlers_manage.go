package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/leadintake/internal/api"
	"github.com/JonMunkholm/leadintake/internal/leads"
	"github.com/JonMunkholm/leadintake/internal/web/templates"
)

// Affiliates

func (s *Server) handleCreateAffiliate(w http.ResponseWriter, r *http.Request) {
	_, v := s.viewFor(r)
	aff, err := v.CreateAffiliate(r.Context(), r.PostFormValue("nome"))
	if err != nil {
		s.fail(w, r, v, templates.TabAffiliates, "Erro ao criar afiliado", err)
		return
	}
	text := "Afiliado criado com sucesso!"
	if aff.Code != "" {
		text += " Código: " + aff.Code
	}
	done(w, r, v, templates.TabAffiliates, text)
}

func (s *Server) handleDeleteAffiliate(w http.ResponseWriter, r *http.Request) {
	_, v := s.viewFor(r)
	if err := v.DeleteAffiliate(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, v, templates.TabAffiliates, "Erro ao excluir afiliado", err)
		return
	}
	done(w, r, v, templates.TabAffiliates, "Afiliado excluído com sucesso!")
}

// Tags

// handleSaveTag creates a tag, or renames and recolors the one named by {id}.
func (s *Server) handleSaveTag(w http.ResponseWriter, r *http.Request) {
	_, v := s.viewFor(r)
	id := chi.URLParam(r, "id")
	if err := v.SaveTag(r.Context(), id, r.PostFormValue("nome"), r.PostFormValue("cor")); err != nil {
		s.fail(w, r, v, templates.TabSettings, "Erro ao salvar fintech", err)
		return
	}
	if id == "" {
		done(w, r, v, templates.TabSettings, "Fintech criada com sucesso!")
		return
	}
	done(w, r, v, templates.TabSettings, "Fintech atualizada com sucesso!")
}

func (s *Server) handleToggleTagActive(w http.ResponseWriter, r *http.Request) {
	_, v := s.viewFor(r)
	active, err := v.ToggleTagActive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, v, templates.TabSettings, "Erro ao atualizar fintech", err)
		return
	}
	if active {
		done(w, r, v, templates.TabSettings, "Fintech ativada com sucesso!")
		return
	}
	done(w, r, v, templates.TabSettings, "Fintech desativada com sucesso!")
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	_, v := s.viewFor(r)
	if err := v.DeleteTag(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, v, templates.TabSettings, "Erro ao excluir fintech", err)
		return
	}
	done(w, r, v, templates.TabSettings, "Fintech excluída com sucesso!")
}

// Admins

func (s *Server) handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	_, v := s.viewFor(r)
	creds := api.Credentials{Email: r.PostFormValue("email"), Password: r.PostFormValue("senha")}
	if err := v.CreateAdmin(r.Context(), creds); err != nil {
		s.fail(w, r, v, templates.TabAdmins, "Erro ao criar admin", err)
		return
	}
	done(w, r, v, templates.TabAdmins, "Admin criado com sucesso!")
}

// handleUpdateAdmin changes an admin's email and, when given, password.
func (s *Server) handleUpdateAdmin(w http.ResponseWriter, r *http.Request) {
	_, v := s.viewFor(r)
	creds := api.Credentials{Email: r.PostFormValue("email"), Password: r.PostFormValue("senha")}
	if err := v.UpdateAdmin(r.Context(), chi.URLParam(r, "id"), creds); err != nil {
		s.fail(w, r, v, templates.TabAdmins, "Erro ao atualizar admin", err)
		return
	}
	done(w, r, v, templates.TabAdmins, "Admin atualizado com sucesso!")
}

func (s *Server) handleDeleteAdmin(w http.ResponseWriter, r *http.Request) {
	_, v := s.viewFor(r)
	if err := v.DeleteAdmin(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, v, templates.TabAdmins, "Erro ao excluir admin", err)
		return
	}
	done(w, r, v, templates.TabAdmins, "Admin excluído com sucesso!")
}

// Form configuration

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	_, v := s.viewFor(r)
	cfg := leads.FormConfig{
		Title:       r.PostFormValue("tituloPrincipal"),
		Subtitle:    r.PostFormValue("subtitulo"),
		Description: r.PostFormValue("descricao"),
	}
	if err := v.UpdateConfig(r.Context(), cfg); err != nil {
		s.fail(w, r, v, templates.TabSettings, "Erro ao salvar configurações", err)
		return
	}
	done(w, r, v, templates.TabSettings, "Configurações salvas com sucesso!")
}
