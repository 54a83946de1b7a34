package templates

import (
	"github.com/a-h/templ"

	"github.com/JonMunkholm/leadintake/internal/leads"
)

// PublicForm is the data for the public submission page.
type PublicForm struct {
	Config leads.FormConfig
	Ref    string
	Input  leads.SubmissionInput

	Error     string
	ErrorLink string

	Submitted bool
	GroupURL  string
}

// PublicFormPage renders the public form or, after a successful submit,
// the confirmation with the community link.
func PublicFormPage(d PublicForm) templ.Component {
	return page(d.Config.Title, component(func(w *writer) {
		w.raw(`<main style="max-width:520px"><div class="card">`)
		w.raw(`<h1>`)
		w.text(d.Config.Title)
		w.raw(`</h1><h2>`)
		w.text(d.Config.Subtitle)
		w.raw(`</h2><p>`)
		w.text(d.Config.Description)
		w.raw(`</p>`)

		if d.Submitted {
			w.raw(`<div class="banner success"><h3>Formulário Enviado!</h3>`,
				`<p>Entre no grupo para acompanhar seu cadastro.</p>`)
			if d.GroupURL != "" {
				w.raw(`<a href="`)
				w.url(d.GroupURL)
				w.raw(`" target="_blank" rel="noopener">Entrar no grupo</a>`)
			}
			w.raw(`</div></div></main>`)
			return
		}

		if d.Error != "" {
			w.raw(`<div class="banner error" role="alert">`)
			w.text(d.Error)
			if d.ErrorLink != "" {
				w.raw(` <a href="`)
				w.url(d.ErrorLink)
				w.raw(`" target="_blank" rel="noopener">Falar com o Gerente</a>`)
			}
			w.raw(`</div>`)
		}

		w.raw(`<form method="post" action="/">`)
		w.hidden("ref", d.Ref)
		w.input("Nome completo", "text", "nome", d.Input.Name, true)
		w.input("E-mail", "email", "email", d.Input.Email, true)
		w.input("CPF", "text", "cpf", d.Input.CPF, true)
		w.input("Telefone", "tel", "telefone", d.Input.Phone, true)
		w.input("Senha", "password", "senha", "", true)
		w.raw(`<button type="submit" class="primary">Enviar</button></form>`)
		w.raw(`</div></main>`)
	}))
}

// Login is the data for the login page.
type Login struct {
	Email string
	Error string
}

// LoginPage renders the admin login form.
func LoginPage(d Login) templ.Component {
	return page("Login", component(func(w *writer) {
		w.raw(`<main style="max-width:420px"><div class="card"><h1>Painel Administrativo</h1>`)
		if d.Error != "" {
			w.raw(`<div class="banner error" role="alert">`)
			w.text(d.Error)
			w.raw(`</div>`)
		}
		w.raw(`<form method="post" action="/gerenciarform">`)
		w.input("E-mail", "email", "email", d.Email, true)
		w.input("Senha", "password", "senha", "", true)
		w.raw(`<button type="submit" class="primary">Entrar</button></form></div></main>`)
	}))
}
