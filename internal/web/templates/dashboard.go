package templates

import (
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/leadintake/internal/dashboard"
	"github.com/JonMunkholm/leadintake/internal/leads"
	"github.com/JonMunkholm/leadintake/internal/session"
)

// Dashboard tabs.
const (
	TabSubmissions = "formularios"
	TabAffiliates  = "afiliados"
	TabAdmins      = "admins"
	TabSettings    = "configuracoes"
)

// Tabs lists the dashboard tabs in display order.
var Tabs = []struct{ Key, Label string }{
	{TabSubmissions, "Formulários"},
	{TabAffiliates, "Afiliados"},
	{TabAdmins, "Admins"},
	{TabSettings, "Configurações"},
}

// BasePath is the dashboard root.
const BasePath = "/gerenciarform/dashboard"

// TabURL returns the dashboard URL of a tab.
func TabURL(tab string) string {
	return BasePath + "?tab=" + tab
}

// EditForm holds the submission being created or edited. ID is empty when
// creating.
type EditForm struct {
	ID    string
	Input leads.SubmissionInput
}

// AffiliateDetail lists the submissions of one affiliate.
type AffiliateDetail struct {
	Affiliate   leads.Affiliate
	Submissions []leads.Submission
}

// Dashboard is the data for the dashboard page.
type Dashboard struct {
	Tab     string
	Email   string
	Banners []dashboard.Banner
	LoadErr string

	State     dashboard.State
	Records   []leads.Submission
	Index     *leads.DuplicateIndex
	Counts    map[leads.Status]int
	Prefs     session.Preferences
	Date      string
	Location  *time.Location
	Directory leads.Directory

	Edit      *EditForm
	History   []dashboard.ImportReport
	Affiliate *AffiliateDetail

	ReferralBase   string
	ProtectedAdmin string
	RefreshMillis  int64
}

func (d Dashboard) stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(leads.LocalTimestampLayout)
}

// DashboardPage renders the full dashboard.
func DashboardPage(d Dashboard) templ.Component {
	return page("Painel Administrativo", component(func(w *writer) {
		w.raw(`<header class="top"><strong>Painel Administrativo</strong><span>`)
		w.text(d.Email)
		w.raw(` `)
		w.postButton("/gerenciarform/logout", "Sair", "", "")
		w.raw(`</span></header><main>`)

		w.raw(`<nav class="tabs">`)
		for _, t := range Tabs {
			class := ""
			if t.Key == d.Tab {
				class = "active"
			}
			w.raw(`<a class="`, class, `" href="`)
			w.url(TabURL(t.Key))
			w.raw(`">`)
			w.text(t.Label)
			w.raw(`</a>`)
		}
		w.raw(`</nav>`)

		if d.LoadErr != "" {
			w.render(ErrorAlert(ErrorView{Message: d.LoadErr, Code: "API001"}))
		}

		switch d.Tab {
		case TabAffiliates:
			w.render(Banners(d.Banners))
			w.render(affiliatesTab(d))
		case TabAdmins:
			w.render(Banners(d.Banners))
			w.render(adminsTab(d))
		case TabSettings:
			w.render(Banners(d.Banners))
			w.render(settingsTab(d))
		default:
			w.render(submissionsTab(d))
		}
		w.raw(`</main>`)

		if d.Tab == TabSubmissions && d.RefreshMillis > 0 {
			w.raw(`<script>setInterval(function(){`,
				`var a=document.activeElement;if(a&&a.closest&&a.closest('#registros form'))return;`,
				`fetch('`, BasePath, `/registros',{credentials:'same-origin'}).then(function(r){`,
				`if(r.redirected||r.status===401){location.href='/gerenciarform';return null}return r.ok?r.text():null`,
				`}).then(function(h){if(h!==null)document.getElementById('registros').innerHTML=h})},`,
				strconv.FormatInt(d.RefreshMillis, 10), `);</script>`)
		}
	}))
}

func submissionsTab(d Dashboard) templ.Component {
	return component(func(w *writer) {
		w.render(filtersCard(d))

		w.raw(`<div class="card"><a href="`)
		w.url(TabURL(TabSubmissions) + "&novo=1")
		w.raw(`"><button class="primary">Novo formulário</button></a> `)
		w.raw(`<a href="`, BasePath, `/exportar?formato=csv"><button>Exportar CSV</button></a> `)
		w.raw(`<a href="`, BasePath, `/exportar?formato=json"><button>Exportar JSON</button></a></div>`)

		if d.Edit != nil {
			w.render(editCard(*d.Edit, d.Tags()))
		}

		w.raw(`<div id="registros">`)
		w.render(RecordsFragment(d))
		w.raw(`</div>`)

		w.render(importCard(d))
	})
}

// Tags returns every tag offered in selectors.
func (d Dashboard) Tags() []leads.Tag {
	return d.State.Tags
}

func filtersCard(d Dashboard) templ.Component {
	return component(func(w *writer) {
		p := d.Prefs.Normalize()
		w.raw(`<div class="card"><form method="post" action="`, BasePath, `/filtros"><div class="grid">`)
		w.input("Buscar (nome, e-mail, CPF, telefone)", "search", "busca", p.Search, false)
		w.input("Data", "date", "data", d.Date, false)

		w.raw(`<label>Status<select name="status">`)
		option(w, leads.FilterAll, "Todos", p.Status)
		for _, s := range leads.Statuses {
			option(w, string(s), s.Label(), p.Status)
		}
		w.raw(`</select></label>`)

		w.raw(`<label>Fintech<select name="fintech">`)
		option(w, leads.FilterAll, "Todas", p.Tag)
		option(w, leads.FilterNoTag, "Sem fintech", p.Tag)
		for _, t := range d.State.Tags {
			option(w, t.ID, t.Name, p.Tag)
		}
		w.raw(`</select></label>`)

		w.raw(`<label><input type="checkbox" name="duplicados" value="1" style="display:inline;width:auto"`)
		if p.DuplicatesOnly {
			w.raw(` checked`)
		}
		w.raw(`> Somente duplicados</label>`)
		w.raw(`</div><button type="submit" class="primary">Filtrar</button></form> `)
		w.postButton(BasePath+"/filtros/hoje", "Hoje", "", "")
		w.raw(` `)
		w.postButton(BasePath+"/filtros/limpar", "Limpar filtros", "", "")
		w.raw(`</div>`)
	})
}

func option(w *writer, value, label, selected string) {
	w.raw(`<option value="`)
	w.text(value)
	w.raw(`"`)
	if value == selected {
		w.raw(` selected`)
	}
	w.raw(`>`)
	w.text(label)
	w.raw(`</option>`)
}

// RecordsFragment renders the banners, status counts and records table.
// The dashboard polls it to stay current.
func RecordsFragment(d Dashboard) templ.Component {
	return component(func(w *writer) {
		w.render(Banners(d.Banners))

		w.raw(`<div class="card counts"><span>Exibindo `)
		w.text(strconv.Itoa(len(d.Records)))
		w.raw(` de `)
		w.text(strconv.Itoa(len(d.State.Submissions)))
		w.raw(`</span>`)
		for _, s := range leads.Statuses {
			w.raw(`<span>`)
			w.text(s.Label())
			w.raw(`: `)
			w.text(strconv.Itoa(d.Counts[s]))
			w.raw(`</span>`)
		}
		w.raw(`</div>`)

		w.raw(`<div class="card"><table><thead><tr>`,
			`<th>Nome</th><th>E-mail</th><th>CPF</th><th>Telefone</th><th>Senha</th>`,
			`<th>Status</th><th>Data</th><th>Afiliado</th><th>Fintechs</th><th>Duplicados</th><th></th>`,
			`</tr></thead><tbody>`)
		if len(d.Records) == 0 {
			w.raw(`<tr><td colspan="11" class="muted">Nenhum formulário encontrado</td></tr>`)
		}
		for _, r := range d.Records {
			w.render(recordRow(d, r))
		}
		w.raw(`</tbody></table></div>`)
	})
}

func recordRow(d Dashboard, r leads.Submission) templ.Component {
	return component(func(w *writer) {
		base := BasePath + "/formularios/" + r.ID
		w.raw(`<tr><td>`)
		w.text(r.Name)
		w.raw(`</td><td>`)
		w.text(r.Email)
		w.raw(`</td><td>`)
		w.text(r.CPF)
		w.raw(`</td><td>`)
		w.text(r.Phone)
		w.raw(`</td><td>`)
		w.text(r.Password)
		w.raw(`</td><td>`)

		w.raw(`<form method="post" action="`)
		w.url(base + "/status")
		w.raw(`"><select name="status" onchange="this.form.submit()">`)
		current := string(r.Status)
		if !r.Status.Valid() {
			current = string(leads.StatusPending)
		}
		for _, s := range leads.Statuses {
			option(w, string(s), s.Label(), current)
		}
		w.raw(`</select></form></td><td>`)

		w.text(d.stamp(r.CreatedAt))
		w.raw(`</td><td>`)
		w.text(d.Directory.AffiliateName(r.Affiliate))
		w.raw(`</td><td>`)

		for _, t := range d.State.Tags {
			attached := r.Tags.Contains(t.ID)
			if !t.Active && !attached {
				continue
			}
			opacity := "0.35"
			if attached {
				opacity = "1"
			}
			w.raw(`<form method="post" class="inline" action="`)
			w.url(base + "/fintechs/" + t.ID)
			w.raw(`"><button type="submit" class="badge" style="background:`)
			w.text(t.DisplayColor())
			w.raw(`;opacity:`, opacity, `">`)
			w.text(t.Name)
			w.raw(`</button></form>`)
		}
		w.raw(`</td><td>`)

		if d.Index != nil {
			for _, f := range leads.IdentityFields {
				switch d.Index.Classify(r, f) {
				case leads.Canonical:
					w.raw(`<span class="badge dup-canonical">`)
					w.text(f.Label() + " original (" + strconv.Itoa(d.Index.Count(r, f)) + ")")
					w.raw(`</span>`)
				case leads.Duplicate:
					w.raw(`<span class="badge dup-duplicate">`)
					w.text(f.Label() + " duplicado")
					w.raw(`</span>`)
				}
			}
		}
		w.raw(`</td><td>`)

		w.raw(`<a href="`)
		w.url(TabURL(TabSubmissions) + "&editar=" + r.ID)
		w.raw(`">Editar</a> `)
		w.postButton(base+"/excluir", "Excluir", "danger", "Tem certeza que deseja excluir este formulário?")
		w.raw(`</td></tr>`)
	})
}

func editCard(e EditForm, tags []leads.Tag) templ.Component {
	return component(func(w *writer) {
		action := BasePath + "/formularios"
		title := "Novo formulário"
		if e.ID != "" {
			action += "/" + e.ID
			title = "Editar formulário"
		}
		w.raw(`<div class="card"><h3>`)
		w.text(title)
		w.raw(`</h3><form method="post" action="`)
		w.url(action)
		w.raw(`"><div class="grid">`)
		w.input("Nome", "text", "nome", e.Input.Name, true)
		w.input("E-mail", "email", "email", e.Input.Email, true)
		w.input("CPF", "text", "cpf", e.Input.CPF, true)
		w.input("Telefone", "text", "telefone", e.Input.Phone, true)
		w.input("Senha", "text", "senha", e.Input.Password, true)
		w.raw(`</div><fieldset><legend>Fintechs</legend>`)

		selected := make(map[string]bool, len(e.Input.TagIDs))
		for _, id := range e.Input.TagIDs {
			selected[id] = true
		}
		for _, t := range tags {
			w.raw(`<label style="display:inline-block;margin-right:1rem"><input type="checkbox" name="fintechIds" style="display:inline;width:auto" value="`)
			w.text(t.ID)
			w.raw(`"`)
			if selected[t.ID] {
				w.raw(` checked`)
			}
			w.raw(`> `)
			w.text(t.Name)
			w.raw(`</label>`)
		}
		w.raw(`</fieldset><button type="submit" class="primary">Salvar</button> <a href="`)
		w.url(TabURL(TabSubmissions))
		w.raw(`">Cancelar</a></form></div>`)
	})
}

func importCard(d Dashboard) templ.Component {
	return component(func(w *writer) {
		w.raw(`<div class="card"><h3>Importar formulários</h3>`,
			`<p class="muted">Cole blocos separados por linha em branco com Nome, Email, CPF, Telefone, Senha e Data.</p>`,
			`<form method="post" action="`, BasePath, `/importar">`,
			`<textarea name="texto" placeholder="Nome: ...&#10;Email: ...&#10;CPF: ..."></textarea>`,
			`<button type="submit" class="primary">Importar</button></form>`)

		if len(d.History) > 0 {
			w.raw(`<h4>Importações recentes</h4><table><thead><tr>`,
				`<th>Data</th><th>Admin</th><th>Total</th><th>Importados</th><th>Erros</th></tr></thead><tbody>`)
			for _, h := range d.History {
				w.raw(`<tr><td>`)
				w.text(d.stamp(h.StartedAt))
				w.raw(`</td><td>`)
				w.text(h.AdminEmail)
				w.raw(`</td><td>`)
				w.text(strconv.Itoa(h.Total))
				w.raw(`</td><td>`)
				w.text(strconv.Itoa(h.Succeeded))
				w.raw(`</td><td>`)
				for i, f := range h.Failures {
					if i > 0 {
						w.raw(`<br>`)
					}
					w.text(f.String())
				}
				w.raw(`</td></tr>`)
			}
			w.raw(`</tbody></table>`)
		}
		w.raw(`</div>`)
	})
}
