package templates

import (
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

func affiliatesTab(d Dashboard) templ.Component {
	return component(func(w *writer) {
		w.raw(`<div class="card"><h3>Novo afiliado</h3><form method="post" action="`, BasePath, `/afiliados">`)
		w.input("Nome do afiliado", "text", "nome", "", true)
		w.raw(`<button type="submit" class="primary">Criar</button></form></div>`)

		w.raw(`<div class="card"><table><thead><tr><th>Nome</th><th>Código</th><th>Link</th>`,
			`<th>Formulários</th><th>Criado em</th><th></th></tr></thead><tbody>`)
		if len(d.State.Affiliates) == 0 {
			w.raw(`<tr><td colspan="6" class="muted">Nenhum afiliado cadastrado</td></tr>`)
		}
		for _, a := range d.State.Affiliates {
			link := ReferralLink(d.ReferralBase, a.Code)
			w.raw(`<tr><td>`)
			w.text(a.Name)
			w.raw(`</td><td>`)
			w.text(a.Code)
			w.raw(`</td><td><input readonly value="`)
			w.text(link)
			w.raw(`" onclick="this.select()"></td><td>`)
			w.text(strconv.Itoa(a.SubmissionCount))
			w.raw(`</td><td>`)
			w.text(d.stamp(a.CreatedAt))
			w.raw(`</td><td><a href="`)
			w.url(TabURL(TabAffiliates) + "&afiliado=" + a.ID)
			w.raw(`">Ver formulários</a> `)
			w.postButton(BasePath+"/afiliados/"+a.ID+"/excluir", "Excluir", "danger",
				"Tem certeza que deseja excluir este afiliado?")
			w.raw(`</td></tr>`)
		}
		w.raw(`</tbody></table></div>`)

		if d.Affiliate != nil {
			w.raw(`<div class="card"><h3>Formulários de `)
			w.text(d.Affiliate.Affiliate.Name)
			w.raw(`</h3><table><thead><tr><th>Nome</th><th>E-mail</th><th>Telefone</th>`,
				`<th>Status</th><th>Data</th></tr></thead><tbody>`)
			if len(d.Affiliate.Submissions) == 0 {
				w.raw(`<tr><td colspan="5" class="muted">Nenhum formulário</td></tr>`)
			}
			for _, s := range d.Affiliate.Submissions {
				w.raw(`<tr><td>`)
				w.text(s.Name)
				w.raw(`</td><td>`)
				w.text(s.Email)
				w.raw(`</td><td>`)
				w.text(s.Phone)
				w.raw(`</td><td>`)
				w.text(s.Status.Label())
				w.raw(`</td><td>`)
				w.text(d.stamp(s.CreatedAt))
				w.raw(`</td></tr>`)
			}
			w.raw(`</tbody></table></div>`)
		}
	})
}

// ReferralLink builds the public form link carrying an affiliate code.
func ReferralLink(base, code string) string {
	return strings.TrimSuffix(base, "/") + "/?ref=" + code
}

func adminsTab(d Dashboard) templ.Component {
	return component(func(w *writer) {
		w.raw(`<div class="card"><h3>Novo admin</h3><form method="post" action="`, BasePath, `/admins"><div class="grid">`)
		w.input("E-mail", "email", "email", "", true)
		w.input("Senha", "password", "senha", "", true)
		w.raw(`</div><button type="submit" class="primary">Criar</button></form></div>`)

		w.raw(`<div class="card"><table><thead><tr><th>E-mail</th><th>Criado em</th><th></th></tr></thead><tbody>`)
		for _, a := range d.State.Admins {
			protected := strings.EqualFold(a.Email, d.ProtectedAdmin)
			w.raw(`<tr><td><form method="post" action="`)
			w.url(BasePath + "/admins/" + a.ID)
			w.raw(`"><div class="grid">`)
			w.input("E-mail", "email", "email", a.Email, true)
			w.input("Nova senha (opcional)", "password", "senha", "", false)
			w.raw(`</div><button type="submit">Salvar</button></form></td><td>`)
			w.text(d.stamp(a.CreatedAt))
			w.raw(`</td><td>`)
			if protected {
				w.raw(`<span class="muted">Admin principal</span>`)
			} else {
				w.postButton(BasePath+"/admins/"+a.ID+"/excluir", "Excluir", "danger",
					"Tem certeza que deseja excluir este admin?")
			}
			w.raw(`</td></tr>`)
		}
		w.raw(`</tbody></table></div>`)
	})
}

func settingsTab(d Dashboard) templ.Component {
	return component(func(w *writer) {
		cfg := d.State.Config
		w.raw(`<div class="card"><h3>Formulário público</h3><form method="post" action="`, BasePath, `/config">`)
		w.input("Título principal", "text", "tituloPrincipal", cfg.Title, true)
		w.input("Subtítulo", "text", "subtitulo", cfg.Subtitle, true)
		w.input("Descrição", "text", "descricao", cfg.Description, true)
		w.raw(`<button type="submit" class="primary">Salvar</button></form></div>`)

		w.raw(`<div class="card"><h3>Fintechs</h3><form method="post" action="`, BasePath, `/fintechs"><div class="grid">`)
		w.input("Nome da fintech", "text", "nome", "", true)
		w.input("Cor", "color", "cor", "#666666", false)
		w.raw(`</div><button type="submit" class="primary">Criar</button></form>`)

		w.raw(`<table><thead><tr><th>Fintech</th><th>Ativa</th><th></th></tr></thead><tbody>`)
		for _, t := range d.State.Tags {
			w.raw(`<tr><td><form method="post" action="`)
			w.url(BasePath + "/fintechs/" + t.ID)
			w.raw(`"><div class="grid">`)
			w.input("Nome", "text", "nome", t.Name, true)
			w.input("Cor", "color", "cor", t.DisplayColor(), false)
			w.raw(`</div><button type="submit">Salvar</button></form></td><td>`)
			label := "Ativar"
			if t.Active {
				w.raw(`<span class="badge" style="background:#16a34a">Ativa</span> `)
				label = "Desativar"
			} else {
				w.raw(`<span class="badge" style="background:#6b7280">Inativa</span> `)
			}
			w.postButton(BasePath+"/fintechs/"+t.ID+"/ativo", label, "", "")
			w.raw(`</td><td>`)
			w.postButton(BasePath+"/fintechs/"+t.ID+"/excluir", "Excluir", "danger",
				"Tem certeza que deseja excluir esta fintech?")
			w.raw(`</td></tr>`)
		}
		w.raw(`</tbody></table></div>`)
	})
}
