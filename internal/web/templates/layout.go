package templates

import (
	"github.com/a-h/templ"

	"github.com/JonMunkholm/leadintake/internal/dashboard"
)

const styles = `
body{font-family:system-ui,sans-serif;margin:0;background:#f4f5f7;color:#1f2933}
main{max-width:1200px;margin:0 auto;padding:1.5rem}
header.top{display:flex;justify-content:space-between;align-items:center;background:#111827;color:#fff;padding:.75rem 1.5rem}
header.top a,header.top button{color:#fff}
nav.tabs{display:flex;gap:.5rem;margin:1rem 0}
nav.tabs a{padding:.5rem 1rem;border-radius:6px;background:#e5e7eb;color:#111;text-decoration:none}
nav.tabs a.active{background:#2563eb;color:#fff}
.card{background:#fff;border-radius:8px;padding:1rem;margin-bottom:1rem;box-shadow:0 1px 2px rgba(0,0,0,.08)}
table{width:100%;border-collapse:collapse;font-size:.9rem}
th,td{padding:.4rem;border-bottom:1px solid #e5e7eb;text-align:left;vertical-align:top}
label{display:block;margin:.4rem 0;font-size:.85rem}
input,select,textarea{display:block;width:100%;padding:.4rem;box-sizing:border-box}
textarea{min-height:10rem;font-family:monospace}
button{cursor:pointer;padding:.35rem .75rem;border-radius:4px;border:1px solid #cbd5e1;background:#fff}
button.primary{background:#2563eb;color:#fff;border-color:#2563eb}
button.danger{background:#dc2626;color:#fff;border-color:#dc2626}
form.inline{display:inline}
.banner{padding:.75rem 1rem;border-radius:6px;margin-bottom:.75rem}
.banner.success{background:#dcfce7;color:#166534}
.banner.error{background:#fee2e2;color:#991b1b}
.badge{display:inline-block;padding:.1rem .45rem;border-radius:10px;font-size:.75rem;color:#fff;margin:.1rem}
.dup-canonical{background:#16a34a}
.dup-duplicate{background:#dc2626}
.muted{color:#6b7280;font-size:.8rem}
.grid{display:grid;grid-template-columns:repeat(auto-fit,minmax(180px,1fr));gap:.5rem}
.counts span{margin-right:1rem}
`

// Layout wraps its children in the page shell.
func Layout(title string) templ.Component {
	return component(func(w *writer) {
		w.raw(`<!DOCTYPE html><html lang="pt-BR"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		w.text(title)
		w.raw(`</title><style>`, styles, `</style></head><body>`)
		w.render(templ.GetChildren(w.ctx))
		w.raw(`</body></html>`)
	})
}

// page renders body inside Layout.
func page(title string, body templ.Component) templ.Component {
	return component(func(w *writer) {
		w.ctx = templ.WithChildren(w.ctx, body)
		w.render(Layout(title))
	})
}

// Banners renders transient status messages.
func Banners(items []dashboard.Banner) templ.Component {
	return component(func(w *writer) {
		for _, b := range items {
			w.raw(`<div class="banner `, string(b.Kind), `" role="status">`)
			w.text(b.Text)
			if b.LinkURL != "" {
				w.raw(` <a href="`)
				w.url(b.LinkURL)
				w.raw(`" target="_blank" rel="noopener">`)
				w.text(b.LinkText)
				w.raw(`</a>`)
			}
			w.raw(`</div>`)
		}
	})
}

// ErrorView is a user-facing error.
type ErrorView struct {
	Message string
	Action  string
	Code    string
}

// ErrorAlert renders an error fragment.
func ErrorAlert(e ErrorView) templ.Component {
	return component(func(w *writer) {
		w.raw(`<div class="banner error" role="alert"><strong>`)
		w.text(e.Message)
		w.raw(`</strong>`)
		if e.Action != "" {
			w.raw(` `)
			w.text(e.Action)
		}
		w.raw(` <span class="muted">(`)
		w.text(e.Code)
		w.raw(`)</span></div>`)
	})
}

// ErrorPage renders a full error page.
func ErrorPage(e ErrorView) templ.Component {
	return page("Erro", component(func(w *writer) {
		w.raw(`<main>`)
		w.render(ErrorAlert(e))
		w.raw(`<p><a href="/">Voltar</a></p></main>`)
	}))
}
