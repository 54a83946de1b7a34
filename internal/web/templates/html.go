// Package templates renders the server-side HTML views. Components are
// plain templ.Components so handlers can Render them or serve them through
// templ.Handler.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// writer accumulates the first write error so components can emit markup
// without checking every call.
type writer struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newWriter(ctx context.Context, w io.Writer) *writer {
	return &writer{ctx: ctx, w: w}
}

// raw writes trusted markup.
func (w *writer) raw(parts ...string) {
	for _, s := range parts {
		if w.err != nil {
			return
		}
		_, w.err = io.WriteString(w.w, s)
	}
}

// text writes escaped content. It is safe inside attribute values too.
func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

// url writes a sanitized, escaped URL.
func (w *writer) url(u string) {
	w.text(string(templ.URL(u)))
}

func (w *writer) render(c templ.Component) {
	if w.err == nil && c != nil {
		w.err = c.Render(w.ctx, w.w)
	}
}

// hidden writes a hidden form input.
func (w *writer) hidden(name, value string) {
	w.raw(`<input type="hidden" name="`, name, `" value="`)
	w.text(value)
	w.raw(`">`)
}

// input writes a labelled text-like input.
func (w *writer) input(label, typ, name, value string, required bool) {
	w.raw(`<label>`)
	w.text(label)
	w.raw(`<input type="`, typ, `" name="`, name, `" value="`)
	w.text(value)
	w.raw(`"`)
	if required {
		w.raw(` required`)
	}
	w.raw(`></label>`)
}

// postButton writes a single-button form posting to action.
func (w *writer) postButton(action, label, class, confirm string) {
	w.raw(`<form method="post" class="inline" action="`)
	w.url(action)
	w.raw(`"`)
	if confirm != "" {
		w.raw(` onsubmit="return confirm('`)
		w.text(confirm)
		w.raw(`')"`)
	}
	w.raw(`><button type="submit" class="`, class, `">`)
	w.text(label)
	w.raw(`</button></form>`)
}

func component(fn func(w *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := newWriter(ctx, out)
		fn(w)
		return w.err
	})
}
