// Package templates holds the HTML views of the web UI as templ components.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// html accumulates the first write error so components can emit markup
// without checking every call.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) attr(name, value string) {
	h.raw(" " + name + "=\"" + templ.EscapeString(value) + "\"")
}

func (h *html) render(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

const styles = `body{font-family:system-ui,sans-serif;margin:0;background:#f6f7f9;color:#1f2933}
header{background:#1f2933;color:#fff;padding:12px 24px;display:flex;gap:24px;align-items:center}
header a{color:#cbd2d9;text-decoration:none}
main{max-width:1100px;margin:24px auto;padding:0 24px}
section{background:#fff;border-radius:8px;padding:16px 20px;margin-bottom:20px;box-shadow:0 1px 2px rgba(0,0,0,.08)}
table{border-collapse:collapse;width:100%;font-size:14px}
th,td{border-bottom:1px solid #e4e7eb;padding:6px 8px;text-align:left}
.metrics{display:flex;gap:16px;flex-wrap:wrap}
.metric{flex:1;min-width:140px;background:#f0f4f8;border-radius:6px;padding:10px 14px}
.metric b{display:block;font-size:24px}
.alert{border-left:4px solid #cf1124;background:#ffe3e3;padding:12px 16px;border-radius:4px;margin-bottom:20px}
.muted{color:#7b8794;font-size:13px}
button{padding:8px 16px;border-radius:6px;border:0;background:#2680c2;color:#fff;cursor:pointer}
button.secondary{background:#52606d}`

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(title)
		h.raw(` - Barredora</title><style>`)
		h.raw(styles)
		h.raw(`</style></head><body><header><strong>Barredora</strong><a href="/">Clean a file</a><a href="/runs">Recent runs</a></header><main>`)
		h.render(ctx, body)
		h.raw(`</main></body></html>`)
		return h.err
	})
}
