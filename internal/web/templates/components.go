package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/JonMunkholm/barredora/internal/core"
	"github.com/a-h/templ"
)

// ErrorAlert renders a user-facing error with its action and support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<div class="alert" role="alert"><strong>`)
		h.text(message)
		h.raw(`</strong>`)
		if action != "" {
			h.raw(`<div>`)
			h.text(action)
			h.raw(`</div>`)
		}
		h.raw(`<div class="muted">Code: `)
		h.text(code)
		h.raw(`</div></div>`)
		return h.err
	})
}

// PreviewTable renders a head preview.
func PreviewTable(p core.Preview) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<table><thead><tr>`)
		for _, col := range p.Columns {
			h.raw(`<th>`)
			h.text(col)
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for _, row := range p.Rows {
			h.raw(`<tr>`)
			for _, cell := range row {
				h.raw(`<td>`)
				h.text(cell)
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		if len(p.Rows) == 0 {
			h.raw(`<tr><td class="muted"`)
			h.attr("colspan", strconv.Itoa(max(len(p.Columns), 1)))
			h.raw(`>No rows</td></tr>`)
		}
		h.raw(`</tbody></table>`)
		return h.err
	})
}

// Metric renders one labelled number.
func Metric(label string, value int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<div class="metric"><b>`)
		h.text(strconv.Itoa(value))
		h.raw(`</b>`)
		h.text(label)
		h.raw(`</div>`)
		return h.err
	})
}

// ColumnProfiles renders the per-column profile of a summary.
func ColumnProfiles(s core.Summary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<table><thead><tr><th>Column</th><th>Type</th><th>Text</th><th>Non-null</th><th>Missing</th></tr></thead><tbody>`)
		for _, p := range s.Profiles {
			h.raw(`<tr><td>`)
			h.text(p.Name)
			h.raw(`</td><td>`)
			h.text(p.Type)
			h.raw(`</td><td>`)
			if p.TextLike {
				h.raw(`yes`)
			}
			h.raw(`</td><td>`)
			h.text(strconv.Itoa(p.NonNull))
			h.raw(`</td><td>`)
			h.text(strconv.Itoa(p.Null))
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)
		return h.err
	})
}
