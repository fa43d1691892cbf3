package templates

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/barredora/internal/core"
	"github.com/a-h/templ"
)

// UploadParams holds the data for the upload form.
type UploadParams struct {
	MaxFileSizeMB int64
	Alert         *core.UserMessage
}

// UploadPage renders the upload form. The submit button pressed decides
// whether the file is only previewed or also cleaned.
func UploadPage(p UploadParams) templ.Component {
	return Layout("Clean a file", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		if p.Alert != nil {
			h.render(ctx, ErrorAlert(p.Alert.Message, p.Alert.Action, p.Alert.Code))
		}
		h.render(ctx, uploadForm(p.MaxFileSizeMB))
		return h.err
	}))
}

func uploadForm(maxMB int64) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section><h2>Upload a CSV or Excel file</h2>`)
		h.raw(`<form method="post" action="/process" enctype="multipart/form-data">`)
		h.raw(`<p><input type="file" name="file" accept=".csv,.xlsx,.xlsm" required></p>`)
		h.raw(`<p class="muted">Maximum size `)
		h.text(strconv.FormatInt(maxMB, 10))
		h.raw(` MB. Cleaning removes duplicate rows and empty rows, then capitalizes text columns.</p>`)
		h.raw(`<button type="submit" name="action" value="preview" class="secondary">Preview</button> `)
		h.raw(`<button type="submit" name="action" value="clean">Clean</button>`)
		h.raw(`</form></section>`)
		return h.err
	})
}

// ResultParams holds the data for the preview and cleaning result page.
type ResultParams struct {
	FileName        string
	Original        core.Summary
	OriginalPreview core.Preview

	// Run is nil when the file was only previewed.
	Run *core.Run

	MaxFileSizeMB int64
}

// ResultPage shows the original statistics and head, and for a cleaning
// run also the metrics, cleaned head and download link.
func ResultPage(p ResultParams) templ.Component {
	return Layout(p.FileName, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}

		h.raw(`<section><h2>`)
		h.text(p.FileName)
		h.raw(`</h2><div class="metrics">`)
		h.render(ctx, Metric("Rows", p.Original.Rows))
		h.render(ctx, Metric("Columns", p.Original.Columns))
		h.raw(`</div><h3>Columns</h3>`)
		h.render(ctx, ColumnProfiles(p.Original))
		h.raw(`<h3>Original data</h3>`)
		h.render(ctx, PreviewTable(p.OriginalPreview))
		h.raw(`</section>`)

		if run := p.Run; run != nil {
			m := run.Metrics
			h.raw(`<section><h2>Cleaning results</h2><div class="metrics">`)
			h.render(ctx, Metric("Original rows", m.OriginalRowCount))
			h.render(ctx, Metric("Cleaned rows", m.CleanedRowCount))
			h.render(ctx, Metric("Rows removed", m.RowsRemoved))
			h.render(ctx, Metric("Columns", m.ColumnCount))
			h.raw(`</div><p class="muted">`)
			h.text(strconv.Itoa(m.DuplicatesRemoved) + " duplicate and " + strconv.Itoa(m.EmptyRowsRemoved) + " empty rows removed.")
			if len(m.TextColumns) > 0 {
				h.text(" Capitalized: " + strings.Join(m.TextColumns, ", ") + ".")
			}
			h.raw(`</p><h3>Cleaned data</h3>`)
			h.render(ctx, PreviewTable(run.CleanedPreview))
			h.raw(`<p><a`)
			h.attr("href", string(templ.URL("/runs/"+run.ID+"/download")))
			h.raw(`><button type="button">Download `)
			h.text(run.DownloadName)
			h.raw(`</button></a></p><p class="muted">Available until `)
			h.text(run.ExpiresAt.Format(time.Kitchen))
			h.raw(`.</p></section>`)
		}

		h.render(ctx, uploadForm(p.MaxFileSizeMB))
		return h.err
	}))
}

// RunsParams holds the data for the run log page.
type RunsParams struct {
	Enabled bool
	Runs    []core.RunRecord
}

// RunsPage lists recent cleaning runs.
func RunsPage(p RunsParams) templ.Component {
	return Layout("Recent runs", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section><h2>Recent runs</h2>`)
		switch {
		case !p.Enabled:
			h.raw(`<p class="muted">Run history is not available. Configure DATABASE_URL to keep a history of cleaning runs.</p>`)
		case len(p.Runs) == 0:
			h.raw(`<p class="muted">No cleaning runs yet.</p>`)
		default:
			h.raw(`<table><thead><tr><th>When</th><th>File</th><th>Original</th><th>Cleaned</th><th>Duplicates</th><th>Empty</th><th>Duration</th></tr></thead><tbody>`)
			for _, r := range p.Runs {
				h.raw(`<tr><td>`)
				h.text(r.CreatedAt.Format("2006-01-02 15:04"))
				h.raw(`</td><td>`)
				h.text(r.FileName)
				h.raw(`</td><td>`)
				h.text(strconv.Itoa(r.Metrics.OriginalRowCount))
				h.raw(`</td><td>`)
				h.text(strconv.Itoa(r.Metrics.CleanedRowCount))
				h.raw(`</td><td>`)
				h.text(strconv.Itoa(r.Metrics.DuplicatesRemoved))
				h.raw(`</td><td>`)
				h.text(strconv.Itoa(r.Metrics.EmptyRowsRemoved))
				h.raw(`</td><td>`)
				h.text(r.Duration.String())
				h.raw(`</td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}
		h.raw(`</section>`)
		return h.err
	}))
}

// ErrorPage renders a full page around an error alert.
func ErrorPage(msg core.UserMessage) templ.Component {
	return Layout("Error", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.render(ctx, ErrorAlert(msg.Message, msg.Action, msg.Code))
		h.raw(`<p><a href="/">Back to upload</a></p>`)
		return h.err
	}))
}
