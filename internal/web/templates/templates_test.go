package templates

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/barredora/internal/core"
	"github.com/a-h/templ"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return b.String()
}

func TestPreviewTableEscapesCells(t *testing.T) {
	out := render(t, PreviewTable(core.Preview{
		Columns: []string{"<name>"},
		Rows:    [][]string{{`<script>alert("x")</script>`}},
	}))

	if strings.Contains(out, "<script>") || strings.Contains(out, "<name>") {
		t.Errorf("unescaped markup in %s", out)
	}
	if !strings.Contains(out, "&lt;name&gt;") {
		t.Errorf("header missing from %s", out)
	}
}

func TestResultPage(t *testing.T) {
	run := &core.Run{
		ID:             "abc",
		DownloadName:   "cleaned_people.csv",
		Metrics:        core.Metrics{OriginalRowCount: 4, CleanedRowCount: 3, RowsRemoved: 1, ColumnCount: 2, TextColumns: []string{"name"}},
		CleanedPreview: core.Preview{Columns: []string{"name"}, Rows: [][]string{{"Ana"}}},
		ExpiresAt:      time.Now(),
	}

	previewOnly := render(t, ResultPage(ResultParams{FileName: "people.csv", MaxFileSizeMB: 50}))
	if strings.Contains(previewOnly, "Cleaning results") {
		t.Error("preview page should not show cleaning results")
	}

	cleaned := render(t, ResultPage(ResultParams{FileName: "people.csv", Run: run, MaxFileSizeMB: 50}))
	for _, want := range []string{"Cleaning results", "/runs/abc/download", "cleaned_people.csv", "Capitalized: name", "50 MB"} {
		if !strings.Contains(cleaned, want) {
			t.Errorf("result page missing %q", want)
		}
	}
}

func TestRunsPage(t *testing.T) {
	if out := render(t, RunsPage(RunsParams{})); !strings.Contains(out, "not available") {
		t.Error("disabled run log message missing")
	}
	if out := render(t, RunsPage(RunsParams{Enabled: true})); !strings.Contains(out, "No cleaning runs yet") {
		t.Error("empty run log message missing")
	}

	out := render(t, RunsPage(RunsParams{Enabled: true, Runs: []core.RunRecord{{FileName: "orders.xlsx"}}}))
	if !strings.Contains(out, "orders.xlsx") {
		t.Error("run row missing")
	}
}
