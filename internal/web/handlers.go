package web

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/barredora/internal/core"
	"github.com/JonMunkholm/barredora/internal/logging"
	"github.com/JonMunkholm/barredora/internal/web/templates"
	"github.com/a-h/templ"
)

// render writes an HTML component, logging failures since headers are sent.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "path", r.URL.Path, "error", err)
	}
}

// handleIndex renders the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	render(w, r, templates.UploadPage(templates.UploadParams{
		MaxFileSizeMB: s.maxFileSizeMB(),
	}))
}

// handleRunsPage lists recent runs from the run log.
func (s *Server) handleRunsPage(w http.ResponseWriter, r *http.Request) {
	runs, err := s.service.RecentRuns(r.Context(), runsLimit(r))
	if err != nil && !errors.Is(err, core.ErrRunLogDisabled) {
		s.respondError(w, r, err)
		return
	}

	render(w, r, templates.RunsPage(templates.RunsParams{
		Enabled: s.service.RunLogEnabled(),
		Runs:    runs,
	}))
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}
