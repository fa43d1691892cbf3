package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/barredora/internal/core"
	"github.com/go-chi/chi/v5"
)

// StatusResponse is returned by GET /api/status.
type StatusResponse struct {
	Limiter       core.LimiterStatus `json:"limiter"`
	StoredRuns    int                `json:"stored_runs"`
	RunLogEnabled bool               `json:"run_log_enabled"`
}

// handleAPIInspect returns the summary and head preview of an uploaded file.
func (s *Server) handleAPIInspect(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer up.Close()

	insp, err := s.service.Inspect(clientContext(r), up.header.Filename, up.file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, insp)
}

// handleAPIClean cleans an uploaded file and returns the run. The cleaned
// CSV is fetched separately from /api/runs/{runID}/download.
func (s *Server) handleAPIClean(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer up.Close()

	run, err := s.service.Clean(clientContext(r), up.header.Filename, up.file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/runs/"+run.ID)
	writeJSONStatus(w, http.StatusCreated, run)
}

// handleAPICleanDownload cleans an uploaded file and answers with the
// cleaned CSV directly. Row counts are reported in headers.
func (s *Server) handleAPICleanDownload(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer up.Close()

	run, err := s.service.Clean(clientContext(r), up.header.Filename, up.file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("X-Original-Rows", strconv.Itoa(run.Metrics.OriginalRowCount))
	h.Set("X-Cleaned-Rows", strconv.Itoa(run.Metrics.CleanedRowCount))
	h.Set("X-Rows-Removed", strconv.Itoa(run.Metrics.RowsRemoved))
	writeCleanedCSV(w, r, run)
}

// handleAPIRuns lists run log entries, newest first.
func (s *Server) handleAPIRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.service.RecentRuns(r.Context(), runsLimit(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if runs == nil {
		runs = []core.RunRecord{}
	}
	writeJSON(w, runs)
}

// handleAPIRun returns a stored run, falling back to its run log entry once
// the cleaned result has expired.
func (s *Server) handleAPIRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	run, err := s.service.GetRun(runID)
	if err == nil {
		writeJSON(w, run)
		return
	}
	if !errors.Is(err, core.ErrRunNotFound) || !s.service.RunLogEnabled() {
		s.respondError(w, r, err)
		return
	}

	rec, err := s.service.GetRecord(r.Context(), runID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, rec)
}

// handleAPIStatus reports run slot usage and stored results.
func (s *Server) handleAPIStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, StatusResponse{
		Limiter:       s.service.LimiterStatus(),
		StoredRuns:    s.service.StoredRuns(),
		RunLogEnabled: s.service.RunLogEnabled(),
	})
}
