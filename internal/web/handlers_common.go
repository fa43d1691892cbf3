package web

// handlers_common.go contains shared helpers used across handlers.

import (
	"net/http"
	"strconv"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 200
)

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// runsLimit reads the "limit" parameter for run listings.
func runsLimit(r *http.Request) int {
	return min(parseIntParam(r, "limit", defaultRunsLimit), maxRunsLimit)
}

// maxFileSizeMB reports the upload limit for display.
func (s *Server) maxFileSizeMB() int64 {
	return s.cfg.Upload.MaxFileSize >> 20
}
