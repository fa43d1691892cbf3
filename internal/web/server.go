// Package web provides the HTTP server and handlers for the cleaning UI and
// its JSON API.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/barredora/internal/config"
	"github.com/JonMunkholm/barredora/internal/core"
	mw "github.com/JonMunkholm/barredora/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP server for the cleaning application.
type Server struct {
	service *core.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server

	gatherer    prometheus.Gatherer
	httpMetrics *mw.HTTPMetrics
	rateLimiter *mw.RateLimiter
}

// NewServer creates a Server. HTTP metrics are registered with reg, which
// is also served on /metrics.
func NewServer(service *core.Service, cfg *config.Config, reg *prometheus.Registry) *Server {
	s := &Server{
		service:     service,
		cfg:         cfg,
		router:      chi.NewRouter(),
		gatherer:    reg,
		httpMetrics: mw.NewHTTPMetrics(reg),
	}
	if cfg.Rate.Enabled {
		s.rateLimiter = mw.NewRateLimiter(mw.RateLimitConfig{
			RequestsPerMinute: cfg.Rate.RequestsPerMinute,
			Burst:             cfg.Rate.Burst,
		})
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.httpMetrics.Middleware)
	s.router.Use(mw.SecurityHeaders(s.cfg.Security.EnableCSP))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Probes stay outside rate limiting
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	s.router.Group(func(r chi.Router) {
		if s.rateLimiter != nil {
			r.Use(s.rateLimiter.Middleware)
		}
		r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

		// Pages
		r.Get("/", s.handleIndex)
		r.Post("/process", s.handleProcess)
		r.Get("/runs", s.handleRunsPage)
		r.Get("/runs/{runID}/download", s.handleDownload)

		// API routes
		r.Route("/api", func(r chi.Router) {
			r.Use(mw.APIKeyAuth(s.cfg.Security.RequireAPIKey, s.cfg.Security.APIKeys))

			r.Post("/inspect", s.handleAPIInspect)
			r.Post("/clean", s.handleAPIClean)
			r.Post("/clean/download", s.handleAPICleanDownload)

			r.Get("/runs", s.handleAPIRuns)
			r.Get("/runs/{runID}", s.handleAPIRun)
			r.Get("/runs/{runID}/download", s.handleDownload)

			r.Get("/status", s.handleAPIStatus)
		})
	})
}

// Start begins listening for HTTP requests on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.rateLimiter != nil {
		s.rateLimiter.Close()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

// writeJSONStatus is writeJSON with an explicit status code.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
