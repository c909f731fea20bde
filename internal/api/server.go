// Package api exposes the tracker over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/athyk213/ISS-Tracker/internal/astro"
	"github.com/athyk213/ISS-Tracker/internal/feed"
	"github.com/athyk213/ISS-Tracker/internal/metrics"
	"github.com/athyk213/ISS-Tracker/internal/models"
	"github.com/athyk213/ISS-Tracker/internal/oem"
	"github.com/athyk213/ISS-Tracker/internal/orbit"
	"github.com/athyk213/ISS-Tracker/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tracker is the query surface served by the API. *service.Tracker implements it.
type Tracker interface {
	Comments(ctx context.Context) ([]string, error)
	Header(ctx context.Context) (map[string]any, error)
	Metadata(ctx context.Context) (map[string]any, error)
	Epochs(ctx context.Context, limit, offset *int) ([]models.StateVector, error)
	Epoch(ctx context.Context, epoch string) (models.StateVector, error)
	Speed(ctx context.Context, epoch string) (models.Speed, error)
	Location(ctx context.Context, epoch string) (models.Location, error)
	Now(ctx context.Context) (models.Current, error)
}

// Server serves the tracker routes plus /healthz and /metrics.
type Server struct {
	httpServer *http.Server
	tracker    Tracker
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server listening on addr. Metrics are exposed
// from the given gatherer.
func NewServer(
	addr string,
	tracker Tracker,
	gatherer prometheus.Gatherer,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			// Location lookups wait on the feed and the geocoder in turn.
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		tracker: tracker,
		metrics: m,
		logger:  logger,
	}

	s.handle(mux, "GET /comment", s.handleComments)
	s.handle(mux, "GET /header", s.handleHeader)
	s.handle(mux, "GET /metadata", s.handleMetadata)
	s.handle(mux, "GET /epochs", s.handleEpochs)
	s.handle(mux, "GET /epochs/{epoch}", s.handleEpoch)
	s.handle(mux, "GET /epochs/{epoch}/speed", s.handleSpeed)
	s.handle(mux, "GET /epochs/{epoch}/location", s.handleLocation)
	s.handle(mux, "GET /now", s.handleNow)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// handle registers h under pattern, recording request metrics and a debug log line.
func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		h(rec, r)

		duration := time.Since(start)
		s.metrics.HTTPRequests.WithLabelValues(pattern, strconv.Itoa(rec.status)).Inc()
		s.metrics.HTTPRequestSeconds.WithLabelValues(pattern).Observe(duration.Seconds())
		s.logger.DebugContext(r.Context(), "request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", duration,
		)
	})
}

func (s *Server) handleComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.tracker.Comments(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) handleHeader(w http.ResponseWriter, r *http.Request) {
	header, err := s.tracker.Header(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, header)
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	metadata, err := s.tracker.Metadata(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, metadata)
}

func (s *Server) handleEpochs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, offset, err := service.ParseWindow(query.Get("limit"), query.Get("offset"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	vectors, err := s.tracker.Epochs(r.Context(), limit, offset)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vectors)
}

func (s *Server) handleEpoch(w http.ResponseWriter, r *http.Request) {
	sv, err := s.tracker.Epoch(r.Context(), r.PathValue("epoch"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sv)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	speed, err := s.tracker.Speed(r.Context(), r.PathValue("epoch"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, speed)
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	loc, err := s.tracker.Location(r.Context(), r.PathValue("epoch"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

func (s *Server) handleNow(w http.ResponseWriter, r *http.Request) {
	current, err := s.tracker.Now(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// errorResponse maps an error to its status code and plain-text message.
func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Epoch not found."
	case errors.Is(err, service.ErrInvalidParameter):
		return http.StatusInternalServerError, "Invalid parameters; limit and offset must be integers."
	case errors.Is(err, feed.ErrFetch):
		return http.StatusInternalServerError, "Failed to download ISS data."
	case errors.Is(err, oem.ErrParse):
		return http.StatusInternalServerError, "Failed to parse ISS data."
	case errors.Is(err, orbit.ErrNoData):
		return http.StatusInternalServerError, "No ISS data available."
	case errors.Is(err, astro.ErrInvalidEpoch):
		return http.StatusInternalServerError, "Invalid epoch in ISS data."
	default:
		return http.StatusInternalServerError, "Internal server error."
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := errorResponse(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // the client has gone if this fails
}
