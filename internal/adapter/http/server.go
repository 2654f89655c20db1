// Package http exposes health, metrics, and the read-only dashboard API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/patrolwatch/incident-etl/internal/domain"
	"github.com/patrolwatch/incident-etl/internal/snapshot"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes health, readiness, metrics, and the events/lanes API.
type Server struct {
	httpServer *http.Server
	store      snapshot.Store
	logger     *slog.Logger
}

// NewServer wires all routes. The dashboard endpoints read only the latest
// snapshot; filtering happens per request on an in-memory copy.
func NewServer(addr string, ready ReadinessChecker, store snapshot.Store, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:  store,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/events", s.handleEvents)
	mux.HandleFunc("GET /api/lanes", s.handleLanes)

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

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// eventsResponse is the /api/events payload.
type eventsResponse struct {
	RunID     string         `json:"runId"`
	FetchedAt time.Time      `json:"fetchedAt"`
	Count     int            `json:"count"`
	Events    []domain.Event `json:"events"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.latest(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	events := domain.FilterEvents(snap.Events, q.Get("division"), q.Get("category"), q.Get("date"))
	events = domain.SortNewestFirst(events)

	writeJSON(w, http.StatusOK, eventsResponse{
		RunID:     snap.RunID,
		FetchedAt: snap.FetchedAt,
		Count:     len(events),
		Events:    events,
	})
}

// lanesResponse is the /api/lanes payload.
type lanesResponse struct {
	RunID     string           `json:"runId"`
	FetchedAt time.Time        `json:"fetchedAt"`
	Lanes     domain.LaneStats `json:"lanes"`
}

func (s *Server) handleLanes(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.latest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, lanesResponse{
		RunID:     snap.RunID,
		FetchedAt: snap.FetchedAt,
		Lanes:     snap.Lanes,
	})
}

// latest loads the current snapshot or writes the appropriate error.
func (s *Server) latest(w http.ResponseWriter, r *http.Request) (snapshot.Snapshot, bool) {
	snap, err := s.store.Latest(r.Context())
	if errors.Is(err, snapshot.ErrEmpty) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no data yet"})
		return snapshot.Snapshot{}, false
	}
	if err != nil {
		s.logger.Error("snapshot load failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "snapshot unavailable"})
		return snapshot.Snapshot{}, false
	}
	return snap, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
