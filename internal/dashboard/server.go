// Package dashboard serves the stored review history over HTTP.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/eddiefleurent/commodity-review/internal/models"
	"github.com/eddiefleurent/commodity-review/internal/storage"
)

// Server exposes a read-only JSON API over the review run store.
type Server struct {
	router  *chi.Mux
	server  *http.Server
	storage storage.Interface
	logger  zerolog.Logger
	addr    string
}

// NewServer wires the routes. Start must be called to begin serving.
func NewServer(addr string, store storage.Interface, logger zerolog.Logger) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		storage: store,
		logger:  logger.With().Str("component", "dashboard").Logger(),
		addr:    addr,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))

	s.router.Get("/api/review/latest", s.handleLatestRun)
	s.router.Get("/api/review/runs", s.handleListRuns)
	s.router.Get("/api/review/runs/{id}", s.handleGetRun)
	s.router.Get("/api/stats", s.handleStats)
	s.router.Get("/healthz", s.handleHealth)
}

// Start blocks serving HTTP until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.logger.Info().Str("addr", s.addr).Msg("starting dashboard server")
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleLatestRun(w http.ResponseWriter, _ *http.Request) {
	run, err := s.storage.LatestRun()
	if err != nil {
		if errors.Is(err, storage.ErrNoRuns) {
			http.Error(w, "No review runs stored", http.StatusNotFound)
			return
		}
		s.logger.Error().Err(err).Msg("failed to load latest run")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, run)
}

func (s *Server) handleListRuns(w http.ResponseWriter, _ *http.Request) {
	runs := s.storage.Runs()

	// Only identifiers and summaries; full documents come per-run.
	type runListing struct {
		ID          string            `json:"id"`
		GeneratedAt time.Time         `json:"generated_at"`
		Summary     models.RunSummary `json:"summary"`
	}
	listings := make([]runListing, 0, len(runs))
	for i := range runs {
		listings = append(listings, runListing{
			ID:          runs[i].ID,
			GeneratedAt: runs[i].GeneratedAt,
			Summary:     runs[i].Summary,
		})
	}

	s.writeJSON(w, listings)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := s.storage.RunByID(id)
	if err != nil {
		if errors.Is(err, storage.ErrRunNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		s.logger.Error().Err(err).Str("id", id).Msg("failed to load run")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, run)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.storage.GetStatistics())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}
