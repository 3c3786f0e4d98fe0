package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/seismic-prep/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RunState is the view of a preparation run the server exposes. The
// pipeline implements it.
type RunState interface {
	sharedobs.ReadinessChecker
	Metadata() (domain.MetadataMap, bool)
}

// Server exposes health, readiness, metrics, and station metadata endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and
// /stations routes. Metrics are served from gatherer.
func NewServer(addr string, state RunState, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(state))
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /stations", handleStations(state))
	mux.HandleFunc("GET /stations/{code}", handleStation(state))

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

func handleStations(state RunState) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		md, ok := state.Metadata()
		if !ok {
			sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  "station metadata not built yet",
			})
			return
		}
		sharedobs.WriteJSON(w, http.StatusOK, md)
	}
}

func handleStation(state RunState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		md, ok := state.Metadata()
		if !ok {
			sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  "station metadata not built yet",
			})
			return
		}
		code := r.PathValue("code")
		m, found := md[code]
		if !found {
			sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{
				"error": "station " + code + " not found",
			})
			return
		}
		sharedobs.WriteJSON(w, http.StatusOK, m)
	}
}
