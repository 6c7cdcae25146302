// Package api exposes a small REST surface over a running engine's live
// telemetry and, when run-history storage is enabled, its stored run
// history.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/nanohft/hftsim/internal/monitor"
	"github.com/nanohft/hftsim/internal/runstore"
)

// Server provides REST API endpoints for an engine run.
type Server struct {
	reader  runstore.RunReader // nil when run-history storage is disabled
	mgr     *monitor.Manager
	symbols int
	startAt time.Time
}

// NewServer creates a new API server. reader may be nil if run-history
// storage (--mongo-uri) is disabled; /api/runs then reports 503.
func NewServer(reader runstore.RunReader, mgr *monitor.Manager, symbols int) *Server {
	return &Server{
		reader:  reader,
		mgr:     mgr,
		symbols: symbols,
		startAt: time.Now(),
	}
}

// Register attaches API routes to the given mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/symbols", s.handleSymbols)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/runs", s.handleRuns)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// parseTimeParam parses an RFC3339 query parameter.
func parseTimeParam(r *http.Request, key string) *time.Time {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}

