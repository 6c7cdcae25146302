package api

import (
	"context"
	"net/http"
	"time"

	"github.com/nanohft/hftsim/internal/runstore"
	"github.com/nanohft/hftsim/internal/symlabel"
)

type symbolInfo struct {
	Symbol int    `json:"symbol"`
	Label  string `json:"label"`
}

// handleSymbols returns the symbol ids and synthetic labels this run tracks.
func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	out := make([]symbolInfo, s.symbols)
	for i := 0; i < s.symbols; i++ {
		out[i] = symbolInfo{Symbol: i, Label: symlabel.Label(i)}
	}
	writeJSON(w, http.StatusOK, out)
}

type statsResponse struct {
	Uptime    string `json:"uptime"`
	Clients   int    `json:"clients"`
	Symbols   int    `json:"symbols"`
	RunsStore bool   `json:"runsStoreEnabled"`
}

// handleStats returns runtime statistics for the live telemetry feed.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statsResponse{
		Uptime:    time.Since(s.startAt).Truncate(time.Second).String(),
		Clients:   s.mgr.ClientCount(),
		Symbols:   s.symbols,
		RunsStore: s.reader != nil,
	})
}

// handleRuns returns paginated run history from the run-history store.
// Responds 503 if run-history storage is disabled.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.reader == nil {
		writeError(w, http.StatusServiceUnavailable, "run-history storage is not enabled (set --mongo-uri)")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	runs, err := s.reader.QueryRuns(ctx, runstore.RunFilter{
		CodeHash: r.URL.Query().Get("code_hash"),
		Mode:     r.URL.Query().Get("mode"),
		Limit:    parseIntParam(r, "limit", 100),
		Offset:   parseIntParam(r, "offset", 0),
		From:     parseTimeParam(r, "from"),
		To:       parseTimeParam(r, "to"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, runs)
}
