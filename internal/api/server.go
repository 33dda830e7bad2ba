// Package api serves the decision journal over HTTP. Every endpoint is a
// read-only GET.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/talgya/autociv/internal/persistence"
)

// Journal is the part of the journal the server reads.
type Journal interface {
	LatestRun() (persistence.Run, error)
	GetRun(id string) (persistence.Run, error)
	Summaries(runID string, turn int) ([]persistence.FactionSummary, error)
	RecentDecisions(runID string, limit int) ([]persistence.DecisionRow, error)
	DecisionCounts(runID string) (map[string]int, error)
	RecentEvents(runID string, limit int) ([]persistence.EventRow, error)
}

// Server serves a journal over HTTP.
type Server struct {
	DB   Journal
	Addr string
}

// Handler returns the routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/runs/latest", s.handleLatest)
	mux.HandleFunc("GET /api/v1/runs/{id}", s.handleRun)
	mux.HandleFunc("GET /api/v1/runs/{id}/summaries", s.handleSummaries)
	mux.HandleFunc("GET /api/v1/runs/{id}/decisions", s.handleDecisions)
	mux.HandleFunc("GET /api/v1/runs/{id}/events", s.handleEvents)
	return mux
}

// ListenAndServe blocks serving the API.
func (s *Server) ListenAndServe() error {
	log.Info().Str("addr", s.Addr).Msg("HTTP API starting")
	return http.ListenAndServe(s.Addr, s.Handler())
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	run, err := s.DB.LatestRun()
	if errors.Is(err, persistence.ErrNoRuns) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		serverError(w, err)
		return
	}
	writeJSON(w, run)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.run(w, r)
	if !ok {
		return
	}
	counts, err := s.DB.DecisionCounts(run.ID)
	if err != nil {
		serverError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"run":       run,
		"started":   run.Started(),
		"decisions": counts,
	})
}

func (s *Server) handleSummaries(w http.ResponseWriter, r *http.Request) {
	run, ok := s.run(w, r)
	if !ok {
		return
	}
	turn := -1
	if t := r.URL.Query().Get("turn"); t != "" {
		n, err := strconv.Atoi(t)
		if err != nil || n < 0 {
			http.Error(w, "bad turn", http.StatusBadRequest)
			return
		}
		turn = n
	}
	summaries, err := s.DB.Summaries(run.ID, turn)
	if err != nil {
		serverError(w, err)
		return
	}
	writeJSON(w, summaries)
}

func (s *Server) handleDecisions(w http.ResponseWriter, r *http.Request) {
	run, ok := s.run(w, r)
	if !ok {
		return
	}
	decisions, err := s.DB.RecentDecisions(run.ID, limit(r))
	if err != nil {
		serverError(w, err)
		return
	}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		var filtered []persistence.DecisionRow
		for _, d := range decisions {
			if d.Kind == kind {
				filtered = append(filtered, d)
			}
		}
		decisions = filtered
	}
	writeJSON(w, decisions)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	run, ok := s.run(w, r)
	if !ok {
		return
	}
	events, err := s.DB.RecentEvents(run.ID, limit(r))
	if err != nil {
		serverError(w, err)
		return
	}
	writeJSON(w, events)
}

// run resolves the {id} path value, writing a 404 when it is unknown.
func (s *Server) run(w http.ResponseWriter, r *http.Request) (persistence.Run, bool) {
	run, err := s.DB.GetRun(r.PathValue("id"))
	if err != nil {
		http.Error(w, "run not found", http.StatusNotFound)
		return run, false
	}
	return run, true
}

// limit reads ?limit=, defaulting to 50 and capped at 500.
func limit(r *http.Request) int {
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			return n
		}
	}
	return 50
}

func serverError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("API request failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
