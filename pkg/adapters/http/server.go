// Package http exposes machine sessions over a JSON API: create a session,
// inspect it, fire triggers, and read the flattened state table.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alvion/transitions/internal/logging"
	"github.com/alvion/transitions/pkg/domain"
)

// SessionManager drives persisted sessions (implemented by session.Manager).
type SessionManager interface {
	Start(ctx context.Context, sessionID string, payload map[string]any) (*domain.Snapshot, error)
	Fire(ctx context.Context, sessionID, trigger string, args ...any) (bool, *domain.Snapshot, error)
	Get(ctx context.Context, sessionID string) (*domain.Snapshot, error)
	End(ctx context.Context, sessionID string) error
}

// Inspector exposes the machine's flattened state table.
type Inspector interface {
	States() []*domain.State
}

// Server implements the HTTP surface.
type Server struct {
	sessions SessionManager
	states   Inspector
	logger   *slog.Logger
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler builds the chi router for the given session manager and machine
// view.
func NewHandler(sessions SessionManager, states Inspector, opts ...Option) http.Handler {
	s := &Server{
		sessions: sessions,
		states:   states,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.getHealth)
	r.Get("/graph", s.getGraph)
	r.Post("/sessions", s.createSession)
	r.Get("/sessions/{id}", s.getSession)
	r.Delete("/sessions/{id}", s.deleteSession)
	r.Post("/sessions/{id}/fire", s.fire)
	return r
}

type sessionResponse struct {
	SessionID string   `json:"session_id"`
	State     string   `json:"state"`
	History   []string `json:"history,omitempty"`
}

type fireRequest struct {
	Trigger string `json:"trigger"`
	Args    []any  `json:"args,omitempty"`
}

type fireResponse struct {
	Fired bool   `json:"fired"`
	State string `json:"state"`
}

type stateInfo struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
	Leaf  bool   `json:"leaf"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID      string         `json:"id"`
		Context map[string]any `json:"context,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ID == "" {
		http.Error(w, "Invalid request body: id is required", http.StatusBadRequest)
		return
	}

	snap, err := s.sessions.Start(r.Context(), body.ID, body.Context)
	if err != nil {
		http.Error(w, "Failed to start session", http.StatusInternalServerError)
		s.logger.Error("session start failed", "err", err, "session_id", body.ID)
		return
	}
	s.writeJSON(w, http.StatusCreated, sessionResponse{
		SessionID: body.ID,
		State:     snap.Current,
		History:   snap.History,
	})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		s.logger.Error("session load failed", "err", err, "session_id", id)
		return
	}
	s.writeJSON(w, http.StatusOK, sessionResponse{
		SessionID: id,
		State:     snap.Current,
		History:   snap.History,
	})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.End(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete session", http.StatusInternalServerError)
		s.logger.Error("session delete failed", "err", err, "session_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) fire(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body fireRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Trigger == "" {
		http.Error(w, "Invalid request body: trigger is required", http.StatusBadRequest)
		return
	}

	fired, snap, err := s.sessions.Fire(r.Context(), id, body.Trigger, body.Args...)
	if err != nil {
		var invalid *domain.InvalidTriggerError
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			http.Error(w, "Session not found", http.StatusNotFound)
		case errors.As(err, &invalid):
			http.Error(w, invalid.Error(), http.StatusConflict)
		default:
			http.Error(w, "Failed to fire trigger", http.StatusInternalServerError)
			s.logger.Error("fire failed", "err", err, "session_id", id, "trigger", body.Trigger)
		}
		return
	}
	s.writeJSON(w, http.StatusOK, fireResponse{Fired: fired, State: snap.Current})
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	states := s.states.States()
	out := make([]stateInfo, 0, len(states))
	for _, st := range states {
		out = append(out, stateInfo{
			Name:  st.Name(),
			Level: st.Level(),
			Leaf:  st.IsLeaf(),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
