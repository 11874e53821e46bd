// Package server exposes the HTTP API consumed by the desktop client.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/user/verseflow/internal/project"
	"github.com/user/verseflow/internal/section"
	"github.com/user/verseflow/internal/session"
	"github.com/user/verseflow/internal/suggestion"
	"github.com/user/verseflow/internal/types"
	"github.com/user/verseflow/pkg/llm"
)

// Server is the HTTP boundary the local client talks to.
type Server struct {
	sessions *session.Store
	sections *section.Engine
	pipeline *suggestion.Pipeline
	projects *project.Store
	provider llm.Provider
	mux      *http.ServeMux
}

// NewServer wires the handler routes over the given collaborators.
func NewServer(sessions *session.Store, sections *section.Engine, pipeline *suggestion.Pipeline, projects *project.Store, provider llm.Provider) *Server {
	s := &Server{
		sessions: sessions,
		sections: sections,
		pipeline: pipeline,
		projects: projects,
		provider: provider,
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /sessions", s.handleCreateSession)
	s.mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	s.mux.HandleFunc("DELETE /sessions/{id}", s.handleEndSession)
	s.mux.HandleFunc("PATCH /sessions/{id}/metadata", s.handleUpdateMetadata)
	s.mux.HandleFunc("POST /sessions/{id}/history/flush", s.handleFlushHistory)
	s.mux.HandleFunc("POST /sessions/{id}/reinitialize", s.handleReinitialize)
	s.mux.HandleFunc("PUT /sessions/{id}/music", s.handleSetMusic)

	s.mux.HandleFunc("GET /sessions/{id}/sections", s.handleListSections)
	s.mux.HandleFunc("POST /sessions/{id}/sections", s.handleAddSection)
	s.mux.HandleFunc("PUT /sessions/{id}/sections/order", s.handleReorderSections)
	s.mux.HandleFunc("PATCH /sessions/{id}/sections/{sectionID}", s.handleUpdateSection)
	s.mux.HandleFunc("DELETE /sessions/{id}/sections/{sectionID}", s.handleDeleteSection)
	s.mux.HandleFunc("POST /sessions/{id}/sections/{sectionID}/duplicate", s.handleDuplicateSection)

	s.mux.HandleFunc("GET /sessions/{id}/messages", s.handleListMessages)
	s.mux.HandleFunc("POST /sessions/{id}/messages", s.handleSendMessage)
	s.mux.HandleFunc("POST /sessions/{id}/messages/stream", s.handleSendMessageStream)

	s.mux.HandleFunc("GET /sessions/{id}/suggestions", s.handleListSuggestions)
	s.mux.HandleFunc("POST /sessions/{id}/suggestions", s.handleCreateSuggestion)
	s.mux.HandleFunc("POST /sessions/{id}/suggestions/{suggestionID}/apply", s.handleApplySuggestion)
	s.mux.HandleFunc("POST /sessions/{id}/suggestions/{suggestionID}/reject", s.handleRejectSuggestion)

	s.mux.HandleFunc("GET /projects", s.handleListProjects)
	s.mux.HandleFunc("POST /projects", s.handleCreateProject)
	s.mux.HandleFunc("GET /projects/{id}", s.handleGetProject)
	s.mux.HandleFunc("PUT /projects/{id}", s.handleSaveProject)
	s.mux.HandleFunc("DELETE /projects/{id}", s.handleDeleteProject)
	s.mux.HandleFunc("GET /projects/{id}/export", s.handleExportProject)

	return s
}

// ServeHTTP delegates to the internal mux, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto status codes: entity-missing is
// 404, caller misuse is 400, model trouble is 503 with a human-readable
// hint, anything else is 500.
func writeError(w http.ResponseWriter, err error) {
	var stateErr *types.StateError
	switch {
	case types.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.As(err, &stateErr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case types.IsModelError(err):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": err.Error(),
			"hint":  "check that the local model server is running and the configured model is pulled",
		})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"model_reachable": s.provider.TestConnection(r.Context()),
	})
}
