package server

import (
	"net/http"

	"github.com/user/verseflow/internal/session"
	"github.com/user/verseflow/internal/types"
)

// createSessionRequest is the JSON body for POST /sessions. When a project
// ID is given, the session is seeded from the project file and bound to it
// for autosave.
type createSessionRequest struct {
	ProjectID types.ProjectID       `json:"project_id,omitempty"`
	Metadata  types.SessionMetadata `json:"metadata"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.ProjectID == "" {
		sess := s.sessions.Create(req.Metadata)
		writeJSON(w, http.StatusCreated, sess)
		return
	}

	p, err := s.projects.Load(req.ProjectID)
	if err != nil {
		writeError(w, err)
		return
	}

	sess := s.sessions.Create(p.Metadata)
	err = s.sessions.Mutate(sess.ID, func(live *types.Session) error {
		live.ProjectID = p.ID
		live.Music = p.Music.Clone()
		for _, sec := range p.Sections {
			live.Sections = append(live.Sections, sec.Clone())
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	seeded, err := s.sessions.Require(sess.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, seeded)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Require(types.SessionID(r.PathValue("id")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := types.SessionID(r.PathValue("id"))

	// Index entries must go before the session itself so no dangling
	// suggestion lookups remain.
	s.pipeline.CleanupSession(id)
	if !s.sessions.End(id) {
		writeError(w, &types.SessionNotFoundError{ID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// updateMetadataRequest uses pointers so absent fields stay untouched.
type updateMetadataRequest struct {
	Genre          *string `json:"genre,omitempty"`
	Mood           *string `json:"mood,omitempty"`
	StyleReference *string `json:"style_reference,omitempty"`
}

func (s *Server) handleUpdateMetadata(w http.ResponseWriter, r *http.Request) {
	id := types.SessionID(r.PathValue("id"))

	var req updateMetadataRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := s.sessions.UpdateMetadata(id, session.MetadataPatch{
		Genre:          req.Genre,
		Mood:           req.Mood,
		StyleReference: req.StyleReference,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	sess, err := s.sessions.Require(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Metadata)
}

func (s *Server) handleFlushHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.FlushHistory(types.SessionID(r.PathValue("id"))); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reinitializeRequest struct {
	Metadata types.SessionMetadata `json:"metadata"`
}

func (s *Server) handleReinitialize(w http.ResponseWriter, r *http.Request) {
	id := types.SessionID(r.PathValue("id"))

	var req reinitializeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.sessions.Reinitialize(id, req.Metadata); err != nil {
		writeError(w, err)
		return
	}

	sess, err := s.sessions.Require(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleSetMusic(w http.ResponseWriter, r *http.Request) {
	id := types.SessionID(r.PathValue("id"))

	var music *types.MusicContext
	if !decodeBody(w, r, &music) {
		return
	}

	if err := s.sessions.SetMusicContext(id, music); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
