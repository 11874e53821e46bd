package server

import (
	"net/http"

	"github.com/user/verseflow/internal/types"
)

func (s *Server) handleListSuggestions(w http.ResponseWriter, r *http.Request) {
	pending, err := s.pipeline.Pending(types.SessionID(r.PathValue("id")))
	if err != nil {
		writeError(w, err)
		return
	}
	if pending == nil {
		pending = []*types.Suggestion{}
	}
	writeJSON(w, http.StatusOK, pending)
}

// createSuggestionRequest is the explicit construction path. When the
// original content is omitted, the section's current content is snapshotted
// for the diff display.
type createSuggestionRequest struct {
	SectionID        types.SectionID `json:"section_id"`
	OriginalContent  *string         `json:"original_content,omitempty"`
	SuggestedContent string          `json:"suggested_content"`
}

func (s *Server) handleCreateSuggestion(w http.ResponseWriter, r *http.Request) {
	id := types.SessionID(r.PathValue("id"))

	var req createSuggestionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.SectionID == "" || req.SuggestedContent == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "section_id and suggested_content are required"})
		return
	}

	original := ""
	if req.OriginalContent != nil {
		original = *req.OriginalContent
	} else {
		sess, err := s.sessions.Require(id)
		if err != nil {
			writeError(w, err)
			return
		}
		for _, sec := range sess.Sections {
			if sec.ID == req.SectionID {
				original = sec.Content
				break
			}
		}
	}

	sugg, err := s.pipeline.Create(id, req.SectionID, original, req.SuggestedContent)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sugg)
}

func (s *Server) handleApplySuggestion(w http.ResponseWriter, r *http.Request) {
	sec, err := s.pipeline.Apply(
		types.SessionID(r.PathValue("id")),
		types.SuggestionID(r.PathValue("suggestionID")),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sec)
}

func (s *Server) handleRejectSuggestion(w http.ResponseWriter, r *http.Request) {
	err := s.pipeline.Reject(
		types.SessionID(r.PathValue("id")),
		types.SuggestionID(r.PathValue("suggestionID")),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
