package server

import (
	"net/http"

	"github.com/user/verseflow/internal/section"
	"github.com/user/verseflow/internal/types"
)

func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	secs, err := s.sections.List(types.SessionID(r.PathValue("id")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, secs)
}

type addSectionRequest struct {
	Type    types.SectionType `json:"type"`
	Label   string            `json:"label"`
	Content string            `json:"content"`
}

func (s *Server) handleAddSection(w http.ResponseWriter, r *http.Request) {
	var req addSectionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sec, err := s.sections.Add(types.SessionID(r.PathValue("id")), req.Type, req.Label, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sec)
}

// updateSectionRequest uses pointers so absent fields stay untouched.
type updateSectionRequest struct {
	Label   *string `json:"label,omitempty"`
	Content *string `json:"content,omitempty"`
}

func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	var req updateSectionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sec, err := s.sections.Update(
		types.SessionID(r.PathValue("id")),
		types.SectionID(r.PathValue("sectionID")),
		section.UpdatePatch{Label: req.Label, Content: req.Content},
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sec)
}

func (s *Server) handleDeleteSection(w http.ResponseWriter, r *http.Request) {
	err := s.sections.Delete(
		types.SessionID(r.PathValue("id")),
		types.SectionID(r.PathValue("sectionID")),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	OrderedIDs []types.SectionID `json:"ordered_ids"`
}

func (s *Server) handleReorderSections(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	secs, err := s.sections.Reorder(types.SessionID(r.PathValue("id")), req.OrderedIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, secs)
}

func (s *Server) handleDuplicateSection(w http.ResponseWriter, r *http.Request) {
	sec, err := s.sections.Duplicate(
		types.SessionID(r.PathValue("id")),
		types.SectionID(r.PathValue("sectionID")),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sec)
}
