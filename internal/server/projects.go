package server

import (
	"fmt"
	"net/http"

	"github.com/user/verseflow/internal/export"
	"github.com/user/verseflow/internal/types"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

type createProjectRequest struct {
	Name     string                `json:"name"`
	Metadata types.SessionMetadata `json:"metadata"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	p, err := s.projects.Create(req.Name, req.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.projects.Load(types.ProjectID(r.PathValue("id")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSaveProject(w http.ResponseWriter, r *http.Request) {
	id := types.ProjectID(r.PathValue("id"))

	// The file must already exist; PUT updates, POST creates.
	existing, err := s.projects.Load(id)
	if err != nil {
		writeError(w, err)
		return
	}

	var p types.Project
	if !decodeBody(w, r, &p) {
		return
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt

	if err := s.projects.Save(&p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.projects.Delete(types.ProjectID(r.PathValue("id"))); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.projects.Load(types.ProjectID(r.PathValue("id")))
	if err != nil {
		writeError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "md"
	}
	exporter, err := export.NewExporter(format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", p.Name+"."+exporter.Extension()))
	if err := exporter.Export(p, w); err != nil {
		writeError(w, err)
	}
}
