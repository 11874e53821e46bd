// Package project provides the durable side of the system: one JSON file per
// song project. Sessions stay in memory; this store is what survives a
// restart.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/user/verseflow/internal/types"
)

// Store is a directory of <project-id>.json files.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore creates a project store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(id types.ProjectID) string {
	return filepath.Join(s.dir, string(id)+".json")
}

// Create allocates a new project with the given name and metadata and writes
// it to disk.
func (s *Store) Create(name string, meta types.SessionMetadata) (*types.Project, error) {
	now := time.Now()
	p := &types.Project{
		ID:        types.NewProjectID(),
		Name:      name,
		Metadata:  meta,
		Sections:  []*types.Section{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.write(p); err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// Save writes the project to disk, bumping UpdatedAt.
func (s *Store) Save(p *types.Project) error {
	p.UpdatedAt = time.Now()
	return s.write(p)
}

// write marshals with indentation and writes atomically: temp file, then
// rename.
func (s *Store) write(p *types.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create projects dir: %w", err)
	}

	path := s.path(p.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp project: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp project: %w", err)
	}
	return nil
}

// Load reads one project by ID.
func (s *Store) Load(id types.ProjectID) (*types.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &types.ProjectNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("read project: %w", err)
	}

	var p types.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal project %s: %w", id, err)
	}
	return &p, nil
}

// List reads every project in the directory, newest update first. Files that
// fail to parse are skipped rather than failing the listing.
func (s *Store) List() ([]*types.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*types.Project{}, nil
		}
		return nil, fmt.Errorf("read projects dir: %w", err)
	}

	projects := make([]*types.Project, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		var p types.Project
		if err := json.Unmarshal(data, &p); err != nil {
			continue
		}
		projects = append(projects, &p)
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].UpdatedAt.After(projects[j].UpdatedAt)
	})
	return projects, nil
}

// Delete removes the project's file.
func (s *Store) Delete(id types.ProjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return &types.ProjectNotFoundError{ID: id}
		}
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
