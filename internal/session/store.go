// Package session holds the in-memory store for active co-writing sessions.
// Sessions are deliberately ephemeral: nothing here touches disk, and a
// process restart drops every session.
package session

import (
	"sync"
	"time"

	"github.com/user/verseflow/internal/types"
)

// placeholder fills genre/mood when the caller supplies neither; the prompt
// builder always has something to print.
const placeholder = "unspecified"

// MetadataPatch carries the fields of an UpdateMetadata call. Nil fields are
// left untouched.
type MetadataPatch struct {
	Genre          *string
	Mood           *string
	StyleReference *string
}

// Store is the authoritative in-memory map of active sessions. One Store is
// constructed at process start and handed to every component that needs
// session state; there is no ambient global.
type Store struct {
	mu       sync.RWMutex
	sessions map[types.SessionID]*types.Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[types.SessionID]*types.Session)}
}

// Create allocates a session with a fresh identifier, empty section list and
// history, and the given metadata. Missing genre or mood defaults to a
// placeholder. Returns a snapshot of the new session.
func (s *Store) Create(meta types.SessionMetadata) *types.Session {
	if meta.Genre == "" {
		meta.Genre = placeholder
	}
	if meta.Mood == "" {
		meta.Mood = placeholder
	}

	now := time.Now()
	sess := &types.Session{
		ID:        types.NewSessionID(),
		Metadata:  meta,
		Sections:  []*types.Section{},
		Messages:  []*types.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess.Clone()
}

// Get returns a snapshot of the session, or false if the identifier is unknown.
func (s *Store) Get(id types.SessionID) (*types.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return sess.Clone(), true
}

// Require returns a snapshot of the session, or SessionNotFoundError if the
// identifier is unknown. Every component uses this as its precondition check.
func (s *Store) Require(id types.SessionID) (*types.Session, error) {
	sess, ok := s.Get(id)
	if !ok {
		return nil, &types.SessionNotFoundError{ID: id}
	}
	return sess, nil
}

// End clears the session's mutable collections before removing it, so any
// retained external reference observes empty state rather than stale data.
// Returns whether the session existed.
func (s *Store) End(id types.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	sess.Sections = nil
	sess.Messages = nil
	sess.Music = nil
	delete(s.sessions, id)
	return true
}

// UpdateMetadata shallow-merges the patch into the session's metadata.
func (s *Store) UpdateMetadata(id types.SessionID, patch MetadataPatch) error {
	return s.Mutate(id, func(sess *types.Session) error {
		if patch.Genre != nil {
			sess.Metadata.Genre = *patch.Genre
		}
		if patch.Mood != nil {
			sess.Metadata.Mood = *patch.Mood
		}
		if patch.StyleReference != nil {
			sess.Metadata.StyleReference = *patch.StyleReference
		}
		return nil
	})
}

// FlushHistory clears the conversation history only, leaving sections and
// metadata intact. Used when the UI wants the model to forget prior turns
// without destroying the song being edited.
func (s *Store) FlushHistory(id types.SessionID) error {
	return s.Mutate(id, func(sess *types.Session) error {
		sess.Messages = []*types.Message{}
		return nil
	})
}

// Reinitialize flushes history and replaces metadata atomically. Used when
// the UI rebinds a session to a different project context.
func (s *Store) Reinitialize(id types.SessionID, meta types.SessionMetadata) error {
	if meta.Genre == "" {
		meta.Genre = placeholder
	}
	if meta.Mood == "" {
		meta.Mood = placeholder
	}
	return s.Mutate(id, func(sess *types.Session) error {
		sess.Messages = []*types.Message{}
		sess.Metadata = meta
		return nil
	})
}

// SetMusicContext replaces the optional music context wholesale. Passing nil
// clears it.
func (s *Store) SetMusicContext(id types.SessionID, music *types.MusicContext) error {
	return s.Mutate(id, func(sess *types.Session) error {
		sess.Music = music.Clone()
		return nil
	})
}

// BindProject associates the session with a project so the autosave sweep
// can snapshot it back to disk.
func (s *Store) BindProject(id types.SessionID, projectID types.ProjectID) error {
	return s.Mutate(id, func(sess *types.Session) error {
		sess.ProjectID = projectID
		return nil
	})
}

// List returns snapshots of all active sessions.
func (s *Store) List() []*types.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess.Clone())
	}
	return out
}

// Mutate runs fn against the live session under the store's write lock.
// Components that own richer operations (the section engine, the suggestion
// pipeline) build on this so all session mutation shares one locking
// discipline. Fails fast with SessionNotFoundError.
func (s *Store) Mutate(id types.SessionID, fn func(*types.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return &types.SessionNotFoundError{ID: id}
	}
	if err := fn(sess); err != nil {
		return err
	}
	sess.UpdatedAt = time.Now()
	return nil
}

// View runs fn against the live session under the store's read lock. fn must
// not mutate the session or retain references past the call.
func (s *Store) View(id types.SessionID, fn func(*types.Session) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return &types.SessionNotFoundError{ID: id}
	}
	return fn(sess)
}

// ResetAll drops every session. Test harness hook only.
func (s *Store) ResetAll() {
	s.mu.Lock()
	s.sessions = make(map[types.SessionID]*types.Session)
	s.mu.Unlock()
}
