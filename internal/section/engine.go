// Package section implements ordered CRUD over a session's lyric sections.
package section

import (
	"github.com/user/verseflow/internal/session"
	"github.com/user/verseflow/internal/types"
)

// copySuffix is appended to a duplicated section's label.
const copySuffix = " (Copy)"

// UpdatePatch carries the fields of an Update call. Nil fields are left
// untouched.
type UpdatePatch struct {
	Label   *string
	Content *string
}

// Engine performs all section mutations for a session store. Section type is
// deliberately not validated against the known set here; creative freedom is
// a product requirement, and only the UI constrains the picker.
type Engine struct {
	sessions *session.Store
}

// NewEngine creates a section engine over the given session store.
func NewEngine(sessions *session.Store) *Engine {
	return &Engine{sessions: sessions}
}

// Add appends a new section to the end of the session's timeline and returns
// a copy of it.
func (e *Engine) Add(sessionID types.SessionID, typ types.SectionType, label, content string) (*types.Section, error) {
	sec := &types.Section{
		ID:      types.NewSectionID(),
		Type:    typ,
		Label:   label,
		Content: content,
	}
	err := e.sessions.Mutate(sessionID, func(sess *types.Session) error {
		sess.Sections = append(sess.Sections, sec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sec.Clone(), nil
}

// Update merges the patch into the section in place and returns a copy of
// the updated section.
func (e *Engine) Update(sessionID types.SessionID, sectionID types.SectionID, patch UpdatePatch) (*types.Section, error) {
	var updated *types.Section
	err := e.sessions.Mutate(sessionID, func(sess *types.Session) error {
		sec := findSection(sess, sectionID)
		if sec == nil {
			return &types.SectionNotFoundError{SessionID: sessionID, ID: sectionID}
		}
		if patch.Label != nil {
			sec.Label = *patch.Label
		}
		if patch.Content != nil {
			sec.Content = *patch.Content
		}
		updated = sec.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the section from the session's timeline.
func (e *Engine) Delete(sessionID types.SessionID, sectionID types.SectionID) error {
	return e.sessions.Mutate(sessionID, func(sess *types.Session) error {
		for i, sec := range sess.Sections {
			if sec.ID == sectionID {
				sess.Sections = append(sess.Sections[:i], sess.Sections[i+1:]...)
				return nil
			}
		}
		return &types.SectionNotFoundError{SessionID: sessionID, ID: sectionID}
	})
}

// Reorder replaces the session's section order with the given one. The input
// must be a total permutation of the current identifiers: a cardinality
// mismatch or repeated identifier is a StateError, an identifier the session
// doesn't own is a SectionNotFoundError. A rejected reorder leaves the prior
// order intact.
func (e *Engine) Reorder(sessionID types.SessionID, orderedIDs []types.SectionID) ([]*types.Section, error) {
	var reordered []*types.Section
	err := e.sessions.Mutate(sessionID, func(sess *types.Session) error {
		if len(orderedIDs) != len(sess.Sections) {
			return &types.StateError{
				Op:     "reorder sections",
				Reason: "ordered identifier list must contain every section exactly once",
			}
		}

		byID := make(map[types.SectionID]*types.Section, len(sess.Sections))
		for _, sec := range sess.Sections {
			byID[sec.ID] = sec
		}

		next := make([]*types.Section, 0, len(orderedIDs))
		seen := make(map[types.SectionID]bool, len(orderedIDs))
		for _, id := range orderedIDs {
			sec, ok := byID[id]
			if !ok {
				return &types.SectionNotFoundError{SessionID: sessionID, ID: id}
			}
			if seen[id] {
				return &types.StateError{
					Op:     "reorder sections",
					Reason: "ordered identifier list must contain every section exactly once",
				}
			}
			seen[id] = true
			next = append(next, sec)
		}

		sess.Sections = next
		for _, sec := range next {
			reordered = append(reordered, sec.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reordered, nil
}

// Duplicate appends an independent copy of the section to the end of the
// timeline, with a fresh identifier and the label suffixed "(Copy)".
func (e *Engine) Duplicate(sessionID types.SessionID, sectionID types.SectionID) (*types.Section, error) {
	var dup *types.Section
	err := e.sessions.Mutate(sessionID, func(sess *types.Session) error {
		src := findSection(sess, sectionID)
		if src == nil {
			return &types.SectionNotFoundError{SessionID: sessionID, ID: sectionID}
		}
		clone := src.Clone()
		clone.ID = types.NewSectionID()
		clone.Label = src.Label + copySuffix
		sess.Sections = append(sess.Sections, clone)
		dup = clone.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dup, nil
}

// List returns the session's sections in timeline order, as defensive copies.
func (e *Engine) List(sessionID types.SessionID) ([]*types.Section, error) {
	var out []*types.Section
	err := e.sessions.View(sessionID, func(sess *types.Session) error {
		out = make([]*types.Section, 0, len(sess.Sections))
		for _, sec := range sess.Sections {
			out = append(out, sec.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func findSection(sess *types.Session, id types.SectionID) *types.Section {
	for _, sec := range sess.Sections {
		if sec.ID == id {
			return sec
		}
	}
	return nil
}
