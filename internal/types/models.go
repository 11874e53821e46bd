// Package types holds the core domain model and error taxonomy shared by
// every layer.
package types

import "time"

// SectionType is the structural kind of a lyric section. The set below is
// what the UI offers; the engine accepts any value so writers aren't boxed
// in by the picker.
type SectionType string

const (
	SectionIntro     SectionType = "intro"
	SectionVerse     SectionType = "verse"
	SectionPreChorus SectionType = "pre-chorus"
	SectionChorus    SectionType = "chorus"
	SectionBridge    SectionType = "bridge"
	SectionHook      SectionType = "hook"
	SectionOutro     SectionType = "outro"
)

// SectionStatus is an optional writer-assigned progress tag.
type SectionStatus string

const (
	StatusDraft   SectionStatus = "draft"
	StatusWorking SectionStatus = "working"
	StatusFinal   SectionStatus = "final"
)

// Section is one structural lyric block within a session's timeline.
type Section struct {
	ID            SectionID     `json:"id"`
	Type          SectionType   `json:"type"`
	Label         string        `json:"label"`
	Content       string        `json:"content"`
	Collapsed     bool          `json:"collapsed"`
	Status        SectionStatus `json:"status,omitempty"`
	ProgressionID ProgressionID `json:"progression_id,omitempty"`
}

// Clone returns an independent copy of the section.
func (s *Section) Clone() *Section {
	c := *s
	return &c
}

// MessageRole identifies who authored a conversation message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one turn of a session's conversation history. When the turn
// introduced a suggestion, SuggestionID points at it; the suggestion itself
// lives in the pipeline's index.
type Message struct {
	ID           MessageID    `json:"id"`
	Role         MessageRole  `json:"role"`
	Content      string       `json:"content"`
	Timestamp    time.Time    `json:"timestamp"`
	SuggestionID SuggestionID `json:"suggestion_id,omitempty"`
}

// Clone returns an independent copy of the message.
func (m *Message) Clone() *Message {
	c := *m
	return &c
}

// SuggestionStatus is the approval state of a suggestion. Transitions are
// strictly one-way: pending to applied, or pending to rejected.
type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionApplied  SuggestionStatus = "applied"
	SuggestionRejected SuggestionStatus = "rejected"
)

// Suggestion is a proposed replacement for one section's content. It never
// takes effect on its own; only an explicit apply call mutates the section.
type Suggestion struct {
	ID               SuggestionID     `json:"id"`
	SectionID        SectionID        `json:"section_id"`
	OriginalContent  string           `json:"original_content"`
	SuggestedContent string           `json:"suggested_content"`
	Status           SuggestionStatus `json:"status"`
	CreatedAt        time.Time        `json:"created_at"`
}

// Clone returns an independent copy of the suggestion.
func (s *Suggestion) Clone() *Suggestion {
	c := *s
	return &c
}

// ChordProgression is a named, ordered list of chord symbols. Advisory only;
// nothing validates the symbols musically.
type ChordProgression struct {
	ID     ProgressionID `json:"id"`
	Name   string        `json:"name"`
	Chords []string      `json:"chords"`
}

// Clone returns an independent copy of the progression.
func (p *ChordProgression) Clone() *ChordProgression {
	c := *p
	c.Chords = append([]string(nil), p.Chords...)
	return &c
}

// MusicContext is optional key/tempo/progression metadata that informs
// prompt phrasing but is never enforced.
type MusicContext struct {
	Key          string              `json:"key,omitempty"`
	Tempo        int                 `json:"tempo,omitempty"`
	Progressions []*ChordProgression `json:"progressions,omitempty"`
}

// Clone returns an independent deep copy of the music context.
func (m *MusicContext) Clone() *MusicContext {
	if m == nil {
		return nil
	}
	c := &MusicContext{Key: m.Key, Tempo: m.Tempo}
	for _, p := range m.Progressions {
		c.Progressions = append(c.Progressions, p.Clone())
	}
	return c
}

// Progression returns the progression with the given ID, or nil.
func (m *MusicContext) Progression(id ProgressionID) *ChordProgression {
	if m == nil {
		return nil
	}
	for _, p := range m.Progressions {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// SessionMetadata describes the song being co-written.
type SessionMetadata struct {
	Genre          string `json:"genre"`
	Mood           string `json:"mood"`
	StyleReference string `json:"style_reference,omitempty"`
}

// Session is an ephemeral in-memory collaboration context binding one song's
// sections and one conversation history together. Sessions are never
// persisted; a process restart loses all of them.
type Session struct {
	ID        SessionID       `json:"id"`
	ProjectID ProjectID       `json:"project_id,omitempty"`
	Metadata  SessionMetadata `json:"metadata"`
	Sections  []*Section      `json:"sections"`
	Messages  []*Message      `json:"messages"`
	Music     *MusicContext   `json:"music,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Clone returns an independent deep copy of the session.
func (s *Session) Clone() *Session {
	c := &Session{
		ID:        s.ID,
		ProjectID: s.ProjectID,
		Metadata:  s.Metadata,
		Music:     s.Music.Clone(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	// Empty collections stay non-nil so they serialize as [] rather than null.
	c.Sections = make([]*Section, 0, len(s.Sections))
	for _, sec := range s.Sections {
		c.Sections = append(c.Sections, sec.Clone())
	}
	c.Messages = make([]*Message, 0, len(s.Messages))
	for _, msg := range s.Messages {
		c.Messages = append(c.Messages, msg.Clone())
	}
	return c
}

// Project is the durable form of a song: what the file store reads and
// writes, one JSON file per project.
type Project struct {
	ID           ProjectID       `json:"id"`
	Name         string          `json:"name"`
	Metadata     SessionMetadata `json:"metadata"`
	Sections     []*Section      `json:"sections"`
	ScratchNotes string          `json:"scratch_notes,omitempty"`
	Music        *MusicContext   `json:"music,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Clone returns an independent deep copy of the project.
func (p *Project) Clone() *Project {
	c := &Project{
		ID:           p.ID,
		Name:         p.Name,
		Metadata:     p.Metadata,
		ScratchNotes: p.ScratchNotes,
		Music:        p.Music.Clone(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	c.Sections = make([]*Section, 0, len(p.Sections))
	for _, sec := range p.Sections {
		c.Sections = append(c.Sections, sec.Clone())
	}
	return c
}
