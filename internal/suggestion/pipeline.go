// Package suggestion orchestrates the conversation and approval workflow.
// The central property of the whole system lives here: model output becomes
// a pending proposal bound to one section, and a section's content changes
// only through the explicit apply call, never as a side effect of
// generation.
package suggestion

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/user/verseflow/internal/prompt"
	"github.com/user/verseflow/internal/section"
	"github.com/user/verseflow/internal/session"
	"github.com/user/verseflow/internal/types"
	"github.com/user/verseflow/pkg/llm"
)

// indexEntry is the authoritative record for one suggestion. Conversation
// messages carry only the suggestion ID; status lives here.
type indexEntry struct {
	sessionID  types.SessionID
	suggestion *types.Suggestion
}

// Pipeline wires the session store, section engine, prompt builder, and
// model provider into the send/propose/approve workflow.
type Pipeline struct {
	sessions *session.Store
	sections *section.Engine
	builder  *prompt.Builder
	provider llm.Provider

	mu    sync.Mutex
	index map[types.SuggestionID]*indexEntry
	gates map[types.SessionID]*semaphore.Weighted
}

// NewPipeline creates a pipeline over the given collaborators.
func NewPipeline(sessions *session.Store, sections *section.Engine, builder *prompt.Builder, provider llm.Provider) *Pipeline {
	return &Pipeline{
		sessions: sessions,
		sections: sections,
		builder:  builder,
		provider: provider,
		index:    make(map[types.SuggestionID]*indexEntry),
		gates:    make(map[types.SessionID]*semaphore.Weighted),
	}
}

// gate returns the session's single-slot generation gate, creating it on
// first use. At most one generation may be in flight per session; a second
// one would interleave history appends and corrupt prompt reconstruction.
func (p *Pipeline) gate(id types.SessionID) *semaphore.Weighted {
	p.mu.Lock()
	defer p.mu.Unlock()

	g, ok := p.gates[id]
	if !ok {
		g = semaphore.NewWeighted(1)
		p.gates[id] = g
	}
	return g
}

// SendMessage appends the user's text to history, builds the full-context
// prompt, runs a blocking generation, appends the reply as an assistant
// message, and returns it. Model replies are plain commentary; no suggestion
// is ever extracted from them. On failure the user message remains in
// history and the error propagates untouched.
func (p *Pipeline) SendMessage(ctx context.Context, sessionID types.SessionID, text string) (*types.Message, error) {
	return p.send(ctx, sessionID, text, func(ctx context.Context, built string) (string, error) {
		return p.provider.Generate(ctx, built)
	})
}

// SendMessageStream is SendMessage with a streamed generation: onChunk sees
// every fragment in arrival order while the reply accumulates. On
// cancellation the partial assistant text is discarded, no assistant message
// is appended, and types.ErrGenerationAborted is returned; the history stays
// consistent either way.
func (p *Pipeline) SendMessageStream(ctx context.Context, sessionID types.SessionID, text string, onChunk func(string)) (*types.Message, error) {
	return p.send(ctx, sessionID, text, func(ctx context.Context, built string) (string, error) {
		return p.provider.GenerateStream(ctx, built, onChunk)
	})
}

func (p *Pipeline) send(ctx context.Context, sessionID types.SessionID, text string, generate func(context.Context, string) (string, error)) (*types.Message, error) {
	if _, err := p.sessions.Require(sessionID); err != nil {
		return nil, err
	}

	g := p.gate(sessionID)
	if !g.TryAcquire(1) {
		return nil, &types.StateError{
			Op:     "send message",
			Reason: "a generation is already in flight for this session",
		}
	}
	defer g.Release(1)

	userMsg := &types.Message{
		ID:        types.NewMessageID(),
		Role:      types.RoleUser,
		Content:   text,
		Timestamp: time.Now(),
	}
	err := p.sessions.Mutate(sessionID, func(sess *types.Session) error {
		sess.Messages = append(sess.Messages, userMsg)
		return nil
	})
	if err != nil {
		return nil, err
	}

	snap, err := p.sessions.Require(sessionID)
	if err != nil {
		return nil, err
	}
	built := p.builder.Build(snap)
	slog.Debug("prompt built",
		"session_id", string(sessionID),
		"sections", len(snap.Sections),
		"messages", len(snap.Messages),
		"tokens", p.builder.TokenCount(built),
	)

	reply, err := generate(ctx, built)
	if err != nil {
		return nil, err
	}

	assistantMsg := &types.Message{
		ID:        types.NewMessageID(),
		Role:      types.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now(),
	}
	err = p.sessions.Mutate(sessionID, func(sess *types.Session) error {
		sess.Messages = append(sess.Messages, assistantMsg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assistantMsg.Clone(), nil
}

// Create is the explicit construction path for a suggestion: a higher layer
// decided some text constitutes an actionable proposal for one section. The
// target section must exist now; it may be deleted later, in which case
// Apply fails while the suggestion stays pending. The announcing assistant
// message carries only the suggestion's ID.
func (p *Pipeline) Create(sessionID types.SessionID, sectionID types.SectionID, originalContent, suggestedContent string) (*types.Suggestion, error) {
	err := p.sessions.View(sessionID, func(sess *types.Session) error {
		for _, sec := range sess.Sections {
			if sec.ID == sectionID {
				return nil
			}
		}
		return &types.SectionNotFoundError{SessionID: sessionID, ID: sectionID}
	})
	if err != nil {
		return nil, err
	}

	sugg := &types.Suggestion{
		ID:               types.NewSuggestionID(),
		SectionID:        sectionID,
		OriginalContent:  originalContent,
		SuggestedContent: suggestedContent,
		Status:           types.SuggestionPending,
		CreatedAt:        time.Now(),
	}

	p.mu.Lock()
	p.index[sugg.ID] = &indexEntry{sessionID: sessionID, suggestion: sugg}
	p.mu.Unlock()

	announce := &types.Message{
		ID:           types.NewMessageID(),
		Role:         types.RoleAssistant,
		Content:      suggestedContent,
		Timestamp:    time.Now(),
		SuggestionID: sugg.ID,
	}
	err = p.sessions.Mutate(sessionID, func(sess *types.Session) error {
		sess.Messages = append(sess.Messages, announce)
		return nil
	})
	if err != nil {
		// Session vanished between the check and the append; drop the
		// orphaned index entry.
		p.mu.Lock()
		delete(p.index, sugg.ID)
		p.mu.Unlock()
		return nil, err
	}

	return sugg.Clone(), nil
}

// Apply makes a pending suggestion take effect, replacing the target
// section's content with the suggested text. This is the only code path
// through which a suggestion mutates lyrics. The transition to applied is
// terminal.
func (p *Pipeline) Apply(sessionID types.SessionID, suggestionID types.SuggestionID) (*types.Section, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.index[suggestionID]
	if !ok || entry.sessionID != sessionID {
		return nil, &types.SuggestionNotFoundError{SessionID: sessionID, ID: suggestionID}
	}
	if entry.suggestion.Status != types.SuggestionPending {
		return nil, &types.StateError{
			Op:     "apply suggestion",
			Reason: "suggestion is " + string(entry.suggestion.Status) + ", not pending",
		}
	}

	sec, err := p.sections.Update(sessionID, entry.suggestion.SectionID, section.UpdatePatch{
		Content: &entry.suggestion.SuggestedContent,
	})
	if err != nil {
		// Target section gone or session ended; the suggestion stays pending.
		return nil, err
	}

	entry.suggestion.Status = types.SuggestionApplied
	return sec, nil
}

// Reject marks a pending suggestion rejected. No section is touched. The
// transition is terminal.
func (p *Pipeline) Reject(sessionID types.SessionID, suggestionID types.SuggestionID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.index[suggestionID]
	if !ok || entry.sessionID != sessionID {
		return &types.SuggestionNotFoundError{SessionID: sessionID, ID: suggestionID}
	}
	if entry.suggestion.Status != types.SuggestionPending {
		return &types.StateError{
			Op:     "reject suggestion",
			Reason: "suggestion is " + string(entry.suggestion.Status) + ", not pending",
		}
	}

	entry.suggestion.Status = types.SuggestionRejected
	return nil
}

// Pending returns the session's pending suggestions in the order their
// announcing messages appear in history.
func (p *Pipeline) Pending(sessionID types.SessionID) ([]*types.Suggestion, error) {
	var ids []types.SuggestionID
	err := p.sessions.View(sessionID, func(sess *types.Session) error {
		for _, msg := range sess.Messages {
			if msg.SuggestionID != "" {
				ids = append(ids, msg.SuggestionID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var pending []*types.Suggestion
	for _, id := range ids {
		entry, ok := p.index[id]
		if !ok || entry.sessionID != sessionID {
			continue
		}
		if entry.suggestion.Status == types.SuggestionPending {
			pending = append(pending, entry.suggestion.Clone())
		}
	}
	return pending, nil
}

// CleanupSession removes every index entry and the generation gate for the
// session. Must run with session teardown so no dangling lookups remain.
func (p *Pipeline) CleanupSession(sessionID types.SessionID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, entry := range p.index {
		if entry.sessionID == sessionID {
			delete(p.index, id)
		}
	}
	delete(p.gates, sessionID)
}
