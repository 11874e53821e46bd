package prompt

import (
	"strings"
	"testing"

	"github.com/user/verseflow/internal/types"
)

func sampleSession() *types.Session {
	return &types.Session{
		ID: types.NewSessionID(),
		Metadata: types.SessionMetadata{
			Genre:          "folk",
			Mood:           "wistful",
			StyleReference: "early Dylan",
		},
		Music: &types.MusicContext{
			Key:   "E minor",
			Tempo: 92,
			Progressions: []*types.ChordProgression{
				{ID: "prog-1", Chords: []string{"Em", "C", "G", "D"}},
			},
		},
		Sections: []*types.Section{
			{ID: "sec-1", Type: types.SectionVerse, Label: "Verse 1", Content: "first line\nsecond line", Status: types.StatusWorking, ProgressionID: "prog-1"},
			{ID: "sec-2", Type: types.SectionChorus, Label: "Chorus", Content: ""},
		},
		Messages: []*types.Message{
			{ID: "msg-1", Role: types.RoleUser, Content: "make verse 1 sadder"},
			{ID: "msg-2", Role: types.RoleAssistant, Content: "Here is a sadder take."},
		},
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	b := NewBuilder()
	sess := sampleSession()

	first := b.Build(sess)
	second := b.Build(sess)
	if first != second {
		t.Error("identical session state must produce identical prompts")
	}
}

func TestBuildContainsAllParts(t *testing.T) {
	b := NewBuilder()
	out := b.Build(sampleSession())

	if !strings.HasPrefix(out, Preamble) {
		t.Error("prompt must open with the preamble")
	}
	if strings.Count(out, Preamble) != 1 {
		t.Error("preamble must appear exactly once")
	}
	for _, want := range []string{
		"## Song Context",
		"Genre: folk",
		"Mood: wistful",
		"Style reference: early Dylan",
		"## Music Context",
		"Key: E minor",
		"Tempo: 92 BPM",
		"## Timeline",
		`1. verse — "Verse 1" [working]`,
		"Chords: Em C G D",
		"first line",
		"second line",
		`2. chorus — "Chorus"`,
		"## Conversation",
		"User: make verse 1 sadder",
		"Assistant: Here is a sadder take.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("prompt missing %q\n%s", want, out)
		}
	}
}

func TestBuildMarksEmptySections(t *testing.T) {
	b := NewBuilder()
	out := b.Build(sampleSession())

	if !strings.Contains(out, emptyMarker) {
		t.Errorf("empty section must render the %q marker", emptyMarker)
	}
}

func TestBuildOmitsAbsentMusicContext(t *testing.T) {
	b := NewBuilder()
	sess := sampleSession()
	sess.Music = nil
	for _, sec := range sess.Sections {
		sec.ProgressionID = ""
	}

	out := b.Build(sess)
	if strings.Contains(out, "## Music Context") {
		t.Error("music context block must be omitted when unset")
	}
}

func TestBuildOmitsEmptyStyleReference(t *testing.T) {
	b := NewBuilder()
	sess := sampleSession()
	sess.Metadata.StyleReference = ""

	out := b.Build(sess)
	if strings.Contains(out, "Style reference:") {
		t.Error("style reference line must be omitted when unset")
	}
}

func TestBuildPreservesHistoryOrder(t *testing.T) {
	b := NewBuilder()
	sess := sampleSession()
	sess.Messages = []*types.Message{
		{Role: types.RoleUser, Content: "alpha"},
		{Role: types.RoleAssistant, Content: "beta"},
		{Role: types.RoleUser, Content: "gamma"},
	}

	out := b.Build(sess)
	a := strings.Index(out, "User: alpha")
	bIdx := strings.Index(out, "Assistant: beta")
	c := strings.Index(out, "User: gamma")
	if a < 0 || bIdx < 0 || c < 0 || !(a < bIdx && bIdx < c) {
		t.Error("conversation must render in chronological order")
	}
}

func TestBuildEndsWithCue(t *testing.T) {
	b := NewBuilder()
	out := b.Build(sampleSession())

	if !strings.HasSuffix(out, cue+" ") {
		t.Errorf("prompt must end with the assistant cue, got tail %q", out[len(out)-20:])
	}
}

func TestBuildEmptyTimeline(t *testing.T) {
	b := NewBuilder()
	sess := sampleSession()
	sess.Sections = nil

	out := b.Build(sess)
	if !strings.Contains(out, "(no sections yet)") {
		t.Error("empty timeline must be marked explicitly")
	}
}

func TestTokenCountPositive(t *testing.T) {
	b := NewBuilder()

	if got := b.TokenCount("a handful of plain english words"); got <= 0 {
		t.Errorf("expected a positive token count, got %d", got)
	}
	if got := b.TokenCount(""); got != 0 {
		t.Errorf("expected zero tokens for empty text, got %d", got)
	}
}
