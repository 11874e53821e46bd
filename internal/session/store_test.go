package session

import (
	"errors"
	"testing"

	"github.com/user/verseflow/internal/types"
)

func TestCreateDefaultsMetadata(t *testing.T) {
	store := NewStore()
	sess := store.Create(types.SessionMetadata{})

	if sess.ID == "" {
		t.Fatal("expected a generated session ID")
	}
	if sess.Metadata.Genre != "unspecified" || sess.Metadata.Mood != "unspecified" {
		t.Errorf("expected placeholder metadata, got %+v", sess.Metadata)
	}
	if sess.Sections == nil || len(sess.Sections) != 0 {
		t.Errorf("expected empty section list, got %v", sess.Sections)
	}
	if sess.Messages == nil || len(sess.Messages) != 0 {
		t.Errorf("expected empty history, got %v", sess.Messages)
	}
}

func TestCreateKeepsGivenMetadata(t *testing.T) {
	store := NewStore()
	sess := store.Create(types.SessionMetadata{Genre: "folk", Mood: "wistful", StyleReference: "early Dylan"})

	if sess.Metadata.Genre != "folk" || sess.Metadata.Mood != "wistful" || sess.Metadata.StyleReference != "early Dylan" {
		t.Errorf("metadata not stored as given: %+v", sess.Metadata)
	}
}

func TestGetReturnsSnapshot(t *testing.T) {
	store := NewStore()
	sess := store.Create(types.SessionMetadata{Genre: "folk"})

	snap, ok := store.Get(sess.ID)
	if !ok {
		t.Fatal("expected session to exist")
	}
	snap.Metadata.Genre = "metal"

	again, _ := store.Get(sess.ID)
	if again.Metadata.Genre != "folk" {
		t.Error("mutating a snapshot must not affect store state")
	}
}

func TestEndThenGetNotFound(t *testing.T) {
	store := NewStore()
	sess := store.Create(types.SessionMetadata{})

	if !store.End(sess.ID) {
		t.Fatal("expected End to report the session existed")
	}
	if _, ok := store.Get(sess.ID); ok {
		t.Error("expected session to be gone after End")
	}
	if store.End(sess.ID) {
		t.Error("expected second End to report not found")
	}
}

func TestEndClearsRetainedReference(t *testing.T) {
	store := NewStore()
	sess := store.Create(types.SessionMetadata{})

	var live *types.Session
	store.Mutate(sess.ID, func(s *types.Session) error {
		s.Sections = append(s.Sections, &types.Section{ID: types.NewSectionID(), Type: types.SectionVerse})
		live = s
		return nil
	})

	store.End(sess.ID)
	if len(live.Sections) != 0 || len(live.Messages) != 0 {
		t.Error("End must clear collections so stale references observe empty state")
	}
}

func TestRequireUnknownSession(t *testing.T) {
	store := NewStore()

	_, err := store.Require("no-such-session")
	var notFound *types.SessionNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected SessionNotFoundError, got %v", err)
	}
	if !types.IsNotFound(err) {
		t.Error("expected IsNotFound to report true")
	}
}

func TestUpdateMetadataMergesPartial(t *testing.T) {
	store := NewStore()
	sess := store.Create(types.SessionMetadata{Genre: "folk", Mood: "wistful"})

	mood := "defiant"
	if err := store.UpdateMetadata(sess.ID, MetadataPatch{Mood: &mood}); err != nil {
		t.Fatal(err)
	}

	got, _ := store.Get(sess.ID)
	if got.Metadata.Genre != "folk" {
		t.Error("unpatched field must survive the merge")
	}
	if got.Metadata.Mood != "defiant" {
		t.Errorf("expected mood %q, got %q", "defiant", got.Metadata.Mood)
	}
}

func TestFlushHistoryLeavesSections(t *testing.T) {
	store := NewStore()
	sess := store.Create(types.SessionMetadata{})
	store.Mutate(sess.ID, func(s *types.Session) error {
		s.Sections = append(s.Sections, &types.Section{ID: types.NewSectionID()})
		s.Messages = append(s.Messages, &types.Message{ID: types.NewMessageID(), Role: types.RoleUser, Content: "hi"})
		return nil
	})

	if err := store.FlushHistory(sess.ID); err != nil {
		t.Fatal(err)
	}

	got, _ := store.Get(sess.ID)
	if len(got.Messages) != 0 {
		t.Error("expected history to be cleared")
	}
	if len(got.Sections) != 1 {
		t.Error("expected sections to survive a flush")
	}
}

func TestReinitializeReplacesMetadataAndHistory(t *testing.T) {
	store := NewStore()
	sess := store.Create(types.SessionMetadata{Genre: "folk", StyleReference: "x"})
	store.Mutate(sess.ID, func(s *types.Session) error {
		s.Messages = append(s.Messages, &types.Message{ID: types.NewMessageID(), Role: types.RoleUser, Content: "hi"})
		return nil
	})

	if err := store.Reinitialize(sess.ID, types.SessionMetadata{Genre: "soul"}); err != nil {
		t.Fatal(err)
	}

	got, _ := store.Get(sess.ID)
	if len(got.Messages) != 0 {
		t.Error("expected history flushed on reinitialize")
	}
	if got.Metadata.Genre != "soul" || got.Metadata.Mood != "unspecified" || got.Metadata.StyleReference != "" {
		t.Errorf("expected metadata replaced wholesale, got %+v", got.Metadata)
	}
}

func TestSetMusicContextReplacesWholesale(t *testing.T) {
	store := NewStore()
	sess := store.Create(types.SessionMetadata{})

	music := &types.MusicContext{Key: "E minor", Tempo: 92}
	if err := store.SetMusicContext(sess.ID, music); err != nil {
		t.Fatal(err)
	}
	music.Key = "C major" // caller's copy, not the store's

	got, _ := store.Get(sess.ID)
	if got.Music == nil || got.Music.Key != "E minor" {
		t.Errorf("expected stored music context to be an independent copy, got %+v", got.Music)
	}

	if err := store.SetMusicContext(sess.ID, nil); err != nil {
		t.Fatal(err)
	}
	got, _ = store.Get(sess.ID)
	if got.Music != nil {
		t.Error("expected nil to clear the music context")
	}
}

func TestResetAll(t *testing.T) {
	store := NewStore()
	a := store.Create(types.SessionMetadata{})
	b := store.Create(types.SessionMetadata{})

	store.ResetAll()

	if _, ok := store.Get(a.ID); ok {
		t.Error("expected all sessions dropped")
	}
	if _, ok := store.Get(b.ID); ok {
		t.Error("expected all sessions dropped")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	store := NewStore()
	a := store.Create(types.SessionMetadata{Genre: "folk"})
	b := store.Create(types.SessionMetadata{Genre: "soul"})

	genre := "metal"
	store.UpdateMetadata(a.ID, MetadataPatch{Genre: &genre})

	gotB, _ := store.Get(b.ID)
	if gotB.Metadata.Genre != "soul" {
		t.Error("mutating one session must not touch another")
	}
}
