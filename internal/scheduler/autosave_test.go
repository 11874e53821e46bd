package scheduler

import (
	"testing"

	"github.com/user/verseflow/internal/project"
	"github.com/user/verseflow/internal/session"
	"github.com/user/verseflow/internal/types"
)

func TestSweepSavesBoundSessions(t *testing.T) {
	sessions := session.NewStore()
	projects := project.NewStore(t.TempDir())

	p, err := projects.Create("Midnight Train", types.SessionMetadata{Genre: "folk"})
	if err != nil {
		t.Fatal(err)
	}

	sess := sessions.Create(types.SessionMetadata{Genre: "folk", Mood: "wistful"})
	if err := sessions.BindProject(sess.ID, p.ID); err != nil {
		t.Fatal(err)
	}
	sessions.Mutate(sess.ID, func(s *types.Session) error {
		s.Sections = append(s.Sections, &types.Section{
			ID: types.NewSectionID(), Type: types.SectionVerse, Label: "Verse 1", Content: "autosaved lines",
		})
		s.Music = &types.MusicContext{Key: "E minor", Tempo: 92}
		return nil
	})

	NewAutosave(sessions, projects, "@every 1h").sweep()

	saved, err := projects.Load(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(saved.Sections) != 1 || saved.Sections[0].Content != "autosaved lines" {
		t.Errorf("sections not swept to disk: %+v", saved.Sections)
	}
	if saved.Metadata.Mood != "wistful" {
		t.Errorf("metadata not swept to disk: %+v", saved.Metadata)
	}
	if saved.Music == nil || saved.Music.Key != "E minor" {
		t.Errorf("music context not swept to disk: %+v", saved.Music)
	}
}

func TestSweepSkipsUnboundSessions(t *testing.T) {
	sessions := session.NewStore()
	dir := t.TempDir()
	projects := project.NewStore(dir)

	sessions.Create(types.SessionMetadata{})

	NewAutosave(sessions, projects, "@every 1h").sweep()

	listed, err := projects.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 0 {
		t.Errorf("unbound sessions must never create project files, got %+v", listed)
	}
}

func TestSweepSurvivesMissingProject(t *testing.T) {
	sessions := session.NewStore()
	projects := project.NewStore(t.TempDir())

	sess := sessions.Create(types.SessionMetadata{})
	if err := sessions.BindProject(sess.ID, types.NewProjectID()); err != nil {
		t.Fatal(err)
	}

	// Must not panic or write anything; the failure is logged and skipped.
	NewAutosave(sessions, projects, "@every 1h").sweep()

	listed, _ := projects.List()
	if len(listed) != 0 {
		t.Errorf("a dangling binding must not create a project, got %+v", listed)
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	a := NewAutosave(session.NewStore(), project.NewStore(t.TempDir()), "not a schedule")
	if err := a.Start(); err == nil {
		a.Stop()
		t.Fatal("expected an error for an unparsable schedule")
	}
}

func TestStartAndStop(t *testing.T) {
	a := NewAutosave(session.NewStore(), project.NewStore(t.TempDir()), "@every 1h")
	if err := a.Start(); err != nil {
		t.Fatal(err)
	}
	a.Stop()
}
