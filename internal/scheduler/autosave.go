// Package scheduler runs the periodic autosave sweep.
package scheduler

import (
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/user/verseflow/internal/project"
	"github.com/user/verseflow/internal/session"
)

// cronParser accepts both standard 5-field cron expressions and 6-field
// expressions with an optional seconds field, plus descriptors like
// "@every 30s".
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Autosave periodically snapshots project-bound sessions back to their
// project files. Sessions without a project binding are purely ephemeral and
// are left alone. Failures are logged and never propagate; the next sweep
// retries naturally.
type Autosave struct {
	sessions *session.Store
	projects *project.Store
	schedule string
	cron     *cron.Cron
}

// NewAutosave creates an autosave sweeper firing on the given cron schedule.
func NewAutosave(sessions *session.Store, projects *project.Store, schedule string) *Autosave {
	return &Autosave{
		sessions: sessions,
		projects: projects,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// Start registers the sweep and starts the cron ticker.
func (a *Autosave) Start() error {
	if _, err := a.cron.AddFunc(a.schedule, a.sweep); err != nil {
		return err
	}
	a.cron.Start()
	slog.Info("autosave started", "schedule", a.schedule)
	return nil
}

// Stop stops the cron ticker.
func (a *Autosave) Stop() {
	a.cron.Stop()
}

// sweep writes each bound session's sections, metadata, and music context
// back to its project file.
func (a *Autosave) sweep() {
	for _, sess := range a.sessions.List() {
		if sess.ProjectID == "" {
			continue
		}

		p, err := a.projects.Load(sess.ProjectID)
		if err != nil {
			slog.Warn("autosave skipped session", "session_id", string(sess.ID), "project_id", string(sess.ProjectID), "error", err)
			continue
		}

		p.Sections = sess.Sections
		p.Metadata = sess.Metadata
		p.Music = sess.Music
		if err := a.projects.Save(p); err != nil {
			slog.Warn("autosave failed", "project_id", string(p.ID), "error", err)
			continue
		}
		slog.Debug("autosaved project", "project_id", string(p.ID), "sections", len(p.Sections))
	}
}
