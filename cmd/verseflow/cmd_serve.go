package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/spf13/cobra"

	"github.com/user/verseflow/internal/project"
	"github.com/user/verseflow/internal/prompt"
	"github.com/user/verseflow/internal/scheduler"
	"github.com/user/verseflow/internal/section"
	"github.com/user/verseflow/internal/server"
	"github.com/user/verseflow/internal/session"
	"github.com/user/verseflow/internal/suggestion"
	"github.com/user/verseflow/pkg/llm"
	"github.com/user/verseflow/pkg/llm/ollama"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the verseflow backend",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	if err := os.MkdirAll(cfg.ProjectsDir, 0755); err != nil {
		return fmt.Errorf("create projects dir: %w", err)
	}

	// Stores
	sessions := session.NewStore()
	projects := project.NewStore(cfg.ProjectsDir)

	// Model provider
	provider := ollama.New(&llm.Config{
		BaseURL:        cfg.Model.BaseURL,
		Model:          cfg.Model.Name,
		Temperature:    cfg.Model.Temperature,
		TopP:           cfg.Model.TopP,
		TopK:           cfg.Model.TopK,
		TimeoutSeconds: cfg.Model.TimeoutSeconds,
	})

	// Prompt builder
	builder := prompt.NewBuilder()

	// Engine and pipeline
	sections := section.NewEngine(sessions)
	pipeline := suggestion.NewPipeline(sessions, sections, builder, provider)

	// Autosave
	if cfg.Autosave.Enabled {
		autosave := scheduler.NewAutosave(sessions, projects, cfg.Autosave.Schedule)
		if err := autosave.Start(); err != nil {
			return fmt.Errorf("start autosave: %w", err)
		}
		defer autosave.Stop()
	}

	// HTTP server
	handler := server.NewServer(sessions, sections, pipeline, projects, provider)
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv := &http.Server{Addr: addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("verseflow started",
			"addr", addr,
			"projects_dir", cfg.ProjectsDir,
			"log_level", cfg.LogLevel,
			"model", cfg.Model.Name,
			"model_base_url", cfg.Model.BaseURL,
			"autosave", cfg.Autosave.Enabled,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case sig := <-sigChan:
		slog.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
