package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	LogLevel    string `json:"log_level"`
	ProjectsDir string `json:"projects_dir"`
	Autosave    struct {
		Enabled  bool   `json:"enabled"`
		Schedule string `json:"schedule"`
	} `json:"autosave"`
	Model struct {
		BaseURL        string  `json:"base_url"`
		Name           string  `json:"name"`
		Temperature    float64 `json:"temperature"`
		TopP           float64 `json:"top_p"`
		TopK           int     `json:"top_k"`
		TimeoutSeconds int     `json:"timeout_seconds"`
	} `json:"model"`
}

// Load reads the config file, writing defaults first if it doesn't exist.
// Environment variables take highest precedence: PORT and VERSE_PROJECTS_DIR
// come from the desktop shell that spawns this process, OLLAMA_BASE_URL and
// OLLAMA_MODEL from the user's model setup.
func Load(path string) (*Config, error) {
	home := os.Getenv("HOME")
	cfg := &Config{
		Host:        "127.0.0.1",
		Port:        3001,
		LogLevel:    "info",
		ProjectsDir: filepath.Join(home, ".verseflow", "projects"),
	}
	cfg.Autosave.Enabled = true
	cfg.Autosave.Schedule = "@every 30s"
	cfg.Model.BaseURL = "http://127.0.0.1:11434"
	cfg.Model.Name = "llama3.2"
	cfg.Model.Temperature = 0.8
	cfg.Model.TopP = 0.9
	cfg.Model.TopK = 40
	cfg.Model.TimeoutSeconds = 120

	// Load from file if exists, otherwise write defaults
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := writeDefaults(path, cfg); err != nil {
			return nil, err
		}
	}

	// Override from env (highest precedence)
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Port = n
		}
	}
	if dir := os.Getenv("VERSE_PROJECTS_DIR"); dir != "" {
		cfg.ProjectsDir = dir
	}
	if base := os.Getenv("OLLAMA_BASE_URL"); base != "" {
		cfg.Model.BaseURL = base
	}
	if model := os.Getenv("OLLAMA_MODEL"); model != "" {
		cfg.Model.Name = model
	}

	return cfg, nil
}

func writeDefaults(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename default config: %w", err)
	}
	return nil
}
