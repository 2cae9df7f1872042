package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// GitHubTokenEnv overrides Settings.GitHubToken
const GitHubTokenEnv = "PRCACHE_GITHUB_TOKEN"

// Settings represents the structure of $PRCACHE_HOME/settings.json.
// Nil or empty fields fall back to built-in defaults.
type Settings struct {
	Account                 string `json:"account,omitempty"`
	DBPath                  string `json:"db_path,omitempty"`
	Debug                   *bool  `json:"debug,omitempty"`
	EventBufferSize         *int   `json:"event_buffer_size,omitempty"`
	FeedAddr                string `json:"feed_addr,omitempty"`
	GitHubToken             string `json:"github_token,omitempty"`
	MaxLogFiles             *int   `json:"max_log_files,omitempty"`
	OperationTimeoutSeconds *int   `json:"operation_timeout_seconds,omitempty"`
	SyncConcurrency         *int   `json:"sync_concurrency,omitempty"`
}

// Validate rejects values that can never work
func (s *Settings) Validate() error {
	var errs []error
	positive := map[string]*int{
		"event_buffer_size":         s.EventBufferSize,
		"operation_timeout_seconds": s.OperationTimeoutSeconds,
		"sync_concurrency":          s.SyncConcurrency,
	}
	for _, name := range []string{"event_buffer_size", "operation_timeout_seconds", "sync_concurrency"} {
		if v := positive[name]; v != nil && *v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, *v))
		}
	}
	if s.MaxLogFiles != nil && *s.MaxLogFiles < 0 {
		errs = append(errs, fmt.Errorf("max_log_files must not be negative, got %d", *s.MaxLogFiles))
	}
	return errors.Join(errs...)
}

// Token returns the GitHub token, preferring PRCACHE_GITHUB_TOKEN
func (s *Settings) Token() string {
	if token := os.Getenv(GitHubTokenEnv); token != "" {
		return token
	}
	return s.GitHubToken
}

// LoadSettings loads settings from $PRCACHE_HOME/settings.json.
// Returns empty Settings if file doesn't exist (not an error)
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(SettingsPath())
}

// LoadSettingsFrom loads settings from path
func LoadSettingsFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	if settings.DBPath != "" {
		settings.DBPath = ExpandPath(settings.DBPath)
	}

	return &settings, nil
}

// SaveSettings saves settings to path, creating its directory
func SaveSettings(path string, settings *Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}
