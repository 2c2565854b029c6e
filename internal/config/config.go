// Package config provides configuration management for launchdeck.
//
// The configuration is stored in TOML format and supports validation
// and default values for all fields.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Launcher modes.
const (
	LauncherModeShell  = "shell"
	LauncherModeDryRun = "dry-run"
)

// DefaultStepDelayMs is the delay applied after a workflow step that does not
// configure its own.
const DefaultStepDelayMs = 2000

// Config is the top-level configuration struct for launchdeck.
type Config struct {
	Catalog   CatalogConfig   `toml:"catalog"`
	Launcher  LauncherConfig  `toml:"launcher"`
	Sequencer SequencerConfig `toml:"sequencer"`
	AI        AIConfig        `toml:"ai"`
	Log       LogConfig       `toml:"log"`
	TUI       TUIConfig       `toml:"tui"`
}

// CatalogConfig points at the directory holding apps.yaml and workflows/.
type CatalogConfig struct {
	// Path is the local directory of the catalog.
	Path string `toml:"path"`

	// Watch reloads the snapshot when catalog files change.
	Watch bool `toml:"watch"`
}

// LauncherConfig controls how apps are opened and closed.
type LauncherConfig struct {
	// Mode is "shell" (spawn OS processes) or "dry-run" (print only).
	Mode string `toml:"mode"`

	// Browser optionally overrides the command used to open URLs.
	Browser string `toml:"browser"`
}

// SequencerConfig contains workflow sequencer settings.
type SequencerConfig struct {
	// DefaultDelayMs is used for steps without a configured delay.
	DefaultDelayMs int `toml:"default_delay_ms"`
}

// AIConfig contains chat assistant settings.
type AIConfig struct {
	// Enabled enables the chat fallback and recommendations.
	Enabled bool `toml:"enabled"`

	// Provider is the AI provider name.
	Provider string `toml:"provider"`

	// BaseURL is the base URL for API requests (optional for compatibility).
	BaseURL string `toml:"base_url"`

	// Model is the AI model identifier.
	Model string `toml:"model"`

	// APIKeyEnv is the environment variable name containing the API key.
	APIKeyEnv string `toml:"api_key_env"`

	// Redact controls the level of redaction for privacy.
	// Valid values: "none", "basic".
	Redact string `toml:"redact"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format"`
}

// TUIConfig contains terminal UI settings.
type TUIConfig struct {
	// Enabled controls whether interactive forms and the assistant TUI are used.
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns a Config with all default values set.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Path:  filepath.Join(xdg.DataHome, "launchdeck"),
			Watch: true,
		},
		Launcher: LauncherConfig{
			Mode: LauncherModeShell,
		},
		Sequencer: SequencerConfig{
			DefaultDelayMs: DefaultStepDelayMs,
		},
		AI: AIConfig{
			Enabled:   false,
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			APIKeyEnv: "OPENAI_API_KEY",
			Redact:    "basic",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		TUI: TUIConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration for valid values.
// Returns a nil error if the config is valid, or an error describing the problem.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.Catalog,
		validation.Field(&c.Catalog.Path, validation.Required.Error("catalog.path cannot be empty")),
	); err != nil {
		return err
	}

	if err := validation.ValidateStruct(&c.Launcher,
		validation.Field(&c.Launcher.Mode,
			validation.Required,
			validation.In(LauncherModeShell, LauncherModeDryRun).
				Error(fmt.Sprintf("launcher.mode must be one of: shell, dry-run; got %q", c.Launcher.Mode))),
	); err != nil {
		return err
	}

	if c.Sequencer.DefaultDelayMs < 0 {
		return fmt.Errorf("sequencer.default_delay_ms must be >= 0; got %d", c.Sequencer.DefaultDelayMs)
	}

	// Only check the provider settings when the assistant is on
	if c.AI.Enabled {
		if c.AI.Provider == "" {
			return fmt.Errorf("ai.provider cannot be empty when ai.enabled is true")
		}
		if c.AI.Model == "" {
			return fmt.Errorf("ai.model cannot be empty when ai.enabled is true")
		}
	}
	validRedactLevels := map[string]bool{
		"none":  true,
		"basic": true,
	}
	if !validRedactLevels[c.AI.Redact] {
		return fmt.Errorf("ai.redact must be one of: none, basic; got %q", c.AI.Redact)
	}

	if err := validation.ValidateStruct(&c.Log,
		validation.Field(&c.Log.Level, validation.In("debug", "info", "warn", "error").
			Error(fmt.Sprintf("log.level must be one of: debug, info, warn, error; got %q", c.Log.Level))),
		validation.Field(&c.Log.Format, validation.In("text", "json").
			Error(fmt.Sprintf("log.format must be one of: text, json; got %q", c.Log.Format))),
	); err != nil {
		return err
	}

	return nil
}
