package config

import (
	"path/filepath"
	"strings"
	"testing"
)

// TestDefaultConfig verifies that default values are correctly set.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"catalog.watch", cfg.Catalog.Watch, true},
		{"launcher.mode", cfg.Launcher.Mode, LauncherModeShell},
		{"launcher.browser", cfg.Launcher.Browser, ""},
		{"sequencer.default_delay_ms", cfg.Sequencer.DefaultDelayMs, 2000},
		{"ai.enabled", cfg.AI.Enabled, false},
		{"ai.provider", cfg.AI.Provider, "openai"},
		{"ai.api_key_env", cfg.AI.APIKeyEnv, "OPENAI_API_KEY"},
		{"ai.redact", cfg.AI.Redact, "basic"},
		{"log.level", cfg.Log.Level, "info"},
		{"log.format", cfg.Log.Format, "text"},
		{"tui.enabled", cfg.TUI.Enabled, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	if filepath.Base(cfg.Catalog.Path) != "launchdeck" {
		t.Errorf("catalog.path should end in launchdeck, got %q", cfg.Catalog.Path)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

// TestValidate covers each rejected field.
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "empty catalog path",
			mutate:  func(c *Config) { c.Catalog.Path = "" },
			wantErr: "catalog.path cannot be empty",
		},
		{
			name:    "unknown launcher mode",
			mutate:  func(c *Config) { c.Launcher.Mode = "electron" },
			wantErr: "launcher.mode must be one of",
		},
		{
			name:    "negative delay",
			mutate:  func(c *Config) { c.Sequencer.DefaultDelayMs = -1 },
			wantErr: "sequencer.default_delay_ms must be >= 0",
		},
		{
			name: "ai enabled without model",
			mutate: func(c *Config) {
				c.AI.Enabled = true
				c.AI.Model = ""
			},
			wantErr: "ai.model cannot be empty",
		},
		{
			name:    "bad redact level",
			mutate:  func(c *Config) { c.AI.Redact = "paranoid" },
			wantErr: "ai.redact must be one of",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: "log.level must be one of",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: "log.format must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}

	t.Run("dry-run mode is valid", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Launcher.Mode = LauncherModeDryRun
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

// TestWriteRoundTrip verifies Write output can be loaded back.
func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Catalog.Path = "/tmp/catalog"
	cfg.Launcher.Mode = LauncherModeDryRun
	cfg.Sequencer.DefaultDelayMs = 750

	if err := Write(path, cfg); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Catalog.Path != "/tmp/catalog" {
		t.Errorf("catalog.path = %q", loaded.Catalog.Path)
	}
	if loaded.Launcher.Mode != LauncherModeDryRun {
		t.Errorf("launcher.mode = %q", loaded.Launcher.Mode)
	}
	if loaded.Sequencer.DefaultDelayMs != 750 {
		t.Errorf("sequencer.default_delay_ms = %d", loaded.Sequencer.DefaultDelayMs)
	}
}
