// Package config provides configuration management for launchdeck.
//
// A config file is TOML. Values are layered: defaults, then the file, then
// LAUNCHDECK_<SECTION>_<FIELD> environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	deckerrors "github.com/chazuruo/launchdeck/internal/errors"
)

const (
	appDir         = "launchdeck"
	configFileName = "config.toml"
)

// configCandidates lists config locations in lookup order.
func configCandidates() []string {
	var paths []string
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		paths = append(paths, filepath.Join(dir, appDir, configFileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appDir, configFileName))
	}
	return paths
}

// DetectConfigPath returns the first existing config file, checking
// $XDG_CONFIG_HOME/launchdeck and then ~/.config/launchdeck. It returns ""
// when there is none.
func DetectConfigPath() string {
	for _, p := range configCandidates() {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// DefaultConfigPath returns where init writes a new config file.
func DefaultConfigPath() string {
	if paths := configCandidates(); len(paths) > 0 {
		return paths[0]
	}
	return filepath.Join(".", appDir, configFileName)
}

// Load reads the config file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &deckerrors.ConfigError{Path: path, Err: fmt.Errorf("%w: file not found", deckerrors.ErrNotFound)}
	}
	if err != nil {
		return nil, &deckerrors.ConfigError{Path: path, Err: fmt.Errorf("%w: %w", deckerrors.ErrIO, err)}
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &deckerrors.ConfigError{Path: path, Err: fmt.Errorf("failed to parse: %w", err)}
	}

	if err := finish(cfg); err != nil {
		return nil, &deckerrors.ConfigError{Path: path, Err: err}
	}
	return cfg, nil
}

// LoadWithDefaults loads the config at path, or the detected config when
// path is empty. Without any config file it returns the defaults.
func LoadWithDefaults(path string) (*Config, error) {
	if path == "" {
		path = DetectConfigPath()
	}
	if path != "" {
		return Load(path)
	}

	cfg := DefaultConfig()
	if err := finish(cfg); err != nil {
		return nil, &deckerrors.ConfigError{Err: err}
	}
	return cfg, nil
}

func finish(cfg *Config) error {
	applyEnvOverrides(cfg)
	cfg.Catalog.Path = ExpandHome(cfg.Catalog.Path)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: validation failed: %w", deckerrors.ErrInvalid, err)
	}
	return nil
}

// envOverride maps one LAUNCHDECK_* variable onto a config field.
type envOverride struct {
	key   string
	apply func(c *Config, val string)
}

func stringField(field func(*Config) *string) func(*Config, string) {
	return func(c *Config, val string) { *field(c) = val }
}

func boolField(field func(*Config) *bool) func(*Config, string) {
	return func(c *Config, val string) {
		switch strings.ToLower(val) {
		case "true", "1", "yes", "on":
			*field(c) = true
		case "false", "0", "no", "off":
			*field(c) = false
		}
	}
}

func intField(field func(*Config) *int) func(*Config, string) {
	return func(c *Config, val string) {
		if i, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			*field(c) = i
		}
	}
}

var envOverrides = []envOverride{
	{"LAUNCHDECK_CATALOG_PATH", stringField(func(c *Config) *string { return &c.Catalog.Path })},
	{"LAUNCHDECK_CATALOG_WATCH", boolField(func(c *Config) *bool { return &c.Catalog.Watch })},
	{"LAUNCHDECK_LAUNCHER_MODE", stringField(func(c *Config) *string { return &c.Launcher.Mode })},
	{"LAUNCHDECK_LAUNCHER_BROWSER", stringField(func(c *Config) *string { return &c.Launcher.Browser })},
	{"LAUNCHDECK_SEQUENCER_DEFAULT_DELAY_MS", intField(func(c *Config) *int { return &c.Sequencer.DefaultDelayMs })},
	{"LAUNCHDECK_AI_ENABLED", boolField(func(c *Config) *bool { return &c.AI.Enabled })},
	{"LAUNCHDECK_AI_PROVIDER", stringField(func(c *Config) *string { return &c.AI.Provider })},
	{"LAUNCHDECK_AI_BASE_URL", stringField(func(c *Config) *string { return &c.AI.BaseURL })},
	{"LAUNCHDECK_AI_MODEL", stringField(func(c *Config) *string { return &c.AI.Model })},
	{"LAUNCHDECK_AI_API_KEY_ENV", stringField(func(c *Config) *string { return &c.AI.APIKeyEnv })},
	{"LAUNCHDECK_AI_REDACT", stringField(func(c *Config) *string { return &c.AI.Redact })},
	{"LAUNCHDECK_LOG_LEVEL", stringField(func(c *Config) *string { return &c.Log.Level })},
	{"LAUNCHDECK_LOG_FORMAT", stringField(func(c *Config) *string { return &c.Log.Format })},
	{"LAUNCHDECK_TUI_ENABLED", boolField(func(c *Config) *bool { return &c.TUI.Enabled })},
}

// applyEnvOverrides applies non-empty LAUNCHDECK_<SECTION>_<FIELD> variables.
// Unparsable bool and int values are ignored.
func applyEnvOverrides(c *Config) {
	for _, o := range envOverrides {
		if val, ok := os.LookupEnv(o.key); ok && val != "" {
			o.apply(c, val)
		}
	}
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
