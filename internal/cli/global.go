// Package cli provides global state and utilities for CLI commands.
package cli

import (
	"sync"

	"github.com/spf13/cobra"
)

var (
	// NoTUI indicates that TUI/interactive mode should be disabled.
	// This is set by the global --no-tui flag.
	NoTUI bool

	// ConfigPath overrides config file detection.
	ConfigPath string

	// DryRun prints launches instead of spawning processes.
	DryRun bool

	// LogLevel overrides [log] level when set.
	LogLevel string

	// globalMutex protects the flag values for concurrent access.
	globalMutex sync.RWMutex
)

// AddGlobalFlags adds global flags to a command.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&NoTUI, "no-tui", false,
		"disable TUI/interactive mode; use plain text or JSON output")
	cmd.PersistentFlags().StringVar(&ConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().BoolVar(&DryRun, "dry-run", false,
		"print what would be opened or closed instead of doing it")
	cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "log level: debug, info, warn, error")
}

// IsNoTUI returns true if TUI mode is disabled.
func IsNoTUI() bool {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return NoTUI
}

// IsDryRun returns true if launches should only be printed.
func IsDryRun() bool {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return DryRun
}

func globalConfigPath() string {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return ConfigPath
}

func globalLogLevel() string {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return LogLevel
}
