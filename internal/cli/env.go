package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/chazuruo/launchdeck/internal/ai"
	"github.com/chazuruo/launchdeck/internal/command"
	"github.com/chazuruo/launchdeck/internal/config"
	"github.com/chazuruo/launchdeck/internal/launcher"
	"github.com/chazuruo/launchdeck/internal/logging"
	"github.com/chazuruo/launchdeck/internal/sequencer"
	"github.com/chazuruo/launchdeck/internal/store"
)

// errAIDisabled is returned by commands that need a chat provider.
var errAIDisabled = errors.New("the assistant is disabled; set [ai] enabled = true in the config or LAUNCHDECK_AI_ENABLED=true")

// env holds the components shared by commands.
type env struct {
	Config   *config.Config
	Logger   *slog.Logger
	Store    *store.FileSystemStore
	Launcher launcher.Launcher

	// Provider is nil when the assistant is disabled or misconfigured.
	Provider    ai.Provider
	providerErr error
}

// loadEnv loads the config and builds the store, launcher and provider.
// Launcher output goes to w.
func loadEnv(cmd *cobra.Command, w io.Writer) (*env, error) {
	cfg, err := config.LoadWithDefaults(globalConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if level := globalLogLevel(); level != "" {
		cfg.Log.Level = level
	}
	if IsDryRun() {
		cfg.Launcher.Mode = config.LauncherModeDryRun
	}

	logger := logging.Setup(cmd.ErrOrStderr(), cfg.Log)

	st, err := store.NewFileSystemStore(cfg.Catalog.Path, store.WithStoreLogger(logger))
	if err != nil {
		return nil, err
	}

	l, err := launcher.New(cfg.Launcher, w, launcher.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	e := &env{
		Config:   cfg,
		Logger:   logger,
		Store:    st,
		Launcher: l,
	}

	if cfg.AI.Enabled {
		e.Provider, e.providerErr = ai.NewProvider(ai.FromConfig(cfg.AI))
		if e.providerErr != nil {
			logger.Warn("chat provider unavailable", "provider", cfg.AI.Provider, "error", e.providerErr)
		}
	} else {
		e.providerErr = errAIDisabled
	}

	return e, nil
}

// requireProvider returns the provider or the reason there is none.
func (e *env) requireProvider() (ai.Provider, error) {
	if e.Provider == nil {
		return nil, e.providerErr
	}
	return e.Provider, nil
}

// snapshot loads the catalog once.
func (e *env) snapshot(ctx context.Context) (store.Snapshot, error) {
	return store.LoadSnapshot(ctx, e.Store)
}

// newSequencer builds a sequencer using the configured default delay.
func (e *env) newSequencer(opts ...sequencer.Option) sequencer.Sequencer {
	base := []sequencer.Option{
		sequencer.WithDefaultDelay(time.Duration(e.Config.Sequencer.DefaultDelayMs) * time.Millisecond),
		sequencer.WithLogger(e.Logger),
	}
	return sequencer.New(e.Launcher, append(base, opts...)...)
}

// newClassifier builds a classifier over source.
func (e *env) newClassifier(source command.SnapshotSource, seq sequencer.Sequencer) *command.Classifier {
	opts := []command.Option{command.WithLogger(e.Logger)}
	if e.Provider != nil {
		opts = append(opts, command.WithProvider(e.Provider))
	}
	return command.New(source, e.Launcher, seq, opts...)
}

// interactive reports whether forms and the TUI may be used.
func (e *env) interactive() bool {
	return !IsNoTUI() && e.Config.TUI.Enabled
}
