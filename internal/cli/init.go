// Package cli provides Cobra command definitions for launchdeck.
package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/chazuruo/launchdeck/internal/ai"
	"github.com/chazuruo/launchdeck/internal/apps"
	"github.com/chazuruo/launchdeck/internal/config"
	"github.com/chazuruo/launchdeck/internal/store"
)

// InitOptions contains the options for the init command.
type InitOptions struct {
	// Scriptable/flag options for --no-tui mode
	CatalogPath string
	Mode        string
	Browser     string
	DelayMs     int
	EnableAI    bool
	Provider    string
	Model       string
	BaseURL     string
	APIKeyEnv   string
	Force       bool
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	opts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize launchdeck configuration",
		Long: `Initialize launchdeck configuration and create the catalog directory.

The init command guides you through setting up:
- Where your app catalog and workflows live
- How apps are opened (shell or dry-run)
- The default wait between workflow steps
- The optional chat assistant

Use --no-tui with flags for scripted setup.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}

	defaults := config.DefaultConfig()
	cmd.Flags().StringVar(&opts.CatalogPath, "catalog", defaults.Catalog.Path, "catalog directory")
	cmd.Flags().StringVar(&opts.Mode, "mode", defaults.Launcher.Mode, "launcher mode: shell or dry-run")
	cmd.Flags().StringVar(&opts.Browser, "browser", "", "command used to open URLs (default: system handler)")
	cmd.Flags().IntVar(&opts.DelayMs, "delay-ms", defaults.Sequencer.DefaultDelayMs, "default wait after each workflow step")
	cmd.Flags().BoolVar(&opts.EnableAI, "ai", false, "enable the chat assistant")
	cmd.Flags().StringVar(&opts.Provider, "provider", defaults.AI.Provider, "chat provider")
	cmd.Flags().StringVar(&opts.Model, "model", defaults.AI.Model, "chat model")
	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "", "base URL for OpenAI-compatible APIs")
	cmd.Flags().StringVar(&opts.APIKeyEnv, "api-key-env", defaults.AI.APIKeyEnv, "environment variable holding the API key")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing config file")

	return cmd
}

func runInit(cmd *cobra.Command, opts *InitOptions) error {
	path := globalConfigPath()
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !opts.Force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	// Check if --no-tui mode
	if !IsNoTUI() {
		if err := runInitForm(opts); err != nil {
			return err
		}
	}

	cfg := buildConfig(opts)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if err := createCatalog(cfg.Catalog.Path); err != nil {
		return err
	}

	if err := config.Write(path, cfg); err != nil {
		return err
	}

	printInitSummary(cmd.OutOrStdout(), path, cfg)
	return nil
}

// runInitForm fills opts interactively, using the flag values as defaults.
func runInitForm(opts *InitOptions) error {
	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Catalog directory").
				Description("Where apps.yaml and your workflows are stored").
				Value(&opts.CatalogPath),
			huh.NewSelect[string]().
				Title("Launcher").
				Options(
					huh.NewOption("Shell - open apps with the system handler", config.LauncherModeShell),
					huh.NewOption("Dry run - only print what would open", config.LauncherModeDryRun),
				).
				Value(&opts.Mode),
			huh.NewConfirm().
				Title("Enable the chat assistant?").
				Description("Unrecognized commands are answered by an OpenAI-compatible model").
				Value(&opts.EnableAI),
		),
	).Run(); err != nil {
		return fmt.Errorf("form error: %w", err)
	}

	if !opts.EnableAI {
		return nil
	}

	options := make([]huh.Option[string], 0)
	for _, name := range ai.Providers() {
		options = append(options, huh.NewOption(name, name))
	}

	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Provider").
				Options(options...).
				Value(&opts.Provider),
			huh.NewInput().
				Title("Model").
				Value(&opts.Model),
			huh.NewInput().
				Title("API key variable").
				Description("Environment variable (or .env entry) holding the key").
				Value(&opts.APIKeyEnv),
			huh.NewInput().
				Title("Base URL").
				Description("Leave empty for the provider default").
				Value(&opts.BaseURL),
		),
	).Run(); err != nil {
		return fmt.Errorf("form error: %w", err)
	}
	return nil
}

func buildConfig(opts *InitOptions) *config.Config {
	cfg := config.DefaultConfig()

	if opts.CatalogPath != "" {
		cfg.Catalog.Path = config.ExpandHome(opts.CatalogPath)
	}
	if opts.Mode != "" {
		cfg.Launcher.Mode = opts.Mode
	}
	cfg.Launcher.Browser = opts.Browser
	cfg.Sequencer.DefaultDelayMs = opts.DelayMs

	cfg.AI.Enabled = opts.EnableAI
	if opts.Provider != "" {
		cfg.AI.Provider = opts.Provider
	}
	if opts.Model != "" {
		cfg.AI.Model = opts.Model
	}
	if opts.APIKeyEnv != "" {
		cfg.AI.APIKeyEnv = opts.APIKeyEnv
	}
	cfg.AI.BaseURL = opts.BaseURL

	cfg.TUI.Enabled = !IsNoTUI()
	return cfg
}

// createCatalog creates the catalog layout without touching existing files.
func createCatalog(root string) error {
	if err := os.MkdirAll(filepath.Join(root, store.WorkflowsDir), 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	appsPath := filepath.Join(root, store.AppsFile)
	if _, err := os.Stat(appsPath); errors.Is(err, fs.ErrNotExist) {
		data, err := apps.MarshalCatalog(&apps.Catalog{SchemaVersion: apps.SchemaVersion, Apps: []apps.AppRecord{}})
		if err != nil {
			return err
		}
		if err := os.WriteFile(appsPath, data, 0644); err != nil {
			return fmt.Errorf("failed to create %s: %w", store.AppsFile, err)
		}
	}
	return nil
}

func printInitSummary(w io.Writer, path string, cfg *config.Config) {
	fmt.Fprintln(w, "✓ Configuration written successfully!")
	fmt.Fprintf(w, "  Config:   %s\n", path)
	fmt.Fprintf(w, "  Catalog:  %s\n", cfg.Catalog.Path)
	fmt.Fprintf(w, "  Launcher: %s\n", cfg.Launcher.Mode)
	if cfg.AI.Enabled {
		fmt.Fprintf(w, "  AI:       %s (%s)\n", cfg.AI.Provider, cfg.AI.Model)
	}
	fmt.Fprintln(w, "\nAdd your first app with 'launchdeck apps add'.")
}
