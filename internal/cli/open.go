package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/chazuruo/launchdeck/internal/command"
	"github.com/chazuruo/launchdeck/internal/sequencer"
	"github.com/chazuruo/launchdeck/internal/tui"
)

// NewOpenCommand creates the open command.
func NewOpenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open [app]",
		Short: "Open an app by name",
		Long: `Open an app from your catalog.

The name does not have to be exact: "slak" opens Slack, and when nothing
is close enough launchdeck lists the nearest names instead. Without a name
an interactive picker is shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runOpenPicker(cmd)
			}
			return runPhrase(cmd, "open "+strings.Join(args, " "))
		},
	}
}

// NewCloseCommand creates the close command.
func NewCloseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "close <app>",
		Short: "Close a running app by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPhrase(cmd, "close "+strings.Join(args, " "))
		},
	}
}

// NewSayCommand creates the say command.
func NewSayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "say <text...>",
		Short: "Run a typed command such as \"start workflow morning\"",
		Long: `Run one typed command through the command classifier.

Examples:
  launchdeck say list apps
  launchdeck say open notion
  launchdeck say start workflow deep work
  launchdeck say what should I use for note taking?`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPhrase(cmd, strings.Join(args, " "))
		},
	}
}

func runPhrase(cmd *cobra.Command, text string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	e, err := loadEnv(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	snap, err := e.snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	// Workflows print their progress as they go
	seq := e.newSequencer(sequencer.WithObserver(&sequencer.ProgressPrinter{W: cmd.ErrOrStderr()}))
	c := e.newClassifier(command.StaticSnapshot(snap), seq)

	resp, err := c.Handle(ctx, text)
	if err != nil {
		return err
	}
	return printResponse(cmd, resp)
}

// runOpenPicker lets the user choose the app to open.
func runOpenPicker(cmd *cobra.Command) error {
	e, err := loadEnv(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if !e.interactive() {
		return fmt.Errorf("an app name is required in non-interactive mode")
	}

	records, err := e.Store.ListApps(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list apps: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), command.FormatApps(records))
		return nil
	}

	final, err := tea.NewProgram(tui.NewAppPickerModel("Open an app", records)).Run()
	if err != nil {
		return fmt.Errorf("picker error: %w", err)
	}
	picked := final.(tui.AppPickerModel)
	if picked.Selected == nil {
		return nil
	}

	return runPhrase(cmd, "open "+picked.Selected.Name)
}
