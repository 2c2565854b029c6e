package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazuruo/launchdeck/internal/command"
)

// shownError marks an error whose message was already printed.
type shownError struct {
	err error
}

func (e *shownError) Error() string { return e.err.Error() }
func (e *shownError) Unwrap() error { return e.err }

// NewRootCommand creates the launchdeck command tree.
func NewRootCommand(version, commit, date, builtBy string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "launchdeck",
		Short: "Open apps, close apps and run launch workflows",
		Long: `launchdeck keeps a catalog of your apps and websites and opens them
by name, fixes typos for you, and starts whole workflows in order.

Type commands the way you would say them:
  launchdeck open slack
  launchdeck say start workflow morning
  launchdeck assistant`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Disable the default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(NewInitCommand())
	rootCmd.AddCommand(NewAppsCommand())
	rootCmd.AddCommand(NewWorkflowCommand())
	rootCmd.AddCommand(NewOpenCommand())
	rootCmd.AddCommand(NewCloseCommand())
	rootCmd.AddCommand(NewSayCommand())
	rootCmd.AddCommand(NewAssistantCommand())
	rootCmd.AddCommand(NewRecommendCommand())
	rootCmd.AddCommand(NewVersionCommand(version, commit, date, builtBy))

	return rootCmd
}

// Execute runs cmd and returns the process exit code.
func Execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	var shown *shownError
	if !errors.As(err, &shown) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return 1
}

// printResponse writes a classifier response and turns failures into a
// non-zero exit.
func printResponse(cmd *cobra.Command, resp command.Response) error {
	fmt.Fprintln(cmd.OutOrStdout(), resp.Text)
	if resp.Failed() {
		return &shownError{err: resp.Err}
	}
	return nil
}
