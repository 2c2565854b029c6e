package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	deckerrors "github.com/chazuruo/launchdeck/internal/errors"
	"github.com/chazuruo/launchdeck/internal/launcher"
	"github.com/chazuruo/launchdeck/internal/logging"
	"github.com/chazuruo/launchdeck/internal/store"
	"github.com/chazuruo/launchdeck/internal/tui"
)

// AssistantOptions contains the options for the assistant command.
type AssistantOptions struct {
	NoWatch bool
}

// NewAssistantCommand creates the assistant command.
func NewAssistantCommand() *cobra.Command {
	opts := &AssistantOptions{}

	cmd := &cobra.Command{
		Use:     "assistant",
		Aliases: []string{"chat"},
		Short:   "Start the interactive assistant",
		Long: `Start an interactive session that accepts typed commands:

  list apps, list workflows, help
  open <app>, close <app>
  start workflow <name>

Anything else goes to the chat assistant when [ai] is enabled. The catalog
is reloaded while the session runs, so apps added from another terminal are
available right away.

With --no-tui the session reads one command per line from standard input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssistant(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.NoWatch, "no-watch", false, "do not reload the catalog when files change")

	return cmd
}

func runAssistant(cmd *cobra.Command, opts *AssistantOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	e, err := loadEnv(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if !e.interactive() {
		return runAssistantLines(ctx, cmd, e, opts)
	}
	return runAssistantTUI(ctx, e, opts)
}

// runAssistantTUI runs the Bubble Tea assistant and the catalog watcher
// side by side until the user quits.
func runAssistantTUI(ctx context.Context, e *env, opts *AssistantOptions) error {
	// Log lines and dry-run output would draw over the TUI
	e.Logger = logging.Discard()
	l, err := launcher.New(e.Config.Launcher, io.Discard, launcher.WithLogger(e.Logger))
	if err != nil {
		return err
	}
	e.Launcher = l

	var program *tea.Program
	snaps := store.NewSnapshotter(e.Store,
		store.WithSnapshotLogger(e.Logger),
		store.OnReload(func(s store.Snapshot) {
			if program != nil {
				program.Send(tui.SnapshotMsg{Apps: len(s.Apps), Workflows: len(s.Workflows)})
			}
		}))
	if err := snaps.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	classifier := e.newClassifier(snaps, e.newSequencer())
	model := tui.NewAssistantModel(ctx, classifier)
	program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	g, gctx := errgroup.WithContext(ctx)
	if e.Config.Catalog.Watch && !opts.NoWatch {
		g.Go(func() error {
			if err := snaps.Watch(gctx, e.Store.Root(), store.DefaultDebounce); err != nil {
				e.Logger.Warn("catalog watcher stopped", "error", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer cancel()
		_, err := program.Run()
		if err != nil && ctx.Err() != nil {
			// Interrupted from outside the program
			return nil
		}
		return err
	})

	return g.Wait()
}

// runAssistantLines answers one command per input line.
func runAssistantLines(ctx context.Context, cmd *cobra.Command, e *env, opts *AssistantOptions) error {
	snaps := store.NewSnapshotter(e.Store, store.WithSnapshotLogger(e.Logger))
	if err := snaps.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	if e.Config.Catalog.Watch && !opts.NoWatch {
		g.Go(func() error {
			return snaps.Watch(gctx, e.Store.Root(), store.DefaultDebounce)
		})
	}

	classifier := e.newClassifier(snaps, e.newSequencer())
	out := cmd.OutOrStdout()

	g.Go(func() error {
		defer cancel()
		lines := scanLines(gctx, cmd.InOrStdin())
		for {
			fmt.Fprint(out, "> ")

			var in inputLine
			var ok bool
			select {
			case <-gctx.Done():
				fmt.Fprintln(out)
				return nil
			case in, ok = <-lines:
			}
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
			if in.err != nil {
				return in.err
			}

			text := strings.TrimSpace(in.text)
			switch strings.ToLower(text) {
			case "":
				continue
			case "exit", "quit":
				return nil
			}

			resp, err := classifier.Handle(gctx, text)
			if err != nil {
				if deckerrors.IsDataNotReady(err) {
					fmt.Fprintln(out, "The catalog is still loading, try again in a moment.")
					continue
				}
				return err
			}
			fmt.Fprintln(out, resp.Text)

			if gctx.Err() != nil {
				return nil
			}
		}
	})

	return g.Wait()
}

type inputLine struct {
	text string
	err  error
}

// scanLines sends the lines of r on the returned channel and closes it at
// EOF. A read blocked on r outlives ctx until the next line or EOF arrives.
func scanLines(ctx context.Context, r io.Reader) <-chan inputLine {
	lines := make(chan inputLine)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if ctx.Err() != nil {
				return
			}
			select {
			case lines <- inputLine{text: scanner.Text()}:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case lines <- inputLine{err: err}:
			case <-ctx.Done():
			}
		}
	}()
	return lines
}
