package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/chazuruo/launchdeck/internal/apps"
	deckerrors "github.com/chazuruo/launchdeck/internal/errors"
	"github.com/chazuruo/launchdeck/internal/launcher"
	"github.com/chazuruo/launchdeck/internal/logging"
	"github.com/chazuruo/launchdeck/internal/resolver"
	"github.com/chazuruo/launchdeck/internal/sequencer"
	"github.com/chazuruo/launchdeck/internal/store"
	"github.com/chazuruo/launchdeck/internal/tui"
	"github.com/chazuruo/launchdeck/internal/workflows"
)

// NewWorkflowCommand creates the workflow command group.
func NewWorkflowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workflow",
		Aliases: []string{"workflows", "wf"},
		Short:   "Create, inspect and run launch workflows",
	}

	cmd.AddCommand(newWorkflowListCommand())
	cmd.AddCommand(newWorkflowShowCommand())
	cmd.AddCommand(newWorkflowRunCommand())
	cmd.AddCommand(newWorkflowCreateCommand())
	cmd.AddCommand(newWorkflowDeleteCommand())

	return cmd
}

// WorkflowListOptions contains the options for workflow list.
type WorkflowListOptions struct {
	Format string
	Search string
}

type workflowRow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Steps     int       `json:"steps"`
	Slug      string    `json:"slug"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newWorkflowListCommand() *cobra.Command {
	opts := &WorkflowListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workflows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflowList(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", string(FormatTable), "output format: table, json, plain")
	cmd.Flags().StringVar(&opts.Search, "search", "", "only show workflows whose name contains this text")

	return cmd
}

func runWorkflowList(cmd *cobra.Command, opts *WorkflowListOptions) error {
	format, err := parseFormat(opts.Format)
	if err != nil {
		return err
	}

	e, err := loadEnv(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	refs, err := e.Store.ListWorkflows(ctx, store.Filter{Search: opts.Search})
	if err != nil {
		return fmt.Errorf("failed to list workflows: %w", err)
	}

	rows := make([]workflowRow, 0, len(refs))
	for _, ref := range refs {
		rows = append(rows, workflowRow{
			ID:        ref.ID,
			Name:      ref.Name,
			Steps:     ref.Steps,
			Slug:      ref.Slug,
			UpdatedAt: ref.UpdatedAt,
		})
	}

	w := cmd.OutOrStdout()
	switch format {
	case FormatJSON:
		return writeJSON(w, rows)
	case FormatPlain:
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%d\n", r.Name, r.Steps)
		}
	default:
		if len(rows) == 0 {
			fmt.Fprintln(w, "No workflows yet. Create one with 'launchdeck workflow create'.")
			return nil
		}
		tbl := newTable(w, "Name", "Steps", "Updated", "Slug")
		for _, r := range rows {
			tbl.AddRow(r.Name, r.Steps, r.UpdatedAt.Local().Format("2006-01-02 15:04"), r.Slug)
		}
		tbl.Print()
	}
	return nil
}

// WorkflowShowOptions contains the options for workflow show.
type WorkflowShowOptions struct {
	Format string // plain, yaml or json
}

func newWorkflowShowCommand() *cobra.Command {
	opts := &WorkflowShowOptions{}

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show the steps of a workflow",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflowShow(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "plain", "output format: plain, yaml, json")

	return cmd
}

func runWorkflowShow(cmd *cobra.Command, name string, opts *WorkflowShowOptions) error {
	e, err := loadEnv(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	snap, err := e.snapshot(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	wf, err := findWorkflow(snap, name)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch strings.ToLower(opts.Format) {
	case "yaml":
		data, err := workflows.MarshalWorkflow(wf)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "json":
		return writeJSON(w, wf)
	case "plain":
		printWorkflow(w, wf, snap, time.Duration(e.Config.Sequencer.DefaultDelayMs)*time.Millisecond)
		return nil
	default:
		return fmt.Errorf("invalid format %q (valid: plain, yaml, json)", opts.Format)
	}
}

func printWorkflow(w io.Writer, wf *workflows.Workflow, snap store.Snapshot, defaultDelay time.Duration) {
	fmt.Fprintf(w, "%s\n", wf.Name)
	if wf.Description != "" {
		fmt.Fprintf(w, "  %s\n", wf.Description)
	}
	fmt.Fprintln(w)

	for i := range wf.Steps {
		step := &wf.Steps[i]
		fmt.Fprintf(w, "  %d. %s\n", i+1, stepLabel(step, snap))
		if i < len(wf.Steps)-1 {
			fmt.Fprintf(w, "     then wait %s\n", step.Delay(defaultDelay))
		}
	}
}

// stepLabel names a step by its app, flagging apps missing from the catalog.
func stepLabel(step *workflows.WorkflowStep, snap store.Snapshot) string {
	label := step.AppID
	if app, ok := snap.AppByID(step.AppID); ok {
		label = app.Name
	} else {
		label += " (missing)"
	}
	if step.Name != "" && step.Name != label {
		label = fmt.Sprintf("%s: %s", step.Name, label)
	}
	return label
}

// findWorkflow looks a workflow up by exact name first, then through the
// resolver.
func findWorkflow(snap store.Snapshot, name string) (*workflows.Workflow, error) {
	if wf, ok := snap.WorkflowByName(name); ok {
		return wf, nil
	}

	res := resolver.ResolveNames(name, snap.WorkflowNames())
	switch res.Kind {
	case resolver.Match:
		return snap.Workflows[res.Index], nil
	case resolver.Suggestions:
		return nil, fmt.Errorf("%w: %q (did you mean: %s?)", deckerrors.ErrWorkflowNotFound, name, suggestionNames(res.Suggestions))
	default:
		return nil, fmt.Errorf("%w: %q", deckerrors.ErrWorkflowNotFound, name)
	}
}

func newWorkflowRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <name>",
		Short: "Open every app of a workflow in order",
		Long: `Open every app of a workflow in order, waiting between steps.

The run stops at the first app that fails to open; apps already opened
stay open. Press Ctrl+C to stop between steps.

Use --dry-run to print the launches without opening anything.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflowRun(cmd, strings.Join(args, " "))
		},
	}
}

func runWorkflowRun(cmd *cobra.Command, name string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	w := cmd.OutOrStdout()
	e, err := loadEnv(cmd, w)
	if err != nil {
		return err
	}

	snap, err := e.snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	wf, err := findWorkflow(snap, name)
	if err != nil {
		return err
	}

	if e.interactive() {
		return runWorkflowTUI(ctx, e, wf, snap)
	}

	seq := e.newSequencer(sequencer.WithObserver(&sequencer.ProgressPrinter{W: w}))
	outcome, err := seq.Run(ctx, wf, snap.Apps)
	switch {
	case err == nil:
		fmt.Fprintln(w, outcome.Message())
		return nil
	case deckerrors.IsCanceled(err):
		fmt.Fprintf(w, "Workflow %q canceled after %d of %d step(s).\n",
			wf.Name, len(outcome.StepResults), outcome.StepsCount)
		return &shownError{err: err}
	default:
		return err
	}
}

// runWorkflowTUI runs wf while a progress view follows the sequencer events.
func runWorkflowTUI(ctx context.Context, e *env, wf *workflows.Workflow, snap store.Snapshot) error {
	// Log lines and dry-run output would draw over the progress view
	e.Logger = logging.Discard()
	l, err := launcher.New(e.Config.Launcher, io.Discard, launcher.WithLogger(e.Logger))
	if err != nil {
		return err
	}
	e.Launcher = l

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	labels := make([]string, len(wf.Steps))
	for i := range wf.Steps {
		labels[i] = stepLabel(&wf.Steps[i], snap)
	}

	program := tea.NewProgram(tui.NewProgressModel(wf, labels, cancel))
	seq := e.newSequencer(sequencer.WithObserver(sequencer.ObserverFunc(func(ev sequencer.Event) {
		program.Send(tui.EventMsg(ev))
	})))

	var runErr error
	var g errgroup.Group
	g.Go(func() error {
		var outcome sequencer.Outcome
		outcome, runErr = seq.Run(ctx, wf, snap.Apps)
		program.Send(tui.DoneMsg{Outcome: outcome, Err: runErr})
		return nil
	})
	g.Go(func() error {
		defer cancel()
		_, err := program.Run()
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if runErr != nil {
		// The progress view already shows the failure
		return &shownError{err: runErr}
	}
	return nil
}

// WorkflowCreateOptions contains the options for workflow create.
type WorkflowCreateOptions struct {
	Steps       []string
	File        string
	Description string
	Force       bool
}

func newWorkflowCreateCommand() *cobra.Command {
	opts := &WorkflowCreateOptions{}

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a workflow from catalog apps",
		Long: `Create a workflow from apps in the catalog.

Each --step names an app, optionally followed by the wait in milliseconds
before the next step. App names are matched the same way as "open", so
small typos are fixed. Steps without a wait use the configured default
(2000ms unless [sequencer] default_delay_ms says otherwise). A wait of 0
is rejected because it is stored as "use the default"; use 1 for the
shortest wait.

Examples:
  launchdeck workflow create "Morning" --step slack:3000 --step gmail --step calendar
  launchdeck workflow create "Deep Work" --step "vs code:5000" --step spotify
  launchdeck workflow create --file morning.yaml`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflowCreate(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Steps, "step", nil, "step as app[:delayMs] (repeatable, in order)")
	cmd.Flags().StringVar(&opts.File, "file", "", "import a workflow YAML file")
	cmd.Flags().StringVar(&opts.Description, "description", "", "workflow description")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "replace a workflow with the same name")

	return cmd
}

func runWorkflowCreate(cmd *cobra.Command, name string, opts *WorkflowCreateOptions) error {
	e, err := loadEnv(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	records, err := e.Store.ListApps(ctx)
	if err != nil {
		return fmt.Errorf("failed to list apps: %w", err)
	}

	var wf *workflows.Workflow
	if opts.File != "" {
		wf, err = workflows.LoadYAML(opts.File)
		if err != nil {
			return err
		}
		if name != "" {
			wf.Name = name
		}
		if err := bindStepApps(wf, records); err != nil {
			return err
		}
	} else {
		if name == "" {
			return fmt.Errorf("a workflow name is required")
		}
		wf, err = buildWorkflow(name, opts.Steps, records)
		if err != nil {
			return err
		}
	}
	if opts.Description != "" {
		wf.Description = opts.Description
	}

	ref, err := e.Store.SaveWorkflow(ctx, wf, store.SaveOptions{Force: opts.Force})
	if err != nil {
		if deckerrors.IsAlreadyExists(err) {
			return fmt.Errorf("%w (use --force to replace it)", err)
		}
		return fmt.Errorf("failed to save workflow: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved workflow %q with %d step(s) to %s\n", wf.Name, len(wf.Steps), ref.Path)
	return nil
}

// buildWorkflow turns app[:delayMs] specs into a workflow.
func buildWorkflow(name string, specs []string, records []apps.AppRecord) (*workflows.Workflow, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("at least one --step is required")
	}

	wf := &workflows.Workflow{Name: name}
	for i, s := range specs {
		spec, err := workflows.ParseStepSpec(s)
		if err != nil {
			return nil, err
		}
		app, err := findApp(spec.App, records)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		wf.Steps = append(wf.Steps, workflows.WorkflowStep{
			AppID:   app.ID,
			Name:    app.Name,
			DelayMs: spec.DelayMs,
		})
	}
	return wf, nil
}

// bindStepApps rewrites imported step references to catalog IDs. Imported
// files may name apps instead of using their IDs.
func bindStepApps(wf *workflows.Workflow, records []apps.AppRecord) error {
	for i := range wf.Steps {
		app, err := findApp(wf.Steps[i].AppID, records)
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		wf.Steps[i].AppID = app.ID
		if wf.Steps[i].Name == "" {
			wf.Steps[i].Name = app.Name
		}
	}
	return nil
}

func newWorkflowDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a workflow",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflowDelete(cmd, strings.Join(args, " "))
		},
	}
}

func runWorkflowDelete(cmd *cobra.Command, name string) error {
	e, err := loadEnv(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	refs, err := e.Store.ListWorkflows(ctx, store.Filter{})
	if err != nil {
		return fmt.Errorf("failed to list workflows: %w", err)
	}

	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.Name
	}

	var ref store.WorkflowRef
	found := false
	for _, r := range refs {
		if strings.EqualFold(r.Name, strings.TrimSpace(name)) {
			ref, found = r, true
			break
		}
	}
	if !found {
		// Deleting is destructive, so only an exact name is accepted
		res := resolver.ResolveNames(name, names)
		if res.Kind == resolver.Match {
			return fmt.Errorf("%w: %q (did you mean %q?)", deckerrors.ErrWorkflowNotFound, name, names[res.Index])
		}
		return fmt.Errorf("%w: %q", deckerrors.ErrWorkflowNotFound, name)
	}

	if err := e.Store.DeleteWorkflow(ctx, ref); err != nil {
		return fmt.Errorf("failed to delete workflow: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted workflow %q\n", ref.Name)
	return nil
}
