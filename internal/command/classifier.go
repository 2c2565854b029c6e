// Package command turns short typed phrases into launcher actions.
//
// Recognized phrases:
//
//	list | list apps | show apps | what apps
//	list workflows | show workflows
//	help | ...what can you do...
//	open <app>
//	close <app>
//	start workflow <name> | run workflow <name>
//
// Anything else is forwarded to the chat provider, when one is configured.
package command

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/chazuruo/launchdeck/internal/ai"
	"github.com/chazuruo/launchdeck/internal/apps"
	deckerrors "github.com/chazuruo/launchdeck/internal/errors"
	"github.com/chazuruo/launchdeck/internal/launcher"
	"github.com/chazuruo/launchdeck/internal/resolver"
	"github.com/chazuruo/launchdeck/internal/sequencer"
	"github.com/chazuruo/launchdeck/internal/store"
	"github.com/chazuruo/launchdeck/internal/workflows"
)

// NoProviderReply is the chat answer when no provider is configured.
const NoProviderReply = `I can open, close, list apps, or start workflows. Type "help" for details.`

// maxHistory bounds the chat turns sent back to the provider.
const maxHistory = 10

// SnapshotSource provides the current catalog snapshot.
type SnapshotSource interface {
	Current() store.Snapshot
}

// StaticSnapshot is a SnapshotSource that never changes.
type StaticSnapshot store.Snapshot

// Current returns the snapshot.
func (s StaticSnapshot) Current() store.Snapshot { return store.Snapshot(s) }

// Classifier dispatches typed commands. It is safe for concurrent use.
type Classifier struct {
	source    SnapshotSource
	launcher  launcher.Launcher
	sequencer sequencer.Sequencer
	provider  ai.Provider
	logger    *slog.Logger

	mu      sync.Mutex
	history []ai.Message
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithProvider enables the chat fallback.
func WithProvider(p ai.Provider) Option {
	return func(c *Classifier) {
		c.provider = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Classifier.
func New(source SnapshotSource, l launcher.Launcher, seq sequencer.Sequencer, opts ...Option) *Classifier {
	c := &Classifier{
		source:    source,
		launcher:  l,
		sequencer: seq,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Handle interprets text and performs the matching action. Expected
// misses come back as responses; the only error is ErrDataNotReady when
// the catalog has not been loaded yet.
func (c *Classifier) Handle(ctx context.Context, text string) (Response, error) {
	snap := c.source.Current()
	if !snap.Loaded {
		return Response{}, deckerrors.ErrDataNotReady
	}

	raw := strings.TrimSpace(text)
	input := strings.ToLower(raw)

	switch {
	case input == "list" || input == "list apps" || input == "show apps" || input == "what apps":
		c.logger.Debug("command", "intent", "list_apps")
		return Response{Kind: KindList, Text: FormatApps(snap.Apps)}, nil

	case input == "list workflows" || input == "show workflows":
		c.logger.Debug("command", "intent", "list_workflows")
		return Response{Kind: KindList, Text: FormatWorkflows(snap.Workflows)}, nil

	case input == "help" || strings.Contains(input, "what can you do"):
		c.logger.Debug("command", "intent", "help")
		return Response{Kind: KindHelp, Text: HelpText}, nil

	case strings.HasPrefix(input, "open "):
		return c.open(ctx, snap, strings.TrimSpace(input[len("open "):])), nil

	case strings.HasPrefix(input, "close "):
		return c.close(ctx, snap, strings.TrimSpace(input[len("close "):])), nil

	case strings.HasPrefix(input, "start workflow "):
		return c.runWorkflow(ctx, snap, strings.TrimSpace(input[len("start workflow "):])), nil

	case strings.HasPrefix(input, "run workflow "):
		return c.runWorkflow(ctx, snap, strings.TrimSpace(input[len("run workflow "):])), nil

	default:
		return c.chat(ctx, snap, raw), nil
	}
}

func (c *Classifier) open(ctx context.Context, snap store.Snapshot, query string) Response {
	c.logger.Debug("command", "intent", "open", "query", query)

	res := resolver.Resolve(query, snap.Apps)
	if res.Kind != resolver.Match {
		return missResponse("an app", query, res, deckerrors.ErrAppNotFound)
	}

	app := res.App
	ok, err := c.launcher.Launch(ctx, app.Target())
	switch {
	case err != nil:
		c.logger.Error("launch failed", "app", app.Name, "error", err)
		return Response{
			Kind: KindOpen, App: app,
			Text: fmt.Sprintf("Could not open %s: %v", app.Name, err),
			Err:  fmt.Errorf("%w: %w", deckerrors.ErrLaunchFailed, err),
		}
	case !ok:
		return Response{
			Kind: KindOpen, App: app,
			Text: fmt.Sprintf("Could not open %s.", app.Name),
			Err:  deckerrors.ErrLaunchFailed,
		}
	}

	return Response{Kind: KindOpen, App: app, Text: fmt.Sprintf("Opening %s.", app.Name)}
}

func (c *Classifier) close(ctx context.Context, snap store.Snapshot, query string) Response {
	c.logger.Debug("command", "intent", "close", "query", query)

	res := resolver.Resolve(query, snap.Apps)
	if res.Kind != resolver.Match {
		return missResponse("an app", query, res, deckerrors.ErrAppNotFound)
	}

	app := res.App
	ok, err := c.launcher.Close(ctx, app.Target())
	switch {
	case err != nil:
		c.logger.Error("close failed", "app", app.Name, "error", err)
		return Response{
			Kind: KindClose, App: app,
			Text: fmt.Sprintf("Could not close %s: %v", app.Name, err),
			Err:  err,
		}
	case !ok:
		return Response{Kind: KindClose, App: app, Text: fmt.Sprintf("%s does not appear to be running.", app.Name)}
	}

	return Response{Kind: KindClose, App: app, Text: fmt.Sprintf("Closing %s.", app.Name)}
}

func (c *Classifier) runWorkflow(ctx context.Context, snap store.Snapshot, name string) Response {
	c.logger.Debug("command", "intent", "workflow", "name", name)

	wf, ok := snap.WorkflowByName(name)
	if !ok {
		res := resolver.ResolveNames(name, snap.WorkflowNames())
		if res.Kind != resolver.Match {
			return missResponse("a workflow", name, res, deckerrors.ErrWorkflowNotFound)
		}
		wf = snap.Workflows[res.Index]
	}

	outcome, err := c.sequencer.Run(ctx, wf, snap.Apps)
	resp := Response{Kind: KindWorkflow, Outcome: &outcome, Err: err}

	if err == nil {
		resp.Text = outcome.Message()
		return resp
	}

	c.logger.Error("workflow failed", "workflow", wf.Name, "error", err)
	switch {
	case deckerrors.IsCanceled(err):
		resp.Text = fmt.Sprintf("Workflow %q canceled after %d of %d step(s).", wf.Name, launchedCount(outcome), len(wf.Steps))
	case deckerrors.IsLaunchFailed(err):
		resp.Text = fmt.Sprintf("Workflow %q stopped: %v", wf.Name, err)
	default:
		resp.Text = fmt.Sprintf("Workflow %q could not run: %v", wf.Name, err)
	}
	return resp
}

func (c *Classifier) chat(ctx context.Context, snap store.Snapshot, message string) Response {
	if c.provider == nil {
		return Response{Kind: KindChat, Text: NoProviderReply}
	}
	c.logger.Debug("command", "intent", "chat", "provider", c.provider.Name())

	c.mu.Lock()
	history := append([]ai.Message(nil), c.history...)
	c.mu.Unlock()

	reply, err := c.provider.Chat(ctx, ai.ChatRequest{Message: message, History: history, Apps: snap.Apps})
	if err != nil {
		c.logger.Error("chat failed", "error", err)
		return Response{Kind: KindChat, Text: "The assistant is unavailable right now. " + NoProviderReply, Err: err}
	}

	c.mu.Lock()
	c.history = append(c.history,
		ai.Message{Role: "user", Content: message},
		ai.Message{Role: "assistant", Content: reply})
	if len(c.history) > maxHistory {
		c.history = c.history[len(c.history)-maxHistory:]
	}
	c.mu.Unlock()

	return Response{Kind: KindChat, Text: reply}
}

// missResponse renders a resolver miss for the kind of thing looked up.
func missResponse(what, query string, res resolver.Result, sentinel error) Response {
	if res.Kind == resolver.Suggestions {
		names := make([]string, len(res.Suggestions))
		for i, s := range res.Suggestions {
			names[i] = s.Name
		}
		return Response{
			Kind:        KindSuggestions,
			Suggestions: res.Suggestions,
			Err:         sentinel,
			Text:        fmt.Sprintf("I couldn't find %q. Did you mean: %s?", query, strings.Join(names, ", ")),
		}
	}
	return Response{Kind: KindNotFound, Err: sentinel, Text: fmt.Sprintf("I couldn't find %s called %q.", what, query)}
}

func launchedCount(o sequencer.Outcome) int {
	n := 0
	for _, r := range o.StepResults {
		if r.Launched {
			n++
		}
	}
	return n
}

// HelpText lists the commands Handle understands.
const HelpText = `I can help you with:
  open <app>              open an app or website
  close <app>             close a running app
  list apps               show your apps
  list workflows          show your workflows
  start workflow <name>   open every app of a workflow in order
Anything else is sent to the chat assistant when one is configured.`

// FormatApps renders the app list.
func FormatApps(records []apps.AppRecord) string {
	if len(records) == 0 {
		return "You have no apps yet."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Your apps (%d):", len(records))
	for _, a := range records {
		fmt.Fprintf(&b, "\n  - %s", a.Name)
		if a.Category != "" {
			fmt.Fprintf(&b, " (%s)", a.Category)
		}
	}
	return b.String()
}

// FormatWorkflows renders the workflow list.
func FormatWorkflows(wfs []*workflows.Workflow) string {
	if len(wfs) == 0 {
		return "You have no workflows yet."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Your workflows (%d):", len(wfs))
	for _, wf := range wfs {
		fmt.Fprintf(&b, "\n  - %s (%d step(s))", wf.Name, len(wf.Steps))
	}
	return b.String()
}
