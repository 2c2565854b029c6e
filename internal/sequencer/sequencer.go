// Package sequencer launches the apps of a workflow one after another.
package sequencer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chazuruo/launchdeck/internal/apps"
	deckerrors "github.com/chazuruo/launchdeck/internal/errors"
	"github.com/chazuruo/launchdeck/internal/launcher"
	"github.com/chazuruo/launchdeck/internal/workflows"
)

// Sequencer runs workflows.
type Sequencer interface {
	// Run launches every step of wf in order, resolving step app IDs
	// against catalog.
	Run(ctx context.Context, wf *workflows.Workflow, catalog []apps.AppRecord) (Outcome, error)
}

// Outcome is the result of a workflow run.
type Outcome struct {
	Workflow    string
	StepsCount  int
	StepResults []StepResult
	Canceled    bool
	Duration    time.Duration
}

// Success reports whether every step launched.
func (o Outcome) Success() bool {
	if o.Canceled || len(o.StepResults) != o.StepsCount {
		return false
	}
	for _, r := range o.StepResults {
		if !r.Launched {
			return false
		}
	}
	return true
}

// Message is the user-facing summary of a successful run.
func (o Outcome) Message() string {
	return fmt.Sprintf("Workflow %q started: %d step(s) launched", o.Workflow, o.StepsCount)
}

// StepResult contains the result of a single step.
type StepResult struct {
	Step     int // Step index
	Name     string
	App      string
	Target   string
	Launched bool
	Waited   time.Duration // delay slept before this step
	Duration time.Duration
	Error    error
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// CancelCheck is consulted between steps; returning true stops the run.
type CancelCheck func() bool

// sequencer implements Sequencer.
type sequencer struct {
	launcher     launcher.Launcher
	defaultDelay time.Duration
	sleep        Sleeper
	canceled     CancelCheck
	observer     Observer
	logger       *slog.Logger
}

// Option configures a sequencer.
type Option func(*sequencer)

// WithDefaultDelay sets the wait used after steps with no delay of their own.
func WithDefaultDelay(d time.Duration) Option {
	return func(s *sequencer) {
		if d >= 0 {
			s.defaultDelay = d
		}
	}
}

// WithSleeper replaces the function used to wait between steps.
func WithSleeper(fn Sleeper) Option {
	return func(s *sequencer) {
		if fn != nil {
			s.sleep = fn
		}
	}
}

// WithCancelCheck installs a check consulted before each step after the first.
func WithCancelCheck(fn CancelCheck) Option {
	return func(s *sequencer) {
		s.canceled = fn
	}
}

// WithObserver receives step events.
func WithObserver(o Observer) Option {
	return func(s *sequencer) {
		s.observer = o
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *sequencer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a sequencer that opens apps with l.
func New(l launcher.Launcher, opts ...Option) Sequencer {
	s := &sequencer{
		launcher:     l,
		defaultDelay: workflows.DefaultDelay,
		sleep:        Sleep,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sleep waits for d, returning early with ctx's error when ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run executes the workflow. Launches that already happened are left alone
// when a later step fails.
func (s *sequencer) Run(ctx context.Context, wf *workflows.Workflow, catalog []apps.AppRecord) (Outcome, error) {
	startTime := time.Now()

	if wf == nil {
		return Outcome{}, &deckerrors.WorkflowError{Op: "run", Err: deckerrors.ErrInvalid}
	}
	if err := wf.Validate(); err != nil {
		return Outcome{Workflow: wf.Name}, &deckerrors.WorkflowError{
			Op:   "run",
			Name: wf.Name,
			Err:  fmt.Errorf("%w: %w", deckerrors.ErrInvalid, err),
		}
	}

	byID := make(map[string]*apps.AppRecord, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}

	result := Outcome{
		Workflow:    wf.Name,
		StepsCount:  len(wf.Steps),
		StepResults: make([]StepResult, 0, len(wf.Steps)),
	}
	log := s.logger.With("workflow", wf.Name)
	log.Info("workflow started", "steps", len(wf.Steps))

	for i, step := range wf.Steps {
		var waited time.Duration
		if i > 0 {
			if s.canceled != nil && s.canceled() {
				return s.cancel(result, startTime, log, i, nil)
			}

			prev := wf.Steps[i-1]
			waited = prev.Delay(s.defaultDelay)
			s.notify(Event{Kind: EventWaiting, Step: i, Total: result.StepsCount, Delay: waited})
			if err := s.sleep(ctx, waited); err != nil {
				return s.cancel(result, startTime, log, i, err)
			}
		}

		stepResult := s.runStep(ctx, i, len(wf.Steps), step, byID)
		stepResult.Waited = waited
		result.StepResults = append(result.StepResults, stepResult)

		if stepResult.Error != nil {
			result.Duration = time.Since(startTime)
			log.Error("step failed", "step", i+1, "app", stepResult.App, "error", stepResult.Error)
			s.notify(Event{Kind: EventStepFailed, Step: i, Total: result.StepsCount, Name: stepResult.Name, App: stepResult.App, Err: stepResult.Error})
			return result, stepResult.Error
		}

		log.Info("step launched", "step", i+1, "app", stepResult.App, "duration", stepResult.Duration)
		s.notify(Event{Kind: EventStepLaunched, Step: i, Total: result.StepsCount, Name: stepResult.Name, App: stepResult.App})
	}

	result.Duration = time.Since(startTime)
	log.Info("workflow finished", "steps", result.StepsCount, "duration", result.Duration)
	s.notify(Event{Kind: EventFinished, Step: len(wf.Steps) - 1, Total: result.StepsCount})
	return result, nil
}

// runStep resolves and launches a single step.
func (s *sequencer) runStep(ctx context.Context, i, total int, step workflows.WorkflowStep, byID map[string]*apps.AppRecord) StepResult {
	start := time.Now()
	res := StepResult{Step: i, Name: step.Name, App: step.AppID}

	app, ok := byID[step.AppID]
	if !ok {
		res.Duration = time.Since(start)
		res.Error = &deckerrors.LaunchError{
			Step:     i,
			StepName: step.Name,
			App:      step.AppID,
			Err:      fmt.Errorf("%w: %w", deckerrors.ErrLaunchFailed, deckerrors.ErrAppNotFound),
		}
		return res
	}

	res.App = app.Name
	if res.Name == "" {
		res.Name = app.Name
	}
	res.Target = app.Target()

	s.notify(Event{Kind: EventStepStarted, Step: i, Total: total, Name: res.Name, App: res.App})

	launched, err := s.launcher.Launch(ctx, res.Target)
	res.Duration = time.Since(start)

	switch {
	case err != nil:
		res.Error = &deckerrors.LaunchError{
			Step: i, StepName: res.Name, App: res.App,
			Err: fmt.Errorf("%w: %w", deckerrors.ErrLaunchFailed, err),
		}
	case !launched:
		res.Error = &deckerrors.LaunchError{
			Step: i, StepName: res.Name, App: res.App,
			Err: deckerrors.ErrLaunchFailed,
		}
	default:
		res.Launched = true
	}
	return res
}

func (s *sequencer) cancel(result Outcome, startTime time.Time, log *slog.Logger, step int, cause error) (Outcome, error) {
	result.Canceled = true
	result.Duration = time.Since(startTime)
	log.Warn("workflow canceled", "before_step", step+1)
	s.notify(Event{Kind: EventCanceled, Step: step, Total: result.StepsCount})

	err := error(deckerrors.ErrCanceled)
	if cause != nil {
		err = fmt.Errorf("%w: %w", deckerrors.ErrCanceled, cause)
	}
	return result, &deckerrors.WorkflowError{Op: "run", Name: result.Workflow, Err: err}
}

func (s *sequencer) notify(e Event) {
	if s.observer != nil {
		s.observer.OnEvent(e)
	}
}
