package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chazuruo/launchdeck/internal/apps"
	deckerrors "github.com/chazuruo/launchdeck/internal/errors"
	"github.com/chazuruo/launchdeck/internal/workflows"
)

// Snapshot is a consistent view of the catalog at one point in time.
// The zero value is not loaded.
type Snapshot struct {
	Apps      []apps.AppRecord // ordered by creation time
	Workflows []*workflows.Workflow
	Loaded    bool
	LoadedAt  time.Time
}

// LoadSnapshot reads every app and workflow from st.
func LoadSnapshot(ctx context.Context, st Store) (Snapshot, error) {
	records, err := st.ListApps(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to list apps: %w", err)
	}

	refs, err := st.ListWorkflows(ctx, Filter{})
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to list workflows: %w", err)
	}

	wfs := make([]*workflows.Workflow, 0, len(refs))
	for _, ref := range refs {
		wf, err := st.LoadWorkflow(ctx, ref)
		if deckerrors.IsWorkflowNotFound(err) {
			// Deleted since it was listed; the next reload settles it
			continue
		}
		if err != nil {
			return Snapshot{}, err
		}
		wfs = append(wfs, wf)
	}

	return Snapshot{
		Apps:      records,
		Workflows: wfs,
		Loaded:    true,
		LoadedAt:  time.Now(),
	}, nil
}

// AppByID returns the app with the given ID.
func (s Snapshot) AppByID(id string) (*apps.AppRecord, bool) {
	for i := range s.Apps {
		if s.Apps[i].ID == id {
			return &s.Apps[i], true
		}
	}
	return nil, false
}

// WorkflowNames returns the workflow names in snapshot order.
func (s Snapshot) WorkflowNames() []string {
	names := make([]string, len(s.Workflows))
	for i, wf := range s.Workflows {
		names[i] = wf.Name
	}
	return names
}

// WorkflowByName returns the workflow whose name equals name, ignoring case.
func (s Snapshot) WorkflowByName(name string) (*workflows.Workflow, bool) {
	name = strings.TrimSpace(name)
	for _, wf := range s.Workflows {
		if strings.EqualFold(wf.Name, name) {
			return wf, true
		}
	}
	return nil, false
}

// Snapshotter holds the latest snapshot of a store and reloads it on demand.
// It is safe for concurrent use.
type Snapshotter struct {
	store    Store
	mu       sync.RWMutex
	snap     Snapshot
	onReload func(Snapshot)
	logger   *slog.Logger
}

// SnapshotOption configures a Snapshotter.
type SnapshotOption func(*Snapshotter)

// OnReload registers fn to be called after every successful reload.
func OnReload(fn func(Snapshot)) SnapshotOption {
	return func(s *Snapshotter) {
		s.onReload = fn
	}
}

// WithSnapshotLogger sets the logger.
func WithSnapshotLogger(logger *slog.Logger) SnapshotOption {
	return func(s *Snapshotter) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSnapshotter creates a Snapshotter. Its snapshot is not loaded until
// Reload succeeds.
func NewSnapshotter(st Store, opts ...SnapshotOption) *Snapshotter {
	s := &Snapshotter{
		store:  st,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the latest snapshot.
func (s *Snapshotter) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Reload reads the store and replaces the snapshot. On error the previous
// snapshot is kept.
func (s *Snapshotter) Reload(ctx context.Context) error {
	snap, err := LoadSnapshot(ctx, s.store)
	if err != nil {
		s.logger.Warn("snapshot reload failed", "error", err)
		return err
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	s.logger.Debug("snapshot reloaded", "apps", len(snap.Apps), "workflows", len(snap.Workflows))
	if s.onReload != nil {
		s.onReload(snap)
	}
	return nil
}
