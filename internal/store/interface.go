// Package store persists the app catalog and workflows on the local
// filesystem and keeps an in-memory snapshot of them.
package store

import (
	"context"

	"github.com/chazuruo/launchdeck/internal/apps"
	"github.com/chazuruo/launchdeck/internal/workflows"
)

// Store defines the interface for catalog persistence operations.
type Store interface {
	// ListApps returns every app ordered by creation time.
	ListApps(ctx context.Context) ([]apps.AppRecord, error)

	// SaveApp adds an app, or replaces one with the same ID when Force is set.
	SaveApp(ctx context.Context, app *apps.AppRecord, opts SaveOptions) error

	// DeleteApp removes the app with the given ID.
	DeleteApp(ctx context.Context, id string) error

	// ListWorkflows returns workflow references matching the given filter.
	// If filter is empty, returns all workflows.
	ListWorkflows(ctx context.Context, filter Filter) ([]WorkflowRef, error)

	// LoadWorkflow reads a workflow from the store by its reference.
	LoadWorkflow(ctx context.Context, ref WorkflowRef) (*workflows.Workflow, error)

	// SaveWorkflow writes a workflow to the store.
	// Returns the reference to the saved workflow.
	SaveWorkflow(ctx context.Context, wf *workflows.Workflow, opts SaveOptions) (WorkflowRef, error)

	// DeleteWorkflow removes a workflow from the store.
	DeleteWorkflow(ctx context.Context, ref WorkflowRef) error
}

// SaveOptions contains options for saving an app or workflow.
type SaveOptions struct {
	// Force allows overwriting an existing entry with the same ID or name.
	Force bool
}
