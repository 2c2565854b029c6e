package store

import (
	"slices"
	"strings"
	"time"
)

// WorkflowRef identifies a workflow file without keeping the whole workflow.
type WorkflowRef struct {
	ID   string
	Name string

	// Slug is the directory name under workflows/.
	Slug string

	// Path is the full path to the workflow.yaml file.
	Path string

	Steps int

	// AppIDs are the distinct apps the steps launch, in step order.
	AppIDs []string

	UpdatedAt time.Time
}

// Filter narrows ListWorkflows. Zero fields match everything.
type Filter struct {
	// Search is a case-insensitive substring of the workflow name.
	Search string

	// AppID keeps workflows with at least one step launching this app.
	AppID string
}

// Match reports whether ref passes every set criterion.
func (f Filter) Match(ref WorkflowRef) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" && !strings.Contains(strings.ToLower(ref.Name), q) {
		return false
	}
	if f.AppID != "" && !slices.Contains(ref.AppIDs, f.AppID) {
		return false
	}
	return true
}
