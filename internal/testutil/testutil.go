// Package testutil provides helper functions for testing.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/chazuruo/launchdeck/internal/apps"
	"github.com/chazuruo/launchdeck/internal/workflows"
)

// WriteFile writes content to name inside dir, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// SeedCatalog writes records to <root>/apps.yaml and each workflow to
// <root>/workflows/<dir>/workflow.yaml, where dir is the workflow ID.
func SeedCatalog(t *testing.T, root string, records []apps.AppRecord, wfs ...*workflows.Workflow) {
	t.Helper()

	data, err := apps.MarshalCatalog(&apps.Catalog{Apps: records})
	if err != nil {
		t.Fatalf("failed to marshal catalog: %v", err)
	}
	WriteFile(t, root, "apps.yaml", string(data))

	for _, wf := range wfs {
		wf.AssignIDs()
		data, err := workflows.MarshalWorkflow(wf)
		if err != nil {
			t.Fatalf("failed to marshal workflow %q: %v", wf.Name, err)
		}
		WriteFile(t, root, filepath.Join("workflows", wf.ID, "workflow.yaml"), string(data))
	}
}

// Apps builds catalog records with IDs equal to their lowercased names.
func Apps(names ...string) []apps.AppRecord {
	out := make([]apps.AppRecord, len(names))
	for i, n := range names {
		out[i] = apps.AppRecord{ID: n, Name: n, URL: "https://" + n + ".example"}
	}
	return out
}

// FakeLauncher records launch and close targets. Targets listed in Fail are
// refused.
type FakeLauncher struct {
	mu       sync.Mutex
	Fail     map[string]error
	Refuse   map[string]bool
	Launched []string
	Closed   []string
}

// Launch records target.
func (f *FakeLauncher) Launch(_ context.Context, target string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Launched = append(f.Launched, target)
	if err := f.Fail[target]; err != nil {
		return false, err
	}
	return !f.Refuse[target], nil
}

// Close records target.
func (f *FakeLauncher) Close(_ context.Context, target string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = append(f.Closed, target)
	if err := f.Fail[target]; err != nil {
		return false, err
	}
	return !f.Refuse[target], nil
}
