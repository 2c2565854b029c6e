package store

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazuruo/launchdeck/internal/apps"
	"github.com/chazuruo/launchdeck/internal/logging"
	"github.com/chazuruo/launchdeck/internal/testutil"
	"github.com/chazuruo/launchdeck/internal/workflows"
)

func TestSnapshotter_Reload(t *testing.T) {
	root := t.TempDir()
	testutil.SeedCatalog(t, root, testutil.Apps("Slack", "Zoom"),
		&workflows.Workflow{Name: "Standup", Steps: []workflows.WorkflowStep{{AppID: "Zoom"}}})

	st, err := NewFileSystemStore(root, WithStoreLogger(logging.Discard()))
	require.NoError(t, err)

	var reloads atomic.Int32
	snap := NewSnapshotter(st, OnReload(func(Snapshot) { reloads.Add(1) }), WithSnapshotLogger(logging.Discard()))
	assert.False(t, snap.Current().Loaded)

	require.NoError(t, snap.Reload(context.Background()))
	cur := snap.Current()
	assert.True(t, cur.Loaded)
	assert.Len(t, cur.Apps, 2)
	assert.Equal(t, []string{"Standup"}, cur.WorkflowNames())
	assert.Equal(t, int32(1), reloads.Load())

	app, ok := cur.AppByID("Zoom")
	require.True(t, ok)
	assert.Equal(t, "Zoom", app.Name)
	_, ok = cur.AppByID("nope")
	assert.False(t, ok)

	wf, ok := cur.WorkflowByName("  standup ")
	require.True(t, ok)
	assert.Equal(t, "Standup", wf.Name)
	_, ok = cur.WorkflowByName("stand")
	assert.False(t, ok)
}

func TestSnapshotter_ReloadKeepsPreviousOnError(t *testing.T) {
	root := t.TempDir()
	testutil.SeedCatalog(t, root, testutil.Apps("Slack"))

	st, err := NewFileSystemStore(root, WithStoreLogger(logging.Discard()))
	require.NoError(t, err)
	snap := NewSnapshotter(st, WithSnapshotLogger(logging.Discard()))
	require.NoError(t, snap.Reload(context.Background()))

	testutil.WriteFile(t, root, AppsFile, "apps: [broken")
	assert.Error(t, snap.Reload(context.Background()))

	cur := snap.Current()
	assert.True(t, cur.Loaded)
	assert.Len(t, cur.Apps, 1)
}

// vanishingStore deletes a workflow file right before loading it.
type vanishingStore struct {
	*FileSystemStore
	victim string
}

func (v *vanishingStore) LoadWorkflow(ctx context.Context, ref WorkflowRef) (*workflows.Workflow, error) {
	if ref.Name == v.victim {
		if err := os.Remove(ref.Path); err != nil {
			return nil, err
		}
	}
	return v.FileSystemStore.LoadWorkflow(ctx, ref)
}

func TestLoadSnapshot_WorkflowDeletedDuringLoad(t *testing.T) {
	root := t.TempDir()
	testutil.SeedCatalog(t, root, testutil.Apps("Slack", "Zoom"),
		&workflows.Workflow{Name: "Standup", Steps: []workflows.WorkflowStep{{AppID: "Zoom"}}},
		&workflows.Workflow{Name: "Chat", Steps: []workflows.WorkflowStep{{AppID: "Slack"}}})

	fs, err := NewFileSystemStore(root, WithStoreLogger(logging.Discard()))
	require.NoError(t, err)

	snap, err := LoadSnapshot(context.Background(), &vanishingStore{FileSystemStore: fs, victim: "Standup"})
	require.NoError(t, err)
	assert.True(t, snap.Loaded)
	assert.Equal(t, []string{"Chat"}, snap.WorkflowNames())
}

func TestLoadSnapshot_SkipsInvalidApps(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, AppsFile, `schema_version: 1
apps:
  - {id: obsidian, name: Obsidian, url: "obsidian://open?vault=notes"}
  - {id: ghost, name: Ghost}
  - {id: slack, name: Slack, url: https://app.slack.com}
`)

	st, err := NewFileSystemStore(root, WithStoreLogger(logging.Discard()))
	require.NoError(t, err)

	snap, err := LoadSnapshot(context.Background(), st)
	require.NoError(t, err)
	assert.True(t, snap.Loaded)
	require.Len(t, snap.Apps, 2)
	assert.Equal(t, "Obsidian", snap.Apps[0].Name)
	assert.Equal(t, "Slack", snap.Apps[1].Name)

	// Saving another app leaves the broken entry for the user to fix
	require.NoError(t, st.SaveApp(context.Background(), &apps.AppRecord{Name: "Zoom", URL: "zoommtg://zoom.us/join"}, SaveOptions{}))
	data, err := os.ReadFile(st.appsPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Ghost")

	records, err := st.ListApps(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestSnapshotter_Watch(t *testing.T) {
	root := t.TempDir()
	testutil.SeedCatalog(t, root, testutil.Apps("Slack"))

	st, err := NewFileSystemStore(root, WithStoreLogger(logging.Discard()))
	require.NoError(t, err)
	snap := NewSnapshotter(st, WithSnapshotLogger(logging.Discard()))
	require.NoError(t, snap.Reload(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- snap.Watch(ctx, root, 20*time.Millisecond) }()

	// Writes may land before the watcher registers; keep rewriting.
	require.Eventually(t, func() bool {
		testutil.SeedCatalog(t, root, testutil.Apps("Slack", "Zoom"))
		return len(snap.Current().Apps) == 2
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestIsCatalogFile(t *testing.T) {
	assert.True(t, isCatalogFile("/x/apps.yaml"))
	assert.True(t, isCatalogFile("/x/workflows/a/workflow.yaml"))
	assert.False(t, isCatalogFile("/x/.apps.yaml.123.tmp"))
	assert.False(t, isCatalogFile("/x/notes.txt"))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Morning Routine", "morning-routine"},
		{"Café & Code!", "cafe-code"},
		{"  --Deep   Work--  ", "deep-work"},
		{"", ""},
		{"!!!", ""},
		{"a very long workflow name that keeps going and going past the limit", "a-very-long-workflow-name-that-keeps-going-and"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestGenerateUniqueSlug(t *testing.T) {
	assert.Equal(t, "standup", GenerateUniqueSlug("Standup", nil))
	assert.Equal(t, "standup-2", GenerateUniqueSlug("Standup", []string{"standup", "standup-1"}))
	assert.Equal(t, "workflow", GenerateUniqueSlug("???", nil))
}
