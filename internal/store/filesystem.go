package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/chazuruo/launchdeck/internal/apps"
	deckerrors "github.com/chazuruo/launchdeck/internal/errors"
	"github.com/chazuruo/launchdeck/internal/workflows"
)

const (
	// AppsFile is the catalog file name inside the store root.
	AppsFile = "apps.yaml"

	// WorkflowsDir is the directory holding one sub-directory per workflow.
	WorkflowsDir = "workflows"

	// LockFile guards writes from concurrent launchdeck processes.
	LockFile = ".launchdeck.lock"

	workflowFile = "workflow.yaml"

	lockRetry = 25 * time.Millisecond
)

// FileSystemStore implements the Store interface using the filesystem.
//
// Layout:
//
//	<root>/apps.yaml
//	<root>/workflows/<slug>/workflow.yaml
type FileSystemStore struct {
	root   string
	mu     sync.Mutex // serializes writers in this process
	now    func() time.Time
	logger *slog.Logger
}

// FSOption configures a FileSystemStore.
type FSOption func(*FileSystemStore)

// WithClock sets the time source used for new apps.
func WithClock(now func() time.Time) FSOption {
	return func(s *FileSystemStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStoreLogger sets the logger.
func WithStoreLogger(logger *slog.Logger) FSOption {
	return func(s *FileSystemStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewFileSystemStore creates a store rooted at root.
func NewFileSystemStore(root string, opts ...FSOption) (*FileSystemStore, error) {
	if root == "" {
		return nil, fmt.Errorf("store root cannot be empty")
	}

	s := &FileSystemStore{
		root:   root,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Root returns the store directory.
func (s *FileSystemStore) Root() string {
	return s.root
}

// lock takes the in-process mutex and the catalog file lock. The returned
// function releases both.
func (s *FileSystemStore) lock(ctx context.Context) (func(), error) {
	s.mu.Lock()

	if err := os.MkdirAll(s.root, 0755); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: failed to create store root: %w", deckerrors.ErrIO, err)
	}

	fl := flock.New(filepath.Join(s.root, LockFile))
	locked, err := fl.TryLockContext(ctx, lockRetry)
	if err != nil || !locked {
		s.mu.Unlock()
		if err == nil {
			err = ctx.Err()
		}
		return nil, fmt.Errorf("%w: failed to lock catalog: %w", deckerrors.ErrIO, err)
	}

	return func() {
		if err := fl.Unlock(); err != nil {
			s.logger.Warn("failed to unlock catalog", "error", err)
		}
		s.mu.Unlock()
	}, nil
}

func (s *FileSystemStore) appsPath() string {
	return filepath.Join(s.root, AppsFile)
}

func (s *FileSystemStore) workflowsRoot() string {
	return filepath.Join(s.root, WorkflowsDir)
}

// ListApps returns every valid app ordered by creation time. Apps created at
// the same instant keep their file order. Invalid entries are skipped with a
// warning and left untouched on disk.
func (s *FileSystemStore) ListApps(ctx context.Context) ([]apps.AppRecord, error) {
	catalog, err := s.readCatalog()
	if err != nil {
		return nil, err
	}

	records, problems := catalog.Valid()
	for _, problem := range problems {
		s.logger.Warn("skipping app", "path", s.appsPath(), "error", problem)
	}
	for i := range records {
		// Hand-edited entries without an ID are addressed by their slug
		if records[i].ID == "" {
			records[i].ID = Slugify(records[i].Name)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

// SaveApp adds app to the catalog. An app with the same ID or the same
// name (case-insensitive) is only replaced when opts.Force is set.
func (s *FileSystemStore) SaveApp(ctx context.Context, app *apps.AppRecord, opts SaveOptions) error {
	if app == nil {
		return fmt.Errorf("%w: nil app", deckerrors.ErrInvalid)
	}

	app.Normalize(s.now())
	if err := app.Validate(); err != nil {
		return fmt.Errorf("%w: %w", deckerrors.ErrInvalid, err)
	}

	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	catalog, err := s.readCatalog()
	if err != nil {
		return err
	}

	idx := slices.IndexFunc(catalog.Apps, func(a apps.AppRecord) bool {
		return a.ID == app.ID || strings.EqualFold(a.Name, app.Name)
	})
	switch {
	case idx >= 0 && !opts.Force:
		return fmt.Errorf("app %q: %w", app.Name, deckerrors.ErrAlreadyExists)
	case idx >= 0:
		// Keep the original position in creation order
		app.CreatedAt = catalog.Apps[idx].CreatedAt
		app.ID = catalog.Apps[idx].ID
		catalog.Apps[idx] = *app
	default:
		catalog.Apps = append(catalog.Apps, *app)
	}

	if err := s.writeCatalog(catalog); err != nil {
		return err
	}
	s.logger.Debug("app saved", "id", app.ID, "name", app.Name)
	return nil
}

// DeleteApp removes the app with the given ID.
func (s *FileSystemStore) DeleteApp(ctx context.Context, id string) error {
	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	catalog, err := s.readCatalog()
	if err != nil {
		return err
	}

	idx := slices.IndexFunc(catalog.Apps, func(a apps.AppRecord) bool {
		return a.ID == id || (a.ID == "" && Slugify(a.Name) == id)
	})
	if idx < 0 {
		return fmt.Errorf("app %q: %w", id, deckerrors.ErrNotFound)
	}
	catalog.Apps = slices.Delete(catalog.Apps, idx, idx+1)

	return s.writeCatalog(catalog)
}

func (s *FileSystemStore) readCatalog() (*apps.Catalog, error) {
	data, err := os.ReadFile(s.appsPath())
	if errors.Is(err, fs.ErrNotExist) {
		return &apps.Catalog{SchemaVersion: apps.SchemaVersion}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read catalog: %w", deckerrors.ErrIO, err)
	}
	return apps.UnmarshalCatalog(data)
}

func (s *FileSystemStore) writeCatalog(catalog *apps.Catalog) error {
	data, err := apps.MarshalCatalog(catalog)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.appsPath(), data)
}

// ListWorkflows returns workflow references matching the given filter,
// ordered by name. Unreadable workflow files are skipped with a warning.
func (s *FileSystemStore) ListWorkflows(ctx context.Context, filter Filter) ([]WorkflowRef, error) {
	var refs []WorkflowRef

	root := s.workflowsRoot()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == root {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || (d.Name() != workflowFile && d.Name() != "workflow.yml") {
			return nil
		}

		ref, err := s.pathToRef(path)
		if err != nil {
			s.logger.Warn("skipping workflow", "path", path, "error", err)
			return nil
		}
		if filter.Match(ref) {
			refs = append(refs, ref)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list workflows: %w", deckerrors.ErrIO, err)
	}

	sort.SliceStable(refs, func(i, j int) bool {
		return strings.ToLower(refs[i].Name) < strings.ToLower(refs[j].Name)
	})
	return refs, nil
}

// LoadWorkflow reads a workflow from the store by its reference.
func (s *FileSystemStore) LoadWorkflow(ctx context.Context, ref WorkflowRef) (*workflows.Workflow, error) {
	wf, err := workflows.LoadYAML(ref.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &deckerrors.WorkflowError{Op: "load", Name: ref.Name, Err: deckerrors.ErrWorkflowNotFound}
	}
	if err != nil {
		return nil, &deckerrors.WorkflowError{Op: "load", Name: ref.Name, Err: err}
	}
	return wf, nil
}

// SaveWorkflow writes a workflow to the store. A workflow with the same ID
// is rewritten in place; one with the same name is only replaced when
// opts.Force is set.
func (s *FileSystemStore) SaveWorkflow(ctx context.Context, wf *workflows.Workflow, opts SaveOptions) (WorkflowRef, error) {
	if wf == nil {
		return WorkflowRef{}, &deckerrors.WorkflowError{Op: "save", Err: deckerrors.ErrInvalid}
	}
	wf.Name = strings.TrimSpace(wf.Name)
	if err := wf.Validate(); err != nil {
		return WorkflowRef{}, &deckerrors.WorkflowError{Op: "save", Name: wf.Name, Err: fmt.Errorf("%w: %w", deckerrors.ErrInvalid, err)}
	}

	unlock, err := s.lock(ctx)
	if err != nil {
		return WorkflowRef{}, err
	}
	defer unlock()

	existing, err := s.ListWorkflows(ctx, Filter{})
	if err != nil {
		return WorkflowRef{}, err
	}

	slug := ""
	slugs := make([]string, 0, len(existing))
	for _, ref := range existing {
		slugs = append(slugs, ref.Slug)
		switch {
		case wf.ID != "" && ref.ID == wf.ID:
			slug = ref.Slug
		case strings.EqualFold(ref.Name, wf.Name) && ref.ID != wf.ID:
			if !opts.Force {
				return WorkflowRef{}, &deckerrors.WorkflowError{Op: "save", Name: wf.Name, Err: deckerrors.ErrAlreadyExists}
			}
			slug = ref.Slug
			if wf.ID == "" {
				wf.ID = ref.ID
			}
		}
	}
	if slug == "" {
		slug = GenerateUniqueSlug(wf.Name, slugs)
	}

	wf.AssignIDs()
	data, err := workflows.MarshalWorkflow(wf)
	if err != nil {
		return WorkflowRef{}, &deckerrors.WorkflowError{Op: "save", Name: wf.Name, Err: err}
	}

	dirPath := filepath.Join(s.workflowsRoot(), slug)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return WorkflowRef{}, fmt.Errorf("%w: failed to create directory: %w", deckerrors.ErrIO, err)
	}

	workflowPath := filepath.Join(dirPath, workflowFile)
	if err := writeFileAtomic(workflowPath, data); err != nil {
		return WorkflowRef{}, err
	}
	s.logger.Debug("workflow saved", "name", wf.Name, "slug", slug)

	return WorkflowRef{
		ID:        wf.ID,
		Name:      wf.Name,
		Slug:      slug,
		Path:      workflowPath,
		UpdatedAt: s.now(),
	}, nil
}

// DeleteWorkflow removes a workflow directory from the store.
func (s *FileSystemStore) DeleteWorkflow(ctx context.Context, ref WorkflowRef) error {
	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := os.Stat(ref.Path); errors.Is(err, fs.ErrNotExist) {
		return &deckerrors.WorkflowError{Op: "delete", Name: ref.Name, Err: deckerrors.ErrWorkflowNotFound}
	}

	if err := os.RemoveAll(filepath.Dir(ref.Path)); err != nil {
		return &deckerrors.WorkflowError{Op: "delete", Name: ref.Name, Err: fmt.Errorf("%w: %w", deckerrors.ErrIO, err)}
	}
	return nil
}

// pathToRef loads the workflow at path into a WorkflowRef.
func (s *FileSystemStore) pathToRef(path string) (WorkflowRef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return WorkflowRef{}, err
	}

	wf, err := workflows.LoadYAML(path)
	if err != nil {
		return WorkflowRef{}, err
	}

	ref := WorkflowRef{
		ID:        wf.ID,
		Name:      wf.Name,
		Slug:      filepath.Base(filepath.Dir(path)),
		Path:      path,
		Steps:     len(wf.Steps),
		UpdatedAt: info.ModTime(),
	}
	for _, step := range wf.Steps {
		if !slices.Contains(ref.AppIDs, step.AppID) {
			ref.AppIDs = append(ref.AppIDs, step.AppID)
		}
	}
	return ref, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place so watchers never see a half-written file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %w", deckerrors.ErrIO, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %w", deckerrors.ErrIO, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: failed to write %s: %w", deckerrors.ErrIO, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to write %s: %w", deckerrors.ErrIO, path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("%w: failed to write %s: %w", deckerrors.ErrIO, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: failed to write %s: %w", deckerrors.ErrIO, path, err)
	}
	return nil
}
