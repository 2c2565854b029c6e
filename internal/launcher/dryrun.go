package launcher

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// DryRunLauncher records targets and prints what it would do.
type DryRunLauncher struct {
	mu       sync.Mutex
	w        io.Writer
	launched []string
	closed   []string
}

// NewDryRunLauncher creates a dry-run launcher writing to w. A nil w discards output.
func NewDryRunLauncher(w io.Writer) *DryRunLauncher {
	if w == nil {
		w = io.Discard
	}
	return &DryRunLauncher{w: w}
}

// Launch records target.
func (d *DryRunLauncher) Launch(ctx context.Context, target string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.launched = append(d.launched, target)
	fmt.Fprintf(d.w, "would launch %s\n", target)
	return true, nil
}

// Close records target.
func (d *DryRunLauncher) Close(ctx context.Context, target string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = append(d.closed, target)
	fmt.Fprintf(d.w, "would close %s\n", target)
	return true, nil
}

// Launched returns the targets launched so far.
func (d *DryRunLauncher) Launched() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.launched...)
}

// Closed returns the targets closed so far.
func (d *DryRunLauncher) Closed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.closed...)
}
