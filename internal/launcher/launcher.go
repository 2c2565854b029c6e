// Package launcher opens and closes catalog apps on the host.
package launcher

import (
	"context"
	"fmt"
	"io"

	"github.com/chazuruo/launchdeck/internal/apps"
	"github.com/chazuruo/launchdeck/internal/config"
)

// Launcher opens and closes launch targets (a URL or a local executable path).
//
// Launch reports false with a nil error when the host declined without an
// error to show. Close reports false with a nil error when nothing was
// running to close.
type Launcher interface {
	Launch(ctx context.Context, target string) (bool, error)
	Close(ctx context.Context, target string) (bool, error)
}

// New returns the launcher selected by cfg.Mode. Dry-run output goes to w.
func New(cfg config.LauncherConfig, w io.Writer, opts ...Option) (Launcher, error) {
	switch cfg.Mode {
	case config.LauncherModeShell, "":
		if cfg.Browser != "" {
			opts = append([]Option{WithBrowser(cfg.Browser)}, opts...)
		}
		return NewShellLauncher(opts...), nil
	case config.LauncherModeDryRun:
		return NewDryRunLauncher(w), nil
	default:
		return nil, fmt.Errorf("unknown launcher mode %q", cfg.Mode)
	}
}

// IsURL reports whether target looks like a URL rather than a filesystem path.
func IsURL(target string) bool {
	return apps.IsURL(target)
}
