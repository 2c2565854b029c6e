package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
)

// Command is a host command the shell launcher wants to run.
type Command struct {
	Name string
	Args []string
	// Detach starts the process without waiting for it to exit.
	Detach bool
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// ExecFunc runs a command. Non-zero exits are reported as *ExitError.
type ExecFunc func(ctx context.Context, cmd Command) error

// ExitError is returned when a command ran but exited non-zero.
type ExitError struct {
	Command  string
	ExitCode int
	Output   string
}

func (e *ExitError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s: exit status %d: %s", e.Command, e.ExitCode, e.Output)
	}
	return fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
}

// ShellLauncher opens targets with the host's opener commands.
type ShellLauncher struct {
	goos    string
	browser string
	exec    ExecFunc
	logger  *slog.Logger
}

// Option configures a ShellLauncher.
type Option func(*ShellLauncher)

// WithGOOS overrides the target operating system.
func WithGOOS(goos string) Option {
	return func(l *ShellLauncher) {
		if goos != "" {
			l.goos = goos
		}
	}
}

// WithBrowser opens URLs with the given browser command instead of the
// system opener.
func WithBrowser(browser string) Option {
	return func(l *ShellLauncher) {
		l.browser = browser
	}
}

// WithExec replaces the function that runs commands.
func WithExec(fn ExecFunc) Option {
	return func(l *ShellLauncher) {
		if fn != nil {
			l.exec = fn
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *ShellLauncher) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewShellLauncher creates a launcher for the current OS.
func NewShellLauncher(opts ...Option) *ShellLauncher {
	l := &ShellLauncher{
		goos:   runtime.GOOS,
		exec:   execCommand,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Launch opens target. It waits for the opener to return, not for the app
// to exit.
func (l *ShellLauncher) Launch(ctx context.Context, target string) (bool, error) {
	cmd, err := l.openCommand(target)
	if err != nil {
		return false, err
	}

	l.logger.Debug("launching", "target", target, "command", cmd.String())
	if err := l.exec(ctx, cmd); err != nil {
		return false, err
	}
	return true, nil
}

// Close stops the process behind target. URLs cannot be closed.
func (l *ShellLauncher) Close(ctx context.Context, target string) (bool, error) {
	cmd, ok := l.closeCommand(target)
	if !ok {
		l.logger.Debug("nothing to close", "target", target)
		return false, nil
	}

	l.logger.Debug("closing", "target", target, "command", cmd.String())
	if err := l.exec(ctx, cmd); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			// pkill and taskkill exit non-zero when no process matched
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (l *ShellLauncher) openCommand(target string) (Command, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return Command{}, fmt.Errorf("empty launch target")
	}

	if l.browser != "" && IsURL(target) {
		return Command{Name: l.browser, Args: []string{target}, Detach: true}, nil
	}

	switch l.goos {
	case "windows":
		// The empty argument is start's window title
		return Command{Name: "cmd", Args: []string{"/c", "start", "", target}}, nil
	case "darwin":
		return Command{Name: "open", Args: []string{target}}, nil
	default:
		if IsURL(target) {
			return Command{Name: "xdg-open", Args: []string{target}}, nil
		}
		return Command{Name: target, Detach: true}, nil
	}
}

func (l *ShellLauncher) closeCommand(target string) (Command, bool) {
	target = strings.TrimSpace(target)
	if target == "" || IsURL(target) {
		return Command{}, false
	}

	switch l.goos {
	case "windows":
		exe := baseName(target, `\`)
		if !strings.HasSuffix(strings.ToLower(exe), ".exe") {
			exe += ".exe"
		}
		return Command{Name: "taskkill", Args: []string{"/IM", exe, "/F"}}, true
	case "darwin":
		name := strings.TrimSuffix(baseName(target, "/"), ".app")
		return Command{Name: "pkill", Args: []string{"-x", name}}, true
	default:
		return Command{Name: "pkill", Args: []string{"-f", target}}, true
	}
}

// baseName is filepath.Base for a path written with sep, independent of the
// host OS.
func baseName(p, sep string) string {
	p = strings.TrimRight(p, sep+"/")
	if i := strings.LastIndexAny(p, sep+"/"); i >= 0 {
		return p[i+1:]
	}
	return filepath.Base(p)
}

// execCommand runs cmd on the host.
func execCommand(ctx context.Context, cmd Command) error {
	if cmd.Detach {
		// Not bound to ctx: the app outlives the request that opened it
		c := exec.Command(cmd.Name, cmd.Args...)
		if err := c.Start(); err != nil {
			return fmt.Errorf("failed to start %s: %w", cmd.Name, err)
		}
		go func() { _ = c.Wait() }()
		return nil
	}

	out, err := exec.CommandContext(ctx, cmd.Name, cmd.Args...).CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{
				Command:  cmd.String(),
				ExitCode: exitCode(exitErr),
				Output:   strings.TrimSpace(string(out)),
			}
		}
		return fmt.Errorf("failed to run %s: %w", cmd.Name, err)
	}
	return nil
}

// exitCode extracts the exit code from an exec.ExitError.
func exitCode(err *exec.ExitError) int {
	if status, ok := err.Sys().(syscall.WaitStatus); ok {
		return status.ExitStatus()
	}
	return 1
}
