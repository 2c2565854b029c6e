package launcher

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazuruo/launchdeck/internal/config"
	"github.com/chazuruo/launchdeck/internal/logging"
)

// recorder captures commands instead of running them.
type recorder struct {
	cmds []Command
	err  error
}

func (r *recorder) exec(_ context.Context, cmd Command) error {
	r.cmds = append(r.cmds, cmd)
	return r.err
}

func newTestLauncher(goos string, rec *recorder, opts ...Option) *ShellLauncher {
	opts = append([]Option{WithGOOS(goos), WithExec(rec.exec), WithLogger(logging.Discard())}, opts...)
	return NewShellLauncher(opts...)
}

func TestShellLauncher_LaunchCommands(t *testing.T) {
	tests := []struct {
		name   string
		goos   string
		target string
		want   Command
	}{
		{"windows url", "windows", "https://slack.com", Command{Name: "cmd", Args: []string{"/c", "start", "", "https://slack.com"}}},
		{"windows path", "windows", `C:\Apps\Code.exe`, Command{Name: "cmd", Args: []string{"/c", "start", "", `C:\Apps\Code.exe`}}},
		{"darwin url", "darwin", "https://figma.com", Command{Name: "open", Args: []string{"https://figma.com"}}},
		{"darwin app", "darwin", "/Applications/Slack.app", Command{Name: "open", Args: []string{"/Applications/Slack.app"}}},
		{"linux url", "linux", "https://notion.so", Command{Name: "xdg-open", Args: []string{"https://notion.so"}}},
		{"linux path", "linux", "/usr/bin/code", Command{Name: "/usr/bin/code", Detach: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			l := newTestLauncher(tt.goos, rec)

			ok, err := l.Launch(context.Background(), tt.target)
			require.NoError(t, err)
			assert.True(t, ok)
			require.Len(t, rec.cmds, 1)
			assert.Equal(t, tt.want, rec.cmds[0])
		})
	}
}

func TestShellLauncher_Browser(t *testing.T) {
	rec := &recorder{}
	l := newTestLauncher("linux", rec, WithBrowser("firefox"))

	_, err := l.Launch(context.Background(), "https://github.com")
	require.NoError(t, err)
	_, err = l.Launch(context.Background(), "/usr/bin/code")
	require.NoError(t, err)

	require.Len(t, rec.cmds, 2)
	assert.Equal(t, Command{Name: "firefox", Args: []string{"https://github.com"}, Detach: true}, rec.cmds[0])
	assert.Equal(t, "/usr/bin/code", rec.cmds[1].Name)
}

func TestShellLauncher_LaunchFailure(t *testing.T) {
	rec := &recorder{err: &ExitError{Command: "xdg-open x", ExitCode: 4}}
	l := newTestLauncher("linux", rec)

	ok, err := l.Launch(context.Background(), "https://example.com")
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 4")

	ok, err = l.Launch(context.Background(), "  ")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestShellLauncher_CloseCommands(t *testing.T) {
	tests := []struct {
		name   string
		goos   string
		target string
		want   Command
	}{
		{"windows", "windows", `C:\Program Files\Slack\slack.exe`, Command{Name: "taskkill", Args: []string{"/IM", "slack.exe", "/F"}}},
		{"windows no ext", "windows", `C:\Tools\spotify`, Command{Name: "taskkill", Args: []string{"/IM", "spotify.exe", "/F"}}},
		{"darwin", "darwin", "/Applications/Discord.app", Command{Name: "pkill", Args: []string{"-x", "Discord"}}},
		{"linux", "linux", "/usr/bin/code", Command{Name: "pkill", Args: []string{"-f", "/usr/bin/code"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			l := newTestLauncher(tt.goos, rec)

			ok, err := l.Close(context.Background(), tt.target)
			require.NoError(t, err)
			assert.True(t, ok)
			require.Len(t, rec.cmds, 1)
			assert.Equal(t, tt.want, rec.cmds[0])
		})
	}
}

func TestShellLauncher_CloseURLAndNoProcess(t *testing.T) {
	rec := &recorder{}
	l := newTestLauncher("linux", rec)

	ok, err := l.Close(context.Background(), "https://slack.com")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, rec.cmds)

	rec.err = &ExitError{Command: "pkill", ExitCode: 1}
	ok, err = l.Close(context.Background(), "/usr/bin/slack")
	require.NoError(t, err)
	assert.False(t, ok)

	rec.err = errors.New("pkill not installed")
	ok, err = l.Close(context.Background(), "/usr/bin/slack")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://slack.com"))
	assert.True(t, IsURL("slack://open"))
	assert.True(t, IsURL("mailto:me@example.com"))
	assert.False(t, IsURL("/usr/bin/code"))
	assert.False(t, IsURL(`C:\Apps\Code.exe`))
	assert.False(t, IsURL("code"))
}

func TestDryRunLauncher(t *testing.T) {
	var buf bytes.Buffer
	d := NewDryRunLauncher(&buf)

	ok, err := d.Launch(context.Background(), "https://slack.com")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = d.Close(context.Background(), "/usr/bin/code")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, []string{"https://slack.com"}, d.Launched())
	assert.Equal(t, []string{"/usr/bin/code"}, d.Closed())
	assert.Equal(t, "would launch https://slack.com\nwould close /usr/bin/code\n", buf.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, err = d.Launch(ctx, "x")
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	l, err := New(config.LauncherConfig{Mode: config.LauncherModeDryRun}, nil)
	require.NoError(t, err)
	assert.IsType(t, &DryRunLauncher{}, l)

	l, err = New(config.LauncherConfig{Mode: config.LauncherModeShell, Browser: "firefox"}, nil)
	require.NoError(t, err)
	shell, ok := l.(*ShellLauncher)
	require.True(t, ok)
	assert.Equal(t, "firefox", shell.browser)

	_, err = New(config.LauncherConfig{Mode: "teleport"}, nil)
	assert.Error(t, err)
}
