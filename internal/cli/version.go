package cli

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// VersionInfo describes the running binary.
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	BuiltBy string `json:"built_by"`
	Go      string `json:"go_version"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

// VersionOptions contains the options for the version command.
type VersionOptions struct {
	Short bool
	JSON  bool
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date, builtBy string) *cobra.Command {
	opts := &VersionOptions{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := newVersionInfo(version, commit, date, builtBy)
			return runVersion(cmd.OutOrStdout(), opts, info)
		},
	}

	cmd.Flags().BoolVar(&opts.Short, "short", false, "print only the version number")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "output in JSON format")

	return cmd
}

// newVersionInfo fills commit and date from the module build info when
// the binary was built without ldflags (go install).
func newVersionInfo(version, commit, date, builtBy string) VersionInfo {
	info := VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
		BuiltBy: builtBy,
		Go:      runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && unset(info.Commit):
			info.Commit = s.Value
		case s.Key == "vcs.time" && unset(info.Date):
			info.Date = s.Value
		}
	}
	return info
}

func unset(v string) bool {
	return v == "" || v == "unknown"
}

func runVersion(w io.Writer, opts *VersionOptions, info VersionInfo) error {
	switch {
	case opts.JSON:
		return writeJSON(w, info)
	case opts.Short:
		_, err := fmt.Fprintln(w, info.Version)
		return err
	}

	commit, date := info.Commit, info.Date
	if unset(commit) {
		commit = "unknown commit"
	}
	if unset(date) {
		date = "unknown date"
	}
	fmt.Fprintf(w, "launchdeck %s (%s, %s)\n", info.Version, commit, date)
	fmt.Fprintf(w, "%s %s/%s", info.Go, info.OS, info.Arch)
	if !unset(info.BuiltBy) {
		fmt.Fprintf(w, ", built by %s", info.BuiltBy)
	}
	fmt.Fprintln(w)
	return nil
}
