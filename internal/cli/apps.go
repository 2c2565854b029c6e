package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/chazuruo/launchdeck/internal/apps"
	deckerrors "github.com/chazuruo/launchdeck/internal/errors"
	"github.com/chazuruo/launchdeck/internal/store"
)

// NewAppsCommand creates the apps command group.
func NewAppsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "apps",
		Aliases: []string{"app"},
		Short:   "Manage the app catalog",
	}

	cmd.AddCommand(newAppsListCommand())
	cmd.AddCommand(newAppsAddCommand())
	cmd.AddCommand(newAppsRemoveCommand())
	cmd.AddCommand(newAppsSearchCommand())

	return cmd
}

// AppsListOptions contains the options for apps list.
type AppsListOptions struct {
	Format   string
	Category string
}

func newAppsListCommand() *cobra.Command {
	opts := &AppsListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List apps in the catalog",
		Long: `List every app in the catalog in the order it was added.

Examples:
  launchdeck apps list
  launchdeck apps list --category development
  launchdeck apps list --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAppsList(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", string(FormatTable), "output format: table, json, plain")
	cmd.Flags().StringVar(&opts.Category, "category", "", "only show apps in this category")

	return cmd
}

func runAppsList(cmd *cobra.Command, opts *AppsListOptions) error {
	format, err := parseFormat(opts.Format)
	if err != nil {
		return err
	}

	e, err := loadEnv(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	records, err := e.Store.ListApps(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list apps: %w", err)
	}

	if opts.Category != "" {
		filtered := records[:0]
		for _, app := range records {
			if strings.EqualFold(app.Category, opts.Category) {
				filtered = append(filtered, app)
			}
		}
		records = filtered
	}

	return printApps(cmd.OutOrStdout(), format, records)
}

func printApps(w io.Writer, format OutputFormat, records []apps.AppRecord) error {
	switch format {
	case FormatJSON:
		if records == nil {
			records = []apps.AppRecord{}
		}
		return writeJSON(w, records)
	case FormatPlain:
		for _, app := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\n", app.Name, app.Category, app.Target())
		}
		return nil
	default:
		if len(records) == 0 {
			fmt.Fprintln(w, "No apps yet. Add one with 'launchdeck apps add'.")
			return nil
		}
		tbl := newTable(w, "Name", "Category", "Target", "ID")
		for _, app := range records {
			tbl.AddRow(app.Name, app.Category, app.Target(), app.ID)
		}
		tbl.Print()
		return nil
	}
}

// AppsAddOptions contains the options for apps add.
type AppsAddOptions struct {
	Name        string
	URL         string
	Path        string
	Category    string
	Description string
	Tags        []string
	Offline     bool
	Force       bool
}

func newAppsAddCommand() *cobra.Command {
	opts := &AppsAddOptions{}

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add an app or website to the catalog",
		Long: `Add an app or website to the catalog.

Without --name (or a positional name) an interactive form is shown. The
category is guessed from the name and URL when not given.

Examples:
  launchdeck apps add Slack --url https://app.slack.com
  launchdeck apps add --name "VS Code" --path /usr/bin/code
  launchdeck apps add Notion --url https://notion.so --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Name = args[0]
			}
			return runAppsAdd(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "display name")
	cmd.Flags().StringVar(&opts.URL, "url", "", "website or app URL")
	cmd.Flags().StringVar(&opts.Path, "path", "", "local executable path")
	cmd.Flags().StringVar(&opts.Category, "category", "", "category (default: guessed)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "short description")
	cmd.Flags().StringSliceVar(&opts.Tags, "tag", nil, "tag (repeatable)")
	cmd.Flags().BoolVar(&opts.Offline, "offline", false, "app works without a network connection")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "replace an app with the same name")

	return cmd
}

func runAppsAdd(cmd *cobra.Command, opts *AppsAddOptions) error {
	e, err := loadEnv(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if opts.Name == "" {
		if !e.interactive() {
			return fmt.Errorf("--name is required in non-interactive mode")
		}
		if err := runAppForm(opts); err != nil {
			return err
		}
	}

	app := &apps.AppRecord{
		Name:           opts.Name,
		URL:            opts.URL,
		Path:           opts.Path,
		Category:       opts.Category,
		Description:    opts.Description,
		Tags:           opts.Tags,
		OfflineCapable: opts.Offline,
	}

	if err := e.Store.SaveApp(cmd.Context(), app, store.SaveOptions{Force: opts.Force}); err != nil {
		if deckerrors.IsAlreadyExists(err) {
			return fmt.Errorf("%w (use --force to replace it)", err)
		}
		return fmt.Errorf("failed to save app: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) as %s\n", app.Name, app.Category, app.ID)
	return nil
}

func runAppForm(opts *AppsAddOptions) error {
	var tags string
	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&opts.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("URL").
				Description("Website or app link; leave empty for a local app").
				Value(&opts.URL),
			huh.NewInput().
				Title("Path").
				Description("Local executable; leave empty for a website").
				Value(&opts.Path),
			huh.NewInput().
				Title("Description").
				Value(&opts.Description),
			huh.NewInput().
				Title("Tags").
				Description("Comma separated").
				Value(&tags),
		),
	).Run(); err != nil {
		return fmt.Errorf("form error: %w", err)
	}

	for _, tag := range strings.Split(tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			opts.Tags = append(opts.Tags, tag)
		}
	}
	return nil
}

func newAppsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name-or-id>",
		Aliases: []string{"rm"},
		Short:   "Remove an app from the catalog",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAppsRemove(cmd, strings.Join(args, " "))
		},
	}
}

func runAppsRemove(cmd *cobra.Command, query string) error {
	e, err := loadEnv(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	records, err := e.Store.ListApps(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list apps: %w", err)
	}

	app, err := findApp(query, records)
	if err != nil {
		return err
	}

	if err := e.Store.DeleteApp(cmd.Context(), app.ID); err != nil {
		return fmt.Errorf("failed to remove %s: %w", app.Name, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", app.Name)

	refs, err := e.Store.ListWorkflows(cmd.Context(), store.Filter{AppID: app.ID})
	if err != nil {
		e.Logger.Warn("failed to check workflows", "app", app.Name, "error", err)
		return nil
	}
	for _, ref := range refs {
		fmt.Fprintf(cmd.OutOrStdout(), "Warning: workflow %q still launches %s and will fail at that step\n", ref.Name, app.Name)
	}
	return nil
}

// AppsSearchOptions contains the options for apps search.
type AppsSearchOptions struct {
	Format string
	Limit  int
}

func newAppsSearchCommand() *cobra.Command {
	opts := &AppsSearchOptions{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search apps by name",
		Long: `Search the catalog for apps whose name contains the query letters in
order ("vsc" finds "Visual Studio Code"). Best matches are listed first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAppsSearch(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", string(FormatTable), "output format: table, json, plain")
	cmd.Flags().IntVar(&opts.Limit, "limit", 10, "maximum number of results")

	return cmd
}

func runAppsSearch(cmd *cobra.Command, query string, opts *AppsSearchOptions) error {
	format, err := parseFormat(opts.Format)
	if err != nil {
		return err
	}

	e, err := loadEnv(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	records, err := e.Store.ListApps(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list apps: %w", err)
	}

	results := apps.Search(query, records)
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	if len(results) == 0 && format == FormatTable {
		fmt.Fprintf(cmd.OutOrStdout(), "No apps match %q.\n", query)
		return nil
	}

	found := make([]apps.AppRecord, len(results))
	for i, r := range results {
		found[i] = r.App
	}
	return printApps(cmd.OutOrStdout(), format, found)
}
