package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/chazuruo/launchdeck/internal/ai"
	deckerrors "github.com/chazuruo/launchdeck/internal/errors"
	"github.com/chazuruo/launchdeck/internal/store"
)

// RecommendOptions contains the options for the recommend command.
type RecommendOptions struct {
	Count     int
	Interests []string
	Add       bool
	Format    string
}

// NewRecommendCommand creates the recommend command.
func NewRecommendCommand() *cobra.Command {
	opts := &RecommendOptions{}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Ask the assistant for apps you might like",
		Long: `Ask the chat assistant for apps that complement your catalog.

Apps you already have are never suggested. With --add the suggestions are
saved to the catalog; interactively you pick which ones.

Examples:
  launchdeck recommend
  launchdeck recommend --interest design --interest music --count 3
  launchdeck recommend --add --no-tui`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Count, "count", ai.DefaultRecommendations, "number of recommendations")
	cmd.Flags().StringSliceVar(&opts.Interests, "interest", nil, "topic to focus on (repeatable)")
	cmd.Flags().BoolVar(&opts.Add, "add", false, "save recommendations to the catalog")
	cmd.Flags().StringVar(&opts.Format, "format", string(FormatTable), "output format: table, json, plain")

	return cmd
}

func runRecommend(cmd *cobra.Command, opts *RecommendOptions) error {
	format, err := parseFormat(opts.Format)
	if err != nil {
		return err
	}

	e, err := loadEnv(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	provider, err := e.requireProvider()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	records, err := e.Store.ListApps(ctx)
	if err != nil {
		return fmt.Errorf("failed to list apps: %w", err)
	}

	recs, err := provider.Recommend(ctx, ai.RecommendRequest{
		Apps:      records,
		Interests: strings.Join(opts.Interests, ", "),
		Count:     opts.Count,
	})
	if err != nil {
		return fmt.Errorf("failed to get recommendations: %w", err)
	}

	w := cmd.OutOrStdout()
	if len(recs) == 0 {
		fmt.Fprintln(w, "No new recommendations right now.")
		return nil
	}

	if !opts.Add {
		return printRecommendations(w, format, recs)
	}

	if e.interactive() {
		recs, err = pickRecommendations(recs)
		if err != nil {
			return err
		}
	}

	added := 0
	for _, rec := range recs {
		app := rec.AppRecord()
		if err := e.Store.SaveApp(ctx, &app, store.SaveOptions{}); err != nil {
			if deckerrors.IsAlreadyExists(err) || deckerrors.IsInvalid(err) {
				fmt.Fprintf(w, "Skipped %s: %v\n", rec.Name, err)
				continue
			}
			return fmt.Errorf("failed to save %s: %w", rec.Name, err)
		}
		fmt.Fprintf(w, "Added %s (%s)\n", app.Name, app.Category)
		added++
	}
	fmt.Fprintf(w, "%d app(s) added.\n", added)
	return nil
}

func printRecommendations(w io.Writer, format OutputFormat, recs []ai.Recommendation) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, recs)
	case FormatPlain:
		for _, r := range recs {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, r.Category, r.URL)
		}
	default:
		tbl := newTable(w, "Name", "Category", "URL", "Why")
		for _, r := range recs {
			tbl.AddRow(r.Name, r.Category, r.URL, r.Description)
		}
		tbl.Print()
	}
	return nil
}

func pickRecommendations(recs []ai.Recommendation) ([]ai.Recommendation, error) {
	options := make([]huh.Option[int], len(recs))
	for i, r := range recs {
		label := r.Name
		if r.Description != "" {
			label = fmt.Sprintf("%s - %s", r.Name, r.Description)
		}
		options[i] = huh.NewOption(label, i)
	}

	var picked []int
	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Add which apps?").
				Options(options...).
				Value(&picked),
		),
	).Run(); err != nil {
		return nil, fmt.Errorf("form error: %w", err)
	}

	chosen := make([]ai.Recommendation, 0, len(picked))
	for _, i := range picked {
		chosen = append(chosen, recs[i])
	}
	return chosen, nil
}
