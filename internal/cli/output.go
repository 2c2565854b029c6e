package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rodaine/table"

	"github.com/chazuruo/launchdeck/internal/apps"
	deckerrors "github.com/chazuruo/launchdeck/internal/errors"
	"github.com/chazuruo/launchdeck/internal/resolver"
)

// OutputFormat defines the output format for listing commands.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatPlain OutputFormat = "plain"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

func parseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatPlain:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format %q (valid: table, json, plain)", s)
	}
}

// newTable returns a table writing to w with bold headers.
func newTable(w io.Writer, headers ...interface{}) table.Table {
	return table.New(headers...).
		WithWriter(w).
		WithHeaderFormatter(func(format string, vals ...interface{}) string {
			return headerStyle.Render(fmt.Sprintf(format, vals...))
		})
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// findApp looks an app up by exact ID first, then by name through the
// resolver. Misses list the nearest names.
func findApp(query string, records []apps.AppRecord) (*apps.AppRecord, error) {
	for i := range records {
		if records[i].ID == query {
			return &records[i], nil
		}
	}

	res := resolver.Resolve(query, records)
	switch res.Kind {
	case resolver.Match:
		return res.App, nil
	case resolver.Suggestions:
		return nil, fmt.Errorf("%w: %q (did you mean: %s?)", deckerrors.ErrAppNotFound, query, suggestionNames(res.Suggestions))
	default:
		return nil, fmt.Errorf("%w: %q", deckerrors.ErrAppNotFound, query)
	}
}

func suggestionNames(suggestions []resolver.Suggestion) string {
	names := make([]string, len(suggestions))
	for i, s := range suggestions {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}
