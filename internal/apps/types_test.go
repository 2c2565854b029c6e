package apps

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalCatalog_Valid(t *testing.T) {
	data := []byte(`
schema_version: 1
apps:
  - id: app-1
    name: Slack
    url: https://slack.com
    tags: [chat, work]
  - id: app-2
    name: Visual Studio Code
    path: /usr/bin/code
    category: development
    offline_capable: true
`)

	c, err := UnmarshalCatalog(data)
	require.NoError(t, err)
	require.Len(t, c.Apps, 2)

	assert.Equal(t, 1, c.SchemaVersion)
	assert.Equal(t, "Slack", c.Apps[0].Name)
	assert.Equal(t, []string{"chat", "work"}, c.Apps[0].Tags)
	assert.Equal(t, "https://slack.com", c.Apps[0].Target())
	assert.False(t, c.Apps[0].IsLocal())

	assert.Equal(t, "/usr/bin/code", c.Apps[1].Target())
	assert.True(t, c.Apps[1].IsLocal())
	assert.True(t, c.Apps[1].OfflineCapable)
}

func TestCatalogValid_SkipsBadEntries(t *testing.T) {
	c, err := UnmarshalCatalog([]byte(`
apps:
  - {id: a, name: Slack, url: "slack://open"}
  - url: https://example.com
  - {name: Ghost}
  - {id: b, name: Obsidian, url: "obsidian://open?vault=notes"}
  - {id: a, name: Duplicate, url: https://dup.example.com}
  - {id: c, name: Relative, url: "not a url"}
  - {id: d, name: Spotify, url: "spotify:"}
`))
	require.NoError(t, err)
	require.Len(t, c.Apps, 7)

	records, problems := c.Valid()
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"Slack", "Obsidian", "Spotify"}, names)

	require.Len(t, problems, 4)
	assert.Contains(t, problems[0].Error(), "app name is required")
	assert.Contains(t, problems[1].Error(), "app url or path is required")
	assert.Contains(t, problems[2].Error(), "duplicate id")
	assert.Contains(t, problems[3].Error(), "must be a URL with a scheme")
}

func TestUnmarshalCatalog_BadYAML(t *testing.T) {
	c, err := UnmarshalCatalog([]byte("apps: ["))
	require.Error(t, err)
	assert.Nil(t, c)
	assert.Contains(t, err.Error(), "failed to unmarshal catalog")
}

func TestValidate_URLs(t *testing.T) {
	tests := []struct {
		url   string
		valid bool
	}{
		{"https://slack.com", true},
		{"slack://open", true},
		{"obsidian://open?vault=x", true},
		{"spotify:", true},
		{"mailto:me@example.com", true},
		{"slack.com", false},
		{`C:\Apps\Code.exe`, false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			app := AppRecord{Name: "App", URL: tt.url}
			err := app.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

	thumb := AppRecord{Name: "App", URL: "slack://open", Thumbnail: "slack://icon"}
	assert.Error(t, thumb.Validate(), "thumbnails must be web URLs")
	thumb.Thumbnail = "https://example.com/icon.png"
	assert.NoError(t, thumb.Validate())
}

func TestMarshalCatalog_SetsSchemaVersion(t *testing.T) {
	data, err := MarshalCatalog(&Catalog{Apps: []AppRecord{{ID: "a", Name: "Notion", URL: "https://notion.so"}}})
	require.NoError(t, err)
	assert.Contains(t, string(data), "schema_version: 1")
	assert.Contains(t, string(data), "name: Notion")
}

func TestNormalize(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	app := AppRecord{Name: "  Spotify ", URL: " https://open.spotify.com "}
	app.Normalize(now)

	assert.NotEmpty(t, app.ID)
	assert.Equal(t, "Spotify", app.Name)
	assert.Equal(t, "https://open.spotify.com", app.URL)
	assert.Equal(t, now, app.CreatedAt)
	assert.Equal(t, CategoryEntertainment, app.Category)

	// Existing values are kept
	keep := AppRecord{ID: "fixed", Name: "Spotify", URL: "https://open.spotify.com", Category: "music", CreatedAt: now.Add(-time.Hour)}
	keep.Normalize(now)
	assert.Equal(t, "fixed", keep.ID)
	assert.Equal(t, "music", keep.Category)
	assert.Equal(t, now.Add(-time.Hour), keep.CreatedAt)
}
