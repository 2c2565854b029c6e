package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazuruo/launchdeck/internal/apps"
)

func records(names ...string) []apps.AppRecord {
	out := make([]apps.AppRecord, len(names))
	for i, n := range names {
		out[i] = apps.AppRecord{ID: n, Name: n, URL: "https://example.com"}
	}
	return out
}

func TestResolve_Passes(t *testing.T) {
	catalog := records("Visual Studio Code", "Slack", "Google Chrome", "VS-Code Insiders")

	tests := []struct {
		name     string
		query    string
		wantApp  string
		wantPass Pass
	}{
		{"exact case-insensitive", "slack", "Slack", PassExact},
		{"exact with spaces", "  Google Chrome ", "Google Chrome", PassExact},
		{"prefix", "goo", "Google Chrome", PassPrefix},
		{"substring", "studio", "Visual Studio Code", PassSubstring},
		{"stripped substring", "vs code", "VS-Code Insiders", PassStripped},
		{"stripped both sides", "vscode ins", "VS-Code Insiders", PassStripped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.query, catalog)
			require.Equal(t, Match, res.Kind)
			require.NotNil(t, res.App)
			assert.Equal(t, tt.wantApp, res.App.Name)
			assert.Equal(t, tt.wantPass, res.Pass)
		})
	}
}

func TestResolve_EarlierPassWins(t *testing.T) {
	// "Code" is a substring of the first app but an exact match of the second.
	catalog := records("Visual Studio Code", "Code")

	res := Resolve("code", catalog)
	require.Equal(t, Match, res.Kind)
	assert.Equal(t, "Code", res.App.Name)
	assert.Equal(t, 1, res.Index)
}

func TestResolve_InputOrderBreaksTies(t *testing.T) {
	catalog := records("Notion Calendar", "Notion")

	res := Resolve("not", catalog)
	require.Equal(t, Match, res.Kind)
	assert.Equal(t, "Notion Calendar", res.App.Name)

	res = Resolve("not", records("Notion", "Notion Calendar"))
	assert.Equal(t, "Notion", res.App.Name)
}

func TestResolve_VSCodeFallsThroughToSuggestions(t *testing.T) {
	catalog := records("Visual Studio Code", "Slack", "Google Chrome")

	res := Resolve("vscode", catalog)
	require.Equal(t, Suggestions, res.Kind)
	assert.Nil(t, res.App)
	require.NotEmpty(t, res.Suggestions)
	assert.Equal(t, "Visual Studio Code", res.Suggestions[0].Name)
	assert.InDelta(t, 1.0/3.0, res.Suggestions[0].Score, 1e-9)
}

func TestResolve_TransposedLetters(t *testing.T) {
	res := Resolve("discrod", records("Discord"))

	require.Equal(t, Suggestions, res.Kind)
	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, "Discord", res.Suggestions[0].Name)
	// A transposition costs two substitutions
	assert.InDelta(t, 5.0/7.0, res.Suggestions[0].Score, 1e-9)
}

func TestResolve_NotFound(t *testing.T) {
	catalog := records("Slack", "Zoom")

	for _, q := range []string{"", "   ", "xxxxxxxxxxxxxxxx"} {
		res := Resolve(q, catalog)
		assert.Equal(t, NotFound, res.Kind, "query %q", q)
		assert.Nil(t, res.App)
		assert.Empty(t, res.Suggestions)
		assert.Equal(t, -1, res.Index)
	}

	assert.Equal(t, NotFound, Resolve("slack", nil).Kind)
}

func TestResolve_LowSimilarityNeverMatches(t *testing.T) {
	catalog := records("Figma", "Spotify", "Trello")
	query := "qqqqqqqq"

	for _, r := range catalog {
		require.LessOrEqual(t, Similarity(query, r.Name), SimilarityFloor)
	}

	res := Resolve(query, catalog)
	assert.NotEqual(t, Match, res.Kind)
	assert.Empty(t, res.Suggestions)
}

func TestSuggest_TopThreeDescending(t *testing.T) {
	names := []string{"Slab", "Slack", "Slick", "Black", "Stack"}

	got := Suggest("slack", names)
	require.Len(t, got, MaxSuggestions)
	assert.Equal(t, "Slack", got[0].Name)
	assert.Equal(t, 1.0, got[0].Score)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
	// Slick, Black and Stack all score 0.8; input order decides.
	assert.Equal(t, "Slick", got[1].Name)
	assert.Equal(t, "Black", got[2].Name)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("abc", ""))
	assert.Equal(t, 1.0, Similarity("same", "same"))
	assert.InDelta(t, 0.8, Similarity("slack", "slick"), 1e-9)
	// Runes, not bytes
	assert.Equal(t, 1.0, Similarity("café", "café"))
	assert.InDelta(t, 0.75, Similarity("café", "cafe"), 1e-9)
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"discord", "discrod"},
		{"vscode", "visual studio code"},
		{"", "x"},
		{"kitten", "sitting"},
		{"Zoom", "zoom"},
		{"日本語", "日本"},
	}
	for _, p := range pairs {
		assert.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]), "%q vs %q", p[0], p[1])
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"discord", "discrod", 2},
		{"vscode", "visual studio code", 12},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Distance(tt.a, tt.b), "%q -> %q", tt.a, tt.b)
	}
}

func TestResolveNames(t *testing.T) {
	names := []string{"Morning Routine", "Deep Work"}

	res := ResolveNames("deep", names)
	require.Equal(t, Match, res.Kind)
	assert.Equal(t, 1, res.Index)
	assert.Nil(t, res.App)

	res = ResolveNames("mornin routine", names)
	require.Equal(t, Suggestions, res.Kind)
	assert.Equal(t, "Morning Routine", res.Suggestions[0].Name)
}

func TestKindAndPassStrings(t *testing.T) {
	assert.Equal(t, "match", Match.String())
	assert.Equal(t, "suggestions", Suggestions.String())
	assert.Equal(t, "not_found", NotFound.String())
	assert.Equal(t, "stripped", PassStripped.String())
	assert.Equal(t, "none", PassNone.String())
}
