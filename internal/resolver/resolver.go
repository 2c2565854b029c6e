// Package resolver maps free-text app names to catalog records.
//
// Resolution runs four case-insensitive passes in order (exact, prefix,
// substring, substring with non-alphanumerics stripped) and returns the
// first hit, ties broken by catalog order. When no pass matches, names are
// ranked by Levenshtein similarity and the closest few are offered as
// suggestions.
package resolver

import (
	"sort"
	"strings"
	"unicode"

	"github.com/chazuruo/launchdeck/internal/apps"
)

const (
	// SimilarityFloor is the exclusive lower bound for a suggestion.
	SimilarityFloor = 0.3

	// MaxSuggestions caps the number of suggestions returned.
	MaxSuggestions = 3
)

// Kind is the outcome of a resolution.
type Kind int

const (
	NotFound Kind = iota
	Match
	Suggestions
)

func (k Kind) String() string {
	switch k {
	case Match:
		return "match"
	case Suggestions:
		return "suggestions"
	default:
		return "not_found"
	}
}

// Pass identifies which matching pass produced a Match.
type Pass int

const (
	PassNone Pass = iota
	PassExact
	PassPrefix
	PassSubstring
	PassStripped
)

func (p Pass) String() string {
	switch p {
	case PassExact:
		return "exact"
	case PassPrefix:
		return "prefix"
	case PassSubstring:
		return "substring"
	case PassStripped:
		return "stripped"
	default:
		return "none"
	}
}

// Suggestion is a near miss offered when nothing matched.
type Suggestion struct {
	Name  string
	Score float64
	Index int // position in the input slice
}

// Result is the outcome of Resolve.
type Result struct {
	Kind        Kind
	App         *apps.AppRecord // set when Kind is Match
	Index       int             // position of App in the input, -1 otherwise
	Pass        Pass
	Suggestions []Suggestion // set when Kind is Suggestions, best first
}

// Resolve finds the app a query refers to.
func Resolve(query string, records []apps.AppRecord) Result {
	names := make([]string, len(records))
	for i := range records {
		names[i] = records[i].Name
	}

	res := ResolveNames(query, names)
	if res.Kind == Match {
		res.App = &records[res.Index]
	}
	return res
}

// ResolveNames runs the same passes over plain names. It is used for
// workflow names, which have no app record.
func ResolveNames(query string, names []string) Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Result{Kind: NotFound, Index: -1}
	}

	lower := make([]string, len(names))
	for i, n := range names {
		lower[i] = strings.ToLower(n)
	}

	passes := []struct {
		pass  Pass
		match func(name string) bool
	}{
		{PassExact, func(name string) bool { return name == q }},
		{PassPrefix, func(name string) bool { return strings.HasPrefix(name, q) }},
		{PassSubstring, func(name string) bool { return strings.Contains(name, q) }},
	}

	for _, p := range passes {
		for i, name := range lower {
			if p.match(name) {
				return Result{Kind: Match, Index: i, Pass: p.pass}
			}
		}
	}

	if sq := stripNonAlnum(q); sq != "" {
		for i, name := range lower {
			if strings.Contains(stripNonAlnum(name), sq) {
				return Result{Kind: Match, Index: i, Pass: PassStripped}
			}
		}
	}

	suggestions := Suggest(q, names)
	if len(suggestions) == 0 {
		return Result{Kind: NotFound, Index: -1}
	}
	return Result{Kind: Suggestions, Index: -1, Suggestions: suggestions}
}

// Suggest ranks names by similarity to query and returns up to
// MaxSuggestions entries scoring strictly above SimilarityFloor.
// Equal scores keep input order.
func Suggest(query string, names []string) []Suggestion {
	q := strings.ToLower(query)

	var out []Suggestion
	for i, name := range names {
		score := Similarity(q, strings.ToLower(name))
		if score > SimilarityFloor {
			out = append(out, Suggestion{Name: name, Score: score, Index: i})
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Score > out[b].Score
	})

	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

// Similarity returns 1 - distance/max(len(a), len(b)) measured in runes.
// Two empty strings are identical.
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	return 1 - float64(distance(ra, rb))/float64(longest)
}

// Distance returns the Levenshtein edit distance between a and b, counting
// insertions, deletions and substitutions over runes.
func Distance(a, b string) int {
	return distance([]rune(a), []rune(b))
}

func distance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
