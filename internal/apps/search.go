package apps

import (
	"github.com/sahilm/fuzzy"
)

// SearchResult is one ranked catalog search hit.
type SearchResult struct {
	App            AppRecord
	Score          int
	MatchedIndexes []int
}

// appNames adapts a record slice to fuzzy.Source.
type appNames []AppRecord

func (a appNames) String(i int) string { return a[i].Name }
func (a appNames) Len() int            { return len(a) }

// Search ranks apps whose name contains the query as a subsequence, best
// match first. An empty query returns every app in input order.
func Search(query string, records []AppRecord) []SearchResult {
	if query == "" {
		results := make([]SearchResult, len(records))
		for i, app := range records {
			results[i] = SearchResult{App: app}
		}
		return results
	}

	matches := fuzzy.FindFrom(query, appNames(records))
	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, SearchResult{
			App:            records[m.Index],
			Score:          m.Score,
			MatchedIndexes: m.MatchedIndexes,
		})
	}
	return results
}
