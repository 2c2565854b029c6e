package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chazuruo/launchdeck/internal/apps"
)

// ParseRecommendations extracts recommendations from a model reply. The
// reply may wrap the JSON in a markdown code fence, surround it with prose,
// or return an object with a "recommendations" array. Entries without a
// name, and apps already in existing, are dropped.
func ParseRecommendations(reply string, existing []apps.AppRecord) ([]Recommendation, error) {
	text := ExtractCodeBlock(reply)
	if text == "" {
		text = reply
	}

	var recs []Recommendation
	if arr := between(text, '[', ']'); arr != "" {
		if err := json.Unmarshal([]byte(arr), &recs); err != nil {
			recs = nil
		}
	}
	if recs == nil {
		var wrapped struct {
			Recommendations []Recommendation `json:"recommendations"`
		}
		obj := between(text, '{', '}')
		if obj == "" || json.Unmarshal([]byte(obj), &wrapped) != nil || wrapped.Recommendations == nil {
			return nil, fmt.Errorf("no JSON recommendations found in reply")
		}
		recs = wrapped.Recommendations
	}

	have := make(map[string]bool, len(existing))
	for _, a := range existing {
		have[strings.ToLower(strings.TrimSpace(a.Name))] = true
	}

	out := make([]Recommendation, 0, len(recs))
	for _, r := range recs {
		r.Name = strings.TrimSpace(r.Name)
		r.URL = strings.TrimSpace(r.URL)
		key := strings.ToLower(r.Name)
		if r.Name == "" || have[key] {
			continue
		}
		have[key] = true
		out = append(out, r)
	}
	return out, nil
}

// ExtractCodeBlock returns the contents of the first fenced code block in s,
// or "" when there is none.
func ExtractCodeBlock(s string) string {
	inCodeBlock := false
	var block strings.Builder

	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if inCodeBlock {
				if block.Len() > 0 {
					return block.String()
				}
				inCodeBlock = false
				continue
			}
			inCodeBlock = true
			block.Reset()
			continue
		}
		if inCodeBlock {
			block.WriteString(line)
			block.WriteString("\n")
		}
	}
	return ""
}

// between returns the substring from the first open to the last close
// delimiter, inclusive.
func between(s string, open, closing byte) string {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, closing)
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
