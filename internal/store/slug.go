package store

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLen = 50

var (
	// slugRegex matches characters that should be replaced with hyphens
	slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

	// stripMarks removes combining accents after NFD decomposition
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Slugify converts a workflow name into a directory-safe slug.
//
// Examples:
//
//	"Morning Routine" -> "morning-routine"
//	"Café & Code!"    -> "cafe-code"
func Slugify(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		folded = name
	}

	result := strings.ToLower(folded)
	result = slugRegex.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > maxSlugLen {
		// Cut at the last hyphen to avoid splitting a word
		cutoff := maxSlugLen
		if idx := strings.LastIndex(result[:cutoff], "-"); idx > 0 {
			cutoff = idx
		}
		result = result[:cutoff]
	}

	return result
}

// GenerateUniqueSlug generates a slug from a name, ensuring it doesn't
// collide with existing slugs by adding a numeric suffix if needed.
func GenerateUniqueSlug(name string, existingSlugs []string) string {
	base := Slugify(name)
	if base == "" {
		base = "workflow"
	}

	slug := base
	for i := 1; i <= 100; i++ {
		if !slices.Contains(existingSlugs, slug) {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}

	// Fallback: use a timestamp suffix (unlikely to hit this)
	return fmt.Sprintf("%s-%d", base, time.Now().UnixNano())
}
