package ai

import "regexp"

// RedactedPlaceholder replaces every secret Redact finds.
const RedactedPlaceholder = "<REDACTED>"

var redactPatterns = compilePatterns(
	// API Keys
	`(?i)(api[_-]?key|apikey)["']?\s*[:=]\s*["']?[a-zA-Z0-9_\-]{20,}["']?`,
	`(?i)sk-[a-zA-Z0-9_\-]{20,}`,
	`AKIA[0-9A-Z]{16}`,
	// Passwords
	`(?i)(password|passwd|pass)["']?\s*[:=]\s*["']?[^\s"']+["']?`,
	// Tokens
	`(?i)(token|access[_-]?token|refresh[_-]?token)["']?\s*[:=]\s*["']?[a-zA-Z0-9_\-\.~=]{20,}["']?`,
	`gh[pousr]_[a-zA-Z0-9]{36,}`,
	`(?i)bearer\s+[a-zA-Z0-9_\-\.~=]+`,
	// Email
	`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`,
	// URL credentials
	`(?i)(https?://)[^\s/:@]+:[^\s/@]+@`,
)

func compilePatterns(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// Redact replaces secrets and email addresses in s before it leaves the
// machine.
func Redact(s string) string {
	if s == "" {
		return s
	}
	for _, re := range redactPatterns {
		s = re.ReplaceAllString(s, RedactedPlaceholder)
	}
	return s
}
