package llm

import (
	"regexp"
	"strings"
)

// fenceRegexp matches a response that is entirely one fenced code block:
// opening fence with optional language tag, content, closing fence on its own.
// Partial or embedded fences do not match and are left untouched.
var fenceRegexp = regexp.MustCompile("(?s)^```(\\w*)?\\s*\n?(.*?)\n?\\s*```$")

// Unwrap strips a full-match markdown code fence from a raw model response
// and returns the trimmed inner payload. Unfenced input is returned trimmed.
func Unwrap(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if m := fenceRegexp.FindStringSubmatch(trimmed); m != nil && m[2] != "" {
		return strings.TrimSpace(m[2])
	}
	return trimmed
}
