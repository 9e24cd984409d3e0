package rag

import (
	"regexp"
	"strings"
)

var (
	nonWordPattern    = regexp.MustCompile(`[^a-zA-Z0-9\s]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize performs deterministic query cleanup: every character outside
// letters, digits and whitespace becomes a space, whitespace runs collapse
// to a single space, and the result is trimmed and lowercased. It never
// fails; an empty result is the caller's concern.
func Normalize(raw string) string {
	cleaned := nonWordPattern.ReplaceAllString(raw, " ")
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	return strings.ToLower(strings.TrimSpace(cleaned))
}
