package sanitization

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	// control characters other than tab and newline
	controlRegex = regexp.MustCompile(`[\x00-\x08\x0B-\x1F\x7F]`)
)

// SanitizeString collapses whitespace and drops control characters, for
// values shown on a single line.
func SanitizeString(input string) string {
	safe := controlRegex.ReplaceAllString(input, "")
	safe = whitespaceRegex.ReplaceAllString(safe, " ")
	return strings.TrimSpace(safe)
}

// SanitizeText drops control characters but keeps line breaks.
func SanitizeText(input string) string {
	safe := strings.ReplaceAll(input, "\r\n", "\n")
	safe = controlRegex.ReplaceAllString(safe, "")
	return strings.TrimSpace(safe)
}

// SanitizeEmail normalizes an email address
func SanitizeEmail(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// Truncate shortens s to at most max runes, ending with an ellipsis when cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}
