package parse

import (
	"regexp"
	"strings"
)

var reWhitespace = regexp.MustCompile(`\s+`)

// Normalize collapses every run of whitespace (including newlines) to a single
// space and trims the ends. Amount extraction runs on normalized text; the
// other extractors need line boundaries and take the raw text.
func Normalize(raw string) string {
	if raw == "" {
		return raw
	}
	return strings.TrimSpace(reWhitespace.ReplaceAllString(raw, " "))
}
