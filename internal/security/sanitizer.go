package security

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	maxInputRunes       = 1000
	maxDisplayNameRunes = 64
)

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeString trims, drops null bytes and caps the length.
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")
	return truncateRunes(input, maxInputRunes)
}

// SanitizeHTML removes all tags and escapes the rest so it is safe inside HTML-mode messages.
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// DisplayName makes a user-supplied name safe to embed in HTML output.
// fallback is used when nothing printable is left.
func DisplayName(name, fallback string) string {
	name = truncateRunes(SanitizeString(name), maxDisplayNameRunes)
	name = strings.TrimSpace(SanitizeHTML(name))
	if name == "" {
		return SanitizeHTML(fallback)
	}
	return name
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
