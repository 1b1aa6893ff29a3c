package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeAnswer trims surrounding whitespace and case-folds the rest.
// Inner whitespace is kept as typed.
func NormalizeAnswer(input string) string {
	return cases.Fold().String(strings.TrimSpace(input))
}

// AnswersMatch compares a reply against the expected answer after normalization.
func AnswersMatch(reply, expected string) bool {
	want := NormalizeAnswer(expected)
	if want == "" {
		return false
	}
	return NormalizeAnswer(reply) == want
}

// TitleCase renders an answer for display, "heat stroke" -> "Heat Stroke".
func TitleCase(input string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(input))
}
