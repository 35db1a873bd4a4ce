package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize collapses every whitespace run to a single space.
func TrimAndNormalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeName is used for patient, doctor and author names.
func NormalizeName(name string) string {
	return TrimAndNormalize(stripControl(name, false))
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeText trims free text such as case descriptions and blog content.
// Line breaks and tabs survive; other control characters are dropped.
func NormalizeText(text string) string {
	return strings.TrimSpace(stripControl(text, true))
}

func stripControl(s string, keepLayout bool) string {
	return strings.Map(func(r rune) rune {
		if keepLayout && (r == '\n' || r == '\t') {
			return r
		}
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
