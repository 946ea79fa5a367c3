package util

import (
	"strings"
	"unicode"
)

// MaxTextRunes bounds any free-text field stored by the API.
const MaxTextRunes = 2000

// SanitizeText trims s, drops control and invisible characters (newlines and tabs
// survive) and truncates the result to MaxTextRunes runes.
func SanitizeText(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}

	builder := strings.Builder{}
	builder.Grow(len(trimmed))

	count := 0
	for _, char := range trimmed {
		if char != '\n' && char != '\t' && unicode.IsControl(char) {
			continue
		}
		if isInvisibleUnicode(char) {
			continue
		}
		if count == MaxTextRunes {
			break
		}
		builder.WriteRune(char)
		count++
	}

	return strings.TrimSpace(builder.String())
}

// SanitizeOptional applies SanitizeText to a present value and leaves nil alone.
func SanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := SanitizeText(*s)
	return &cleaned
}

// isInvisibleUnicode returns true for zero-width, formatting, and other
// invisible Unicode characters.
func isInvisibleUnicode(r rune) bool {
	switch r {
	case
		'\u200B', // Zero-Width Space
		'\u200C', // Zero-Width Non-Joiner
		'\u200D', // Zero-Width Joiner
		'\u200E', // Left-to-Right Mark
		'\u200F', // Right-to-Left Mark
		'\u2060', // Word Joiner
		'\uFEFF': // Zero-Width No-Break Space / BOM
		return true
	}

	return unicode.Is(unicode.Cf, r)
}
