package utils

import (
	"strings"
	"unicode/utf8"
)

// StringHelper provides string utility functions.
type StringHelper struct{}

// NewStringHelper creates a new string helper.
func NewStringHelper() *StringHelper {
	return &StringHelper{}
}

// TrimWhitespace removes leading and trailing whitespace.
func (s *StringHelper) TrimWhitespace(str string) string {
	return strings.TrimSpace(str)
}

// TruncateString truncates string to at most maxLength bytes, for log output.
// The cut backs up to a rune boundary.
func (s *StringHelper) TruncateString(str string, maxLength int) string {
	if len(str) <= maxLength {
		return str
	}

	cut := max(maxLength, 0)
	for cut > 0 && !utf8.RuneStart(str[cut]) {
		cut--
	}

	return str[:cut] + "..."
}

// Mask hides all but the last n characters of a secret.
func (s *StringHelper) Mask(secret string, visible int) string {
	if secret == "" {
		return ""
	}

	if visible <= 0 || len(secret) <= visible {
		return strings.Repeat("*", len(secret))
	}

	return strings.Repeat("*", len(secret)-visible) + secret[len(secret)-visible:]
}
