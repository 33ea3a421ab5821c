package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// SanitizeText strips any markup from user-supplied free text and trims
// surrounding whitespace. Applied to every free-text field before
// validation, so script injection never reaches the store.
func SanitizeText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// NormalizeEmail lowercases and trims an email address for storage.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
