// backend/src/security/validation/sanitizers.go
package validation

import (
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var strictHTMLPolicy = bluemonday.StrictPolicy()

// SanitizeText removes all HTML tags and attributes from an input string.
func SanitizeText(s string) string {
	return strictHTMLPolicy.Sanitize(s)
}

// StripUnprintable removes non-printable characters, allowing common whitespace
// like space, tab, newline, and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}

// CleanName prepares a stored customer, company or product name for display.
// Control characters and markup are removed, entities the sanitizer produced
// are decoded again, and the result is cut to MaxNameLength runes.
func CleanName(s string) string {
	cleaned := strings.TrimSpace(html.UnescapeString(SanitizeText(StripUnprintable(s))))
	if utf8.RuneCountInString(cleaned) <= MaxNameLength {
		return cleaned
	}
	runes := []rune(cleaned)
	return strings.TrimSpace(string(runes[:MaxNameLength]))
}
