package document

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slug derives a URL-safe anchor from heading text: NFKD-normalized,
// lowercased, keeping only letters, digits and spaces, with spaces
// replaced by hyphens.
func Slug(text string) string {
	text = norm.NFKD.String(text)

	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "-")
}
