package document

import (
	"regexp"
	"strings"

	"markdown-translator/internal/types"
)

// imagePattern matches an inline image reference: bracketed alt text
// immediately followed by a parenthesized locator. The locator is opaque;
// no scheme or existence validation happens anywhere in this package.
var imagePattern = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)

// contextRadius is the number of characters captured on each side of an
// image reference for the repositioning context window.
const contextRadius = 100

// ExtractImages scans the original (not heading-stripped) source for image
// references. Each reference records its alt text, locator, byte offset,
// a context window around the match and the enclosing paragraph. Malformed
// references simply do not match; extraction never fails.
func ExtractImages(source string) []types.ImageRef {
	matches := imagePattern.FindAllStringSubmatchIndex(source, -1)

	refs := make([]types.ImageRef, 0, len(matches))
	for _, m := range matches {
		start, end := m[0], m[1]

		ctxStart := start - contextRadius
		if ctxStart < 0 {
			ctxStart = 0
		}
		ctxEnd := end + contextRadius
		if ctxEnd > len(source) {
			ctxEnd = len(source)
		}

		paraStart, paraEnd := paragraphBounds(source, start, end)

		refs = append(refs, types.ImageRef{
			Alt:              source[m[2]:m[3]],
			Src:              source[m[4]:m[5]],
			Position:         start,
			Context:          source[ctxStart:ctxEnd],
			ParagraphContext: strings.TrimSpace(source[paraStart:paraEnd]),
		})
	}
	return refs
}

// paragraphBoundaryPattern matches a single blank-line boundary, tolerating
// carriage returns and horizontal whitespace between the newlines.
var paragraphBoundaryPattern = regexp.MustCompile(`\n[ \t\r]*\n`)

// paragraphBounds locates the blank-line boundaries enclosing a match,
// defaulting to the document bounds when no boundary exists.
func paragraphBounds(source string, start, end int) (int, int) {
	paraStart := 0
	if all := paragraphBoundaryPattern.FindAllStringIndex(source[:start], -1); len(all) > 0 {
		paraStart = all[len(all)-1][1]
	}
	paraEnd := len(source)
	if idx := paragraphBoundaryPattern.FindStringIndex(source[end:]); idx != nil {
		paraEnd = end + idx[0]
	}
	return paraStart, paraEnd
}

// imageTag renders an image reference with translated alt text and the
// original, untranslated locator.
func imageTag(ref types.ImageRef) string {
	alt := ref.TranslatedAlt
	if alt == "" {
		alt = ref.Alt
	}
	return "![" + alt + "](" + ref.Src + ")"
}
