package document

import (
	"fmt"
	"regexp"
	"strings"

	"markdown-translator/internal/types"
)

// headingPattern matches a heading line: 1-6 marker characters, one space,
// heading text to end of line.
var headingPattern = regexp.MustCompile(`(?m)^(#{1,6}) (.+)$`)

// ExtractTOC scans the source document for heading lines and returns one
// entry per heading in document order. Extraction is best-effort: lines
// that do not match the heading syntax are silently skipped, not rejected.
func ExtractTOC(source string) []types.TOCEntry {
	matches := headingPattern.FindAllStringSubmatchIndex(source, -1)

	entries := make([]types.TOCEntry, 0, len(matches))
	for _, m := range matches {
		level := m[3] - m[2] // length of the marker run
		text := strings.TrimSpace(source[m[4]:m[5]])
		entries = append(entries, types.TOCEntry{
			Level:    level,
			Text:     text,
			Position: m[0],
		})
	}
	return entries
}

// StripHeadings removes all heading lines from the source, replacing each
// match with an empty string so the surrounding line structure survives.
func StripHeadings(source string) string {
	return headingPattern.ReplaceAllString(source, "")
}

// RenderTOC formats translated TOC entries as an indented block of
// markdown-style links. Each entry is indented by (level-1) two-space
// units and linked to an anchor slug derived from its text.
//
// The slugs are cosmetic: the reconstructed body drops heading lines, so
// no matching anchors exist in the output. Callers relying on working
// intra-document links need to restore headings themselves.
func RenderTOC(entries []types.TOCEntry) string {
	var b strings.Builder
	b.WriteString("# Table of Contents\n")
	for _, entry := range entries {
		indent := strings.Repeat("  ", entry.Level-1)
		fmt.Fprintf(&b, "%s- [%s](#%s)\n", indent, entry.Text, Slug(entry.Text))
	}
	return strings.TrimRight(b.String(), "\n")
}
