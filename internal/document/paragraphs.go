package document

import (
	"regexp"
	"strings"

	"markdown-translator/internal/types"
)

// paragraphSplitPattern matches a run of whitespace containing at least
// two newlines, the blank-line paragraph boundary. The inner class admits
// carriage returns so CRLF documents split the same as LF ones.
var paragraphSplitPattern = regexp.MustCompile(`\n[ \t\r]*\n[\s]*`)

// SplitParagraphs splits a heading-stripped document into blank-line
// delimited paragraphs, discarding empty ones. Each record carries the
// paragraph text, its length and whether it contains an image reference.
func SplitParagraphs(stripped string) []types.Paragraph {
	parts := paragraphSplitPattern.Split(stripped, -1)

	paragraphs := make([]types.Paragraph, 0, len(parts))
	for _, part := range parts {
		text := strings.TrimSpace(part)
		if text == "" {
			continue
		}
		paragraphs = append(paragraphs, types.Paragraph{
			Text:     text,
			Length:   len(text),
			HasImage: imagePattern.MatchString(text),
		})
	}
	return paragraphs
}
