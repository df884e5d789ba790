package document

import (
	"fmt"
	"strings"

	"markdown-translator/internal/logger"
)

// placeholderFormat is the synthetic token substituted for an image
// reference before a mixed paragraph is sent to translation. The token
// must be opaque enough that the translation capability copies it through
// unchanged; survival is verified after translation rather than assumed.
const placeholderFormat = "__IMG_PLACEHOLDER_%d__"

// isImageOnly reports whether a paragraph consists solely of image
// references and whitespace. Such paragraphs are never sent to the
// translation capability.
func isImageOnly(text string) bool {
	remainder := imagePattern.ReplaceAllString(text, "")
	return strings.TrimSpace(remainder) == ""
}

// protectImages replaces each image reference in the paragraph with a
// distinct placeholder token, indexed by order of appearance. It returns
// the protected text and the original markup per index.
func protectImages(text string) (string, []string) {
	var originals []string
	protected := imagePattern.ReplaceAllStringFunc(text, func(match string) string {
		token := fmt.Sprintf(placeholderFormat, len(originals))
		originals = append(originals, match)
		return token
	})
	return protected, originals
}

// restoreImages substitutes each placeholder token back to the verbatim
// original image markup. Tokens the translation lost are reported back by
// index; the caller relies on the placement phase to reinsert those images
// so the preservation invariant still holds.
func restoreImages(text string, originals []string) (string, []int) {
	var missing []int
	for i, original := range originals {
		token := fmt.Sprintf(placeholderFormat, i)
		if !strings.Contains(text, token) {
			missing = append(missing, i)
			logger.Warn("image placeholder lost during translation",
				logger.String("token", token),
				logger.String("image", original))
			continue
		}
		text = strings.Replace(text, token, original, 1)
	}
	return text, missing
}
