package document

import (
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// Tiered position matcher for reinserting images after translation.
// Translation does not preserve character offsets, so the recorded source
// position of an image is useless on its own; instead each tier tries to
// recover the position from context, and the tiers degrade gracefully:
// exact substring, approximate window match, word-density scan, and
// finally end of document. Each tier is a pure function from
// (haystack, needle) to an optional offset.

const (
	// approxNeedleMax caps the needle length for the approximate tier.
	approxNeedleMax = 60
	// approxStride is the window stride for the approximate tier.
	approxStride = 50
	// densityWindow is the window width for the word-density scan.
	densityWindow = 150
	// densityStep is the step of the word-density scan.
	densityStep = 50
)

// findExact locates the needle as an exact substring of the haystack.
func findExact(haystack, needle string) (int, bool) {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return 0, false
	}
	if idx := strings.Index(haystack, needle); idx != -1 {
		return idx, true
	}
	return 0, false
}

// findApprox ranks overlapping fixed-stride windows of the haystack
// against the needle and returns the start of the best-matching window.
func findApprox(haystack, needle string) (int, bool) {
	needle = clipRunes(strings.TrimSpace(needle), approxNeedleMax)
	if needle == "" || haystack == "" {
		return 0, false
	}

	width := 2 * len(needle)
	if width < 2*approxStride {
		// Keep windows overlapping even for short needles.
		width = 2 * approxStride
	}
	var windows []string
	var starts []int
	for start := 0; start < len(haystack); start += approxStride {
		end := start + width
		if end > len(haystack) {
			end = len(haystack)
		}
		windows = append(windows, haystack[start:end])
		starts = append(starts, start)
		if end == len(haystack) {
			break
		}
	}

	matches := fuzzy.Find(needle, windows)
	if len(matches) == 0 {
		return 0, false
	}
	// Matches come back ranked best first.
	return starts[matches[0].Index], true
}

// findByWordDensity slides a window across the haystack in fixed steps and
// scores each window by how many of the context words it contains,
// case-insensitively. The highest-scoring window start wins; a zero score
// everywhere means no match.
func findByWordDensity(haystack, context string) (int, bool) {
	words := strings.Fields(strings.ToLower(context))
	if len(words) == 0 || haystack == "" {
		return 0, false
	}

	lower := strings.ToLower(haystack)
	bestStart, bestScore := 0, 0
	for start := 0; start < len(lower); start += densityStep {
		end := start + densityWindow
		if end > len(lower) {
			end = len(lower)
		}
		window := lower[start:end]

		score := 0
		for _, w := range words {
			if strings.Contains(window, w) {
				score++
			}
		}
		if score > bestScore {
			bestStart, bestScore = start, score
		}
		if end == len(lower) {
			break
		}
	}

	if bestScore == 0 {
		return 0, false
	}
	return bestStart, true
}

// findInsertPoint composes the matcher tiers by first success. It always
// returns a valid offset into the haystack; the final fallback is the end
// of the document.
func findInsertPoint(haystack, translatedContext, originalContext string) int {
	if pos, ok := findExact(haystack, translatedContext); ok {
		return pos
	}
	if pos, ok := findApprox(haystack, translatedContext); ok {
		return pos
	}
	if pos, ok := findByWordDensity(haystack, originalContext); ok {
		return pos
	}
	return len(haystack)
}

// clipRunes truncates s to at most max bytes without splitting a rune.
func clipRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
