package document

import (
	"strings"
	"testing"
)

func TestFindExact(t *testing.T) {
	haystack := "alpha beta gamma delta"

	pos, ok := findExact(haystack, "gamma")
	if !ok || pos != strings.Index(haystack, "gamma") {
		t.Errorf("findExact = (%d, %v)", pos, ok)
	}

	if _, ok := findExact(haystack, "epsilon"); ok {
		t.Error("findExact matched absent needle")
	}
	if _, ok := findExact(haystack, "   "); ok {
		t.Error("findExact matched whitespace-only needle")
	}
}

func TestFindApprox(t *testing.T) {
	haystack := strings.Repeat("filler text here. ", 20) +
		"the quick brown fox jumps over the lazy dog" +
		strings.Repeat(" trailing filler.", 20)

	// The needle is close to, but not exactly, a substring.
	pos, ok := findApprox(haystack, "quick brown fox jumps")
	if !ok {
		t.Fatal("findApprox found no match")
	}
	target := strings.Index(haystack, "the quick brown fox")
	if pos < target-2*approxStride || pos > target+2*approxStride {
		t.Errorf("findApprox position %d too far from target %d", pos, target)
	}
}

func TestFindApprox_NoMatch(t *testing.T) {
	if _, ok := findApprox("0101 1100 0011", "zzzz"); ok {
		t.Error("findApprox matched disjoint alphabets")
	}
	if _, ok := findApprox("", "needle"); ok {
		t.Error("findApprox matched empty haystack")
	}
	if _, ok := findApprox("haystack", ""); ok {
		t.Error("findApprox matched empty needle")
	}
}

func TestFindByWordDensity(t *testing.T) {
	haystack := strings.Repeat("padding words only. ", 15) +
		"translated sentence mentioning turbine maintenance schedule" +
		strings.Repeat(" more padding here.", 15)

	pos, ok := findByWordDensity(haystack, "Turbine Maintenance Schedule")
	if !ok {
		t.Fatal("findByWordDensity found no match")
	}
	target := strings.Index(haystack, "turbine")
	// The winning window must actually cover the target words.
	if pos > target || pos+densityWindow < target {
		t.Errorf("density window [%d, %d) does not cover target %d", pos, pos+densityWindow, target)
	}
}

func TestFindByWordDensity_ZeroScore(t *testing.T) {
	if _, ok := findByWordDensity("nothing shared here", "qqq www eee"); ok {
		t.Error("findByWordDensity matched with zero score")
	}
	if _, ok := findByWordDensity("text", ""); ok {
		t.Error("findByWordDensity matched empty context")
	}
}

func TestFindInsertPoint_TierOrder(t *testing.T) {
	haystack := "first block of text. second block of text."

	// Exact tier wins when the translated context is present.
	if pos := findInsertPoint(haystack, "second block", "unrelated"); pos != strings.Index(haystack, "second block") {
		t.Errorf("exact tier pos = %d", pos)
	}

	// Density tier catches shared original words when translated context is absent.
	pos := findInsertPoint(haystack, "zzzz", "second block words")
	if pos == len(haystack) {
		t.Error("density tier should have matched before the fallback")
	}
}

func TestFindInsertPoint_Fallback(t *testing.T) {
	haystack := "0101 1100 0011"
	if pos := findInsertPoint(haystack, "zzzz", "qqq www"); pos != len(haystack) {
		t.Errorf("fallback pos = %d, want %d", pos, len(haystack))
	}
}

func TestClipRunes(t *testing.T) {
	if got := clipRunes("hello", 10); got != "hello" {
		t.Errorf("clipRunes short = %q", got)
	}
	if got := clipRunes("hello", 3); got != "hel" {
		t.Errorf("clipRunes = %q", got)
	}
	// Never splits a multi-byte rune.
	s := "日本語"
	clipped := clipRunes(s, 4)
	if clipped != "日" {
		t.Errorf("clipRunes(%q, 4) = %q, want %q", s, clipped, "日")
	}
}
