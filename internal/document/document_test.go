package document

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markdown-translator/internal/translator"
	"markdown-translator/internal/types"
)

// uppercase is a mock capability that uppercases its input. Placeholder
// tokens are all-caps already, so they survive it unchanged.
func uppercase() translator.Translator {
	return translator.Func(func(_ context.Context, text string) (string, error) {
		return strings.ToUpper(text), nil
	})
}

func countOccurrences(s, sub string) int {
	return strings.Count(s, sub)
}

func TestTranslateDocument_EndToEnd(t *testing.T) {
	source := "# Title\n\n## Intro\n\nHello world.\n\n![Cat](cat.png)\n\n## End\n\nBye."

	d := New(translator.Identity())
	out, err := d.TranslateDocument(context.Background(), source)
	require.NoError(t, err)

	// TOC with the three headings in document order.
	assert.Contains(t, out, "# Table of Contents")
	assert.Contains(t, out, "- [Title](#title)")
	assert.Contains(t, out, "  - [Intro](#intro)")
	assert.Contains(t, out, "  - [End](#end)")
	assert.Less(t, strings.Index(out, "[Intro]"), strings.Index(out, "[End]"))

	// Body survives with the image appearing exactly once.
	assert.Contains(t, out, "Hello world.")
	assert.Contains(t, out, "Bye.")
	assert.Equal(t, 1, countOccurrences(out, "(cat.png)"))

	// Heading lines do not reappear in the body.
	assert.NotContains(t, out, "## Intro")
}

func TestTranslateDocument_ImagePreservationCount(t *testing.T) {
	source := "Opening text.\n\nFirst ![one](a.png) inline.\n\n![two](b.png)\n\nClosing text."

	d := New(uppercase())
	out, err := d.TranslateDocument(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, 1, countOccurrences(out, "(a.png)"), "inline image duplicated or dropped")
	assert.Equal(t, 1, countOccurrences(out, "(b.png)"), "image-only paragraph image duplicated or dropped")
}

func TestTranslateDocument_ImageOnlyParagraphPassthrough(t *testing.T) {
	source := "Some prose.\n\n![x](y.png)\n\nMore prose."

	d := New(uppercase())
	out, err := d.TranslateDocument(context.Background(), source)
	require.NoError(t, err)

	// Prose is uppercased but the image-only paragraph is untouched.
	assert.Contains(t, out, "SOME PROSE.")
	assert.Contains(t, out, "![x](y.png)")
	assert.NotContains(t, out, "![X](Y.PNG)")
}

func TestTranslateDocument_PlaceholderRoundTrip(t *testing.T) {
	source := "See ![fig](f.png) below."

	d := New(uppercase())
	out, err := d.TranslateDocument(context.Background(), source)
	require.NoError(t, err)

	// Surrounding text translated, original image markup verbatim inside it.
	assert.Contains(t, out, "SEE ![fig](f.png) BELOW.")
	assert.Equal(t, 1, countOccurrences(out, "(f.png)"))
}

func TestTranslateDocument_IdentityPreservesContent(t *testing.T) {
	source := "# Doc\n\nAlpha paragraph.\n\nBeta paragraph.\n\n![pic](p.png)"

	d := New(translator.Identity())
	out, err := d.TranslateDocument(context.Background(), source)
	require.NoError(t, err)

	for _, want := range []string{"Alpha paragraph.", "Beta paragraph.", "![pic](p.png)"} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 1, countOccurrences(out, "(p.png)"))
}

func TestTranslateDocument_FallbackPlacementAtEnd(t *testing.T) {
	// The capability rewrites everything beyond recognition and loses the
	// placeholder, so no tier can locate the image context: it must land
	// at the end of the document, not raise an error.
	capability := translator.Func(func(_ context.Context, text string) (string, error) {
		if strings.Contains(text, "__IMG_PLACEHOLDER_") {
			return "omega kappa", nil
		}
		return "zeta", nil
	})

	source := "See ![fig](f.png) here."
	d := New(capability)
	out, err := d.TranslateDocument(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, 1, countOccurrences(out, "(f.png)"))
	assert.True(t, strings.HasSuffix(out, "![zeta](f.png)"),
		"image should be appended at end of document, got: %q", out)
}

func TestTranslateDocument_LostPlaceholderStillPlacedOnce(t *testing.T) {
	// Every unit translates to the same string; the placeholder is lost
	// but the placement phase reinserts the image exactly once.
	capability := translator.Func(func(_ context.Context, _ string) (string, error) {
		return "mmm", nil
	})

	source := "Intro paragraph.\n\nSee ![fig](f.png) here.\n\nOutro paragraph."
	d := New(capability)
	out, err := d.TranslateDocument(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, 1, countOccurrences(out, "(f.png)"))
}

func TestTranslateDocumentWithResult_Counts(t *testing.T) {
	source := "# Title\n\n## Intro\n\nHello world.\n\n![Cat](cat.png)\n\nBye."

	d := New(translator.Identity())
	res, err := d.TranslateDocumentWithResult(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, source, res.OriginalContent)
	assert.Equal(t, 2, res.Headings)
	assert.Equal(t, 3, res.Paragraphs)
	assert.Equal(t, 1, res.Images)

	// Same output as TranslateDocument.
	out, err := d.TranslateDocument(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, out, res.TranslatedContent)
}

func TestTranslateDocument_CRLFSource(t *testing.T) {
	source := "First paragraph.\r\n\r\nSecond paragraph."

	d := New(uppercase())
	res, err := d.TranslateDocumentWithResult(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Paragraphs, "CRLF blank line must split paragraphs")
	assert.Contains(t, res.TranslatedContent, "FIRST PARAGRAPH.")
	assert.Contains(t, res.TranslatedContent, "SECOND PARAGRAPH.")
}

func TestTranslateDocument_CapabilityErrorAborts(t *testing.T) {
	boom := errors.New("backend down")
	capability := translator.Func(func(_ context.Context, _ string) (string, error) {
		return "", boom
	})

	d := New(capability)
	_, err := d.TranslateDocument(context.Background(), "Some text to translate.")
	require.Error(t, err)

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrTranslation, appErr.Code)
	assert.ErrorIs(t, err, boom)
}

func TestTranslateDocument_SequentialConcurrencyOption(t *testing.T) {
	calls := 0 // incremented without locking; safe only if calls are serialized

	capability := translator.Func(func(_ context.Context, text string) (string, error) {
		calls++
		return text, nil
	})

	source := "# H\n\nOne.\n\nTwo.\n\nThree.\n\nFour."
	d := New(capability, WithConcurrency(1))
	out, err := d.TranslateDocument(context.Background(), source)
	require.NoError(t, err)
	assert.Contains(t, out, "One.")
	assert.Equal(t, 5, calls, "one call per heading and paragraph")
}

func TestTranslateDocument_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := New(translator.Identity())
	_, err := d.TranslateDocument(ctx, "Some text.")
	require.Error(t, err)
}
