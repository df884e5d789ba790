// Package document implements the structure-preserving document
// translator: it parses a lightly-marked-up document into headings,
// paragraphs and image references, translates each structural unit
// through an injected translation capability, and reconstructs the
// document with a generated table of contents and images reinserted at
// the best-matching positions in the translated text.
package document

import (
	"context"
	"sort"
	"strings"
	"sync"

	"markdown-translator/internal/logger"
	"markdown-translator/internal/translator"
	"markdown-translator/internal/types"
)

// DefaultConcurrency is the default number of concurrent translation calls.
const DefaultConcurrency = 3

// Translator translates a structured document while preserving its heading
// hierarchy and image placements. It holds no state across calls beyond
// the injected capability; each TranslateDocument invocation is
// independent and reentrant given a translation capability that is safe
// for concurrent use.
type Translator struct {
	capability  translator.Translator
	concurrency int
}

// Option configures a Translator.
type Option func(*Translator)

// WithConcurrency bounds the number of concurrent translation calls.
// A value of 1 gives strictly sequential processing.
func WithConcurrency(n int) Option {
	return func(t *Translator) {
		if n > 0 {
			t.concurrency = n
		}
	}
}

// New creates a document Translator around the given translation capability.
func New(capability translator.Translator, opts ...Option) *Translator {
	t := &Translator{
		capability:  capability,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TranslateDocument translates the source document and returns a new
// document: a generated table of contents, a blank line, then the
// reconstructed translated body with images reinserted.
//
// Any failure of the translation capability aborts the whole call with a
// single TRANSLATION_ERROR; there is no partial output.
func (t *Translator) TranslateDocument(ctx context.Context, source string) (string, error) {
	result, err := t.TranslateDocumentWithResult(ctx, source)
	if err != nil {
		return "", err
	}
	return result.TranslatedContent, nil
}

// TranslateDocumentWithResult is TranslateDocument plus a summary of the
// structural units the run processed.
func (t *Translator) TranslateDocumentWithResult(ctx context.Context, source string) (*types.TranslationResult, error) {
	toc := ExtractTOC(source)
	paragraphs := SplitParagraphs(StripHeadings(source))
	images := ExtractImages(source)

	logger.Info("translating document",
		logger.Int("length", len(source)),
		logger.Int("headings", len(toc)),
		logger.Int("paragraphs", len(paragraphs)),
		logger.Int("images", len(images)),
		logger.Int("concurrency", t.concurrency))

	translatedTOC := make([]types.TOCEntry, len(toc))
	err := t.forEach(ctx, len(toc), func(i int) error {
		text, err := t.capability.Translate(ctx, toc[i].Text)
		if err != nil {
			return err
		}
		translatedTOC[i] = types.TOCEntry{
			Level:    toc[i].Level,
			Text:     strings.TrimSpace(text),
			Position: toc[i].Position,
		}
		return nil
	})
	if err != nil {
		return nil, types.NewAppError(types.ErrTranslation, "failed to translate table of contents", err)
	}

	translatedParagraphs := make([]string, len(paragraphs))
	err = t.forEach(ctx, len(paragraphs), func(i int) error {
		text, err := t.translateParagraph(ctx, paragraphs[i])
		if err != nil {
			return err
		}
		translatedParagraphs[i] = text
		return nil
	})
	if err != nil {
		return nil, types.NewAppError(types.ErrTranslation, "failed to translate paragraphs", err)
	}

	body := strings.TrimSpace(strings.Join(translatedParagraphs, "\n\n"))

	err = t.forEach(ctx, len(images), func(i int) error {
		alt, err := t.capability.Translate(ctx, images[i].Alt)
		if err != nil {
			return err
		}
		context, err := t.capability.Translate(ctx, images[i].ParagraphContext)
		if err != nil {
			return err
		}
		images[i].TranslatedAlt = strings.TrimSpace(alt)
		images[i].TranslatedContext = strings.TrimSpace(context)
		return nil
	})
	if err != nil {
		return nil, types.NewAppError(types.ErrTranslation, "failed to translate image metadata", err)
	}

	body = t.placeImages(body, images)

	logger.Info("document translation complete", logger.Int("outputLength", len(body)))
	return &types.TranslationResult{
		OriginalContent:   source,
		TranslatedContent: RenderTOC(translatedTOC) + "\n\n" + body,
		Headings:          len(toc),
		Paragraphs:        len(paragraphs),
		Images:            len(images),
	}, nil
}

// translateParagraph translates one paragraph record. Image-only
// paragraphs pass through untouched; mixed paragraphs get their image
// references shielded by placeholder tokens for the duration of the call.
func (t *Translator) translateParagraph(ctx context.Context, p types.Paragraph) (string, error) {
	if !p.HasImage {
		return t.capability.Translate(ctx, p.Text)
	}

	if isImageOnly(p.Text) {
		logger.Debug("image-only paragraph passed through", logger.Int("length", p.Length))
		return p.Text, nil
	}

	protected, originals := protectImages(p.Text)
	translated, err := t.capability.Translate(ctx, protected)
	if err != nil {
		return "", err
	}

	restored, missing := restoreImages(translated, originals)
	if len(missing) > 0 {
		// The lost references are recovered later by the placement phase,
		// which skips locators already present inline.
		logger.Warn("placeholders lost in paragraph translation",
			logger.Int("missing", len(missing)),
			logger.Int("total", len(originals)))
	}
	return restored, nil
}

// placeImages reinserts each extracted image into the reconstructed body.
// Images whose references survived inline through the placeholder round
// trip are skipped; the rest are placed at the best position the tiered
// matcher can find, with a running offset keeping earlier insertions from
// corrupting later positions. Every extracted image appears exactly once
// in the result.
func (t *Translator) placeImages(body string, images []types.ImageRef) string {
	if len(images) == 0 {
		return body
	}

	sorted := make([]types.ImageRef, len(images))
	copy(sorted, images)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	result := body
	offset := 0
	for _, ref := range sorted {
		if strings.Contains(result, "]("+ref.Src+")") {
			logger.Debug("image already present, skipping insertion", logger.String("src", ref.Src))
			continue
		}

		pos := findInsertPoint(body, ref.TranslatedContext, ref.Context)
		at := pos + offset
		if at > len(result) {
			at = len(result)
		}

		insertion := "\n\n" + imageTag(ref) + "\n\n"
		result = result[:at] + insertion + result[at:]
		offset += len(insertion)
		logger.Debug("image inserted", logger.String("src", ref.Src), logger.Int("position", pos))
	}

	return strings.TrimSpace(result)
}

// forEach runs fn for each index with bounded concurrency, reassembling
// nothing itself: callers write results into index-addressed slices so
// completion order never matters. The first error by index is returned.
func (t *Translator) forEach(ctx context.Context, n int, fn func(i int) error) error {
	if n == 0 {
		return nil
	}

	sem := make(chan struct{}, t.concurrency)
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return
			}
			errs[idx] = fn(idx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
