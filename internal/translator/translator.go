// Package translator provides the translation capability consumed by the
// document package: a single Translate operation over plain text, with
// OpenAI, Gemini and eino backed implementations, plus a persistent cache
// decorator.
package translator

import "context"

// Translator is the injected translation capability. Implementations must
// be total: any input string yields a string (an empty input yields an
// empty output), and placeholder tokens embedded in the text are expected
// to survive verbatim.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Func adapts a plain function to the Translator interface.
type Func func(ctx context.Context, text string) (string, error)

// Translate implements Translator.
func (f Func) Translate(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// Identity returns its input unchanged. Useful for tests and dry runs.
func Identity() Translator {
	return Func(func(_ context.Context, text string) (string, error) {
		return text, nil
	})
}
