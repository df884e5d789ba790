// Package glossary protects domain terms across translation. Terms listed
// in a YAML glossary are shielded with placeholder tokens before the text
// reaches the translation capability and restored afterward, so product
// names and fixed terminology survive verbatim (or map to a pinned
// translation).
package glossary

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"markdown-translator/internal/logger"
	"markdown-translator/internal/translator"
	"markdown-translator/internal/types"
)

// termTokenFormat is the placeholder token substituted for a protected term.
const termTokenFormat = "__TERM_%d__"

// Term is a single glossary entry. When Translation is empty the term
// passes through translation unchanged; otherwise the pinned translation
// replaces it in the output.
type Term struct {
	Term        string `yaml:"term"`
	Translation string `yaml:"translation,omitempty"`
}

// Glossary is an ordered list of protected terms.
type Glossary struct {
	Terms []Term `yaml:"terms"`
}

// Load reads a glossary from a YAML file.
func Load(path string) (*Glossary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.NewAppError(types.ErrFileNotFound, "glossary file not found", err)
		}
		return nil, types.NewAppError(types.ErrConfig, "failed to read glossary file", err)
	}

	var g Glossary
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, types.NewAppError(types.ErrConfig, "failed to parse glossary file", err)
	}

	// Longest terms first so overlapping terms shield greedily.
	sort.SliceStable(g.Terms, func(i, j int) bool {
		return len(g.Terms[i].Term) > len(g.Terms[j].Term)
	})

	logger.Info("glossary loaded", logger.String("path", path), logger.Int("terms", len(g.Terms)))
	return &g, nil
}

// Wrap returns a Translator that shields glossary terms around inner.
func (g *Glossary) Wrap(inner translator.Translator) translator.Translator {
	return translator.Func(func(ctx context.Context, text string) (string, error) {
		protected, used := g.protect(text)
		translated, err := inner.Translate(ctx, protected)
		if err != nil {
			return "", err
		}
		return g.restore(translated, used), nil
	})
}

// protect replaces each occurrence of a glossary term with its token and
// returns the indexes of the terms actually present.
func (g *Glossary) protect(text string) (string, []int) {
	var used []int
	for i, term := range g.Terms {
		if term.Term == "" || !strings.Contains(text, term.Term) {
			continue
		}
		text = strings.ReplaceAll(text, term.Term, fmt.Sprintf(termTokenFormat, i))
		used = append(used, i)
	}
	return text, used
}

// restore substitutes tokens back. Tokens the translation lost are left
// out of the result; the pinned translation (or the verbatim term) fills
// every surviving token.
func (g *Glossary) restore(text string, used []int) string {
	for _, i := range used {
		token := fmt.Sprintf(termTokenFormat, i)
		replacement := g.Terms[i].Translation
		if replacement == "" {
			replacement = g.Terms[i].Term
		}
		if !strings.Contains(text, token) {
			logger.Warn("glossary token lost during translation", logger.String("term", g.Terms[i].Term))
			continue
		}
		text = strings.ReplaceAll(text, token, replacement)
	}
	return text
}
