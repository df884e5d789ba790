package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"markdown-translator/internal/config"
	"markdown-translator/internal/document"
	"markdown-translator/internal/glossary"
	"markdown-translator/internal/input"
	"markdown-translator/internal/logger"
	"markdown-translator/internal/translator"
	"markdown-translator/internal/types"
)

func newTranslateCmd() *cobra.Command {
	var (
		output       string
		provider     string
		model        string
		targetLang   string
		glossaryPath string
		cachePath    string
		baseURL      string
		concurrency  int
		asHTML       bool
	)

	cmd := &cobra.Command{
		Use:   "translate <input>",
		Short: "Translate a document while preserving its structure",
		Long: `Translates the given markdown, text, or PDF document. Headings are
collected into a generated table of contents, paragraphs are translated
concurrently, and image references are reinserted near their translated
context.`,
		Example: `  # Translate a markdown file to the configured target language
  markdown-translator translate paper.md

  # Translate to English with the Gemini backend and a glossary
  markdown-translator translate paper.md --provider gemini --target-lang English --glossary terms.yaml

  # Render the result as HTML
  markdown-translator translate paper.md --html -o paper_translated.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := config.NewManager("")
			if err != nil {
				return err
			}
			if err := mgr.Load(); err != nil {
				return err
			}
			cfg := mgr.GetConfig()

			if provider != "" {
				cfg.Provider = provider
			}
			if model != "" {
				cfg.OpenAIModel = model
				cfg.GeminiModel = model
			}
			if targetLang != "" {
				cfg.TargetLanguage = targetLang
			}
			if baseURL != "" {
				cfg.OpenAIBaseURL = baseURL
			}
			if cachePath != "" {
				cfg.CachePath = cachePath
			}
			if glossaryPath != "" {
				cfg.GlossaryPath = glossaryPath
			}
			if concurrency > 0 {
				cfg.Concurrency = concurrency
			}

			source, err := input.Read(args[0])
			if err != nil {
				return err
			}

			capability, err := buildBackend(cmd, mgr, cfg)
			if err != nil {
				return err
			}

			var cached *translator.Cached
			if cfg.CachePath != "" {
				cached = translator.NewCached(capability, cfg.CachePath)
				if err := cached.Load(); err != nil {
					logger.Warn("failed to load translation cache", logger.Err(err))
				}
				capability = cached
			}

			if cfg.GlossaryPath != "" {
				g, err := glossary.Load(cfg.GlossaryPath)
				if err != nil {
					return err
				}
				capability = g.Wrap(capability)
			}

			doc := document.New(capability, document.WithConcurrency(cfg.Concurrency))

			logger.Info("translating document",
				logger.String("input", args[0]),
				logger.String("provider", cfg.Provider),
				logger.String("target_lang", cfg.TargetLanguage),
				logger.Int("concurrency", cfg.Concurrency))

			res, err := doc.TranslateDocumentWithResult(cmd.Context(), source)
			if err != nil {
				return err
			}
			result := res.TranslatedContent

			if cached != nil {
				if err := cached.Save(); err != nil {
					logger.Warn("failed to save translation cache", logger.Err(err))
				}
			}

			if asHTML {
				result, err = renderHTML(result)
				if err != nil {
					return err
				}
			}

			outPath := output
			if outPath == "" {
				outPath = defaultOutputPath(args[0], asHTML)
			}
			if outPath == "-" {
				fmt.Fprintln(cmd.OutOrStdout(), result)
				return nil
			}
			if err := os.WriteFile(outPath, []byte(result), 0644); err != nil {
				return types.NewAppError(types.ErrInternal, "failed to write output file", err)
			}

			logger.Info("translation written",
				logger.String("output", outPath),
				logger.Int("headings", res.Headings),
				logger.Int("paragraphs", res.Paragraphs),
				logger.Int("images", res.Images))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: <input>_translated.md, \"-\" for stdout)")
	cmd.Flags().StringVar(&provider, "provider", "", "Translation backend (openai, gemini, eino)")
	cmd.Flags().StringVar(&model, "model", "", "Model name for the selected backend")
	cmd.Flags().StringVar(&targetLang, "target-lang", "", "Target language")
	cmd.Flags().StringVar(&glossaryPath, "glossary", "", "YAML glossary of protected terms")
	cmd.Flags().StringVar(&cachePath, "cache", "", "Translation cache file path")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "OpenAI-compatible API base URL")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Concurrent translation requests")
	cmd.Flags().BoolVar(&asHTML, "html", false, "Render the translated document as HTML")

	return cmd
}

// buildBackend constructs the configured translation capability.
func buildBackend(cmd *cobra.Command, mgr *config.Manager, cfg *types.Config) (translator.Translator, error) {
	switch cfg.Provider {
	case "openai":
		apiKey := mgr.GetOpenAIAPIKey()
		if apiKey == "" {
			return nil, types.NewAppError(types.ErrConfig, "OpenAI API key not configured (set OPENAI_API_KEY or the config file)", nil)
		}
		return translator.NewEngineWithConfig(apiKey, cfg.OpenAIModel, mgr.GetOpenAIBaseURL(), cfg.TargetLanguage, translator.DefaultTimeout), nil
	case "gemini":
		apiKey := mgr.GetGeminiAPIKey()
		if apiKey == "" {
			return nil, types.NewAppError(types.ErrConfig, "Gemini API key not configured (set GEMINI_API_KEY or the config file)", nil)
		}
		return translator.NewGemini(apiKey, cfg.GeminiModel, cfg.TargetLanguage), nil
	case "eino":
		apiKey := mgr.GetOpenAIAPIKey()
		if apiKey == "" {
			return nil, types.NewAppError(types.ErrConfig, "OpenAI API key not configured (set OPENAI_API_KEY or the config file)", nil)
		}
		return translator.NewEinoModel(cmd.Context(), apiKey, mgr.GetOpenAIBaseURL(), cfg.OpenAIModel, cfg.TargetLanguage)
	default:
		return nil, types.NewAppError(types.ErrConfig, fmt.Sprintf("unknown provider: %s", cfg.Provider), nil)
	}
}

// renderHTML converts translated markdown to HTML.
func renderHTML(markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", types.NewAppError(types.ErrInternal, "failed to render HTML", err)
	}
	return buf.String(), nil
}

func defaultOutputPath(inputPath string, asHTML bool) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	if asHTML {
		return base + "_translated.html"
	}
	return base + "_translated.md"
}
