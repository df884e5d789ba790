package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"markdown-translator/internal/config"
	"markdown-translator/internal/types"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and modify configuration",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSetCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := config.NewManager("")
			if err != nil {
				return err
			}
			if err := mgr.Load(); err != nil {
				return err
			}

			shown := *mgr.GetConfig()
			shown.OpenAIAPIKey = redact(shown.OpenAIAPIKey)
			shown.GeminiAPIKey = redact(shown.GeminiAPIKey)

			data, err := json.MarshalIndent(shown, "", "  ")
			if err != nil {
				return types.NewAppError(types.ErrInternal, "failed to encode config", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n%s\n", mgr.GetConfigPath(), data)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Sets a configuration value and writes the config file.

Supported keys: provider, openai-api-key, openai-base-url, openai-model,
gemini-api-key, gemini-model, target-lang, concurrency, cache-path,
glossary-path.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := config.NewManager("")
			if err != nil {
				return err
			}
			if err := mgr.Load(); err != nil {
				return err
			}

			cfg := mgr.GetConfig()
			switch args[0] {
			case "provider":
				cfg.Provider = args[1]
			case "openai-api-key":
				cfg.OpenAIAPIKey = args[1]
			case "openai-base-url":
				cfg.OpenAIBaseURL = args[1]
			case "openai-model":
				cfg.OpenAIModel = args[1]
			case "gemini-api-key":
				cfg.GeminiAPIKey = args[1]
			case "gemini-model":
				cfg.GeminiModel = args[1]
			case "target-lang":
				cfg.TargetLanguage = args[1]
			case "concurrency":
				n := 0
				if _, err := fmt.Sscanf(args[1], "%d", &n); err != nil || n < 1 {
					return types.NewAppError(types.ErrInvalidInput, "concurrency must be a positive integer", err)
				}
				cfg.Concurrency = n
			case "cache-path":
				cfg.CachePath = args[1]
			case "glossary-path":
				cfg.GlossaryPath = args[1]
			default:
				return types.NewAppError(types.ErrInvalidInput, fmt.Sprintf("unknown config key: %s", args[0]), nil)
			}

			if err := mgr.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", mgr.GetConfigPath())
			return nil
		},
	}
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****" + secret[len(secret)-4:]
}
