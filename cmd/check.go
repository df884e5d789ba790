package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"markdown-translator/internal/config"
	"markdown-translator/internal/translator"
	"markdown-translator/internal/types"
)

func newCheckCmd() *cobra.Command {
	var (
		model   string
		baseURL string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the OpenAI-compatible API connection",
		Long: `Sends a minimal chat request to the configured OpenAI-compatible
endpoint to verify the API key, base URL and model before starting a
translation run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := config.NewManager("")
			if err != nil {
				return err
			}
			if err := mgr.Load(); err != nil {
				return err
			}
			cfg := mgr.GetConfig()

			if model == "" {
				model = cfg.OpenAIModel
			}
			url := baseURL
			if url == "" {
				url = mgr.GetOpenAIBaseURL()
			}

			apiKey := mgr.GetOpenAIAPIKey()
			if apiKey == "" {
				return types.NewAppError(types.ErrConfig, "OpenAI API key not configured (set OPENAI_API_KEY or the config file)", nil)
			}

			engine := translator.NewEngineWithConfig(apiKey, model, url, cfg.TargetLanguage, translator.DefaultTimeout)
			if err := engine.TestConnection(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Connection OK (model %s)\n", engine.GetModel())
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Model name to test")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "OpenAI-compatible API base URL")

	return cmd
}
