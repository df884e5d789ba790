// Package cmd wires the command-line interface.
package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"markdown-translator/internal/logger"
)

func NewRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "markdown-translator",
		Short: "Structure-preserving markdown document translator",
		Long: `markdown-translator translates markdown documents while keeping their
structure intact: headings become a generated table of contents, paragraphs
are translated independently, and image references are reinserted near
their translated surroundings.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			logger.SetLevel(logger.ParseLevel(logLevel))
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newTranslateCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCacheCmd())

	return cmd
}
