package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"markdown-translator/internal/config"
	"markdown-translator/internal/translator"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the translation cache",
	}

	cmd.AddCommand(newCacheClearCmd())

	return cmd
}

func newCacheClearCmd() *cobra.Command {
	var cachePath string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached translations",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cachePath
			if path == "" {
				mgr, err := config.NewManager("")
				if err != nil {
					return err
				}
				if err := mgr.Load(); err != nil {
					return err
				}
				path = mgr.GetConfig().CachePath
			}
			if path == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No cache path configured; nothing to clear.")
				return nil
			}

			cache := translator.NewCached(translator.Identity(), path)
			if err := cache.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared: %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&cachePath, "cache", "", "Translation cache file path")

	return cmd
}
