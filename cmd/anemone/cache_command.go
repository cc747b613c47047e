package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"anemone/internal/fetch"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the remote input cache",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func openFetcher(cmd *cobra.Command, ctx *commandContext) (*fetch.Fetcher, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Fetch.CacheEnabled {
		return nil, fmt.Errorf("fetch cache is disabled (fetch.cache_enabled = false)")
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, err
	}
	return fetch.New(cmd.Context(), fetch.OptionsFromConfig(cfg), logger)
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cached response counts and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := openFetcher(cmd, ctx)
			if err != nil {
				return err
			}
			defer f.Close()
			stats, err := f.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, stats)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Entries", "Failures", "Size"},
				[][]string{{
					fmt.Sprint(stats.Entries),
					fmt.Sprint(stats.Failures),
					humanBytes(stats.Bytes),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print stats as JSON")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached response",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := openFetcher(cmd, ctx)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := f.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Fetch cache cleared")
			return nil
		},
	}
}
