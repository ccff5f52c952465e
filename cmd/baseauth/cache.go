package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/base-angewandte/baseauth/pkg/cache"
	"github.com/base-angewandte/baseauth/pkg/config"
)

func openStore(configPath string) (cache.Store, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	store, err := cache.Open(cfg.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}
	return store, cfg, nil
}

func newCacheCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear the vocabulary cache",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backend: %s\nEntries: %d\nHits:    %d\nMisses:  %d\n",
				stats.Backend, stats.Entries, stats.Hits, stats.Misses)
			return nil
		},
	}

	var expiredOnly bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openStore(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Clear(cmd.Context(), expiredOnly); err != nil {
				return err
			}
			if expiredOnly {
				fmt.Fprintln(cmd.OutOrStdout(), "Expired cache entries cleared.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "All cache entries cleared.")
			}
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&expiredOnly, "expired", false, "only clear expired entries")

	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}
