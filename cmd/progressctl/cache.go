package main

import (
	"context"

	"github.com/spf13/cobra"
)

var cacheFlushCmd = &cobra.Command{
	Use:   "cache-flush",
	Short: "Drop every cached leaderboard ranking",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEngine(cmd, func(ctx context.Context, eng *engine) (interface{}, error) {
			if err := eng.leaderboards.FlushCache(ctx); err != nil {
				return nil, err
			}
			return map[string]string{"status": "flushed"}, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(cacheFlushCmd)
}
