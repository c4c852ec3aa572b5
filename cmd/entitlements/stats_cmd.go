package main

import (
	"github.com/spf13/cobra"
)

type statsOutput struct {
	Command     string   `json:"command"`
	CachedUsers int      `json:"cached_users"`
	UserIDs     []string `json:"user_ids,omitempty"`
}

func newStatsCmd() *cobra.Command {
	var listUsers bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Inspect the persistent cache tier",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			client, err := connectRedis(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			svc, ctx, err := buildCacheService(cmd.Context(), pool, client)
			if err != nil {
				return err
			}

			userIDs, err := svc.CachedUserIDs(ctx)
			if err != nil {
				return err
			}

			out := statsOutput{
				Command:     "stats",
				CachedUsers: len(userIDs),
			}
			if listUsers {
				out.UserIDs = userIDs
			}
			return writeJSON(out)
		},
	}

	cmd.Flags().BoolVar(&listUsers, "users", false, "List the cached user ids")
	return cmd
}
