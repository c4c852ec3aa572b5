package main

import (
	"time"

	"github.com/spf13/cobra"
)

type resolveOutput struct {
	Command    string `json:"command"`
	UserID     string `json:"user_id"`
	DurationMS int64  `json:"duration_ms"`
	Result     any    `json:"result"`
}

func newResolveCmd() *cobra.Command {
	var (
		force    bool
		enhanced bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <user-id>",
		Short: "Resolve a user's entitlements through the cache",
		Args:  cobra.ExactArgs(1),
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

			userID := args[0]
			start := time.Now()

			var result any
			if enhanced {
				entry, err := svc.GetEnhancedUserEntitlements(ctx, userID, force)
				if err != nil {
					return err
				}
				result = entry
			} else {
				ents, err := svc.GetUserEntitlements(ctx, userID, force)
				if err != nil {
					return err
				}
				result = ents
			}

			out := resolveOutput{
				Command:    "resolve",
				UserID:     userID,
				DurationMS: time.Since(start).Milliseconds(),
				Result:     result,
			}
			return writeJSON(out)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Bypass both cache tiers and recompute")
	cmd.Flags().BoolVar(&enhanced, "enhanced", false, "Include roles and permission provenance")
	return cmd
}
