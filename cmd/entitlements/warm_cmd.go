package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/readcircle/readcircle-sdk/pkg/entitlements"
)

type warmOutput struct {
	Command    string             `json:"command"`
	Requested  int                `json:"requested"`
	Cached     int                `json:"cached"`
	DurationMS int64              `json:"duration_ms"`
	Stats      entitlements.Stats `json:"stats"`
}

func newWarmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "warm <user-id>...",
		Short: "Precompute and cache entitlements for the given users",
		Args:  cobra.MinimumNArgs(1),
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

			start := time.Now()
			svc.PreloadCache(ctx, args)

			out := warmOutput{
				Command:    "warm",
				Requested:  len(args),
				Cached:     svc.MemorySize(),
				DurationMS: time.Since(start).Milliseconds(),
				Stats:      svc.Stats(),
			}
			return writeJSON(out)
		},
	}
	return cmd
}
