package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/readcircle/readcircle-sdk/pkg/configuration"
	"github.com/readcircle/readcircle-sdk/pkg/entitlements"
)

type sweepOutput struct {
	Command    string `json:"command"`
	Removed    int    `json:"removed"`
	DurationMS int64  `json:"duration_ms"`
}

func newSweepCmd() *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove expired and unreadable entries from both cache tiers",
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

			if follow {
				conf := configuration.Use()
				ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
				defer cancel()

				janitor := entitlements.NewJanitor(svc, conf.Entitlements.SweepInterval, conf.Logger())
				janitor.Run(ctx)
				return nil
			}

			start := time.Now()
			removed, err := svc.CleanupExpired(ctx)
			if err != nil {
				return err
			}

			out := sweepOutput{
				Command:    "sweep",
				Removed:    removed,
				DurationMS: time.Since(start).Milliseconds(),
			}
			return writeJSON(out)
		},
	}
	cmd.Flags().BoolVar(&follow, "follow", false, "Keep sweeping at the configured interval until interrupted")
	return cmd
}
