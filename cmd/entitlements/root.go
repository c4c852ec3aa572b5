package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/readcircle/readcircle-sdk/pkg/configuration"
	"github.com/readcircle/readcircle-sdk/pkg/logging"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entitlements",
		Short: "Entitlement cache operations: resolve, invalidate, warm, inspect",
	}
	cmd.AddCommand(
		newResolveCmd(),
		newInvalidateCmd(),
		newWarmCmd(),
		newStatsCmd(),
		newSweepCmd(),
		newMigrateCmd(),
	)
	return cmd
}

func execute() {
	conf := configuration.Use()
	if conf.OpenTelemetry.Enabled {
		cleanup := logging.SetupTracing(
			context.Background(),
			conf.OpenTelemetry.ServiceName,
			conf.OpenTelemetry.TempoURL,
		)
		defer cleanup()
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
