package main

import (
	"github.com/spf13/cobra"

	"github.com/readcircle/readcircle-sdk/modules/core/infrastructure/persistence"
	"github.com/readcircle/readcircle-sdk/pkg/composables"
)

type migrateOutput struct {
	Command string `json:"command"`
	Applied bool   `json:"applied"`
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the membership and subscription schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			ctx := composables.WithPool(cmd.Context(), pool)
			if err := persistence.ApplySchema(ctx); err != nil {
				return err
			}

			out := migrateOutput{
				Command: "migrate",
				Applied: true,
			}
			return writeJSON(out)
		},
	}
	return cmd
}
