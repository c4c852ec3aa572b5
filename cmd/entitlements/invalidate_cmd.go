package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/readcircle/readcircle-sdk/modules/core/infrastructure/persistence"
)

type invalidateOutput struct {
	Command string   `json:"command"`
	UserIDs []string `json:"user_ids"`
}

func newInvalidateCmd() *cobra.Command {
	var clubID string

	cmd := &cobra.Command{
		Use:   "invalidate [user-id...]",
		Short: "Drop cached entitlements for users or a whole club",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && clubID == "" {
				return fmt.Errorf("nothing to invalidate: pass user ids or --club")
			}

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

			userIDs := args
			if clubID != "" {
				members, err := persistence.NewMembershipRepository().UserIDsForClub(ctx, clubID)
				if err != nil {
					return fmt.Errorf("club member lookup failed: %w", err)
				}
				userIDs = append(userIDs, members...)
			}
			if len(userIDs) == 0 {
				return fmt.Errorf("club %q has no members to invalidate", clubID)
			}

			svc.InvalidateUsers(ctx, userIDs)

			out := invalidateOutput{
				Command: "invalidate",
				UserIDs: userIDs,
			}
			return writeJSON(out)
		},
	}

	cmd.Flags().StringVar(&clubID, "club", "", "Invalidate every member of this club")
	return cmd
}
