package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/readcircle/readcircle-sdk/modules/core/infrastructure/persistence"
	"github.com/readcircle/readcircle-sdk/modules/core/services"
	"github.com/readcircle/readcircle-sdk/pkg/composables"
	"github.com/readcircle/readcircle-sdk/pkg/configuration"
	"github.com/readcircle/readcircle-sdk/pkg/entitlements"
	"github.com/readcircle/readcircle-sdk/pkg/grants"
)

// buildCacheService wires the full resolution stack: postgres-backed
// membership and subscription lookups, the casbin grants policy, and redis
// as the persistent cache tier. The returned context carries the pool so
// repository calls inside the service can reach it.
func buildCacheService(ctx context.Context, pool *pgxpool.Pool, client *redis.Client) (*entitlements.Service, context.Context, error) {
	conf := configuration.Use()

	policy, err := grants.NewService(grants.DefaultConfig())
	if err != nil {
		return nil, nil, err
	}

	calculator := services.NewEntitlementCalculatorService(
		persistence.NewMembershipRepository(),
		persistence.NewSubscriptionRepository(),
		policy,
	)

	svc, err := entitlements.NewService(entitlements.ServiceParams{
		Calculator: calculator,
		Roles:      calculator,
		Attributor: calculator,
		Store:      persistence.NewRedisEntitlementStore(client),
		Options:    entitlements.OptionsFromConfig(conf),
		Logger:     conf.Logger(),
	})
	if err != nil {
		return nil, nil, err
	}
	return svc, composables.WithPool(ctx, pool), nil
}
