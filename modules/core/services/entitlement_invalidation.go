package services

import (
	"context"

	"github.com/readcircle/readcircle-sdk/modules/core/domain/entities/membership"
	"github.com/readcircle/readcircle-sdk/modules/core/domain/entities/subscription"
	"github.com/readcircle/readcircle-sdk/pkg/entitlements"
	"github.com/readcircle/readcircle-sdk/pkg/eventbus"
)

// WireEntitlementInvalidation subscribes the entitlement cache to membership
// and subscription change events, so every grant-affecting write drops the
// affected user's cached entries.
func WireEntitlementInvalidation(bus eventbus.EventBus, cache *entitlements.Service) {
	bus.Subscribe(func(event *membership.CreatedEvent) {
		cache.InvalidateUser(context.Background(), event.Result.UserID())
	})
	bus.Subscribe(func(event *membership.UpdatedEvent) {
		cache.InvalidateUser(context.Background(), event.Result.UserID())
	})
	bus.Subscribe(func(event *membership.DeletedEvent) {
		cache.InvalidateUser(context.Background(), event.Result.UserID())
	})
	bus.Subscribe(func(event *subscription.CreatedEvent) {
		cache.InvalidateUser(context.Background(), event.Result.UserID())
	})
	bus.Subscribe(func(event *subscription.UpdatedEvent) {
		cache.InvalidateUser(context.Background(), event.Result.UserID())
	})
	bus.Subscribe(func(event *subscription.DeletedEvent) {
		cache.InvalidateUser(context.Background(), event.Result.UserID())
	})
}
