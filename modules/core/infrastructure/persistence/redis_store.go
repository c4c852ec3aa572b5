package persistence

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/readcircle/readcircle-sdk/pkg/entitlements"
)

var _ entitlements.Store = (*RedisEntitlementStore)(nil)

// RedisEntitlementStore persists entitlement cache entries in a single redis
// hash, one field per cache key, so processes behind the same redis share
// warm entries.
type RedisEntitlementStore struct {
	redis   *redis.Client
	hashKey string
}

func NewRedisEntitlementStore(client *redis.Client) *RedisEntitlementStore {
	return &RedisEntitlementStore{redis: client, hashKey: "entitlements:store:v1"}
}

func (s *RedisEntitlementStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.redis.HGet(ctx, s.hashKey, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *RedisEntitlementStore) Set(ctx context.Context, key, value string) error {
	return s.redis.HSet(ctx, s.hashKey, key, value).Err()
}

func (s *RedisEntitlementStore) Remove(ctx context.Context, key string) error {
	return s.redis.HDel(ctx, s.hashKey, key).Err()
}

func (s *RedisEntitlementStore) Keys(ctx context.Context) ([]string, error) {
	return s.redis.HKeys(ctx, s.hashKey).Result()
}
