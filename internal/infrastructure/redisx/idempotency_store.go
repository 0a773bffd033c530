package redisx

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/herbal-backoffice/internal/idempotency"
	"github.com/redis/go-redis/v9"
)

var _ idempotency.Store = (*IdempotencyStore)(nil)

// IdempotencyStore records keyed requests in Redis for idempotency.TTL
type IdempotencyStore struct {
	rdb *redis.Client
}

func NewIdempotencyStore(rdb *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb}
}

func (s *IdempotencyStore) Lookup(ctx context.Context, scope, key string) (string, bool, error) {
	id, err := s.rdb.Get(ctx, fmt.Sprintf(KeyIdempotency, scope, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (s *IdempotencyStore) Remember(ctx context.Context, scope, key, id string) (string, error) {
	k := fmt.Sprintf(KeyIdempotency, scope, key)
	ok, err := s.rdb.SetNX(ctx, k, id, idempotency.TTL).Result()
	if err != nil {
		return "", err
	}
	if ok {
		return id, nil
	}
	return s.rdb.Get(ctx, k).Result()
}
