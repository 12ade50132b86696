package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/bryan-cox/launchledger/internal/model"
)

// RedisKeyPrefix namespaces plan state keys.
const RedisKeyPrefix = "launchledger:plan:"

// RedisPlanStore keeps plan state as JSON strings in Redis, so several machines can
// share one user's progress.
type RedisPlanStore struct {
	client *redis.Client
}

// NewRedisPlanStore connects to addr. The connection is opened lazily by the client.
func NewRedisPlanStore(addr, password string) *RedisPlanStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &RedisPlanStore{client: rdb}
}

// NewRedisPlanStoreFromClient wraps an existing client.
func NewRedisPlanStoreFromClient(client *redis.Client) *RedisPlanStore {
	return &RedisPlanStore{client: client}
}

// Close releases the underlying connection pool.
func (r *RedisPlanStore) Close() error {
	return r.client.Close()
}

func (r *RedisPlanStore) Get(ctx context.Context, planID string) (model.PlanState, bool, error) {
	raw, err := r.client.Get(ctx, RedisKeyPrefix+planID).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.PlanState{}, false, nil
	}
	if err != nil {
		return model.PlanState{}, false, fmt.Errorf("redis get plan %s: %w", planID, err)
	}
	var state model.PlanState
	if err := json.Unmarshal(raw, &state); err != nil {
		return model.PlanState{}, false, fmt.Errorf("decode plan %s: %w", planID, err)
	}
	return state, true, nil
}

func (r *RedisPlanStore) Put(ctx context.Context, planID string, state model.PlanState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode plan %s: %w", planID, err)
	}
	if err := r.client.Set(ctx, RedisKeyPrefix+planID, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set plan %s: %w", planID, err)
	}
	return nil
}

func (r *RedisPlanStore) Delete(ctx context.Context, planID string) error {
	if err := r.client.Del(ctx, RedisKeyPrefix+planID).Err(); err != nil {
		return fmt.Errorf("redis del plan %s: %w", planID, err)
	}
	return nil
}
