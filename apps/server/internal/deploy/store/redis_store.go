package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/neogit/neogit/apps/server/internal/deploy"
	"github.com/neogit/neogit/pkg/api"
)

const (
	redisIndexKey  = "deploy-runs:index"
	redisKeyPrefix = "deploy-run:"
)

// Compile-time check: *RedisRunStore implements deploy.RunStore.
var _ deploy.RunStore = (*RedisRunStore)(nil)

// RedisRunStore persists deployment runs in Redis: one JSON blob per run
// plus an index set of run IDs.
type RedisRunStore struct {
	rdb *redis.Client
}

// NewRedisRunStore creates a RedisRunStore.
func NewRedisRunStore(rdb *redis.Client) *RedisRunStore {
	return &RedisRunStore{rdb: rdb}
}

// Save persists a run and adds its ID to the index set.
func (s *RedisRunStore) Save(ctx context.Context, r api.RunRecord) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	if err := s.rdb.Set(ctx, redisKeyPrefix+r.Id, data, 0).Err(); err != nil {
		return fmt.Errorf("save run %q: %w", r.Id, err)
	}
	// SADD is idempotent, so re-saving a run is harmless.
	if err := s.rdb.SAdd(ctx, redisIndexKey, r.Id).Err(); err != nil {
		return fmt.Errorf("update index for %q: %w", r.Id, err)
	}
	return nil
}

// Get retrieves a run by ID, returning nil when not found.
func (s *RedisRunStore) Get(ctx context.Context, id string) (*api.RunRecord, error) {
	val, err := s.rdb.Get(ctx, redisKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil //nolint:nilnil // caller checks nil value to detect "not found"
	}
	if err != nil {
		return nil, fmt.Errorf("get run %q: %w", id, err)
	}
	var r api.RunRecord
	if err := json.Unmarshal([]byte(val), &r); err != nil {
		return nil, fmt.Errorf("unmarshal run %q: %w", id, err)
	}
	return &r, nil
}

// List returns all runs, newest first.
func (s *RedisRunStore) List(ctx context.Context) ([]api.RunRecord, error) {
	ids, err := s.rdb.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list index: %w", err)
	}
	runs := make([]api.RunRecord, 0, len(ids))
	for _, id := range ids {
		r, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if r != nil {
			runs = append(runs, *r)
		}
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.After(runs[j].CreatedAt) })
	return runs, nil
}
