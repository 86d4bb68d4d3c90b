package policystore

import (
	"context"
	"fmt"
	"treatment-site-service/internal/domain"
	"treatment-site-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists the policy as two JSON string keys under a prefix.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(name string) string { return s.prefix + name }

func (s *RedisStore) LoadPolicy(ctx context.Context) (_ domain.Policy, err error) {
	defer obs.Time(ctx, "redis.LoadPolicy")(&err)

	vals, err := s.rdb.MGet(ctx, s.key(DurationsKey), s.key(PausedKey)).Result()
	if err != nil {
		return domain.Policy{}, fmt.Errorf("load policy: %w", err)
	}

	raw := make([][]byte, len(vals))
	for i, v := range vals {
		if str, ok := v.(string); ok {
			raw[i] = []byte(str)
		}
	}

	p, err := decodePolicy(raw[0], raw[1])
	if err != nil {
		return domain.Policy{}, fmt.Errorf("load policy: %w", err)
	}
	return p, nil
}

// SavePolicy writes both keys in one MULTI/EXEC transaction.
func (s *RedisStore) SavePolicy(ctx context.Context, p domain.Policy) (err error) {
	defer obs.Time(ctx, "redis.SavePolicy")(&err)

	durations, paused, err := encodePolicy(p)
	if err != nil {
		return fmt.Errorf("save policy: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(DurationsKey), durations, 0)
		pipe.Set(ctx, s.key(PausedKey), paused, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save policy: %w", err)
	}
	return nil
}
