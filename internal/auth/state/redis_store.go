package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed authorization request store.
// Expiry is enforced by the key TTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "authreq:",
		ttl:    ttl,
	}
}

func (r *RedisStore) key(state string) string {
	return r.prefix + state
}

func (r *RedisStore) Issue(ctx context.Context) (*Request, error) {
	req, err := newRequest(r.ttl)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("state: failed to marshal: %w", err)
	}

	if err := r.client.Set(ctx, r.key(req.State), data, r.ttl).Err(); err != nil {
		return nil, err
	}

	return req, nil
}

// Consume uses GETDEL so that the check-and-delete is a single atomic
// operation; a replayed state observes a miss.
func (r *RedisStore) Consume(ctx context.Context, state string) (*Request, error) {
	if state == "" {
		return nil, nil
	}

	val, err := r.client.GetDel(ctx, r.key(state)).Result()
	if err == redis.Nil {
		return nil, nil // unknown, expired, or already consumed
	}
	if err != nil {
		return nil, err
	}

	var req Request
	if err := json.Unmarshal([]byte(val), &req); err != nil {
		return nil, fmt.Errorf("state: failed to unmarshal: %w", err)
	}

	return &req, nil
}
