package session

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

// NewRedisStore creates a Redis-backed session store. Expired sessions
// are collected by the key TTL; no sweep is needed.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "session:",
		ttl:    ttl,
	}
}

func (r *RedisStore) key(token string) string {
	return r.prefix + token
}

func (r *RedisStore) Create(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("session: missing user_id")
	}

	token, err := GenerateToken()
	if err != nil {
		return "", err
	}

	now := time.Now()
	s := Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}

	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("session: failed to marshal: %w", err)
	}

	if err := r.client.Set(ctx, r.key(token), data, r.ttl).Err(); err != nil {
		return "", err
	}

	return token, nil
}

func (r *RedisStore) Lookup(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}

	val, err := r.client.Get(ctx, r.key(token)).Result()
	if err == redis.Nil {
		return nil, nil // unknown, revoked, or expired
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}

	// The key TTL already bounds the lifetime; the explicit check guards
	// against clock drift between writers.
	if !time.Now().Before(s.ExpiresAt) {
		_ = r.client.Del(ctx, r.key(token)).Err()
		return nil, nil
	}

	return &s, nil
}

func (r *RedisStore) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return r.client.Del(ctx, r.key(token)).Err()
}
