package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/eshaffer321/bigcapital-go/internal/types"
)

var _ CredentialStore = (*RedisStore)(nil)

// RedisStore keeps the record under a scoped key; expiry is enforced by Redis
type RedisStore struct {
	client *redislib.Client
	key    string
	ttl    time.Duration
	logger types.Logger
}

// NewRedisStore creates a Redis-backed store. The store owns client and closes it on Close.
func NewRedisStore(client *redislib.Client, scope string, ttl time.Duration, logger types.Logger) *RedisStore {
	if scope == "" {
		scope = "default"
	}
	if ttl <= 0 {
		ttl = types.RecordMaxAge
	}
	return &RedisStore{
		client: client,
		key:    fmt.Sprintf("%s:%s", types.AuthCookieName, scope),
		ttl:    ttl,
		logger: logger,
	}
}

// Open checks connectivity
func (r *RedisStore) Open(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Load fetches the record
func (r *RedisStore) Load(ctx context.Context) (*Record, error) {
	result, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return decodeOrAbsent(result, r.logger, "redis"), nil
}

// Save writes the record with the configured TTL
func (r *RedisStore) Save(ctx context.Context, record *Record) error {
	data, _, err := Encode(record)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key, data, r.ttl).Err()
}

// Clear deletes the record
func (r *RedisStore) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

// Close closes the Redis client
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Key returns the Redis key holding the record
func (r *RedisStore) Key() string {
	return r.key
}
