package signalstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldSessionID    = "session_id"
	fieldLastActivity = "last_activity"
)

// RedisStore keeps each record in a hash under prefix+deviceKey, so every
// instance behind a load balancer sees the same device state.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store on client. An empty prefix selects
// DefaultKeyPrefix.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Get reads the device hash. An empty hash is ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, deviceKey string) (Record, error) {
	if deviceKey == "" {
		return Record{}, ErrEmptyKey
	}

	fields, err := s.client.HGetAll(ctx, s.key(deviceKey)).Result()
	if err != nil {
		return Record{}, fmt.Errorf("signalstore: get %s: %w", deviceKey, err)
	}
	// HGetAll returns an empty map for missing keys.
	if len(fields) == 0 {
		return Record{}, ErrNotFound
	}

	rec := Record{SessionID: fields[fieldSessionID]}
	if raw := fields[fieldLastActivity]; raw != "" {
		if rec.LastActivity, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return Record{}, fmt.Errorf("signalstore: parse last activity for %s: %w", deviceKey, err)
		}
	}
	return rec, nil
}

// Put writes the hash and its expiry in one transaction. A non-positive ttl
// removes any expiry.
func (s *RedisStore) Put(ctx context.Context, deviceKey string, rec Record, ttl time.Duration) error {
	if deviceKey == "" {
		return ErrEmptyKey
	}

	key := s.key(deviceKey)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]any{
			fieldSessionID:    rec.SessionID,
			fieldLastActivity: rec.LastActivity,
		})
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		} else {
			pipe.Persist(ctx, key)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("signalstore: put %s: %w", deviceKey, err)
	}
	return nil
}

// Delete removes the device hash.
func (s *RedisStore) Delete(ctx context.Context, deviceKey string) error {
	if deviceKey == "" {
		return ErrEmptyKey
	}
	if err := s.client.Del(ctx, s.key(deviceKey)).Err(); err != nil {
		return fmt.Errorf("signalstore: delete %s: %w", deviceKey, err)
	}
	return nil
}

func (s *RedisStore) key(deviceKey string) string {
	return s.prefix + deviceKey
}
