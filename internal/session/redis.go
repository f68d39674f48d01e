package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// KeyPrefix namespaces session keys in redis.
const KeyPrefix = "tccb:session:"

// RedisStore keeps sessions as JSON values with a TTL. Concurrent loads of
// the same session share one round trip.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	group  singleflight.Group
}

// NewRedisStore creates a redis-backed store. ttl <= 0 stores without expiry.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return KeyPrefix + id
}

// Get loads and decodes the session. The shared lookup is detached from the
// first caller's cancellation so other waiters are not failed by it.
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	v, err, _ := s.group.Do(id, func() (interface{}, error) {
		raw, err := s.client.Get(context.WithoutCancel(ctx), sessionKey(id)).Result()
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
		var sess Session
		if err := json.Unmarshal([]byte(raw), &sess); err != nil {
			return nil, fmt.Errorf("failed to decode session: %w", err)
		}
		return &sess, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// Put encodes and stores the session, resetting its TTL.
func (s *RedisStore) Put(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return errors.New("session id is required")
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(sess.ID), string(data), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.group.Forget(sess.ID)
	return nil
}

// Delete removes the session.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.group.Forget(id)
	return nil
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
