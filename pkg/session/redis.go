package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisTokenPrefix = "gatehouse:session:"
	redisUserPrefix  = "gatehouse:session_user:"
	redisIDPrefix    = "gatehouse:session_id:"
)

// RedisStore keeps sessions in Redis with a TTL slightly past the idle
// timeout so abandoned rows age out on their own. A per-user set and an
// id-to-token mapping support single-session enforcement and Touch.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Store over the given client. ttl bounds how long
// an untouched session row survives; it should exceed the idle timeout.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, redisTokenPrefix+s.Token, data, r.ttl)
	pipe.Set(ctx, redisIDPrefix+s.ID, s.Token, r.ttl)
	if s.UserID != nil {
		pipe.SAdd(ctx, redisUserPrefix+*s.UserID, s.ID)
		pipe.Expire(ctx, redisUserPrefix+*s.UserID, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session: create: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := r.client.Get(ctx, redisTokenPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("session: get: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("session: unmarshal: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Update(ctx context.Context, s *Session) error {
	oldToken, err := r.client.Get(ctx, redisIDPrefix+s.ID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return fmt.Errorf("session: update: %w", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	pipe := r.client.TxPipeline()
	if oldToken != s.Token {
		pipe.Del(ctx, redisTokenPrefix+oldToken)
	}
	pipe.Set(ctx, redisTokenPrefix+s.Token, data, r.ttl)
	pipe.Set(ctx, redisIDPrefix+s.ID, s.Token, r.ttl)
	if s.UserID != nil {
		pipe.SAdd(ctx, redisUserPrefix+*s.UserID, s.ID)
		pipe.Expire(ctx, redisUserPrefix+*s.UserID, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session: update: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	token, err := r.client.Get(ctx, redisIDPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("session: delete: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, redisTokenPrefix+token)
	pipe.Del(ctx, redisIDPrefix+id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}

func (r *RedisStore) DeleteOtherByUser(ctx context.Context, userID, keepID string) error {
	ids, err := r.client.SMembers(ctx, redisUserPrefix+userID).Result()
	if err != nil {
		return fmt.Errorf("session: delete other: %w", err)
	}
	for _, id := range ids {
		if id == keepID {
			continue
		}
		if err := r.Delete(ctx, id); err != nil {
			return err
		}
		r.client.SRem(ctx, redisUserPrefix+userID, id)
	}
	return nil
}

// DeleteStartedBefore is a no-op for Redis: the per-key TTL already ages
// out idle sessions.
func (r *RedisStore) DeleteStartedBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (r *RedisStore) Touch(ctx context.Context, id string, startedAt time.Time) error {
	token, err := r.client.Get(ctx, redisIDPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return fmt.Errorf("session: touch: %w", err)
	}
	s, err := r.Get(ctx, token)
	if err != nil {
		return err
	}
	s.StartedAt = startedAt
	return r.Update(ctx, s)
}
