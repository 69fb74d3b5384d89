package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long an untouched session survives in Redis.
const DefaultTTL = 24 * time.Hour

// RedisStore is a Store shared between processes through Redis. Sessions are
// stored as JSON under pytutor:session:{kind}:{user} and expire after ttl
// without writes.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore. A non-positive ttl uses DefaultTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func diagnosticKey(userID string) string {
	return "pytutor:session:diagnostic:" + userID
}

func practiceKey(userID string) string {
	return "pytutor:session:practice:" + userID
}

func (s *RedisStore) GetDiagnostic(ctx context.Context, userID string) (*Diagnostic, error) {
	var d Diagnostic
	if err := s.get(ctx, diagnosticKey(userID), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *RedisStore) PutDiagnostic(ctx context.Context, d *Diagnostic) error {
	return s.set(ctx, diagnosticKey(d.UserID), d)
}

func (s *RedisStore) DeleteDiagnostic(ctx context.Context, userID string) error {
	return s.client.Del(ctx, diagnosticKey(userID)).Err()
}

func (s *RedisStore) GetPractice(ctx context.Context, userID string) (*Practice, error) {
	var p Practice
	if err := s.get(ctx, practiceKey(userID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *RedisStore) PutPractice(ctx context.Context, p *Practice) error {
	return s.set(ctx, practiceKey(p.UserID), p)
}

func (s *RedisStore) DeletePractice(ctx context.Context, userID string) error {
	return s.client.Del(ctx, practiceKey(userID)).Err()
}

func (s *RedisStore) get(ctx context.Context, key string, v any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNoSession
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
