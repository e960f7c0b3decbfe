package challenge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"paynroll/internal/verification/models"
	"paynroll/pkg/platform/sentinel"
)

const keyPrefix = "verification:challenge:"

// RedisStore keeps challenges in Redis so codes survive restarts and expire
// server-side. SET on an existing key replaces it, which gives the
// one-challenge-per-email rule for free.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, c *models.Challenge) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal challenge: %w", err)
	}

	// Key TTL mirrors the challenge expiry as a backstop; the service still
	// checks ExpiresAt against the request clock.
	ttl := time.Until(c.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := s.client.Set(ctx, keyPrefix+c.Email, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store challenge: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, email string) (*models.Challenge, error) {
	payload, err := s.client.Get(ctx, keyPrefix+email).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("challenge for %q: %w", email, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch challenge: %w", err)
	}

	var c models.Challenge
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, fmt.Errorf("unmarshal challenge: %w", err)
	}
	return &c, nil
}

func (s *RedisStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, keyPrefix+email).Err(); err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	return nil
}
