package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"lmsplatform/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a key is absent or the cache is disabled.
var ErrMiss = errors.New("cache miss")

// TokenCache keeps issued refresh tokens so that logout can revoke them.
// A nil client disables it: saves are dropped and every token is accepted.
type TokenCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTokenCache(client *redis.Client, ttl time.Duration) *TokenCache {
	return &TokenCache{client: client, ttl: ttl}
}

func (c *TokenCache) Enabled() bool { return c != nil && c.client != nil }

func (c *TokenCache) SaveRefresh(ctx context.Context, userID string, refreshToken string) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Set(ctx, "refresh_token:"+refreshToken, userID, c.ttl).Err()
}

func (c *TokenCache) CheckRefresh(ctx context.Context, refreshToken string) (string, error) {
	if !c.Enabled() {
		return "", ErrMiss
	}
	val, err := c.client.Get(ctx, "refresh_token:"+refreshToken).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return val, err
}

func (c *TokenCache) DeleteRefresh(ctx context.Context, refreshToken string) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Del(ctx, "refresh_token:"+refreshToken).Err()
}

// CourseCache stores assembled course details.
type CourseCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCourseCache(client *redis.Client, ttl time.Duration) *CourseCache {
	return &CourseCache{client: client, ttl: ttl}
}

func courseKey(id uuid.UUID) string { return "course:detail:" + id.String() }

func (c *CourseCache) Get(ctx context.Context, id uuid.UUID) (*domain.CourseDetail, error) {
	if c == nil || c.client == nil {
		return nil, ErrMiss
	}
	val, err := c.client.Get(ctx, courseKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	var detail domain.CourseDetail
	if err := json.Unmarshal(val, &detail); err != nil {
		return nil, ErrMiss
	}
	return &detail, nil
}

func (c *CourseCache) Set(ctx context.Context, detail *domain.CourseDetail) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, courseKey(detail.ID), data, c.ttl).Err()
}

func (c *CourseCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, courseKey(id)).Err()
}
