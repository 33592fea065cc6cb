package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/kdduha/reels-caption/internal/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "caption:"

// RedisCache stores generated captions by request fingerprint as JSON records.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{
		client: rdb,
		ttl:    ttl,
	}
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Get(ctx context.Context, key string) (models.CachedCaption, bool, error) {
	raw, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.CachedCaption{}, false, nil
	}
	if err != nil {
		return models.CachedCaption{}, false, err
	}

	var entry models.CachedCaption
	if err := sonic.Unmarshal(raw, &entry); err != nil {
		return models.CachedCaption{}, false, fmt.Errorf("decode cached caption %s: %w", key, err)
	}
	if entry.Caption == "" {
		return models.CachedCaption{}, false, fmt.Errorf("cached caption %s is empty", key)
	}
	return entry, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, entry models.CachedCaption) error {
	raw, err := sonic.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cached caption: %w", err)
	}
	return r.client.Set(ctx, keyPrefix+key, raw, r.ttl).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
