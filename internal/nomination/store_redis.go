// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package nomination

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/laureate/internal/platform/apperr"
	"github.com/taibuivan/laureate/internal/platform/constants"
)

// RedisStatusCache implements StatusCache with JSON values and a fixed TTL.
type RedisStatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStatusCache creates a new Redis-backed StatusCache.
func NewRedisStatusCache(client *redis.Client, ttl time.Duration) *RedisStatusCache {
	return &RedisStatusCache{client: client, ttl: ttl}
}

/*
Get retrieves a cached status view.

Returns:
  - *StatusView: The cached view
  - error: apperr.NotFound on a miss, or connectivity errors
*/
func (cache *RedisStatusCache) Get(context context.Context, submissionID string) (*StatusView, error) {
	payload, err := cache.client.Get(context, cacheKey(submissionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Cached status")
		}
		return nil, fmt.Errorf("redis_status_get_failed: %w", err)
	}

	var view StatusView
	if err := json.Unmarshal(payload, &view); err != nil {
		return nil, fmt.Errorf("redis_status_decode_failed: %w", err)
	}
	return &view, nil
}

// Set stores a status view with the cache TTL.
func (cache *RedisStatusCache) Set(context context.Context, view *StatusView) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("redis_status_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, cacheKey(view.SubmissionID), payload, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_status_set_failed: %w", err)
	}
	return nil
}

// Invalidate drops a cached view after a review action.
func (cache *RedisStatusCache) Invalidate(context context.Context, submissionID string) error {
	if err := cache.client.Del(context, cacheKey(submissionID)).Err(); err != nil {
		return fmt.Errorf("redis_status_delete_failed: %w", err)
	}
	return nil
}

func cacheKey(submissionID string) string {
	return constants.RedisPrefixNominationStatus + submissionID
}
