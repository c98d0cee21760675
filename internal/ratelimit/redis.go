package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements a sliding-window log in Redis so several relay
// instances share one budget per key. Each request is a member of a sorted
// set scored by its timestamp.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
	window time.Duration
	max    int
	now    func() time.Time
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithPrefix sets the key prefix, "ratelimit" by default.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = strings.Trim(prefix, ":") }
}

// WithRedisClock replaces time.Now, mostly for tests.
func WithRedisClock(now func() time.Time) RedisOption {
	return func(s *RedisStore) { s.now = now }
}

// NewRedisStore creates a store on top of rdb.
func NewRedisStore(rdb redis.UniversalClient, cfg Config, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		rdb:    rdb,
		prefix: "ratelimit",
		window: cfg.Window,
		max:    cfg.Max,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// Take implements Store.
func (s *RedisStore) Take(ctx context.Context, key string) (Decision, error) {
	now := s.now()
	setKey := s.prefix + ":" + key
	member := strconv.FormatInt(now.UnixNano(), 10) + "-" + uuid.NewString()
	cutoff := strconv.FormatInt(now.Add(-s.window).UnixMilli(), 10)

	pipe := s.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, setKey, "-inf", cutoff)
	pipe.ZAdd(ctx, setKey, redis.Z{Score: float64(now.UnixMilli()), Member: member})
	card := pipe.ZCard(ctx, setKey)
	pipe.PExpire(ctx, setKey, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("rate limit update failed: %w", err)
	}

	count := int(card.Val())
	if count <= s.max {
		return Decision{Allowed: true, Limit: s.max, Remaining: s.max - count}, nil
	}

	// over budget: this request does not count
	if err := s.rdb.ZRem(ctx, setKey, member).Err(); err != nil {
		return Decision{}, fmt.Errorf("rate limit rollback failed: %w", err)
	}

	decision := Decision{Limit: s.max}
	oldest, err := s.rdb.ZRangeWithScores(ctx, setKey, 0, 0).Result()
	if err == nil && len(oldest) == 1 {
		expires := time.UnixMilli(int64(oldest[0].Score)).Add(s.window)
		decision.RetryAfter = expires.Sub(now)
	}
	return decision, nil
}
