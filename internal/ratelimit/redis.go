package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jcarizon/portfolio-cms-backend/internal/model"
)

// KeyPrefix はRedis上のキー接頭辞。
const KeyPrefix = "ratelimit:contact:"

// slidingWindowScript は枝刈り・件数判定・追記を1回のスクリプト実行で行う。
// 戻り値は {1, 0}（受理）または {0, 最古のスコア}（拒否）。スコアはミリ秒。
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
  local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
  return {0, tonumber(oldest[2])}
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, 0}
`)

// RedisSlidingWindow はRedisのソート済みセットで状態を共有するLimiter。
// 複数インスタンス構成で SlidingWindow の代わりに使う。
type RedisSlidingWindow struct {
	client redis.Scripter
	config Config
}

// NewRedisSlidingWindow は新しいRedisSlidingWindowを生成する。
func NewRedisSlidingWindow(client redis.Scripter, config Config) *RedisSlidingWindow {
	return &RedisSlidingWindow{client: client, config: config}
}

// Check はSlidingWindow.Checkと同じ判定をRedis上でアトミックに行う。
func (r *RedisSlidingWindow) Check(ctx context.Context, key string, now time.Time) error {
	nowMs := now.UnixMilli()
	windowMs := r.config.Window.Milliseconds()

	res, err := slidingWindowScript.Run(ctx, r.client,
		[]string{KeyPrefix + key},
		nowMs, windowMs, r.config.Max, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return fmt.Errorf("failed to evaluate rate limit script: %w", err)
	}
	if len(res) != 2 {
		return fmt.Errorf("unexpected rate limit script result: %v", res)
	}

	if res[0] == 1 {
		return nil
	}

	retryAfter := time.Duration(res[1]+windowMs-nowMs) * time.Millisecond
	slog.Warn("rate limit exceeded",
		slog.String("limit_type", "contact"),
		slog.String("store", "redis"),
		slog.Duration("retry_after", retryAfter),
	)
	return model.NewRateLimitedError(retryAfter)
}

// NewRedisClient はREDIS_URLからクライアントを生成し、接続を確認する。
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// compile-time interface check
var _ Limiter = (*RedisSlidingWindow)(nil)
