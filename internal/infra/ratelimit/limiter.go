package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"saverly/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// tokenBucket refills the whole bucket capacity once per interval. Returns
// {allowed, tokens_left, retry_after_ms}.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local interval_ms = tonumber(ARGV[3])
local ttl_seconds = tonumber(ARGV[4])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

if interval_ms > 0 then
	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = capacity
		last_refill = last_refill + (intervals * interval_ms)
	end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`)

type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int64
	RetryAfter time.Duration
}

// Limiter is a Redis-backed token bucket shared by every API instance.
type Limiter struct {
	rdb      redis.Scripter
	prefix   string
	capacity int
	interval time.Duration
	now      func() time.Time
}

func NewLimiter(rdb redis.Scripter, prefix string, capacity int, interval time.Duration) *Limiter {
	return &Limiter{
		rdb:      rdb,
		prefix:   prefix,
		capacity: capacity,
		interval: interval,
		now:      time.Now,
	}
}

func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	ttl := int64(2 * l.interval / time.Second)
	if ttl < 1 {
		ttl = 1
	}

	vals, err := tokenBucket.Run(ctx, l.rdb,
		[]string{l.prefix + ":" + key},
		l.now().UnixMilli(), l.capacity, l.interval.Milliseconds(), ttl,
	).Int64Slice()
	if err != nil {
		return Result{}, errs.Wrap(err, "rate limit script")
	}
	if len(vals) != 3 {
		return Result{}, errs.Newf("rate limit script returned %d values", len(vals))
	}

	return Result{
		Allowed:    vals[0] == 1,
		Limit:      l.capacity,
		Remaining:  vals[1],
		RetryAfter: time.Duration(vals[2]) * time.Millisecond,
	}, nil
}

func (r Result) RetryAfterSeconds() string {
	secs := int64((r.RetryAfter + time.Second - 1) / time.Second)
	return strconv.FormatInt(secs, 10)
}

func (r Result) String() string {
	return fmt.Sprintf("allowed=%t remaining=%d retry=%s", r.Allowed, r.Remaining, r.RetryAfter)
}
