package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// rateLimitAuthPrefix is the Redis key prefix for auth endpoint limits.
	rateLimitAuthPrefix = "ratelimit:auth:"
	// rateLimitAuthTTL is the TTL for auth rate limit keys.
	rateLimitAuthTTL = 60 * time.Second
)

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// tokenBucketScript is a Lua script implementing the token bucket algorithm.
// It's atomic and handles token refill and consumption in a single operation.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])      -- tokens per second
	local burst = tonumber(ARGV[2])     -- max tokens (bucket capacity)
	local now = tonumber(ARGV[3])       -- current time in seconds
	local ttl = tonumber(ARGV[4])       -- TTL in seconds

	-- Get current state
	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	-- Refill tokens based on elapsed time
	local elapsed = now - last_update
	tokens = math.min(burst, tokens + (elapsed * rate))

	-- Check if request is allowed
	local allowed = 0
	local retry_after = 0

	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		-- Calculate when 1 token will be available
		retry_after = math.ceil((1 - tokens) / rate)
	end

	-- Update state
	redis.call('HMSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// CheckAuthRateLimit checks and updates the per-IP rate limit for the
// credential-bearing endpoints (verify-access, token exchange).
// The IP is hashed before use as a key to avoid storing addresses verbatim.
func (c *Cache) CheckAuthRateLimit(ctx context.Context, ip string, rps, burst int) (*RateLimitResult, error) {
	sum := sha256.Sum256([]byte(ip))
	key := rateLimitAuthPrefix + hex.EncodeToString(sum[:8])

	now := time.Now().Unix()
	res, err := tokenBucketScript.Run(ctx, c.client,
		[]string{key},
		rps,
		burst,
		now,
		int(rateLimitAuthTTL.Seconds()),
	).Int64Slice()
	if err != nil {
		return nil, err
	}

	result := &RateLimitResult{
		Allowed:   res[0] == 1,
		Remaining: res[2],
	}
	if !result.Allowed {
		result.RetryAfter = time.Duration(res[1]) * time.Second
	}

	return result, nil
}
