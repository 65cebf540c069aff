package middleware

import (
    "fmt"
    "math"
    "net/http"
    "strconv"
    "strings"
    "sync"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "golang.org/x/time/rate"

    "github.com/iliyamo/storefront/internal/config"
)

// limitDecision is the outcome of taking one token from a bucket.
type limitDecision struct {
    allowed   bool
    remaining int64
    retryMs   int64
}

var limiterScript = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local capacity = tonumber(ARGV[2])
    local refill_tokens = tonumber(ARGV[3])
    local interval_ms = tonumber(ARGV[4])
    local ttl_seconds = tonumber(ARGV[5])

    local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
    local tokens = tonumber(state[1])
    local last_refill = tonumber(state[2])

    if tokens == nil or last_refill == nil then
        tokens = capacity
        last_refill = now_ms
    end

    if interval_ms > 0 and refill_tokens > 0 then
        local elapsed = math.max(0, now_ms - last_refill)
        local intervals = math.floor(elapsed / interval_ms)
        if intervals > 0 then
            tokens = math.min(capacity, tokens + (intervals * refill_tokens))
            last_refill = last_refill + (intervals * interval_ms)
        end
    end

    local allowed = 0
    local retry_after_ms = 0
    if tokens > 0 then
        allowed = 1
        tokens = tokens - 1
    else
        local until_next = interval_ms - (now_ms - last_refill)
        if until_next < 0 then until_next = 0 end
        retry_after_ms = until_next
    end

    redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill, 'capacity', capacity)
    redis.call('EXPIRE', key, ttl_seconds)

    return { allowed, tokens, retry_after_ms }
`)

// NewTokenBucket limits requests per key.  The bucket state lives in Redis
// when rdb is non-nil and in an in-process map otherwise, so a single
// instance without Redis is still protected.  Redis errors fail open.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, jwtSecret string) echo.MiddlewareFunc {
    if !cfg.Enabled {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }

    var take func(c echo.Context, key string) (limitDecision, error)
    if rdb != nil {
        take = func(c echo.Context, key string) (limitDecision, error) {
            return redisTake(c, rdb, cfg, key)
        }
    } else {
        local := newLocalLimiter(cfg)
        take = func(_ echo.Context, key string) (limitDecision, error) {
            return local.take(key, time.Now()), nil
        }
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := buildRateKey(cfg, c, requestIdentity(c, jwtSecret))
            d, err := take(c, key)
            if err != nil {
                if cfg.Debug {
                    c.Logger().Warnf("[ratelimit] backend error for key=%s: %v", key, err)
                }
                return next(c)
            }

            c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(d.remaining, 10))

            if !d.allowed {
                secs := int(math.Ceil(float64(d.retryMs) / 1000.0))
                if secs < 0 { secs = 0 }
                c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
                return c.JSON(http.StatusTooManyRequests, map[string]any{
                    "error":       "too_many_requests",
                    "message":     "rate limit exceeded",
                    "retry_after": secs,
                })
            }

            if cfg.Debug {
                c.Response().Header().Set("X-RateLimit-Key", key)
            }
            return next(c)
        }
    }
}

func redisTake(c echo.Context, rdb *redis.Client, cfg config.RateLimitConfig, key string) (limitDecision, error) {
    args := []interface{}{
        time.Now().UnixMilli(),
        cfg.Capacity,
        cfg.RefillTokens,
        cfg.RefillInterval.Milliseconds(),
        int64(cfg.TTL / time.Second),
    }
    vals, err := limiterScript.Run(c.Request().Context(), rdb, []string{key}, args...).Result()
    if err != nil {
        return limitDecision{}, err
    }
    arr, ok := vals.([]interface{})
    if !ok || len(arr) != 3 {
        return limitDecision{}, fmt.Errorf("unexpected script result %#v", vals)
    }
    return limitDecision{
        allowed:   asInt64(arr[0]) == 1,
        remaining: asInt64(arr[1]),
        retryMs:   asInt64(arr[2]),
    }, nil
}

// localLimiter keeps one x/time/rate limiter per key and forgets keys that
// stayed idle longer than the configured TTL.
type localLimiter struct {
    mu        sync.Mutex
    limit     rate.Limit
    burst     int
    ttl       time.Duration
    buckets   map[string]*localBucket
    lastSweep time.Time
}

type localBucket struct {
    lim  *rate.Limiter
    seen time.Time
}

func newLocalLimiter(cfg config.RateLimitConfig) *localLimiter {
    return &localLimiter{
        limit:   rate.Limit(cfg.RatePerSecond()),
        burst:   cfg.Capacity,
        ttl:     cfg.TTL,
        buckets: make(map[string]*localBucket),
    }
}

func (l *localLimiter) take(key string, now time.Time) limitDecision {
    l.mu.Lock()
    defer l.mu.Unlock()

    if now.Sub(l.lastSweep) > l.ttl {
        for k, b := range l.buckets {
            if now.Sub(b.seen) > l.ttl {
                delete(l.buckets, k)
            }
        }
        l.lastSweep = now
    }

    b, ok := l.buckets[key]
    if !ok {
        b = &localBucket{lim: rate.NewLimiter(l.limit, l.burst)}
        l.buckets[key] = b
    }
    b.seen = now

    r := b.lim.ReserveN(now, 1)
    if !r.OK() {
        return limitDecision{allowed: false}
    }
    if delay := r.DelayFrom(now); delay > 0 {
        r.CancelAt(now)
        return limitDecision{allowed: false, retryMs: delay.Milliseconds()}
    }
    remaining := int64(b.lim.TokensAt(now))
    if remaining < 0 { remaining = 0 }
    return limitDecision{allowed: true, remaining: remaining}
}

func asInt64(v interface{}) int64 {
    switch t := v.(type) {
    case int64: return t
    case int32: return int64(t)
    case int: return int64(t)
    case float64: return int64(t)
    case float32: return int64(t)
    case string:
        if n, err := strconv.ParseInt(t, 10, 64); err == nil { return n }
    }
    return 0
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context, uid string) string {
    parts := []string{cfg.Prefix}
    ip := c.RealIP()
    if ip == "" { ip = "unknown" }
    route := c.Request().Method + " " + c.Path()

    switch strings.ToLower(cfg.KeyStrategy) {
    case "ip":
        parts = append(parts, "ip", ip)
    case "user":
        parts = append(parts, "user", uid)
    case "route":
        parts = append(parts, "route", route)
    case "ip_user":
        parts = append(parts, "ip", ip, "user", uid)
    case "ip_route":
        parts = append(parts, "ip", ip, "route", route)
    case "user_route":
        parts = append(parts, "user", uid, "route", route)
    default:
        parts = append(parts, "ip", ip, "user", uid, "route", route)
    }
    return strings.Join(parts, ":")
}
