package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/showtime-assistant/internal/config"
)

// cachedResponse is what a cache entry holds.
type cachedResponse struct {
    Status      int    `json:"status"`
    ContentType string `json:"content_type"`
    Body        []byte `json:"body"`
}

// captureWriter copies the response body, up to limit bytes, while
// forwarding it to the client.
type captureWriter struct {
    http.ResponseWriter
    status    int
    buf       bytes.Buffer
    limit     int
    truncated bool
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }

func (cw *captureWriter) Write(b []byte) (int, error) {
    if !cw.truncated {
        if cw.limit > 0 && cw.buf.Len()+len(b) > cw.limit {
            cw.truncated = true
        } else {
            cw.buf.Write(b)
        }
    }
    return cw.ResponseWriter.Write(b)
}

// ResponseCacheKey builds the cache key for the request.  The cinema-local
// date is part of every key: a showtime reply computed yesterday hides
// different sessions than one computed today.
func ResponseCacheKey(cfg config.CacheConfig, c echo.Context, today time.Time) string {
    r := c.Request()
    parts := []string{"d", today.Format("2006-01-02")}
    switch strings.ToLower(cfg.KeyStrategy) {
    case "route":
        parts = append(parts, "route", c.Path(), "p", paramValues(c))
    case "method_route_query":
        parts = append(parts, "m", r.Method, "route", c.Path(), "p", paramValues(c), "q", r.URL.RawQuery)
    default: // "route_query"
        parts = append(parts, "route", c.Path(), "p", paramValues(c), "q", r.URL.RawQuery)
    }
    sum := sha1.Sum([]byte(strings.Join(parts, ":")))
    return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

func paramValues(c echo.Context) string {
    return strings.Join(c.ParamValues(), "/")
}

// NewResponseCache caches successful replies of the read-only showtime
// routes in Redis.  It is a no-op when disabled or when rdb is nil.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client, today func() time.Time) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
                return next(c)
            }

            ctx := c.Request().Context()
            key := ResponseCacheKey(cfg, c, today())

            if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
                var hit cachedResponse
                if json.Unmarshal(bs, &hit) == nil {
                    c.Response().Header().Set("X-Cache", "HIT")
                    return c.Blob(hit.Status, hit.ContentType, hit.Body)
                }
            }

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }
            if cw.status != http.StatusOK || cw.truncated {
                return nil
            }
            payload, err := json.Marshal(cachedResponse{
                Status:      cw.status,
                ContentType: c.Response().Header().Get(echo.HeaderContentType),
                Body:        cw.buf.Bytes(),
            })
            if err == nil {
                _ = rdb.SetEx(context.WithoutCancel(ctx), key, payload, cfg.TTL).Err()
            }
            return nil
        }
    }
}

// FlushResponseCache deletes every entry under prefix and returns how many
// keys were removed.
func FlushResponseCache(ctx context.Context, rdb *redis.Client, prefix string) (int, error) {
    if rdb == nil {
        return 0, nil
    }
    var (
        cursor  uint64
        deleted int
    )
    for {
        keys, next, err := rdb.Scan(ctx, cursor, prefix+":*", 200).Result()
        if err != nil {
            return deleted, err
        }
        if len(keys) > 0 {
            n, err := rdb.Del(ctx, keys...).Result()
            if err != nil {
                return deleted, err
            }
            deleted += int(n)
        }
        if next == 0 {
            return deleted, nil
        }
        cursor = next
    }
}
