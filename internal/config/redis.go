package config

// Redis backs the showtime response cache and the rate limiter on /v1/ask.
// When the server cannot be reached at startup both are turned off and the
// assistant keeps answering straight from MySQL.

import (
    "context"
    "crypto/tls"
    "os"
    "time"

    "github.com/redis/go-redis/v9"
)

// NewRedisClient builds a client from the environment:
//   REDIS_ADDR (host:port) or REDIS_HOST and REDIS_PORT, default localhost:6379
//   REDIS_PASSWORD, REDIS_DB (default 0), REDIS_TLS
// It returns nil if the server does not answer a ping.
func NewRedisClient(ctx context.Context) *redis.Client {
    addr := envStr("REDIS_ADDR", "localhost:6379")
    if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
        addr = host + ":" + port
    }
    var tlsConf *tls.Config
    if envBool("REDIS_TLS", false) {
        tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
    }
    client := redis.NewClient(&redis.Options{
        Addr:      addr,
        Password:  os.Getenv("REDIS_PASSWORD"),
        DB:        envInt("REDIS_DB", 0),
        TLSConfig: tlsConf,
    })

    ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        _ = client.Close()
        return nil
    }
    return client
}
