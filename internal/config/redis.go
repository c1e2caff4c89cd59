package config

// Redis backs the option store (OPTION_STORE=redis), the cross-process
// migration lock and the login rate limiter. Callers degrade gracefully
// when NewRedisClient returns nil: no lock, no rate limiting.

import (
    "context"
    "crypto/tls"
    "strings"
    "time"

    "github.com/redis/go-redis/v9"
)

// RedisConfig holds connection settings read from REDIS_*.
type RedisConfig struct {
    Addr      string
    Password  string
    DB        int
    TLS       bool
    KeyPrefix string // namespace for option keys
}

// LoadRedisConfig reads REDIS_HOST/REDIS_PORT or REDIS_ADDR (host and port
// win when both are set), REDIS_PASSWORD, REDIS_DB, REDIS_TLS and
// REDIS_KEY_PREFIX.
func LoadRedisConfig() RedisConfig {
    host := envStr("REDIS_HOST", "")
    port := envStr("REDIS_PORT", "")
    addr := envStr("REDIS_ADDR", "")
    if host != "" && port != "" {
        addr = host + ":" + port
    }
    if addr == "" {
        addr = "localhost:6379"
    }
    tlsEnv := envStr("REDIS_TLS", "")
    return RedisConfig{
        Addr:      addr,
        Password:  envStr("REDIS_PASSWORD", ""),
        DB:        envInt("REDIS_DB", 0),
        TLS:       strings.EqualFold(tlsEnv, "true") || tlsEnv == "1",
        KeyPrefix: envStr("REDIS_KEY_PREFIX", "rb:opt"),
    }
}

// NewRedisClient connects using rc. The returned client is nil if the
// server does not answer a ping within two seconds.
func NewRedisClient(rc RedisConfig) *redis.Client {
    var tlsConf *tls.Config
    if rc.TLS {
        tlsConf = &tls.Config{InsecureSkipVerify: true}
    }
    client := redis.NewClient(&redis.Options{
        Addr:      rc.Addr,
        Password:  rc.Password,
        DB:        rc.DB,
        TLSConfig: tlsConf,
    })
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        _ = client.Close()
        return nil
    }
    return client
}
