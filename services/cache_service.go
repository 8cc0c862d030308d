package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"modfy_server/structs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/redis/go-redis/v9"
)

const (
	cacheAttempts     = 4
	rateLimitPrefix   = "ratelimit:"
	rateLimitScanSize = 100
)

// incrWindow bumps a fixed-window counter and arms its expiry on the first hit.
var incrWindow = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// CacheService backs sessions, catalog reads and rate limiting with redis.
type CacheService struct {
	logger *gecho.Logger
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.CacheConfig) *CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		PoolTimeout:     cfg.PoolTimeout,
		ConnMaxIdleTime: cfg.IdleTimeout,

		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,

		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: cfg.MinRetryBackoff,
		MaxRetryBackoff: cfg.MaxRetryBackoff,
	})
	return NewCacheServiceWithClient(logger, client)
}

// NewCacheServiceWithClient wraps an existing client. Used by tests.
func NewCacheServiceWithClient(logger *gecho.Logger, client *redis.Client) *CacheService {
	return &CacheService{logger: logger, client: client}
}

func (cs *CacheService) Close() error {
	return cs.client.Close()
}

func (cs *CacheService) Ping(ctx context.Context) error {
	return cs.client.Ping(ctx).Err()
}

// do runs op until it succeeds, fails permanently, or the attempts run out.
// Waits grow from 100ms to 2s with half-window jitter.
func (cs *CacheService) do(ctx context.Context, op func() error) error {
	var err error
	for attempt := range cacheAttempts {
		if err = op(); err == nil || !transient(err) {
			return err
		}
		if attempt == cacheAttempts-1 {
			break
		}

		ceiling := min(100<<attempt, 2000)
		wait := time.Duration(ceiling/2+rand.IntN(ceiling/2+1)) * time.Millisecond
		cs.logger.Debug("Retrying cache operation",
			gecho.Field("attempt", attempt+1),
			gecho.Field("wait", wait.String()),
			gecho.Field("error", err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return err
}

func transient(err error) bool {
	if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe")
}

func (cs *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return cs.do(ctx, func() error {
		return cs.client.Set(ctx, key, value, ttl).Err()
	})
}

// Get returns "" without error for a missing key.
func (cs *CacheService) Get(ctx context.Context, key string) (string, error) {
	var out string
	err := cs.do(ctx, func() error {
		val, err := cs.client.Get(ctx, key).Result()
		switch {
		case errors.Is(err, redis.Nil):
			out = ""
		case err != nil:
			return err
		default:
			out = val
		}
		return nil
	})
	return out, err
}

func (cs *CacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return cs.do(ctx, func() error {
		return cs.client.Del(ctx, keys...).Err()
	})
}

func (cs *CacheService) Exists(ctx context.Context, key string) (bool, error) {
	var found bool
	err := cs.do(ctx, func() error {
		n, err := cs.client.Exists(ctx, key).Result()
		found = n > 0
		return err
	})
	return found, err
}

// Take deletes key and reports whether it was there, in one round trip.
func (cs *CacheService) Take(ctx context.Context, key string) (bool, error) {
	var found bool
	err := cs.do(ctx, func() error {
		_, err := cs.client.GetDel(ctx, key).Result()
		switch {
		case errors.Is(err, redis.Nil):
			found = false
		case err != nil:
			return err
		default:
			found = true
		}
		return nil
	})
	return found, err
}

// AddToSet adds members to a set and pushes its expiry out to ttl.
func (cs *CacheService) AddToSet(ctx context.Context, key string, ttl time.Duration, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	return cs.do(ctx, func() error {
		_, err := cs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, m := range members {
				pipe.SAdd(ctx, key, m)
			}
			pipe.Expire(ctx, key, ttl)
			return nil
		})
		return err
	})
}

func (cs *CacheService) SetMembers(ctx context.Context, key string) ([]string, error) {
	var out []string
	err := cs.do(ctx, func() error {
		var err error
		out, err = cs.client.SMembers(ctx, key).Result()
		return err
	})
	return out, err
}

// DeletePattern walks the keyspace with SCAN and drops every match.
func (cs *CacheService) DeletePattern(ctx context.Context, pattern string) error {
	return cs.do(ctx, func() error {
		iter := cs.client.Scan(ctx, 0, pattern, rateLimitScanSize).Iterator()
		batch := make([]string, 0, rateLimitScanSize)
		for iter.Next(ctx) {
			batch = append(batch, iter.Val())
			if len(batch) == rateLimitScanSize {
				if err := cs.client.Del(ctx, batch...).Err(); err != nil {
					return fmt.Errorf("delete %q: %w", pattern, err)
				}
				batch = batch[:0]
			}
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("scan %q: %w", pattern, err)
		}
		if len(batch) > 0 {
			return cs.client.Del(ctx, batch...).Err()
		}
		return nil
	})
}

func rateLimitKey(ip, endpoint string) string {
	return rateLimitPrefix + ip + ":" + endpoint
}

// IncrementRateLimit counts one request for ip on endpoint inside a fixed window.
func (cs *CacheService) IncrementRateLimit(ctx context.Context, ip, endpoint string, window time.Duration) (int, error) {
	key := rateLimitKey(ip, endpoint)

	var count int64
	err := cs.do(ctx, func() error {
		n, err := incrWindow.Run(ctx, cs.client, []string{key}, window.Milliseconds()).Int64()
		count = n
		return err
	})
	return int(count), err
}

// GetRateLimitStatus reports the window's count and seconds left.
func (cs *CacheService) GetRateLimitStatus(ctx context.Context, ip, endpoint string) (count int, ttlSeconds int, err error) {
	key := rateLimitKey(ip, endpoint)

	err = cs.do(ctx, func() error {
		pipe := cs.client.Pipeline()
		get := pipe.Get(ctx, key)
		ttl := pipe.TTL(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		raw, err := get.Result()
		if errors.Is(err, redis.Nil) {
			count, ttlSeconds = 0, 0
			return nil
		}
		if err != nil {
			return err
		}
		if count, err = strconv.Atoi(raw); err != nil {
			return fmt.Errorf("rate limit counter %q: %w", key, err)
		}
		ttlSeconds = int(ttl.Val().Seconds())
		return nil
	})
	return count, ttlSeconds, err
}

// GetConnectionStats exposes the client's pool counters for /health/detailed.
func (cs *CacheService) GetConnectionStats() map[string]any {
	s := cs.client.PoolStats()
	return map[string]any{
		"hits":        s.Hits,
		"misses":      s.Misses,
		"timeouts":    s.Timeouts,
		"total_conns": s.TotalConns,
		"idle_conns":  s.IdleConns,
		"stale_conns": s.StaleConns,
	}
}

func setJSON[T any](ctx context.Context, cs *CacheService, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return cs.Set(ctx, key, data, ttl)
}

// getJSON returns nil, nil when the key is missing.
func getJSON[T any](ctx context.Context, cs *CacheService, key string) (*T, error) {
	val, err := cs.Get(ctx, key)
	if err != nil || val == "" {
		return nil, err
	}

	var out T
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
