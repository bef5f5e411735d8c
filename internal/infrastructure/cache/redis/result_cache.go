package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	goredis "github.com/redis/go-redis/v9"
)

const (
	defaultScanCount = 200
	pingTimeout      = 5 * time.Second
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

// ResultCache stores encoded metrics results in redis.
type ResultCache struct {
	client    goredis.UniversalClient
	scanCount int64
}

// Dial connects and pings the server before returning.
func Dial(ctx context.Context, opts Options) (*ResultCache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, crerr.Wrapf(err, "connect to redis at %s", opts.Addr)
	}

	return NewResultCache(client), nil
}

func NewResultCache(client goredis.UniversalClient) *ResultCache {
	return &ResultCache{client: client, scanCount: defaultScanCount}
}

func (c *ResultCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, crerr.Wrapf(err, "redis get %s", key)
	}
	return raw, true, nil
}

// Set stores value with ttl. A zero ttl keeps the key without expiry.
func (c *ResultCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return crerr.Wrapf(err, "redis set %s", key)
	}
	return nil
}

// DeletePrefix walks the keyspace with SCAN and deletes matching keys batch
// by batch, so large keyspaces never block the server.
func (c *ResultCache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	pattern := scanPattern(prefix)
	removed := 0
	var cursor uint64

	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, c.scanCount).Result()
		if err != nil {
			return removed, crerr.Wrapf(err, "redis scan %s", pattern)
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, crerr.Wrap(err, "redis del")
			}
			removed += int(n)
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

func (c *ResultCache) Close() error {
	return c.client.Close()
}

// scanPattern escapes glob metacharacters in prefix and appends a wildcard.
func scanPattern(prefix string) string {
	var b strings.Builder
	b.Grow(len(prefix) + 1)
	for _, r := range prefix {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('*')
	return b.String()
}
