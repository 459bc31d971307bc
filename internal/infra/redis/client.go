// Package redis backs the analytics counters, the event log and the
// provider id sequence with Redis. Every counter update is a single
// server-side script, so concurrent increments never lose updates.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("redis")

// NewClient parses a redis:// URL and verifies the connection.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// keys builds namespaced key names.
type keys struct {
	prefix string
}

func (k keys) stats(providerID int64) string {
	return fmt.Sprintf("%s:analytics:%d", k.prefix, providerID)
}

func (k keys) statIndex() string { return k.prefix + ":analytics:index" }
func (k keys) events() string    { return k.prefix + ":events" }
func (k keys) sequence() string  { return k.prefix + ":seq:provider" }
