// Package redisdb opens go-redis clients from configuration.
package redisdb

import (
	"context"
	"fmt"
	"time"

	"github.com/jrazmi/tasker/sdk/environment"
	"github.com/redis/go-redis/v9"
)

// Options represents the exportable redis configuration.
type Options struct {
	URL       string `env:"REDIS_URL" default:"redis://localhost:6379/0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" default:"tasker"`
	PoolSize  int    `env:"REDIS_POOL_SIZE" default:"10"`
}

// NewFromEnv connects using PREFIX_REDIS_* variables.
func NewFromEnv(prefix string) (*redis.Client, Options, error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, Options{}, fmt.Errorf("parsing redis config: %w", err)
	}
	client, err := New(cfg)
	return client, cfg, err
}

// New parses cfg.URL, connects and pings.
func New(cfg Options) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if cfg.PoolSize > 0 {
		opt.PoolSize = cfg.PoolSize
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}

// StatusCheck returns nil if the server answers PING.
func StatusCheck(ctx context.Context, client *redis.Client) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Second)
		defer cancel()
	}
	return client.Ping(ctx).Err()
}
