// Package store persists the small amount of mutable state the service
// owns: per-user saved-listing sets and incident reports. Everything is
// keyed by opaque identities and written as whole-document snapshots, with
// change notification over Redis pub/sub.
package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "safestay:"

// Options configures the Redis connection.
type Options struct {
	Address  string
	Password string
	DB       int
}

// Dial connects to Redis and verifies the connection with a ping.
func Dial(ctx context.Context, opts Options, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Network:  "tcp",
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	if logger != nil {
		logger.Info("redis connected",
			zap.String("address", opts.Address),
			zap.Int("database", opts.DB),
		)
	}

	return client, nil
}

// Store provides the saved-listings and incident-report operations on top of
// a shared Redis client.
type Store struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func New(rdb *redis.Client, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{rdb: rdb, logger: logger}
}

// Ping reports whether the backing Redis connection is healthy.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
