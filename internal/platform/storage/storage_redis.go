// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

package storage

import (
	stdctx "context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Opinionated default timeouts for Redis operations.
const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second
)

// keyPrefix namespaces client state inside a shared Redis instance.
const keyPrefix = "pharmora:device:"

// RedisStore implements [Store] on a Redis server.
//
// # When to use
//
// Kiosk fleets in one pharmacy branch can point every terminal at the same
// Redis so a session opened on one terminal survives a move to another.
// Standalone devices should prefer [SQLiteStore].
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore parses a Redis URL, verifies connectivity, and returns a
// ready-to-use store.
func NewRedisStore(context stdctx.Context, redisURL string, log *slog.Logger) (*RedisStore, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("storage: invalid redis URL: %w", err)
	}

	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	client := redis.NewClient(options)

	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("storage: redis ping failed: %w", err)
	}

	log.Info("device_store_opened",
		slog.String("driver", "redis"),
		slog.String("addr", options.Addr),
	)
	return &RedisStore{client: client}, nil
}

// Get returns the value stored under key, or [ErrNotFound].
func (store *RedisStore) Get(context stdctx.Context, key string) (string, error) {
	value, err := store.client.Get(context, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("storage: redis get failed: %w", err)
	}
	return value, nil
}

// Set stores value under key with no expiry: device state lives until the
// client deletes it.
func (store *RedisStore) Set(context stdctx.Context, key, value string) error {
	if err := store.client.Set(context, keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("storage: redis set failed: %w", err)
	}
	return nil
}

// Delete removes the given keys. Missing keys are not an error.
func (store *RedisStore) Delete(context stdctx.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = keyPrefix + key
	}
	if err := store.client.Del(context, prefixed...).Err(); err != nil {
		return fmt.Errorf("storage: redis delete failed: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (store *RedisStore) Close() error {
	return store.client.Close()
}
