// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

package storage

import (
	"context"
	"sync"
)

// MemoryStore is a [Store] held entirely in process memory. Nothing survives
// a restart, which makes it useless as a device store and ideal for tests.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the value stored under key, or [ErrNotFound].
func (store *MemoryStore) Get(_ context.Context, key string) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	value, ok := store.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Set stores value under key.
func (store *MemoryStore) Set(_ context.Context, key, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.values[key] = value
	return nil
}

// Delete removes the given keys. Missing keys are not an error.
func (store *MemoryStore) Delete(_ context.Context, keys ...string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, key := range keys {
		delete(store.values, key)
	}
	return nil
}

// Close is a no-op.
func (store *MemoryStore) Close() error { return nil }

// Len returns the number of stored keys.
func (store *MemoryStore) Len() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.values)
}
