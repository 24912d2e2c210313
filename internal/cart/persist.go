// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

package cart

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/goccy/go-json"

	"github.com/pharmora/client/internal/platform/constants"
	"github.com/pharmora/client/internal/platform/storage"
)

// persistTimeout bounds each snapshot write to the device store.
const persistTimeout = 3 * time.Second

// PersistentStore wraps [Store] with a serialize/deserialize boundary: every
// mutation snapshots the lines to the device store, and Rehydrate restores
// them at boot.
//
// The core reducer stays pure; persistence lives entirely in this wrapper.
// Persistence failures are logged and otherwise ignored — the in-memory cart
// is the truth, durability across restarts is best-effort.
type PersistentStore struct {
	*Store
	device storage.Store
	log    *slog.Logger
}

// NewPersistentStore wraps an empty cart with device-store persistence.
func NewPersistentStore(device storage.Store, log *slog.Logger) *PersistentStore {
	return &PersistentStore{Store: NewStore(), device: device, log: log}
}

// Rehydrate loads the persisted snapshot, if any. Call once at boot.
func (persistent *PersistentStore) Rehydrate(context context.Context) {
	raw, err := persistent.device.Get(context, constants.StorageKeyCart)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			persistent.log.Warn("cart_rehydrate_failed", slog.Any("error", err))
		}
		return
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		persistent.log.Warn("cart_snapshot_corrupt_discarded", slog.Any("error", err))
		_ = persistent.device.Delete(context, constants.StorageKeyCart)
		return
	}

	// Drop lines that violate the quantity floor; old snapshots are data,
	// not authority.
	kept := lines[:0]
	for _, line := range lines {
		if line.Quantity >= 1 {
			kept = append(kept, line)
		}
	}
	persistent.restore(kept)
	persistent.log.Info("cart_rehydrated", slog.Int("lines", len(kept)))
}

// # Mutations (persisted)

// Add merges the line and persists the result.
func (persistent *PersistentStore) Add(line Line) {
	persistent.Store.Add(line)
	persistent.persist()
}

// UpdateQuantity sets or removes the line and persists the result.
func (persistent *PersistentStore) UpdateQuantity(itemID string, quantity int) {
	persistent.Store.UpdateQuantity(itemID, quantity)
	persistent.persist()
}

// Remove deletes the line and persists the result.
func (persistent *PersistentStore) Remove(itemID string) {
	persistent.Store.Remove(itemID)
	persistent.persist()
}

// Clear empties the cart and removes the persisted snapshot.
func (persistent *PersistentStore) Clear() {
	persistent.Store.Clear()
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := persistent.device.Delete(ctx, constants.StorageKeyCart); err != nil {
		persistent.log.Warn("cart_persist_failed", slog.Any("error", err))
	}
}

// persist writes the current lines as a JSON snapshot.
func (persistent *PersistentStore) persist() {
	encoded, err := json.Marshal(persistent.Lines())
	if err != nil {
		persistent.log.Warn("cart_persist_failed", slog.Any("error", err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := persistent.device.Set(ctx, constants.StorageKeyCart, string(encoded)); err != nil {
		persistent.log.Warn("cart_persist_failed", slog.Any("error", err))
	}
}
