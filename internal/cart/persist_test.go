// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

package cart_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmora/client/internal/cart"
	"github.com/pharmora/client/internal/platform/constants"
	"github.com/pharmora/client/internal/platform/storage"
)

func newPersistent(t *testing.T) (*cart.PersistentStore, *storage.MemoryStore) {
	t.Helper()
	device := storage.NewMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return cart.NewPersistentStore(device, log), device
}

/*
TestPersist_SurvivesRestart checks the full durability loop: mutate, then
rehydrate a fresh store from the same device store.
*/
func TestPersist_SurvivesRestart(t *testing.T) {
	store, device := newPersistent(t)

	store.Add(cart.Line{ItemID: "med-aspirin", Name: "Aspirin 100mg", Quantity: 2, UnitPrice: 1250})
	store.Add(cart.Line{ItemID: "med-parol", Name: "Parol 500mg", Quantity: 1, UnitPrice: 850})
	store.UpdateQuantity("med-parol", 4)

	restarted := cart.NewPersistentStore(device, slog.New(slog.NewTextHandler(io.Discard, nil)))
	restarted.Rehydrate(context.Background())

	require.Equal(t, 2, restarted.Len())
	lines := restarted.Lines()
	assert.Equal(t, "med-aspirin", lines[0].ItemID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 4, lines[1].Quantity)
	assert.Equal(t, int64(5900), restarted.Total())
}

/*
TestPersist_ClearRemovesSnapshot checks that clearing the cart also removes
the persisted snapshot instead of writing an empty one.
*/
func TestPersist_ClearRemovesSnapshot(t *testing.T) {
	store, device := newPersistent(t)
	store.Add(cart.Line{ItemID: "med-aspirin", Quantity: 1, UnitPrice: 1250})

	store.Clear()

	_, err := device.Get(context.Background(), constants.StorageKeyCart)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

/*
TestRehydrate_EmptyStore checks the first-boot path.
*/
func TestRehydrate_EmptyStore(t *testing.T) {
	store, _ := newPersistent(t)
	store.Rehydrate(context.Background())
	assert.Equal(t, 0, store.Len())
}

/*
TestRehydrate_CorruptSnapshot checks that an undecodable snapshot is
discarded and deleted, never crashing boot.
*/
func TestRehydrate_CorruptSnapshot(t *testing.T) {
	store, device := newPersistent(t)
	require.NoError(t, device.Set(context.Background(), constants.StorageKeyCart, "{not json"))

	store.Rehydrate(context.Background())

	assert.Equal(t, 0, store.Len())
	_, err := device.Get(context.Background(), constants.StorageKeyCart)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

/*
TestRehydrate_DropsInvalidLines checks that persisted lines violating the
quantity floor are filtered out during restore.
*/
func TestRehydrate_DropsInvalidLines(t *testing.T) {
	store, device := newPersistent(t)
	snapshot := `[
		{"item_id":"med-aspirin","name":"Aspirin 100mg","quantity":2,"unit_price":1250},
		{"item_id":"med-ghost","name":"Ghost","quantity":0,"unit_price":100},
		{"item_id":"med-negative","name":"Negative","quantity":-1,"unit_price":100}
	]`
	require.NoError(t, device.Set(context.Background(), constants.StorageKeyCart, snapshot))

	store.Rehydrate(context.Background())

	require.Equal(t, 1, store.Len())
	assert.Equal(t, "med-aspirin", store.Lines()[0].ItemID)
}
