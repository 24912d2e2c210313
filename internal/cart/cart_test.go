// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

package cart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmora/client/internal/cart"
)

func aspirin(quantity int) cart.Line {
	return cart.Line{ItemID: "med-aspirin", Name: "Aspirin 100mg", Quantity: quantity, UnitPrice: 1250}
}

func parol(quantity int) cart.Line {
	return cart.Line{ItemID: "med-parol", Name: "Parol 500mg", Quantity: quantity, UnitPrice: 850}
}

/*
TestAdd_MergesByItemID checks that adding an existing item accumulates its
quantity instead of appending a duplicate line.
*/
func TestAdd_MergesByItemID(t *testing.T) {
	store := cart.NewStore()

	store.Add(aspirin(2))
	store.Add(parol(1))
	store.Add(aspirin(3))

	require.Equal(t, 2, store.Len())
	lines := store.Lines()
	assert.Equal(t, "med-aspirin", lines[0].ItemID)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, "med-parol", lines[1].ItemID)
	assert.Equal(t, 1, lines[1].Quantity)
}

/*
TestAdd_RejectsQuantityBelowOne checks the quantity floor on entry.
*/
func TestAdd_RejectsQuantityBelowOne(t *testing.T) {
	store := cart.NewStore()

	store.Add(aspirin(0))
	store.Add(aspirin(-3))

	assert.Equal(t, 0, store.Len())
}

/*
TestUpdateQuantity checks absolute set semantics: the value replaces the
current quantity, it is not a delta, and zero or below removes the line.
*/
func TestUpdateQuantity(t *testing.T) {
	tests := []struct {
		name         string
		quantity     int
		wantLen      int
		wantQuantity int
	}{
		{"absolute_set", 7, 1, 7},
		{"set_to_one", 1, 1, 1},
		{"zero_removes", 0, 0, 0},
		{"negative_removes", -2, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := cart.NewStore()
			store.Add(aspirin(3))

			store.UpdateQuantity("med-aspirin", tt.quantity)

			require.Equal(t, tt.wantLen, store.Len())
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantQuantity, store.Lines()[0].Quantity)
			}
		})
	}
}

/*
TestUpdateQuantity_UnknownID checks that updating an absent item changes nothing.
*/
func TestUpdateQuantity_UnknownID(t *testing.T) {
	store := cart.NewStore()
	store.Add(aspirin(2))

	store.UpdateQuantity("med-unknown", 5)

	require.Equal(t, 1, store.Len())
	assert.Equal(t, 2, store.Lines()[0].Quantity)
}

/*
TestRemove checks deletion and the unknown-id no-op.
*/
func TestRemove(t *testing.T) {
	store := cart.NewStore()
	store.Add(aspirin(2))
	store.Add(parol(1))

	store.Remove("med-aspirin")
	require.Equal(t, 1, store.Len())
	assert.Equal(t, "med-parol", store.Lines()[0].ItemID)

	store.Remove("med-aspirin")
	assert.Equal(t, 1, store.Len())
}

/*
TestClear checks unconditional emptying.
*/
func TestClear(t *testing.T) {
	store := cart.NewStore()
	store.Add(aspirin(2))
	store.Add(parol(1))

	store.Clear()
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, int64(0), store.Total())

	store.Clear()
	assert.Equal(t, 0, store.Len())
}

/*
TestTotals checks the derived aggregates in kuruş.
*/
func TestTotals(t *testing.T) {
	store := cart.NewStore()
	assert.Equal(t, int64(0), store.Total())
	assert.Equal(t, 0, store.ItemCount())

	store.Add(aspirin(2)) // 2 × 1250
	store.Add(parol(3))   // 3 × 850

	assert.Equal(t, int64(5050), store.Total())
	assert.Equal(t, 5, store.ItemCount())
}

/*
TestCheckout checks the handoff snapshot: contents and totals frozen, a fresh
idempotency key per call, and the cart itself untouched.
*/
func TestCheckout(t *testing.T) {
	store := cart.NewStore()
	store.Add(aspirin(2))
	store.Add(parol(1))

	first := store.Checkout()
	second := store.Checkout()

	assert.NotEmpty(t, first.IdempotencyKey)
	assert.NotEqual(t, first.IdempotencyKey, second.IdempotencyKey,
		"each checkout attempt gets its own idempotency key")

	require.Len(t, first.Lines, 2)
	assert.Equal(t, int64(3350), first.Total)
	assert.Equal(t, 3, first.ItemCount)

	// The snapshot is a copy; mutating the cart afterwards must not change it.
	store.Clear()
	assert.Len(t, first.Lines, 2)
	assert.Equal(t, 0, store.Len())
}

/*
TestLines_ReturnsCopy checks that callers cannot mutate cart state through
the returned slice.
*/
func TestLines_ReturnsCopy(t *testing.T) {
	store := cart.NewStore()
	store.Add(aspirin(2))

	lines := store.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 2, store.Lines()[0].Quantity)
}
