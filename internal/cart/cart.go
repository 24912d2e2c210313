// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

/*
Package cart maintains the working set of items a patient intends to purchase.

The cart is pure client-side state: nothing here talks to the network. Its
contents are handed to the checkout flow as a snapshot with a client-generated
idempotency key; payment and order creation belong to the backend.

# Invariants

  - Item ids are unique across the collection; adding an existing id merges
    quantities instead of appending a duplicate line.
  - Every present line has quantity ≥ 1. A quantity driven to zero or below
    removes the line rather than retaining it.

All operations are total functions over the in-memory collection — none can
fail, so the package has no error taxonomy.
*/
package cart

import (
	"sync"

	"github.com/pharmora/client/pkg/uuid"
)

// Line is one (item, quantity) pair in the cart.
//
// UnitPrice is int64 kuruş so subtotal arithmetic stays exact.
type Line struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// Subtotal returns quantity × unit price, in kuruş.
func (l Line) Subtotal() int64 {
	return int64(l.Quantity) * l.UnitPrice
}

// Snapshot is the cart's contents frozen for checkout handoff.
type Snapshot struct {
	// IdempotencyKey lets the order-creation call be retried safely.
	IdempotencyKey string `json:"idempotency_key"`
	Lines          []Line `json:"lines"`
	Total          int64  `json:"total"`
	ItemCount      int    `json:"item_count"`
}

// Store is the cart state container.
//
// # Concurrency
//
// Safe for concurrent use from the shell's handler goroutines. Lines keep
// insertion order, matching how the original UI lists them.
type Store struct {
	mu    sync.Mutex
	lines []Line
}

// NewStore creates an empty cart.
func NewStore() *Store {
	return &Store{}
}

// # Mutations

// Add merges line into the cart: an existing item id accumulates quantity,
// a new id appends. Lines with quantity < 1 are ignored outright.
func (store *Store) Add(line Line) {
	if line.Quantity < 1 {
		return
	}
	store.mu.Lock()
	defer store.mu.Unlock()

	for i := range store.lines {
		if store.lines[i].ItemID == line.ItemID {
			store.lines[i].Quantity += line.Quantity
			return
		}
	}
	store.lines = append(store.lines, line)
}

// UpdateQuantity sets the quantity of the matching line to exactly quantity
// (absolute set, not delta). A quantity ≤ 0 removes the line. Unknown ids
// are a no-op, not an error.
func (store *Store) UpdateQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		store.Remove(itemID)
		return
	}
	store.mu.Lock()
	defer store.mu.Unlock()

	for i := range store.lines {
		if store.lines[i].ItemID == itemID {
			store.lines[i].Quantity = quantity
			return
		}
	}
}

// Remove deletes the matching line if present; a no-op otherwise.
func (store *Store) Remove(itemID string) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for i := range store.lines {
		if store.lines[i].ItemID == itemID {
			store.lines = append(store.lines[:i], store.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the collection unconditionally.
func (store *Store) Clear() {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.lines = nil
}

// # Reads

// Lines returns a copy of the cart lines in insertion order.
func (store *Store) Lines() []Line {
	store.mu.Lock()
	defer store.mu.Unlock()
	out := make([]Line, len(store.lines))
	copy(out, store.lines)
	return out
}

// Total returns the sum of line subtotals, in kuruş.
func (store *Store) Total() int64 {
	store.mu.Lock()
	defer store.mu.Unlock()
	var total int64
	for _, line := range store.lines {
		total += line.Subtotal()
	}
	return total
}

// ItemCount returns the sum of quantities across all lines.
func (store *Store) ItemCount() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	count := 0
	for _, line := range store.lines {
		count += line.Quantity
	}
	return count
}

// Len returns the number of distinct lines.
func (store *Store) Len() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.lines)
}

// Checkout freezes the cart into a [Snapshot] for the checkout flow.
// The cart itself is unchanged; clearing after a successful order is the
// checkout flow's call to make.
func (store *Store) Checkout() Snapshot {
	store.mu.Lock()
	defer store.mu.Unlock()

	lines := make([]Line, len(store.lines))
	copy(lines, store.lines)

	var total int64
	count := 0
	for _, line := range lines {
		total += line.Subtotal()
		count += line.Quantity
	}
	return Snapshot{
		IdempotencyKey: uuid.New(),
		Lines:          lines,
		Total:          total,
		ItemCount:      count,
	}
}

// restore replaces the collection wholesale. Used by rehydration only.
func (store *Store) restore(lines []Line) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.lines = lines
}
