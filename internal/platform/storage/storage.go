// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

/*
Package storage provides the durable device store for client state.

It is the client's analog of a browser's localStorage: a small string
key-value store that survives process restarts. Persisted credentials and the
cart snapshot live here, nothing else.

Core Responsibilities:

  - Durability: values survive restarts of the client process.
  - Simplicity: flat string keys, string values, no queries.
  - Drivers: embedded sqlite for a standalone device, redis for kiosk
    fleets that share a session across terminals.

The session and cart layers depend only on the [Store] interface; the driver
is selected once at boot from configuration.
*/
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by [Store.Get] when the key has never been set
// or has been deleted.
var ErrNotFound = errors.New("storage: key not found")

// Store is the durable key-value contract consumed by the stores.
type Store interface {

	/*
		Get returns the value stored under key.

		Parameters:
		  - context: context.Context
		  - key: string

		Returns:
		  - string: Stored value
		  - error: [ErrNotFound] or driver failures
	*/
	Get(context context.Context, key string) (string, error)

	/*
		Set stores value under key, overwriting any previous value.

		Parameters:
		  - context: context.Context
		  - key: string
		  - value: string

		Returns:
		  - error: Driver failures
	*/
	Set(context context.Context, key, value string) error

	/*
		Delete removes the given keys. Missing keys are not an error.

		Parameters:
		  - context: context.Context
		  - keys: ...string

		Returns:
		  - error: Driver failures
	*/
	Delete(context context.Context, keys ...string) error

	// Close releases driver resources. Safe to call once at shutdown.
	Close() error
}
