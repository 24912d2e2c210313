// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

// Package notify delivers user-visible banners for operation outcomes.
//
// # Architecture
//
// The session store reports outcomes ("Signed in", "Registration failed")
// through the [Notifier] port. Reporting is a side effect, never a state
// invariant: dropping a notification must not change what the stores do.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pharmora/client/pkg/uuid"
)

// Kind classifies a notification for display.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a single banner shown to the operator.
type Notification struct {
	ID      string    `json:"id"`
	Kind    Kind      `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier is the outbound port for operation outcome banners.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// # Feed

// feedCapacity bounds the retained history; the shell only renders recent banners.
const feedCapacity = 50

// Feed is an in-memory [Notifier] that retains recent notifications for the
// app shell to render, and mirrors each one to the structured log.
//
// # Concurrency
//
// Safe for concurrent use; store operations notify from their own goroutines.
type Feed struct {
	mu      sync.Mutex
	log     *slog.Logger
	entries []Notification
}

// NewFeed creates a Feed that mirrors notifications to the given logger.
func NewFeed(log *slog.Logger) *Feed {
	return &Feed{log: log}
}

// Success records a success banner.
func (feed *Feed) Success(message string) {
	feed.push(KindSuccess, message)
	feed.log.Info("notification", slog.String("kind", "success"), slog.String("message", message))
}

// Error records a failure banner.
func (feed *Feed) Error(message string) {
	feed.push(KindError, message)
	feed.log.Warn("notification", slog.String("kind", "error"), slog.String("message", message))
}

// Recent returns the retained notifications, newest last.
func (feed *Feed) Recent() []Notification {
	feed.mu.Lock()
	defer feed.mu.Unlock()
	out := make([]Notification, len(feed.entries))
	copy(out, feed.entries)
	return out
}

// push appends an entry, evicting the oldest past capacity.
func (feed *Feed) push(kind Kind, message string) {
	feed.mu.Lock()
	defer feed.mu.Unlock()
	feed.entries = append(feed.entries, Notification{
		ID:      uuid.New(),
		Kind:    kind,
		Message: message,
		At:      time.Now(),
	})
	if len(feed.entries) > feedCapacity {
		feed.entries = feed.entries[len(feed.entries)-feedCapacity:]
	}
}

// # Null Notifier

// Discard is a [Notifier] that drops everything. Useful in tests that assert
// state transitions without caring about banners.
type Discard struct{}

func (Discard) Success(string) {}
func (Discard) Error(string)   {}
