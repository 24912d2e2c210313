// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// entry is the single table of the device store.
type entry struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

// TableName keeps the on-disk name stable across gorm naming-strategy changes.
func (entry) TableName() string { return "device_store" }

// SQLiteStore implements [Store] on an embedded sqlite database file.
//
// # Why sqlite?
//
// The client runs on a single device; a serverless, file-backed store with
// transactional writes is exactly the durability the session needs, with no
// daemon to operate.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (creating if necessary) the device database at path
// and migrates the schema.
func NewSQLiteStore(path string, log *slog.Logger) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: failed to open sqlite at %s: %w", path, err)
	}

	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("storage: sqlite migration failed: %w", err)
	}

	log.Info("device_store_opened",
		slog.String("driver", "sqlite"),
		slog.String("path", path),
	)
	return &SQLiteStore{db: db}, nil
}

// Get returns the value stored under key, or [ErrNotFound].
func (store *SQLiteStore) Get(context context.Context, key string) (string, error) {
	var row entry
	err := store.db.WithContext(context).First(&row, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("storage: sqlite get failed: %w", err)
	}
	return row.Value, nil
}

// Set stores value under key, overwriting any previous value.
func (store *SQLiteStore) Set(context context.Context, key, value string) error {
	row := entry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := store.db.WithContext(context).Save(&row).Error
	if err != nil {
		return fmt.Errorf("storage: sqlite set failed: %w", err)
	}
	return nil
}

// Delete removes the given keys. Missing keys are not an error.
func (store *SQLiteStore) Delete(context context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := store.db.WithContext(context).Delete(&entry{}, "key IN ?", keys).Error
	if err != nil {
		return fmt.Errorf("storage: sqlite delete failed: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (store *SQLiteStore) Close() error {
	sqlDB, err := store.db.DB()
	if err != nil {
		return fmt.Errorf("storage: sqlite close failed: %w", err)
	}
	return sqlDB.Close()
}
