// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

/*
Package config handles client-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (API client, storage) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the client is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Storage driver identifiers.
const (
	StorageDriverSQLite = "sqlite"
	StorageDriverRedis  = "redis"
)

// # Configuration Schema

// Config holds all runtime configuration for the Pharmora client.
type Config struct {

	// App shell settings
	ShellPort   string `env:"SHELL_PORT"   envDefault:"4173"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Platform backend
	APIBaseURL string `env:"API_BASE_URL,required"`

	// Durable device storage. "sqlite" keeps everything on the local disk;
	// "redis" lets a kiosk fleet share one session across terminals.
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	StoragePath   string `env:"STORAGE_PATH"   envDefault:"./data/pharmora.db"`
	RedisURL      string `env:"REDIS_URL"`

	// DeviceSecret derives the key that seals persisted credentials.
	DeviceSecret string `env:"DEVICE_SECRET,required"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	// Cross-field check: the redis driver is unusable without a URL.
	if cfg.StorageDriver == StorageDriverRedis && cfg.RedisURL == "" {
		return nil, fmt.Errorf("config: STORAGE_DRIVER=redis requires REDIS_URL")
	}

	return cfg, nil
}

// IsDevelopment reports whether the client is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the client is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
