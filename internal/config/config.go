// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for pawsync. It
// aggregates all sub-configurations and is populated by merging values from
// environment variables, command-line flags, an optional JSON file, and
// built-in defaults.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the version string.
	App App `envPrefix:"APP_"`

	// Cache holds bounded cache store settings.
	Cache Cache `envPrefix:"CACHE_"`

	// Queue holds sync queue and drain settings.
	Queue Queue `envPrefix:"QUEUE_"`

	// Network holds network quality monitor settings.
	Network Network `envPrefix:"NETWORK_"`

	// Remote holds remote record store transport settings.
	Remote Remote `envPrefix:"REMOTE_"`

	// Storage holds durable key-value storage settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG" json:"-"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION" json:"version"`
}

// Cache holds bounded cache store settings.
type Cache struct {
	// MaxSizeBytes is the byte budget of the in-memory cache. Entries are
	// evicted by priority and recency when the budget is exceeded.
	// Env: CACHE_MAX_SIZE_BYTES
	MaxSizeBytes int64 `env:"MAX_SIZE_BYTES" json:"max_size_bytes"`

	// MaxEntryAge is the default TTL applied to entries cached without an
	// explicit TTL (e.g. "24h").
	// Env: CACHE_MAX_ENTRY_AGE
	MaxEntryAge time.Duration `env:"MAX_ENTRY_AGE" json:"max_entry_age"`

	// PersistToDisk mirrors cache entries and the sync queue to durable
	// storage. A pointer so that an explicit false survives config merging.
	// Env: CACHE_PERSIST_TO_DISK
	PersistToDisk *bool `env:"PERSIST_TO_DISK" json:"persist_to_disk"`
}

// Queue holds sync queue and drain settings.
type Queue struct {
	// BatchSize is the number of queue items drained per batch.
	// Env: QUEUE_BATCH_SIZE
	BatchSize int `env:"BATCH_SIZE" json:"batch_size"`

	// RetryCap is the number of failed attempts after which a queue item is
	// removed and reported as a permanent failure.
	// Env: QUEUE_RETRY_CAP
	RetryCap int `env:"RETRY_CAP" json:"retry_cap"`

	// Strategy selects when the queue is drained: "immediate", "lazy" or
	// "scheduled".
	// Env: QUEUE_SYNC_STRATEGY
	Strategy string `env:"SYNC_STRATEGY" json:"sync_strategy"`

	// ScheduledInterval is the drain period when Strategy is "scheduled".
	// Env: QUEUE_SCHEDULED_INTERVAL
	ScheduledInterval time.Duration `env:"SCHEDULED_INTERVAL" json:"scheduled_interval"`
}

// Network holds network quality monitor settings.
type Network struct {
	// ProbeURL is the endpoint used for round-trip quality probes.
	// Env: NETWORK_PROBE_URL
	ProbeURL string `env:"PROBE_URL" json:"probe_url"`

	// ProbeInterval is the period of the background probe timer.
	// Env: NETWORK_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL" json:"probe_interval"`

	// ProbeTimeout bounds a single probe round-trip.
	// Env: NETWORK_PROBE_TIMEOUT
	ProbeTimeout time.Duration `env:"PROBE_TIMEOUT" json:"probe_timeout"`
}

// Remote holds transport settings for the remote record store.
type Remote struct {
	// BaseURL is the base address of the remote record store.
	// Env: REMOTE_BASE_URL
	BaseURL string `env:"BASE_URL" json:"base_url"`

	// RequestTimeout is the default timeout for outbound requests.
	// Env: REMOTE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" json:"request_timeout"`
}

// Storage groups durable storage backend settings.
type Storage struct {
	// DB holds the local database connection settings.
	DB DB `envPrefix:"DB_" json:"db"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the SQLite connection string (file path) used for the durable
	// key-value mirror (e.g. "pawsync.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI" json:"dsn"`
}

// Sync strategy names accepted by Queue.Strategy.
const (
	StrategyImmediate = "immediate"
	StrategyLazy      = "lazy"
	StrategyScheduled = "scheduled"
)

// defaults returns the built-in configuration baseline. It is merged last, so
// every explicitly supplied value wins over it.
func defaults() *StructuredConfig {
	persist := true
	return &StructuredConfig{
		Cache: Cache{
			MaxSizeBytes:  50 << 20, // 50 MiB
			MaxEntryAge:   24 * time.Hour,
			PersistToDisk: &persist,
		},
		Queue: Queue{
			BatchSize:         10,
			RetryCap:          3,
			Strategy:          StrategyLazy,
			ScheduledInterval: 5 * time.Minute,
		},
		Network: Network{
			ProbeURL:      "https://clients3.google.com/generate_204",
			ProbeInterval: 30 * time.Second,
			ProbeTimeout:  5 * time.Second,
		},
		Remote: Remote{
			BaseURL:        "http://localhost:8080",
			RequestTimeout: 15 * time.Second,
		},
		Storage: Storage{
			DB: DB{DSN: "pawsync.db"},
		},
	}
}

// GetConfig assembles the effective configuration by merging, in order of
// precedence: environment variables, command-line flags, the optional JSON
// file, and built-in defaults. The result is validated before being returned.
func GetConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
