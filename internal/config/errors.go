package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidCacheConfigs indicates invalid cache settings (for example,
	// a non-positive byte budget or entry age).
	ErrInvalidCacheConfigs = errors.New("invalid cache configuration")
	// ErrInvalidSyncStrategy indicates an unknown sync strategy name.
	ErrInvalidSyncStrategy = errors.New("invalid sync strategy")
	// ErrInvalidQueueConfigs indicates invalid queue settings (for example,
	// a non-positive batch size or scheduled interval).
	ErrInvalidQueueConfigs = errors.New("invalid queue configuration")
	// ErrInvalidNetworkConfigs indicates invalid network monitor settings
	// (for example, a missing probe URL).
	ErrInvalidNetworkConfigs = errors.New("invalid network configuration")
	// ErrInvalidRemoteConfigs indicates invalid remote store settings
	// (for example, a missing base URL or zero timeout).
	ErrInvalidRemoteConfigs = errors.New("invalid remote configuration")
	// ErrInvalidStorageConfigs indicates invalid durable storage settings
	// (for example, an empty DSN while persistence is enabled).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
)
