// SPDX-License-Identifier: Apache-2.0

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Cache.MaxSizeBytes <= 0 || cfg.Cache.MaxEntryAge <= 0 {
		return ErrInvalidCacheConfigs
	}

	switch cfg.Queue.Strategy {
	case StrategyImmediate, StrategyLazy, StrategyScheduled:
	default:
		return ErrInvalidSyncStrategy
	}

	if cfg.Queue.BatchSize <= 0 || cfg.Queue.RetryCap < 0 || cfg.Queue.ScheduledInterval <= 0 {
		return ErrInvalidQueueConfigs
	}

	if cfg.Network.ProbeURL == "" || cfg.Network.ProbeInterval <= 0 || cfg.Network.ProbeTimeout <= 0 {
		return ErrInvalidNetworkConfigs
	}

	if cfg.Remote.BaseURL == "" || cfg.Remote.RequestTimeout <= 0 {
		return ErrInvalidRemoteConfigs
	}

	if cfg.Storage.DB.DSN == "" && cfg.PersistToDisk() {
		return ErrInvalidStorageConfigs
	}

	return nil
}

// PersistToDisk reports the effective persistence setting, defaulting to true
// when the merged configuration left it unset.
func (cfg *StructuredConfig) PersistToDisk() bool {
	return cfg.Cache.PersistToDisk == nil || *cfg.Cache.PersistToDisk
}
