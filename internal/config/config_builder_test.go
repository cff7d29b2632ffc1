// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_EmptyBuilder verifies that building with no configs fails
// validation: a zero-value configuration is never usable.
func TestBuild_EmptyBuilder(t *testing.T) {
	_, err := newConfigBuilder().build()
	assert.ErrorIs(t, err, ErrInvalidCacheConfigs)
}

// TestBuild_DefaultsAlone verifies that the built-in defaults form a complete,
// valid configuration on their own.
func TestBuild_DefaultsAlone(t *testing.T) {
	cfg, err := newConfigBuilder().withDefaults().build()
	require.NoError(t, err)

	assert.Equal(t, int64(50<<20), cfg.Cache.MaxSizeBytes)
	assert.Equal(t, 24*time.Hour, cfg.Cache.MaxEntryAge)
	assert.True(t, cfg.PersistToDisk())
	assert.Equal(t, 10, cfg.Queue.BatchSize)
	assert.Equal(t, 3, cfg.Queue.RetryCap)
	assert.Equal(t, StrategyLazy, cfg.Queue.Strategy)
	assert.Equal(t, 5*time.Minute, cfg.Queue.ScheduledInterval)
	assert.Equal(t, 30*time.Second, cfg.Network.ProbeInterval)
	assert.Equal(t, "pawsync.db", cfg.Storage.DB.DSN)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_EarlierSourceWins verifies merge precedence: a value from an
// earlier source is not overwritten by a later one.
func TestBuild_EarlierSourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{Queue: Queue{Strategy: StrategyImmediate}},
		&StructuredConfig{Queue: Queue{Strategy: StrategyScheduled, BatchSize: 25}},
	)
	b.withDefaults()

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, StrategyImmediate, cfg.Queue.Strategy)
	assert.Equal(t, 25, cfg.Queue.BatchSize, "empty fields are filled from later sources")
}

// TestBuild_ExplicitFalsePersistSurvivesMerge verifies that -no-persist
// (a *bool false) is not clobbered by the default true.
func TestBuild_ExplicitFalsePersistSurvivesMerge(t *testing.T) {
	noPersist := false
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		Cache: Cache{PersistToDisk: &noPersist},
	})
	b.withDefaults()

	cfg, err := b.build()
	require.NoError(t, err)
	assert.False(t, cfg.PersistToDisk())
}

// ── withEnv ───────────────────────────────────────────────────────────────────

// TestWithEnv_ReturnsBuilder verifies the fluent interface.
func TestWithEnv_ReturnsBuilder(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withEnv())
}

// TestWithEnv_ReadsEnvVars verifies that environment variables are picked up
// through the nested envPrefix tags.
func TestWithEnv_ReadsEnvVars(t *testing.T) {
	t.Setenv("APP_VERSION", "env-version")
	t.Setenv("CACHE_MAX_SIZE_BYTES", "1048576")
	t.Setenv("QUEUE_SYNC_STRATEGY", "immediate")
	t.Setenv("NETWORK_PROBE_INTERVAL", "45s")
	t.Setenv("STORAGE_DB_DATABASE_URI", "env.db")

	b := newConfigBuilder()
	b.withEnv()

	require.Len(t, b.configs, 1)
	assert.Equal(t, "env-version", b.configs[0].App.Version)
	assert.Equal(t, int64(1048576), b.configs[0].Cache.MaxSizeBytes)
	assert.Equal(t, StrategyImmediate, b.configs[0].Queue.Strategy)
	assert.Equal(t, 45*time.Second, b.configs[0].Network.ProbeInterval)
	assert.Equal(t, "env.db", b.configs[0].Storage.DB.DSN)
}

// TestWithEnv_NoErrorOnEmptyEnv verifies that withEnv does not set b.err
// when no relevant env vars are present.
func TestWithEnv_NoErrorOnEmptyEnv(t *testing.T) {
	b := newConfigBuilder()
	b.withEnv()
	assert.NoError(t, b.err)
}

// ── withJSON ──────────────────────────────────────────────────────────────────

// TestWithJSON_ReturnsBuilder verifies the fluent interface.
func TestWithJSON_ReturnsBuilder(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withJSON())
}

// TestWithJSON_NoOp_WhenNoPathSet verifies that withJSON does nothing when
// no config has a JSONFilePath.
func TestWithJSON_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	b.withJSON()

	assert.Len(t, b.configs, 1)
	assert.NoError(t, b.err)
}

// TestWithJSON_AppendsConfig_WhenValidFile verifies that a valid JSON file is
// parsed and appended.
func TestWithJSON_AppendsConfig_WhenValidFile(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.Queue.Strategy = StrategyScheduled
	payload.Queue.ScheduledInterval = Duration(10 * time.Minute)
	path := writeTempJSONConfig(t, payload)

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, StrategyScheduled, b.configs[1].Queue.Strategy)
	assert.Equal(t, 10*time.Minute, b.configs[1].Queue.ScheduledInterval)
}

// TestWithJSON_SetsError_WhenFileNotFound verifies that a missing file path
// sets b.err.
func TestWithJSON_SetsError_WhenFileNotFound(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		JSONFilePath: "/nonexistent/config.json",
	})
	b.withJSON()

	assert.Error(t, b.err)
}

// TestWithJSON_UsesLastPath verifies that when multiple configs have a
// JSONFilePath, the last non-empty one wins.
func TestWithJSON_UsesLastPath(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.App.Version = "last-wins"
	path := writeTempJSONConfig(t, payload)

	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{JSONFilePath: ""},
		&StructuredConfig{JSONFilePath: path},
	)
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 3)
	assert.Equal(t, "last-wins", b.configs[2].App.Version)
}

// ── validate ──────────────────────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	valid := func() *StructuredConfig { return defaults() }

	tests := []struct {
		name    string
		mutate  func(cfg *StructuredConfig)
		wantErr error
	}{
		{
			name:   "defaults are valid",
			mutate: func(cfg *StructuredConfig) {},
		},
		{
			name:    "zero cache budget",
			mutate:  func(cfg *StructuredConfig) { cfg.Cache.MaxSizeBytes = 0 },
			wantErr: ErrInvalidCacheConfigs,
		},
		{
			name:    "negative entry age",
			mutate:  func(cfg *StructuredConfig) { cfg.Cache.MaxEntryAge = -time.Second },
			wantErr: ErrInvalidCacheConfigs,
		},
		{
			name:    "unknown sync strategy",
			mutate:  func(cfg *StructuredConfig) { cfg.Queue.Strategy = "eager" },
			wantErr: ErrInvalidSyncStrategy,
		},
		{
			name:    "zero batch size",
			mutate:  func(cfg *StructuredConfig) { cfg.Queue.BatchSize = 0 },
			wantErr: ErrInvalidQueueConfigs,
		},
		{
			name:    "negative retry cap",
			mutate:  func(cfg *StructuredConfig) { cfg.Queue.RetryCap = -1 },
			wantErr: ErrInvalidQueueConfigs,
		},
		{
			name:    "missing probe URL",
			mutate:  func(cfg *StructuredConfig) { cfg.Network.ProbeURL = "" },
			wantErr: ErrInvalidNetworkConfigs,
		},
		{
			name:    "missing remote base URL",
			mutate:  func(cfg *StructuredConfig) { cfg.Remote.BaseURL = "" },
			wantErr: ErrInvalidRemoteConfigs,
		},
		{
			name:    "persistence enabled without DSN",
			mutate:  func(cfg *StructuredConfig) { cfg.Storage.DB.DSN = "" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name: "no DSN is fine when persistence is off",
			mutate: func(cfg *StructuredConfig) {
				noPersist := false
				cfg.Storage.DB.DSN = ""
				cfg.Cache.PersistToDisk = &noPersist
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
