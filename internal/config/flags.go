package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-remote remote record store base URL
//	-d local sqlite DSN (file path)
//	-c/-config json file path with configs
//	-cache-max-size cache byte budget
//	-cache-max-age default entry TTL (e.g., "24h")
//	-no-persist disable durable persistence of cache and queue
//	-sync-strategy sync strategy: immediate, lazy or scheduled
//	-sync-interval scheduled drain interval (e.g., "5m")
//	-batch-size queue drain batch size
//	-probe-url network quality probe URL
//	-probe-interval background probe period (e.g., "30s")
//	-request-timeout outbound request timeout (e.g., "15s")
func ParseFlags() *StructuredConfig {
	var remoteBaseURL string
	var databaseDSN string
	var jsonConfigPath string
	var cacheMaxSize int64
	var cacheMaxAge time.Duration
	var noPersist bool
	var syncStrategy string
	var syncInterval time.Duration
	var batchSize int
	var probeURL string
	var probeInterval time.Duration
	var requestTimeout time.Duration

	flag.StringVar(&remoteBaseURL, "remote", "", "Remote record store base URL")
	flag.StringVar(&databaseDSN, "d", "", "Local sqlite DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.Int64Var(&cacheMaxSize, "cache-max-size", 0, "Cache byte budget")
	flag.DurationVar(&cacheMaxAge, "cache-max-age", 0, "Default cache entry TTL (e.g., 24h)")
	flag.BoolVar(&noPersist, "no-persist", false, "Disable durable persistence")
	flag.StringVar(&syncStrategy, "sync-strategy", "", "Sync strategy: immediate, lazy or scheduled")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Scheduled drain interval (e.g., 5m)")
	flag.IntVar(&batchSize, "batch-size", 0, "Queue drain batch size")
	flag.StringVar(&probeURL, "probe-url", "", "Network quality probe URL")
	flag.DurationVar(&probeInterval, "probe-interval", 0, "Background probe period (e.g., 30s)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Outbound request timeout (e.g., 15s)")

	flag.Parse()

	cfg := &StructuredConfig{
		Cache: Cache{
			MaxSizeBytes: cacheMaxSize,
			MaxEntryAge:  cacheMaxAge,
		},
		Queue: Queue{
			BatchSize:         batchSize,
			Strategy:          syncStrategy,
			ScheduledInterval: syncInterval,
		},
		Network: Network{
			ProbeURL:      probeURL,
			ProbeInterval: probeInterval,
		},
		Remote: Remote{
			BaseURL:        remoteBaseURL,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB: DB{DSN: databaseDSN},
		},
		JSONFilePath: jsonConfigPath,
	}

	if noPersist {
		persist := false
		cfg.Cache.PersistToDisk = &persist
	}

	return cfg
}
