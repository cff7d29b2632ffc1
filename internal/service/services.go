// Package service wires the offline data layer together: the sync
// orchestrator that drains the durable queue against the remote store, the
// strategy-driven job that decides when passes run, and the application
// facade for pet records.
package service

import (
	"github.com/furkeep/pawsync/internal/adapter"
	"github.com/furkeep/pawsync/internal/cache"
	"github.com/furkeep/pawsync/internal/config"
	"github.com/furkeep/pawsync/internal/conflict"
	"github.com/furkeep/pawsync/internal/logger"
	"github.com/furkeep/pawsync/internal/netmon"
	"github.com/furkeep/pawsync/internal/queue"
	"github.com/furkeep/pawsync/internal/store"
)

// Services is the assembled offline data layer.
type Services struct {
	Bus      *Bus
	Cache    *cache.Store
	Queue    *queue.Queue
	Network  *netmon.Monitor
	Resolver *conflict.Resolver
	Sync     *SyncService
	Job      *SyncJob
	Data     *DataService
}

// NewServices builds the full component graph on top of the given durable
// store and remote transport.
func NewServices(cfg *config.StructuredConfig, kv store.KeyValue, remote adapter.RemoteStore, signalFn netmon.SignalFunc, log *logger.Logger) *Services {
	bus := NewBus(log)

	intentQueue := queue.New(queue.Config{RetryCap: cfg.Queue.RetryCap}, kv, log)
	cacheStore := cache.NewStore(cache.Config{
		MaxSizeBytes: cfg.Cache.MaxSizeBytes,
		DefaultTTL:   cfg.Cache.MaxEntryAge,
	}, kv, intentQueue, log)

	monitor := netmon.NewMonitor(netmon.Config{
		ProbeURL:      cfg.Network.ProbeURL,
		ProbeInterval: cfg.Network.ProbeInterval,
		ProbeTimeout:  cfg.Network.ProbeTimeout,
	}, signalFn, log)

	resolver := conflict.NewResolver(cacheStore, intentQueue, remote, log)

	syncSvc := NewSyncService(Config{BatchSize: cfg.Queue.BatchSize},
		intentQueue, cacheStore, remote, monitor, resolver, bus, log)
	job := NewSyncJob(JobConfig{
		Strategy: cfg.Queue.Strategy,
		Interval: cfg.Queue.ScheduledInterval,
	}, syncSvc, monitor, log)

	return &Services{
		Bus:      bus,
		Cache:    cacheStore,
		Queue:    intentQueue,
		Network:  monitor,
		Resolver: resolver,
		Sync:     syncSvc,
		Job:      job,
		Data:     NewDataService(cacheStore, remote, job, bus, log),
	}
}
