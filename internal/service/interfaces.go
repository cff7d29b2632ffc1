package service

import (
	"context"

	"github.com/furkeep/pawsync/internal/cache"
	"github.com/furkeep/pawsync/internal/queue"
	"github.com/furkeep/pawsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// CacheStore is the slice of the bounded cache used by the orchestrator and
// the data facade.
type CacheStore interface {
	Set(ctx context.Context, key string, value any, opts cache.Options) error
	SetRaw(ctx context.Context, key string, data []byte, opts cache.Options) error
	Get(ctx context.Context, key string) ([]byte, error)
	GetOrFetch(ctx context.Context, key string, fetcher cache.Fetcher, staleWhileRevalidate bool, opts cache.Options) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Discard(ctx context.Context, key string)
	SetETag(key, etag string)
	Version(key string) int64
}

// IntentQueue is the slice of the durable queue the orchestrator drains.
type IntentQueue interface {
	Drain(ctx context.Context, batchSize int, fn queue.SyncFunc) (queue.DrainSummary, error)
	PendingLen() int
}

// NetworkGate reports whether current conditions permit syncing and notifies
// on status changes.
type NetworkGate interface {
	Status() models.NetworkStatus
	Subscribe(fn func(models.NetworkStatus)) (unsubscribe func())
}

// ConflictRegistry receives conflicts the orchestrator detects during a
// drain. They stay registered until explicitly resolved.
type ConflictRegistry interface {
	Register(conflict *models.Conflict)
}

// Syncer triggers one full sync pass. Implemented by [SyncService] and
// consumed by [SyncJob].
type Syncer interface {
	Sync(ctx context.Context) error
}
