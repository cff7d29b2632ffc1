package conflict

import (
	"context"

	"github.com/furkeep/pawsync/internal/cache"
	"github.com/furkeep/pawsync/models"
)

// CacheStore is the slice of the bounded cache the resolver needs to apply
// resolution outcomes locally.
type CacheStore interface {
	// SetRaw stores pre-serialized bytes without re-encoding, so a
	// SERVER_WINS outcome leaves the entry byte-identical to the server
	// payload.
	SetRaw(ctx context.Context, key string, data []byte, opts cache.Options) error
	// Discard removes an entry locally without queueing a sync intent.
	Discard(ctx context.Context, key string)
	// SetETag records the remote concurrency token after a confirmed write.
	SetETag(key, etag string)
}

// IntentQueue is the slice of the sync queue the resolver needs to retire
// the local intent once a resolution is terminal.
type IntentQueue interface {
	Get(key string) (models.SyncQueueItem, bool)
	Remove(ctx context.Context, key string)
}

// Remote is the slice of the remote store the resolver needs to push
// resolution outcomes.
type Remote interface {
	ForcePut(ctx context.Context, key string, data []byte) (models.RemoteRecord, error)
	Delete(ctx context.Context, key string, baseVersion int64) error
}
