// SPDX-License-Identifier: Apache-2.0

// Package queue implements the durable, keyed list of pending mutations that
// survives offline periods and process restarts.
//
// At most one item exists per record key: a later enqueue for the same key
// coalesces into the existing item, replacing its payload, operation and
// timestamp. Items drain in (priority desc, enqueued asc) order; deletes go
// first, then updates, then creates.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/furkeep/pawsync/internal/logger"
	"github.com/furkeep/pawsync/internal/store"
	"github.com/furkeep/pawsync/models"
)

// kvBucket namespaces queue items inside the shared durable store.
const kvBucket = "queue"

// ErrConflict is returned by a [SyncFunc] to signal that the remote rejected
// the item as out-of-date. The item is kept queued, marked conflicted, and
// excluded from automatic drains until explicitly resolved.
var ErrConflict = errors.New("sync conflict detected")

// SyncFunc attempts to apply one queued mutation against the remote store.
// A nil return removes the item; [ErrConflict] parks it; any other error
// counts against the item's retry cap.
type SyncFunc func(ctx context.Context, item models.SyncQueueItem) error

// Config holds Queue settings.
type Config struct {
	// RetryCap is the number of failed attempts after which an item is
	// removed and reported as a permanent failure.
	RetryCap int
}

// DrainSummary reports the outcome of one Drain call.
type DrainSummary struct {
	Attempted int
	Synced    int
	Conflicts int
	Retried   int
	// Failures holds items removed after exhausting their retries. Each such
	// item is reported here exactly once, never retried again automatically.
	Failures []models.SyncFailure
}

// Queue is the durable sync queue. All methods are safe for concurrent use.
type Queue struct {
	retryCap int
	kv       store.KeyValue
	logger   *logger.Logger

	mu    sync.Mutex
	items map[string]*models.SyncQueueItem

	now func() time.Time
}

// New constructs a Queue mirroring items to kv. Call Restore before the
// first drain to recover intents persisted by a previous process.
func New(cfg Config, kv store.KeyValue, log *logger.Logger) *Queue {
	if cfg.RetryCap <= 0 {
		cfg.RetryCap = 3
	}

	return &Queue{
		retryCap: cfg.RetryCap,
		kv:       kv,
		logger:   log,
		items:    make(map[string]*models.SyncQueueItem),
		now:      time.Now,
	}
}

// Enqueue records a pending mutation for key. If an item for key already
// exists, the new intent coalesces into it: payload, operation and timestamp
// are replaced, the retry count resets to zero for the fresh intent, and a
// stale conflict mark is cleared. The base version of the original intent is
// kept, since the server has not confirmed anything in between.
func (q *Queue) Enqueue(ctx context.Context, key string, payload []byte, op models.Operation, baseVersion int64) error {
	q.mu.Lock()

	item, ok := q.items[key]
	if ok {
		item.Payload = payload
		item.Operation = op
		item.EnqueuedAt = q.now()
		item.RetryCount = 0
		item.Conflicted = false
	} else {
		item = &models.SyncQueueItem{
			Key:         key,
			Payload:     payload,
			Operation:   op,
			EnqueuedAt:  q.now(),
			BaseVersion: baseVersion,
		}
		q.items[key] = item
	}
	snapshot := *item
	q.mu.Unlock()

	q.persist(ctx, snapshot)
	return nil
}

// Drain attempts to sync up to batchSize pending items in (priority desc,
// enqueued asc) order. Conflicted items are skipped. Drain stops early only
// on context cancellation; individual item failures are absorbed into the
// summary.
func (q *Queue) Drain(ctx context.Context, batchSize int, fn SyncFunc) (DrainSummary, error) {
	if batchSize <= 0 {
		batchSize = 10
	}

	batch := q.pending()
	if len(batch) > batchSize {
		batch = batch[:batchSize]
	}

	var summary DrainSummary
	for _, item := range batch {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		summary.Attempted++
		err := fn(ctx, item)
		switch {
		case err == nil:
			q.remove(ctx, item.Key)
			summary.Synced++

		case errors.Is(err, ErrConflict):
			q.markConflicted(ctx, item.Key)
			summary.Conflicts++

		default:
			failed, retryCount := q.bumpRetry(ctx, item.Key)
			if failed != nil {
				summary.Failures = append(summary.Failures, models.SyncFailure{Item: *failed, Err: err})
				q.logger.Warn().
					Err(err).
					Str("func", "Queue.Drain").
					Str("key", item.Key).
					Str("operation", string(item.Operation)).
					Msg("queue item exhausted retries, reporting permanent failure")
			} else {
				summary.Retried++
				q.logger.Debug().
					Err(err).
					Str("func", "Queue.Drain").
					Str("key", item.Key).
					Int("retry_count", retryCount).
					Msg("queue item sync failed, will retry")
			}
		}
	}

	return summary, nil
}

// pending returns non-conflicted items sorted by (priority desc, enqueued
// asc).
func (q *Queue) pending() []models.SyncQueueItem {
	q.mu.Lock()
	items := make([]models.SyncQueueItem, 0, len(q.items))
	for _, item := range q.items {
		if !item.Conflicted {
			items = append(items, *item)
		}
	}
	q.mu.Unlock()

	sortItems(items)
	return items
}

// Items returns a snapshot of every queued item (conflicted included) in
// drain order.
func (q *Queue) Items() []models.SyncQueueItem {
	q.mu.Lock()
	items := make([]models.SyncQueueItem, 0, len(q.items))
	for _, item := range q.items {
		items = append(items, *item)
	}
	q.mu.Unlock()

	sortItems(items)
	return items
}

func sortItems(items []models.SyncQueueItem) {
	sort.SliceStable(items, func(i, j int) bool {
		pi, pj := items[i].Operation.Priority(), items[j].Operation.Priority()
		if pi != pj {
			return pi > pj
		}
		return items[i].EnqueuedAt.Before(items[j].EnqueuedAt)
	})
}

// Get returns the queued item for key, if any.
func (q *Queue) Get(key string) (models.SyncQueueItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	item, ok := q.items[key]
	if !ok {
		return models.SyncQueueItem{}, false
	}
	return *item, true
}

// Len returns the number of queued items, conflicted included.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// PendingLen returns the number of items eligible for automatic draining.
func (q *Queue) PendingLen() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for _, item := range q.items {
		if !item.Conflicted {
			n++
		}
	}
	return n
}

// Remove deletes the item for key from memory and durable storage. Used by
// the conflict resolver once a resolution is terminal.
func (q *Queue) Remove(ctx context.Context, key string) {
	q.remove(ctx, key)
}

func (q *Queue) remove(ctx context.Context, key string) {
	q.mu.Lock()
	delete(q.items, key)
	q.mu.Unlock()

	if err := q.kv.Delete(ctx, kvBucket, key); err != nil {
		q.logger.Error().
			Err(err).
			Str("func", "Queue.remove").
			Str("key", key).
			Msg("failed to delete queue item from durable storage")
	}
}

func (q *Queue) markConflicted(ctx context.Context, key string) {
	q.mu.Lock()
	item, ok := q.items[key]
	if ok {
		item.Conflicted = true
	}
	var snapshot models.SyncQueueItem
	if ok {
		snapshot = *item
	}
	q.mu.Unlock()

	if ok {
		q.persist(ctx, snapshot)
	}
}

// bumpRetry increments the retry counter for key. When the counter exceeds
// the cap the item is removed and returned so the caller can report it as a
// permanent failure; otherwise nil and the new count are returned.
func (q *Queue) bumpRetry(ctx context.Context, key string) (*models.SyncQueueItem, int) {
	q.mu.Lock()
	item, ok := q.items[key]
	if !ok {
		q.mu.Unlock()
		return nil, 0
	}

	item.RetryCount++
	if item.RetryCount > q.retryCap {
		removed := *item
		delete(q.items, key)
		q.mu.Unlock()

		if err := q.kv.Delete(ctx, kvBucket, key); err != nil {
			q.logger.Error().
				Err(err).
				Str("func", "Queue.bumpRetry").
				Str("key", key).
				Msg("failed to delete exhausted queue item from durable storage")
		}
		return &removed, removed.RetryCount
	}

	snapshot := *item
	count := item.RetryCount
	q.mu.Unlock()

	q.persist(ctx, snapshot)
	return nil, count
}

// Restore loads all durably-persisted items back into memory. Called once at
// startup so pending intents survive process restarts.
func (q *Queue) Restore(ctx context.Context) error {
	keys, err := q.kv.Keys(ctx, kvBucket)
	if err != nil {
		return fmt.Errorf("list durable queue keys: %w", err)
	}

	restored := 0
	for _, key := range keys {
		blob, err := q.kv.Get(ctx, kvBucket, key)
		if err != nil {
			continue
		}

		var item models.SyncQueueItem
		if err = json.Unmarshal(blob, &item); err != nil {
			q.logger.Error().
				Err(err).
				Str("func", "Queue.Restore").
				Str("key", key).
				Msg("failed to decode durable queue item, skipping")
			continue
		}

		q.mu.Lock()
		q.items[item.Key] = &item
		q.mu.Unlock()
		restored++
	}

	q.logger.Debug().
		Str("func", "Queue.Restore").
		Int("items", restored).
		Msg("sync queue restored from durable storage")
	return nil
}

// persist mirrors an item to durable storage. Best-effort: a failure is
// logged and does not roll back the in-memory item.
func (q *Queue) persist(ctx context.Context, item models.SyncQueueItem) {
	blob, err := json.Marshal(item)
	if err != nil {
		q.logger.Error().
			Err(err).
			Str("func", "Queue.persist").
			Str("key", item.Key).
			Msg("failed to encode queue item for durable storage")
		return
	}

	if err = q.kv.Set(ctx, kvBucket, item.Key, blob); err != nil {
		q.logger.Error().
			Err(err).
			Str("func", "Queue.persist").
			Str("key", item.Key).
			Msg("failed to persist queue item")
	}
}
