// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/furkeep/pawsync/internal/adapter"
	"github.com/furkeep/pawsync/internal/conflict"
	"github.com/furkeep/pawsync/internal/logger"
	"github.com/furkeep/pawsync/internal/queue"
	"github.com/furkeep/pawsync/models"
)

// Config holds SyncService settings.
type Config struct {
	// BatchSize caps how many queue items one sync pass attempts.
	BatchSize int
}

// SyncService drains the durable queue against the remote store. At most one
// pass runs at a time; conflicting items are parked with the conflict
// registry and everything else follows the queue's retry policy.
type SyncService struct {
	queue    IntentQueue
	cache    CacheStore
	remote   adapter.RemoteStore
	network  NetworkGate
	registry ConflictRegistry
	bus      *Bus
	logger   *logger.Logger

	batchSize int
	running   atomic.Bool

	mu sync.RWMutex
	// serverVersion tracks the last version the server confirmed for each
	// key. It is authoritative over the queue item's base version, which can
	// be stale after coalescing.
	serverVersion map[string]int64
	progress      models.SyncProgress
	// outcome records the latest per-key result within the current pass, so
	// an item retried across batches is counted once in the progress totals.
	outcome map[string]bool

	now func() time.Time
}

func NewSyncService(cfg Config, intentQueue IntentQueue, cacheStore CacheStore, remote adapter.RemoteStore, network NetworkGate, registry ConflictRegistry, bus *Bus, log *logger.Logger) *SyncService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}

	return &SyncService{
		queue:         intentQueue,
		cache:         cacheStore,
		remote:        remote,
		network:       network,
		registry:      registry,
		bus:           bus,
		logger:        log,
		batchSize:     cfg.BatchSize,
		serverVersion: make(map[string]int64),
		now:           time.Now,
	}
}

// Sync runs one sync pass: gate check, then batched queue drains until the
// queue is empty or a drain stops making forward progress (only retried items
// remain). Returns [ErrSyncInProgress] if a pass is already running and
// [ErrSyncNotAllowed] when the network gate is closed; both leave the queue
// untouched.
func (s *SyncService) Sync(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer s.running.Store(false)

	if !s.network.Status().CanSync {
		return ErrSyncNotAllowed
	}

	total := s.queue.PendingLen()
	if total == 0 {
		return nil
	}

	s.mu.Lock()
	s.progress = models.SyncProgress{Total: total}
	s.outcome = make(map[string]bool, total)
	s.mu.Unlock()

	s.bus.Publish(TopicSyncStarted, SyncStartedEvent{Total: total})
	s.logger.Info().
		Str("func", "SyncService.Sync").
		Int("pending", total).
		Msg("sync pass started")

	passCtx, abort := context.WithCancelCause(ctx)
	defer abort(nil)

	started := s.now()
	var summary queue.DrainSummary
	for {
		before := s.queue.PendingLen()
		batch, err := s.queue.Drain(passCtx, s.batchSize, func(itemCtx context.Context, item models.SyncQueueItem) error {
			return s.syncItem(itemCtx, abort, started, item)
		})
		summary.Attempted += batch.Attempted
		summary.Synced += batch.Synced
		summary.Conflicts += batch.Conflicts
		summary.Retried += batch.Retried
		summary.Failures = append(summary.Failures, batch.Failures...)
		if err != nil {
			cause := context.Cause(passCtx)
			remaining := s.queue.PendingLen()
			s.bus.Publish(TopicSyncFailed, SyncFailedEvent{Reason: cause.Error(), Remaining: remaining})
			s.logger.Warn().
				Err(cause).
				Str("func", "SyncService.Sync").
				Int("remaining", remaining).
				Msg("sync pass abandoned, items remain queued")
			return fmt.Errorf("sync pass abandoned: %w", cause)
		}

		remaining := s.queue.PendingLen()
		if remaining == 0 || remaining >= before {
			break
		}
	}

	s.bus.Publish(TopicSyncCompleted, SyncCompletedEvent{
		Synced:    summary.Synced,
		Conflicts: summary.Conflicts,
		Retried:   summary.Retried,
		Failures:  summary.Failures,
		Progress:  s.Progress(),
	})
	s.logger.Info().
		Str("func", "SyncService.Sync").
		Int("synced", summary.Synced).
		Int("conflicts", summary.Conflicts).
		Int("retried", summary.Retried).
		Int("failed", len(summary.Failures)).
		Msg("sync pass completed")
	return nil
}

// Running reports whether a sync pass is currently executing.
func (s *SyncService) Running() bool {
	return s.running.Load()
}

// Progress returns a snapshot of the current pass's progress. Between passes
// it holds the final state of the last pass.
func (s *SyncService) Progress() models.SyncProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress
}

func (s *SyncService) syncItem(ctx context.Context, abort context.CancelCauseFunc, started time.Time, item models.SyncQueueItem) error {
	s.beginItem(item.Key)

	err := s.pushItem(ctx, item)
	switch {
	case err == nil:
		s.finishItem(item.Key, started, true)
		s.bus.Publish(TopicUpdateSynced, UpdateEvent{Key: item.Key, Operation: item.Operation})

	case errors.Is(err, adapter.ErrUnavailable) && !s.network.Status().CanSync:
		// The remote went dark and the gate agrees: abandon the pass so the
		// remaining items are not burned through while offline.
		s.finishItem(item.Key, started, false)
		abort(fmt.Errorf("connectivity lost: %w", err))

	default:
		s.finishItem(item.Key, started, false)
	}
	return err
}

// pushItem performs the remote write for one queue item. It returns
// [queue.ErrConflict] (wrapped) when the item's base version diverged from
// the server, after registering the conflict for manual resolution.
func (s *SyncService) pushItem(ctx context.Context, item models.SyncQueueItem) error {
	base := s.baseVersion(item)

	var (
		record models.RemoteRecord
		err    error
	)
	switch {
	case item.Operation == models.OpDelete:
		if err = s.remote.Delete(ctx, item.Key, base); err == nil {
			s.forgetVersion(item.Key)
			return nil
		}

	case item.Operation == models.OpCreate || base == 0:
		// Either a plain create, or an update coalesced on top of a create
		// the server never saw. Both are creates from the server's view.
		record, err = s.remote.Create(ctx, item.Key, item.Payload)

	default:
		record, err = s.remote.Put(ctx, item.Key, item.Payload, base)
	}

	if err == nil {
		s.rememberVersion(item.Key, record.Version)
		s.cache.SetETag(item.Key, record.ETag)
		return nil
	}

	if errors.Is(err, adapter.ErrVersionConflict) || errors.Is(err, adapter.ErrNotFound) || errors.Is(err, adapter.ErrKeyExists) {
		return s.detectConflict(ctx, item, base, err)
	}
	return err
}

// detectConflict fetches the server's current state after a rejected write
// and classifies the divergence.
func (s *SyncService) detectConflict(ctx context.Context, item models.SyncQueueItem, base int64, cause error) error {
	var remoteState *models.RemoteRecord
	record, err := s.remote.Fetch(ctx, item.Key)
	switch {
	case err == nil:
		remoteState = &record
		s.rememberVersion(item.Key, record.Version)
	case errors.Is(err, adapter.ErrNotFound):
		remoteState = nil
	default:
		return fmt.Errorf("fetch remote state for %s: %w", item.Key, err)
	}

	detectItem := item
	detectItem.BaseVersion = base
	detected := conflict.Detect(detectItem, remoteState, s.now())
	if detected == nil {
		if remoteState == nil && item.Operation == models.OpDelete {
			// Both sides deleted the record. Converged, intent retired.
			return nil
		}
		// The rejection was transient; let the queue retry.
		return cause
	}

	s.registry.Register(detected)
	s.bus.Publish(TopicConflictDetected, detected)
	s.logger.Info().
		Str("func", "SyncService.detectConflict").
		Str("key", item.Key).
		Str("type", string(detected.Type)).
		Int64("base_version", base).
		Int64("server_version", detected.ServerVersion).
		Msg("conflict detected, item parked until resolved")

	return fmt.Errorf("%s diverged from server: %w", item.Key, queue.ErrConflict)
}

func (s *SyncService) beginItem(key string) {
	s.mu.Lock()
	s.progress.CurrentItem = key
	s.mu.Unlock()
}

func (s *SyncService) finishItem(key string, started time.Time, ok bool) {
	s.mu.Lock()
	// A re-attempt of the same key replaces its earlier outcome.
	if prev, seen := s.outcome[key]; seen {
		if prev {
			s.progress.Completed--
		} else {
			s.progress.Failed--
		}
	}
	s.outcome[key] = ok
	if ok {
		s.progress.Completed++
	} else {
		s.progress.Failed++
	}
	done := s.progress.Completed + s.progress.Failed
	if done > s.progress.Total {
		// Intents enqueued mid-pass grow the pass.
		s.progress.Total = done
	}
	s.progress.Percentage = float64(done) / float64(s.progress.Total) * 100

	// ETA is the average time per finished item extrapolated over the rest.
	remaining := s.progress.Total - done
	if done > 0 && remaining > 0 {
		avg := s.now().Sub(started).Seconds() / float64(done)
		s.progress.EstimatedSeconds = avg * float64(remaining)
	} else {
		s.progress.EstimatedSeconds = 0
	}
	snapshot := s.progress
	s.mu.Unlock()

	s.bus.Publish(TopicSyncProgress, snapshot)
}

func (s *SyncService) baseVersion(item models.SyncQueueItem) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.serverVersion[item.Key]; ok {
		return v
	}
	return item.BaseVersion
}

func (s *SyncService) rememberVersion(key string, version int64) {
	s.mu.Lock()
	s.serverVersion[key] = version
	s.mu.Unlock()
}

func (s *SyncService) forgetVersion(key string) {
	s.mu.Lock()
	delete(s.serverVersion, key)
	s.mu.Unlock()
}
