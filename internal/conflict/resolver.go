package conflict

import (
	"context"
	"fmt"
	"sync"

	"github.com/furkeep/pawsync/internal/cache"
	"github.com/furkeep/pawsync/internal/logger"
	"github.com/furkeep/pawsync/models"
)

// Resolver holds detected conflicts until each receives exactly one terminal
// resolution, and applies resolution outcomes to the cache, the queue and
// the remote store.
type Resolver struct {
	cache  CacheStore
	queue  IntentQueue
	remote Remote
	merge  MergeFunc
	logger *logger.Logger

	mu       sync.Mutex
	pending  map[string]*models.Conflict
	resolved map[string]models.ResolutionStrategy
}

// NewResolver constructs a Resolver using [DefaultMerge] for the MERGE
// strategy.
func NewResolver(cacheStore CacheStore, intentQueue IntentQueue, remote Remote, log *logger.Logger) *Resolver {
	return &Resolver{
		cache:    cacheStore,
		queue:    intentQueue,
		remote:   remote,
		merge:    DefaultMerge,
		logger:   log,
		pending:  make(map[string]*models.Conflict),
		resolved: make(map[string]models.ResolutionStrategy),
	}
}

// SetMergeFunc replaces the automatic merge policy with caller-supplied
// logic. The default per-field heuristic is only that — a heuristic — so
// record schemas with richer semantics should install their own.
func (r *Resolver) SetMergeFunc(fn MergeFunc) {
	if fn != nil {
		r.merge = fn
	}
}

// Register parks a detected conflict until it is resolved. The record's
// queue item stays parked too, excluded from automatic drains.
func (r *Resolver) Register(conflict *models.Conflict) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[conflict.ID] = conflict

	r.logger.Info().
		Str("func", "Resolver.Register").
		Str("conflict_id", conflict.ID).
		Str("key", conflict.RecordKey).
		Str("type", string(conflict.Type)).
		Msg("conflict registered, awaiting resolution")
}

// Pending returns a snapshot of unresolved conflicts.
func (r *Resolver) Pending() []models.Conflict {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Conflict, 0, len(r.pending))
	for _, c := range r.pending {
		out = append(out, *c)
	}
	return out
}

// Resolve applies exactly one resolution strategy to the conflict with the
// given ID. Resolution is terminal: a second call for the same conflict
// returns [ErrAlreadyResolved] and changes nothing.
func (r *Resolver) Resolve(ctx context.Context, conflictID string, strategy models.ResolutionStrategy) error {
	r.mu.Lock()
	if _, done := r.resolved[conflictID]; done {
		r.mu.Unlock()
		return fmt.Errorf("resolve %s: %w", conflictID, ErrAlreadyResolved)
	}
	conflict, ok := r.pending[conflictID]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("resolve %s: %w", conflictID, ErrConflictNotFound)
	}
	r.mu.Unlock()

	var err error
	switch strategy {
	case models.LocalWins:
		err = r.applyLocalWins(ctx, conflict)
	case models.ServerWins:
		err = r.applyServerWins(ctx, conflict)
	case models.Merge:
		err = r.applyMerge(ctx, conflict)
	default:
		return fmt.Errorf("resolve %s: %q: %w", conflictID, strategy, ErrUnknownStrategy)
	}
	if err != nil {
		// The conflict stays pending: the resolution did not complete, so it
		// may be retried with the same or another strategy.
		return fmt.Errorf("resolve %s with %s: %w", conflictID, strategy, err)
	}

	r.mu.Lock()
	delete(r.pending, conflictID)
	r.resolved[conflictID] = strategy
	r.mu.Unlock()

	r.queue.Remove(ctx, conflict.RecordKey)

	r.logger.Info().
		Str("func", "Resolver.Resolve").
		Str("conflict_id", conflictID).
		Str("key", conflict.RecordKey).
		Str("strategy", string(strategy)).
		Msg("conflict resolved")
	return nil
}

// applyLocalWins pushes the local payload to the remote unconditionally and
// discards the remote data.
func (r *Resolver) applyLocalWins(ctx context.Context, conflict *models.Conflict) error {
	item, hasItem := r.queue.Get(conflict.RecordKey)
	if hasItem && item.Operation == models.OpDelete {
		if err := r.remote.Delete(ctx, conflict.RecordKey, conflict.ServerVersion); err != nil {
			return fmt.Errorf("push local delete: %w", err)
		}
		r.cache.Discard(ctx, conflict.RecordKey)
		return nil
	}

	record, err := r.remote.ForcePut(ctx, conflict.RecordKey, conflict.LocalData)
	if err != nil {
		return fmt.Errorf("push local payload: %w", err)
	}

	if err = r.cache.SetRaw(ctx, conflict.RecordKey, conflict.LocalData, cache.Options{SkipSync: true}); err != nil {
		return fmt.Errorf("store local payload: %w", err)
	}
	r.cache.SetETag(conflict.RecordKey, record.ETag)
	return nil
}

// applyServerWins discards the local intent and overwrites the cache entry
// byte-identically with the server payload. Nothing is pushed.
func (r *Resolver) applyServerWins(ctx context.Context, conflict *models.Conflict) error {
	if len(conflict.ServerData) == 0 {
		// Remote deleted the record; honour that locally.
		r.cache.Discard(ctx, conflict.RecordKey)
		return nil
	}

	if err := r.cache.SetRaw(ctx, conflict.RecordKey, conflict.ServerData, cache.Options{SkipSync: true}); err != nil {
		return fmt.Errorf("store server payload: %w", err)
	}
	return nil
}

// applyMerge reconciles both payloads, pushes the result to the remote and
// stores it locally.
func (r *Resolver) applyMerge(ctx context.Context, conflict *models.Conflict) error {
	merged, err := r.merge(*conflict)
	if err != nil {
		return fmt.Errorf("merge payloads: %w", err)
	}

	if len(merged) == 0 {
		// Both sides converged on deletion.
		if err = r.remote.Delete(ctx, conflict.RecordKey, conflict.ServerVersion); err != nil {
			return fmt.Errorf("push merged delete: %w", err)
		}
		r.cache.Discard(ctx, conflict.RecordKey)
		return nil
	}

	record, err := r.remote.ForcePut(ctx, conflict.RecordKey, merged)
	if err != nil {
		return fmt.Errorf("push merged payload: %w", err)
	}

	if err = r.cache.SetRaw(ctx, conflict.RecordKey, merged, cache.Options{SkipSync: true}); err != nil {
		return fmt.Errorf("store merged payload: %w", err)
	}
	r.cache.SetETag(conflict.RecordKey, record.ETag)
	return nil
}
