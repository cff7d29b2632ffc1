// SPDX-License-Identifier: Apache-2.0

// Package cache implements the bounded, prioritized, TTL-based cache store
// that backs offline reads and optimistic writes.
//
// Entries live in memory (the source of truth within a session) and are
// mirrored best-effort to a durable [store.KeyValue]. When the byte budget is
// exceeded the store evicts the entry with the lowest (priority, recency)
// rank until it fits again, so low-priority stale data is sacrificed before
// high-priority or fresh data.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/furkeep/pawsync/internal/logger"
	"github.com/furkeep/pawsync/internal/store"
	"github.com/furkeep/pawsync/models"
)

// kvBucket namespaces cache entries inside the shared durable store.
const kvBucket = "cache"

// Enqueuer records a durable sync intent for a mutated record. It is
// satisfied by the sync queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, key string, payload []byte, op models.Operation, baseVersion int64) error
}

// Options control a single Set call.
type Options struct {
	// TTL overrides the store's default entry age when positive.
	TTL time.Duration
	// Priority ranks the entry for eviction. Zero value is PriorityLow.
	Priority models.Priority
	// SkipSync suppresses the sync intent normally enqueued by a mutation,
	// e.g. when caching data that just came from the server.
	SkipSync bool
}

// Config holds Store settings.
type Config struct {
	MaxSizeBytes int64
	DefaultTTL   time.Duration
}

// Store is the bounded cache. All methods are safe for concurrent use; the
// single mutex also keeps the one-queue-item-per-key and exact-size-
// accounting invariants intact for multi-goroutine callers.
type Store struct {
	maxSize    int64
	defaultTTL time.Duration
	kv         store.KeyValue
	intents    Enqueuer
	logger     *logger.Logger

	mu          sync.Mutex
	entries     map[string]*models.CacheEntry
	currentSize int64
	versions    map[string]int64

	// bg bounds the lifetime of background revalidations; Close cancels it
	// and waits for in-flight refreshes to finish.
	bg            context.Context
	stop          context.CancelFunc
	closing       sync.Once
	revalidations sync.WaitGroup

	now func() time.Time
}

// NewStore constructs a cache store mirroring entries to kv. intents may be
// nil, in which case mutations never enqueue sync intents.
func NewStore(cfg Config, kv store.KeyValue, intents Enqueuer, log *logger.Logger) *Store {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = 24 * time.Hour
	}

	bg, stop := context.WithCancel(context.Background())
	return &Store{
		maxSize:    cfg.MaxSizeBytes,
		defaultTTL: cfg.DefaultTTL,
		kv:         kv,
		intents:    intents,
		logger:     log,
		entries:    make(map[string]*models.CacheEntry),
		versions:   make(map[string]int64),
		bg:         bg,
		stop:       stop,
		now:        time.Now,
	}
}

// Close cancels background revalidations and waits for in-flight ones to
// finish. The store serves reads and writes as usual afterwards; only the
// background refresh machinery shuts down.
func (s *Store) Close() {
	s.closing.Do(s.stop)
	s.revalidations.Wait()
}

// Set serializes value and stores it under key, evicting lower-ranked
// entries first if the budget requires it. Unless opts.SkipSync is set, a
// create or update intent is enqueued for the key.
//
// A serialization failure aborts the call without mutating any state. A
// payload larger than the whole budget fails with [ErrEntryTooLarge].
func (s *Store) Set(ctx context.Context, key string, value any, opts Options) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("serialize cache entry %q: %w", key, err)
	}
	return s.SetRaw(ctx, key, data, opts)
}

// SetRaw stores pre-serialized bytes under key. It is used by Set and by the
// conflict resolver, which must store the server payload byte-identically.
func (s *Store) SetRaw(ctx context.Context, key string, data []byte, opts Options) error {
	size := int64(len(data))
	if size > s.maxSize {
		return fmt.Errorf("set %q (%s): %w", key, humanize.Bytes(uint64(size)), ErrEntryTooLarge)
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	s.mu.Lock()

	var etag string
	if prev, ok := s.entries[key]; ok {
		// Replacing: reclaim the old bytes before making room.
		etag = prev.ETag
		s.removeLocked(prev)
	}
	s.ensureSpaceLocked(size)

	now := s.now()
	prevVersion := s.versions[key]
	version := prevVersion + 1
	s.versions[key] = version

	entry := &models.CacheEntry{
		Key:        key,
		Data:       data,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
		Version:    version,
		ETag:       etag,
		SizeBytes:  size,
		Priority:   opts.Priority,
		AccessedAt: now,
	}
	s.entries[key] = entry
	s.currentSize += size

	s.mu.Unlock()

	s.persist(ctx, entry)

	if s.intents != nil && !opts.SkipSync {
		op := models.OpUpdate
		if prevVersion == 0 {
			op = models.OpCreate
		}
		if err := s.intents.Enqueue(ctx, key, data, op, prevVersion); err != nil {
			return fmt.Errorf("enqueue sync intent for %q: %w", key, err)
		}
	}

	return nil
}

// Get returns the cached payload for key, falling back to durable storage
// when the entry is absent from memory (and rehydrating memory on a hit).
// An expired entry is evicted lazily and reported as [ErrEntryNotFound].
// A successful read promotes the entry's recency.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()

	entry, ok := s.entries[key]
	if ok {
		if entry.Expired(s.now()) {
			s.removeLocked(entry)
			s.mu.Unlock()
			s.unpersist(ctx, key)
			return nil, fmt.Errorf("get %q: %w", key, ErrEntryNotFound)
		}
		entry.AccessedAt = s.now()
		data := append([]byte(nil), entry.Data...)
		s.mu.Unlock()
		return data, nil
	}
	s.mu.Unlock()

	return s.rehydrateOne(ctx, key)
}

// Delete removes key from memory and durable storage and enqueues a delete
// intent for the remote record.
func (s *Store) Delete(ctx context.Context, key string) error {
	baseVersion := s.discard(ctx, key)

	if s.intents != nil {
		if err := s.intents.Enqueue(ctx, key, nil, models.OpDelete, baseVersion); err != nil {
			return fmt.Errorf("enqueue delete intent for %q: %w", key, err)
		}
	}

	return nil
}

// Discard removes key locally without queueing any sync intent. Used when
// the server is the source of the removal.
func (s *Store) Discard(ctx context.Context, key string) {
	s.discard(ctx, key)
}

func (s *Store) discard(ctx context.Context, key string) int64 {
	s.mu.Lock()
	baseVersion := s.versions[key]
	if entry, ok := s.entries[key]; ok {
		s.removeLocked(entry)
	}
	s.mu.Unlock()

	s.unpersist(ctx, key)
	return baseVersion
}

// Fetcher loads a payload from its origin when the cache cannot serve it.
type Fetcher func(ctx context.Context) ([]byte, error)

// GetOrFetch returns cached data immediately when staleWhileRevalidate is
// set and any cached value exists; an expired value additionally kicks off a
// background refresh, while a fresh one is served as-is. Otherwise it awaits
// fetcher, caches the result without queueing a sync intent, and on fetcher
// failure falls back to stale cached data if present, else propagates the
// error.
func (s *Store) GetOrFetch(ctx context.Context, key string, fetcher Fetcher, staleWhileRevalidate bool, opts Options) ([]byte, error) {
	if staleWhileRevalidate {
		if data, fresh, ok := s.peek(ctx, key); ok {
			if !fresh {
				s.revalidations.Add(1)
				go s.revalidate(key, fetcher, opts)
			}
			return data, nil
		}
	}

	data, err := fetcher(ctx)
	if err != nil {
		if stale, _, ok := s.peek(ctx, key); ok {
			s.logger.Warn().
				Err(err).
				Str("func", "Store.GetOrFetch").
				Str("key", key).
				Msg("fetcher failed, serving stale cache entry")
			return stale, nil
		}
		return nil, fmt.Errorf("fetch %q: %w", key, err)
	}

	opts.SkipSync = true
	if err = s.SetRaw(ctx, key, data, opts); err != nil {
		return nil, err
	}
	return data, nil
}

// revalidate refreshes key in the background after stale data was served.
func (s *Store) revalidate(key string, fetcher Fetcher, opts Options) {
	defer s.revalidations.Done()

	ctx := s.bg
	if ctx.Err() != nil {
		return
	}
	data, err := fetcher(ctx)
	if err != nil {
		s.logger.Debug().
			Err(err).
			Str("func", "Store.revalidate").
			Str("key", key).
			Msg("background revalidation failed")
		return
	}

	opts.SkipSync = true
	if err = s.SetRaw(ctx, key, data, opts); err != nil {
		s.logger.Debug().
			Err(err).
			Str("func", "Store.revalidate").
			Str("key", key).
			Msg("background revalidation store failed")
	}
}

// peek returns the cached payload even past TTL expiry, without promoting
// recency, along with whether the entry is still fresh. It consults memory
// first, then durable storage.
func (s *Store) peek(ctx context.Context, key string) (data []byte, fresh, ok bool) {
	s.mu.Lock()
	if entry, found := s.entries[key]; found {
		data = append([]byte(nil), entry.Data...)
		fresh = !entry.Expired(s.now())
		s.mu.Unlock()
		return data, fresh, true
	}
	s.mu.Unlock()

	entry, err := s.loadDurable(ctx, key)
	if err != nil {
		return nil, false, false
	}
	return entry.Data, !entry.Expired(s.now()), true
}

// SetETag records the remote concurrency token for a cached entry after a
// server-confirmed write.
func (s *Store) SetETag(key, etag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[key]; ok {
		entry.ETag = etag
	}
}

// Version returns the current monotonic version for key (0 if never set in
// this session).
func (s *Store) Version(key string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versions[key]
}

// Size returns the store's running byte total. It always equals the sum of
// live entries' sizes.
func (s *Store) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentSize
}

// Len returns the number of entries resident in memory.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Keys returns the keys of memory-resident entries.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	return keys
}

// Rehydrate loads all durably-mirrored entries back into memory, skipping
// expired ones. Called once at startup, before the first reads.
func (s *Store) Rehydrate(ctx context.Context) error {
	keys, err := s.kv.Keys(ctx, kvBucket)
	if err != nil {
		return fmt.Errorf("list durable cache keys: %w", err)
	}

	for _, key := range keys {
		if _, err := s.rehydrateOne(ctx, key); err != nil {
			continue
		}
	}

	s.logger.Debug().
		Str("func", "Store.Rehydrate").
		Int("entries", s.Len()).
		Str("size", humanize.Bytes(uint64(s.Size()))).
		Msg("cache rehydrated from durable storage")
	return nil
}

// ensureSpaceLocked evicts entries until need more bytes fit in the budget.
// The victim is always the entry with the lowest (priority rank, recency)
// lexicographic key. Caller holds s.mu.
func (s *Store) ensureSpaceLocked(need int64) {
	for s.currentSize+need > s.maxSize && len(s.entries) > 0 {
		victim := s.victimLocked()
		if victim == nil {
			return
		}
		s.removeLocked(victim)
		// Durable copy goes too; detached so a cancelled caller context
		// cannot leave a ghost entry on disk.
		go s.unpersist(context.Background(), victim.Key)

		s.logger.Debug().
			Str("func", "Store.ensureSpace").
			Str("key", victim.Key).
			Str("priority", victim.Priority.String()).
			Str("freed", humanize.Bytes(uint64(victim.SizeBytes))).
			Msg("evicted cache entry")
	}
}

func (s *Store) victimLocked() *models.CacheEntry {
	var victim *models.CacheEntry
	for _, entry := range s.entries {
		if victim == nil {
			victim = entry
			continue
		}
		if entry.Priority.Rank() < victim.Priority.Rank() ||
			(entry.Priority.Rank() == victim.Priority.Rank() && entry.AccessedAt.Before(victim.AccessedAt)) {
			victim = entry
		}
	}
	return victim
}

func (s *Store) removeLocked(entry *models.CacheEntry) {
	delete(s.entries, entry.Key)
	s.currentSize -= entry.SizeBytes
}

// persist mirrors an entry to durable storage. Persistence is best-effort:
// a failure is logged and does not roll back the memory-resident entry.
func (s *Store) persist(ctx context.Context, entry *models.CacheEntry) {
	blob, err := json.Marshal(entry)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("func", "Store.persist").
			Str("key", entry.Key).
			Msg("failed to encode cache entry for durable storage")
		return
	}

	if err = s.kv.Set(ctx, kvBucket, entry.Key, blob); err != nil {
		s.logger.Error().
			Err(err).
			Str("func", "Store.persist").
			Str("key", entry.Key).
			Msg("failed to persist cache entry")
	}
}

func (s *Store) unpersist(ctx context.Context, key string) {
	if err := s.kv.Delete(ctx, kvBucket, key); err != nil {
		s.logger.Error().
			Err(err).
			Str("func", "Store.unpersist").
			Str("key", key).
			Msg("failed to delete cache entry from durable storage")
	}
}

func (s *Store) loadDurable(ctx context.Context, key string) (*models.CacheEntry, error) {
	blob, err := s.kv.Get(ctx, kvBucket, key)
	if err != nil {
		return nil, err
	}

	var entry models.CacheEntry
	if err = json.Unmarshal(blob, &entry); err != nil {
		return nil, fmt.Errorf("decode durable cache entry %q: %w", key, err)
	}
	return &entry, nil
}

// rehydrateOne loads key from durable storage into memory and returns its
// payload, honouring TTL expiry.
func (s *Store) rehydrateOne(ctx context.Context, key string) ([]byte, error) {
	entry, err := s.loadDurable(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, ErrEntryNotFound)
	}

	if entry.Expired(s.now()) {
		s.unpersist(ctx, key)
		return nil, fmt.Errorf("get %q: %w", key, ErrEntryNotFound)
	}

	if entry.SizeBytes > s.maxSize {
		// The budget shrank since the entry was mirrored; loading it would
		// leave the store permanently over budget.
		s.logger.Warn().
			Str("func", "Store.rehydrateOne").
			Str("key", key).
			Str("size", humanize.Bytes(uint64(entry.SizeBytes))).
			Msg("durable cache entry exceeds the byte budget, not loading")
		return nil, fmt.Errorf("get %q (%s): %w", key, humanize.Bytes(uint64(entry.SizeBytes)), ErrEntryTooLarge)
	}

	s.mu.Lock()
	s.ensureSpaceLocked(entry.SizeBytes)
	entry.AccessedAt = s.now()
	s.entries[key] = entry
	s.currentSize += entry.SizeBytes
	if entry.Version > s.versions[key] {
		s.versions[key] = entry.Version
	}
	data := append([]byte(nil), entry.Data...)
	s.mu.Unlock()

	return data, nil
}
