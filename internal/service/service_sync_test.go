// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/furkeep/pawsync/internal/adapter"
	"github.com/furkeep/pawsync/internal/logger"
	"github.com/furkeep/pawsync/internal/mock"
	"github.com/furkeep/pawsync/internal/queue"
	"github.com/furkeep/pawsync/internal/store"
	"github.com/furkeep/pawsync/models"
)

// ─────────────────────────────────────────────
// Mock: NetworkGate
// ─────────────────────────────────────────────

type fakeGate struct {
	mu     sync.Mutex
	status models.NetworkStatus
}

func (g *fakeGate) Status() models.NetworkStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

func (g *fakeGate) setCanSync(ok bool) {
	g.mu.Lock()
	g.status.CanSync = ok
	g.mu.Unlock()
}

func (g *fakeGate) Subscribe(func(models.NetworkStatus)) func() {
	return func() {}
}

// ─────────────────────────────────────────────
// Mock: ConflictRegistry
// ─────────────────────────────────────────────

type fakeRegistry struct {
	mu        sync.Mutex
	conflicts []*models.Conflict
}

func (r *fakeRegistry) Register(conflict *models.Conflict) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflicts = append(r.conflicts, conflict)
}

type syncFixture struct {
	svc      *SyncService
	queue    *queue.Queue
	remote   *mock.MockRemoteStore
	cache    *mock.MockCacheStore
	gate     *fakeGate
	registry *fakeRegistry
	bus      *Bus
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &syncFixture{
		queue:    queue.New(queue.Config{RetryCap: 3}, store.NewMemoryKeyValue(), logger.Nop()),
		remote:   mock.NewMockRemoteStore(ctrl),
		cache:    mock.NewMockCacheStore(ctrl),
		gate:     &fakeGate{status: models.NetworkStatus{IsConnected: true, CanSync: true}},
		registry: &fakeRegistry{},
		bus:      NewBus(logger.Nop()),
	}
	f.svc = NewSyncService(Config{BatchSize: 10}, f.queue, f.cache, f.remote, f.gate, f.registry, f.bus, logger.Nop())
	return f
}

func (f *syncFixture) collect(t *testing.T, topic string) *[]any {
	t.Helper()
	var events []any
	_, err := f.bus.Subscribe(topic, func(payload any) {
		events = append(events, payload)
	})
	require.NoError(t, err)
	return &events
}

// ─────────────────────────────────────────────
// Gating
// ─────────────────────────────────────────────

func TestSyncService_Sync_GateClosed(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)
	f.gate.setCanSync(false)

	require.NoError(t, f.queue.Enqueue(ctx, "pet:p1", []byte(`{}`), models.OpUpdate, 1))

	err := f.svc.Sync(ctx)
	assert.ErrorIs(t, err, ErrSyncNotAllowed)
	assert.Equal(t, 1, f.queue.Len(), "items stay queued until conditions improve")
}

func TestSyncService_Sync_EmptyQueueIsNoOp(t *testing.T) {
	f := newSyncFixture(t)
	started := f.collect(t, TopicSyncStarted)

	require.NoError(t, f.svc.Sync(context.Background()))
	assert.Empty(t, *started, "an empty pass does not announce itself")
}

// ─────────────────────────────────────────────
// Happy path
// ─────────────────────────────────────────────

func TestSyncService_Sync_SuccessfulPass(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)

	require.NoError(t, f.queue.Enqueue(ctx, "pet:new", []byte(`{"name":"Rex"}`), models.OpCreate, 0))
	require.NoError(t, f.queue.Enqueue(ctx, "pet:old", []byte(`{"name":"Mia"}`), models.OpUpdate, 4))

	f.remote.EXPECT().Create(gomock.Any(), "pet:new", []byte(`{"name":"Rex"}`)).
		Return(models.RemoteRecord{Key: "pet:new", Version: 1, ETag: "e1"}, nil)
	f.remote.EXPECT().Put(gomock.Any(), "pet:old", []byte(`{"name":"Mia"}`), int64(4)).
		Return(models.RemoteRecord{Key: "pet:old", Version: 5, ETag: "e5"}, nil)
	f.cache.EXPECT().SetETag("pet:new", "e1")
	f.cache.EXPECT().SetETag("pet:old", "e5")

	started := f.collect(t, TopicSyncStarted)
	progress := f.collect(t, TopicSyncProgress)
	completed := f.collect(t, TopicSyncCompleted)
	synced := f.collect(t, TopicUpdateSynced)

	require.NoError(t, f.svc.Sync(ctx))

	assert.Zero(t, f.queue.Len(), "synced items leave the queue")

	require.Len(t, *started, 1)
	assert.Equal(t, SyncStartedEvent{Total: 2}, (*started)[0])

	require.Len(t, *completed, 1)
	done := (*completed)[0].(SyncCompletedEvent)
	assert.Equal(t, 2, done.Synced)
	assert.Zero(t, done.Conflicts)
	assert.Empty(t, done.Failures)

	require.Len(t, *progress, 2)
	last := (*progress)[1].(models.SyncProgress)
	assert.Equal(t, 2, last.Completed)
	assert.Equal(t, float64(100), last.Percentage)
	assert.Zero(t, last.EstimatedSeconds)

	assert.Len(t, *synced, 2)
}

func TestSyncService_Sync_DrainsBeyondOneBatch(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)

	// More pending intents than the batch size: a single pass must keep
	// draining until the queue is empty.
	const total = 15
	for i := 0; i < total; i++ {
		key := fmt.Sprintf("pet:p%d", i)
		require.NoError(t, f.queue.Enqueue(ctx, key, []byte(`{"name":"x"}`), models.OpCreate, 0))
	}

	f.remote.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string, _ []byte) (models.RemoteRecord, error) {
			return models.RemoteRecord{Key: key, Version: 1, ETag: "e1"}, nil
		}).Times(total)
	f.cache.EXPECT().SetETag(gomock.Any(), "e1").Times(total)

	completed := f.collect(t, TopicSyncCompleted)

	require.NoError(t, f.svc.Sync(ctx))

	assert.Zero(t, f.queue.Len(), "one pass drains the whole queue, not just the first batch")

	require.Len(t, *completed, 1)
	done := (*completed)[0].(SyncCompletedEvent)
	assert.Equal(t, total, done.Synced)
	assert.Equal(t, total, done.Progress.Completed)
	assert.Equal(t, float64(100), done.Progress.Percentage)

	final := f.svc.Progress()
	assert.Equal(t, total, final.Completed)
	assert.Equal(t, float64(100), final.Percentage)
}

func TestSyncService_Sync_CompletedEventCarriesProgress(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)

	require.NoError(t, f.queue.Enqueue(ctx, "pet:p1", []byte(`{}`), models.OpUpdate, 1))
	f.remote.EXPECT().Put(gomock.Any(), "pet:p1", gomock.Any(), int64(1)).
		Return(models.RemoteRecord{Key: "pet:p1", Version: 2, ETag: "e2"}, nil)
	f.cache.EXPECT().SetETag("pet:p1", "e2")

	completed := f.collect(t, TopicSyncCompleted)

	require.NoError(t, f.svc.Sync(ctx))

	require.Len(t, *completed, 1)
	done := (*completed)[0].(SyncCompletedEvent)
	assert.Equal(t, 1, done.Progress.Total)
	assert.Equal(t, 1, done.Progress.Completed)
	assert.Zero(t, done.Progress.Failed)
	assert.Equal(t, float64(100), done.Progress.Percentage)
}

func TestSyncService_Sync_UpdateOverUnsyncedCreateIsCreate(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)

	// A create coalesced with a later edit: operation update, base version 0.
	require.NoError(t, f.queue.Enqueue(ctx, "pet:p1", []byte(`{"v":1}`), models.OpCreate, 0))
	require.NoError(t, f.queue.Enqueue(ctx, "pet:p1", []byte(`{"v":2}`), models.OpUpdate, 0))

	f.remote.EXPECT().Create(gomock.Any(), "pet:p1", []byte(`{"v":2}`)).
		Return(models.RemoteRecord{Key: "pet:p1", Version: 1, ETag: "e1"}, nil)
	f.cache.EXPECT().SetETag("pet:p1", "e1")

	require.NoError(t, f.svc.Sync(ctx))
	assert.Zero(t, f.queue.Len())
}

func TestSyncService_Sync_DeleteUsesTrackedServerVersion(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)

	// A prior pass confirmed version 6 for the key.
	require.NoError(t, f.queue.Enqueue(ctx, "pet:p1", []byte(`{}`), models.OpUpdate, 5))
	f.remote.EXPECT().Put(gomock.Any(), "pet:p1", gomock.Any(), int64(5)).
		Return(models.RemoteRecord{Key: "pet:p1", Version: 6, ETag: "e6"}, nil)
	f.cache.EXPECT().SetETag("pet:p1", "e6")
	require.NoError(t, f.svc.Sync(ctx))

	// The queued delete still carries the stale base, but the orchestrator
	// knows better.
	require.NoError(t, f.queue.Enqueue(ctx, "pet:p1", nil, models.OpDelete, 5))
	f.remote.EXPECT().Delete(gomock.Any(), "pet:p1", int64(6)).Return(nil)

	require.NoError(t, f.svc.Sync(ctx))
	assert.Zero(t, f.queue.Len())
}

// ─────────────────────────────────────────────
// Single pass at a time
// ─────────────────────────────────────────────

func TestSyncService_Sync_RejectsConcurrentPass(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)

	require.NoError(t, f.queue.Enqueue(ctx, "pet:p1", []byte(`{}`), models.OpUpdate, 1))

	inFlight := make(chan struct{})
	release := make(chan struct{})
	f.remote.EXPECT().Put(gomock.Any(), "pet:p1", gomock.Any(), int64(1)).
		DoAndReturn(func(context.Context, string, []byte, int64) (models.RemoteRecord, error) {
			close(inFlight)
			<-release
			return models.RemoteRecord{Key: "pet:p1", Version: 2}, nil
		})
	f.cache.EXPECT().SetETag("pet:p1", "")

	firstDone := make(chan error, 1)
	go func() { firstDone <- f.svc.Sync(ctx) }()

	<-inFlight
	assert.True(t, f.svc.Running())
	err := f.svc.Sync(ctx)
	assert.ErrorIs(t, err, ErrSyncInProgress)

	close(release)
	require.NoError(t, <-firstDone)
	assert.False(t, f.svc.Running())
}

// ─────────────────────────────────────────────
// Conflicts
// ─────────────────────────────────────────────

func TestSyncService_Sync_VersionConflictParksItem(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)

	require.NoError(t, f.queue.Enqueue(ctx, "pet:p1", []byte(`{"name":"Rex"}`), models.OpUpdate, 3))

	f.remote.EXPECT().Put(gomock.Any(), "pet:p1", gomock.Any(), int64(3)).
		Return(models.RemoteRecord{}, adapter.ErrVersionConflict)
	f.remote.EXPECT().Fetch(gomock.Any(), "pet:p1").
		Return(models.RemoteRecord{Key: "pet:p1", Data: []byte(`{"name":"Rexy"}`), Version: 5, ETag: "e5"}, nil)

	detected := f.collect(t, TopicConflictDetected)
	completed := f.collect(t, TopicSyncCompleted)

	require.NoError(t, f.svc.Sync(ctx))

	require.Len(t, f.registry.conflicts, 1)
	c := f.registry.conflicts[0]
	assert.Equal(t, models.UpdateConflict, c.Type)
	assert.Equal(t, int64(3), c.BaseVersion)
	assert.Equal(t, int64(5), c.ServerVersion)

	item, ok := f.queue.Get("pet:p1")
	require.True(t, ok)
	assert.True(t, item.Conflicted, "conflicted items are parked, not dropped")

	assert.Len(t, *detected, 1)
	done := (*completed)[0].(SyncCompletedEvent)
	assert.Equal(t, 1, done.Conflicts)
}

func TestSyncService_Sync_BothSidesDeletedConverges(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)

	require.NoError(t, f.queue.Enqueue(ctx, "pet:p1", nil, models.OpDelete, 2))

	f.remote.EXPECT().Delete(gomock.Any(), "pet:p1", int64(2)).
		Return(adapter.ErrVersionConflict)
	f.remote.EXPECT().Fetch(gomock.Any(), "pet:p1").
		Return(models.RemoteRecord{}, adapter.ErrNotFound)

	require.NoError(t, f.svc.Sync(ctx))

	assert.Empty(t, f.registry.conflicts, "matching deletions are not a conflict")
	assert.Zero(t, f.queue.Len(), "the intent is retired as synced")
}

// ─────────────────────────────────────────────
// Connectivity loss
// ─────────────────────────────────────────────

func TestSyncService_Sync_AbandonsPassOnConnectivityLoss(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)

	require.NoError(t, f.queue.Enqueue(ctx, "pet:a", []byte(`{}`), models.OpUpdate, 1))
	require.NoError(t, f.queue.Enqueue(ctx, "pet:b", []byte(`{}`), models.OpUpdate, 1))

	// Only the first item is ever attempted: the pass dies with it.
	f.remote.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), int64(1)).
		DoAndReturn(func(context.Context, string, []byte, int64) (models.RemoteRecord, error) {
			f.gate.setCanSync(false)
			return models.RemoteRecord{}, adapter.ErrUnavailable
		})

	failed := f.collect(t, TopicSyncFailed)
	completed := f.collect(t, TopicSyncCompleted)

	err := f.svc.Sync(ctx)
	require.Error(t, err)

	assert.Equal(t, 2, f.queue.Len(), "nothing is dropped when the network dies mid-pass")
	require.Len(t, *failed, 1)
	assert.Equal(t, 2, (*failed)[0].(SyncFailedEvent).Remaining)
	assert.Empty(t, *completed)
}

// ─────────────────────────────────────────────
// Progress
// ─────────────────────────────────────────────

func TestSyncService_Progress_TracksPass(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)

	require.NoError(t, f.queue.Enqueue(ctx, "pet:a", []byte(`{}`), models.OpUpdate, 1))
	require.NoError(t, f.queue.Enqueue(ctx, "pet:b", []byte(`{}`), models.OpUpdate, 1))

	f.remote.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), int64(1)).
		Return(models.RemoteRecord{Version: 2}, nil).Times(2)
	f.cache.EXPECT().SetETag(gomock.Any(), "").Times(2)

	var mid models.SyncProgress
	_, err := f.bus.Subscribe(TopicSyncProgress, func(p models.SyncProgress) {
		if p.Completed == 1 {
			mid = p
		}
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Sync(ctx))

	assert.Equal(t, 2, mid.Total)
	assert.Equal(t, float64(50), mid.Percentage)
	assert.GreaterOrEqual(t, mid.EstimatedSeconds, float64(0))

	final := f.svc.Progress()
	assert.Equal(t, 2, final.Completed)
	assert.Zero(t, final.Failed)
	assert.Equal(t, float64(100), final.Percentage)
}
