// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/furkeep/pawsync/internal/adapter"
	"github.com/furkeep/pawsync/internal/cache"
	"github.com/furkeep/pawsync/internal/logger"
	"github.com/furkeep/pawsync/internal/mock"
	"github.com/furkeep/pawsync/internal/queue"
	"github.com/furkeep/pawsync/internal/store"
	"github.com/furkeep/pawsync/models"
)

type countingTrigger struct {
	calls atomic.Int32
}

func (c *countingTrigger) Trigger() { c.calls.Add(1) }

type dataFixture struct {
	data    *DataService
	cache   *cache.Store
	queue   *queue.Queue
	remote  *mock.MockRemoteStore
	trigger *countingTrigger
	bus     *Bus
}

func newDataFixture(t *testing.T) *dataFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	kv := store.NewMemoryKeyValue()
	intentQueue := queue.New(queue.Config{RetryCap: 3}, kv, logger.Nop())
	cacheStore := cache.NewStore(cache.Config{MaxSizeBytes: 1 << 20, DefaultTTL: time.Hour}, kv, intentQueue, logger.Nop())
	// Wait out background revalidations before gomock verifies expectations.
	t.Cleanup(cacheStore.Close)

	f := &dataFixture{
		cache:   cacheStore,
		queue:   intentQueue,
		remote:  mock.NewMockRemoteStore(ctrl),
		trigger: &countingTrigger{},
		bus:     NewBus(logger.Nop()),
	}
	f.data = NewDataService(cacheStore, f.remote, f.trigger, f.bus, logger.Nop())
	return f
}

func TestDataService_SavePet_OptimisticUpdate(t *testing.T) {
	ctx := context.Background()
	f := newDataFixture(t)

	var applied []UpdateEvent
	_, err := f.bus.Subscribe(TopicUpdateApplied, func(e UpdateEvent) {
		applied = append(applied, e)
	})
	require.NoError(t, err)

	require.NoError(t, f.data.SavePet(ctx, models.Pet{ID: "p1", Name: "Rex", Species: "dog"}))

	// The write is readable immediately, before any sync happens.
	pet, err := f.data.GetPet(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Rex", pet.Name)
	assert.False(t, pet.UpdatedAt.IsZero())

	item, ok := f.queue.Get(models.PetKey("p1"))
	require.True(t, ok)
	assert.Equal(t, models.OpCreate, item.Operation)

	assert.Equal(t, int32(1), f.trigger.calls.Load())
	require.Len(t, applied, 1)
	assert.Equal(t, models.PetKey("p1"), applied[0].Key)
	assert.Equal(t, models.OpCreate, applied[0].Operation)
}

func TestDataService_SavePet_SecondSaveIsUpdate(t *testing.T) {
	ctx := context.Background()
	f := newDataFixture(t)

	require.NoError(t, f.data.SavePet(ctx, models.Pet{ID: "p1", Name: "Rex"}))
	require.NoError(t, f.data.SavePet(ctx, models.Pet{ID: "p1", Name: "Rexy"}))

	item, ok := f.queue.Get(models.PetKey("p1"))
	require.True(t, ok)
	assert.Equal(t, models.OpUpdate, item.Operation, "the coalesced intent reflects the latest operation")
	assert.Equal(t, 1, f.queue.Len())
}

func TestDataService_GetPet_FetchesRemoteOnMiss(t *testing.T) {
	ctx := context.Background()
	f := newDataFixture(t)

	f.remote.EXPECT().Fetch(gomock.Any(), models.PetKey("p1")).
		Return(models.RemoteRecord{
			Key:     models.PetKey("p1"),
			Data:    []byte(`{"id":"p1","name":"Rex","species":"dog"}`),
			Version: 3,
			ETag:    "e3",
		}, nil)

	pet, err := f.data.GetPet(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Rex", pet.Name)

	assert.Zero(t, f.queue.Len(), "server-sourced data must not be queued for sync")
	assert.Zero(t, f.trigger.calls.Load())

	// Second read is served from cache; the mock would fail on a second Fetch.
	_, err = f.data.GetPet(ctx, "p1")
	require.NoError(t, err)
}

func TestDataService_GetPet_MissEverywhere(t *testing.T) {
	ctx := context.Background()
	f := newDataFixture(t)

	f.remote.EXPECT().Fetch(gomock.Any(), models.PetKey("nope")).
		Return(models.RemoteRecord{}, adapter.ErrNotFound)

	_, err := f.data.GetPet(ctx, "nope")
	assert.ErrorIs(t, err, cache.ErrEntryNotFound)
}

func TestDataService_DeletePet(t *testing.T) {
	ctx := context.Background()
	f := newDataFixture(t)

	require.NoError(t, f.data.SavePet(ctx, models.Pet{ID: "p1", Name: "Rex"}))
	require.NoError(t, f.data.DeletePet(ctx, "p1"))

	item, ok := f.queue.Get(models.PetKey("p1"))
	require.True(t, ok)
	assert.Equal(t, models.OpDelete, item.Operation)
	assert.Equal(t, int32(2), f.trigger.calls.Load())
}

func TestDataService_HealthRecords(t *testing.T) {
	ctx := context.Background()
	f := newDataFixture(t)

	record := models.HealthRecord{ID: "h1", PetID: "p1", Kind: "vaccination", RecordedAt: time.Now()}
	require.NoError(t, f.data.SaveHealthRecord(ctx, record))

	got, err := f.data.GetHealthRecord(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "vaccination", got.Kind)

	_, ok := f.queue.Get(models.HealthKey("h1"))
	assert.True(t, ok)
}

func TestDataService_ReportLostPet_AlwaysQueued(t *testing.T) {
	ctx := context.Background()
	f := newDataFixture(t)

	report := models.LostPetReport{
		ID:           "r1",
		PetID:        "p1",
		LastSeenAt:   time.Now(),
		ContactPhone: "+1-555-0100",
	}
	require.NoError(t, f.data.ReportLostPet(ctx, report))

	item, ok := f.queue.Get(models.LostPetKey("r1"))
	require.True(t, ok, "a lost pet report must never bypass the queue")
	assert.Equal(t, models.OpCreate, item.Operation)
	assert.Equal(t, int32(1), f.trigger.calls.Load())
}

func TestDataService_ResolveLostPetReport(t *testing.T) {
	ctx := context.Background()
	f := newDataFixture(t)

	require.NoError(t, f.data.ReportLostPet(ctx, models.LostPetReport{ID: "r1", PetID: "p1"}))
	require.NoError(t, f.data.ResolveLostPetReport(ctx, "r1"))

	got, err := f.data.GetLostPetReport(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, got.Resolved)

	item, ok := f.queue.Get(models.LostPetKey("r1"))
	require.True(t, ok)
	assert.Equal(t, models.OpUpdate, item.Operation)
}
