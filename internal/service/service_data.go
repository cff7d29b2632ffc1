// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/furkeep/pawsync/internal/adapter"
	"github.com/furkeep/pawsync/internal/cache"
	"github.com/furkeep/pawsync/internal/logger"
	"github.com/furkeep/pawsync/models"
)

// Trigger nudges the sync job after a local mutation.
type Trigger interface {
	Trigger()
}

// DataService is the application-facing facade over the offline data layer.
// Writes apply optimistically to the local cache and are queued for sync;
// reads serve cached data and fall back to the remote store on a miss.
type DataService struct {
	cache  CacheStore
	remote adapter.RemoteStore
	job    Trigger
	bus    *Bus
	logger *logger.Logger

	now func() time.Time
}

func NewDataService(cacheStore CacheStore, remote adapter.RemoteStore, job Trigger, bus *Bus, log *logger.Logger) *DataService {
	return &DataService{
		cache:  cacheStore,
		remote: remote,
		job:    job,
		bus:    bus,
		logger: log,
		now:    time.Now,
	}
}

// SavePet stores the pet locally and queues it for sync.
func (d *DataService) SavePet(ctx context.Context, pet models.Pet) error {
	pet.UpdatedAt = d.now()
	return d.save(ctx, models.PetKey(pet.ID), pet, models.PriorityMedium)
}

// GetPet returns the cached pet, fetching from the remote store on a miss.
// A cached-but-expired pet is served immediately while a background refresh
// runs.
func (d *DataService) GetPet(ctx context.Context, id string) (models.Pet, error) {
	var pet models.Pet
	err := d.load(ctx, models.PetKey(id), models.PriorityMedium, &pet)
	return pet, err
}

// DeletePet removes the pet locally and queues the deletion.
func (d *DataService) DeletePet(ctx context.Context, id string) error {
	return d.remove(ctx, models.PetKey(id))
}

// SaveHealthRecord stores the health event locally and queues it for sync.
func (d *DataService) SaveHealthRecord(ctx context.Context, record models.HealthRecord) error {
	record.UpdatedAt = d.now()
	return d.save(ctx, models.HealthKey(record.ID), record, models.PriorityLow)
}

// GetHealthRecord returns the cached health event, fetching remotely on a
// miss.
func (d *DataService) GetHealthRecord(ctx context.Context, id string) (models.HealthRecord, error) {
	var record models.HealthRecord
	err := d.load(ctx, models.HealthKey(id), models.PriorityLow, &record)
	return record, err
}

// DeleteHealthRecord removes the health event locally and queues the
// deletion.
func (d *DataService) DeleteHealthRecord(ctx context.Context, id string) error {
	return d.remove(ctx, models.HealthKey(id))
}

// ReportLostPet files a lost-pet report. The report is cached at the highest
// eviction priority and always queued, so it survives any network outage and
// is pushed at the front of the next sync pass.
func (d *DataService) ReportLostPet(ctx context.Context, report models.LostPetReport) error {
	report.UpdatedAt = d.now()
	if err := d.save(ctx, models.LostPetKey(report.ID), report, models.PriorityHigh); err != nil {
		return err
	}

	d.logger.Info().
		Str("func", "DataService.ReportLostPet").
		Str("report_id", report.ID).
		Str("pet_id", report.PetID).
		Msg("lost pet report queued")
	return nil
}

// GetLostPetReport returns the cached report, fetching remotely on a miss.
func (d *DataService) GetLostPetReport(ctx context.Context, id string) (models.LostPetReport, error) {
	var report models.LostPetReport
	err := d.load(ctx, models.LostPetKey(id), models.PriorityHigh, &report)
	return report, err
}

// ResolveLostPetReport marks the report resolved and queues the update.
func (d *DataService) ResolveLostPetReport(ctx context.Context, id string) error {
	report, err := d.GetLostPetReport(ctx, id)
	if err != nil {
		return err
	}
	report.Resolved = true
	return d.ReportLostPet(ctx, report)
}

func (d *DataService) save(ctx context.Context, key string, value any, priority models.Priority) error {
	op := models.OpUpdate
	if d.cache.Version(key) == 0 {
		op = models.OpCreate
	}

	if err := d.cache.Set(ctx, key, value, cache.Options{Priority: priority}); err != nil {
		return fmt.Errorf("apply local update for %s: %w", key, err)
	}

	d.bus.Publish(TopicUpdateApplied, UpdateEvent{Key: key, Operation: op})
	d.job.Trigger()
	return nil
}

func (d *DataService) load(ctx context.Context, key string, priority models.Priority, out any) error {
	data, err := d.cache.GetOrFetch(ctx, key, func(fetchCtx context.Context) ([]byte, error) {
		record, fetchErr := d.remote.Fetch(fetchCtx, key)
		if fetchErr != nil {
			return nil, fetchErr
		}
		d.cache.SetETag(key, record.ETag)
		return record.Data, nil
	}, true, cache.Options{Priority: priority, SkipSync: true})
	if err != nil {
		if errors.Is(err, adapter.ErrNotFound) || errors.Is(err, cache.ErrEntryNotFound) {
			return fmt.Errorf("load %s: %w", key, cache.ErrEntryNotFound)
		}
		return fmt.Errorf("load %s: %w", key, err)
	}

	if err = json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (d *DataService) remove(ctx context.Context, key string) error {
	if err := d.cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("apply local delete for %s: %w", key, err)
	}

	d.bus.Publish(TopicUpdateApplied, UpdateEvent{Key: key, Operation: models.OpDelete})
	d.job.Trigger()
	return nil
}
