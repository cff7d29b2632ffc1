package service

import (
	"github.com/asaskevich/EventBus"

	"github.com/furkeep/pawsync/internal/logger"
	"github.com/furkeep/pawsync/models"
)

// Event topics published by the sync orchestrator and the data facade.
const (
	TopicSyncStarted   = "sync_started"
	TopicSyncProgress  = "sync_progress"
	TopicSyncCompleted = "sync_completed"
	TopicSyncFailed    = "sync_failed"

	TopicConflictDetected = "conflict_detected"

	TopicUpdateApplied = "optimistic_update_applied"
	TopicUpdateSynced  = "optimistic_update_synced"
)

// SyncStartedEvent is published once at the start of a sync pass.
type SyncStartedEvent struct {
	Total int `json:"total"`
}

// SyncCompletedEvent is published when a sync pass finishes, whether or not
// every item succeeded.
type SyncCompletedEvent struct {
	Synced    int                  `json:"synced"`
	Conflicts int                  `json:"conflicts"`
	Retried   int                  `json:"retried"`
	Failures  []models.SyncFailure `json:"failures,omitempty"`
	// Progress is the final progress snapshot of the pass.
	Progress models.SyncProgress `json:"progress"`
}

// SyncFailedEvent is published when a sync pass is abandoned mid-way. Items
// not yet attempted remain queued for the next pass.
type SyncFailedEvent struct {
	Reason    string `json:"reason"`
	Remaining int    `json:"remaining"`
}

// UpdateEvent accompanies the optimistic-update topics.
type UpdateEvent struct {
	Key       string           `json:"key"`
	Operation models.Operation `json:"operation"`
}

// Bus is a thin wrapper over the process-local event bus that erases the
// error-typed subscribe API and adds logging. Publishing never blocks the
// caller beyond the subscriber callbacks themselves.
type Bus struct {
	bus    EventBus.Bus
	logger *logger.Logger
}

func NewBus(log *logger.Logger) *Bus {
	return &Bus{bus: EventBus.New(), logger: log}
}

// Publish delivers payload to all subscribers of topic.
func (b *Bus) Publish(topic string, payload any) {
	b.logger.Debug().
		Str("func", "Bus.Publish").
		Str("topic", topic).
		Msg("publishing event")
	b.bus.Publish(topic, payload)
}

// Subscribe registers fn for topic and returns a function that removes the
// subscription. fn must be a func whose single parameter matches the topic's
// payload type.
func (b *Bus) Subscribe(topic string, fn any) (unsubscribe func(), err error) {
	if err = b.bus.Subscribe(topic, fn); err != nil {
		return nil, err
	}
	return func() {
		if unsubErr := b.bus.Unsubscribe(topic, fn); unsubErr != nil {
			b.logger.Warn().
				Err(unsubErr).
				Str("func", "Bus.Subscribe").
				Str("topic", topic).
				Msg("failed to remove event subscription")
		}
	}, nil
}
