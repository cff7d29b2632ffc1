package models

import "time"

// Operation is the kind of mutation a queued sync intent carries.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Priority returns the drain priority of the operation. Deletes drain before
// updates, updates before creates.
func (o Operation) Priority() int {
	switch o {
	case OpDelete:
		return 3
	case OpUpdate:
		return 2
	case OpCreate:
		return 1
	default:
		return 0
	}
}

// SyncQueueItem is a durable pending mutation. At most one item exists per
// key at any time; a later enqueue for the same key replaces the payload,
// operation and timestamp (local intent coalescing).
type SyncQueueItem struct {
	Key        string    `json:"key"`
	Payload    []byte    `json:"payload,omitempty"`
	Operation  Operation `json:"operation"`
	EnqueuedAt time.Time `json:"enqueued_at"`
	RetryCount int       `json:"retry_count"`

	// BaseVersion is the cache entry version this intent was derived from.
	// The remote store rejects conditional writes whose base version is stale.
	BaseVersion int64 `json:"base_version"`

	// Conflicted marks an item whose last sync attempt was rejected as
	// out-of-date. Conflicted items are skipped by automatic drains until an
	// explicit resolution clears or removes them.
	Conflicted bool `json:"conflicted,omitempty"`
}

// SyncFailure reports a queue item that was removed after exhausting its
// retries. Each exhausted item is reported exactly once.
type SyncFailure struct {
	Item SyncQueueItem
	Err  error
}
