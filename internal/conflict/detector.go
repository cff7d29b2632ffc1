// SPDX-License-Identifier: Apache-2.0

// Package conflict detects divergences between locally-queued mutations and
// the server's current state, and applies terminal resolutions.
//
// A queue item whose base version no longer matches the remote record is
// classified as an UPDATE, DELETE or CREATE conflict. Each conflict accepts
// exactly one resolution (LOCAL_WINS, SERVER_WINS or MERGE); a second
// resolution attempt is rejected with [ErrAlreadyResolved].
package conflict

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/furkeep/pawsync/models"
)

// Detect classifies the divergence between a rejected queue item and the
// remote record it collided with. remote is nil when the server no longer
// holds the record. Returns nil when the states do not actually diverge
// (the caller can simply retry).
func Detect(item models.SyncQueueItem, remote *models.RemoteRecord, now time.Time) *models.Conflict {
	var conflictType models.ConflictType
	var serverData []byte
	var serverVersion int64

	switch {
	case remote == nil:
		// Remote deleted the record while a local intent is still queued.
		if item.Operation == models.OpDelete {
			// Both sides deleted: nothing diverges.
			return nil
		}
		conflictType = models.DeleteConflict

	case item.BaseVersion == 0 && item.Operation != models.OpDelete:
		// Local create collided with an independently created remote record.
		conflictType = models.CreateConflict
		serverData = remote.Data
		serverVersion = remote.Version

	case remote.Version != item.BaseVersion:
		conflictType = models.UpdateConflict
		serverData = remote.Data
		serverVersion = remote.Version

	default:
		return nil
	}

	conflict := &models.Conflict{
		ID:            uuid.New().String(),
		RecordKey:     item.Key,
		Type:          conflictType,
		LocalData:     item.Payload,
		ServerData:    serverData,
		BaseVersion:   item.BaseVersion,
		ServerVersion: serverVersion,
		DetectedAt:    now,
	}
	conflict.LocalClock = localFieldClock(item)
	if remote != nil {
		conflict.ServerClock = remote.FieldClock
	}
	return conflict
}

// localFieldClock stamps every top-level field of the local payload with the
// intent's enqueue time — the closest record of when the local edit was made.
// This gives the Merge strategy a local clock to weigh against server-stamped
// fields.
func localFieldClock(item models.SyncQueueItem) models.FieldClock {
	if len(item.Payload) == 0 {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item.Payload, &fields); err != nil {
		return nil
	}

	clock := make(models.FieldClock, len(fields))
	for field := range fields {
		clock[field] = item.EnqueuedAt
	}
	return clock
}
