package models

import "time"

// ConflictType classifies the divergence between a locally-queued mutation
// and the server's current state for the same record.
type ConflictType string

const (
	// UpdateConflict: both sides mutated the same existing record.
	UpdateConflict ConflictType = "UPDATE_CONFLICT"
	// DeleteConflict: remote deleted the record while local still holds an
	// update or create intent.
	DeleteConflict ConflictType = "DELETE_CONFLICT"
	// CreateConflict: remote independently created a record colliding with a
	// local create.
	CreateConflict ConflictType = "CREATE_CONFLICT"
)

// ResolutionStrategy selects how a conflict is settled.
type ResolutionStrategy string

const (
	// LocalWins pushes the local payload to the remote unconditionally.
	LocalWins ResolutionStrategy = "LOCAL_WINS"
	// ServerWins discards the local intent and overwrites the cache entry
	// with the server payload.
	ServerWins ResolutionStrategy = "SERVER_WINS"
	// Merge reconciles field-by-field, preferring the more recently modified
	// side when per-field timestamps are available, else the local side.
	Merge ResolutionStrategy = "MERGE"
)

// Conflict is a detected divergence awaiting exactly one terminal resolution.
type Conflict struct {
	ID            string       `json:"id"`
	RecordKey     string       `json:"record_key"`
	Type          ConflictType `json:"conflict_type"`
	LocalData     []byte       `json:"local_data,omitempty"`
	ServerData    []byte       `json:"server_data,omitempty"`
	BaseVersion   int64        `json:"base_version"`
	ServerVersion int64        `json:"server_version"`
	DetectedAt    time.Time    `json:"detected_at"`

	// LocalClock and ServerClock carry per-field modification timestamps
	// when either side provides them; the Merge strategy prefers the more
	// recently modified side per field.
	LocalClock  FieldClock `json:"local_clock,omitempty"`
	ServerClock FieldClock `json:"server_clock,omitempty"`
}
