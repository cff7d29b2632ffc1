package models

import (
	"encoding/json"
	"time"
)

// FieldClock maps payload field names to the instant each field was last
// modified. When both sides of a conflict carry a clock, Merge prefers the
// more recently modified side per field.
type FieldClock map[string]time.Time

// RemoteRecord is the server's current state for one record key: the payload
// plus the concurrency tokens needed for conditional writes.
type RemoteRecord struct {
	Key        string          `json:"key"`
	Data       json.RawMessage `json:"data,omitempty"`
	Version    int64           `json:"version"`
	ETag       string          `json:"etag,omitempty"`
	UpdatedAt  time.Time       `json:"updated_at"`
	FieldClock FieldClock      `json:"field_clock,omitempty"`
}
