package models

import "time"

// Priority controls eviction order for cache entries. Lower priorities are
// sacrificed first when the store is over budget.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

// Rank returns the numeric eviction rank of the priority: low(0) < medium(1)
// < high(2).
func (p Priority) Rank() int {
	return int(p)
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// CacheEntry is a single versioned record held by the bounded cache store.
// SizeBytes always equals len(Data); the store's running total equals the sum
// of live entries' SizeBytes.
type CacheEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	// Version is monotonic per key within a store instance. It is the base
	// version queued sync intents are derived from.
	Version   int64    `json:"version"`
	ETag      string   `json:"etag,omitempty"`
	SizeBytes int64    `json:"size_bytes"`
	Priority  Priority `json:"priority"`

	// AccessedAt is the recency timestamp used by eviction. It is refreshed
	// on every successful read.
	AccessedAt time.Time `json:"accessed_at"`
}

// Expired reports whether the entry's TTL has elapsed at the given instant.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}
