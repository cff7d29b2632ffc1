package cache

import "errors"

// Sentinel errors returned by the bounded cache store. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrEntryNotFound is returned when a key is absent from both memory and
	// durable storage, or its TTL has expired.
	ErrEntryNotFound = errors.New("cache entry not found")

	// ErrEntryTooLarge is returned when a single payload exceeds the store's
	// whole byte budget. The set fails rather than evicting everything.
	ErrEntryTooLarge = errors.New("cache entry exceeds cache size budget")
)
