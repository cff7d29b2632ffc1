package adapter

import "errors"

// Sentinel errors mapped from remote store responses. Callers should match
// with [errors.Is].
var (
	// ErrVersionConflict is returned when a conditional write or delete is
	// rejected because the supplied base version is stale: another client
	// has modified the record since it was last fetched.
	ErrVersionConflict = errors.New("version conflict")

	// ErrNotFound is returned when the remote store holds no record for the
	// requested key.
	ErrNotFound = errors.New("record not found")

	// ErrKeyExists is returned when a create collides with a record the
	// remote store already holds for the same key.
	ErrKeyExists = errors.New("record already exists")

	// ErrUnavailable is returned for transport-level failures (timeout,
	// unreachable host). The sync queue retries these up to its cap.
	ErrUnavailable = errors.New("remote store unavailable")
)
