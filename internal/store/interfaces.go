package store

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// KeyValue is the durable persistence contract used by the cache store and
// the sync queue. Buckets namespace the keys of different components so one
// backend can serve both.
//
// Implementations are safe for concurrent use. A missing key is reported via
// [ErrKeyNotFound].
type KeyValue interface {
	// Get returns the value stored under (bucket, key), or ErrKeyNotFound.
	Get(ctx context.Context, bucket, key string) ([]byte, error)

	// Set stores value under (bucket, key), replacing any previous value.
	Set(ctx context.Context, bucket, key string, value []byte) error

	// Delete removes (bucket, key). Deleting a missing key is not an error.
	Delete(ctx context.Context, bucket, key string) error

	// Keys returns all keys currently stored in bucket.
	Keys(ctx context.Context, bucket string) ([]string, error)
}
