// SPDX-License-Identifier: Apache-2.0

// Package adapter provides transport-layer abstractions for communicating
// with the remote record store.
//
// The primary abstraction is [RemoteStore], which decouples the sync queue
// and the conflict resolver from the underlying protocol. The package ships
// an HTTP/REST implementation ([NewHTTPRemoteStore]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrVersionConflict] for 409/412, [ErrNotFound]
// for 404).
package adapter

import (
	"context"

	"github.com/furkeep/pawsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_store_mock.go -package=mock

// RemoteStore defines transport-agnostic access to the remote record store.
// Implementations are responsible for serialisation and for mapping
// transport-level errors to the sentinel values defined in this package.
type RemoteStore interface {
	// Fetch returns the server's current state for key, including the
	// version and etag needed for conditional writes. Returns [ErrNotFound]
	// if the record does not exist remotely.
	Fetch(ctx context.Context, key string) (models.RemoteRecord, error)

	// Create stores a brand-new record under key. Returns [ErrKeyExists]
	// (wrapped) if the remote already holds a record with that key.
	Create(ctx context.Context, key string, data []byte) (models.RemoteRecord, error)

	// Put performs a conditional write: the record is replaced only if its
	// current remote version equals baseVersion. Returns [ErrVersionConflict]
	// (wrapped) when the supplied base version is stale.
	Put(ctx context.Context, key string, data []byte, baseVersion int64) (models.RemoteRecord, error)

	// ForcePut overwrites the record unconditionally, discarding whatever
	// the remote currently holds. Used by the LOCAL_WINS resolution.
	ForcePut(ctx context.Context, key string, data []byte) (models.RemoteRecord, error)

	// Delete removes the record if its current remote version equals
	// baseVersion. Deleting an already-deleted record is not an error.
	// Returns [ErrVersionConflict] (wrapped) when the base version is stale.
	Delete(ctx context.Context, key string, baseVersion int64) error
}
