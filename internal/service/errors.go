package service

import "errors"

var (
	// ErrSyncInProgress is returned by Sync when another pass is already
	// running. At most one sync pass executes at any time.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrSyncNotAllowed is returned when current network conditions fail the
	// sync gate. Queued items are left untouched.
	ErrSyncNotAllowed = errors.New("network conditions do not permit sync")
)
