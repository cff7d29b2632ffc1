package conflict

import "errors"

// Sentinel errors returned by the resolver. Callers should use [errors.Is]
// to match against these values.
var (
	// ErrAlreadyResolved is returned when a resolution is requested for a
	// conflict that has already reached its terminal state. Resolution is
	// terminal: a resolved conflict is never re-opened.
	ErrAlreadyResolved = errors.New("conflict already resolved")

	// ErrConflictNotFound is returned when the conflict ID is unknown.
	ErrConflictNotFound = errors.New("conflict not found")

	// ErrUnknownStrategy is returned for a resolution strategy other than
	// LOCAL_WINS, SERVER_WINS or MERGE.
	ErrUnknownStrategy = errors.New("unknown resolution strategy")
)
