package driven

import "context"

// Well-known state keys persisted by the session service.
const (
	// StateKeyUser holds the serialised signed-in user, absent when
	// logged out.
	StateKeyUser = "user"

	// StateKeySessions holds the serialised session sequence. Never
	// written as an empty sequence.
	StateKeySessions = "sessions"

	// StateKeyActiveSession holds the raw active session ID, absent
	// when no session is active.
	StateKeyActiveSession = "active_session_id"
)

// StateStore persists named state snapshots.
// Each key is an independent entry; values are opaque bytes.
type StateStore interface {
	// Get retrieves the value stored under key.
	// Returns domain.ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores or replaces the value under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the entry under key. Removing an absent key is
	// not an error.
	Delete(ctx context.Context, key string) error
}
