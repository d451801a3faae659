package driving

import (
	"context"

	"github.com/custodia-labs/marketsight-cli/internal/core/domain"
)

// SessionService owns the durable chat state: the signed-in user, the
// research sessions with their messages, and the active-session pointer.
// Every mutation persists the changed state before returning.
type SessionService interface {
	// User returns the signed-in user, or nil when logged out.
	User() *domain.User

	// SetUser stores or clears (nil) the signed-in user.
	SetUser(ctx context.Context, user *domain.User) error

	// Sessions returns the session sequence, most recently created
	// first.
	Sessions() []domain.ResearchSession

	// Session returns the session with the given ID, or nil.
	Session(id string) *domain.ResearchSession

	// ActiveSessionID returns the active session's ID, or "" when no
	// session is active.
	ActiveSessionID() string

	// SetActiveSessionID updates the active-session pointer. It is a
	// pure pointer update: existence of the session is the caller's
	// responsibility.
	SetActiveSessionID(ctx context.Context, id string) error

	// CreateSession creates a session with the given title and ticker,
	// prepends it, and makes it active.
	// Returns domain.ErrInvalidInput when either argument is empty
	// after trimming.
	CreateSession(ctx context.Context, title, ticker string) (string, error)

	// DeleteSession removes the session with the given ID. Deleting an
	// unknown ID is a no-op. Deleting the active session clears the
	// active-session pointer.
	DeleteSession(ctx context.Context, id string) error

	// UpdateSessionTitle renames a session and bumps its updated time.
	// Unknown IDs are a no-op.
	UpdateSessionTitle(ctx context.Context, id, title string) error

	// AddMessage appends a message to a session, assigning its ID and
	// timestamp, and returns the new message ID.
	// Returns domain.ErrSessionNotFound when the session is unknown.
	AddMessage(ctx context.Context, sessionID string, draft domain.MessageDraft) (string, error)

	// UpdateMessage merges a partial update into an existing message.
	// Unknown session or message IDs are a no-op.
	UpdateMessage(ctx context.Context, sessionID, messageID string, update domain.MessageUpdate) error
}
