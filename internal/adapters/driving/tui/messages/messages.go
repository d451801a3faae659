// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm
// architecture.
package messages

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSessions is the session list view.
	ViewSessions ViewType = iota
	// ViewChat is the transcript and input view for one session.
	ViewChat
	// ViewNewSession is the create-session form.
	ViewNewSession
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSessions:
		return "sessions"
	case ViewChat:
		return "chat"
	case ViewNewSession:
		return "new_session"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// SessionSelected signals a session was chosen from the list.
type SessionSelected struct {
	ID string
}

// SessionCreated signals the create-session form finished.
type SessionCreated struct {
	ID  string
	Err error
}

// SessionDeleted signals a session was deleted.
type SessionDeleted struct {
	ID  string
	Err error
}

// AskStarted signals a question was submitted for a session.
type AskStarted struct {
	SessionID string
}

// AskCompleted signals the backend round-trip and reveal finished.
type AskCompleted struct {
	SessionID string
	Err       error
}

// RevealTick drives transcript refreshes while a reveal is in flight.
type RevealTick struct{}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
