package driving

import "context"

// ChatService turns a research question into session-store mutations:
// the user message, the backend query, and the paced word-by-word
// reveal of the answer into an assistant message.
type ChatService interface {
	// Ask appends the question as a user message, queries the backend,
	// and reveals the answer incrementally into a new assistant
	// message. On backend failure a single assistant error message is
	// appended instead and no error is returned; errors are returned
	// only for local misuse (unknown session, empty question).
	//
	// Ask blocks until the reveal completes or is superseded; callers
	// that need a responsive UI run it on their own goroutine.
	Ask(ctx context.Context, sessionID, question string) error
}
