package domain

import (
	"strings"
	"time"
)

// Role identifies the author of a message.
type Role string

const (
	// RoleUser marks a message typed by the end user.
	RoleUser Role = "user"

	// RoleAssistant marks a message produced from a backend answer.
	RoleAssistant Role = "assistant"
)

// ResearchSession is a named, ticker-scoped conversation.
// Sessions are kept most-recently-created-first: a new session is
// prepended to the sequence, never appended.
type ResearchSession struct {
	// ID is the unique identifier for the session.
	ID string `json:"id"`

	// Title is the user-chosen session name.
	Title string `json:"title"`

	// Ticker is the stock symbol the session is scoped to, uppercased.
	Ticker string `json:"ticker"`

	// Messages is the conversation transcript in append order.
	Messages []Message `json:"messages"`

	// CreatedAt is when the session was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the session was last renamed or received a
	// message append or update.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the session. The transcript and each
// message's sources get their own backing arrays, so later mutations of
// the original are invisible through the copy.
func (s ResearchSession) Clone() ResearchSession {
	out := s
	if s.Messages != nil {
		out.Messages = make([]Message, len(s.Messages))
		for i, msg := range s.Messages {
			if msg.Sources != nil {
				msg.Sources = append([]Source(nil), msg.Sources...)
			}
			out.Messages[i] = msg
		}
	}
	return out
}

// Message is one turn in a conversation.
// Content and IsStreaming are the only fields mutated after creation,
// by the reveal sequence; everything else is fixed at append time.
type Message struct {
	// ID is the unique identifier for the message, assigned by the
	// session store, never by the caller.
	ID string `json:"id"`

	// Role is the message author.
	Role Role `json:"role"`

	// Content is the message text.
	Content string `json:"content"`

	// Timestamp is when the message was appended, assigned by the store.
	Timestamp time.Time `json:"timestamp"`

	// Sources are the citations backing an assistant answer.
	Sources []Source `json:"sources,omitempty"`

	// IsStreaming is true while the reveal sequence is still appending
	// words to Content.
	IsStreaming bool `json:"isStreaming,omitempty"`
}

// Source is a citation pointing at an excerpt of a backend document.
// Immutable once attached to a message.
type Source struct {
	// ID is the citation's position within the message ("0", "1", ...).
	ID string `json:"id"`

	// Title is the cited document name.
	Title string `json:"title"`

	// Snippet is a short relevance description.
	Snippet string `json:"snippet"`

	// Page is the chunk index within the document, when known.
	Page int `json:"page,omitempty"`

	// DocumentType describes the filing kind (e.g. "10-K Filing").
	DocumentType string `json:"documentType,omitempty"`
}

// MessageDraft is the caller-supplied part of a new message.
// ID and Timestamp are assigned by the session store.
type MessageDraft struct {
	Role        Role
	Content     string
	Sources     []Source
	IsStreaming bool
}

// MessageUpdate is a partial update merged into an existing message.
// Nil fields are left untouched.
type MessageUpdate struct {
	Content     *string
	IsStreaming *bool
	Sources     []Source
}

// NormaliseTicker uppercases and trims a ticker symbol.
func NormaliseTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
