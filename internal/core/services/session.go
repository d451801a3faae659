package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/marketsight-cli/internal/core/domain"
	"github.com/custodia-labs/marketsight-cli/internal/core/ports/driven"
	"github.com/custodia-labs/marketsight-cli/internal/core/ports/driving"
	"github.com/custodia-labs/marketsight-cli/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService is the session store. It holds the signed-in user, the
// research sessions and the active-session pointer in memory, and writes
// the changed state key to the StateStore on every mutation.
//
// The service is constructed explicitly and passed by handle to every
// consumer; there is no package-level instance.
type SessionService struct {
	mu    sync.RWMutex
	state driven.StateStore

	user     *domain.User
	sessions []domain.ResearchSession
	activeID string

	// now and newID are swappable for tests.
	now   func() time.Time
	newID func() string
}

// NewSessionService creates a session service hydrated from the given
// state store. A missing key leaves the corresponding state at its empty
// default; a corrupt value is an unrecoverable startup fault and fails
// construction.
func NewSessionService(ctx context.Context, state driven.StateStore) (*SessionService, error) {
	if state == nil {
		return nil, fmt.Errorf("session service: %w: nil state store", domain.ErrInvalidInput)
	}

	s := &SessionService{
		state: state,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}

	if err := s.hydrate(ctx); err != nil {
		return nil, fmt.Errorf("hydrating session state: %w", err)
	}

	return s, nil
}

// hydrate loads all state keys from the store.
func (s *SessionService) hydrate(ctx context.Context) error {
	data, err := s.state.Get(ctx, driven.StateKeyUser)
	switch {
	case err == nil:
		var user domain.User
		if err := json.Unmarshal(data, &user); err != nil {
			return fmt.Errorf("decoding %s: %w", driven.StateKeyUser, err)
		}
		s.user = &user
	case errors.Is(err, domain.ErrNotFound):
		// No stored user; stay logged out.
	default:
		return err
	}

	data, err = s.state.Get(ctx, driven.StateKeySessions)
	switch {
	case err == nil:
		// Timestamps come back through RFC 3339 text; encoding/json
		// reconstructs time.Time values on the way in.
		var sessions []domain.ResearchSession
		if err := json.Unmarshal(data, &sessions); err != nil {
			return fmt.Errorf("decoding %s: %w", driven.StateKeySessions, err)
		}
		s.sessions = sessions
	case errors.Is(err, domain.ErrNotFound):
		// No stored sessions; start empty.
	default:
		return err
	}

	data, err = s.state.Get(ctx, driven.StateKeyActiveSession)
	switch {
	case err == nil:
		s.activeID = string(data)
	case errors.Is(err, domain.ErrNotFound):
		// No active session.
	default:
		return err
	}

	logger.Debug("session state hydrated: %d sessions, active=%q", len(s.sessions), s.activeID)
	return nil
}

// User returns the signed-in user, or nil when logged out.
func (s *SessionService) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// SetUser stores or clears (nil) the signed-in user.
func (s *SessionService) SetUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user == nil {
		s.user = nil
		return s.state.Delete(ctx, driven.StateKeyUser)
	}

	u := *user
	s.user = &u
	data, err := json.Marshal(s.user)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}
	return s.state.Set(ctx, driven.StateKeyUser, data)
}

// Sessions returns the session sequence, most recently created first.
// Each element is a deep copy: readers keep iterating safely while an
// in-flight reveal mutates message content on another goroutine.
func (s *SessionService) Sessions() []domain.ResearchSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ResearchSession, len(s.sessions))
	for i := range s.sessions {
		out[i] = s.sessions[i].Clone()
	}
	return out
}

// Session returns a deep copy of the session with the given ID, or nil.
func (s *SessionService) Session(id string) *domain.ResearchSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			session := s.sessions[i].Clone()
			return &session
		}
	}
	return nil
}

// ActiveSessionID returns the active session's ID, or "".
func (s *SessionService) ActiveSessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// SetActiveSessionID updates the active-session pointer. This is a pure
// pointer update: the service does not check that the session exists;
// that is the caller's responsibility.
func (s *SessionService) SetActiveSessionID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = id
	return s.persistActive(ctx)
}

// CreateSession creates a session, prepends it (sessions are ordered
// most-recently-created-first) and makes it active.
func (s *SessionService) CreateSession(ctx context.Context, title, ticker string) (string, error) {
	title = strings.TrimSpace(title)
	ticker = domain.NormaliseTicker(ticker)
	if title == "" || ticker == "" {
		return "", fmt.Errorf("create session: %w: title and ticker are required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	session := domain.ResearchSession{
		ID:        s.newID(),
		Title:     title,
		Ticker:    ticker,
		Messages:  []domain.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.sessions = append([]domain.ResearchSession{session}, s.sessions...)
	s.activeID = session.ID

	if err := s.persistSessions(ctx); err != nil {
		return "", err
	}
	if err := s.persistActive(ctx); err != nil {
		return "", err
	}

	logger.Debug("created session %s (%s)", session.ID, session.Ticker)
	return session.ID, nil
}

// DeleteSession removes the session with the given ID. Deleting an
// unknown ID is a no-op. Deleting the active session clears the
// active-session pointer.
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	remaining := s.sessions[:0]
	for _, session := range s.sessions {
		if session.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, session)
	}
	if !found {
		return nil
	}
	s.sessions = remaining

	if s.activeID == id {
		s.activeID = ""
		if err := s.persistActive(ctx); err != nil {
			return err
		}
	}
	return s.persistSessions(ctx)
}

// UpdateSessionTitle renames a session and bumps its updated time.
// Unknown IDs are a lenient no-op.
func (s *SessionService) UpdateSessionTitle(ctx context.Context, id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sessions {
		if s.sessions[i].ID != id {
			continue
		}
		s.sessions[i].Title = title
		s.sessions[i].UpdatedAt = s.now()
		return s.persistSessions(ctx)
	}

	logger.Debug("rename ignored: session %s not found", id)
	return nil
}

// AddMessage appends a message to a session, assigning its ID and
// timestamp, and bumps the session's updated time.
func (s *SessionService) AddMessage(ctx context.Context, sessionID string, draft domain.MessageDraft) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sessions {
		if s.sessions[i].ID != sessionID {
			continue
		}

		message := domain.Message{
			ID:          s.newID(),
			Role:        draft.Role,
			Content:     draft.Content,
			Timestamp:   s.now(),
			Sources:     draft.Sources,
			IsStreaming: draft.IsStreaming,
		}
		s.sessions[i].Messages = append(s.sessions[i].Messages, message)
		s.sessions[i].UpdatedAt = message.Timestamp

		if err := s.persistSessions(ctx); err != nil {
			return "", err
		}
		return message.ID, nil
	}

	return "", fmt.Errorf("add message to %s: %w", sessionID, domain.ErrSessionNotFound)
}

// UpdateMessage merges a partial update into an existing message and
// bumps the session's updated time. Unknown session or message IDs are a
// lenient no-op.
func (s *SessionService) UpdateMessage(ctx context.Context, sessionID, messageID string, update domain.MessageUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sessions {
		if s.sessions[i].ID != sessionID {
			continue
		}
		for j := range s.sessions[i].Messages {
			msg := &s.sessions[i].Messages[j]
			if msg.ID != messageID {
				continue
			}
			if update.Content != nil {
				msg.Content = *update.Content
			}
			if update.IsStreaming != nil {
				msg.IsStreaming = *update.IsStreaming
			}
			if update.Sources != nil {
				msg.Sources = update.Sources
			}
			s.sessions[i].UpdatedAt = s.now()
			return s.persistSessions(ctx)
		}
		logger.Debug("update ignored: message %s not found in session %s", messageID, sessionID)
		return nil
	}

	logger.Debug("update ignored: session %s not found", sessionID)
	return nil
}

// persistSessions writes the session sequence (caller must hold lock).
// An empty sequence is never written: during startup, before hydration
// completes, an eager write could otherwise wipe the stored sessions.
func (s *SessionService) persistSessions(ctx context.Context) error {
	if len(s.sessions) == 0 {
		return nil
	}
	data, err := json.Marshal(s.sessions)
	if err != nil {
		return fmt.Errorf("encoding sessions: %w", err)
	}
	return s.state.Set(ctx, driven.StateKeySessions, data)
}

// persistActive writes the active-session pointer (caller must hold lock).
func (s *SessionService) persistActive(ctx context.Context) error {
	if s.activeID == "" {
		return s.state.Delete(ctx, driven.StateKeyActiveSession)
	}
	return s.state.Set(ctx, driven.StateKeyActiveSession, []byte(s.activeID))
}
