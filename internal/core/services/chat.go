package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/marketsight-cli/internal/core/domain"
	"github.com/custodia-labs/marketsight-cli/internal/core/ports/driven"
	"github.com/custodia-labs/marketsight-cli/internal/core/ports/driving"
	"github.com/custodia-labs/marketsight-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// DefaultRevealInterval is the pause between word reveals. The backend
// returns the answer in full; the pacing only simulates generation.
const DefaultRevealInterval = 30 * time.Millisecond

// ChatService is the response presenter. It submits questions to the
// research backend and reveals each complete answer into the session
// store word by word.
//
// Reveals are superseded, not merged: each Ask bumps a per-session
// generation counter, and an in-flight reveal that observes a newer
// generation stops before its next update.
type ChatService struct {
	sessions driving.SessionService
	research driven.ResearchAPI
	interval time.Duration

	mu          sync.Mutex
	generations map[string]uint64
}

// NewChatService creates a chat service over the given session store and
// research backend.
func NewChatService(sessions driving.SessionService, research driven.ResearchAPI) *ChatService {
	return &ChatService{
		sessions:    sessions,
		research:    research,
		interval:    DefaultRevealInterval,
		generations: make(map[string]uint64),
	}
}

// WithRevealInterval sets the pause between word reveals. Zero disables
// pacing; useful for tests and the one-shot CLI path.
func (s *ChatService) WithRevealInterval(d time.Duration) *ChatService {
	s.interval = d
	return s
}

// Ask appends the question as a user message, queries the backend, and
// reveals the answer incrementally into a new assistant message.
//
// Backend failures are converted into a single visible assistant message
// and do not surface as an error; only local misuse (unknown session,
// empty question) does.
func (s *ChatService) Ask(ctx context.Context, sessionID, question string) error {
	if s.research == nil {
		return domain.ErrNotImplemented
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return fmt.Errorf("ask: %w: empty question", domain.ErrInvalidInput)
	}
	if s.sessions.Session(sessionID) == nil {
		return fmt.Errorf("ask: %w", domain.ErrSessionNotFound)
	}

	if _, err := s.sessions.AddMessage(ctx, sessionID, domain.MessageDraft{
		Role:    domain.RoleUser,
		Content: question,
	}); err != nil {
		return err
	}

	gen := s.bumpGeneration(sessionID)

	result, err := s.research.Query(ctx, question, domain.DefaultSourceLimit)
	if err != nil {
		logger.Warn("query failed: %v", err)
		_, addErr := s.sessions.AddMessage(ctx, sessionID, domain.MessageDraft{
			Role:    domain.RoleAssistant,
			Content: fmt.Sprintf("Error: %s. Please try again.", err),
		})
		return addErr
	}

	sources := make([]domain.Source, len(result.Sources))
	for i, src := range result.Sources {
		sources[i] = src.ToSource(i)
	}

	messageID, err := s.sessions.AddMessage(ctx, sessionID, domain.MessageDraft{
		Role:        domain.RoleAssistant,
		Content:     "",
		Sources:     sources,
		IsStreaming: true,
	})
	if err != nil {
		return err
	}

	return s.reveal(ctx, sessionID, messageID, gen, result.Answer)
}

// reveal issues one message update per whitespace-delimited word of the
// answer, joined by single spaces, pausing between updates. The final
// update carries the full joined text with IsStreaming false.
func (s *ChatService) reveal(ctx context.Context, sessionID, messageID string, gen uint64, answer string) error {
	words := strings.Fields(answer)
	if len(words) == 0 {
		content := ""
		streaming := false
		return s.sessions.UpdateMessage(ctx, sessionID, messageID, domain.MessageUpdate{
			Content:     &content,
			IsStreaming: &streaming,
		})
	}

	defer logger.Timed(fmt.Sprintf("reveal of %d words", len(words)))()

	for i := range words {
		if s.generation(sessionID) != gen {
			logger.Debug("reveal for message %s superseded", messageID)
			return nil
		}

		content := strings.Join(words[:i+1], " ")
		streaming := i < len(words)-1
		if err := s.sessions.UpdateMessage(ctx, sessionID, messageID, domain.MessageUpdate{
			Content:     &content,
			IsStreaming: &streaming,
		}); err != nil {
			return err
		}

		if streaming && s.interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.interval):
			}
		}
	}
	return nil
}

// bumpGeneration advances and returns the reveal generation for a session.
func (s *ChatService) bumpGeneration(sessionID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[sessionID]++
	return s.generations[sessionID]
}

// generation returns the current reveal generation for a session.
func (s *ChatService) generation(sessionID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[sessionID]
}
