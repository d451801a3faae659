// Package tui provides an interactive terminal user interface for marketsight.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/marketsight-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session owns the research sessions and their messages.
	Session driving.SessionService

	// Chat submits questions and reveals answers into sessions.
	Chat driving.ChatService

	// Auth reports the signed-in account. Optional: the TUI works
	// without it but cannot show who is signed in.
	Auth driving.AuthService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(session driving.SessionService, chat driving.ChatService) *Ports {
	return &Ports{
		Session: session,
		Chat:    chat,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSessionService
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
