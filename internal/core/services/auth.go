package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/marketsight-cli/internal/core/domain"
	"github.com/custodia-labs/marketsight-cli/internal/core/ports/driven"
	"github.com/custodia-labs/marketsight-cli/internal/core/ports/driving"
	"github.com/custodia-labs/marketsight-cli/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// AuthService manages the account lifecycle against the research backend.
// It owns nothing itself: tokens live in the TokenStore, the signed-in
// user lives in the session store.
type AuthService struct {
	research driven.ResearchAPI
	tokens   driven.TokenStore
	sessions driving.SessionService
}

// NewAuthService creates an auth service.
func NewAuthService(research driven.ResearchAPI, tokens driven.TokenStore, sessions driving.SessionService) *AuthService {
	return &AuthService{
		research: research,
		tokens:   tokens,
		sessions: sessions,
	}
}

// Signup creates an account. The caller still has to log in; the backend
// does not issue a token on signup.
func (s *AuthService) Signup(ctx context.Context, req driven.SignupRequest) (*driven.SignupResult, error) {
	if s.research == nil {
		return nil, domain.ErrNotImplemented
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, fmt.Errorf("signup: %w: email and password are required", domain.ErrInvalidInput)
	}
	return s.research.Signup(ctx, req)
}

// Login exchanges credentials for a token, stores it, and records the
// backend profile as the signed-in user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if s.research == nil {
		return nil, domain.ErrNotImplemented
	}
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("login: %w: email and password are required", domain.ErrInvalidInput)
	}

	token, err := s.research.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return s.LoginWithToken(ctx, token.AccessToken)
}

// LoginWithToken stores an externally-obtained token and records the
// backend profile as the signed-in user. Used by both password login and
// the Google redirect flow.
func (s *AuthService) LoginWithToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, fmt.Errorf("login: %w: empty token", domain.ErrInvalidInput)
	}
	if err := s.tokens.SetToken(token); err != nil {
		return nil, fmt.Errorf("storing token: %w", err)
	}

	profile, err := s.research.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}

	user := userFromProfile(profile)
	if err := s.sessions.SetUser(ctx, &user); err != nil {
		return nil, fmt.Errorf("storing user: %w", err)
	}

	logger.Info("signed in as %s", user.Email)
	return &user, nil
}

// GoogleAuthURL returns the browser URL that starts the Google sign-in
// flow.
func (s *AuthService) GoogleAuthURL(ctx context.Context, redirectURI string) (string, error) {
	if s.research == nil {
		return "", domain.ErrNotImplemented
	}
	return s.research.GoogleAuthURL(ctx, redirectURI)
}

// Validate checks the stored token against the backend.
func (s *AuthService) Validate(ctx context.Context) error {
	if s.research == nil {
		return domain.ErrNotImplemented
	}
	return s.research.Validate(ctx)
}

// Logout clears the stored token and the signed-in user. Sessions and
// messages are kept; they belong to the local profile, not the token.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.tokens.Clear(); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	return s.sessions.SetUser(ctx, nil)
}

// userFromProfile maps a backend profile onto the local user record.
// The display name falls back to the email local part.
func userFromProfile(p *domain.Profile) domain.User {
	name := p.Name
	if name == "" {
		if at := strings.Index(p.Email, "@"); at > 0 {
			name = p.Email[:at]
		} else {
			name = p.Email
		}
	}
	return domain.User{
		ID:     p.Sub,
		Name:   name,
		Email:  p.Email,
		Avatar: p.Picture,
	}
}
