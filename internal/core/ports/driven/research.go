package driven

import (
	"context"

	"github.com/custodia-labs/marketsight-cli/internal/core/domain"
)

// SignupRequest carries the fields for account creation.
type SignupRequest struct {
	Email    string
	Password string
	Name     string
}

// SignupResult is the backend's answer to a successful signup.
type SignupResult struct {
	Message string
	UserID  string
	Email   string
}

// ResearchAPI is the remote research backend.
// All answer ranking and retrieval happen server-side; the client only
// consumes the request/response contract.
type ResearchAPI interface {
	// Query submits a research question and returns the complete
	// answer with ranked citations. k caps the number of sources;
	// k <= 0 requests the default.
	// Returns domain.ErrAuthRequired before any I/O when no bearer
	// token is stored.
	Query(ctx context.Context, question string, k int) (*domain.QueryResult, error)

	// Signup creates an account.
	Signup(ctx context.Context, req SignupRequest) (*SignupResult, error)

	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, email, password string) (*domain.TokenResponse, error)

	// Profile fetches the signed-in account's profile.
	Profile(ctx context.Context) (*domain.Profile, error)

	// Validate checks that the stored token is still accepted.
	Validate(ctx context.Context) error

	// GoogleAuthURL returns the backend's Google authorization URL,
	// redirecting back to redirectURI after consent.
	GoogleAuthURL(ctx context.Context, redirectURI string) (string, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}
