package driving

import (
	"context"

	"github.com/custodia-labs/marketsight-cli/internal/core/domain"
	"github.com/custodia-labs/marketsight-cli/internal/core/ports/driven"
)

// AuthService manages the account lifecycle: signup, login, logout and
// the Google sign-in hand-off.
type AuthService interface {
	// Signup creates an account. The account still has to log in
	// afterwards; the backend does not auto-issue a token.
	Signup(ctx context.Context, req driven.SignupRequest) (*driven.SignupResult, error)

	// Login exchanges credentials for a token, stores it, fetches the
	// profile and records it as the signed-in user.
	Login(ctx context.Context, email, password string) (*domain.User, error)

	// LoginWithToken stores an externally-obtained token (e.g. from
	// the Google redirect) and records the profile as the signed-in
	// user.
	LoginWithToken(ctx context.Context, token string) (*domain.User, error)

	// GoogleAuthURL returns the browser URL that starts the Google
	// sign-in flow, redirecting to redirectURI when done.
	GoogleAuthURL(ctx context.Context, redirectURI string) (string, error)

	// Validate checks the stored token against the backend.
	Validate(ctx context.Context) error

	// Logout clears the stored token and the signed-in user.
	Logout(ctx context.Context) error
}
