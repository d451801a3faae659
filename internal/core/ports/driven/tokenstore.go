package driven

// TokenStore persists the bearer token for the research backend.
type TokenStore interface {
	// Token returns the stored token, or domain.ErrAuthRequired when
	// none is stored.
	Token() (string, error)

	// SetToken stores or replaces the token.
	SetToken(token string) error

	// Clear removes the stored token. Clearing an empty store is not
	// an error.
	Clear() error
}
